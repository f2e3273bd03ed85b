package txscope

import "github.com/puzpuzpuz/xsync/v3"

// Well known metadata keys.
const (
	MetaRequestID = "request_id"
)

// Metadata is a concurrency safe key/value bag attached to a Handle.
type Metadata struct {
	m *xsync.MapOf[string, any]
}

// NewMetadata returns an empty bag.
func NewMetadata() *Metadata {
	return &Metadata{m: xsync.NewMapOf[string, any]()}
}

// Get returns the value stored under key.
func (md *Metadata) Get(key string) (any, bool) {
	return md.m.Load(key)
}

// GetString returns the value under key when it is a string.
func (md *Metadata) GetString(key string) string {
	v, ok := md.m.Load(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Set stores value under key.
func (md *Metadata) Set(key string, value any) {
	md.m.Store(key, value)
}

// Delete removes key.
func (md *Metadata) Delete(key string) {
	md.m.Delete(key)
}

// Len reports the number of entries.
func (md *Metadata) Len() int {
	return md.m.Size()
}

// Range calls fn for each entry until fn returns false.
func (md *Metadata) Range(fn func(key string, value any) bool) {
	md.m.Range(fn)
}
