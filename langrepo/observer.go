package langrepo

// CacheResult is the outcome of one cache lookup.
type CacheResult string

const (
	CacheHit   CacheResult = "hit"
	CacheMiss  CacheResult = "miss"
	CacheError CacheResult = "error"
)

// Observer receives cache events. Implementations must be safe for concurrent use.
type Observer interface {
	CacheLookup(result CacheResult)
	CacheWriteFailed()
}

type nopObserver struct{}

func (nopObserver) CacheLookup(CacheResult) {}
func (nopObserver) CacheWriteFailed()       {}
