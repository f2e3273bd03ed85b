package cache

import (
	"strconv"
	"strings"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = ":"

const (
	defaultKeyPrefix     = "user"
	defaultLanguageField = "lang"
)

// fieldKeySerializer produces keys of the form prefix:accountID:field.
type fieldKeySerializer struct {
	prefix string
	field  string
}

// NewLanguageKeySerializer returns the serializer for the language entry,
// producing "user:{accountID}:lang".
func NewLanguageKeySerializer() KeySerializer {
	return NewKeySerializer(defaultKeyPrefix, defaultLanguageField)
}

// NewKeySerializer returns a serializer for prefix:accountID:field keys. Empty
// segments fall back to the language defaults.
func NewKeySerializer(prefix, field string) KeySerializer {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	if field == "" {
		field = defaultLanguageField
	}
	return &fieldKeySerializer{prefix: prefix, field: field}
}

// SerializeKey builds the key for accountID.
func (s *fieldKeySerializer) SerializeKey(accountID int64) string {
	var b strings.Builder
	b.Grow(len(s.prefix) + len(s.field) + 22)
	b.WriteString(s.prefix)
	b.WriteString(KeySeparator)
	b.WriteString(strconv.FormatInt(accountID, 10))
	b.WriteString(KeySeparator)
	b.WriteString(s.field)
	return b.String()
}
