package store

import (
	"time"

	"github.com/uptrace/bun"
)

// UserPreference is one row of the users table, keyed by the account identifier.
type UserPreference struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID          int64     `bun:"id,pk,autoincrement"`
	AccountID   int64     `bun:"account_id,notnull,unique"`
	Username    *string   `bun:"username"`
	DisplayName *string   `bun:"display_name"`
	IsPremium   *bool     `bun:"is_premium"`
	Language    *string   `bun:"language,type:varchar(10)"`
	AddedBy     *string   `bun:"added_by"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// HasLanguage reports whether the user already chose a language.
func (u *UserPreference) HasLanguage() bool {
	return u != nil && u.Language != nil && *u.Language != ""
}

// Profile carries the refreshable profile columns. Nil fields are not supplied
// and keep their stored value on update.
type Profile struct {
	Username    *string
	DisplayName *string
	IsPremium   *bool
}

// UpsertInput describes one upsert. Language is only written when non-nil and
// AddedBy is only recorded when the row is created.
type UpsertInput struct {
	AccountID int64
	Profile   Profile
	Language  *string
	AddedBy   *string
}
