package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// FindByAccount loads the row for accountID, returning ErrNotFound when absent.
func FindByAccount(ctx context.Context, db bun.IDB, accountID int64) (*UserPreference, error) {
	row := new(UserPreference)
	err := db.NewSelect().
		Model(row).
		Where("?TableAlias.account_id = ?", accountID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user %d: %w", accountID, err)
	}
	return row, nil
}

// Upsert inserts the row or, when the account already exists, overwrites only the
// supplied columns. It returns the row id.
func Upsert(ctx context.Context, db bun.IDB, in UpsertInput) (int64, error) {
	row := &UserPreference{
		AccountID:   in.AccountID,
		Username:    in.Profile.Username,
		DisplayName: in.Profile.DisplayName,
		IsPremium:   in.Profile.IsPremium,
		Language:    in.Language,
		AddedBy:     in.AddedBy,
	}

	q := db.NewInsert().
		Model(row).
		ExcludeColumn("id", "created_at").
		On("CONFLICT (account_id) DO UPDATE")

	for _, col := range conflictColumns(in) {
		q = q.Set("? = EXCLUDED.?", bun.Ident(col), bun.Ident(col))
	}

	if _, err := q.Returning("id").Exec(ctx); err != nil {
		return 0, fmt.Errorf("upsert user %d: %w", in.AccountID, err)
	}
	return row.ID, nil
}

// conflictColumns lists the columns overwritten on conflict. With nothing supplied
// the key is rewritten to itself so RETURNING still yields the existing id.
func conflictColumns(in UpsertInput) []string {
	var cols []string
	if in.Profile.Username != nil {
		cols = append(cols, "username")
	}
	if in.Profile.DisplayName != nil {
		cols = append(cols, "display_name")
	}
	if in.Profile.IsPremium != nil {
		cols = append(cols, "is_premium")
	}
	if in.Language != nil {
		cols = append(cols, "language")
	}
	if len(cols) == 0 {
		cols = append(cols, "account_id")
	}
	return cols
}
