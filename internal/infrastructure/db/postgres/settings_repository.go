package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/communitycore/membership-system/internal/core/domain"
)

// SettingsRepository persists the key/value settings catalogue.
type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) GetAll(ctx context.Context) ([]domain.SettingEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		select key, value, category, coalesce(description, ''),
		       coalesce(updated_by, ''), updated_at
		from settings
		order by category, key
	`)
	if err != nil {
		return nil, fmt.Errorf("settings: select: %w", err)
	}
	defer rows.Close()

	var entries []domain.SettingEntry
	for rows.Next() {
		var e domain.SettingEntry
		if err := rows.Scan(&e.Key, &e.Value, &e.Category, &e.Description, &e.UpdatedBy, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("settings: scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpsertAll writes every entry inside one transaction. A failure on any key
// rolls back the whole batch so readers never observe a partial update.
func (r *SettingsRepository) UpsertAll(ctx context.Context, entries []domain.SettingEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("settings: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			insert into settings(key, value, category, updated_by, updated_at)
			values ($1, $2, $3, $4, $5)
			on conflict (key) do update
			set value = excluded.value,
			    category = excluded.category,
			    updated_by = excluded.updated_by,
			    updated_at = excluded.updated_at
		`, e.Key, e.Value, e.Category, e.UpdatedBy, e.UpdatedAt); err != nil {
			return fmt.Errorf("settings: upsert %s: %w", e.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("settings: commit: %w", err)
	}
	return nil
}
