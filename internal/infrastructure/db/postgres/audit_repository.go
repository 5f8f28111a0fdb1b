package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/communitycore/membership-system/internal/core/domain"
)

// AuditRepository persists the append-only audit log.
type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	changes, err := json.Marshal(e.Changes)
	if err != nil {
		return fmt.Errorf("audit: encode changes: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `
		insert into audit_logs(id, actor_id, action, entity_type, entity_id, changes, ip_address, created_at)
		values ($1, $2, $3, $4, $5, $6, nullif($7,''), $8)
	`, e.ID, e.ActorID, e.Action, e.EntityType, e.EntityID, changes, e.IPAddress, e.CreatedAt); err != nil {
		return fmt.Errorf("audit: insert: %w", err)
	}
	return nil
}

// Query builds the WHERE clause from the populated filter fields only, with
// positional parameters throughout.
func (r *AuditRepository) Query(ctx context.Context, f domain.AuditFilter) ([]*domain.AuditEntry, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.ActorID != "" {
		add("actor_id = $%d", f.ActorID)
	}
	if f.EntityType != "" {
		add("entity_type = $%d", f.EntityType)
	}
	if f.EntityID != "" {
		add("entity_id = $%d", f.EntityID)
	}
	if !f.From.IsZero() {
		add("created_at >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("created_at <= $%d", f.To)
	}

	query := `
		select id, actor_id, action, entity_type, entity_id, changes,
		       coalesce(ip_address, ''), created_at
		from audit_logs`
	if len(conds) > 0 {
		query += " where " + strings.Join(conds, " and ")
	}
	query += " order by created_at desc"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit: query: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		var (
			e       domain.AuditEntry
			changes []byte
		)
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.EntityType, &e.EntityID, &changes, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}
		if len(changes) > 0 {
			_ = json.Unmarshal(changes, &e.Changes)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
