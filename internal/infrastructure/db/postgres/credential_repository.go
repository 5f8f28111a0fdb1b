package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/communitycore/membership-system/internal/core/domain"
)

// CredentialRepository persists login identities.
type CredentialRepository struct {
	db *sql.DB
}

func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	row := r.db.QueryRowContext(ctx, `
		select id, email, password_hash, created_at, updated_at
		from credentials where email = $1
	`, email)

	var c domain.Credential
	if err := row.Scan(&c.ID, &c.Email, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, notFoundAs(fmt.Errorf("find credential: %w", err), domain.ErrMemberNotFound)
	}
	return &c, nil
}

func (r *CredentialRepository) UpdatePasswordHash(ctx context.Context, credentialID, hash string) error {
	res, err := r.db.ExecContext(ctx, `
		update credentials set password_hash = $2, updated_at = now()
		where id = $1
	`, credentialID, hash)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}
