package ports

import (
	"context"

	"github.com/communitycore/membership-system/internal/core/domain"
)

// CredentialRepository defines persistence for login identities.
type CredentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Credential, error)
	// UpdatePasswordHash replaces the stored hash for a credential.
	UpdatePasswordHash(ctx context.Context, credentialID, hash string) error
}

// MemberRepository defines persistence for member profiles.
type MemberRepository interface {
	// CreateWithCredential inserts the credential and its member profile in
	// one transaction. Either both rows exist afterwards or neither does.
	// A duplicate email fails with domain.ErrEmailTaken.
	CreateWithCredential(ctx context.Context, cred *domain.Credential, m *domain.Member) error
	// FindByCredentialID resolves a token subject to its member profile.
	// Returns domain.ErrMemberNotFound when no profile is linked.
	FindByCredentialID(ctx context.Context, credentialID string) (*domain.Member, error)
	FindByID(ctx context.Context, id string) (*domain.Member, error)
	List(ctx context.Context) ([]*domain.Member, error)
	Update(ctx context.Context, m *domain.Member) error
	SetStatus(ctx context.Context, id string, status domain.MembershipStatus) error
}

// SettingsRepository defines persistence for the settings catalogue.
type SettingsRepository interface {
	GetAll(ctx context.Context) ([]domain.SettingEntry, error)
	// UpsertAll writes every entry in one transaction: either all keys are
	// persisted or none are. Existing keys are overwritten, never duplicated.
	UpsertAll(ctx context.Context, entries []domain.SettingEntry) error
}

// AuditRepository defines persistence for the append-only audit log.
type AuditRepository interface {
	Insert(ctx context.Context, e *domain.AuditEntry) error
	// Query returns entries matching all populated filter fields, newest-first.
	Query(ctx context.Context, f domain.AuditFilter) ([]*domain.AuditEntry, error)
}
