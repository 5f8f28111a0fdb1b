package ports

import (
	"context"

	"github.com/communitycore/membership-system/internal/core/domain"
)

// TokenService issues and verifies signed bearer tokens. Verification is a
// pure function of token, secret, and clock; no store is consulted.
type TokenService interface {
	Issue(subjectID string) (string, error)
	Verify(token string) (subjectID string, err error)
}

// RegisterInput carries the self-registration payload.
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Phone       string
	Address     string
	DateOfBirth string
}

// AuthService implements registration, login, and bearer resolution.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.Member, error)
	Login(ctx context.Context, email, password string) (string, *domain.Member, error)
	Me(ctx context.Context, subjectID string) (*domain.Member, error)
}

// AccessGate resolves a token subject to its member profile and checks the
// profile's role against the operation's allowed set. It holds no per-route
// policy table: callers declare the allowed roles per operation.
type AccessGate interface {
	Authorize(ctx context.Context, subjectID string, allowed ...domain.Role) (*domain.Member, error)
	// AuthorizeSelfOrRole additionally permits the subject when it owns the
	// target resource, regardless of role.
	AuthorizeSelfOrRole(ctx context.Context, subjectID, ownerID string, allowed ...domain.Role) (*domain.Member, error)
}
