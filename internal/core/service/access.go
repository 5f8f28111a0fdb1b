package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/communitycore/membership-system/internal/core/domain"
	"github.com/communitycore/membership-system/internal/core/ports"
)

// AccessGate is the single role-authorization predicate for the whole API.
// Routes declare their allowed-role sets; the gate itself holds no policy.
type AccessGate struct {
	members ports.MemberRepository
	logger  zerolog.Logger
}

func NewAccessGate(members ports.MemberRepository, logger zerolog.Logger) *AccessGate {
	return &AccessGate{members: members, logger: logger}
}

// Authorize resolves subjectID to its member profile and checks the role.
// A credential with no linked profile fails with ErrNotAuthenticated rather
// than defaulting to any role.
func (g *AccessGate) Authorize(ctx context.Context, subjectID string, allowed ...domain.Role) (*domain.Member, error) {
	member, err := g.resolve(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	if !roleAllowed(member.Role, allowed) {
		return nil, g.deny(member, allowed)
	}
	return member, nil
}

// AuthorizeSelfOrRole permits the subject when it owns the target resource,
// or when its role is in the allowed set.
func (g *AccessGate) AuthorizeSelfOrRole(ctx context.Context, subjectID, ownerID string, allowed ...domain.Role) (*domain.Member, error) {
	member, err := g.resolve(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	if member.ID == ownerID || roleAllowed(member.Role, allowed) {
		return member, nil
	}
	return nil, g.deny(member, allowed)
}

func (g *AccessGate) resolve(ctx context.Context, subjectID string) (*domain.Member, error) {
	if subjectID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	member, err := g.members.FindByCredentialID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, err
	}
	return member, nil
}

// deny logs the required-vs-actual detail server-side; the caller only ever
// sees the generic forbidden error.
func (g *AccessGate) deny(member *domain.Member, allowed []domain.Role) error {
	err := &domain.AccessDeniedError{Required: allowed, Actual: member.Role}
	g.logger.Warn().
		Str("member_id", member.ID).
		Str("role", string(member.Role)).
		Msg(err.Error())
	return err
}

func roleAllowed(role domain.Role, allowed []domain.Role) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
