package ports

import (
	"context"

	"github.com/communitycore/membership-system/internal/core/domain"
)

// UpdateProfileInput carries a partial member-profile update. Contact and
// privacy fields may be changed by the member themselves; Role and Status
// are admin-only and rejected for self-updates.
type UpdateProfileInput struct {
	FirstName    *string
	LastName     *string
	Phone        *string
	Address      *string
	DateOfBirth  *string
	ShowEmail    *bool
	ShowPhone    *bool
	ShowAddress  *bool
	ShowBirthday *bool
	Role         *domain.Role
	Status       *domain.MembershipStatus
}

// CreateUserInput is the admin-side account creation payload.
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
}

// MemberService implements member administration. The acting member has
// already been resolved by the access gate; self-or-admin rules that depend
// on the target resource are enforced here.
type MemberService interface {
	List(ctx context.Context) ([]*domain.Member, error)
	UpdateProfile(ctx context.Context, actor *domain.Member, memberID string, in UpdateProfileInput) (*domain.Member, error)
	SetStatus(ctx context.Context, actor *domain.Member, memberID string, status domain.MembershipStatus) (*domain.Member, error)
	ResetPassword(ctx context.Context, actor *domain.Member, memberID, newPassword string) error
	CreateUser(ctx context.Context, actor *domain.Member, in CreateUserInput) (*domain.Member, error)
}
