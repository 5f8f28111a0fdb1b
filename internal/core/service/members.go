package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/communitycore/membership-system/internal/core/domain"
	"github.com/communitycore/membership-system/internal/core/ports"
)

// MemberService implements member administration: listing, profile updates,
// status toggling, password resets, and admin account creation. Every
// mutation writes a best-effort audit entry.
type MemberService struct {
	members     ports.MemberRepository
	credentials ports.CredentialRepository
	audit       ports.AuditService
	logger      zerolog.Logger
}

func NewMemberService(
	members ports.MemberRepository,
	credentials ports.CredentialRepository,
	audit ports.AuditService,
	logger zerolog.Logger,
) *MemberService {
	return &MemberService{
		members:     members,
		credentials: credentials,
		audit:       audit,
		logger:      logger,
	}
}

func (s *MemberService) List(ctx context.Context) ([]*domain.Member, error) {
	return s.members.List(ctx)
}

// UpdateProfile applies a partial update to a member profile. Contact and
// privacy fields may be changed by the member themselves or an admin; role
// and status changes are admin-only. Role values are validated against the
// closed enum here, at the write boundary.
func (s *MemberService) UpdateProfile(ctx context.Context, actor *domain.Member, memberID string, in ports.UpdateProfileInput) (*domain.Member, error) {
	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	isAdmin := actor.Role == domain.RoleAdmin
	changes := make(map[string]any)

	setStr := func(name string, dst *string, src *string) {
		if src != nil && *src != *dst {
			changes[name] = map[string]any{"from": *dst, "to": *src}
			*dst = *src
		}
	}
	setBool := func(name string, dst *bool, src *bool) {
		if src != nil && *src != *dst {
			changes[name] = map[string]any{"from": *dst, "to": *src}
			*dst = *src
		}
	}

	setStr("first_name", &member.FirstName, in.FirstName)
	setStr("last_name", &member.LastName, in.LastName)
	setStr("phone", &member.Phone, in.Phone)
	setStr("address", &member.Address, in.Address)
	setStr("date_of_birth", &member.DateOfBirth, in.DateOfBirth)
	setBool("show_email", &member.ShowEmail, in.ShowEmail)
	setBool("show_phone", &member.ShowPhone, in.ShowPhone)
	setBool("show_address", &member.ShowAddress, in.ShowAddress)
	setBool("show_birthday", &member.ShowBirthday, in.ShowBirthday)

	if in.Role != nil {
		if !isAdmin {
			return nil, &domain.AccessDeniedError{Required: []domain.Role{domain.RoleAdmin}, Actual: actor.Role}
		}
		if !in.Role.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, *in.Role)
		}
		if *in.Role != member.Role {
			changes["role"] = map[string]any{"from": member.Role, "to": *in.Role}
			member.Role = *in.Role
		}
	}
	if in.Status != nil {
		if !isAdmin {
			return nil, &domain.AccessDeniedError{Required: []domain.Role{domain.RoleAdmin}, Actual: actor.Role}
		}
		if !in.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *in.Status)
		}
		if *in.Status != member.Status {
			changes["membership_status"] = map[string]any{"from": member.Status, "to": *in.Status}
			member.Status = *in.Status
		}
	}

	if len(changes) == 0 {
		return member, nil
	}

	member.UpdatedAt = time.Now().UTC()
	if err := s.members.Update(ctx, member); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditEntry{
		ActorID:    actor.ID,
		Action:     "update",
		EntityType: "member",
		EntityID:   member.ID,
		Changes:    changes,
	})
	return member, nil
}

// SetStatus soft-transitions a member's lifecycle state. There is no hard
// delete; deactivation is the terminal operation.
func (s *MemberService) SetStatus(ctx context.Context, actor *domain.Member, memberID string, status domain.MembershipStatus) (*domain.Member, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	prev := member.Status
	if err := s.members.SetStatus(ctx, memberID, status); err != nil {
		return nil, err
	}
	member.Status = status

	s.audit.Record(ctx, domain.AuditEntry{
		ActorID:    actor.ID,
		Action:     "set_status",
		EntityType: "member",
		EntityID:   member.ID,
		Changes:    map[string]any{"membership_status": map[string]any{"from": prev, "to": status}},
	})
	return member, nil
}

// ResetPassword re-hashes the password on the member's linked credential.
func (s *MemberService) ResetPassword(ctx context.Context, actor *domain.Member, memberID, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: password is required", domain.ErrValidation)
	}

	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.credentials.UpdatePasswordHash(ctx, member.CredentialID, string(hash)); err != nil {
		return err
	}

	s.audit.Record(ctx, domain.AuditEntry{
		ActorID:    actor.ID,
		Action:     "reset_password",
		EntityType: "member",
		EntityID:   member.ID,
		Changes:    map[string]any{"password_hash": "rotated"},
	})
	return nil
}

// CreateUser creates a credential and profile with an explicit role, in one
// transaction, on behalf of an admin.
func (s *MemberService) CreateUser(ctx context.Context, actor *domain.Member, in ports.CreateUserInput) (*domain.Member, error) {
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cred := &domain.Credential{
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	member := &domain.Member{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Status:    domain.StatusActive,
		Role:      in.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.members.CreateWithCredential(ctx, cred, member); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditEntry{
		ActorID:    actor.ID,
		Action:     "create",
		EntityType: "member",
		EntityID:   member.ID,
		Changes:    map[string]any{"email": member.Email, "role": member.Role},
	})

	s.logger.Info().Str("member_id", member.ID).Str("role", string(member.Role)).Msg("user created by admin")
	return member, nil
}
