package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/communitycore/membership-system/internal/core/domain"
	"github.com/communitycore/membership-system/internal/core/ports"
)

// AuthService implements registration, login, and bearer resolution.
type AuthService struct {
	credentials ports.CredentialRepository
	members     ports.MemberRepository
	tokens      ports.TokenService
	logger      zerolog.Logger
}

func NewAuthService(
	credentials ports.CredentialRepository,
	members ports.MemberRepository,
	tokens ports.TokenService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		credentials: credentials,
		members:     members,
		tokens:      tokens,
		logger:      logger,
	}
}

// Register creates a credential and its member profile in one atomic step.
// New members always start as role "member" with status "pending".
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.Member, error) {
	if in.Email == "" || in.Password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	cred := &domain.Credential{
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	member := &domain.Member{
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Phone:       in.Phone,
		Address:     in.Address,
		DateOfBirth: in.DateOfBirth,
		Status:      domain.StatusPending,
		Role:        domain.RoleMember,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.members.CreateWithCredential(ctx, cred, member); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(cred.ID)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("member_id", member.ID).Str("email", member.Email).Msg("member registered")
	return token, member, nil
}

// Login verifies the password and returns a fresh token plus the member
// profile. Unknown email and wrong password are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Member, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	cred, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	member, err := s.members.FindByCredentialID(ctx, cred.ID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return "", nil, domain.ErrNotAuthenticated
		}
		return "", nil, err
	}

	token, err := s.tokens.Issue(cred.ID)
	if err != nil {
		return "", nil, err
	}

	return token, member, nil
}

// Me resolves a verified token subject to its member profile.
func (s *AuthService) Me(ctx context.Context, subjectID string) (*domain.Member, error) {
	member, err := s.members.FindByCredentialID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, err
	}
	return member, nil
}
