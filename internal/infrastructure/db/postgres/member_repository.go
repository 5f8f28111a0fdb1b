package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/communitycore/membership-system/internal/core/domain"
)

const memberColumns = `
	id, credential_id, email, first_name, last_name,
	coalesce(phone, ''), coalesce(address, ''), coalesce(date_of_birth, ''),
	membership_status, role, coalesce(family_unit_id, ''),
	show_email, show_phone, show_address, show_birthday,
	created_at, updated_at`

// MemberRepository persists member profiles and their 1:1 credentials.
type MemberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// CreateWithCredential inserts the credential and member rows in one
// transaction so a mid-registration failure leaves neither behind.
func (r *MemberRepository) CreateWithCredential(ctx context.Context, cred *domain.Credential, m *domain.Member) error {
	if cred.ID == "" {
		cred.ID = uuid.NewString()
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CredentialID = cred.ID

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create member: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		insert into credentials(id, email, password_hash, created_at, updated_at)
		values ($1, $2, $3, $4, $5)
	`, cred.ID, cred.Email, cred.PasswordHash, cred.CreatedAt, cred.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create credential: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		insert into members(
			id, credential_id, email, first_name, last_name,
			phone, address, date_of_birth, membership_status, role,
			show_email, show_phone, show_address, show_birthday,
			created_at, updated_at)
		values ($1, $2, $3, $4, $5, nullif($6,''), nullif($7,''), nullif($8,''), $9, $10, $11, $12, $13, $14, $15, $16)
	`, m.ID, m.CredentialID, m.Email, m.FirstName, m.LastName,
		m.Phone, m.Address, m.DateOfBirth, m.Status, m.Role,
		m.ShowEmail, m.ShowPhone, m.ShowAddress, m.ShowBirthday,
		m.CreatedAt, m.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create member: commit: %w", err)
	}
	return nil
}

func (r *MemberRepository) FindByCredentialID(ctx context.Context, credentialID string) (*domain.Member, error) {
	return r.findWhere(ctx, "credential_id = $1", credentialID)
}

func (r *MemberRepository) FindByID(ctx context.Context, id string) (*domain.Member, error) {
	return r.findWhere(ctx, "id = $1", id)
}

func (r *MemberRepository) findWhere(ctx context.Context, where string, arg any) (*domain.Member, error) {
	row := r.db.QueryRowContext(ctx,
		`select `+memberColumns+` from members where `+where, arg)

	m, err := scanMember(row)
	if err != nil {
		return nil, notFoundAs(fmt.Errorf("find member: %w", err), domain.ErrMemberNotFound)
	}
	return m, nil
}

func (r *MemberRepository) List(ctx context.Context) ([]*domain.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`select `+memberColumns+` from members order by created_at desc`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("list members: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *MemberRepository) Update(ctx context.Context, m *domain.Member) error {
	res, err := r.db.ExecContext(ctx, `
		update members set
			first_name = $2, last_name = $3,
			phone = nullif($4,''), address = nullif($5,''), date_of_birth = nullif($6,''),
			membership_status = $7, role = $8,
			show_email = $9, show_phone = $10, show_address = $11, show_birthday = $12,
			updated_at = $13
		where id = $1
	`, m.ID, m.FirstName, m.LastName,
		m.Phone, m.Address, m.DateOfBirth,
		m.Status, m.Role,
		m.ShowEmail, m.ShowPhone, m.ShowAddress, m.ShowBirthday,
		m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) SetStatus(ctx context.Context, id string, status domain.MembershipStatus) error {
	res, err := r.db.ExecContext(ctx, `
		update members set membership_status = $2, updated_at = now()
		where id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("set member status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*domain.Member, error) {
	var m domain.Member
	err := row.Scan(
		&m.ID, &m.CredentialID, &m.Email, &m.FirstName, &m.LastName,
		&m.Phone, &m.Address, &m.DateOfBirth,
		&m.Status, &m.Role, &m.FamilyUnitID,
		&m.ShowEmail, &m.ShowPhone, &m.ShowAddress, &m.ShowBirthday,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
