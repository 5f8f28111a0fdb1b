package domain

import "time"

// Role controls which operations a member may perform. The set is closed:
// any value outside these four constants must be rejected at write time.
type Role string

const (
	RoleMember         Role = "member"
	RoleAdmin          Role = "admin"
	RoleWelfareAdmin   Role = "welfare_admin"
	RoleFinancialAdmin Role = "financial_admin"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleWelfareAdmin, RoleFinancialAdmin:
		return true
	}
	return false
}

// MembershipStatus is the soft lifecycle state of a member. Members are
// never hard-deleted; they transition to inactive instead.
type MembershipStatus string

const (
	StatusActive   MembershipStatus = "active"
	StatusInactive MembershipStatus = "inactive"
	StatusPending  MembershipStatus = "pending"
)

// Valid reports whether s is a known membership status.
func (s MembershipStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	}
	return false
}

// Credential is a login identity: email plus password hash. It exists in
// exactly 1:1 correspondence with a Member.
type Credential struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Member is a person record tied to a Credential, carrying the role used
// for authorization and per-field privacy preferences.
type Member struct {
	ID           string           `json:"id"`
	CredentialID string           `json:"credential_id"`
	Email        string           `json:"email"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	Phone        string           `json:"phone,omitempty"`
	Address      string           `json:"address,omitempty"`
	DateOfBirth  string           `json:"date_of_birth,omitempty"`
	Status       MembershipStatus `json:"membership_status"`
	Role         Role             `json:"role"`
	FamilyUnitID string           `json:"family_unit_id,omitempty"`
	ShowEmail    bool             `json:"show_email"`
	ShowPhone    bool             `json:"show_phone"`
	ShowAddress  bool             `json:"show_address"`
	ShowBirthday bool             `json:"show_birthday"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
