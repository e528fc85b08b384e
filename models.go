package auth

import (
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleAdmin is the platform administrator role
	RoleAdmin UserRole = "admin"
	// RoleUser is the default role for registered accounts
	RoleUser UserRole = "user"
	// RoleCompanyAdmin manages a single company and its resources
	RoleCompanyAdmin UserRole = "company:admin"
	// RoleCompanyAgent operates on behalf of a company with a reduced grant
	RoleCompanyAgent UserRole = "company:agent"
)

// IsValid checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleUser, RoleCompanyAdmin, RoleCompanyAgent:
		return true
	default:
		return false
	}
}

// IsCompanyRole reports whether the role is scoped to a company
func IsCompanyRole(r UserRole) bool {
	return r == RoleCompanyAdmin || r == RoleCompanyAgent
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(strings.TrimSpace(roleStr))
	return role, IsValidRole(role)
}

// User is the account model. CurrentToken carries the capability token the
// request authenticated with; it is attached per request and never persisted.
type User struct {
	bun.BaseModel      `bun:"table:users,alias:usr"`
	ID                 uuid.UUID    `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role               UserRole     `bun:"role,notnull" json:"role,omitempty"`
	CompanyID          *uuid.UUID   `bun:"company_id,nullzero,type:uuid" json:"company_id,omitempty"`
	FirstName          string       `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName           string       `bun:"last_name,notnull" json:"last_name,omitempty"`
	Email              string       `bun:"email,notnull,unique" json:"email,omitempty"`
	UpdateEmailRequest *string      `bun:"update_email_request,nullzero" json:"-"`
	Phone              string       `bun:"phone" json:"phone,omitempty"`
	Address            string       `bun:"address" json:"address,omitempty"`
	City               string       `bun:"city" json:"city,omitempty"`
	State              string       `bun:"state" json:"state,omitempty"`
	ZipCode            string       `bun:"zip_code" json:"zip_code,omitempty"`
	Country            string       `bun:"country" json:"country,omitempty"`
	ProfileImage       string       `bun:"profile_image" json:"profile_image,omitempty"`
	PasswordHash       string       `bun:"password_hash" json:"-"`
	VerifiedAt         *time.Time   `bun:"verified_at,nullzero" json:"verified_at,omitempty"`
	BlockedAt          *time.Time   `bun:"blocked_at,nullzero" json:"blocked_at,omitempty"`
	LastLoginAt        *time.Time   `bun:"last_login_at,nullzero" json:"last_login_at,omitempty"`
	LoginAttempts      int          `bun:"login_attempts" json:"-"`
	LoginAttemptAt     *time.Time   `bun:"login_attempt_at,nullzero" json:"-"`
	CreatedAt          *time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt          *time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt          *time.Time   `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
	CurrentToken       *AccessToken `bun:"-" json:"-"`
}

// DisplayName joins first and last names for presentation
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsBlocked reports whether the account is suspended
func (u *User) IsBlocked() bool {
	return u != nil && u.BlockedAt != nil
}

// IsVerified reports whether the account confirmed its email
func (u *User) IsVerified() bool {
	return u != nil && u.VerifiedAt != nil
}

// HasCompany reports whether the account is affiliated with a company
func (u *User) HasCompany() bool {
	return u != nil && u.CompanyID != nil && *u.CompanyID != uuid.Nil
}

// BelongsToCompany checks the account's company affiliation against id
func (u *User) BelongsToCompany(id uuid.UUID) bool {
	return u.HasCompany() && *u.CompanyID == id
}

// Validate enforces the role/company invariant: only company roles may carry
// a company id, admin and user accounts never do.
func (u *User) Validate() error {
	if u == nil {
		return errors.New("user must not be nil", errors.CategoryBadInput)
	}

	if !IsValidRole(u.Role) {
		return errors.New("unknown user role", errors.CategoryValidation).
			WithMetadata(map[string]any{"role": u.Role})
	}

	if IsCompanyRole(u.Role) {
		if !u.HasCompany() {
			return errors.New("company roles require a company affiliation", errors.CategoryValidation).
				WithMetadata(map[string]any{"role": u.Role})
		}
		return nil
	}

	if u.HasCompany() {
		return errors.New("only company roles may carry a company affiliation", errors.CategoryValidation).
			WithMetadata(map[string]any{"role": u.Role})
	}

	return nil
}
