package auth

import (
	"net/http"

	"github.com/google/uuid"
)

// ReasonCode is the stable machine-readable classifier attached to denials
type ReasonCode string

const (
	// ReasonNotAllowed covers every role, ownership, and capability failure
	ReasonNotAllowed ReasonCode = "not_allowed"
	// ReasonAccountBlocked marks denials caused by a suspended account
	ReasonAccountBlocked ReasonCode = "account_blocked"
	// ReasonAdminOnly marks actions reserved to platform administrators
	ReasonAdminOnly ReasonCode = "admin_only"
)

// Decision is the outcome of an authorization check. Denials always carry a
// reason code, a display message, and a fixed 403 status; they are expected
// results, not errors.
type Decision struct {
	Allowed bool       `json:"allowed"`
	Reason  ReasonCode `json:"reason,omitempty"`
	Message string     `json:"message,omitempty"`
	Status  int        `json:"status,omitempty"`
}

// Allow grants access
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny refuses access with the given reason and display message
func Deny(reason ReasonCode, message string) Decision {
	return Decision{
		Allowed: false,
		Reason:  reason,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// Denied is a readability helper for callers gating on the result
func (d Decision) Denied() bool {
	return !d.Allowed
}

// tokenAllows checks the capability gate. A nil user or a user without a
// capability token attached is unauthenticated and never passes.
func tokenAllows(user *User, permission Permission) bool {
	if user == nil || user.CurrentToken == nil {
		return false
	}
	return user.CurrentToken.Allows(permission)
}

// hasRole reports whether the user holds one of the given roles, nil-safe
func hasRole(user *User, roles ...UserRole) bool {
	if user == nil {
		return false
	}
	for _, r := range roles {
		if user.Role == r {
			return true
		}
	}
	return false
}

// owns reports whether the user is the owner of a resource, nil-safe
func owns(user *User, ownerID uuid.UUID) bool {
	return user != nil && ownerID != uuid.Nil && user.ID == ownerID
}

// sameCompany reports whether the user's affiliation matches the resource's
// owning company. A missing affiliation on either side never matches, so two
// accounts without a company are not treated as colleagues.
func sameCompany(user *User, companyID uuid.UUID) bool {
	return user != nil && companyID != uuid.Nil && user.BelongsToCompany(companyID)
}
