package auth

// Permission names a fine-grained action grant carried by a capability token.
// The set is closed: tokens only ever hold values from this list plus the
// wildcard, so a typo in a permission check cannot silently widen access.
type Permission string

const (
	// PermissionWildcard grants every permission. Only admin tokens carry it.
	PermissionWildcard Permission = "*"

	PermissionCompanyRead   Permission = "company:read"
	PermissionCompanyCreate Permission = "company:create"
	PermissionCompanyUpdate Permission = "company:update"
	PermissionCompanyDelete Permission = "company:delete"
	PermissionCompanyBlock  Permission = "company:block"

	PermissionCompanyImageUpdate Permission = "company-image:update"
	PermissionCompanyImageDelete Permission = "company-image:delete"

	PermissionPostRead   Permission = "post:read"
	PermissionPostCreate Permission = "post:create"
	PermissionPostEdit   Permission = "post:edit"
	PermissionPostDelete Permission = "post:delete"

	PermissionCategoryCreate Permission = "category:create"
	PermissionCategoryUpdate Permission = "category:update"
	PermissionCategoryDelete Permission = "category:delete"

	PermissionReviewCreate Permission = "company_review:create"
	PermissionReviewUpdate Permission = "company_review:update"
	PermissionReviewDelete Permission = "company_review:delete"

	PermissionUserRead   Permission = "user:read"
	PermissionUserCreate Permission = "user:create"
	PermissionUserUpdate Permission = "user:update"
	PermissionUserDelete Permission = "user:delete"
)

// PermissionSet is the grant attached to a capability token
type PermissionSet []Permission

// Contains reports whether p is granted, honoring the wildcard
func (s PermissionSet) Contains(p Permission) bool {
	for _, granted := range s {
		if granted == PermissionWildcard || granted == p {
			return true
		}
	}
	return false
}

// Strings returns the set as plain strings for persistence
func (s PermissionSet) Strings() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = string(p)
	}
	return out
}

// PermissionSetFromStrings rebuilds a set from its persisted form
func PermissionSetFromStrings(raw []string) PermissionSet {
	out := make(PermissionSet, len(raw))
	for i, p := range raw {
		out[i] = Permission(p)
	}
	return out
}

// PermissionsFor maps a role to the maximum grant a session of that role may
// hold. The mapping runs at every token issuance; tokens never re-derive
// their grant after the fact, so a role change only takes effect on re-login.
func PermissionsFor(role UserRole) PermissionSet {
	switch role {
	case RoleAdmin:
		return PermissionSet{PermissionWildcard}
	case RoleCompanyAdmin:
		return PermissionSet{
			PermissionCompanyRead,
			PermissionCompanyCreate,
			PermissionCompanyUpdate,
			PermissionCompanyDelete,
			PermissionCompanyImageUpdate,
			PermissionCompanyImageDelete,
			PermissionPostRead,
			PermissionPostEdit,
			PermissionPostCreate,
			PermissionPostDelete,
		}
	case RoleCompanyAgent:
		return PermissionSet{
			PermissionCompanyRead,
			PermissionCompanyUpdate,
			PermissionCompanyImageUpdate,
			PermissionCompanyImageDelete,
			PermissionPostRead,
			PermissionPostEdit,
			PermissionPostCreate,
			PermissionPostDelete,
		}
	default:
		return PermissionSet{
			PermissionCompanyRead,
			PermissionPostRead,
		}
	}
}
