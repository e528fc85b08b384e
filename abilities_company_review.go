package auth

// Reviews belong to the end users of the directory: company accounts never
// author, edit, or remove them, even when their session happens to carry the
// capability. Admins moderate everything.

// CanCreateCompanyReview authorizes publishing a review
func CanCreateCompanyReview(user *User) Decision {
	if tokenAllows(user, PermissionReviewCreate) {
		if hasRole(user, RoleUser, RoleAdmin) {
			return Allow()
		}
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour créer un avis.")
}

// CanUpdateCompanyReview authorizes editing a review. Users may only edit
// their own; admins may edit any.
func CanUpdateCompanyReview(user *User, review *CompanyReview) Decision {
	if tokenAllows(user, PermissionReviewUpdate) {
		if hasRole(user, RoleAdmin) {
			return Allow()
		}
		if hasRole(user, RoleUser) && owns(user, review.OwnerID()) {
			return Allow()
		}
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour modifier cet avis.")
}

// CanDeleteCompanyReview authorizes removing a review. Users may only remove
// their own; admins may remove any; company roles are always excluded.
func CanDeleteCompanyReview(user *User, review *CompanyReview) Decision {
	if tokenAllows(user, PermissionReviewDelete) {
		if hasRole(user, RoleAdmin) {
			return Allow()
		}
		if hasRole(user, RoleUser) && owns(user, review.OwnerID()) {
			return Allow()
		}
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour supprimer cet avis.")
}
