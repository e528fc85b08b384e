package auth

// Categories are managed exclusively through the capability gate: the role
// mapping only ever hands category permissions to wildcard holders, so in
// practice these are admin actions. Reads are public and never come here.

// CanCreateCategory authorizes creating a category
func CanCreateCategory(user *User) Decision {
	if tokenAllows(user, PermissionCategoryCreate) {
		return Allow()
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour créer une catégorie.")
}

// CanUpdateCategory authorizes updating a category
func CanUpdateCategory(user *User) Decision {
	if tokenAllows(user, PermissionCategoryUpdate) {
		return Allow()
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour modifier une catégorie.")
}

// CanDeleteCategory authorizes deleting a category
func CanDeleteCategory(user *User) Decision {
	if tokenAllows(user, PermissionCategoryDelete) {
		return Allow()
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour supprimer une catégorie.")
}
