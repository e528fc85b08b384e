package auth

// Posts are authored by admins and company accounts. Every mutation checks
// the post capability on the session first; regular user sessions never
// carry one.

// CanCreatePost authorizes publishing a post
func CanCreatePost(user *User) Decision {
	if tokenAllows(user, PermissionPostCreate) {
		if !hasRole(user, RoleUser) {
			return Allow()
		}
	}

	return Deny(ReasonNotAllowed, "Seuls les administrateurs et les utilisateurs d'entreprise peuvent créer des posts.")
}

// CanEditPost authorizes editing a post. Authors edit their own; company
// accounts edit posts authored within their company; admins edit any.
func CanEditPost(user *User, post *Post) Decision {
	if tokenAllows(user, PermissionPostEdit) {
		if hasRole(user, RoleAdmin) {
			return Allow()
		}
		if owns(user, post.OwnerID()) {
			return Allow()
		}
		if hasRole(user, RoleCompanyAdmin, RoleCompanyAgent) && sameCompany(user, post.OwningCompanyID()) {
			return Allow()
		}
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour modifier ce post.")
}

// CanDeletePost authorizes removing a post, under the same ownership rules
// as editing
func CanDeletePost(user *User, post *Post) Decision {
	if tokenAllows(user, PermissionPostDelete) {
		if hasRole(user, RoleAdmin) {
			return Allow()
		}
		if owns(user, post.OwnerID()) {
			return Allow()
		}
		if hasRole(user, RoleCompanyAdmin, RoleCompanyAgent) && sameCompany(user, post.OwningCompanyID()) {
			return Allow()
		}
	}

	return Deny(ReasonNotAllowed, "Seuls les administrateurs et les utilisateurs d'entreprise peuvent supprimer des posts.")
}
