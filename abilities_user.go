package auth

// Account administration is purely capability gated; only wildcard sessions
// qualify under the standard role mapping.

// CanReadUsers authorizes listing and inspecting accounts
func CanReadUsers(user *User) Decision {
	if tokenAllows(user, PermissionUserRead) {
		return Allow()
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour lire les utilisateurs.")
}

// CanCreateUser authorizes provisioning an account
func CanCreateUser(user *User) Decision {
	if tokenAllows(user, PermissionUserCreate) {
		return Allow()
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour créer un utilisateur.")
}

// CanUpdateUser authorizes editing another account
func CanUpdateUser(user *User) Decision {
	if tokenAllows(user, PermissionUserUpdate) {
		return Allow()
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour modifier un utilisateur.")
}

// CanDeleteUser authorizes removing an account
func CanDeleteUser(user *User) Decision {
	if tokenAllows(user, PermissionUserDelete) {
		return Allow()
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour supprimer un utilisateur.")
}
