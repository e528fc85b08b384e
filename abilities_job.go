package auth

// Job mutations gate on account suspension before any role or ownership
// logic: a blocked account is denied with account_blocked even when its role
// would otherwise qualify.

// CanCreateJob authorizes publishing a job posting
func CanCreateJob(user *User) Decision {
	if user.IsBlocked() {
		return Deny(ReasonAccountBlocked, "Votre compte est bloqué, vous ne pouvez pas créer d'emploi.")
	}

	if user == nil || hasRole(user, RoleUser) {
		return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour créer un emploi.")
	}

	return Allow()
}

// CanEditJob authorizes editing a job posting
func CanEditJob(user *User, job *Job) Decision {
	if user.IsBlocked() {
		return Deny(ReasonAccountBlocked, "Votre compte est bloqué, vous ne pouvez pas modifier cet emploi.")
	}

	if hasRole(user, RoleAdmin) {
		return Allow()
	}

	if sameCompany(user, job.OwningCompanyID()) {
		return Allow()
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour modifier cet emploi.")
}

// CanDeleteJob authorizes removing a job posting
func CanDeleteJob(user *User, job *Job) Decision {
	if user.IsBlocked() {
		return Deny(ReasonAccountBlocked, "Votre compte est bloqué, vous ne pouvez pas supprimer cet emploi.")
	}

	if hasRole(user, RoleAdmin) {
		return Allow()
	}

	if sameCompany(user, job.OwningCompanyID()) {
		return Allow()
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour supprimer cet emploi.")
}

// CanManageJobStatus authorizes publishing, closing, or expiring a posting
func CanManageJobStatus(user *User, job *Job) Decision {
	if user.IsBlocked() {
		return Deny(ReasonAccountBlocked, "Votre compte est bloqué, vous ne pouvez pas modifier le statut de cet emploi.")
	}

	if hasRole(user, RoleAdmin) {
		return Allow()
	}

	if sameCompany(user, job.OwningCompanyID()) {
		return Allow()
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour modifier le statut de cet emploi.")
}

// CanReadJobStatistics authorizes the platform-wide job reporting endpoints
func CanReadJobStatistics(user *User) Decision {
	if hasRole(user, RoleAdmin) {
		return Allow()
	}

	return Deny(ReasonAdminOnly, "Seuls les administrateurs peuvent accéder aux statistiques des emplois.")
}
