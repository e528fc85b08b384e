package auth

// CanApplyForJob authorizes submitting an application. Only regular user
// accounts apply; blocked accounts are refused first.
func CanApplyForJob(user *User) Decision {
	if user.IsBlocked() {
		return Deny(ReasonAccountBlocked, "Votre compte est bloqué, vous ne pouvez pas postuler pour un emploi.")
	}

	if !hasRole(user, RoleUser) {
		return Deny(ReasonNotAllowed, "Seuls les utilisateurs peuvent postuler pour des offres d'emploi.")
	}

	return Allow()
}

// CanEditJobApplication authorizes changing an application's review state.
// Company admins and agents handle applications to their own company's jobs.
func CanEditJobApplication(user *User, application *JobApplication) Decision {
	if user.IsBlocked() {
		return Deny(ReasonAccountBlocked, "Votre compte est bloqué, vous ne pouvez pas modifier cette candidature.")
	}

	if hasRole(user, RoleAdmin) {
		return Allow()
	}

	if hasRole(user, RoleCompanyAdmin, RoleCompanyAgent) && sameCompany(user, application.OwningCompanyID()) {
		return Allow()
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour modifier cette candidature.")
}

// CanDeleteJobApplication authorizes withdrawing or removing an application.
// Applicants may remove their own; company admins may remove those targeting
// their company; agents may not.
func CanDeleteJobApplication(user *User, application *JobApplication) Decision {
	if user.IsBlocked() {
		return Deny(ReasonAccountBlocked, "Votre compte est bloqué, vous ne pouvez pas supprimer cette candidature.")
	}

	if hasRole(user, RoleAdmin) {
		return Allow()
	}

	if hasRole(user, RoleCompanyAdmin) && sameCompany(user, application.OwningCompanyID()) {
		return Allow()
	}

	if owns(user, application.OwnerID()) {
		return Allow()
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour supprimer cette candidature.")
}

// CanViewJobApplication authorizes reading a single application
func CanViewJobApplication(user *User, application *JobApplication) Decision {
	if hasRole(user, RoleAdmin) {
		return Allow()
	}

	if owns(user, application.OwnerID()) {
		return Allow()
	}

	if hasRole(user, RoleCompanyAdmin, RoleCompanyAgent) && sameCompany(user, application.OwningCompanyID()) {
		return Allow()
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour voir cette candidature.")
}

// CanViewJobApplicationsForJob authorizes listing the applications submitted
// to a specific posting
func CanViewJobApplicationsForJob(user *User, job *Job) Decision {
	if hasRole(user, RoleAdmin) {
		return Allow()
	}

	if hasRole(user, RoleCompanyAdmin, RoleCompanyAgent) && sameCompany(user, job.OwningCompanyID()) {
		return Allow()
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour voir les candidatures pour cet emploi.")
}

// CanViewJobApplicationStatistics authorizes the application reporting
// endpoints. Company accounts see their own company's numbers; the per
// company scoping is applied by the caller's query.
func CanViewJobApplicationStatistics(user *User) Decision {
	if hasRole(user, RoleAdmin, RoleCompanyAdmin, RoleCompanyAgent) {
		return Allow()
	}

	return Deny(ReasonAdminOnly, "Seuls les administrateurs peuvent accéder aux statistiques des candidatures.")
}
