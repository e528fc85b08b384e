package auth

// CanUpdateCompany authorizes editing a company profile. Admins may edit any
// company; company accounts may edit their own.
func CanUpdateCompany(user *User, company *Company) Decision {
	if hasRole(user, RoleAdmin) {
		return Allow()
	}
	if hasRole(user, RoleCompanyAdmin, RoleCompanyAgent) && company != nil && sameCompany(user, company.ID) {
		return Allow()
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour modifier une entreprise.")
}

// CanDeleteCompany authorizes removing a company from the directory. The
// session must hold the delete capability; agents are excluded even within
// their own company.
func CanDeleteCompany(user *User, company *Company) Decision {
	if tokenAllows(user, PermissionCompanyDelete) {
		if hasRole(user, RoleAdmin) {
			return Allow()
		}
		if hasRole(user, RoleCompanyAdmin) && company != nil && sameCompany(user, company.ID) {
			return Allow()
		}
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour supprimer une entreprise.")
}

// CanBlockCompany authorizes suspending or reinstating a company listing
func CanBlockCompany(user *User) Decision {
	if tokenAllows(user, PermissionCompanyBlock) {
		return Allow()
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour bloquer/débloquer une entreprise.")
}
