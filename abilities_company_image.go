package auth

// Company gallery images are publicly viewable; mutations require the image
// capability plus an admin role or an affiliation with the target company.

// CanCreateCompanyImages authorizes adding images to a company gallery
func CanCreateCompanyImages(user *User, company *Company) Decision {
	if tokenAllows(user, PermissionCompanyImageUpdate) {
		if hasRole(user, RoleAdmin) {
			return Allow()
		}
		if hasRole(user, RoleCompanyAdmin, RoleCompanyAgent) && company != nil && sameCompany(user, company.ID) {
			return Allow()
		}
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour ajouter des images à cette entreprise.")
}

// CanDeleteCompanyImages authorizes removing images from a company gallery
func CanDeleteCompanyImages(user *User, company *Company) Decision {
	if tokenAllows(user, PermissionCompanyImageUpdate) {
		if hasRole(user, RoleAdmin) {
			return Allow()
		}
		if hasRole(user, RoleCompanyAdmin, RoleCompanyAgent) && company != nil && sameCompany(user, company.ID) {
			return Allow()
		}
	}

	return Deny(ReasonNotAllowed, "Vous n'avez pas les permissions pour supprimer les images de cette entreprise.")
}
