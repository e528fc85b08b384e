package auth_test

import (
	"net/http"
	"testing"
	"time"

	auth "github.com/goliatone/go-directory-auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func userWithToken(role auth.UserRole, companyID *uuid.UUID) *auth.User {
	user := &auth.User{
		ID:        uuid.New(),
		Role:      role,
		CompanyID: companyID,
	}
	user.CurrentToken = &auth.AccessToken{
		ID:          uuid.New(),
		UserID:      user.ID,
		Permissions: auth.PermissionsFor(role).Strings(),
	}
	return user
}

func blockUser(user *auth.User) *auth.User {
	now := time.Now()
	user.BlockedAt = &now
	return user
}

func TestDecisionShape(t *testing.T) {
	allow := auth.Allow()
	assert.True(t, allow.Allowed)
	assert.False(t, allow.Denied())
	assert.Empty(t, allow.Reason)

	deny := auth.Deny(auth.ReasonNotAllowed, "nope")
	assert.True(t, deny.Denied())
	assert.Equal(t, auth.ReasonNotAllowed, deny.Reason)
	assert.Equal(t, "nope", deny.Message)
	assert.Equal(t, http.StatusForbidden, deny.Status)
}

func TestJobAbilities(t *testing.T) {
	companyID := uuid.New()
	otherCompany := uuid.New()

	companyAdmin := userWithToken(auth.RoleCompanyAdmin, &companyID)
	companyAgent := userWithToken(auth.RoleCompanyAgent, &companyID)
	admin := userWithToken(auth.RoleAdmin, nil)
	regular := userWithToken(auth.RoleUser, nil)

	jobOf := func(company uuid.UUID) *auth.Job {
		return &auth.Job{
			ID:     uuid.New(),
			UserID: uuid.New(),
			User:   &auth.User{ID: uuid.New(), Role: auth.RoleCompanyAdmin, CompanyID: &company},
		}
	}

	t.Run("create", func(t *testing.T) {
		assert.True(t, auth.CanCreateJob(admin).Allowed)
		assert.True(t, auth.CanCreateJob(companyAdmin).Allowed)
		assert.True(t, auth.CanCreateJob(companyAgent).Allowed)

		denied := auth.CanCreateJob(regular)
		assert.True(t, denied.Denied())
		assert.Equal(t, auth.ReasonNotAllowed, denied.Reason)

		assert.True(t, auth.CanCreateJob(nil).Denied())
	})

	t.Run("blocked account loses job mutations regardless of role", func(t *testing.T) {
		blocked := blockUser(userWithToken(auth.RoleCompanyAdmin, &companyID))

		for _, decision := range []auth.Decision{
			auth.CanCreateJob(blocked),
			auth.CanEditJob(blocked, jobOf(companyID)),
			auth.CanDeleteJob(blocked, jobOf(companyID)),
			auth.CanManageJobStatus(blocked, jobOf(companyID)),
		} {
			assert.True(t, decision.Denied())
			assert.Equal(t, auth.ReasonAccountBlocked, decision.Reason)
			assert.Equal(t, http.StatusForbidden, decision.Status)
		}
	})

	t.Run("edit scoped to owning company", func(t *testing.T) {
		assert.True(t, auth.CanEditJob(companyAdmin, jobOf(companyID)).Allowed)
		assert.True(t, auth.CanEditJob(companyAgent, jobOf(companyID)).Allowed)
		assert.True(t, auth.CanEditJob(admin, jobOf(otherCompany)).Allowed)

		assert.True(t, auth.CanEditJob(companyAdmin, jobOf(otherCompany)).Denied())
		assert.True(t, auth.CanEditJob(regular, jobOf(companyID)).Denied())
	})

	t.Run("job without loaded poster never matches a company", func(t *testing.T) {
		orphan := &auth.Job{ID: uuid.New(), UserID: uuid.New()}
		assert.True(t, auth.CanEditJob(companyAdmin, orphan).Denied())
		assert.True(t, auth.CanEditJob(admin, orphan).Allowed)
	})

	t.Run("statistics are admin only", func(t *testing.T) {
		assert.True(t, auth.CanReadJobStatistics(admin).Allowed)

		denied := auth.CanReadJobStatistics(companyAdmin)
		assert.True(t, denied.Denied())
		assert.Equal(t, auth.ReasonAdminOnly, denied.Reason)

		assert.True(t, auth.CanReadJobStatistics(nil).Denied())
	})
}

func TestJobApplicationAbilities(t *testing.T) {
	companyID := uuid.New()
	otherCompany := uuid.New()

	admin := userWithToken(auth.RoleAdmin, nil)
	companyAdmin := userWithToken(auth.RoleCompanyAdmin, &companyID)
	companyAgent := userWithToken(auth.RoleCompanyAgent, &companyID)
	applicant := userWithToken(auth.RoleUser, nil)

	applicationTo := func(company uuid.UUID, owner uuid.UUID) *auth.JobApplication {
		return &auth.JobApplication{
			ID:     uuid.New(),
			UserID: owner,
			Job: &auth.Job{
				ID:   uuid.New(),
				User: &auth.User{ID: uuid.New(), Role: auth.RoleCompanyAdmin, CompanyID: &company},
			},
		}
	}

	t.Run("apply", func(t *testing.T) {
		assert.True(t, auth.CanApplyForJob(applicant).Allowed)
		assert.True(t, auth.CanApplyForJob(admin).Denied())
		assert.True(t, auth.CanApplyForJob(companyAdmin).Denied())

		blocked := auth.CanApplyForJob(blockUser(userWithToken(auth.RoleUser, nil)))
		assert.Equal(t, auth.ReasonAccountBlocked, blocked.Reason)
	})

	t.Run("edit limited to the hiring company", func(t *testing.T) {
		app := applicationTo(companyID, applicant.ID)

		assert.True(t, auth.CanEditJobApplication(admin, app).Allowed)
		assert.True(t, auth.CanEditJobApplication(companyAdmin, app).Allowed)
		assert.True(t, auth.CanEditJobApplication(companyAgent, app).Allowed)

		assert.True(t, auth.CanEditJobApplication(applicant, app).Denied())
		assert.True(t, auth.CanEditJobApplication(companyAdmin, applicationTo(otherCompany, applicant.ID)).Denied())
	})

	t.Run("delete covers applicant and company admin but not agent", func(t *testing.T) {
		app := applicationTo(companyID, applicant.ID)

		assert.True(t, auth.CanDeleteJobApplication(applicant, app).Allowed)
		assert.True(t, auth.CanDeleteJobApplication(companyAdmin, app).Allowed)
		assert.True(t, auth.CanDeleteJobApplication(admin, app).Allowed)

		assert.True(t, auth.CanDeleteJobApplication(companyAgent, app).Denied())
		assert.True(t, auth.CanDeleteJobApplication(userWithToken(auth.RoleUser, nil), app).Denied())
	})

	t.Run("view", func(t *testing.T) {
		app := applicationTo(companyID, applicant.ID)

		assert.True(t, auth.CanViewJobApplication(applicant, app).Allowed)
		assert.True(t, auth.CanViewJobApplication(companyAgent, app).Allowed)
		assert.True(t, auth.CanViewJobApplication(userWithToken(auth.RoleUser, nil), app).Denied())

		job := &auth.Job{User: &auth.User{CompanyID: &companyID}}
		assert.True(t, auth.CanViewJobApplicationsForJob(companyAdmin, job).Allowed)
		assert.True(t, auth.CanViewJobApplicationsForJob(applicant, job).Denied())
	})

	t.Run("statistics include company roles", func(t *testing.T) {
		assert.True(t, auth.CanViewJobApplicationStatistics(admin).Allowed)
		assert.True(t, auth.CanViewJobApplicationStatistics(companyAdmin).Allowed)
		assert.True(t, auth.CanViewJobApplicationStatistics(companyAgent).Allowed)

		denied := auth.CanViewJobApplicationStatistics(applicant)
		assert.Equal(t, auth.ReasonAdminOnly, denied.Reason)
	})
}

func TestCompanyAbilities(t *testing.T) {
	companyID := uuid.New()
	company := &auth.Company{ID: companyID}
	other := &auth.Company{ID: uuid.New()}

	admin := userWithToken(auth.RoleAdmin, nil)
	companyAdmin := userWithToken(auth.RoleCompanyAdmin, &companyID)
	companyAgent := userWithToken(auth.RoleCompanyAgent, &companyID)
	regular := userWithToken(auth.RoleUser, nil)

	t.Run("update", func(t *testing.T) {
		assert.True(t, auth.CanUpdateCompany(admin, other).Allowed)
		assert.True(t, auth.CanUpdateCompany(companyAdmin, company).Allowed)
		assert.True(t, auth.CanUpdateCompany(companyAgent, company).Allowed)

		assert.True(t, auth.CanUpdateCompany(companyAdmin, other).Denied())
		assert.True(t, auth.CanUpdateCompany(regular, company).Denied())
		assert.True(t, auth.CanUpdateCompany(nil, company).Denied())
	})

	t.Run("delete requires capability and excludes agents", func(t *testing.T) {
		assert.True(t, auth.CanDeleteCompany(admin, other).Allowed)
		assert.True(t, auth.CanDeleteCompany(companyAdmin, company).Allowed)

		assert.True(t, auth.CanDeleteCompany(companyAgent, company).Denied())
		assert.True(t, auth.CanDeleteCompany(companyAdmin, other).Denied())

		// same role, no token attached: the capability gate refuses
		bare := &auth.User{ID: uuid.New(), Role: auth.RoleCompanyAdmin, CompanyID: &companyID}
		assert.True(t, auth.CanDeleteCompany(bare, company).Denied())
	})

	t.Run("block is wildcard only", func(t *testing.T) {
		assert.True(t, auth.CanBlockCompany(admin).Allowed)
		assert.True(t, auth.CanBlockCompany(companyAdmin).Denied())
		assert.True(t, auth.CanBlockCompany(regular).Denied())
	})

	t.Run("images scoped to own company", func(t *testing.T) {
		assert.True(t, auth.CanCreateCompanyImages(companyAdmin, company).Allowed)
		assert.True(t, auth.CanCreateCompanyImages(companyAgent, company).Allowed)
		assert.True(t, auth.CanCreateCompanyImages(admin, other).Allowed)

		assert.True(t, auth.CanCreateCompanyImages(companyAdmin, other).Denied())
		assert.True(t, auth.CanDeleteCompanyImages(regular, company).Denied())
	})
}

func TestPostAbilities(t *testing.T) {
	companyID := uuid.New()

	admin := userWithToken(auth.RoleAdmin, nil)
	companyAdmin := userWithToken(auth.RoleCompanyAdmin, &companyID)
	colleague := userWithToken(auth.RoleCompanyAgent, &companyID)
	regular := userWithToken(auth.RoleUser, nil)

	post := &auth.Post{
		ID:     uuid.New(),
		UserID: companyAdmin.ID,
		User:   &auth.User{ID: companyAdmin.ID, Role: auth.RoleCompanyAdmin, CompanyID: &companyID},
	}

	t.Run("create", func(t *testing.T) {
		assert.True(t, auth.CanCreatePost(admin).Allowed)
		assert.True(t, auth.CanCreatePost(companyAdmin).Allowed)
		assert.True(t, auth.CanCreatePost(regular).Denied())
		assert.True(t, auth.CanCreatePost(nil).Denied())
	})

	t.Run("edit by author, colleague, or admin", func(t *testing.T) {
		assert.True(t, auth.CanEditPost(companyAdmin, post).Allowed)
		assert.True(t, auth.CanEditPost(colleague, post).Allowed)
		assert.True(t, auth.CanEditPost(admin, post).Allowed)

		stranger := userWithToken(auth.RoleCompanyAgent, ptrUUID(uuid.New()))
		assert.True(t, auth.CanEditPost(stranger, post).Denied())
		assert.True(t, auth.CanEditPost(regular, post).Denied())
	})

	t.Run("delete follows edit rules", func(t *testing.T) {
		assert.True(t, auth.CanDeletePost(colleague, post).Allowed)
		assert.True(t, auth.CanDeletePost(regular, post).Denied())
	})
}

func TestCategoryAbilities(t *testing.T) {
	admin := userWithToken(auth.RoleAdmin, nil)
	companyAdmin := userWithToken(auth.RoleCompanyAdmin, ptrUUID(uuid.New()))
	regular := userWithToken(auth.RoleUser, nil)

	assert.True(t, auth.CanCreateCategory(admin).Allowed)
	assert.True(t, auth.CanUpdateCategory(admin).Allowed)
	assert.True(t, auth.CanDeleteCategory(admin).Allowed)

	for _, user := range []*auth.User{companyAdmin, regular, nil} {
		assert.True(t, auth.CanCreateCategory(user).Denied())
		assert.True(t, auth.CanUpdateCategory(user).Denied())
		assert.True(t, auth.CanDeleteCategory(user).Denied())
	}
}

func TestCompanyReviewAbilities(t *testing.T) {
	admin := userWithToken(auth.RoleAdmin, nil)
	companyAdmin := userWithToken(auth.RoleCompanyAdmin, ptrUUID(uuid.New()))
	author := userWithToken(auth.RoleUser, nil)

	review := &auth.CompanyReview{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		UserID:    author.ID,
	}

	t.Run("company accounts never touch reviews", func(t *testing.T) {
		assert.True(t, auth.CanCreateCompanyReview(companyAdmin).Denied())
		assert.True(t, auth.CanUpdateCompanyReview(companyAdmin, review).Denied())
		assert.True(t, auth.CanDeleteCompanyReview(companyAdmin, review).Denied())
	})

	t.Run("moderation requires the capability", func(t *testing.T) {
		assert.True(t, auth.CanUpdateCompanyReview(admin, review).Allowed)
		assert.True(t, auth.CanDeleteCompanyReview(admin, review).Allowed)
	})

	t.Run("standard user grant omits review capabilities", func(t *testing.T) {
		// the role mapping hands user sessions read-only capabilities, so
		// even the author fails the gate with a stock token
		assert.True(t, auth.CanUpdateCompanyReview(author, review).Denied())
	})

	t.Run("author with review grant edits only their own", func(t *testing.T) {
		granted := userWithToken(auth.RoleUser, nil)
		granted.ID = review.UserID
		granted.CurrentToken.Permissions = []string{
			string(auth.PermissionReviewUpdate),
			string(auth.PermissionReviewDelete),
		}

		assert.True(t, auth.CanUpdateCompanyReview(granted, review).Allowed)
		assert.True(t, auth.CanDeleteCompanyReview(granted, review).Allowed)

		foreign := &auth.CompanyReview{ID: uuid.New(), UserID: uuid.New()}
		assert.True(t, auth.CanUpdateCompanyReview(granted, foreign).Denied())
	})
}

func TestUserAdministrationAbilities(t *testing.T) {
	admin := userWithToken(auth.RoleAdmin, nil)
	companyAdmin := userWithToken(auth.RoleCompanyAdmin, ptrUUID(uuid.New()))
	regular := userWithToken(auth.RoleUser, nil)

	assert.True(t, auth.CanReadUsers(admin).Allowed)
	assert.True(t, auth.CanCreateUser(admin).Allowed)
	assert.True(t, auth.CanUpdateUser(admin).Allowed)
	assert.True(t, auth.CanDeleteUser(admin).Allowed)

	for _, user := range []*auth.User{companyAdmin, regular, nil} {
		assert.True(t, auth.CanReadUsers(user).Denied())
		assert.True(t, auth.CanDeleteUser(user).Denied())
	}
}

func TestDecisionsAreDeterministic(t *testing.T) {
	companyID := uuid.New()
	user := userWithToken(auth.RoleCompanyAdmin, &companyID)
	job := &auth.Job{User: &auth.User{CompanyID: &companyID}}

	first := auth.CanEditJob(user, job)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, auth.CanEditJob(user, job))
	}
}

func ptrUUID(id uuid.UUID) *uuid.UUID {
	return &id
}
