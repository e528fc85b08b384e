package auth_test

import (
	"testing"

	auth "github.com/goliatone/go-directory-auth"
	"github.com/stretchr/testify/assert"
)

func TestPermissionSetContains(t *testing.T) {
	set := auth.PermissionSet{
		auth.PermissionCompanyRead,
		auth.PermissionPostRead,
	}

	assert.True(t, set.Contains(auth.PermissionCompanyRead))
	assert.False(t, set.Contains(auth.PermissionCompanyDelete))
	assert.False(t, auth.PermissionSet{}.Contains(auth.PermissionCompanyRead))
}

func TestPermissionSetWildcard(t *testing.T) {
	set := auth.PermissionSet{auth.PermissionWildcard}

	assert.True(t, set.Contains(auth.PermissionCompanyDelete))
	assert.True(t, set.Contains(auth.PermissionUserDelete))
	assert.True(t, set.Contains(auth.PermissionCategoryCreate))
}

func TestPermissionSetRoundTrip(t *testing.T) {
	set := auth.PermissionSet{auth.PermissionPostCreate, auth.PermissionPostEdit}

	raw := set.Strings()
	assert.Equal(t, []string{"post:create", "post:edit"}, raw)

	rebuilt := auth.PermissionSetFromStrings(raw)
	assert.Equal(t, set, rebuilt)
}

func TestPermissionsForRole(t *testing.T) {
	t.Run("admin gets the wildcard", func(t *testing.T) {
		assert.Equal(t, auth.PermissionSet{auth.PermissionWildcard}, auth.PermissionsFor(auth.RoleAdmin))
	})

	t.Run("company admin carries delete, agent does not", func(t *testing.T) {
		adminGrant := auth.PermissionsFor(auth.RoleCompanyAdmin)
		agentGrant := auth.PermissionsFor(auth.RoleCompanyAgent)

		assert.True(t, adminGrant.Contains(auth.PermissionCompanyDelete))
		assert.False(t, agentGrant.Contains(auth.PermissionCompanyDelete))

		assert.True(t, adminGrant.Contains(auth.PermissionCompanyCreate))
		assert.False(t, agentGrant.Contains(auth.PermissionCompanyCreate))

		for _, p := range []auth.Permission{
			auth.PermissionCompanyRead,
			auth.PermissionCompanyUpdate,
			auth.PermissionCompanyImageUpdate,
			auth.PermissionPostCreate,
			auth.PermissionPostEdit,
			auth.PermissionPostDelete,
		} {
			assert.True(t, adminGrant.Contains(p), "company admin should hold %s", p)
			assert.True(t, agentGrant.Contains(p), "company agent should hold %s", p)
		}
	})

	t.Run("user sessions are read only", func(t *testing.T) {
		grant := auth.PermissionsFor(auth.RoleUser)

		assert.True(t, grant.Contains(auth.PermissionCompanyRead))
		assert.True(t, grant.Contains(auth.PermissionPostRead))

		assert.False(t, grant.Contains(auth.PermissionPostCreate))
		assert.False(t, grant.Contains(auth.PermissionUserRead))
		assert.False(t, grant.Contains(auth.PermissionCompanyBlock))
	})

	t.Run("unknown role falls back to the user grant", func(t *testing.T) {
		assert.Equal(t, auth.PermissionsFor(auth.RoleUser), auth.PermissionsFor("intern"))
	})

	t.Run("no role but admin holds the wildcard", func(t *testing.T) {
		for _, role := range []auth.UserRole{auth.RoleUser, auth.RoleCompanyAdmin, auth.RoleCompanyAgent} {
			assert.False(t, auth.PermissionsFor(role).Contains(auth.PermissionWildcard))
		}
	})
}

func TestAccessTokenAllows(t *testing.T) {
	token := &auth.AccessToken{
		Permissions: auth.PermissionsFor(auth.RoleCompanyAgent).Strings(),
	}

	assert.True(t, token.Allows(auth.PermissionCompanyUpdate))
	assert.False(t, token.Allows(auth.PermissionCompanyDelete))

	var missing *auth.AccessToken
	assert.False(t, missing.Allows(auth.PermissionCompanyRead))
	assert.Nil(t, missing.Grant())
}
