package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"officer", "supervisor", "detective", "admin"} {
		role, ok := ParseRole(valid)
		assert.True(t, ok)
		assert.Equal(t, Role(valid), role)
	}

	for _, invalid := range []string{"", "Officer", "root", "superuser"} {
		_, ok := ParseRole(invalid)
		assert.False(t, ok, "expected %q to be rejected", invalid)
	}
}

func TestRoleIn(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleAdmin.In(RoleAdmin))
	assert.True(t, RoleSupervisor.In(RoleSupervisor, RoleAdmin))
	assert.False(t, RoleOfficer.In(RoleSupervisor, RoleAdmin))
	assert.False(t, RoleOfficer.In())
}

func TestUserInfoOmitsCredentials(t *testing.T) {
	t.Parallel()

	user := User{
		ID:           "u1",
		Username:     "jsmith",
		PasswordHash: "$2a$12$secret",
		FirstName:    "John",
		LastName:     "Smith",
		Email:        "jsmith@police.gov",
		Department:   "Evidence Collection",
		Role:         RoleOfficer,
	}

	data, err := json.Marshal(user.Info())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.Contains(t, string(data), "jsmith")
}
