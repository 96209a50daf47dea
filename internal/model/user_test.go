package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleMember))
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleCreator))
	assert.False(t, ValidRole(""))
	assert.False(t, ValidRole("superadmin"))
	assert.False(t, ValidRole("Member"))
}

func TestRoleAtLeast(t *testing.T) {
	cases := []struct {
		role, min string
		want      bool
	}{
		{RoleMember, RoleMember, true},
		{RoleMember, RoleAdmin, false},
		{RoleMember, RoleCreator, false},
		{RoleAdmin, RoleMember, true},
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleCreator, false},
		{RoleCreator, RoleMember, true},
		{RoleCreator, RoleAdmin, true},
		{RoleCreator, RoleCreator, true},
		{"", RoleMember, false},
		{"ghost", RoleMember, false},
		{RoleCreator, "ghost", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RoleAtLeast(tc.role, tc.min), "%s >= %s", tc.role, tc.min)
	}
}
