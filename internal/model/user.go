package model

import "time"

// Roles form a total order for privilege checks: member < admin < creator.
const (
	RoleMember  = "member"
	RoleAdmin   = "admin"
	RoleCreator = "creator"
)

var roleRank = map[string]int{
	RoleMember:  0,
	RoleAdmin:   1,
	RoleCreator: 2,
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}

// RoleAtLeast reports whether role satisfies the min privilege level.
// Unknown roles never satisfy anything.
func RoleAtLeast(role, min string) bool {
	r, ok := roleRank[role]
	if !ok {
		return false
	}
	m, ok := roleRank[min]
	if !ok {
		return false
	}
	return r >= m
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// InviteCode is a one-time registration code carrying the role it grants.
type InviteCode struct {
	Code      string    `json:"code"`
	Role      string    `json:"role"`
	Used      bool      `json:"used"`
	CreatedBy *int64    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
