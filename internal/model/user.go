package model

import "time"

// Role is the closed set of access tiers. Parsing at the boundary keeps
// free-form role strings out of the rest of the system.
type Role string

const (
	RoleOfficer    Role = "officer"
	RoleSupervisor Role = "supervisor"
	RoleDetective  Role = "detective"
	RoleAdmin      Role = "admin"
)

func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleOfficer, RoleSupervisor, RoleDetective, RoleAdmin:
		return Role(raw), true
	}

	return "", false
}

// In reports whether r is a member of the allowed set.
func (r Role) In(allowed ...Role) bool {
	for _, candidate := range allowed {
		if r == candidate {
			return true
		}
	}

	return false
}

// User is one record in the directory. The password hash never leaves the
// auth service; anything returned to callers goes through Info.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Email        string
	Department   string
	Role         Role
	Approved     bool
	CreatedAt    time.Time
}

func (u User) Info() UserInfo {
	return UserInfo{
		ID:         u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Department: u.Department,
		Role:       u.Role,
		Approved:   u.Approved,
		CreatedAt:  u.CreatedAt,
	}
}

// UserInfo is a directory record with credential material stripped.
type UserInfo struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Role       Role      `json:"role"`
	Approved   bool      `json:"approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// Identity is the set of claims carried by a verified token. It is a frozen
// snapshot of the user record at issuance time, not a directory re-lookup.
type Identity struct {
	UserID    string `json:"id"`
	Username  string `json:"username"`
	Role      Role   `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DisplayName is the human-readable form used in broadcast payloads.
func (i Identity) DisplayName() string {
	return i.FirstName + " " + i.LastName
}
