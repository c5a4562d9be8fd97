package entities

import (
	"slices"
	"strings"
	"time"

	"runtrack/internal/domain"
)

// User is a registered runner or staff member.
type User struct {
	ID           uint
	FirstName    string
	LastName     string
	Surname      string // optional display nickname
	Email        string // optional, unique when set
	Organization string
	Roles        []string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName is the name shown to operators and on public results.
func (u *User) DisplayName() string {
	if s := strings.TrimSpace(u.Surname); s != "" {
		return s
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// EffectiveRoles always includes ROLE_USER.
func (u *User) EffectiveRoles() []string {
	roles := slices.Clone(u.Roles)
	if !slices.Contains(roles, domain.RoleUser) {
		roles = append(roles, domain.RoleUser)
	}
	return roles
}

func (u *User) HasRole(role string) bool {
	return slices.Contains(u.EffectiveRoles(), role)
}
