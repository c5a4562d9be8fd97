// Package policy centralizes authorization decisions as an explicit
// (actor, resource, action) check evaluated by the request boundary.
//
// Authorization rules:
//   - Admins can do everything.
//   - Operators can submit finish scans and read everything.
//   - Regular users can only reach their own data (via AllowSelf); the
//     public surface (public profiles, results, display) is unauthenticated
//     and never goes through this package.
package policy

import (
	"slices"

	"runtrack/internal/domain"
)

// Actor is the authenticated identity performing a request.
type Actor struct {
	UserID uint
	Roles  []string
}

// Resources.
const (
	ResourceUser          = "user"
	ResourceRun           = "run"
	ResourceParticipation = "participation"
	ResourceMedia         = "media"
	ResourceScan          = "scan"
)

// Actions.
const (
	ActionRead    = "read"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionSubmit  = "submit"
	ActionCorrect = "correct"
)

// Allow reports whether the actor may perform action on resource.
func Allow(actor Actor, resource, action string) bool {
	if hasRole(actor, domain.RoleAdmin) {
		return true
	}
	if hasRole(actor, domain.RoleOperator) {
		switch {
		case resource == ResourceScan && action == ActionSubmit:
			return true
		case action == ActionRead:
			return true
		}
		return false
	}
	// Regular users hold no blanket grant; emails and roles of other users
	// must stay behind the public projections. Ownership goes through
	// AllowSelf.
	return false
}

// AllowSelf reports whether the actor may perform action on a resource owned
// by ownerID.
func AllowSelf(actor Actor, ownerID uint, resource, action string) bool {
	if actor.UserID != 0 && actor.UserID == ownerID {
		return true
	}
	return Allow(actor, resource, action)
}

func hasRole(actor Actor, role string) bool {
	return slices.Contains(actor.Roles, role)
}
