// Package authz decides whether a principal may use a route.
package authz

import (
	"github.com/ortiurbani/orti-api/internal/domain"
)

// Policy is fixed per route at startup.
type Policy struct {
	Kinds        []domain.Kind
	RequireAdmin bool
}

func Allow(kinds ...domain.Kind) Policy {
	return Policy{Kinds: kinds}
}

func AllowAdmin(kinds ...domain.Kind) Policy {
	return Policy{Kinds: kinds, RequireAdmin: true}
}

// Any accepts every authenticated principal.
func Any() Policy {
	return Policy{Kinds: domain.Kinds}
}

func (p Policy) permits(kind domain.Kind) bool {
	for _, k := range p.Kinds {
		if k == kind {
			return true
		}
	}

	return false
}

// Decide evaluates, in order: presence of a principal, kind membership, admin flag.
func Decide(principal *domain.Principal, policy Policy) error {
	if principal == nil {
		return domain.ErrUnauthenticated
	}
	if !policy.permits(principal.Kind) {
		return domain.ErrForbiddenRole
	}
	if policy.RequireAdmin && !principal.Admin {
		return domain.ErrForbiddenAdmin
	}

	return nil
}
