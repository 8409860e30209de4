package auth

import (
	"slices"
	"strings"

	"tipster/internal/utils"
)

// Role is a capability carried in session claims
type Role string

const RoleAdmin Role = "admin"

// Principal is the authenticated identity behind a request
type Principal struct {
	UserID  string
	Email   string
	Roles   []Role
	TokenID string // jti, used to revoke the session
	Claims  *utils.Claims
}

// HasRole reports whether the principal was granted r
func (p *Principal) HasRole(r Role) bool {
	return p != nil && slices.Contains(p.Roles, r)
}

// Policy decides which roles an identity receives at sign-in
type Policy struct {
	admins map[string]struct{}
}

// NewPolicy grants the admin role to each listed email
func NewPolicy(adminEmails ...string) *Policy {
	p := &Policy{admins: make(map[string]struct{}, len(adminEmails))}
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			p.admins[e] = struct{}{}
		}
	}
	return p
}

// RolesFor returns the roles for email
func (p *Policy) RolesFor(email string) []Role {
	if _, ok := p.admins[normalizeEmail(email)]; ok {
		return []Role{RoleAdmin}
	}
	return nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func principalFromClaims(c *utils.Claims) *Principal {
	roles := make([]Role, 0, len(c.Roles))
	for _, r := range c.Roles {
		roles = append(roles, Role(r))
	}
	return &Principal{UserID: c.UserID, Email: c.Email, Roles: roles, TokenID: c.ID, Claims: c}
}
