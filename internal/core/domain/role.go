package domain

import (
	"encoding/json"
	"strings"
)

// Role is one of the roles the portal recognises. Anything else coming from
// the backend is dropped at the boundary instead of silently matching nothing.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleClient Role = "CLIENT"
)

// ParseRole maps a raw role string to a Role. Matching is case-sensitive.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleClient:
		return Role(s), true
	default:
		return "", false
	}
}

func (r Role) bit() RoleSet {
	switch r {
	case RoleAdmin:
		return 1 << 0
	case RoleClient:
		return 1 << 1
	default:
		return 0
	}
}

// allRoles fixes the order used by Strings and JSON encoding.
var allRoles = []Role{RoleAdmin, RoleClient}

// RoleSet is a bit-set of recognised roles.
type RoleSet uint8

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= r.bit()
	}
	return s
}

// ParseRoleSet converts raw role strings into a RoleSet and returns the
// strings it did not recognise.
func ParseRoleSet(raw []string) (RoleSet, []string) {
	var (
		s       RoleSet
		unknown []string
	)
	for _, r := range raw {
		role, ok := ParseRole(r)
		if !ok {
			unknown = append(unknown, r)
			continue
		}
		s |= role.bit()
	}
	return s, unknown
}

// Has reports whether role is in the set.
func (s RoleSet) Has(role Role) bool {
	b := role.bit()
	return b != 0 && s&b == b
}

// Empty reports whether the set holds no recognised role.
func (s RoleSet) Empty() bool { return s == 0 }

// Roles returns the members in a stable order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(allRoles))
	for _, r := range allRoles {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Strings returns the members as plain strings.
func (s RoleSet) Strings() []string {
	roles := s.Roles()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func (s RoleSet) String() string {
	return "[" + strings.Join(s.Strings(), ",") + "]"
}

// MarshalJSON encodes the set as a string array.
func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// UnmarshalJSON decodes a string array; unknown roles are dropped.
func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s, _ = ParseRoleSet(raw)
	return nil
}
