// Package authz maps chat users to roles and guards the bot webhook.
//
// The registry lives in process memory. Users added at runtime are lost when
// the function container is recycled; only the configured seed list survives.
package authz

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrPermissionDenied is returned when the requesting user lacks the required role.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidRole is returned for a role name outside the known hierarchy.
	ErrInvalidRole = errors.New("invalid role")
)

// Role is a permission level. Higher roles satisfy checks for lower ones.
type Role int

// Known roles, ordered by level.
const (
	RoleNone           Role = 0
	RoleContentManager Role = 1
	RoleAdmin          Role = 2
)

// String returns the wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleContentManager:
		return "content_manager"
	case RoleAdmin:
		return "admin"
	default:
		return "none"
	}
}

// Valid reports whether r is one of the assignable roles.
func (r Role) Valid() bool {
	return r == RoleContentManager || r == RoleAdmin
}

// AtLeast reports whether r meets the required level.
func (r Role) AtLeast(required Role) bool {
	return r.Valid() && r >= required
}

// ParseRole converts a role name to a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "content_manager", "content-manager", "manager":
		return RoleContentManager, nil
	case "admin":
		return RoleAdmin, nil
	}
	return RoleNone, fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// ParseSeed parses "id:role,id:role" into a registry seed.
func ParseSeed(s string) (map[string]Role, error) {
	seed := make(map[string]Role)
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, roleName, ok := strings.Cut(entry, ":")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("bad authorized user entry %q", entry)
		}
		role, err := ParseRole(roleName)
		if err != nil {
			return nil, err
		}
		seed[id] = role
	}
	return seed, nil
}

// Registry is a concurrency-safe user → role table.
type Registry struct {
	mu    sync.RWMutex
	users map[string]Role
}

// NewRegistry returns a registry holding a copy of seed.
func NewRegistry(seed map[string]Role) *Registry {
	users := make(map[string]Role, len(seed))
	for id, role := range seed {
		if role.Valid() {
			users[id] = role
		}
	}
	return &Registry{users: users}
}

// IsAuthorized reports whether userID has any role.
func (r *Registry) IsAuthorized(userID string) bool {
	_, ok := r.RoleOf(userID)
	return ok
}

// RoleOf returns the role of userID.
func (r *Registry) RoleOf(userID string) (Role, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	role, ok := r.users[userID]
	return role, ok
}

// HasAtLeast reports whether userID holds required or a higher role.
// Unknown users never do.
func (r *Registry) HasAtLeast(userID string, required Role) bool {
	role, ok := r.RoleOf(userID)
	return ok && role.AtLeast(required)
}

// AddUser grants role to target. Only admins may add users. The grant is not
// persisted.
func (r *Registry) AddUser(requester, target string, role Role) error {
	if !r.HasAtLeast(requester, RoleAdmin) {
		return ErrPermissionDenied
	}
	if !role.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidRole, role)
	}
	target = strings.TrimSpace(target)
	if target == "" {
		return errors.New("target user id required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[target] = role
	return nil
}

// Len returns the number of authorized users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// Users returns the authorized user ids in sorted order.
func (r *Registry) Users() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}
