/*
Package user maintains the global registry of active users.

A display name is unique across the whole system while its holder is active. The
registry binds each active name to its current room and member identity and tracks
the presence timestamp that drives inactivity eviction. Records live in the session
store under "active-user:<displayName>" so every service instance sees the same set.
*/
package user

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pairlink/internal/app/store"
)

const keyPrefix = "active-user:"

// ActiveUser binds one live display name to its room and member identity.
type ActiveUser struct {
	DisplayName string `json:"displayName"`
	RoomID      string `json:"roomId"`
	MemberID    string `json:"memberId"`

	// LastActivityAt is refreshed by heartbeats and by game actions, and
	// compared against the user timeout by the eviction monitor.
	LastActivityAt time.Time `json:"lastActivityAt"`
}

// Registry provides access to ActiveUser records in the session store.
type Registry struct {
	store store.Store
}

// NewRegistry creates a Registry on top of the given store.
func NewRegistry(s store.Store) *Registry {
	return &Registry{store: s}
}

func userKey(displayName string) string {
	return keyPrefix + displayName
}

// Claim atomically registers displayName if it is not already in active use,
// and reports whether the claim succeeded. This is the system-wide uniqueness
// check for display names.
func (r *Registry) Claim(ctx context.Context, u *ActiveUser) (bool, error) {
	raw, err := json.Marshal(u)
	if err != nil {
		return false, fmt.Errorf("encode active user %q: %w", u.DisplayName, err)
	}

	claimed, err := r.store.PutNX(ctx, userKey(u.DisplayName), string(raw), 0)
	if err != nil {
		return false, fmt.Errorf("claim display name %q: %w", u.DisplayName, err)
	}

	return claimed, nil
}

// Get returns the active user holding displayName, or nil when the name is free.
func (r *Registry) Get(ctx context.Context, displayName string) (*ActiveUser, error) {
	raw, ok, err := r.store.Get(ctx, userKey(displayName))
	if err != nil {
		return nil, fmt.Errorf("load active user %q: %w", displayName, err)
	}
	if !ok {
		return nil, nil
	}

	var u ActiveUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode active user %q: %w", displayName, err)
	}

	return &u, nil
}

// Save overwrites the record for u.DisplayName.
func (r *Registry) Save(ctx context.Context, u *ActiveUser) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode active user %q: %w", u.DisplayName, err)
	}

	if err := r.store.Put(ctx, userKey(u.DisplayName), string(raw), 0); err != nil {
		return fmt.Errorf("save active user %q: %w", u.DisplayName, err)
	}

	return nil
}

// Delete releases displayName. Deleting a free name is a no-op.
func (r *Registry) Delete(ctx context.Context, displayName string) error {
	if err := r.store.Delete(ctx, userKey(displayName)); err != nil {
		return fmt.Errorf("delete active user %q: %w", displayName, err)
	}

	return nil
}

// Touch refreshes the presence timestamp of displayName. Touching a name that
// is no longer active reports false so the caller can tell the client its
// session is gone.
func (r *Registry) Touch(ctx context.Context, displayName string, now time.Time) (bool, error) {
	u, err := r.Get(ctx, displayName)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, nil
	}

	u.LastActivityAt = now
	if err := r.Save(ctx, u); err != nil {
		return false, err
	}

	return true, nil
}

// List returns every active user in the registry.
func (r *Registry) List(ctx context.Context) ([]ActiveUser, error) {
	keys, err := r.store.ListKeys(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}

	users := make([]ActiveUser, 0, len(keys))
	for _, key := range keys {
		u, err := r.Get(ctx, strings.TrimPrefix(key, keyPrefix))
		if err != nil {
			return nil, err
		}
		// The record may have been deleted between the scan and the read.
		if u != nil {
			users = append(users, *u)
		}
	}

	return users, nil
}
