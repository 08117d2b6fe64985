package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pairlink/internal/app/store"
)

const (
	roomKeyPrefix = "room:"
	nameKeyPrefix = "room-name:"
)

// ErrNameTaken is returned by Directory.Create when another room already holds
// the requested name, compared case-insensitively.
var ErrNameTaken = errors.New("room name already taken")

// Directory provides CRUD access to Room records in the session store.
//
// Rooms live under "room:<id>" with a case-insensitive name index under
// "room-name:<lowercased-name>". Mutations are read-modify-write at the record
// granularity; callers re-fetch before mutating and accept last-write-wins, per
// the service's concurrency model.
type Directory struct {
	store store.Store
}

// NewDirectory creates a Directory on top of the given store.
func NewDirectory(s store.Store) *Directory {
	return &Directory{store: s}
}

func roomKey(id string) string {
	return roomKeyPrefix + id
}

func nameKey(name string) string {
	return nameKeyPrefix + strings.ToLower(name)
}

// Create persists a new room, atomically reserving its name. It returns
// ErrNameTaken when the name index already has a live entry.
func (d *Directory) Create(ctx context.Context, r *Room) error {
	reserved, err := d.store.PutNX(ctx, nameKey(r.Name), r.ID, 0)
	if err != nil {
		return fmt.Errorf("reserve room name %q: %w", r.Name, err)
	}
	if !reserved {
		return ErrNameTaken
	}

	if err := d.Save(ctx, r); err != nil {
		// Release the reservation so the name is not orphaned.
		_ = d.store.Delete(ctx, nameKey(r.Name))
		return err
	}

	return nil
}

// GetByID returns the room with the given ID, or nil when it does not exist.
func (d *Directory) GetByID(ctx context.Context, id string) (*Room, error) {
	raw, ok, err := d.store.Get(ctx, roomKey(id))
	if err != nil {
		return nil, fmt.Errorf("load room %s: %w", id, err)
	}
	if !ok {
		return nil, nil
	}

	var r Room
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("decode room %s: %w", id, err)
	}

	return &r, nil
}

// GetByName resolves a room through the case-insensitive name index, returning
// nil when no room holds the name. A dangling index entry (room record gone) is
// treated as absent.
func (d *Directory) GetByName(ctx context.Context, name string) (*Room, error) {
	id, ok, err := d.store.Get(ctx, nameKey(name))
	if err != nil {
		return nil, fmt.Errorf("resolve room name %q: %w", name, err)
	}
	if !ok {
		return nil, nil
	}

	return d.GetByID(ctx, id)
}

// Save writes the full room record, overwriting any previous version.
func (d *Directory) Save(ctx context.Context, r *Room) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode room %s: %w", r.ID, err)
	}

	if err := d.store.Put(ctx, roomKey(r.ID), string(raw), 0); err != nil {
		return fmt.Errorf("save room %s: %w", r.ID, err)
	}

	return nil
}

// Delete removes the room record and its name index entry. Deleting an
// already-deleted room is a no-op, which keeps redundant sweeps idempotent.
func (d *Directory) Delete(ctx context.Context, r *Room) error {
	if err := d.store.Delete(ctx, roomKey(r.ID)); err != nil {
		return fmt.Errorf("delete room %s: %w", r.ID, err)
	}

	if err := d.store.Delete(ctx, nameKey(r.Name)); err != nil {
		return fmt.Errorf("delete room name index %q: %w", r.Name, err)
	}

	return nil
}

// ListIDs returns the IDs of every stored room.
func (d *Directory) ListIDs(ctx context.Context) ([]string, error) {
	keys, err := d.store.ListKeys(ctx, roomKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, strings.TrimPrefix(key, roomKeyPrefix))
	}

	return ids, nil
}
