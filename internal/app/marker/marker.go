/*
Package marker implements the removal marker ledger.

When a user is removed or a room is deleted, many independently polling clients need to
converge on exactly one explanation for what happened. The ledger records that explanation
as a short-lived, reason-coded fact in the session store: long enough for every currently
polling client to observe it at least once, short enough that the ledger cannot grow
unbounded.
*/
package marker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pairlink/internal/app/store"
)

// UserReason codes why a user was removed from their room.
type UserReason string

const (
	// UserReasonOwnerKick: the room owner kicked the user.
	UserReasonOwnerKick UserReason = "owner_kick"

	// UserReasonAdminKick: an administrator kicked the user.
	UserReasonAdminKick UserReason = "admin_kick"

	// UserReasonRoomDismissed: the user's room was deleted outright; see the
	// marker's RoomReason for why.
	UserReasonRoomDismissed UserReason = "room_dismissed"

	// UserReasonInactivity: the user's own activity timeout elapsed.
	UserReasonInactivity UserReason = "inactivity"
)

// RoomReason codes why a room was deleted.
type RoomReason string

const (
	// RoomReasonAdminDismissed: an administrator deleted the room.
	RoomReasonAdminDismissed RoomReason = "admin_dismissed"

	// RoomReasonInactivity: the room's game-activity timeout elapsed.
	RoomReasonInactivity RoomReason = "inactivity"

	// RoomReasonEmpty: the room had no members left and was collected.
	RoomReasonEmpty RoomReason = "empty"
)

// UserMarker is a write-once fact explaining why a named user was removed.
type UserMarker struct {
	DisplayName string     `json:"displayName"`
	Reason      UserReason `json:"reason"`

	// RoomReason is only set when Reason is room_dismissed, and carries the
	// reason the room itself went away.
	RoomReason RoomReason `json:"roomReason,omitempty"`

	SetAt time.Time `json:"setAt"`
}

// RoomMarker is a write-once fact explaining why a room was deleted.
type RoomMarker struct {
	RoomID string     `json:"roomId"`
	Reason RoomReason `json:"reason"`
	SetAt  time.Time  `json:"setAt"`
}

// Ledger stores and retrieves removal markers with a fixed TTL.
//
// When several causes could apply to the same user within one pass, callers must
// set only the highest-priority one: admin_kick > owner_kick > room_dismissed >
// inactivity. The ledger does not arbitrate; a later Set overwrites an earlier one.
type Ledger struct {
	store store.Store
	ttl   time.Duration
}

// NewLedger creates a Ledger writing markers with the given TTL.
func NewLedger(s store.Store, ttl time.Duration) *Ledger {
	return &Ledger{store: s, ttl: ttl}
}

func userMarkerKey(displayName string) string {
	return "marker:user:" + displayName
}

func roomMarkerKey(roomID string) string {
	return "marker:room:" + roomID
}

// SetUserMarker records why displayName was removed. Pass an empty roomReason
// unless reason is room_dismissed.
func (l *Ledger) SetUserMarker(ctx context.Context, displayName string, reason UserReason, roomReason RoomReason) error {
	m := UserMarker{
		DisplayName: displayName,
		Reason:      reason,
		RoomReason:  roomReason,
		SetAt:       time.Now().UTC(),
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal user marker for %q: %w", displayName, err)
	}

	return l.store.Put(ctx, userMarkerKey(displayName), string(raw), l.ttl)
}

// GetUserMarker returns the current removal marker for displayName, or nil if none is live.
func (l *Ledger) GetUserMarker(ctx context.Context, displayName string) (*UserMarker, error) {
	raw, ok, err := l.store.Get(ctx, userMarkerKey(displayName))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var m UserMarker
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("unmarshal user marker for %q: %w", displayName, err)
	}

	return &m, nil
}

// ClearUserMarker removes the marker for displayName ahead of its TTL.
func (l *Ledger) ClearUserMarker(ctx context.Context, displayName string) error {
	return l.store.Delete(ctx, userMarkerKey(displayName))
}

// SetRoomMarker records why roomID was deleted.
func (l *Ledger) SetRoomMarker(ctx context.Context, roomID string, reason RoomReason) error {
	m := RoomMarker{
		RoomID: roomID,
		Reason: reason,
		SetAt:  time.Now().UTC(),
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal room marker for %q: %w", roomID, err)
	}

	return l.store.Put(ctx, roomMarkerKey(roomID), string(raw), l.ttl)
}

// GetRoomMarker returns the current removal marker for roomID, or nil if none is live.
func (l *Ledger) GetRoomMarker(ctx context.Context, roomID string) (*RoomMarker, error) {
	raw, ok, err := l.store.Get(ctx, roomMarkerKey(roomID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var m RoomMarker
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("unmarshal room marker for %q: %w", roomID, err)
	}

	return &m, nil
}

// ClearRoomMarker removes the marker for roomID ahead of its TTL.
func (l *Ledger) ClearRoomMarker(ctx context.Context, roomID string) error {
	return l.store.Delete(ctx, roomMarkerKey(roomID))
}
