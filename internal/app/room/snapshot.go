/*
Package room contains the core domain logic for matching sessions.

This file builds the polling snapshot: the sanitized room view plus any live
removal markers for the caller. Every connected client calls this frequently and
redundantly, so it performs reads only and no mutation.
*/
package room

import (
	"context"
	"sort"
	"time"

	"pairlink/internal/app/marker"
	"pairlink/internal/pkg/errs"
)

// MemberView is the client-facing projection of a Member.
type MemberView struct {
	ID              string    `json:"id"`
	DisplayName     string    `json:"displayName"`
	Role            Role      `json:"role"`
	JoinedAt        time.Time `json:"joinedAt"`
	HasVoted        bool      `json:"hasVoted"`
	HasAcknowledged bool      `json:"hasAcknowledged"`
}

// RoomView is the client-facing projection of a Room. It exposes whether a
// password exists but never the password itself, and it shows who has voted
// without revealing the selections.
type RoomView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	HasPassword bool         `json:"hasPassword"`
	MemberLimit int          `json:"memberLimit"`
	State       State        `json:"state"`
	OwnerID     string       `json:"ownerId"`
	Members     []MemberView `json:"members"`
	Result      *MatchResult `json:"result,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Snapshot is the full polling payload. Found is false when the room does not
// exist; the markers then tell the caller whether it was just evicted or never
// existed at all.
type Snapshot struct {
	Found      bool               `json:"found"`
	Room       *RoomView          `json:"room,omitempty"`
	RoomMarker *marker.RoomMarker `json:"roomMarker,omitempty"`
	UserMarker *marker.UserMarker `json:"userMarker,omitempty"`
}

// NewRoomView projects r into its client-facing shape, with members ordered by
// join time for stable rendering.
func NewRoomView(r *Room) *RoomView {
	members := make([]MemberView, 0, len(r.Members))
	for id, m := range r.Members {
		members = append(members, MemberView{
			ID:              id,
			DisplayName:     m.DisplayName,
			Role:            m.Role,
			JoinedAt:        m.JoinedAt,
			HasVoted:        hasKey(r.Selections, id),
			HasAcknowledged: r.Acknowledged[id],
		})
	}

	sort.Slice(members, func(i, j int) bool {
		if !members[i].JoinedAt.Equal(members[j].JoinedAt) {
			return members[i].JoinedAt.Before(members[j].JoinedAt)
		}
		return members[i].ID < members[j].ID
	})

	return &RoomView{
		ID:          r.ID,
		Name:        r.Name,
		HasPassword: r.Password != "",
		MemberLimit: r.MemberLimit,
		State:       r.State,
		OwnerID:     r.OwnerID,
		Members:     members,
		Result:      r.Result,
		CreatedAt:   r.CreatedAt,
	}
}

func hasKey(m map[string]string, key string) bool {
	_, ok := m[key]
	return ok
}

// GetSnapshot returns the room view and any live markers for displayName.
// A missing room is not an error: the snapshot reports Found=false alongside
// the markers, so a just-evicted client can learn why it was removed.
func (s *Service) GetSnapshot(ctx context.Context, roomID, displayName string) (*Snapshot, *errs.CustomError) {
	snap := &Snapshot{}

	r, err := s.dir.GetByID(ctx, roomID)
	if err != nil {
		return nil, s.storeFail(err, "snapshot/load-room")
	}
	if r != nil {
		snap.Found = true
		snap.Room = NewRoomView(r)
	}

	roomMarker, err := s.ledger.GetRoomMarker(ctx, roomID)
	if err != nil {
		return nil, s.storeFail(err, "snapshot/load-room-marker")
	}
	snap.RoomMarker = roomMarker

	if displayName != "" {
		userMarker, err := s.ledger.GetUserMarker(ctx, displayName)
		if err != nil {
			return nil, s.storeFail(err, "snapshot/load-user-marker")
		}
		snap.UserMarker = userMarker
	}

	return snap, nil
}
