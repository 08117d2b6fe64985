/*
Package room contains the core domain logic for matching sessions.

This file defines the Service struct, the entry point for every client-facing
operation. Each operation is one synchronous read-modify-write cycle against the
room directory and active-user registry; there is no in-process state shared
between requests, so any instance can serve any call.
*/
package room

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"pairlink/internal/app/marker"
	"pairlink/internal/app/user"
	"pairlink/internal/pkg/errs"
	"pairlink/internal/pkg/logx"
	"pairlink/internal/pkg/randx"
)

const (
	// MaxRoomNameLength bounds the human-facing room name.
	MaxRoomNameLength = 30

	// MaxDisplayNameLength bounds member display names.
	MaxDisplayNameLength = 20
)

// Service exposes the room lifecycle operations against shared state.
type Service struct {
	dir    *Directory
	users  *user.Registry
	ledger *marker.Ledger
	logger zerolog.Logger

	// now is swappable in tests.
	now func() time.Time
}

// NewService constructs a Service over the given directory, registry and marker ledger.
func NewService(dir *Directory, users *user.Registry, ledger *marker.Ledger) *Service {
	return &Service{
		dir:    dir,
		users:  users,
		ledger: ledger,
		logger: logx.Logger().With().Str("component", "RoomService").Logger(),
		now:    time.Now,
	}
}

// JoinResult identifies the membership a create or join call produced.
type JoinResult struct {
	RoomID   string `json:"roomId"`
	MemberID string `json:"memberId"`
}

// storeFail logs the underlying storage error and returns the retryable
// store-unavailable failure to the caller.
func (s *Service) storeFail(err error, op string) *errs.CustomError {
	s.logger.Error().Err(err).Str("operation", op).Msg("Session store operation failed")
	return errs.NewError(errs.ErrStoreUnavailable)
}

func validRoomName(name string) bool {
	if name != strings.TrimSpace(name) {
		return false
	}
	n := utf8.RuneCountInString(name)
	return n >= 1 && n <= MaxRoomNameLength && !strings.ContainsAny(name, "\n\r\t")
}

func validDisplayName(name string) bool {
	if name != strings.TrimSpace(name) {
		return false
	}
	n := utf8.RuneCountInString(name)
	return n >= 1 && n <= MaxDisplayNameLength && !strings.ContainsAny(name, "\n\r\t")
}

// Create makes a new room with the caller as its owning voter member.
func (s *Service) Create(ctx context.Context, name, password string, memberLimit int, displayName string) (*JoinResult, *errs.CustomError) {
	if !validRoomName(name) {
		return nil, errs.NewError(errs.ErrRoomNameInvalid)
	}
	if !validDisplayName(displayName) {
		return nil, errs.NewError(errs.ErrDisplayNameInvalid)
	}
	if memberLimit < MinMemberLimit || memberLimit > MaxMemberLimit {
		return nil, errs.NewError(errs.ErrMemberLimitInvalid, MinMemberLimit, MaxMemberLimit)
	}

	now := s.now().UTC()
	roomID := randx.RoomID()
	memberID := randx.MemberID()

	claimed, err := s.users.Claim(ctx, &user.ActiveUser{
		DisplayName:    displayName,
		RoomID:         roomID,
		MemberID:       memberID,
		LastActivityAt: now,
	})
	if err != nil {
		return nil, s.storeFail(err, "create/claim-name")
	}
	if !claimed {
		return nil, errs.NewError(errs.ErrDisplayNameTaken)
	}

	r := &Room{
		ID:           roomID,
		Name:         name,
		Password:     password,
		MemberLimit:  memberLimit,
		Members:      make(map[string]Member),
		Selections:   make(map[string]string),
		State:        StateWaiting,
		Acknowledged: make(map[string]bool),
		CreatedAt:    now,
	}
	r.AddMember(Member{
		ID:          memberID,
		DisplayName: displayName,
		Role:        RoleVoter,
		JoinedAt:    now,
	})
	r.TouchActivity(now)

	if err := s.dir.Create(ctx, r); err != nil {
		// The display name claim must not outlive the failed create.
		if delErr := s.users.Delete(ctx, displayName); delErr != nil {
			s.logger.Error().Err(delErr).Str("display_name", displayName).Msg("Failed to release display name after create failure")
		}

		if errors.Is(err, ErrNameTaken) {
			return nil, errs.NewError(errs.ErrRoomNameTaken)
		}
		return nil, s.storeFail(err, "create/save-room")
	}

	s.logger.Info().
		Str("room_id", roomID).
		Str("room_name", name).
		Int("member_limit", memberLimit).
		Msg("Room created")

	return &JoinResult{RoomID: roomID, MemberID: memberID}, nil
}

// Join adds a new voter member to the room holding name.
//
// Password-protected rooms report ErrPasswordRequired when no password was
// supplied, which the transport surfaces as a prompt rather than a failure.
// Comparison is plain equality on the stored plaintext.
func (s *Service) Join(ctx context.Context, name, password, displayName string) (*JoinResult, *errs.CustomError) {
	if !validDisplayName(displayName) {
		return nil, errs.NewError(errs.ErrDisplayNameInvalid)
	}

	r, err := s.dir.GetByName(ctx, name)
	if err != nil {
		return nil, s.storeFail(err, "join/load-room")
	}
	if r == nil {
		return nil, errs.NewError(errs.ErrRoomNotFound)
	}

	if r.Password != "" {
		if password == "" {
			return nil, errs.NewError(errs.ErrPasswordRequired)
		}
		if password != r.Password {
			return nil, errs.NewError(errs.ErrWrongPassword)
		}
	}

	if r.State != StateWaiting {
		return nil, errs.NewError(errs.ErrRoomNotWaiting)
	}
	if r.IsFull() {
		return nil, errs.NewError(errs.ErrRoomIsFull)
	}

	now := s.now().UTC()
	memberID := randx.MemberID()

	claimed, err := s.users.Claim(ctx, &user.ActiveUser{
		DisplayName:    displayName,
		RoomID:         r.ID,
		MemberID:       memberID,
		LastActivityAt: now,
	})
	if err != nil {
		return nil, s.storeFail(err, "join/claim-name")
	}
	if !claimed {
		return nil, errs.NewError(errs.ErrDisplayNameTaken)
	}

	r.AddMember(Member{
		ID:          memberID,
		DisplayName: displayName,
		Role:        RoleVoter,
		JoinedAt:    now,
	})
	r.TouchActivity(now)

	if err := s.dir.Save(ctx, r); err != nil {
		if delErr := s.users.Delete(ctx, displayName); delErr != nil {
			s.logger.Error().Err(delErr).Str("display_name", displayName).Msg("Failed to release display name after join failure")
		}
		return nil, s.storeFail(err, "join/save-room")
	}

	s.logger.Info().
		Str("room_id", r.ID).
		Str("member_id", memberID).
		Int("total_members", len(r.Members)).
		Msg("Member joined room")

	return &JoinResult{RoomID: r.ID, MemberID: memberID}, nil
}

// Leave removes the member from the room voluntarily. No removal marker is set:
// the leaving client knows why it left. A room emptied by the departure is
// collected immediately.
func (s *Service) Leave(ctx context.Context, roomID, memberID string) *errs.CustomError {
	r, err := s.dir.GetByID(ctx, roomID)
	if err != nil {
		return s.storeFail(err, "leave/load-room")
	}
	if r == nil {
		return errs.NewError(errs.ErrRoomNotFound)
	}

	m, ok := r.Members[memberID]
	if !ok {
		return errs.NewError(errs.ErrNotInRoom)
	}

	r.RemoveMember(memberID)
	s.maybeComplete(r)

	if err := s.users.Delete(ctx, m.DisplayName); err != nil {
		return s.storeFail(err, "leave/delete-user")
	}

	if len(r.Members) == 0 {
		if cerr := s.collectEmptyRoom(ctx, r); cerr != nil {
			return cerr
		}
	} else if err := s.dir.Save(ctx, r); err != nil {
		return s.storeFail(err, "leave/save-room")
	}

	s.logger.Info().
		Str("room_id", r.ID).
		Str("member_id", memberID).
		Int("total_members", len(r.Members)).
		Msg("Member left room")

	return nil
}

// HeartbeatResult tells a client whether its presence refresh landed, and if
// not, why its session went away (when a marker is still live).
type HeartbeatResult struct {
	Active bool               `json:"active"`
	Marker *marker.UserMarker `json:"marker,omitempty"`
}

// Heartbeat refreshes the caller's presence timestamp. It deliberately never
// touches room activity: idle presence keeps a user logged in but does not keep
// a room alive.
func (s *Service) Heartbeat(ctx context.Context, displayName, memberID string) (*HeartbeatResult, *errs.CustomError) {
	u, err := s.users.Get(ctx, displayName)
	if err != nil {
		return nil, s.storeFail(err, "heartbeat/load-user")
	}

	if u == nil || u.MemberID != memberID {
		m, err := s.ledger.GetUserMarker(ctx, displayName)
		if err != nil {
			return nil, s.storeFail(err, "heartbeat/load-marker")
		}
		return &HeartbeatResult{Active: false, Marker: m}, nil
	}

	u.LastActivityAt = s.now().UTC()
	if err := s.users.Save(ctx, u); err != nil {
		return nil, s.storeFail(err, "heartbeat/save-user")
	}

	return &HeartbeatResult{Active: true}, nil
}

// touchUser refreshes the presence timestamp as a side effect of a game action.
// Failures are logged, not surfaced: presence refresh must never fail a game call.
func (s *Service) touchUser(ctx context.Context, displayName string) {
	if _, err := s.users.Touch(ctx, displayName, s.now().UTC()); err != nil {
		s.logger.Error().Err(err).Str("display_name", displayName).Msg("Failed to refresh user activity")
	}
}

// collectEmptyRoom deletes a room that has no members left. The empty marker is
// only set for rooms that ever had members; a room abandoned before anyone
// joined vanishes silently.
func (s *Service) collectEmptyRoom(ctx context.Context, r *Room) *errs.CustomError {
	if r.HadMembers {
		if err := s.ledger.SetRoomMarker(ctx, r.ID, marker.RoomReasonEmpty); err != nil {
			return s.storeFail(err, "collect/set-marker")
		}
	}

	if err := s.dir.Delete(ctx, r); err != nil {
		return s.storeFail(err, "collect/delete-room")
	}

	s.logger.Info().Str("room_id", r.ID).Msg("Collected empty room")
	return nil
}

// maybeComplete runs the completion check and logs when a round finishes.
func (s *Service) maybeComplete(r *Room) {
	if r.MaybeComplete() {
		s.logger.Info().
			Str("room_id", r.ID).
			Int("pairs", len(r.Result.Pairs)).
			Int("leftovers", len(r.Result.Leftovers)).
			Msg("Matching round completed")
	}
}
