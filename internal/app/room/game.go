/*
Package room contains the core domain logic for matching sessions.

This file holds the in-game operations: starting a round, submitting selections,
acknowledging results, changing roles, and owner kicks. Every operation re-fetches
the room before mutating so the lost-update window is bounded by one request.
*/
package room

import (
	"context"

	"pairlink/internal/app/marker"
	"pairlink/internal/pkg/errs"
)

// Start begins a matching round. Only the owner may start, only from the
// waiting state, and only with at least two voters present.
func (s *Service) Start(ctx context.Context, roomID, memberID string) *errs.CustomError {
	r, err := s.dir.GetByID(ctx, roomID)
	if err != nil {
		return s.storeFail(err, "start/load-room")
	}
	if r == nil {
		return errs.NewError(errs.ErrRoomNotFound)
	}

	m, ok := r.Members[memberID]
	if !ok {
		return errs.NewError(errs.ErrNotInRoom)
	}
	if r.OwnerID != memberID {
		return errs.NewError(errs.ErrNotOwner)
	}
	if r.State != StateWaiting {
		return errs.NewError(errs.ErrNotWaiting)
	}
	if r.VoterCount() < MinVoters {
		return errs.NewError(errs.ErrNotEnoughVoters)
	}

	r.State = StateLinking
	r.Selections = make(map[string]string)
	r.Acknowledged = make(map[string]bool)
	r.Result = nil
	r.TouchActivity(s.now().UTC())

	if err := s.dir.Save(ctx, r); err != nil {
		return s.storeFail(err, "start/save-room")
	}

	s.touchUser(ctx, m.DisplayName)

	s.logger.Info().
		Str("room_id", r.ID).
		Int("voters", r.VoterCount()).
		Msg("Game started")

	return nil
}

// Vote records the caller's selection. The round completes as a side effect the
// instant the last voter submits.
func (s *Service) Vote(ctx context.Context, roomID, memberID, chosenID string) *errs.CustomError {
	r, err := s.dir.GetByID(ctx, roomID)
	if err != nil {
		return s.storeFail(err, "vote/load-room")
	}
	if r == nil {
		return errs.NewError(errs.ErrRoomNotFound)
	}

	m, ok := r.Members[memberID]
	if !ok {
		return errs.NewError(errs.ErrNotInRoom)
	}
	if m.Role != RoleVoter {
		return errs.NewError(errs.ErrNotAVoter)
	}
	if r.State != StateLinking {
		return errs.NewError(errs.ErrNotLinking)
	}
	if _, voted := r.Selections[memberID]; voted {
		return errs.NewError(errs.ErrAlreadyVoted)
	}
	if chosenID == memberID {
		return errs.NewError(errs.ErrSelfSelection)
	}

	target, ok := r.Members[chosenID]
	if !ok || target.Role != RoleVoter {
		return errs.NewError(errs.ErrTargetNotInRoom)
	}

	r.Selections[memberID] = chosenID
	r.TouchActivity(s.now().UTC())
	s.maybeComplete(r)

	if err := s.dir.Save(ctx, r); err != nil {
		return s.storeFail(err, "vote/save-room")
	}

	s.touchUser(ctx, m.DisplayName)

	return nil
}

// Acknowledge records that the member has left the result screen. The room
// returns to waiting only once every current voter has acknowledged; partial
// acknowledgement leaves it completed. Acknowledging twice is a no-op.
func (s *Service) Acknowledge(ctx context.Context, roomID, memberID string) *errs.CustomError {
	r, err := s.dir.GetByID(ctx, roomID)
	if err != nil {
		return s.storeFail(err, "ack/load-room")
	}
	if r == nil {
		return errs.NewError(errs.ErrRoomNotFound)
	}

	m, ok := r.Members[memberID]
	if !ok {
		return errs.NewError(errs.ErrNotInRoom)
	}
	if r.State != StateCompleted {
		return errs.NewError(errs.ErrNotCompleted)
	}

	if m.Role == RoleVoter {
		r.Acknowledged[memberID] = true
	}

	allAcked := true
	for _, id := range r.Voters() {
		if !r.Acknowledged[id] {
			allAcked = false
			break
		}
	}
	if allAcked {
		r.resetToWaiting()
		s.logger.Info().Str("room_id", r.ID).Msg("All voters acknowledged, room back to waiting")
	}

	if err := s.dir.Save(ctx, r); err != nil {
		return s.storeFail(err, "ack/save-room")
	}

	s.touchUser(ctx, m.DisplayName)

	return nil
}

// ChangeRole switches a member between voter and observer. Roles are locked
// outside the waiting state. Members may change their own role; any other
// member's role can only be changed by the owner.
func (s *Service) ChangeRole(ctx context.Context, roomID, actorID, targetID string, role Role) *errs.CustomError {
	if role != RoleVoter && role != RoleObserver {
		return errs.NewError(errs.ErrInvalidParams)
	}

	r, err := s.dir.GetByID(ctx, roomID)
	if err != nil {
		return s.storeFail(err, "role/load-room")
	}
	if r == nil {
		return errs.NewError(errs.ErrRoomNotFound)
	}

	actor, ok := r.Members[actorID]
	if !ok {
		return errs.NewError(errs.ErrNotInRoom)
	}
	if actorID != targetID && r.OwnerID != actorID {
		return errs.NewError(errs.ErrNotOwner)
	}
	target, ok := r.Members[targetID]
	if !ok {
		return errs.NewError(errs.ErrNotInRoom)
	}
	if r.State != StateWaiting {
		return errs.NewError(errs.ErrNotWaiting)
	}

	target.Role = role
	r.Members[targetID] = target
	r.TouchActivity(s.now().UTC())

	if err := s.dir.Save(ctx, r); err != nil {
		return s.storeFail(err, "role/save-room")
	}

	s.touchUser(ctx, actor.DisplayName)

	return nil
}

// Kick removes a member on the owner's request and records an owner-kick marker
// so the kicked client's next poll explains the removal.
func (s *Service) Kick(ctx context.Context, roomID, ownerID, targetID string) *errs.CustomError {
	r, err := s.dir.GetByID(ctx, roomID)
	if err != nil {
		return s.storeFail(err, "kick/load-room")
	}
	if r == nil {
		return errs.NewError(errs.ErrRoomNotFound)
	}

	owner, ok := r.Members[ownerID]
	if !ok {
		return errs.NewError(errs.ErrNotInRoom)
	}
	if r.OwnerID != ownerID {
		return errs.NewError(errs.ErrNotOwner)
	}
	if targetID == ownerID {
		return errs.NewError(errs.ErrKickSelf)
	}

	target, ok := r.Members[targetID]
	if !ok {
		return errs.NewError(errs.ErrNotInRoom)
	}

	return s.removeAndMark(ctx, r, target, marker.UserReasonOwnerKick, owner.DisplayName)
}

// removeAndMark is the shared removal path for owner and admin kicks: set the
// user marker, drop the active user, repair the room, and collect it if empty.
func (s *Service) removeAndMark(ctx context.Context, r *Room, target Member, reason marker.UserReason, actorName string) *errs.CustomError {
	if err := s.ledger.SetUserMarker(ctx, target.DisplayName, reason, ""); err != nil {
		return s.storeFail(err, "kick/set-marker")
	}

	if err := s.users.Delete(ctx, target.DisplayName); err != nil {
		return s.storeFail(err, "kick/delete-user")
	}

	r.RemoveMember(target.ID)
	s.maybeComplete(r)
	r.TouchActivity(s.now().UTC())

	if len(r.Members) == 0 {
		if cerr := s.collectEmptyRoom(ctx, r); cerr != nil {
			return cerr
		}
	} else if err := s.dir.Save(ctx, r); err != nil {
		return s.storeFail(err, "kick/save-room")
	}

	if actorName != "" {
		s.touchUser(ctx, actorName)
	}

	s.logger.Info().
		Str("room_id", r.ID).
		Str("target_id", target.ID).
		Str("reason", string(reason)).
		Msg("Member removed from room")

	return nil
}
