/*
Package room contains the core domain logic for matching sessions.

This file holds the administrative operations. They mirror the owner-level kick
and delete but record admin-flavored markers, which outrank every other removal
reason a client could observe in the same pass.
*/
package room

import (
	"context"

	"pairlink/internal/app/marker"
	"pairlink/internal/pkg/errs"
)

// AdminKick removes a member without owner involvement, marking the removal as
// an admin kick.
func (s *Service) AdminKick(ctx context.Context, roomID, targetID string) *errs.CustomError {
	r, err := s.dir.GetByID(ctx, roomID)
	if err != nil {
		return s.storeFail(err, "admin-kick/load-room")
	}
	if r == nil {
		return errs.NewError(errs.ErrRoomNotFound)
	}

	target, ok := r.Members[targetID]
	if !ok {
		return errs.NewError(errs.ErrNotInRoom)
	}

	return s.removeAndMark(ctx, r, target, marker.UserReasonAdminKick, "")
}

// AdminDismiss deletes a room outright. Exactly one room marker and one user
// marker per remaining member are written, so every member's next poll sees a
// single consistent explanation no matter how often it polls.
func (s *Service) AdminDismiss(ctx context.Context, roomID string) *errs.CustomError {
	r, err := s.dir.GetByID(ctx, roomID)
	if err != nil {
		return s.storeFail(err, "admin-dismiss/load-room")
	}
	if r == nil {
		return errs.NewError(errs.ErrRoomNotFound)
	}

	if err := s.ledger.SetRoomMarker(ctx, r.ID, marker.RoomReasonAdminDismissed); err != nil {
		return s.storeFail(err, "admin-dismiss/set-room-marker")
	}

	for _, m := range r.Members {
		if err := s.ledger.SetUserMarker(ctx, m.DisplayName, marker.UserReasonRoomDismissed, marker.RoomReasonAdminDismissed); err != nil {
			return s.storeFail(err, "admin-dismiss/set-user-marker")
		}
		if err := s.users.Delete(ctx, m.DisplayName); err != nil {
			return s.storeFail(err, "admin-dismiss/delete-user")
		}
	}

	if err := s.dir.Delete(ctx, r); err != nil {
		return s.storeFail(err, "admin-dismiss/delete-room")
	}

	s.logger.Info().
		Str("room_id", r.ID).
		Int("members_notified", len(r.Members)).
		Msg("Room dismissed by admin")

	return nil
}

// ListRooms returns a view of every stored room, for the admin overview. Rooms
// deleted between the key scan and the record read are skipped.
func (s *Service) ListRooms(ctx context.Context) ([]*RoomView, *errs.CustomError) {
	ids, err := s.dir.ListIDs(ctx)
	if err != nil {
		return nil, s.storeFail(err, "admin-list/list-ids")
	}

	views := make([]*RoomView, 0, len(ids))
	for _, id := range ids {
		r, err := s.dir.GetByID(ctx, id)
		if err != nil {
			return nil, s.storeFail(err, "admin-list/load-room")
		}
		if r == nil {
			continue
		}
		views = append(views, NewRoomView(r))
	}

	return views, nil
}
