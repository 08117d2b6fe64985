/*
Package handler provides HTTP handler functions for the in-game operations:
starting a round, voting, acknowledging results, role changes, and owner kicks.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pairlink/internal/app/room"
	"pairlink/internal/pkg/req"
	"pairlink/internal/pkg/resp"
)

type StartGameInput struct {
	MemberID string `json:"memberId"`
}

// HandleStartGame lets the room owner begin a matching round.
func HandleStartGame(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input StartGameInput

		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if startErr := deps.Rooms.Start(r.Context(), chi.URLParam(r, "roomID"), input.MemberID); startErr != nil {
			resp.RespondError(w, r, startErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

type SubmitVoteInput struct {
	MemberID string `json:"memberId"`
	ChosenID string `json:"chosenId"`
}

// HandleSubmitVote records one voter's selection.
func HandleSubmitVote(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input SubmitVoteInput

		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if voteErr := deps.Rooms.Vote(r.Context(), chi.URLParam(r, "roomID"), input.MemberID, input.ChosenID); voteErr != nil {
			resp.RespondError(w, r, voteErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

type AcknowledgeInput struct {
	MemberID string `json:"memberId"`
}

// HandleAcknowledge advances the result-screen fan-in barrier.
func HandleAcknowledge(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input AcknowledgeInput

		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if ackErr := deps.Rooms.Acknowledge(r.Context(), chi.URLParam(r, "roomID"), input.MemberID); ackErr != nil {
			resp.RespondError(w, r, ackErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

type ChangeRoleInput struct {
	MemberID string `json:"memberId"`

	// TargetID defaults to MemberID (changing one's own role).
	TargetID string `json:"targetId,omitempty"`

	Role room.Role `json:"role"`
}

// HandleChangeRole switches a member between voter and observer.
func HandleChangeRole(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input ChangeRoleInput

		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		targetID := input.TargetID
		if targetID == "" {
			targetID = input.MemberID
		}

		if roleErr := deps.Rooms.ChangeRole(r.Context(), chi.URLParam(r, "roomID"), input.MemberID, targetID, input.Role); roleErr != nil {
			resp.RespondError(w, r, roleErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

type KickMemberInput struct {
	MemberID string `json:"memberId"`
	TargetID string `json:"targetId"`
}

// HandleKickMember removes a member on the owner's request.
func HandleKickMember(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input KickMemberInput

		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if kickErr := deps.Rooms.Kick(r.Context(), chi.URLParam(r, "roomID"), input.MemberID, input.TargetID); kickErr != nil {
			resp.RespondError(w, r, kickErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}
