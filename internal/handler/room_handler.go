/*
Package handler provides HTTP handler functions for room creation, joining,
polling, leaving, and presence heartbeats.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pairlink/internal/pkg/req"
	"pairlink/internal/pkg/resp"
)

type CreateRoomInput struct {
	// Name is the human-facing room name, unique case-insensitively.
	Name string `json:"name"`

	// Password optionally protects the room. Empty means open.
	Password string `json:"password,omitempty"`

	// MemberLimit caps the room size (2-99).
	MemberLimit int `json:"memberLimit"`

	// DisplayName is the creator's name, unique system-wide while active.
	DisplayName string `json:"displayName"`
}

// HandleCreateRoom creates an HTTP HandlerFunc to process room creation requests.
func HandleCreateRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreateRoomInput

		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		result, createErr := deps.Rooms.Create(r.Context(), input.Name, input.Password, input.MemberLimit, input.DisplayName)
		if createErr != nil {
			resp.RespondError(w, r, createErr)
			return
		}

		resp.RespondSuccess(w, r, result)
	}
}

type JoinRoomInput struct {
	Name        string `json:"name"`
	Password    string `json:"password,omitempty"`
	DisplayName string `json:"displayName"`
}

// HandleJoinRoom processes the request to join a room by name.
func HandleJoinRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input JoinRoomInput

		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		result, joinErr := deps.Rooms.Join(r.Context(), input.Name, input.Password, input.DisplayName)
		if joinErr != nil {
			resp.RespondError(w, r, joinErr)
			return
		}

		resp.RespondSuccess(w, r, result)
	}
}

// HandleGetSnapshot serves the polling endpoint. The optional displayName query
// parameter lets the caller receive its own removal marker alongside the room
// view. A missing room is a success response with found=false, never a 404.
func HandleGetSnapshot(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		displayName := r.URL.Query().Get("displayName")

		snap, snapErr := deps.Rooms.GetSnapshot(r.Context(), roomID, displayName)
		if snapErr != nil {
			resp.RespondError(w, r, snapErr)
			return
		}

		resp.RespondSuccess(w, r, snap)
	}
}

type LeaveRoomInput struct {
	MemberID string `json:"memberId"`
}

// HandleLeaveRoom processes a voluntary exit from a room.
func HandleLeaveRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LeaveRoomInput

		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if leaveErr := deps.Rooms.Leave(r.Context(), chi.URLParam(r, "roomID"), input.MemberID); leaveErr != nil {
			resp.RespondError(w, r, leaveErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

type HeartbeatInput struct {
	DisplayName string `json:"displayName"`
	MemberID    string `json:"memberId"`
}

// HandleHeartbeat refreshes the caller's presence. The response carries
// active=false plus any live removal marker when the session is gone, so the
// client can reconcile instead of retrying blindly.
func HandleHeartbeat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input HeartbeatInput

		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		result, hbErr := deps.Rooms.Heartbeat(r.Context(), input.DisplayName, input.MemberID)
		if hbErr != nil {
			resp.RespondError(w, r, hbErr)
			return
		}

		resp.RespondSuccess(w, r, result)
	}
}
