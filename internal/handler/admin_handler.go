/*
Package handler provides HTTP handler functions for the administrative API.

Admin access is a two-step flow: the shared admin secret is exchanged for a
short-lived session token, and every other admin route requires that token.
The secret comparison uses constant-time equality.
*/
package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pairlink/internal/pkg/auth/jwt"
	"pairlink/internal/pkg/errs"
	"pairlink/internal/pkg/logx"
	"pairlink/internal/pkg/randx"
	"pairlink/internal/pkg/req"
	"pairlink/internal/pkg/resp"
)

type AdminLoginInput struct {
	Secret string `json:"secret"`
}

// HandleAdminLogin exchanges the admin secret for a session token.
func HandleAdminLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input AdminLoginInput

		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if subtle.ConstantTimeCompare([]byte(input.Secret), []byte(deps.Config.AdminSecret)) != 1 {
			logx.Warn("Rejected admin login with wrong secret")
			resp.RespondError(w, r, errs.NewError(errs.ErrAdminUnauthorized))
			return
		}

		sessionID, err := randx.AdminSessionID()
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		token, err := jwt.GenerateToken(sessionID, deps.Config.JWTSecret, jwt.AdminSessionExpiration)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		logx.Info("Admin session opened", "session_id", sessionID)

		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
		})
	}
}

// HandleAdminListRooms returns a view of every stored room.
func HandleAdminListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, listErr := deps.Rooms.ListRooms(r.Context())
		if listErr != nil {
			resp.RespondError(w, r, listErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"rooms": views,
		})
	}
}

// HandleAdminDismissRoom deletes a room outright, notifying every member
// through the marker ledger.
func HandleAdminDismissRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dismissErr := deps.Rooms.AdminDismiss(r.Context(), chi.URLParam(r, "roomID")); dismissErr != nil {
			resp.RespondError(w, r, dismissErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

type AdminKickInput struct {
	TargetID string `json:"targetId"`
}

// HandleAdminKickMember removes a member without owner involvement.
func HandleAdminKickMember(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input AdminKickInput

		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if kickErr := deps.Rooms.AdminKick(r.Context(), chi.URLParam(r, "roomID"), input.TargetID); kickErr != nil {
			resp.RespondError(w, r, kickErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}
