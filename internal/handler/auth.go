package handler

import (
	"errors"
	"net/http"

	"github.com/capitalize-ai/gemini-chat/internal/auth"
	"github.com/capitalize-ai/gemini-chat/internal/model"
)

// AuthHandler handles the login endpoints.
type AuthHandler struct {
	auth *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: svc}
}

// RequestOTP handles POST /api/v1/auth/otp
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req model.RequestOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := h.auth.RequestOTP(r.Context(), &req)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, sess)
}

// ResetOTP handles DELETE /api/v1/auth/otp
func (h *AuthHandler) ResetOTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.auth.ResetOTP())
}

// VerifyOTP handles POST /api/v1/auth/verify
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req model.VerifyOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.auth.VerifyOTP(r.Context(), &req)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Session handles GET /api/v1/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.auth.Session())
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.auth.Logout(r.Context()))
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidPhone),
		errors.Is(err, auth.ErrInvalidCountryCode),
		errors.Is(err, auth.ErrInvalidOTP):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrNoPendingLogin):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
