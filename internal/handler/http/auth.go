package http

import (
	"net/http"

	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/MKhiriev/care-coord/internal/utils"
	"github.com/MKhiriev/care-coord/models"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteError(w, http.StatusBadRequest, MsgInvalidJSON)
		return
	}

	result, err := h.services.AuthService.Login(ctx, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info().Int64("user_id", result.User.ID).Msg("user successfully logged in")
	utils.WriteSuccess(w, http.StatusOK, result, "")
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, MsgAuthenticationRequired)
		return
	}

	user, err := h.services.UserService.GetUser(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, user.View(), "")
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, ok := utils.GetTokenFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, MsgAuthenticationRequired)
		return
	}

	if err := h.services.AuthService.Logout(ctx, token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, nil, MsgLoggedOut)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, MsgAuthenticationRequired)
		return
	}

	var req models.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteError(w, http.StatusBadRequest, MsgInvalidJSON)
		return
	}

	token, err := h.services.AuthService.ChangePassword(ctx, userID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info().Msg("password changed")
	utils.WriteSuccess(w, http.StatusOK, models.TokenResult{Token: token.String()}, MsgPasswordChanged)
}
