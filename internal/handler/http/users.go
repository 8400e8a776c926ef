package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/MKhiriev/care-coord/internal/utils"
	"github.com/MKhiriev/care-coord/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.services.UserService.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]models.UserView, len(users))
	for i, user := range users {
		views[i] = user.View()
	}

	utils.WriteSuccess(w, http.StatusOK, views, "")
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	user, err := h.services.UserService.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, user.View(), "")
}

func (h *Handler) createWorker(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := utils.GetClaimsFromContext(ctx)

	var req models.CreateWorkerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.FromRequest(r).Err(err).Msg("invalid JSON was passed")
		utils.WriteError(w, http.StatusBadRequest, MsgInvalidJSON)
		return
	}

	created, err := h.services.UserService.CreateWorker(ctx, actor, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, created, MsgWorkerCreated)
}

func (h *Handler) updateWorker(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := utils.GetClaimsFromContext(ctx)

	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req models.UpdateWorkerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.FromRequest(r).Err(err).Msg("invalid JSON was passed")
		utils.WriteError(w, http.StatusBadRequest, MsgInvalidJSON)
		return
	}

	user, err := h.services.UserService.UpdateWorker(ctx, actor, id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, user.View(), "")
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := utils.GetClaimsFromContext(ctx)

	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	reset, err := h.services.UserService.ResetPassword(ctx, actor, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, reset, MsgPasswordReset)
}

func (h *Handler) deactivateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := utils.GetClaimsFromContext(ctx)

	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	if err := h.services.UserService.Deactivate(ctx, actor, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, nil, MsgUserDeactivated)
}

// userIDParam parses the {id} URL parameter and answers 400 when it is not a
// positive integer.
func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		utils.WriteError(w, http.StatusBadRequest, MsgInvalidUserID)
		return 0, false
	}
	return id, true
}

// decodeJSON reads one JSON object from a size-limited body. An empty body
// decodes into the zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("error decoding request body: %w", err)
	}
	return nil
}
