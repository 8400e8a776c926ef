package http

import (
	"net/http"

	"github.com/MKhiriev/care-coord/internal/utils"
	"github.com/MKhiriev/care-coord/models"
)

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, models.HealthStatus{
		Status:  "ok",
		Version: h.services.AppInfoService.GetAppVersion(r.Context()),
	}, "")
}

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	info := h.services.AppInfoService.GetBuildInfo(r.Context())

	utils.WriteSuccess(w, http.StatusOK, map[string]string{
		"version": info.BuildVersion(),
		"date":    info.BuildDate(),
		"commit":  info.BuildCommit(),
	}, "")
}
