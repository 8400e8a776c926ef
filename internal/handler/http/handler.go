package http

import (
	"net/netip"

	"github.com/MKhiriev/care-coord/internal/config"
	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/MKhiriev/care-coord/internal/service"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

type Handler struct {
	services *service.Services
	settings config.Server

	// trustedProxies is parsed from settings by Init.
	trustedProxies []netip.Prefix

	logger *logger.Logger
}

func NewHandler(services *service.Services, settings config.Server, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		settings: settings,
		logger:   logger,
	}
}
