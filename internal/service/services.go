package service

import (
	"github.com/MKhiriev/care-coord/internal/adapter"
	"github.com/MKhiriev/care-coord/internal/config"
	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/MKhiriev/care-coord/internal/store"
	"github.com/MKhiriev/care-coord/models"
)

type Services struct {
	AuthService    AuthService
	UserService    UserService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, publisher adapter.EventPublisher, cfg config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) *Services {
	userService := NewUserValidationService().Wrap(
		NewUserService(storages.UserRepository, storages.TokenDenylist, publisher, cfg.App, logger),
	)

	return &Services{
		AuthService:    NewAuthService(storages.UserRepository, storages.TokenDenylist, publisher, cfg.App, logger),
		UserService:    userService,
		AppInfoService: NewAppInfoService(buildInfo, logger),
	}
}
