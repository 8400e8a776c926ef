package http

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/MKhiriev/care-coord/internal/utils"
	"github.com/MKhiriev/care-coord/models"
)

// requireRole admits callers whose role is one of roles. It must run after
// authenticate.
func (h *Handler) requireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := utils.GetClaimsFromContext(r.Context())
			if !ok {
				logger.FromRequest(r).Error().Err(ErrNoClaimsInContext).Msg("role gate without authentication")
				utils.WriteError(w, http.StatusUnauthorized, MsgAuthenticationRequired)
				return
			}

			if !slices.Contains(roles, claims.Role) {
				logger.FromRequest(r).Info().Str("role", string(claims.Role)).Msg("role not allowed")
				utils.WriteError(w, http.StatusForbidden, fmt.Sprintf("Access denied. Required roles: %s. Your role: %s",
					models.JoinRoles(roles), claims.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requireWorkerType admits callers whose role belongs to one of types and
// attaches the derived worker type to the claims in context. A role outside
// both partitions is rejected.
func (h *Handler) requireWorkerType(types ...models.WorkerType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := utils.GetClaimsFromContext(r.Context())
			if !ok {
				logger.FromRequest(r).Error().Err(ErrNoClaimsInContext).Msg("worker type gate without authentication")
				utils.WriteError(w, http.StatusUnauthorized, MsgAuthenticationRequired)
				return
			}

			workerType, err := models.WorkerTypeOf(claims.Role)
			if err != nil {
				logger.FromRequest(r).Warn().Str("role", string(claims.Role)).Msg("token carries unknown role")
				utils.WriteError(w, http.StatusForbidden, MsgInvalidUserRole)
				return
			}

			if !slices.Contains(types, workerType) {
				utils.WriteError(w, http.StatusForbidden, fmt.Sprintf("Access denied. Required worker types: %s. Your worker type: %s",
					models.JoinWorkerTypes(types), workerType))
				return
			}

			claims.WorkerType = workerType
			next.ServeHTTP(w, r.WithContext(utils.WithClaims(r.Context(), claims)))
		})
	}
}

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return h.requireRole(models.RoleAdmin)(next)
}

func (h *Handler) requireManagement(next http.Handler) http.Handler {
	return h.requireRole(models.ManagementRoles...)(next)
}

func (h *Handler) requireOfficeWorker(next http.Handler) http.Handler {
	return h.requireWorkerType(models.WorkerTypeOffice)(next)
}

// requirePasswordRotated blocks callers whose token still demands a password
// change. Routes that let the caller rotate the password are mounted outside
// of it.
func (h *Handler) requirePasswordRotated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := utils.GetClaimsFromContext(r.Context())
		if !ok {
			utils.WriteError(w, http.StatusUnauthorized, MsgAuthenticationRequired)
			return
		}

		if claims.MustChangePassword {
			utils.WriteError(w, http.StatusForbidden, MsgPasswordChangeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
