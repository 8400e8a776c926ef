package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/MKhiriev/care-coord/internal/service"
	"github.com/MKhiriev/care-coord/internal/utils"
)

// authenticate is an HTTP middleware that enforces bearer token
// authentication.
//
// It inspects the incoming "Authorization" header, extracts the bearer token,
// validates it via [service.AuthService.ParseToken], and on success stores
// the verified claims and the token in the request context (see
// [utils.WithClaims] and [utils.WithToken]) before delegating to the next
// handler.
//
// Rejections:
//   - 401 "Access token required" when the header is absent or carries no
//     bearer token.
//   - 403 "Invalid or expired token" when the token fails verification or
//     has been revoked.
//   - 500 when the token denylist cannot be consulted.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Debug().Err(ErrEmptyAuthorizationHeader).Send()
			utils.WriteError(w, http.StatusUnauthorized, MsgAccessTokenRequired)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Debug().Err(ErrInvalidAuthorizationHeader).Send()
			utils.WriteError(w, http.StatusUnauthorized, MsgAccessTokenRequired)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) {
				log.Info().Msg("invalid or expired token")
				utils.WriteError(w, http.StatusForbidden, MsgInvalidToken)
				return
			}
			writeServiceError(w, r, err)
			return
		}

		ctx = utils.WithClaims(ctx, token.Claims)
		ctx = utils.WithToken(ctx, token)

		l := log.With().Int64("user_id", token.UserID).Logger()
		ctx = l.WithContext(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
