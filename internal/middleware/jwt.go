package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vaughan-dsouza/medium-blog/internal/errs"
	"github.com/vaughan-dsouza/medium-blog/internal/utils"
)

// AuthMiddleware verifies the token in the Authorization header and stores
// the user id in the request context. Both "Bearer <token>" and a bare
// token are accepted.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := zerolog.Ctx(r.Context())

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				log.Warn().Msg("missing authorization token")
				utils.WriteError(w, errs.NewUnauthorizedError())
				return
			}

			claims, err := utils.VerifyToken(token, secret)
			if err != nil {
				log.Warn().Err(err).Msg("rejected authorization token")
				utils.WriteError(w, errs.NewUnauthorizedError())
				return
			}

			// push user ID into context
			ctx := utils.WithUserID(r.Context(), claims.UserID)

			userLog := log.With().Int64("user_id", claims.UserID).Logger()
			ctx = userLog.WithContext(ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 1 {
		return parts[0]
	}

	if !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
