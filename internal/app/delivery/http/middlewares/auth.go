package middlewares

import (
	"context"
	"net/http"
	"strings"

	"mediq-service/internal/pkg/constvars"
	"mediq-service/internal/pkg/exceptions"
	"mediq-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// Authenticate verifies the bearer token and admits only the listed roles.
// The actor identity and role land in the request context for handlers.
func (m *Middlewares) Authenticate(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get(constvars.HeaderAuthorization)
			if authHeader == "" {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
				return
			}

			actorID, role, err := m.JWTManager.VerifyToken(tokenString)
			if err != nil {
				utils.BuildErrorResponse(m.Log, w, err)
				return
			}

			if !roleAllowed(role, allowedRoles) {
				requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
				m.Log.Warn("Actor role not admitted for endpoint",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.String(constvars.LoggingEndpointKey, r.URL.Path),
				)
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrRoleNotAllowed(nil))
				return
			}

			ctx := context.WithValue(r.Context(), constvars.CONTEXT_ACTOR_ID_KEY, actorID)
			ctx = context.WithValue(ctx, constvars.CONTEXT_ACTOR_ROLE_KEY, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func roleAllowed(role string, allowed []string) bool {
	for _, candidate := range allowed {
		if candidate == role {
			return true
		}
	}
	return false
}
