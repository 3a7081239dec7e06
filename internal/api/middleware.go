package api

import (
	"net/http"

	"vivendi/backend/internal/apperrors"
	"vivendi/backend/internal/model"
	"vivendi/backend/internal/service"
)

// AuthTokenHeader carries the bearer token on every authenticated request.
const AuthTokenHeader = "x-auth-token"

// noTokenBody is the literal response for requests without a token. This
// path answers directly instead of going through the responder; the shape
// is part of the external contract.
const noTokenBody = `{"msg": "No authentication token, authorization denied."}`

// Authenticate resolves the x-auth-token header to an identity and attaches
// it to the request context. Requests without a token are answered 401 on
// the spot; token resolution failures route through the responder.
func Authenticate(auth service.AuthService, rp *Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(AuthTokenHeader)
			if token == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(noTokenBody))
				return
			}

			identity, err := auth.FindByToken(r.Context(), token)
			if err != nil {
				rp.Error(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
		})
	}
}

// RequireAdmin gates a route to admin users. It must run after Authenticate;
// the missing-identity branch only fires on misordered middleware.
// Role failures answer 401, matching the established external contract.
func RequireAdmin(rp *Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := identityFrom(r.Context())
			if identity == nil {
				rp.Error(w, r, apperrors.Unauthorized(apperrors.Params{
					Message: "Authentication required. Please log in first.",
					Code:    apperrors.CodeAuthRequired,
				}))
				return
			}

			if identity.User.Role != model.RoleAdmin {
				rp.Error(w, r, apperrors.Unauthorized(apperrors.Params{
					Message: "Access denied. Admin privileges required.",
					Code:    apperrors.CodeAdminRequired,
				}))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NotFoundHandler raises a typed NotFound for unknown routes so they share
// the uniform error envelope.
func NotFoundHandler(rp *Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rp.Error(w, r, apperrors.NotFound(apperrors.Params{
			Message: "Route not found: " + r.URL.Path,
		}))
	}
}
