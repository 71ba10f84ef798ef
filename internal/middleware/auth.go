package middleware

import (
	"net/http"
	"strings"

	"github.com/ifuapp/ifu/internal/ctxkeys"
	"github.com/ifuapp/ifu/internal/model"
	"github.com/ifuapp/ifu/internal/render"
)

// TokenVerifier resolves a bearer token to a user ID.
type TokenVerifier interface {
	VerifyJWT(token string) (string, error)
}

// UserFinder confirms the token's user still exists.
type UserFinder interface {
	ByID(id string) (*model.User, error)
}

// AuthMiddleware reads a bearer JWT and adds the user ID to the context if
// valid. Requests without a valid token continue anonymously.
func AuthMiddleware(verifier TokenVerifier, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := verifier.VerifyJWT(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			// Deleted accounts keep valid tokens until expiry
			_, err = users.ByID(userID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.UserID(r.Context()) == "" {
			render.ErrorMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	}
}
