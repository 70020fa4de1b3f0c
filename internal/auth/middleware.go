package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sakif/rewear/internal/model"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string,
// ANY package that knows the string can read or shadow your value. A
// package-private type means only this package can read or write the
// identity in the context.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth is middleware that enforces authentication on protected routes.
//
// It reads the JWT from the Authorization: Bearer header (falling back to
// the "token" cookie set by the OAuth browser flow), validates it, and
// stores the Identity in the request context. Missing or invalid tokens
// end the request with a 401 envelope.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := extractIdentity(r, tokens)
			if err != nil {
				writeUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin enforces the administrative role on top of RequireAuth.
// Chain it AFTER RequireAuth:
//
//	r.Use(auth.RequireAuth(tokens))
//	r.Use(auth.RequireAdmin)
//
// The role comes from the verified token claim — no user lookup. A 403
// here means the caller authenticated fine but isn't an admin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := IdentityFromContext(r.Context())
		if !ok {
			writeUnauthorized(w)
			return
		}
		if ident.Role != model.RoleAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"success":false,"error":"forbidden","message":"admin access required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromContext retrieves the authenticated identity from the
// request context. Returns (nil, false) on anonymous requests.
//
// Usage in handlers:
//
//	ident, ok := auth.IdentityFromContext(r.Context())
//	if !ok {
//	    // anonymous — only possible on routes without RequireAuth
//	}
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	ident, ok := ctx.Value(identityKey).(*Identity)
	return ident, ok && ident != nil && ident.UserID != ""
}

// extractIdentity pulls the JWT off the request and validates it.
//
// BEARER HEADER FIRST, COOKIE SECOND:
// API clients send "Authorization: Bearer <jwt>". The GitHub OAuth
// callback can't set headers on the redirected browser, so it stores the
// token in an HttpOnly cookie instead; we accept either.
func extractIdentity(r *http.Request, tokens *TokenService) (*Identity, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return nil, http.ErrNoCookie
		}
		return tokens.Validate(tokenStr)
	}

	cookie, err := r.Cookie("token")
	if err != nil {
		return nil, err
	}
	return tokens.Validate(cookie.Value)
}

// writeUnauthorized ends the request with the standard 401 envelope.
// The middleware can't use the handler package's helpers (that would be
// an import cycle), so the envelope is spelled out here.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"error":"unauthorized","message":"valid authentication required"}`))
}
