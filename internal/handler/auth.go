// Package handler is the HTTP layer: it parses requests, calls the
// service layer, and writes envelope responses. No business rules live
// here — a handler that starts checking ownership or status transitions
// is a handler doing the service's job.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rs/xid"
	"github.com/sakif/rewear/internal/auth"
	"github.com/sakif/rewear/internal/service"
)

// AuthHandler manages signup, signin, profile access, and the optional
// GitHub OAuth browser flow.
type AuthHandler struct {
	auths  *service.AuthService
	github *auth.GitHubProvider // nil when GitHub signin isn't configured
	logger *slog.Logger
}

func NewAuthHandler(auths *service.AuthService, github *auth.GitHubProvider, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auths:  auths,
		github: github,
		logger: logger,
	}
}

type signupRequest struct {
	FullName    string `json:"fullname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	FullName     *string `json:"fullname"`
	PhoneNumber  *string `json:"phoneNumber"`
	ProfilePhoto *string `json:"profilePhoto"`
}

// authResponse is the data payload for signup/signin: the user record
// plus the bearer token the client stores.
type authResponse struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

// HandleSignup registers a new account.
//
// HTTP: POST /api/auth/signup
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	result, err := h.auths.Signup(r.Context(), req.FullName, req.Email, req.PhoneNumber, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "account created", authResponse{
		User:  result.User,
		Token: result.Token,
	})
}

// HandleSignin authenticates an email/password pair.
//
// HTTP: POST /api/auth/signin
func (h *AuthHandler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	result, err := h.auths.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "signed in", authResponse{
		User:  result.User,
		Token: result.Token,
	})
}

// HandleGetProfile returns the caller's own record.
//
// HTTP: GET /api/auth/profile (RequireAuth)
func (h *AuthHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't panic on a nil identity.
		writeJSON(w, http.StatusUnauthorized, Envelope{Success: false, Error: "unauthorized"})
		return
	}

	user, err := h.auths.GetProfile(r.Context(), ident.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", user)
}

// HandleUpdateProfile merges the provided fields into the caller's record.
//
// HTTP: PUT /api/auth/profile (RequireAuth)
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Envelope{Success: false, Error: "unauthorized"})
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	user, err := h.auths.UpdateProfile(r.Context(), ident.UserID, service.ProfilePatch{
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		ProfilePhoto: req.ProfilePhoto,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "profile updated", user)
}

// HandleGitHubLogin redirects the browser to GitHub's authorization
// page, storing a single-use state in a short-lived cookie for the
// callback's CSRF check.
//
// HTTP: GET /auth/github/login
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // long enough to approve, short enough to limit replay
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth flow: verifies the state,
// exchanges the code, signs the user in (registering on first login),
// and hands the JWT to the browser as an HttpOnly cookie.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("oauth callback: state missing or mismatched")
		writeBadRequest(w, "invalid OAuth state")
		return
	}

	// The state is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("oauth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeBadRequest(w, "missing OAuth code")
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("oauth callback: exchange failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, Envelope{
			Success: false, Error: "internal_error", Message: "authentication failed",
		})
		return
	}

	result, err := h.auths.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		writeError(w, err)
		return
	}

	// HttpOnly keeps the token away from scripts; the API middleware
	// accepts it as a cookie fallback to the Bearer header.
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(auth.TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the token cookie. Stateless JWTs can't be revoked
// server-side; without the cookie the browser simply stops sending one.
//
// HTTP: POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeSuccess(w, http.StatusOK, "logged out", nil)
}
