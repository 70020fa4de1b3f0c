// AuthService is the business logic layer for authentication. It sits
// between the HTTP handlers and the repository/auth utilities:
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                   ↘ TokenService (JWT), PasswordService (bcrypt)
//
// Password signup/signin is the primary flow; GitHub OAuth is an
// optional alternative that links to the same user records.

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/rewear/internal/apperror"
	"github.com/sakif/rewear/internal/auth"
	"github.com/sakif/rewear/internal/model"
	"github.com/sakif/rewear/internal/repository"
)

// AuthService handles the authentication business logic.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued JWT so the handler
// can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// ProfilePatch carries optional profile updates; nil fields are left
// unchanged.
type ProfilePatch struct {
	FullName     *string
	PhoneNumber  *string
	ProfilePhoto *string
}

// Signup registers a new account with email and password.
//
// All four fields are required. A duplicate email is reported as a
// validation failure on the email field, not a raw conflict — the
// client fixes it the same way it fixes any other bad input.
func (s *AuthService) Signup(ctx context.Context, fullName, email, phoneNumber, password string) (*AuthResult, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	phoneNumber = strings.TrimSpace(phoneNumber)

	switch {
	case fullName == "":
		return nil, apperror.ValidationFailed("fullname", "full name is required")
	case email == "":
		return nil, apperror.ValidationFailed("email", "email is required")
	case !strings.Contains(email, "@"):
		return nil, apperror.ValidationFailed("email", "email is not valid")
	case phoneNumber == "":
		return nil, apperror.ValidationFailed("phoneNumber", "phone number is required")
	case password == "":
		return nil, apperror.ValidationFailed("password", "password is required")
	case len(password) < 6:
		return nil, apperror.ValidationFailed("password", "password must be at least 6 characters")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		FullName:     fullName,
		Email:        email,
		PhoneNumber:  phoneNumber,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.ValidationFailed("email", "email is already registered")
		}
		s.logger.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user signed up",
		slog.String("userID", user.ID),
		slog.String("email", email),
	)

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Signin authenticates an email/password pair.
//
// Unknown email and wrong password return the same Unauthorized error —
// never tell a caller which half was wrong.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("service/auth: fetching user by email: %w", err)
	}

	if user.PasswordHash == "" || s.passwords.Verify(user.PasswordHash, password) != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	s.logger.Info("user signed in", slog.String("userID", user.ID))

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// GetProfile returns the user record for the given internal ID. Used by
// the profile handler after the middleware validates the JWT.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile merges the provided fields into the caller's record.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		if name == "" {
			return nil, apperror.ValidationFailed("fullname", "full name must not be empty")
		}
		user.FullName = name
	}
	if patch.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*patch.PhoneNumber)
	}
	if patch.ProfilePhoto != nil {
		user.ProfilePhoto = strings.TrimSpace(*patch.ProfilePhoto)
	}

	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("failed to update profile",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/auth: updating profile: %w", err)
	}

	s.logger.Info("profile updated", slog.String("userID", userID))
	return user, nil
}

// LoginOrRegisterGitHub handles the GitHub OAuth callback.
//
// Lookup order: GitHub ID first (returning OAuth user), then email
// (existing password account gets the GitHub ID linked), then a fresh
// registration. OAuth accounts have no password hash; they can only
// sign in via GitHub until one is set.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	user, err := s.users.GetByGitHubID(ctx, ghUser.ID)
	switch {
	case err == nil:
		// Returning user — refresh the avatar in case it changed.
		if ghUser.AvatarURL != "" && user.ProfilePhoto != ghUser.AvatarURL {
			user.ProfilePhoto = ghUser.AvatarURL
			if err := s.users.Update(ctx, user); err != nil {
				return nil, fmt.Errorf("service/auth: refreshing GitHub profile: %w", err)
			}
		}

	case errors.Is(err, apperror.ErrNotFound) && ghUser.Email != "":
		user, err = s.linkOrCreateGitHubUser(ctx, ghUser)
		if err != nil {
			return nil, err
		}

	case errors.Is(err, apperror.ErrNotFound):
		return nil, apperror.ValidationFailed("email",
			"GitHub account has no public email; add one or sign up with a password")

	default:
		return nil, fmt.Errorf("service/auth: looking up GitHub user %d: %w", ghUser.ID, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("userID", user.ID),
		slog.Int64("githubID", ghUser.ID),
	)

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) linkOrCreateGitHubUser(ctx context.Context, ghUser *auth.GitHubUser) (*model.User, error) {
	email := strings.ToLower(ghUser.Email)

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		existing.GitHubID = ghUser.ID
		if existing.ProfilePhoto == "" {
			existing.ProfilePhoto = ghUser.AvatarURL
		}
		if err := s.users.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("service/auth: linking GitHub to user %s: %w", existing.ID, err)
		}
		return existing, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: fetching user by email: %w", err)
	}

	fullName := ghUser.Name
	if fullName == "" {
		fullName = ghUser.Login
	}
	user := &model.User{
		FullName:     fullName,
		Email:        email,
		ProfilePhoto: ghUser.AvatarURL,
		GitHubID:     ghUser.ID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: registering GitHub user: %w", err)
	}
	return user, nil
}
