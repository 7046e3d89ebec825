package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shelfdapp/shelfd-server/internal/auth"
	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
	"github.com/shelfdapp/shelfd-server/internal/id"
	"github.com/shelfdapp/shelfd-server/internal/store"
)

// AuthService handles registration, login and session lifecycle.
type AuthService struct {
	store  *store.Store
	tokens *auth.TokenService
	lists  *ListService
	logger *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store *store.Store, tokens *auth.TokenService, lists *ListService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		lists:  lists,
		logger: logger,
	}
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         *domain.User
}

// Register creates a new user account. The very first account becomes an
// admin; everyone after that is a member. Registration also bootstraps
// the user's two default lists.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	if email == "" {
		return nil, domainerrors.Validation("email is required")
	}
	if displayName == "" {
		return nil, domainerrors.Validation("display name is required")
	}
	if len(password) < 8 {
		return nil, domainerrors.Validation("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	role := domain.RoleMember
	empty, err := s.noUsersYet(ctx)
	if err != nil {
		return nil, err
	}
	if empty {
		role = domain.RoleAdmin
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         role,
		Status:       domain.UserStatusActive,
	}
	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generating user id: %w", err)
	}
	user.ID = userID
	user.InitTimestamps()

	if err := s.store.Users.Create(ctx, user.ID, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("an account with this email already exists")
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	if err := s.lists.CreateDefaultLists(ctx, user.ID); err != nil {
		// Account exists; log the partial state rather than failing the
		// registration after the point of no return
		s.logger.Error("failed to bootstrap default lists", "user_id", user.ID, "error", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", role)
	return user, nil
}

// Login verifies credentials and issues a token pair. Inactive accounts
// cannot log in.
func (s *AuthService) Login(ctx context.Context, email, password, userAgent, ipAddress string) (*TokenPair, error) {
	user, err := s.store.Users.GetByIndex(ctx, "email", strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	if !user.IsActive() {
		return nil, domainerrors.Forbidden("this account has been deactivated")
	}

	pair, err := s.issueTokens(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	user.LastLoginAt = time.Now()
	user.Touch()
	if err := s.store.Users.Update(ctx, user.ID, user); err != nil {
		s.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	return pair, nil
}

// Refresh rotates a refresh token: the presented token's session is
// re-keyed and a fresh access token issued. Expired sessions are removed
// and rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	session, err := s.store.Sessions.GetByIndex(ctx, "token", auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("looking up session: %w", err)
	}

	if session.Expired() {
		_ = s.store.Sessions.Delete(ctx, session.ID)
		return nil, domainerrors.ErrTokenExpired
	}

	user, err := s.store.Users.Get(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("getting session user: %w", err)
	}
	if !user.IsActive() {
		return nil, domainerrors.Forbidden("this account has been deactivated")
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}
	newRefresh, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", err)
	}

	session.RefreshTokenHash = auth.HashRefreshToken(newRefresh)
	session.ExpiresAt = time.Now().Add(s.tokens.RefreshTokenDuration())
	session.LastUsedAt = time.Now()
	if err := s.store.Sessions.Update(ctx, session.ID, session); err != nil {
		return nil, fmt.Errorf("rotating session: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresAt:    time.Now().Add(s.tokens.AccessTokenDuration()),
		User:         user,
	}, nil
}

// Logout revokes the session behind a refresh token. Idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.store.Sessions.GetByIndex(ctx, "token", auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("looking up session: %w", err)
	}
	return s.store.Sessions.Delete(ctx, session.ID)
}

// VerifyAccess validates an access token and loads its user, rejecting
// tokens for deactivated accounts.
func (s *AuthService) VerifyAccess(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token")
	}

	user, err := s.store.Users.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized("invalid or expired token")
		}
		return nil, fmt.Errorf("getting token user: %w", err)
	}
	if !user.IsActive() {
		return nil, domainerrors.Forbidden("this account has been deactivated")
	}
	return user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User, userAgent, ipAddress string) (*TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", err)
	}

	session := &domain.Session{
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		UserAgent:        userAgent,
		IPAddress:        ipAddress,
		ExpiresAt:        time.Now().Add(s.tokens.RefreshTokenDuration()),
		CreatedAt:        time.Now(),
	}
	sessionID, err := id.Generate(id.PrefixSession)
	if err != nil {
		return nil, fmt.Errorf("generating session id: %w", err)
	}
	session.ID = sessionID

	if err := s.store.Sessions.Create(ctx, session.ID, session); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.tokens.AccessTokenDuration()),
		User:         user,
	}, nil
}

// noUsersYet reports whether the user collection is empty.
func (s *AuthService) noUsersYet(ctx context.Context) (bool, error) {
	for _, err := range s.store.Users.List(ctx) {
		if err != nil {
			return false, fmt.Errorf("checking existing users: %w", err)
		}
		return false, nil
	}
	return true, nil
}
