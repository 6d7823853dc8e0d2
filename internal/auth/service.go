// Package auth signs admins in and out and rotates their sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/users"
	pkgAuth "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/auth"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/auth/session"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/config"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
)

const invalidCredentialsMessage = "invalid credentials"

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string, identity session.Identity) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (session.Session, string, error)
	Revoke(ctx context.Context, accessID string) error
	Current(ctx context.Context, accessID string) (session.Session, error)
}

type passwordVerifier interface {
	Verify(password, encoded string) (bool, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	Passwords      passwordVerifier
	JWTConfig      config.JWTConfig
}

type Service struct {
	users     userRepository
	sessions  sessionManager
	passwords passwordVerifier
	jwtCfg    config.JWTConfig
	now       func() time.Time
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Passwords == nil {
		return nil, fmt.Errorf("password verifier is required")
	}
	return &Service{
		users:     params.UserRepo,
		sessions:  params.SessionManager,
		passwords: params.Passwords,
		jwtCfg:    params.JWTConfig,
		now:       time.Now,
	}, nil
}

// Login verifies credentials and opens a session.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update last login")
	}
	user.LastLoginAt = &now

	identity := session.Identity{UserID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}
	accessID := session.NewAccessID()
	refreshToken, err := s.sessions.Generate(ctx, accessID, identity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: store session")
	}
	current, err := s.sessions.Current(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: load session")
	}
	resp, err := s.issue(now, current, refreshToken)
	if err != nil {
		return nil, err
	}
	resp.User = users.FromModel(user)
	return resp, nil
}

// Refresh trades a refresh token plus the (possibly expired) access token it
// was issued with for a new pair. The old session stops working.
func (s *Service) Refresh(ctx context.Context, accessToken string, req RefreshRequest) (*TokenResponse, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}
	rotated, refreshToken, err := s.sessions.Rotate(ctx, claims.ID, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) || errors.Is(err, session.ErrSessionNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: rotate session")
	}
	return s.issue(s.now().UTC(), rotated, refreshToken)
}

// Logout revokes the session behind accessID.
func (s *Service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: revoke session")
	}
	return nil
}

// Session returns the live session for accessID.
func (s *Service) Session(ctx context.Context, accessID string) (session.Session, error) {
	current, err := s.sessions.Current(ctx, accessID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return session.Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
		}
		return session.Session{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: load session")
	}
	return current, nil
}

func (s *Service) issue(now time.Time, current session.Session, refreshToken string) (*TokenResponse, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: current.Identity.UserID,
		Email:  current.Identity.Email,
		Role:   current.Identity.Role,
		JTI:    current.AccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &TokenResponse{
		AccessToken:  token,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.jwtCfg.AccessTokenTTL()),
		Session:      current,
	}, nil
}

func (s *Service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.TrimSpace(email)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup user")
	}

	valid, err := s.passwords.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive || !user.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}
