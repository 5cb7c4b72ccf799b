package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/icevibe/pos-terminal/pkg/auth"
	"github.com/icevibe/pos-terminal/pkg/backend"
	"github.com/icevibe/pos-terminal/pkg/config"
	"github.com/icevibe/pos-terminal/pkg/enums"
	pkgerrors "github.com/icevibe/pos-terminal/pkg/errors"
	"github.com/icevibe/pos-terminal/pkg/logger"
)

// Authenticator is the slice of the backend client login needs.
type Authenticator interface {
	Login(ctx context.Context, code, password string) (*backend.User, error)
	RecoverPassword(ctx context.Context, code, email string) error
}

// SessionRegistrar tracks issued token IDs for revocation.
type SessionRegistrar interface {
	Register(ctx context.Context, accessID string) error
	Revoke(ctx context.Context, accessID string) error
}

// Service delegates credential checks to the venue backend and issues
// this terminal's own access tokens on success.
type Service struct {
	authenticator Authenticator
	sessions      SessionRegistrar
	jwtConfig     config.JWTConfig
	logger        *logger.Logger
	now           func() time.Time
}

func NewService(authenticator Authenticator, sessions SessionRegistrar, jwtConfig config.JWTConfig, logg *logger.Logger) *Service {
	return &Service{
		authenticator: authenticator,
		sessions:      sessions,
		jwtConfig:     jwtConfig,
		logger:        logg,
		now:           time.Now,
	}
}

// LoginResult is what a successful login hands back to the handler.
type LoginResult struct {
	Token     string
	User      backend.User
	Role      enums.Role
	ExpiresAt time.Time
}

// Login checks the credentials against the backend, rejects roles that
// cannot run a terminal, and mints a local access token.
func (s *Service) Login(ctx context.Context, code, password string) (*LoginResult, error) {
	user, err := s.authenticator.Login(ctx, code, password)
	if err != nil {
		return nil, err
	}

	role := enums.Role(user.Role)
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeDecode, "backend returned unknown role "+user.Role)
	}
	if !role.CanOperateTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot operate the terminal")
	}

	now := s.now()
	jti := uuid.NewString()
	token, err := auth.MintAccessToken(s.jwtConfig, now, auth.AccessTokenPayload{
		UserID: user.ID,
		Code:   user.Code,
		Name:   user.Name,
		Email:  user.Email,
		Role:   role,
		JTI:    jti,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	if err := s.sessions.Register(ctx, jti); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register session")
	}

	if s.logger != nil {
		fctx := s.logger.WithFields(ctx, map[string]any{
			"user_id":    user.ID,
			"actor_role": string(role),
		})
		s.logger.Info(fctx, "user logged in")
	}

	return &LoginResult{
		Token:     token,
		User:      *user,
		Role:      role,
		ExpiresAt: now.Add(s.jwtConfig.AccessTokenTTL()),
	}, nil
}

// Logout revokes the token's session entry.
func (s *Service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// Recover forwards a password recovery request to the backend.
func (s *Service) Recover(ctx context.Context, code, email string) error {
	return s.authenticator.RecoverPassword(ctx, code, email)
}
