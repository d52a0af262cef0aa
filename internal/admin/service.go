package admin

import (
	"context"
	"time"

	"github.com/wmbgolfco/engraving-backend/pkg/auth"
	"github.com/wmbgolfco/engraving-backend/pkg/config"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
	"github.com/wmbgolfco/engraving-backend/pkg/security"
)

type sessionManager interface {
	Start(ctx context.Context, tokenID string) error
	HasSession(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
}

// Service authenticates the shop operator.
type Service interface {
	Login(ctx context.Context, password string) (*Session, error)
	Authenticate(ctx context.Context, token string) (*auth.AdminClaims, error)
	Logout(ctx context.Context, token string) error
}

// Session is a freshly minted admin token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	MaxAge    time.Duration
}

type ServiceParams struct {
	Config   config.AdminConfig
	Sessions sessionManager
	Logger   *logger.Logger
	Clock    func() time.Time
}

type service struct {
	cfg      config.AdminConfig
	sessions sessionManager
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "admin session manager required")
	}
	if params.Config.JWTSecret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin jwt secret required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Clock == nil {
		params.Clock = time.Now
	}
	return &service{
		cfg:      params.Config,
		sessions: params.Sessions,
		logg:     params.Logger,
		now:      params.Clock,
	}, nil
}

func (s *service) Login(ctx context.Context, password string) (*Session, error) {
	ok, err := security.VerifySecret(password, s.cfg.Password, s.cfg.PasswordHash)
	if err != nil {
		s.logg.Error(ctx, "admin.verify_failed", err)
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "Admin password not configured")
	}
	if !ok {
		s.logg.Warn(ctx, "admin.login_rejected")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Incorrect password")
	}

	token, claims, err := auth.MintAdminToken(s.cfg, s.now(), "")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint admin token")
	}
	if err := s.sessions.Start(ctx, claims.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store admin session")
	}

	s.logg.Info(s.logg.WithField(ctx, "session_id", claims.ID), "admin.login")
	return &Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		MaxAge:    s.cfg.SessionTTL,
	}, nil
}

// Authenticate accepts a token only while its session is live in redis.
func (s *service) Authenticate(ctx context.Context, token string) (*auth.AdminClaims, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}
	claims, err := auth.ParseAdminToken(s.cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Unauthorized")
	}
	live, err := s.sessions.HasSession(ctx, claims.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check admin session")
	}
	if !live {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}
	return claims, nil
}

// Logout revokes the session behind token. Invalid or missing tokens are
// ignored so that logout always clears the cookie.
func (s *service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := auth.ParseAdminToken(s.cfg, token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke admin session")
	}
	s.logg.Info(s.logg.WithField(ctx, "session_id", claims.ID), "admin.logout")
	return nil
}
