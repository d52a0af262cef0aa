package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wmbgolfco/engraving-backend/pkg/config"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
)

type memorySessions struct {
	live     map[string]bool
	startErr error
}

func newMemorySessions() *memorySessions {
	return &memorySessions{live: map[string]bool{}}
}

func (m *memorySessions) Start(_ context.Context, id string) error {
	if m.startErr != nil {
		return m.startErr
	}
	m.live[id] = true
	return nil
}

func (m *memorySessions) HasSession(_ context.Context, id string) (bool, error) {
	return m.live[id], nil
}

func (m *memorySessions) Revoke(_ context.Context, id string) error {
	delete(m.live, id)
	return nil
}

func testConfig() config.AdminConfig {
	return config.AdminConfig{
		Password:   "fore!",
		JWTSecret:  "secret",
		JWTIssuer:  "wmbgolfco-admin",
		SessionTTL: 24 * time.Hour,
		CookieName: "admin_auth",
	}
}

func newTestService(t *testing.T, sessions *memorySessions) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Config: testConfig(), Sessions: sessions})
	require.NoError(t, err)
	return svc
}

func TestLoginAuthenticateLogout(t *testing.T) {
	sessions := newMemorySessions()
	svc := newTestService(t, sessions)
	ctx := context.Background()

	sess, err := svc.Login(ctx, "fore!")
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	require.Equal(t, 24*time.Hour, sess.MaxAge)
	require.Len(t, sessions.live, 1)

	claims, err := svc.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	require.True(t, sessions.live[claims.ID])

	require.NoError(t, svc.Logout(ctx, sess.Token))
	_, err = svc.Authenticate(ctx, sess.Token)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newTestService(t, newMemorySessions())
	_, err := svc.Login(context.Background(), "slice")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	require.Equal(t, "Incorrect password", pkgerrors.As(err).Message())
}

func TestLoginSessionStoreFailure(t *testing.T) {
	sessions := newMemorySessions()
	sessions.startErr = errors.New("redis down")
	svc := newTestService(t, sessions)
	_, err := svc.Login(context.Background(), "fore!")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestAuthenticateRejectsGarbageAndMissing(t *testing.T) {
	svc := newTestService(t, newMemorySessions())
	_, err := svc.Authenticate(context.Background(), "")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	_, err = svc.Authenticate(context.Background(), "authenticated")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestLogoutIgnoresInvalidToken(t *testing.T) {
	svc := newTestService(t, newMemorySessions())
	require.NoError(t, svc.Logout(context.Background(), "junk"))
	require.NoError(t, svc.Logout(context.Background(), ""))
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{Config: testConfig()})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Sessions: newMemorySessions()})
	require.Error(t, err)
}
