package services

import (
	"context"
	"testing"
	"time"

	"github.com/Renal37/go-orders-admin/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionStorageStub struct {
	session    *models.Session
	clearCalls int
	saveCalls  int
}

func (s *sessionStorageStub) Load() (*models.Session, error) {
	return s.session, nil
}

func (s *sessionStorageStub) Save(session *models.Session) error {
	s.saveCalls++
	s.session = session
	return nil
}

func (s *sessionStorageStub) Clear() error {
	s.clearCalls++
	s.session = nil
	return nil
}

type authClientStub struct {
	result      *models.LoginResult
	err         error
	lastToken   string
	changeCalls int
	changeErr   error
}

func (a *authClientStub) Login(_ context.Context, _, _ string) (*models.LoginResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

func (a *authClientStub) ChangePassword(_ context.Context, token, _, _ string) error {
	a.changeCalls++
	a.lastToken = token
	return a.changeErr
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAuthorizeWithLiveSession(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	storage := &sessionStorageStub{session: &models.Session{
		Token:     "token",
		ExpiresAt: now.Add(time.Hour),
	}}

	service := NewSessionService(storage, &authClientStub{}).WithClock(fixedClock(now))

	assert.True(t, service.IsAuthorized())

	token, err := service.Authorize()
	require.NoError(t, err)
	assert.Equal(t, "token", token)
	assert.Zero(t, storage.clearCalls)
}

func TestAuthorizeExpiredSessionTearsDown(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	storage := &sessionStorageStub{session: &models.Session{
		Token:     "token",
		ExpiresAt: now.Add(-time.Minute),
	}}

	service := NewSessionService(storage, &authClientStub{}).WithClock(fixedClock(now))

	_, err := service.Authorize()
	require.ErrorIs(t, err, ErrSessionExpired)

	// Истёкшая сессия очищена и в памяти, и на диске.
	assert.Equal(t, 1, storage.clearCalls)
	assert.Nil(t, storage.session)
	assert.False(t, service.IsAuthorized())

	// Повторная проверка срабатывает локально, без повторной очистки.
	_, err = service.Authorize()
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 1, storage.clearCalls)
}

func TestOnRejectedSignalsAfterTeardown(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	storage := &sessionStorageStub{session: &models.Session{
		Token:     "token",
		ExpiresAt: now.Add(time.Hour),
	}}

	service := NewSessionService(storage, &authClientStub{}).WithClock(fixedClock(now))

	signalled := false
	service.OnTeardown(func() {
		// К моменту сигнала сессия уже очищена: конкурентный запрос
		// наблюдает "нет сессии", а не устаревшую.
		assert.False(t, service.IsAuthorized())
		signalled = true
	})

	require.True(t, service.IsAuthorized())

	service.OnRejected()

	assert.True(t, signalled)
	assert.Equal(t, 1, storage.clearCalls)
	assert.Nil(t, storage.session)
}

func TestLoginUsesTokenExpiry(t *testing.T) {
	expiry := time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "root",
		"exp": expiry.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	storage := &sessionStorageStub{}
	auth := &authClientStub{result: &models.LoginResult{
		Token: token,
		Admin: models.AdminProfile{ID: "admin-id", AdminID: "root", Name: "Admin"},
	}}

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	service := NewSessionService(storage, auth).WithClock(fixedClock(now))

	adminID := "root"
	password := "secret"
	profile, err := service.Login(context.Background(), models.Credentials{AdminID: &adminID, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "root", profile.AdminID)

	require.NotNil(t, storage.session)
	assert.Equal(t, token, storage.session.Token)
	assert.Equal(t, expiry.Unix(), storage.session.ExpiresAt.Unix())
	assert.True(t, service.IsAuthorized())
}

func TestLoginFallbackExpiryForOpaqueToken(t *testing.T) {
	storage := &sessionStorageStub{}
	auth := &authClientStub{result: &models.LoginResult{
		Token: "opaque-token",
		Admin: models.AdminProfile{ID: "admin-id", AdminID: "root", Name: "Admin"},
	}}

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	service := NewSessionService(storage, auth).WithClock(fixedClock(now))

	adminID := "root"
	password := "secret"
	_, err := service.Login(context.Background(), models.Credentials{AdminID: &adminID, Password: &password})
	require.NoError(t, err)

	// Токен без exp получает фиксированное окно жизни от момента выдачи.
	require.NotNil(t, storage.session)
	assert.Equal(t, now.Add(sessionTTL), storage.session.ExpiresAt)
}

func TestLogoutClearsSession(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	storage := &sessionStorageStub{session: &models.Session{
		Token:     "token",
		ExpiresAt: now.Add(time.Hour),
	}}

	service := NewSessionService(storage, &authClientStub{}).WithClock(fixedClock(now))

	require.True(t, service.IsAuthorized())
	require.NoError(t, service.Logout())

	assert.False(t, service.IsAuthorized())
	assert.Nil(t, storage.session)
}

func TestChangePasswordRequiresLiveSession(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	auth := &authClientStub{}

	service := NewSessionService(&sessionStorageStub{}, auth).WithClock(fixedClock(now))

	err := service.ChangePassword(context.Background(), "old", "new")
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.Zero(t, auth.changeCalls)
}

func TestChangePasswordUsesSessionToken(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	storage := &sessionStorageStub{session: &models.Session{
		Token:     "token",
		ExpiresAt: now.Add(time.Hour),
	}}
	auth := &authClientStub{}

	service := NewSessionService(storage, auth).WithClock(fixedClock(now))

	require.NoError(t, service.ChangePassword(context.Background(), "old", "new"))
	assert.Equal(t, 1, auth.changeCalls)
	assert.Equal(t, "token", auth.lastToken)
}
