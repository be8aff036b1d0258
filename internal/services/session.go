package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Renal37/go-orders-admin/internal/logger"
	"github.com/Renal37/go-orders-admin/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrSessionExpired возвращается, когда сессия отсутствует, истекла локально
// или была отклонена бэкендом.
var ErrSessionExpired = errors.New("сессия недействительна или истекла")

// sessionTTL резервный срок жизни сессии, когда токен не содержит exp.
const sessionTTL = 7 * 24 * time.Hour

// Интерфейс локального хранилища сессии.
type sessionStorage interface {
	Load() (*models.Session, error)

	Save(session *models.Session) error

	Clear() error
}

// Интерфейс клиента аутентификации бэкенда.
type sessionAuthClient interface {
	Login(ctx context.Context, adminID, password string) (*models.LoginResult, error)

	ChangePassword(ctx context.Context, token, currentPassword, newPassword string) error
}

// SessionService владеет жизненным циклом сессии администратора и отвечает на
// вопрос "можно ли сейчас выполнять вызов" перед каждой мутирующей операцией.
// Просроченная сессия с точки зрения авторизации эквивалентна отсутствующей.
type SessionService struct {
	mu         sync.Mutex
	storage    sessionStorage
	auth       sessionAuthClient
	now        func() time.Time
	onTeardown func()
	session    *models.Session
	loaded     bool
}

// NewSessionService создает новый экземпляр SessionService.
func NewSessionService(storage sessionStorage, auth sessionAuthClient) *SessionService {
	return &SessionService{
		storage: storage,
		auth:    auth,
		now:     time.Now,
	}
}

// WithClock подменяет источник времени. Используется в тестах, чтобы проверять
// логику истечения без реального ожидания.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// OnTeardown устанавливает сигнал для слоя представления о необходимости
// повторной аутентификации. Сигнал вызывается строго после очистки сессии.
func (s *SessionService) OnTeardown(fn func()) {
	s.onTeardown = fn
}

// ensureLoaded лениво поднимает сохранённую сессию с диска. Вызывается под мьютексом.
func (s *SessionService) ensureLoaded() {
	if s.loaded {
		return
	}

	session, err := s.storage.Load()
	if err != nil {
		logger.Log.Error("failed to load persisted session", zap.Error(err))
	}

	s.session = session
	s.loaded = true
}

// isLive проверяет, что сессия существует и её срок ещё не истёк. Вызывается под мьютексом.
func (s *SessionService) isLive() bool {
	return s.session != nil && s.now().Before(s.session.ExpiresAt)
}

// teardownLocked очищает сессию в памяти и на диске. Вызывается под мьютексом.
func (s *SessionService) teardownLocked() {
	s.session = nil
	s.loaded = true

	if err := s.storage.Clear(); err != nil {
		logger.Log.Error("failed to clear persisted session", zap.Error(err))
	}
}

// IsAuthorized сообщает, есть ли живая сессия. Никогда не ходит в сеть.
func (s *SessionService) IsAuthorized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()

	return s.isLive()
}

// Authorize возвращает учётные данные живой сессии. Если сессия истекла,
// Authorize очищает её как побочный эффект, чтобы последующие проверки
// срабатывали без сетевого вызова, и возвращает ErrSessionExpired.
func (s *SessionService) Authorize() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()

	if s.isLive() {
		return s.session.Token, nil
	}

	if s.session != nil {
		s.teardownLocked()
	}

	return "", ErrSessionExpired
}

// OnRejected вызывается транспортным клиентом, когда бэкенд отклонил учётные
// данные независимо от локального срока действия. Очистка сессии выполняется
// до сигнала о редиректе, поэтому конкурентный запрос наблюдает "нет сессии".
func (s *SessionService) OnRejected() {
	s.mu.Lock()
	s.ensureLoaded()
	s.teardownLocked()
	s.mu.Unlock()

	if s.onTeardown != nil {
		s.onTeardown()
	}
}

// Login выполняет вход администратора и сохраняет полученную сессию.
// Срок действия берётся из exp-клейма токена; если бэкенд выдал непрозрачный
// токен без exp, используется фиксированное окно sessionTTL от момента выдачи.
func (s *SessionService) Login(ctx context.Context, credentials models.Credentials) (*models.AdminProfile, error) {
	result, err := s.auth.Login(ctx, *credentials.AdminID, *credentials.Password)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		Token:     result.Token,
		ExpiresAt: s.expiryFromToken(result.Token),
		Admin:     result.Admin,
	}

	s.mu.Lock()
	s.session = session
	s.loaded = true

	if err := s.storage.Save(session); err != nil {
		// Сессия остаётся живой в памяти; без персистенции она просто не переживёт рестарт.
		logger.Log.Error("failed to persist session", zap.Error(err))
	}
	s.mu.Unlock()

	profile := session.Admin

	return &profile, nil
}

// Logout очищает сессию по инициативе администратора.
func (s *SessionService) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()
	s.teardownLocked()

	return nil
}

// ChangePassword меняет пароль администратора от имени текущей сессии.
func (s *SessionService) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	token, err := s.Authorize()
	if err != nil {
		return err
	}

	if err := s.auth.ChangePassword(ctx, token, currentPassword, newPassword); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	return nil
}

// expiryFromToken извлекает exp из JWT без проверки подписи: консоль не владеет
// ключом подписи бэкенда, ей нужен только срок действия.
func (s *SessionService) expiryFromToken(tokenString string) time.Time {
	parsed, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err == nil {
		if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}

	return s.now().Add(sessionTTL)
}
