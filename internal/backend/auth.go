package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Renal37/go-orders-admin/internal/models"
)

// ErrInvalidCredentials возвращается, когда бэкенд отклонил логин или пароль.
var ErrInvalidCredentials = errors.New("неверный логин или пароль")

// AuthClient выполняет запросы аутентификации к бэкенду. В отличие от Client
// он не зависит от SessionGuard: вход выполняется без учётных данных, а смена
// пароля получает токен явно от вызывающего.
type AuthClient struct {
	baseURL string
	client  *http.Client
}

// NewAuthClient создает новый экземпляр AuthClient с заданным базовым URL бэкенда.
func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultRequestTimeout},
	}
}

func (a *AuthClient) post(ctx context.Context, path, token string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return ErrInvalidCredentials
	}

	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("backend returned status %d: %s", res.StatusCode, readErrorMessage(res.Body))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	return nil
}

type loginBody struct {
	AdminID  string `json:"adminId"`
	Password string `json:"password"`
}

type passwordChangeBody struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login выполняет вход администратора и возвращает токен вместе с профилем.
func (a *AuthClient) Login(ctx context.Context, adminID, password string) (*models.LoginResult, error) {
	var parsed models.LoginResult

	if err := a.post(ctx, "/admin/login", "", loginBody{AdminID: adminID, Password: password}, &parsed); err != nil {
		return nil, err
	}

	if parsed.Token == "" {
		return nil, fmt.Errorf("backend login response has no token")
	}

	return &parsed, nil
}

// ChangePassword меняет пароль администратора; токен передаётся явно.
func (a *AuthClient) ChangePassword(ctx context.Context, token, currentPassword, newPassword string) error {
	body := passwordChangeBody{CurrentPassword: currentPassword, NewPassword: newPassword}
	return a.post(ctx, "/admin/change-password", token, body, nil)
}
