package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Renal37/go-orders-admin/internal/models"
)

// Определяем ошибки транспортного уровня.
var (
	// ErrUnauthorized возвращается, когда бэкенд сам отклонил учётные данные,
	// независимо от локального отслеживания срока действия сессии.
	ErrUnauthorized = errors.New("бэкенд отклонил учётные данные")
)

// RateLimitedError возвращается при ответе 429 и несёт срок ожидания из Retry-After.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("backend rate limited, retry after %s", e.RetryAfter)
}

// sessionGuard выдает учётные данные для исходящих запросов и принимает
// сигнал об их отклонении бэкендом.
type sessionGuard interface {
	Authorize() (string, error)

	OnRejected()
}

const (
	defaultRequestTimeout     = 10 * time.Second
	defaultRetryAfterDuration = 60
)

// Client выполняет запросы к удалённому бэкенду от имени консоли администратора.
// Каждый запрос подписывается текущими учётными данными сессии; ответ 401/403
// сначала инвалидирует сессию через guard и только затем возвращается наверх.
type Client struct {
	baseURL string
	client  *http.Client
	guard   sessionGuard
}

// NewClient создает новый экземпляр Client с заданным базовым URL бэкенда.
func NewClient(baseURL string, guard sessionGuard) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultRequestTimeout},
		guard:   guard,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.guard.Authorize()
	if err != nil {
		// Сессия уже недействительна: запрос не отправляется вовсе.
		return err
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		// Сначала теардаун сессии, затем ошибка наверх: параллельный запрос,
		// начатый сразу после, наблюдает "нет сессии", а не устаревшую.
		c.guard.OnRejected()
		return ErrUnauthorized
	}

	if res.StatusCode == http.StatusTooManyRequests {
		retryAfter, err := strconv.Atoi(res.Header.Get("Retry-After"))
		if err != nil {
			retryAfter = defaultRetryAfterDuration
		}
		return &RateLimitedError{RetryAfter: time.Duration(retryAfter) * time.Second}
	}

	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("backend returned status %d: %s", res.StatusCode, readErrorMessage(res.Body))
	}

	if out == nil {
		return nil
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(res.Body); err != nil {
		return fmt.Errorf("failed to read from response body: %w", err)
	}

	if err := json.Unmarshal(buf.Bytes(), out); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	return nil
}

// readErrorMessage извлекает поле message из тела ошибки бэкенда,
// либо возвращает тело как есть.
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return "пустой ответ"
	}

	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}

	return string(data)
}

type statusUpdateBody struct {
	Status models.OrderStatus `json:"status"`
}

// ListOrders запрашивает страницу списка заказов.
func (c *Client) ListOrders(ctx context.Context, page, limit int) (models.OrderPage, error) {
	var parsed models.OrderPage

	path := fmt.Sprintf("/orders?page=%d&limit=%d", page, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &parsed); err != nil {
		return models.OrderPage{}, err
	}

	return parsed, nil
}

// UpdateOrderStatus обновляет статус заказа на бэкенде.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	path := fmt.Sprintf("/orders/%s/status", url.PathEscape(orderID))
	return c.do(ctx, http.MethodPut, path, statusUpdateBody{Status: status}, nil)
}

// CreateShipment создает отгрузку у провайдера логистики для существующего заказа.
// Вызов не идемпотентен на стороне провайдера: защита от повторного создания
// лежит на вызывающем (см. FulfillmentService).
func (c *Client) CreateShipment(ctx context.Context, orderID string) (*models.ShipmentInfo, error) {
	var parsed models.ShipmentInfo

	path := fmt.Sprintf("/shiprocket/create-order/%s", url.PathEscape(orderID))
	if err := c.do(ctx, http.MethodPost, path, nil, &parsed); err != nil {
		return nil, err
	}

	return &parsed, nil
}

// TrackShipment запрашивает у провайдера трекинг отгрузки по AWB-коду.
func (c *Client) TrackShipment(ctx context.Context, awbCode string) (*models.Tracking, error) {
	var parsed models.Tracking

	path := fmt.Sprintf("/shiprocket/track/%s", url.PathEscape(awbCode))
	if err := c.do(ctx, http.MethodGet, path, nil, &parsed); err != nil {
		return nil, err
	}

	return &parsed, nil
}

// CancelShipment отменяет отгрузку у провайдера логистики.
func (c *Client) CancelShipment(ctx context.Context, orderID string) error {
	path := fmt.Sprintf("/shiprocket/cancel-order/%s", url.PathEscape(orderID))
	return c.do(ctx, http.MethodPost, path, nil, nil)
}
