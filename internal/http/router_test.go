package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Renal37/go-orders-admin/internal/backend"
	"github.com/Renal37/go-orders-admin/internal/models"
	mock_models "github.com/Renal37/go-orders-admin/internal/models/mocks"
	"github.com/Renal37/go-orders-admin/internal/services"
	"github.com/Renal37/go-orders-admin/internal/utils"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestLoginRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionServiceMock := mock_models.NewMockSessionService(ctrl)

	testServer := httptest.NewServer(
		New(Config{}, sessionServiceMock, nil, nil).get(),
	)
	defer testServer.Close()

	testCases := []struct {
		testName        string
		methodName      string
		targetURL       string
		body            func() io.Reader
		test            func(t *testing.T)
		expectedCode    int
		expectedMessage string
	}{
		{
			testName:        "Should return a validation error due to missing body",
			methodName:      "POST",
			targetURL:       "/api/admin/login",
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Ошибка при разборе данных JSON: unexpected end of JSON input\n",
		},
		{
			testName:   "Should return a validation error due to missing password",
			methodName: "POST",
			targetURL:  "/api/admin/login",
			body: func() io.Reader {
				AdminID := "root"
				data, _ := json.Marshal(models.Credentials{AdminID: &AdminID})
				return bytes.NewBuffer(data)
			},
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Запрос не содержит логин или пароль\n",
		},
		{
			testName:   "Should return error when credentials are rejected",
			methodName: "POST",
			targetURL:  "/api/admin/login",
			test: func(t *testing.T) {
				AdminID := "root"
				Password := "123"

				sessionServiceMock.EXPECT().
					Login(gomock.Any(), models.Credentials{AdminID: &AdminID, Password: &Password}).
					Return(nil, backend.ErrInvalidCredentials)
			},
			body: func() io.Reader {
				AdminID := "root"
				Password := "123"
				data, _ := json.Marshal(models.Credentials{AdminID: &AdminID, Password: &Password})
				return bytes.NewBuffer(data)
			},
			expectedCode:    http.StatusUnauthorized,
			expectedMessage: "Неверный логин или пароль\n",
		},
		{
			testName:   "Should login admin and return profile",
			methodName: "POST",
			targetURL:  "/api/admin/login",
			test: func(t *testing.T) {
				AdminID := "root"
				Password := "123"

				sessionServiceMock.EXPECT().
					Login(gomock.Any(), models.Credentials{AdminID: &AdminID, Password: &Password}).
					Return(&models.AdminProfile{ID: "admin-id", AdminID: "root", Name: "Admin"}, nil)
			},
			body: func() io.Reader {
				AdminID := "root"
				Password := "123"
				data, _ := json.Marshal(models.Credentials{AdminID: &AdminID, Password: &Password})
				return bytes.NewBuffer(data)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "{\"id\":\"admin-id\",\"adminId\":\"root\",\"name\":\"Admin\"}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			var body io.Reader

			if tc.body != nil {
				body = tc.body()
			}

			if tc.test != nil {
				tc.test(t)
			}

			res, mes := utils.TestRequest(
				t,
				testServer,
				tc.methodName,
				tc.targetURL,
				map[string]string{"Content-Type": "application/json"},
				body,
			)
			res.Body.Close()

			assert.Equal(t, tc.expectedCode, res.StatusCode)
			assert.Equal(t, tc.expectedMessage, mes)
		})
	}
}

func TestLogoutRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionServiceMock := mock_models.NewMockSessionService(ctrl)

	testServer := httptest.NewServer(
		New(Config{}, sessionServiceMock, nil, nil).get(),
	)
	defer testServer.Close()

	sessionServiceMock.EXPECT().IsAuthorized().Return(true)
	sessionServiceMock.EXPECT().Logout().Return(nil)

	res, mes := utils.TestRequest(t, testServer, "POST", "/api/admin/logout", nil, nil)
	res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "", mes)
}

func TestChangePasswordRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionServiceMock := mock_models.NewMockSessionService(ctrl)

	testServer := httptest.NewServer(
		New(Config{}, sessionServiceMock, nil, nil).get(),
	)
	defer testServer.Close()

	testCases := []struct {
		testName        string
		body            func() io.Reader
		test            func(t *testing.T)
		expectedCode    int
		expectedMessage string
	}{
		{
			testName: "Should return a validation error due to missing new password",
			test: func(t *testing.T) {
				sessionServiceMock.EXPECT().IsAuthorized().Return(true)
			},
			body: func() io.Reader {
				CurrentPassword := "123"
				data, _ := json.Marshal(models.PasswordChange{CurrentPassword: &CurrentPassword})
				return bytes.NewBuffer(data)
			},
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Запрос не содержит текущий или новый пароль\n",
		},
		{
			testName: "Should return error when session has expired",
			test: func(t *testing.T) {
				sessionServiceMock.EXPECT().IsAuthorized().Return(true)
				sessionServiceMock.EXPECT().ChangePassword(gomock.Any(), "123", "456").Return(services.ErrSessionExpired)
			},
			body: func() io.Reader {
				CurrentPassword := "123"
				NewPassword := "456"
				data, _ := json.Marshal(models.PasswordChange{CurrentPassword: &CurrentPassword, NewPassword: &NewPassword})
				return bytes.NewBuffer(data)
			},
			expectedCode:    http.StatusUnauthorized,
			expectedMessage: "Сессия истекла, требуется повторный вход\n",
		},
		{
			testName: "Should change password",
			test: func(t *testing.T) {
				sessionServiceMock.EXPECT().IsAuthorized().Return(true)
				sessionServiceMock.EXPECT().ChangePassword(gomock.Any(), "123", "456").Return(nil)
			},
			body: func() io.Reader {
				CurrentPassword := "123"
				NewPassword := "456"
				data, _ := json.Marshal(models.PasswordChange{CurrentPassword: &CurrentPassword, NewPassword: &NewPassword})
				return bytes.NewBuffer(data)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			if tc.test != nil {
				tc.test(t)
			}

			res, mes := utils.TestRequest(
				t,
				testServer,
				"POST",
				"/api/admin/change-password",
				map[string]string{"Content-Type": "application/json"},
				tc.body(),
			)
			res.Body.Close()

			assert.Equal(t, tc.expectedCode, res.StatusCode)
			assert.Equal(t, tc.expectedMessage, mes)
		})
	}
}

func TestGetOrdersRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionServiceMock := mock_models.NewMockSessionService(ctrl)
	ordersServiceMock := mock_models.NewMockOrdersService(ctrl)

	testServer := httptest.NewServer(
		New(Config{}, sessionServiceMock, ordersServiceMock, nil).get(),
	)
	defer testServer.Close()

	testCases := []struct {
		testName        string
		targetURL       string
		test            func(t *testing.T)
		expectedCode    int
		expectedMessage string
	}{
		{
			testName:  "Should return unauthorized error without live session",
			targetURL: "/api/orders",
			test: func(t *testing.T) {
				sessionServiceMock.EXPECT().IsAuthorized().Return(false)
			},
			expectedCode:    http.StatusUnauthorized,
			expectedMessage: "Сессия истекла, требуется повторный вход\n",
		},
		{
			testName:  "Should return unauthorized error when backend rejects session",
			targetURL: "/api/orders?page=1&limit=10",
			test: func(t *testing.T) {
				sessionServiceMock.EXPECT().IsAuthorized().Return(true)
				ordersServiceMock.EXPECT().LoadPage(gomock.Any(), 1, 10).Return(models.OrderPage{}, backend.ErrUnauthorized)
			},
			expectedCode:    http.StatusUnauthorized,
			expectedMessage: "Сессия истекла, требуется повторный вход\n",
		},
		{
			testName:  "Should return orders page",
			targetURL: "/api/orders?page=1&limit=10",
			test: func(t *testing.T) {
				sessionServiceMock.EXPECT().IsAuthorized().Return(true)
				ordersServiceMock.EXPECT().LoadPage(gomock.Any(), 1, 10).Return(models.OrderPage{
					Orders: []models.Order{
						{ID: "order-1", Status: models.StatusPending},
					},
					Pagination: models.Pagination{Page: 1, Limit: 10, Total: 1, TotalPages: 1},
				}, nil)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "{\"orders\":[{\"id\":\"order-1\",\"status\":\"pending\",\"paymentStatus\":\"\",\"subtotal\":0,\"discount\":0,\"shippingCharges\":0,\"handlingFee\":0,\"total\":0,\"items\":null,\"shiprocketCreated\":false,\"createdAt\":\"0001-01-01T00:00:00Z\"}],\"pagination\":{\"page\":1,\"limit\":10,\"total\":1,\"totalPages\":1}}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			if tc.test != nil {
				tc.test(t)
			}

			res, mes := utils.TestRequest(t, testServer, "GET", tc.targetURL, nil, nil)
			res.Body.Close()

			assert.Equal(t, tc.expectedCode, res.StatusCode)
			assert.Equal(t, tc.expectedMessage, mes)
		})
	}
}

func TestUpdateOrderStatusRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionServiceMock := mock_models.NewMockSessionService(ctrl)
	fulfillmentServiceMock := mock_models.NewMockFulfillmentService(ctrl)

	testServer := httptest.NewServer(
		New(Config{}, sessionServiceMock, nil, fulfillmentServiceMock).get(),
	)
	defer testServer.Close()

	confirmed := models.StatusConfirmed

	testCases := []struct {
		testName        string
		body            func() io.Reader
		test            func(t *testing.T)
		expectedCode    int
		expectedMessage string
	}{
		{
			testName: "Should return a validation error due to missing status",
			test: func(t *testing.T) {
				sessionServiceMock.EXPECT().IsAuthorized().Return(true)
			},
			body: func() io.Reader {
				return bytes.NewBufferString("{}")
			},
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Запрос не содержит новый статус заказа\n",
		},
		{
			testName: "Should return error when order is not on the current page",
			test: func(t *testing.T) {
				sessionServiceMock.EXPECT().IsAuthorized().Return(true)
				fulfillmentServiceMock.EXPECT().
					Transition(gomock.Any(), "order-1", models.StatusConfirmed).
					Return(models.Order{}, services.ErrOrderNotFound)
			},
			body: func() io.Reader {
				data, _ := json.Marshal(models.StatusUpdate{Status: &confirmed})
				return bytes.NewBuffer(data)
			},
			expectedCode:    http.StatusNotFound,
			expectedMessage: "Заказ не найден на текущей странице\n",
		},
		{
			testName: "Should return error when transition is not allowed",
			test: func(t *testing.T) {
				sessionServiceMock.EXPECT().IsAuthorized().Return(true)
				fulfillmentServiceMock.EXPECT().
					Transition(gomock.Any(), "order-1", models.StatusConfirmed).
					Return(models.Order{ID: "order-1", Status: models.StatusDelivered}, services.ErrInvalidTransition)
			},
			body: func() io.Reader {
				data, _ := json.Marshal(models.StatusUpdate{Status: &confirmed})
				return bytes.NewBuffer(data)
			},
			expectedCode:    http.StatusUnprocessableEntity,
			expectedMessage: "Недопустимый переход статуса заказа\n",
		},
		{
			testName: "Should return warning when shipment creation failed after confirmation",
			test: func(t *testing.T) {
				sessionServiceMock.EXPECT().IsAuthorized().Return(true)
				fulfillmentServiceMock.EXPECT().
					Transition(gomock.Any(), "order-1", models.StatusConfirmed).
					Return(
						models.Order{ID: "order-1", Status: models.StatusConfirmed},
						fmt.Errorf("%w: provider is down", services.ErrPartialFailure),
					)
			},
			body: func() io.Reader {
				data, _ := json.Marshal(models.StatusUpdate{Status: &confirmed})
				return bytes.NewBuffer(data)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "{\"order\":{\"id\":\"order-1\",\"status\":\"confirmed\",\"paymentStatus\":\"\",\"subtotal\":0,\"discount\":0,\"shippingCharges\":0,\"handlingFee\":0,\"total\":0,\"items\":null,\"shiprocketCreated\":false,\"createdAt\":\"0001-01-01T00:00:00Z\"},\"warning\":\"Заказ подтверждён, но отгрузка не создана. Повторите создание отгрузки вручную.\"}",
		},
		{
			testName: "Should update order status",
			test: func(t *testing.T) {
				sessionServiceMock.EXPECT().IsAuthorized().Return(true)
				fulfillmentServiceMock.EXPECT().
					Transition(gomock.Any(), "order-1", models.StatusConfirmed).
					Return(models.Order{ID: "order-1", Status: models.StatusConfirmed, ShiprocketCreated: true, ShiprocketOrderID: "S1", ShipmentID: "SH1"}, nil)
			},
			body: func() io.Reader {
				data, _ := json.Marshal(models.StatusUpdate{Status: &confirmed})
				return bytes.NewBuffer(data)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "{\"order\":{\"id\":\"order-1\",\"status\":\"confirmed\",\"paymentStatus\":\"\",\"subtotal\":0,\"discount\":0,\"shippingCharges\":0,\"handlingFee\":0,\"total\":0,\"items\":null,\"shiprocketCreated\":true,\"shiprocketOrderId\":\"S1\",\"shipmentId\":\"SH1\",\"createdAt\":\"0001-01-01T00:00:00Z\"}}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			if tc.test != nil {
				tc.test(t)
			}

			res, mes := utils.TestRequest(
				t,
				testServer,
				"PUT",
				"/api/orders/order-1/status",
				map[string]string{"Content-Type": "application/json"},
				tc.body(),
			)
			res.Body.Close()

			assert.Equal(t, tc.expectedCode, res.StatusCode)
			assert.Equal(t, tc.expectedMessage, mes)
		})
	}
}

func TestCreateShipmentRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionServiceMock := mock_models.NewMockSessionService(ctrl)
	fulfillmentServiceMock := mock_models.NewMockFulfillmentService(ctrl)

	testServer := httptest.NewServer(
		New(Config{}, sessionServiceMock, nil, fulfillmentServiceMock).get(),
	)
	defer testServer.Close()

	testCases := []struct {
		testName        string
		test            func(t *testing.T)
		expectedCode    int
		expectedMessage string
	}{
		{
			testName: "Should report that shipment is already created",
			test: func(t *testing.T) {
				sessionServiceMock.EXPECT().IsAuthorized().Return(true)
				fulfillmentServiceMock.EXPECT().
					CreateShipment(gomock.Any(), "order-1").
					Return(
						models.Order{ID: "order-1", Status: models.StatusConfirmed, ShiprocketCreated: true, ShiprocketOrderID: "S1"},
						services.ErrShipmentAlreadyCreated,
					)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "{\"order\":{\"id\":\"order-1\",\"status\":\"confirmed\",\"paymentStatus\":\"\",\"subtotal\":0,\"discount\":0,\"shippingCharges\":0,\"handlingFee\":0,\"total\":0,\"items\":null,\"shiprocketCreated\":true,\"shiprocketOrderId\":\"S1\",\"createdAt\":\"0001-01-01T00:00:00Z\"},\"alreadyCreated\":true}",
		},
		{
			testName: "Should return error when order is not on the current page",
			test: func(t *testing.T) {
				sessionServiceMock.EXPECT().IsAuthorized().Return(true)
				fulfillmentServiceMock.EXPECT().
					CreateShipment(gomock.Any(), "order-1").
					Return(models.Order{}, services.ErrOrderNotFound)
			},
			expectedCode:    http.StatusNotFound,
			expectedMessage: "Заказ не найден на текущей странице\n",
		},
		{
			testName: "Should create shipment",
			test: func(t *testing.T) {
				sessionServiceMock.EXPECT().IsAuthorized().Return(true)
				fulfillmentServiceMock.EXPECT().
					CreateShipment(gomock.Any(), "order-1").
					Return(models.Order{ID: "order-1", Status: models.StatusConfirmed, ShiprocketCreated: true, ShiprocketOrderID: "S1", ShipmentID: "SH1"}, nil)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "{\"order\":{\"id\":\"order-1\",\"status\":\"confirmed\",\"paymentStatus\":\"\",\"subtotal\":0,\"discount\":0,\"shippingCharges\":0,\"handlingFee\":0,\"total\":0,\"items\":null,\"shiprocketCreated\":true,\"shiprocketOrderId\":\"S1\",\"shipmentId\":\"SH1\",\"createdAt\":\"0001-01-01T00:00:00Z\"}}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			if tc.test != nil {
				tc.test(t)
			}

			res, mes := utils.TestRequest(t, testServer, "POST", "/api/orders/order-1/shipment", nil, nil)
			res.Body.Close()

			assert.Equal(t, tc.expectedCode, res.StatusCode)
			assert.Equal(t, tc.expectedMessage, mes)
		})
	}
}

func TestCancelShipmentRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionServiceMock := mock_models.NewMockSessionService(ctrl)
	fulfillmentServiceMock := mock_models.NewMockFulfillmentService(ctrl)

	testServer := httptest.NewServer(
		New(Config{}, sessionServiceMock, nil, fulfillmentServiceMock).get(),
	)
	defer testServer.Close()

	sessionServiceMock.EXPECT().IsAuthorized().Return(true)
	fulfillmentServiceMock.EXPECT().CancelShipment(gomock.Any(), "order-1").Return(nil)

	res, mes := utils.TestRequest(t, testServer, "POST", "/api/orders/order-1/shipment/cancel", nil, nil)
	res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "", mes)
}

func TestTrackShipmentRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionServiceMock := mock_models.NewMockSessionService(ctrl)
	fulfillmentServiceMock := mock_models.NewMockFulfillmentService(ctrl)

	testServer := httptest.NewServer(
		New(Config{}, sessionServiceMock, nil, fulfillmentServiceMock).get(),
	)
	defer testServer.Close()

	testCases := []struct {
		testName        string
		test            func(t *testing.T)
		expectedCode    int
		expectedMessage string
	}{
		{
			testName: "Should return error when order has no tracking code",
			test: func(t *testing.T) {
				sessionServiceMock.EXPECT().IsAuthorized().Return(true)
				fulfillmentServiceMock.EXPECT().
					Track(gomock.Any(), "order-1").
					Return(nil, services.ErrMissingTrackingCode)
			},
			expectedCode:    http.StatusUnprocessableEntity,
			expectedMessage: "У заказа ещё нет AWB-кода для трекинга\n",
		},
		{
			testName: "Should return tracking snapshot",
			test: func(t *testing.T) {
				sessionServiceMock.EXPECT().IsAuthorized().Return(true)
				fulfillmentServiceMock.EXPECT().
					Track(gomock.Any(), "order-1").
					Return(&models.Tracking{Status: "In Transit", Location: "Sorting facility"}, nil)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "{\"status\":\"In Transit\",\"location\":\"Sorting facility\"}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			if tc.test != nil {
				tc.test(t)
			}

			res, mes := utils.TestRequest(t, testServer, "GET", "/api/orders/order-1/tracking", nil, nil)
			res.Body.Close()

			assert.Equal(t, tc.expectedCode, res.StatusCode)
			assert.Equal(t, tc.expectedMessage, mes)
		})
	}
}
