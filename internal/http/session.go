package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Renal37/go-orders-admin/internal/backend"
	"github.com/Renal37/go-orders-admin/internal/middlewares"
	"github.com/Renal37/go-orders-admin/internal/models"
	"github.com/Renal37/go-orders-admin/internal/services"
)

// Login обрабатывает HTTP-запрос на вход администратора.
func Login(w http.ResponseWriter, r *http.Request) {
	credentials := middlewares.GetParsedJSONData[models.Credentials](w, r)

	// Проверяем, что в запросе указаны логин и пароль.
	if credentials.AdminID == nil || credentials.Password == nil {
		http.Error(w, "Запрос не содержит логин или пароль", http.StatusBadRequest)
		return
	}

	sessionService := middlewares.GetServiceFromContext[models.SessionService](w, r, middlewares.SessionServiceKey)

	profile, err := (*sessionService).Login(r.Context(), credentials)
	if err != nil {
		if errors.Is(err, backend.ErrInvalidCredentials) {
			http.Error(w, "Неверный логин или пароль", http.StatusUnauthorized)
			return
		}

		http.Error(w, fmt.Sprintf("Произошла ошибка при входе: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	middlewares.EncodeJSONResponse(w, profile)
}

// Logout обрабатывает HTTP-запрос на выход администратора.
func Logout(w http.ResponseWriter, r *http.Request) {
	sessionService := middlewares.GetServiceFromContext[models.SessionService](w, r, middlewares.SessionServiceKey)

	if err := (*sessionService).Logout(); err != nil {
		http.Error(w, fmt.Sprintf("Произошла ошибка при выходе: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// ChangePassword обрабатывает HTTP-запрос на смену пароля администратора.
func ChangePassword(w http.ResponseWriter, r *http.Request) {
	passwordChange := middlewares.GetParsedJSONData[models.PasswordChange](w, r)

	if passwordChange.CurrentPassword == nil || passwordChange.NewPassword == nil {
		http.Error(w, "Запрос не содержит текущий или новый пароль", http.StatusBadRequest)
		return
	}

	sessionService := middlewares.GetServiceFromContext[models.SessionService](w, r, middlewares.SessionServiceKey)

	err := (*sessionService).ChangePassword(r.Context(), *passwordChange.CurrentPassword, *passwordChange.NewPassword)
	if err != nil {
		if errors.Is(err, services.ErrSessionExpired) {
			http.Error(w, "Сессия истекла, требуется повторный вход", http.StatusUnauthorized)
			return
		}

		if errors.Is(err, backend.ErrInvalidCredentials) {
			http.Error(w, "Текущий пароль неверен", http.StatusUnauthorized)
			return
		}

		http.Error(w, fmt.Sprintf("Произошла ошибка при смене пароля: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
