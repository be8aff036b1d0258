package models

import "time"

// AdminProfile содержит данные администратора, возвращаемые бэкендом при входе.
type AdminProfile struct {
	ID      string `json:"id"`
	AdminID string `json:"adminId"`
	Name    string `json:"name"`
}

// Session представляет сессию администратора: учётные данные, абсолютный момент
// истечения и последний известный профиль. Хранится локально у клиента.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Admin     AdminProfile `json:"admin"`
}

// LoginResult представляет ответ бэкенда на запрос входа администратора.
type LoginResult struct {
	Token string       `json:"token"`
	Admin AdminProfile `json:"admin"`
}

// Credentials описывает тело запроса входа администратора.
type Credentials struct {
	AdminID  *string `json:"adminId"`
	Password *string `json:"password"`
}

// PasswordChange описывает тело запроса на смену пароля администратора.
type PasswordChange struct {
	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword"`
}
