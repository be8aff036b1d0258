package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Renal37/go-orders-admin/internal/models"
)

// SessionFileStore хранит сессию администратора в локальном JSON-файле.
// Запись выполняется через временный файл с последующим переименованием,
// поэтому читатель никогда не наблюдает наполовину записанную сессию.
type SessionFileStore struct {
	mu   sync.Mutex
	path string
}

// NewSessionFileStore создает новый экземпляр SessionFileStore с заданным путём к файлу.
func NewSessionFileStore(path string) *SessionFileStore {
	return &SessionFileStore{path: path}
}

// Load читает сохранённую сессию. Если файл отсутствует, возвращает nil без ошибки.
func (s *SessionFileStore) Load() (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка чтения файла сессии: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("ошибка разбора файла сессии: %w", err)
	}

	return &session, nil
}

// Save атомарно записывает сессию в файл.
func (s *SessionFileStore) Save(session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("ошибка кодирования сессии: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("ошибка создания каталога сессии: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("ошибка записи файла сессии: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("ошибка переименования файла сессии: %w", err)
	}

	return nil
}

// Clear удаляет сохранённую сессию. Отсутствие файла не считается ошибкой.
func (s *SessionFileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("ошибка удаления файла сессии: %w", err)
	}

	return nil
}
