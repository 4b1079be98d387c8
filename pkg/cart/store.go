package cart

import (
	"encoding/json"
	"fmt"
	"os"
)

// Store is the persistence boundary for a cart. Saving and loading are
// explicit calls, never implicit side effects of cart mutation.
type Store interface {
	Save(items []LineItem) error
	Load() ([]LineItem, error)
	Clear() error
}

// FileStore keeps the cart as a JSON file, the local-storage equivalent
// for a command-line session. Cart loss on file removal is accepted.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(items []LineItem) error {

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write cart file: %w", err)
	}

	return nil
}

func (s *FileStore) Load() ([]LineItem, error) {

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart file: %w", err)
	}

	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}

	return items, nil
}

func (s *FileStore) Clear() error {

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cart file: %w", err)
	}

	return nil
}
