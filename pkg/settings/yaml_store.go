package settings

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// YAMLStore keeps options in a flat YAML file. A missing file reads as empty.
type YAMLStore struct {
	mu   sync.Mutex
	path string
}

// NewYAMLStore creates a store backed by path.
func NewYAMLStore(path string) *YAMLStore {
	return &YAMLStore{path: path}
}

func (s *YAMLStore) Load(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Save merges values into the file and replaces it atomically.
func (s *YAMLStore) Save(ctx context.Context, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return err
	}
	maps.Copy(current, values)

	data, err := yaml.Marshal(current)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".options-*.yaml")
	if err != nil {
		return fmt.Errorf("write options: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write options: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write options: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write options: %w", err)
	}
	return nil
}

func (s *YAMLStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}

	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return values, nil
}
