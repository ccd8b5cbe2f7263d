package tts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("audio file not found")

// Store keeps synthesised replies on disk under a single directory.
type Store struct {
	dir string
}

// NewStore uses dir, or the system temp directory when dir is empty.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "saathi-audio")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("audio dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes data under a fresh name and returns that name.
func (s *Store) Save(data []byte) (string, error) {
	name := "response_" + uuid.NewString() + ".mp3"
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("save audio: %w", err)
	}
	return name, nil
}

// Path resolves a previously saved name. Anything that is not a plain file
// name inside the store is reported as ErrNotFound.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrNotFound
	}

	p := filepath.Join(s.dir, name)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return p, nil
}
