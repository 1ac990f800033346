package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Local writes session documents to a directory on disk.
type Local struct {
	Dir string
}

func NewLocal(dir string) *Local {
	if dir == "" {
		dir = "."
	}
	return &Local{Dir: dir}
}

func (l *Local) Upload(objectKey string, contentType string, body []byte) error {
	_ = contentType
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", l.Dir, err)
	}
	path := filepath.Join(l.Dir, objectKey)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
