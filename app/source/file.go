package source

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads records from a local delimited file. Acknowledgment
// is a no-op; deduplication happens entirely through the local
// checkpoint.
type FileSource struct {
	name string
	path string
}

var _ Source = (*FileSource)(nil)

func NewFileSource(name, path string) *FileSource {
	return &FileSource{name: name, path: path}
}

func (s *FileSource) Name() string {
	return s.name
}

func (s *FileSource) ListUnprocessed(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to read source file %s: %w", s.path, err)
	}
	return string(data), nil
}

func (s *FileSource) MarkProcessed(ctx context.Context, url string) error {
	return nil
}
