package openflights

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/samirrijal/skylog/internal/core/domain"
)

// FileSource implements ports.AirportSource over a local airports.dat file.
type FileSource struct {
	path string
}

// NewFileSource creates a new FileSource.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// List parses the whole file on every call.
func (s *FileSource) List(ctx context.Context) ([]domain.Airport, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	airports, skipped, err := Parse(f)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		slog.Info("airports.dat rows skipped", "path", s.path, "skipped", skipped)
	}
	return airports, ctx.Err()
}
