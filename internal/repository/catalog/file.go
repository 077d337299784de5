package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/recommender/internal/domain"
	domcat "github.com/kailas-cloud/recommender/internal/domain/catalog"
)

// FileSource reads a catalog from a .json, .yaml or .yml file holding an array of products.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads and validates the file. The file is re-read on every call.
func (s *FileSource) Load(ctx context.Context) ([]domcat.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrCatalogSource, s.path, err)
	}

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".json":
		return decodeJSON(data)
	case ".yaml", ".yml":
		var dtos []itemDTO
		if err := yaml.Unmarshal(data, &dtos); err != nil {
			return nil, fmt.Errorf("%w: decode yaml %s: %w", domain.ErrCatalogSource, s.path, err)
		}
		return toDomain(dtos)
	default:
		return nil, fmt.Errorf("%w: unsupported catalog file extension %q", domain.ErrCatalogSource, filepath.Ext(s.path))
	}
}
