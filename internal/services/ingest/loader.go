package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lexquery/lexquery/internal/models"
)

// Manifest is the on-disk corpus file format. A corpus directory holds one
// or more YAML manifests, each contributing a list of documents.
type Manifest struct {
	Documents []*models.DocumentInput `yaml:"documents"`
}

// LoadDirectory reads every corpus manifest under dir (sorted by path, so
// repeated loads of the same directory are byte-for-byte identical) and
// ingests the combined document set as one atomic replacement.
func (s *Service) LoadDirectory(ctx context.Context, dir string) (int, error) {
	paths, err := s.manifestPaths(dir)
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		return 0, fmt.Errorf("no corpus manifests found in %s", dir)
	}

	var inputs []*models.DocumentInput
	for _, path := range paths {
		manifest, err := loadManifest(path)
		if err != nil {
			return 0, fmt.Errorf("failed to load %s: %w", path, err)
		}
		inputs = append(inputs, manifest.Documents...)
	}

	s.logger.Info().
		Str("dir", dir).
		Int("files", len(paths)).
		Int("documents", len(inputs)).
		Msg("Loading corpus from directory")

	return s.Ingest(ctx, inputs)
}

// manifestPaths lists manifest files under dir with a recognized extension
func (s *Service) manifestPaths(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, allowed := range s.extensions {
			if ext == allowed {
				paths = append(paths, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan corpus directory: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &manifest, nil
}
