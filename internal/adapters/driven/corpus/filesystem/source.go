package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/core/ports/driven"
	"github.com/custodia-labs/busrag/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.CorpusSource = (*Source)(nil)

// ProviderTextsDir is the subdirectory holding provider files.
const ProviderTextsDir = "provider_texts"

// descriptionFiles are tried in order; the first that exists is used.
var descriptionFiles = []string{"data.json", "data.yaml", "data.yml"}

type descriptionDoc struct {
	// Districts is present in some data files and is not used.
	Districts []any         `json:"districts" yaml:"districts"`
	Providers []providerDoc `json:"providers" yaml:"providers"`
}

type providerDoc struct {
	Name   scalar     `json:"name" yaml:"name"`
	Routes []routeDoc `json:"routes" yaml:"routes"`
}

type routeDoc struct {
	Origin      scalar `json:"origin" yaml:"origin"`
	Destination scalar `json:"destination" yaml:"destination"`
	Fare        scalar `json:"fare" yaml:"fare"`
	Departure   scalar `json:"departure" yaml:"departure"`
}

// Source reads the corpus from a data directory.
type Source struct {
	dataDir string
}

// NewSource creates a corpus source rooted at dataDir.
func NewSource(dataDir string) *Source {
	return &Source{dataDir: dataDir}
}

// DataDir returns the root directory.
func (s *Source) DataDir() string {
	return s.dataDir
}

// LoadDescription reads the first description file found.
func (s *Source) LoadDescription(ctx context.Context) (*domain.CorpusDescription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, name := range descriptionFiles {
		path := filepath.Join(s.dataDir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		var doc descriptionDoc
		if strings.HasSuffix(name, ".json") {
			err = json.Unmarshal(data, &doc)
		} else {
			err = yaml.Unmarshal(data, &doc)
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		logger.Debug("Loaded corpus description %s: %d providers", path, len(doc.Providers))
		return doc.toDomain(), nil
	}

	logger.Debug("No corpus description in %s", s.dataDir)
	return &domain.CorpusDescription{}, nil
}

// ProviderFiles reads every regular file in provider_texts, sorted by filename.
func (s *Source) ProviderFiles(ctx context.Context) ([]domain.ProviderFile, error) {
	dir := filepath.Join(s.dataDir, ProviderTextsDir)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	// os.ReadDir returns entries sorted by filename.
	files := make([]domain.ProviderFile, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, domain.ProviderFile{Name: entry.Name(), Content: string(content)})
	}
	return files, nil
}

// ReadProviderFile reads one provider file by name.
func (s *Source) ReadProviderFile(_ context.Context, filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || filename == ".." {
		return "", fmt.Errorf("%w: provider file name %q", domain.ErrInvalidInput, filename)
	}

	path := filepath.Join(s.dataDir, ProviderTextsDir, filename)
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("provider file %s: %w", filename, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(content), nil
}

// Paths returns the data directory and the provider_texts directory.
func (s *Source) Paths() []string {
	return []string{s.dataDir, filepath.Join(s.dataDir, ProviderTextsDir)}
}

func (d descriptionDoc) toDomain() *domain.CorpusDescription {
	desc := &domain.CorpusDescription{Providers: make([]domain.Provider, 0, len(d.Providers))}
	for _, p := range d.Providers {
		provider := domain.Provider{Name: string(p.Name), Routes: make([]domain.Route, 0, len(p.Routes))}
		for _, r := range p.Routes {
			provider.Routes = append(provider.Routes, domain.Route{
				Origin:      string(r.Origin),
				Destination: string(r.Destination),
				Fare:        string(r.Fare),
				Departure:   string(r.Departure),
			})
		}
		desc.Providers = append(desc.Providers, provider)
	}
	return desc
}
