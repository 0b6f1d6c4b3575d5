package indexfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/core/ports/driven"
	"github.com/custodia-labs/busrag/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// Artifact file names.
const (
	IndexFile   = "index.bin"
	MetaFile    = "meta.json"
	CurrentFile = "CURRENT"

	generationPrefix = "gen-"
)

// Store keeps generations of the index pair under a directory and a
// CURRENT file naming the live one.
type Store struct {
	mu        sync.Mutex
	dir       string
	precision domain.VectorPrecision

	// beforeCommit runs after the new generation is written and before
	// CURRENT is replaced. Tests use it to simulate an interrupted save.
	beforeCommit func() error
}

// NewStore creates a store rooted at dir. The directory is created on first save.
func NewStore(dir string, precision domain.VectorPrecision) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: index directory is required", domain.ErrInvalidInput)
	}
	if _, _, err := precisionCode(precision); err != nil {
		return nil, err
	}
	return &Store{dir: dir, precision: precision}, nil
}

// Dir returns the root directory.
func (s *Store) Dir() string {
	return s.dir
}

// State reports Present only when CURRENT names a generation whose pair agrees.
func (s *Store) State(ctx context.Context) (domain.IndexState, error) {
	if _, err := s.Meta(ctx); err != nil {
		if errors.Is(err, domain.ErrIndexAbsent) || errors.Is(err, domain.ErrInconsistentArtifacts) {
			return domain.IndexStateAbsent, nil
		}
		return domain.IndexStateAbsent, err
	}
	return domain.IndexStatePresent, nil
}

// Meta checks the live generation's header and metadata against each other
// without reading the vectors.
func (s *Store) Meta(_ context.Context) (driven.IndexMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen, err := s.currentGeneration()
	if err != nil {
		return driven.IndexMeta{}, err
	}

	genDir := filepath.Join(s.dir, gen)
	h, size, indexErr := readHeader(filepath.Join(genDir, IndexFile))
	meta, metaErr := os.ReadFile(filepath.Join(genDir, MetaFile))
	if err := pairError(gen, indexErr, metaErr); err != nil {
		return driven.IndexMeta{}, err
	}

	m, err := parseMeta(meta)
	if err != nil {
		return driven.IndexMeta{}, err
	}
	if err := checkPair(h, size, m); err != nil {
		return driven.IndexMeta{}, err
	}
	return driven.IndexMeta{Model: m.Model, Documents: h.count, Dimension: h.dim}, nil
}

// Load reads the live generation.
func (s *Store) Load(_ context.Context) (*domain.Snapshot, driven.IndexMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen, err := s.currentGeneration()
	if err != nil {
		return nil, driven.IndexMeta{}, err
	}

	genDir := filepath.Join(s.dir, gen)
	index, indexErr := os.ReadFile(filepath.Join(genDir, IndexFile))
	meta, metaErr := os.ReadFile(filepath.Join(genDir, MetaFile))
	if err := pairError(gen, indexErr, metaErr); err != nil {
		return nil, driven.IndexMeta{}, err
	}

	snapshot, m, err := Decode(index, meta)
	if err != nil {
		return nil, driven.IndexMeta{}, err
	}

	logger.Debug("Loaded index generation %s: %d vectors, dim %d", gen, snapshot.Len(), snapshot.Dimension())
	return snapshot, driven.IndexMeta{
		Model:     m.Model,
		Documents: snapshot.Len(),
		Dimension: snapshot.Dimension(),
	}, nil
}

// pairError classifies the read errors of a generation's two files.
func pairError(gen string, indexErr, metaErr error) error {
	switch {
	case errors.Is(indexErr, os.ErrNotExist) && errors.Is(metaErr, os.ErrNotExist):
		return fmt.Errorf("%w: generation %s is empty", domain.ErrInconsistentArtifacts, gen)
	case errors.Is(indexErr, os.ErrNotExist):
		return fmt.Errorf("%w: %s has metadata but no index", domain.ErrInconsistentArtifacts, gen)
	case errors.Is(metaErr, os.ErrNotExist):
		return fmt.Errorf("%w: %s has index but no metadata", domain.ErrInconsistentArtifacts, gen)
	case indexErr != nil:
		return fmt.Errorf("read index: %w", indexErr)
	case metaErr != nil:
		return fmt.Errorf("read metadata: %w", metaErr)
	}
	return nil
}

// readHeader reads only the fixed header of the index file and reports its size.
func readHeader(path string) (header, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return header{}, 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return header{}, 0, err
	}

	buf := make([]byte, HeaderSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return header{}, 0, err
	}
	h, err := parseHeader(buf[:n])
	if err != nil {
		return header{}, 0, err
	}
	return h, info.Size(), nil
}

// Save writes a new generation and atomically makes it live.
// If any step fails the previous generation stays live and the partial one is removed.
func (s *Store) Save(_ context.Context, snapshot *domain.Snapshot, meta driven.IndexMeta) error {
	index, metaJSON, err := Encode(snapshot, meta.Model, s.precision)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	gen := generationPrefix + uuid.NewString()
	genDir := filepath.Join(s.dir, gen)
	if err := os.Mkdir(genDir, 0700); err != nil {
		return fmt.Errorf("create generation: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(genDir)
		}
	}()

	if err := writeFileSync(filepath.Join(genDir, IndexFile), index); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	if err := writeFileSync(filepath.Join(genDir, MetaFile), metaJSON); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	syncDir(genDir)

	if s.beforeCommit != nil {
		if err := s.beforeCommit(); err != nil {
			return err
		}
	}

	if err := s.writeCurrent(gen); err != nil {
		return fmt.Errorf("commit generation: %w", err)
	}
	committed = true

	s.removeGenerations(gen)
	logger.Debug("Saved index generation %s (%d bytes index, %d bytes metadata)", gen, len(index), len(metaJSON))
	return nil
}

// Clear removes CURRENT first, so a partially cleared store reads as Absent.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(filepath.Join(s.dir, CurrentFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", CurrentFile, err)
	}
	s.removeGenerations("")
	return nil
}

func (s *Store) currentGeneration() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, CurrentFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", domain.ErrIndexAbsent
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", CurrentFile, err)
	}

	gen := strings.TrimSpace(string(data))
	if !strings.HasPrefix(gen, generationPrefix) || gen != filepath.Base(gen) {
		return "", fmt.Errorf("%w: %s names %q", domain.ErrInconsistentArtifacts, CurrentFile, gen)
	}
	return gen, nil
}

func (s *Store) writeCurrent(gen string) error {
	tmp, err := os.CreateTemp(s.dir, "."+CurrentFile+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(gen + "\n"); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, CurrentFile)); err != nil {
		return err
	}
	syncDir(s.dir)
	return nil
}

// removeGenerations deletes every generation directory except keep.
func (s *Store) removeGenerations(keep string) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), generationPrefix) || e.Name() == keep {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.dir, e.Name())); err != nil {
			logger.Warn("Failed to remove old index generation %s: %v", e.Name(), err)
		}
	}
}

func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// syncDir flushes directory entries. Not every platform supports it, so errors are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
