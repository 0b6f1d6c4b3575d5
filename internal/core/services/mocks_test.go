package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/custodia-labs/busrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService maps text to a vector by counting a fixed vocabulary,
// so related texts land near each other.
type mockEmbeddingService struct {
	mu       sync.Mutex
	vocab    []string
	embedErr error
	batchErr error
	short    bool // return one vector fewer than requested
	calls    int
	block    chan struct{}
}

func newMockEmbeddingService(vocab ...string) *mockEmbeddingService {
	if len(vocab) == 0 {
		vocab = []string{"dhaka", "rajshahi", "khulna", "sylhet", "greenline", "hanif", "provider", "fare"}
	}
	return &mockEmbeddingService{vocab: vocab}
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(m.vocab))
	for i, w := range m.vocab {
		v[i] = float32(strings.Count(lower, w))
	}
	return v
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls++
	block := m.block
	m.mu.Unlock()
	if block != nil {
		<-block
	}
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, m.vector(t))
	}
	if m.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int   { return len(m.vocab) }
func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

func (m *mockEmbeddingService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockLLMService records the prompts it receives.
type mockLLMService struct {
	response string
	err      error
	prompts  []string
	opts     []driven.GenerateOptions
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLMService) ModelName() string            { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockCorpusSource serves an in-memory corpus.
type mockCorpusSource struct {
	mu      sync.Mutex
	desc    *domain.CorpusDescription
	files   []domain.ProviderFile
	descErr error
}

func (m *mockCorpusSource) LoadDescription(_ context.Context) (*domain.CorpusDescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.descErr != nil {
		return nil, m.descErr
	}
	if m.desc == nil {
		return &domain.CorpusDescription{}, nil
	}
	return m.desc, nil
}

func (m *mockCorpusSource) ProviderFiles(_ context.Context) ([]domain.ProviderFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files, nil
}

func (m *mockCorpusSource) ReadProviderFile(_ context.Context, filename string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if f.Name == filename {
			return f.Content, nil
		}
	}
	return "", domain.ErrNotFound
}

func (m *mockCorpusSource) Paths() []string { return nil }

func (m *mockCorpusSource) set(desc *domain.CorpusDescription, files []domain.ProviderFile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.desc = desc
	m.files = files
}

// mockIndexStore wraps the memory store to count loads, report a torn pair,
// or round vectors on save the way a reduced-precision store does.
type mockIndexStore struct {
	*memory.IndexStore

	mu    sync.Mutex
	loads int
	torn  bool    // report ErrInconsistentArtifacts until the next successful Save
	step  float64 // when non-zero, Save rounds every component to a multiple of step
}

func newMockIndexStore() *mockIndexStore {
	return &mockIndexStore{IndexStore: memory.NewIndexStore()}
}

func (m *mockIndexStore) isTorn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.torn
}

func (m *mockIndexStore) State(ctx context.Context) (domain.IndexState, error) {
	if m.isTorn() {
		return domain.IndexStateAbsent, nil
	}
	return m.IndexStore.State(ctx)
}

func (m *mockIndexStore) Meta(ctx context.Context) (driven.IndexMeta, error) {
	if m.isTorn() {
		return driven.IndexMeta{}, fmt.Errorf("%w: index has no metadata", domain.ErrInconsistentArtifacts)
	}
	return m.IndexStore.Meta(ctx)
}

func (m *mockIndexStore) Load(ctx context.Context) (*domain.Snapshot, driven.IndexMeta, error) {
	m.mu.Lock()
	m.loads++
	m.mu.Unlock()
	if m.isTorn() {
		return nil, driven.IndexMeta{}, fmt.Errorf("%w: index has no metadata", domain.ErrInconsistentArtifacts)
	}
	return m.IndexStore.Load(ctx)
}

func (m *mockIndexStore) Save(ctx context.Context, snapshot *domain.Snapshot, meta driven.IndexMeta) error {
	if m.step != 0 && snapshot.Len() > 0 {
		vectors := make([][]float32, snapshot.Len())
		for i := range vectors {
			row := snapshot.Vector(i)
			for j, v := range row {
				row[j] = float32(math.Round(float64(v)/m.step) * m.step)
			}
			vectors[i] = row
		}
		rounded, err := domain.NewSnapshot(vectors, snapshot.IDs(), snapshot.Texts())
		if err != nil {
			return err
		}
		snapshot = rounded
	}
	if err := m.IndexStore.Save(ctx, snapshot, meta); err != nil {
		return err
	}
	m.mu.Lock()
	m.torn = false
	m.mu.Unlock()
	return nil
}

func (m *mockIndexStore) loadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

// mockRetrievalService returns canned results.
type mockRetrievalService struct {
	results []domain.RetrievalResult
	err     error
	queries []string
	ks      []int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	m.queries = append(m.queries, query)
	m.ks = append(m.ks, k)
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// mockAIConfigValidator returns configured errors.
type mockAIConfigValidator struct {
	embeddingErr error
	llmErr       error
	llmCalls     int
}

func (m *mockAIConfigValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	return m.embeddingErr
}

func (m *mockAIConfigValidator) ValidateLLM(_ *domain.LLMSettings) error {
	m.llmCalls++
	return m.llmErr
}

var errBoom = errors.New("boom")

// --- Test helpers ---

// busCorpus is a small corpus with two providers and one provider file.
func busCorpus() (*domain.CorpusDescription, []domain.ProviderFile) {
	desc := &domain.CorpusDescription{
		Providers: []domain.Provider{
			{Name: "Greenline", Routes: []domain.Route{
				{Origin: "Dhaka", Destination: "Rajshahi", Fare: "450", Departure: "08:00"},
				{Origin: "Dhaka", Destination: "Khulna", Fare: "600", Departure: "22:00"},
			}},
			{Name: "Hanif", Routes: []domain.Route{
				{Origin: "Dhaka", Destination: "Sylhet", Fare: "700", Departure: "07:30"},
			}},
		},
	}
	files := []domain.ProviderFile{
		{Name: "Hanif.txt", Content: "Hanif provider runs coaches to Sylhet daily."},
	}
	return desc, files
}
