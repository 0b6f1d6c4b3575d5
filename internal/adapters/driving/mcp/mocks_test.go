package mcp

import (
	"context"
	"sync"

	"github.com/custodia-labs/busrag/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results []domain.RetrievalResult
	err     error

	lastQuery string
	lastK     int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	m.lastQuery = query
	m.lastK = k
	return m.results, m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer *domain.Answer
	err    error
	lastK  int
}

func (m *mockAnswerService) Synthesize(
	_ context.Context,
	_ string,
	_ []domain.RetrievalResult,
) (*domain.Answer, error) {
	return m.answer, m.err
}

func (m *mockAnswerService) Ask(_ context.Context, _ string, k int) (*domain.Answer, error) {
	m.lastK = k
	return m.answer, m.err
}

// mockProviderService is a mock implementation of driving.ProviderService.
type mockProviderService struct {
	info  *domain.ProviderInfo
	names []string
	err   error
}

func (m *mockProviderService) Lookup(_ context.Context, _ string, _ int) (*domain.ProviderInfo, error) {
	return m.info, m.err
}

func (m *mockProviderService) Providers(_ context.Context) ([]string, error) {
	return m.names, m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	mu      sync.Mutex
	ensures int
	report  *domain.BuildReport
	err     error
}

func (m *mockIndexService) State(_ context.Context) (domain.IndexState, error) {
	return domain.IndexStatePresent, nil
}

func (m *mockIndexService) Status(_ context.Context) (*domain.IndexStatus, error) {
	return &domain.IndexStatus{State: domain.IndexStatePresent}, nil
}

func (m *mockIndexService) EnsureBuilt(_ context.Context) (*domain.BuildReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensures++
	return m.report, m.err
}

func (m *mockIndexService) Rebuild(_ context.Context) (*domain.BuildReport, error) {
	return m.report, m.err
}

func (m *mockIndexService) Load(_ context.Context) (*domain.Snapshot, error) {
	return nil, nil
}

func (m *mockIndexService) Snapshot(_ context.Context) (*domain.Snapshot, error) {
	return nil, nil
}

func (m *mockIndexService) Clear(_ context.Context) error {
	return nil
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.AppSettings
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return nil }

func (m *mockSettingsService) Set(_, _ string) error { return nil }

func (m *mockSettingsService) Keys() []string { return nil }

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) Validate() error { return nil }
