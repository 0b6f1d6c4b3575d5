package tui

import (
	"context"
	"time"

	"github.com/custodia-labs/busrag/internal/core/domain"
)

// --- Mock Retrieval Service ---

type mockRetrievalService struct {
	results []domain.RetrievalResult
	err     error
	lastK   int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, k int) ([]domain.RetrievalResult, error) {
	m.lastK = k
	return m.results, m.err
}

// --- Mock Index Service ---

type mockIndexService struct {
	report *domain.BuildReport
	err    error
	calls  int
}

func (m *mockIndexService) State(_ context.Context) (domain.IndexState, error) {
	return domain.IndexStatePresent, nil
}

func (m *mockIndexService) Status(_ context.Context) (*domain.IndexStatus, error) {
	return &domain.IndexStatus{State: domain.IndexStatePresent}, nil
}

func (m *mockIndexService) EnsureBuilt(_ context.Context) (*domain.BuildReport, error) {
	m.calls++
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

// --- Mock Booking Service ---

type mockBookingService struct {
	bookings []domain.Booking
}

func (m *mockBookingService) Book(_ context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	b := domain.Booking{ID: int64(len(m.bookings) + 1), BookingRequest: req, CreatedAt: time.Now()}
	m.bookings = append(m.bookings, b)
	return &b, nil
}

func (m *mockBookingService) List(_ context.Context) ([]domain.Booking, error) {
	return m.bookings, nil
}

func (m *mockBookingService) Cancel(_ context.Context, _ int64) error {
	return nil
}

// --- Mock Settings Service ---

type mockSettingsService struct {
	settings domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) Set(_, _ string) error {
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) Validate() error {
	return nil
}
