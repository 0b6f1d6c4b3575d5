package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/busrag/internal/core/domain"
)

// --- Mock Index Service ---

type mockIndexService struct {
	report   *domain.BuildReport
	status   *domain.IndexStatus
	err      error
	ensures  int
	rebuilds int
	cleared  bool
}

func (m *mockIndexService) State(_ context.Context) (domain.IndexState, error) {
	if m.status != nil {
		return m.status.State, nil
	}
	return domain.IndexStatePresent, nil
}

func (m *mockIndexService) Status(_ context.Context) (*domain.IndexStatus, error) {
	if m.status != nil {
		return m.status, nil
	}
	return &domain.IndexStatus{State: domain.IndexStatePresent}, nil
}

func (m *mockIndexService) EnsureBuilt(_ context.Context) (*domain.BuildReport, error) {
	m.ensures++
	if m.err != nil {
		return nil, m.err
	}
	if m.report != nil {
		return m.report, nil
	}
	return &domain.BuildReport{Outcome: domain.BuildOutcomeAlreadyPresent, Documents: 3}, nil
}

func (m *mockIndexService) Rebuild(_ context.Context) (*domain.BuildReport, error) {
	m.rebuilds++
	if m.err != nil {
		return nil, m.err
	}
	return &domain.BuildReport{
		Outcome: domain.BuildOutcomeBuilt, Documents: 3, Dimension: 384, Duration: 1500 * time.Millisecond,
	}, nil
}

func (m *mockIndexService) Load(_ context.Context) (*domain.Snapshot, error) {
	return nil, nil
}

func (m *mockIndexService) Snapshot(_ context.Context) (*domain.Snapshot, error) {
	return nil, nil
}

func (m *mockIndexService) Clear(_ context.Context) error {
	m.cleared = true
	return m.err
}

// --- Mock Retrieval Service ---

type mockRetrievalService struct {
	results   []domain.RetrievalResult
	err       error
	lastQuery string
	lastK     int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	m.lastQuery, m.lastK = query, k
	return m.results, m.err
}

// --- Mock Answer Service ---

type mockAnswerService struct {
	answer *domain.Answer
	err    error
	lastK  int
}

func (m *mockAnswerService) Synthesize(
	_ context.Context, question string, passages []domain.RetrievalResult,
) (*domain.Answer, error) {
	return &domain.Answer{Question: question, Sources: passages}, nil
}

func (m *mockAnswerService) Ask(_ context.Context, _ string, k int) (*domain.Answer, error) {
	m.lastK = k
	return m.answer, m.err
}

// --- Mock Provider Service ---

type mockProviderService struct {
	names []string
	info  *domain.ProviderInfo
	err   error
	lastK int
}

func (m *mockProviderService) Lookup(_ context.Context, _ string, k int) (*domain.ProviderInfo, error) {
	m.lastK = k
	return m.info, m.err
}

func (m *mockProviderService) Providers(_ context.Context) ([]string, error) {
	return m.names, nil
}

// --- Mock Booking Service ---

type mockBookingService struct {
	bookings  []domain.Booking
	lastReq   domain.BookingRequest
	cancelErr error
	cancelled []int64
}

func (m *mockBookingService) Book(_ context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m.lastReq = req
	b := domain.Booking{ID: int64(len(m.bookings) + 1), BookingRequest: req, CreatedAt: time.Now()}
	m.bookings = append(m.bookings, b)
	return &b, nil
}

func (m *mockBookingService) List(_ context.Context) ([]domain.Booking, error) {
	return m.bookings, nil
}

func (m *mockBookingService) Cancel(_ context.Context, id int64) error {
	if m.cancelErr != nil {
		return m.cancelErr
	}
	m.cancelled = append(m.cancelled, id)
	return nil
}

// --- Mock Settings Service ---

type mockSettingsService struct {
	settings domain.AppSettings
	setErr   error
	valErr   error
	set      map[string]string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings(), set: map[string]string{}}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"embedding.provider", "llm.provider", "retrieval.search_k"}
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) Validate() error {
	return m.valErr
}

// --- Helpers ---

// testServices holds the mocks injected by setupTestServices.
type testServices struct {
	index     *mockIndexService
	retrieval *mockRetrievalService
	answer    *mockAnswerService
	provider  *mockProviderService
	booking   *mockBookingService
	settings  *mockSettingsService
}

// resetServices clears injected services and returns a restore func.
func resetServices() func() {
	saved := &Services{
		Index:      indexService,
		Retrieval:  retrievalService,
		Answer:     answerService,
		Provider:   providerService,
		Booking:    bookingService,
		Settings:   settingsService,
		WatchPaths: watchPaths,
		Close:      closeServices,
	}
	savedReady := servicesReady
	savedBootstrap := bootstrap

	SetServices(nil)
	servicesReady = false

	return func() {
		SetServices(saved)
		servicesReady = savedReady
		bootstrap = savedBootstrap
	}
}

// setupTestServices injects fresh mocks and returns them with a cleanup func.
func setupTestServices() (*testServices, func()) {
	restore := resetServices()
	ts := &testServices{
		index: &mockIndexService{},
		retrieval: &mockRetrievalService{results: []domain.RetrievalResult{
			{ID: "route::Hanif::Dhaka->Rajshahi", Text: "Provider: Hanif\nFare: 450", Distance: 0.25},
		}},
		answer:   &mockAnswerService{},
		provider: &mockProviderService{},
		booking:  &mockBookingService{},
		settings: newMockSettingsService(),
	}
	SetServices(&Services{
		Index:     ts.index,
		Retrieval: ts.retrieval,
		Answer:    ts.answer,
		Provider:  ts.provider,
		Booking:   ts.booking,
		Settings:  ts.settings,
	})
	return ts, restore
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag in the tree to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
