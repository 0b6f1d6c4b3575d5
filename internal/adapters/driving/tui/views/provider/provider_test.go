package provider

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/busrag/internal/core/domain"
)

// MockProviderService implements driving.ProviderService for testing.
type MockProviderService struct {
	Names      []string
	LookupFunc func(ctx context.Context, name string, k int) (*domain.ProviderInfo, error)
}

func (m *MockProviderService) Lookup(ctx context.Context, name string, k int) (*domain.ProviderInfo, error) {
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, name, k)
	}
	return nil, domain.ErrNotFound
}

func (m *MockProviderService) Providers(_ context.Context) ([]string, error) {
	return m.Names, nil
}

func loadedView(t *testing.T, mock *MockProviderService) *View {
	t.Helper()
	view := NewView(nil, nil, mock)
	view.SetDimensions(100, 30)
	cmd := view.Init()
	require.NotNil(t, cmd)
	view, _ = view.Update(cmd())
	return view
}

func TestView_InitLoadsProviders(t *testing.T) {
	view := loadedView(t, &MockProviderService{Names: []string{"Greenline", "Hanif"}})

	assert.Equal(t, []string{"Greenline", "Hanif"}, view.Names())
	assert.Equal(t, "Greenline", view.SelectedName())
	out := view.View()
	assert.Contains(t, out, "Greenline")
	assert.Contains(t, out, "Hanif")
}

func TestView_NoProviders(t *testing.T) {
	view := loadedView(t, &MockProviderService{})

	assert.Equal(t, "", view.SelectedName())
	assert.Contains(t, view.View(), "No providers listed")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestView_NilService(t *testing.T) {
	view := NewView(nil, nil, nil)
	view.SetDimensions(100, 30)

	view, _ = view.Update(view.Init()())

	assert.ErrorIs(t, view.Err(), ErrNoProviderService)
	assert.Contains(t, view.View(), "provider service is not configured")
}

func TestView_SemanticLookup(t *testing.T) {
	var gotName string
	var gotK int
	mock := &MockProviderService{
		Names: []string{"Greenline", "Hanif"},
		LookupFunc: func(_ context.Context, name string, k int) (*domain.ProviderInfo, error) {
			gotName, gotK = name, k
			return &domain.ProviderInfo{
				Provider: name,
				Tier:     domain.LookupTierSemantic,
				Results: []domain.RetrievalResult{
					{ID: "route::Hanif::Dhaka->Khulna", Text: "Provider: Hanif", Distance: 0.3},
				},
			}, nil
		},
	}
	view := loadedView(t, mock)
	view.SetLimit(2)

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyDown})
	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	view, _ = view.Update(cmd())

	assert.Equal(t, "Hanif", gotName)
	assert.Equal(t, 2, gotK)
	assert.True(t, view.ShowingDetail())
	require.NotNil(t, view.Info())
	assert.Contains(t, view.View(), "route::Hanif::Dhaka->Khulna")
}

func TestView_FileLookup(t *testing.T) {
	mock := &MockProviderService{
		Names: []string{"Hanif"},
		LookupFunc: func(_ context.Context, name string, _ int) (*domain.ProviderInfo, error) {
			return &domain.ProviderInfo{Provider: name, Tier: domain.LookupTierFile, Text: "Hanif Enterprise, est. 1974"}, nil
		},
	}
	view := loadedView(t, mock)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view, _ = view.Update(cmd())

	assert.Contains(t, view.View(), "Hanif Enterprise, est. 1974")
}

func TestView_NotFound(t *testing.T) {
	view := loadedView(t, &MockProviderService{Names: []string{"Shohagh"}})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view, _ = view.Update(cmd())

	assert.True(t, view.ShowingDetail())
	assert.NoError(t, view.Err())
	assert.Contains(t, view.View(), "No details found.")
}

func TestView_LookupError(t *testing.T) {
	view := loadedView(t, &MockProviderService{Names: []string{"Hanif"}})

	view, _ = view.Update(messages.ProviderLoaded{Err: errors.New("embedder down")})

	assert.Contains(t, view.View(), "embedder down")
}

func TestView_EscNavigation(t *testing.T) {
	view := loadedView(t, &MockProviderService{Names: []string{"Hanif"}})
	view, _ = view.Update(messages.ProviderLoaded{Err: domain.ErrNotFound})
	require.True(t, view.ShowingDetail())

	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, view.ShowingDetail())

	_, cmd = view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_NavigationBounds(t *testing.T) {
	view := loadedView(t, &MockProviderService{Names: []string{"Greenline", "Hanif"}})

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "Greenline", view.SelectedName())
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, "Hanif", view.SelectedName())
}
