package biz

import (
	"context"
	"errors"
	"testing"

	"github.com/leadpilot/leadpilot-backend/internal/leadgen/fallback"
	"github.com/leadpilot/leadpilot-backend/internal/leadgen/fetcher"
	"github.com/leadpilot/leadpilot-backend/internal/leadgen/planner"
	"github.com/leadpilot/leadpilot-backend/internal/leadgen/types"
	placestypes "github.com/leadpilot/leadpilot-backend/internal/places/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProvider struct {
	configured  bool
	textResults []*placestypes.PlaceRecord
	textErr     error
	suggestions []*placestypes.CitySuggestion
	suggErr     error
}

func (s *stubProvider) TextSearch(_ context.Context, _ string, _ int, _ *placestypes.BiasCircle) ([]*placestypes.PlaceRecord, error) {
	return s.textResults, s.textErr
}

func (s *stubProvider) NearbySearch(_ context.Context, _ []string, _ placestypes.BiasCircle, _ int) ([]*placestypes.PlaceRecord, error) {
	return nil, errors.New("unavailable")
}

func (s *stubProvider) Geocode(_ context.Context, _ string) (*placestypes.LatLng, error) {
	return nil, errors.New("unavailable")
}

func (s *stubProvider) Autocomplete(_ context.Context, _ string) ([]*placestypes.CitySuggestion, error) {
	return s.suggestions, s.suggErr
}

func (s *stubProvider) GetName() string    { return "stub" }
func (s *stubProvider) IsConfigured() bool { return s.configured }

func newUseCase(p *stubProvider) *LeadSearchUseCase {
	log := zap.NewNop()
	return NewLeadSearchUseCase(
		p,
		planner.New(p, log),
		fetcher.New(p, 0, 20, log),
		fallback.New(0),
		log,
	)
}

func ratingPtr(v float64) *float64 { return &v }

func TestSearchLeadsUnconfiguredProviderSimulates(t *testing.T) {
	uc := newUseCase(&stubProvider{configured: false})

	result := uc.SearchLeads(context.Background(), types.SearchQuery{
		Keyword: "plumbers",
		City:    "Austin",
	})

	require.NotNil(t, result)
	assert.True(t, result.Simulated)
	assert.GreaterOrEqual(t, len(result.Leads), 5)
	assert.LessOrEqual(t, len(result.Leads), 12)
}

func TestSearchLeadsEmptyPoolSimulates(t *testing.T) {
	uc := newUseCase(&stubProvider{configured: true, textResults: nil})

	result := uc.SearchLeads(context.Background(), types.SearchQuery{
		Keyword: "plumbers",
		City:    "Austin",
	})

	require.NotNil(t, result)
	assert.True(t, result.Simulated)
	assert.NotEmpty(t, result.Leads)
}

func TestSearchLeadsRealResults(t *testing.T) {
	uc := newUseCase(&stubProvider{
		configured: true,
		textResults: []*placestypes.PlaceRecord{
			{ID: "a", DisplayName: "Ace Plumbing", Rating: ratingPtr(4.9), ReviewCount: 120},
			{ID: "b", DisplayName: "Budget Pipes", Rating: ratingPtr(4.1), ReviewCount: 30},
			{ID: "c", DisplayName: "City Drains", WebsiteURI: "https://citydrains.example"},
		},
	})

	result := uc.SearchLeads(context.Background(), types.SearchQuery{
		Keyword: "plumbers",
		City:    "Austin",
	})

	require.NotNil(t, result)
	assert.False(t, result.Simulated)
	require.Len(t, result.Leads, 3)
	assert.Equal(t, "Ace Plumbing", result.Leads[0].BusinessName)
	assert.Equal(t, "plumbers", result.Leads[0].Category)
	assert.Equal(t, "Austin", result.Leads[0].City)
}

func TestAutocompleteShortInput(t *testing.T) {
	uc := newUseCase(&stubProvider{configured: true})

	assert.Empty(t, uc.AutocompleteCities(context.Background(), ""))
	assert.Empty(t, uc.AutocompleteCities(context.Background(), "a"))
}

func TestAutocompleteStaticFallback(t *testing.T) {
	uc := newUseCase(&stubProvider{configured: false})

	suggestions := uc.AutocompleteCities(context.Background(), "au")

	require.Len(t, suggestions, 1)
	assert.Equal(t, "Austin, TX, USA", suggestions[0].Description)

	// Substring match is case insensitive and not anchored
	suggestions = uc.AutocompleteCities(context.Background(), "york")
	require.Len(t, suggestions, 1)
	assert.Equal(t, "New York, NY, USA", suggestions[0].Description)
}

func TestAutocompleteProviderErrorDegradesToEmpty(t *testing.T) {
	uc := newUseCase(&stubProvider{configured: true, suggErr: errors.New("boom")})

	suggestions := uc.AutocompleteCities(context.Background(), "aus")

	assert.NotNil(t, suggestions)
	assert.Empty(t, suggestions)
}

func TestCountWithoutWebsite(t *testing.T) {
	leads := []types.Lead{
		{HasWebsite: true},
		{HasWebsite: false},
		{HasWebsite: false},
	}

	assert.Equal(t, 2, CountWithoutWebsite(leads))
}
