package fetcher

import (
	"context"
	"errors"
	"testing"

	"github.com/leadpilot/leadpilot-backend/internal/leadgen/planner"
	"github.com/leadpilot/leadpilot-backend/internal/leadgen/types"
	placestypes "github.com/leadpilot/leadpilot-backend/internal/places/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubProvider returns canned results per query and records calls
type stubProvider struct {
	textResults   map[string][]*placestypes.PlaceRecord
	textErr       map[string]error
	nearbyResults []*placestypes.PlaceRecord
	nearbyErr     error

	textCalls   []string
	nearbyCalls int
}

func (s *stubProvider) TextSearch(_ context.Context, query string, _ int, _ *placestypes.BiasCircle) ([]*placestypes.PlaceRecord, error) {
	s.textCalls = append(s.textCalls, query)
	if err, ok := s.textErr[query]; ok {
		return nil, err
	}
	return s.textResults[query], nil
}

func (s *stubProvider) NearbySearch(_ context.Context, _ []string, _ placestypes.BiasCircle, _ int) ([]*placestypes.PlaceRecord, error) {
	s.nearbyCalls++
	if s.nearbyErr != nil {
		return nil, s.nearbyErr
	}
	return s.nearbyResults, nil
}

func (s *stubProvider) Geocode(_ context.Context, _ string) (*placestypes.LatLng, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProvider) Autocomplete(_ context.Context, _ string) ([]*placestypes.CitySuggestion, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProvider) GetName() string    { return "stub" }
func (s *stubProvider) IsConfigured() bool { return true }

func record(id string) *placestypes.PlaceRecord {
	return &placestypes.PlaceRecord{ID: id, DisplayName: id}
}

func TestFetchSingleQuery(t *testing.T) {
	p := &stubProvider{
		textResults: map[string][]*placestypes.PlaceRecord{
			"plumbers in Austin": {record("a"), record("b")},
		},
	}
	f := New(p, 0, 20, zap.NewNop())

	pool := f.Fetch(context.Background(), &planner.Plan{
		Queries: []string{"plumbers in Austin"},
	})

	require.Len(t, pool, 2)
	assert.Equal(t, []string{"plumbers in Austin"}, p.textCalls)
	assert.Zero(t, p.nearbyCalls)
}

func TestFetchToleratesPartialFailure(t *testing.T) {
	p := &stubProvider{
		textResults: map[string][]*placestypes.PlaceRecord{
			"plumbers in Austin":   {record("a")},
			"local plumbers Austin": {record("b")},
		},
		textErr: map[string]error{
			"plumbers near Austin": errors.New("quota exceeded"),
			"best plumbers Austin": errors.New("quota exceeded"),
		},
	}
	f := New(p, 0, 20, zap.NewNop())

	pool := f.Fetch(context.Background(), &planner.Plan{
		Queries: []string{
			"plumbers in Austin",
			"plumbers near Austin",
			"best plumbers Austin",
			"local plumbers Austin",
		},
	})

	// Failing calls contribute nothing but never abort the rest
	require.Len(t, pool, 2)
	assert.Len(t, p.textCalls, 4)
}

func TestFetchComprehensiveAddsNearbySearch(t *testing.T) {
	p := &stubProvider{
		textResults: map[string][]*placestypes.PlaceRecord{
			"plumbers in Austin":   {record("a")},
			"plumbers near Austin": {record("b")},
		},
		nearbyResults: []*placestypes.PlaceRecord{record("c")},
	}
	f := New(p, 0, 20, zap.NewNop())

	pool := f.Fetch(context.Background(), &planner.Plan{
		Queries:    []string{"plumbers in Austin", "plumbers near Austin"},
		Bias:       &types.GeoBias{Latitude: 30.27, Longitude: -97.74},
		PlaceTypes: []string{"plumber"},
	})

	require.Len(t, pool, 3)
	assert.Equal(t, 1, p.nearbyCalls)
}

func TestFetchSkipsNearbyWithoutBias(t *testing.T) {
	p := &stubProvider{
		textResults: map[string][]*placestypes.PlaceRecord{
			"plumbers in Austin":   {record("a")},
			"plumbers near Austin": {record("b")},
		},
	}
	f := New(p, 0, 20, zap.NewNop())

	pool := f.Fetch(context.Background(), &planner.Plan{
		Queries:    []string{"plumbers in Austin", "plumbers near Austin"},
		PlaceTypes: []string{"plumber"},
	})

	require.Len(t, pool, 2)
	assert.Zero(t, p.nearbyCalls)
}

func TestFetchNearbyFailureKeepsTextResults(t *testing.T) {
	p := &stubProvider{
		textResults: map[string][]*placestypes.PlaceRecord{
			"plumbers in Austin":   {record("a")},
			"plumbers near Austin": {record("b")},
		},
		nearbyErr: errors.New("nearby unavailable"),
	}
	f := New(p, 0, 20, zap.NewNop())

	pool := f.Fetch(context.Background(), &planner.Plan{
		Queries:    []string{"plumbers in Austin", "plumbers near Austin"},
		Bias:       &types.GeoBias{Latitude: 30.27, Longitude: -97.74},
		PlaceTypes: []string{"plumber"},
	})

	require.Len(t, pool, 2)
	assert.Equal(t, 1, p.nearbyCalls)
}
