package biz

import (
	"context"
	"strings"
	"time"

	"github.com/leadpilot/leadpilot-backend/internal/leadgen/fallback"
	"github.com/leadpilot/leadpilot-backend/internal/leadgen/fetcher"
	"github.com/leadpilot/leadpilot-backend/internal/leadgen/merger"
	"github.com/leadpilot/leadpilot-backend/internal/leadgen/planner"
	"github.com/leadpilot/leadpilot-backend/internal/leadgen/types"
	"github.com/leadpilot/leadpilot-backend/internal/places/provider"
	placestypes "github.com/leadpilot/leadpilot-backend/internal/places/types"
	"go.uber.org/zap"
)

// MinAutocompleteInput is the minimum input length before any
// autocomplete call is attempted
const MinAutocompleteInput = 2

// staticCitySuggestions backs autocomplete when the provider is
// unconfigured
var staticCitySuggestions = []*placestypes.CitySuggestion{
	{PlaceID: "1", Description: "Austin, TX, USA", MainText: "Austin", SecondaryText: "TX, USA"},
	{PlaceID: "2", Description: "New York, NY, USA", MainText: "New York", SecondaryText: "NY, USA"},
	{PlaceID: "3", Description: "Los Angeles, CA, USA", MainText: "Los Angeles", SecondaryText: "CA, USA"},
	{PlaceID: "4", Description: "Chicago, IL, USA", MainText: "Chicago", SecondaryText: "IL, USA"},
	{PlaceID: "5", Description: "Miami, FL, USA", MainText: "Miami", SecondaryText: "FL, USA"},
}

// SearchResult is the output of one aggregation call
type SearchResult struct {
	Leads     []types.Lead
	Simulated bool
	Took      time.Duration
}

// LeadSearchUseCase orchestrates planning, fetching, merging and the
// simulation fallback. No failure inside it ever reaches the caller as
// an error; every path degrades to a valid lead list.
type LeadSearchUseCase struct {
	provider  provider.Provider
	planner   *planner.Planner
	fetcher   *fetcher.Fetcher
	generator *fallback.Generator
	logger    *zap.Logger
}

func NewLeadSearchUseCase(
	p provider.Provider,
	pl *planner.Planner,
	f *fetcher.Fetcher,
	g *fallback.Generator,
	logger *zap.Logger,
) *LeadSearchUseCase {
	return &LeadSearchUseCase{
		provider:  p,
		planner:   pl,
		fetcher:   f,
		generator: g,
		logger:    logger,
	}
}

// SearchLeads runs one aggregation call for the given query
func (uc *LeadSearchUseCase) SearchLeads(ctx context.Context, q types.SearchQuery) *SearchResult {
	start := time.Now()

	// Missing credentials are an expected state, not an error
	if !uc.provider.IsConfigured() {
		uc.logger.Info("place provider not configured, using simulation mode",
			zap.String("keyword", q.Keyword),
			zap.String("city", q.City))
		return uc.simulate(ctx, q, start)
	}

	plan := uc.planner.Plan(ctx, q)
	pool := uc.fetcher.Fetch(ctx, plan)
	leads := merger.Merge(pool, q.Keyword, q.City)

	// Zero merged records usually means a provider capability is not
	// enabled rather than a genuine absence of businesses; show a
	// plausible set instead of an empty state.
	if len(leads) == 0 {
		uc.logger.Warn("search returned no records, falling back to simulation",
			zap.String("keyword", q.Keyword),
			zap.String("city", q.City),
			zap.Int("queries", len(plan.Queries)))
		return uc.simulate(ctx, q, start)
	}

	uc.logger.Info("lead search completed",
		zap.String("keyword", q.Keyword),
		zap.String("city", q.City),
		zap.Int("raw_records", len(pool)),
		zap.Int("leads", len(leads)),
		zap.Duration("took", time.Since(start)))

	return &SearchResult{
		Leads:     leads,
		Simulated: false,
		Took:      time.Since(start),
	}
}

func (uc *LeadSearchUseCase) simulate(ctx context.Context, q types.SearchQuery, start time.Time) *SearchResult {
	leads := uc.generator.Generate(ctx, q.Keyword, q.City)
	return &SearchResult{
		Leads:     leads,
		Simulated: true,
		Took:      time.Since(start),
	}
}

// AutocompleteCities returns type-ahead suggestions for a partial city
// input. Failures degrade to an empty list, never an error.
func (uc *LeadSearchUseCase) AutocompleteCities(ctx context.Context, input string) []*placestypes.CitySuggestion {
	if len(input) < MinAutocompleteInput {
		return []*placestypes.CitySuggestion{}
	}

	if !uc.provider.IsConfigured() {
		return filterStaticCities(input)
	}

	suggestions, err := uc.provider.Autocomplete(ctx, input)
	if err != nil {
		uc.logger.Warn("autocomplete failed", zap.String("input", input), zap.Error(err))
		return []*placestypes.CitySuggestion{}
	}
	if suggestions == nil {
		suggestions = []*placestypes.CitySuggestion{}
	}
	return suggestions
}

func filterStaticCities(input string) []*placestypes.CitySuggestion {
	lower := strings.ToLower(input)
	matches := []*placestypes.CitySuggestion{}
	for _, s := range staticCitySuggestions {
		if strings.Contains(strings.ToLower(s.Description), lower) {
			matches = append(matches, s)
		}
	}
	return matches
}

// CountWithoutWebsite reports how many leads lack a website; the
// product's pivotal signal, recorded with every search.
func CountWithoutWebsite(leads []types.Lead) int {
	n := 0
	for _, l := range leads {
		if !l.HasWebsite {
			n++
		}
	}
	return n
}
