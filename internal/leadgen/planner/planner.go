package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/leadpilot/leadpilot-backend/internal/leadgen/types"
	"github.com/leadpilot/leadpilot-backend/internal/places/provider"
	"go.uber.org/zap"
)

// Plan is the set of search calls the fetcher will execute
type Plan struct {
	Queries    []string
	Bias       *types.GeoBias
	PlaceTypes []string
}

// typeMapping maps a keyword substring to provider place-type tokens.
// Entries are checked in order; the first match wins.
type typeMapping struct {
	substring  string
	placeTypes []string
}

var typeMappings = []typeMapping{
	{"restaurant", []string{"restaurant"}},
	{"plumb", []string{"plumber"}},
	{"dentist", []string{"dentist"}},
	{"dental", []string{"dentist"}},
	{"gym", []string{"gym", "fitness_center"}},
	{"fitness", []string{"gym", "fitness_center"}},
	{"salon", []string{"hair_salon", "beauty_salon"}},
	{"barber", []string{"barber_shop"}},
	{"lawyer", []string{"lawyer"}},
	{"attorney", []string{"lawyer"}},
	{"electrician", []string{"electrician"}},
	{"roof", []string{"roofing_contractor"}},
	{"landscap", []string{"landscaping_service"}},
	{"auto", []string{"car_repair"}},
	{"mechanic", []string{"car_repair"}},
	{"cafe", []string{"cafe", "coffee_shop"}},
	{"coffee", []string{"cafe", "coffee_shop"}},
	{"bakery", []string{"bakery"}},
	{"cleaning", []string{"house_cleaning_service"}},
	{"maid", []string{"house_cleaning_service"}},
	{"hvac", []string{"hvac_contractor"}},
	{"pest", []string{"pest_control_service"}},
}

// defaultPlaceTypes is used when no mapping entry matches the keyword
var defaultPlaceTypes = []string{"establishment"}

// PlaceTypesFor maps a category keyword to provider place-type tokens
func PlaceTypesFor(keyword string) []string {
	lower := strings.ToLower(keyword)
	for _, m := range typeMappings {
		if strings.Contains(lower, m.substring) {
			return m.placeTypes
		}
	}
	return defaultPlaceTypes
}

// QueriesFor returns the query strings for a search. Basic mode yields
// exactly one query; comprehensive mode yields four variants that surface
// different subsets of the same result pool.
func QueriesFor(q types.SearchQuery) []string {
	if !q.Comprehensive {
		return []string{fmt.Sprintf("%s in %s", q.Keyword, q.City)}
	}
	return []string{
		fmt.Sprintf("%s in %s", q.Keyword, q.City),
		fmt.Sprintf("%s near %s", q.Keyword, q.City),
		fmt.Sprintf("best %s %s", q.Keyword, q.City),
		fmt.Sprintf("local %s %s", q.Keyword, q.City),
	}
}

// Planner turns a search query into a fetch plan
type Planner struct {
	provider provider.Provider
	logger   *zap.Logger
}

func New(p provider.Provider, logger *zap.Logger) *Planner {
	return &Planner{provider: p, logger: logger}
}

// Plan builds the query list and, in comprehensive mode, attempts one
// geocoding call to resolve the city to a bias point. Geocoding failure
// is non-fatal and yields a plan with no bias.
func (p *Planner) Plan(ctx context.Context, q types.SearchQuery) *Plan {
	plan := &Plan{
		Queries:    QueriesFor(q),
		PlaceTypes: PlaceTypesFor(q.Keyword),
	}

	if !q.Comprehensive {
		return plan
	}

	loc, err := p.provider.Geocode(ctx, q.City)
	if err != nil {
		p.logger.Warn("geocoding failed, searching without location bias",
			zap.String("city", q.City),
			zap.Error(err))
		return plan
	}

	plan.Bias = &types.GeoBias{Latitude: loc.Latitude, Longitude: loc.Longitude}
	return plan
}
