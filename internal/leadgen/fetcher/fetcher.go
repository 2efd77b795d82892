package fetcher

import (
	"context"
	"time"

	"github.com/leadpilot/leadpilot-backend/internal/leadgen/planner"
	"github.com/leadpilot/leadpilot-backend/internal/places/provider"
	placestypes "github.com/leadpilot/leadpilot-backend/internal/places/types"
	"go.uber.org/zap"
)

const (
	// DefaultQueryDelay spaces successive text-search calls to stay under
	// provider rate limits in comprehensive mode
	DefaultQueryDelay = 300 * time.Millisecond

	// DefaultMaxResults is the per-call page size cap
	DefaultMaxResults = 20

	// Bias radii: text searches use a wide circle around the city
	// centroid, the extra nearby search a tighter one
	textSearchBiasRadiusMeters   = 50_000
	nearbySearchBiasRadiusMeters = 25_000
)

// Fetcher executes a fetch plan against the place-search provider,
// tolerating individual call failures. Calls run strictly one at a time.
type Fetcher struct {
	provider   provider.Provider
	queryDelay time.Duration
	maxResults int
	logger     *zap.Logger
}

func New(p provider.Provider, queryDelay time.Duration, maxResults int, logger *zap.Logger) *Fetcher {
	if queryDelay < 0 {
		queryDelay = DefaultQueryDelay
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Fetcher{
		provider:   p,
		queryDelay: queryDelay,
		maxResults: maxResults,
		logger:     logger,
	}
}

// Fetch runs every planned query and returns the combined raw-record
// pool. A failing call contributes zero records and never aborts the
// remaining calls; the pool may be empty.
func (f *Fetcher) Fetch(ctx context.Context, plan *planner.Plan) []*placestypes.PlaceRecord {
	var pool []*placestypes.PlaceRecord

	var bias *placestypes.BiasCircle
	if plan.Bias != nil {
		bias = &placestypes.BiasCircle{
			Center: placestypes.LatLng{
				Latitude:  plan.Bias.Latitude,
				Longitude: plan.Bias.Longitude,
			},
			RadiusMeters: textSearchBiasRadiusMeters,
		}
	}

	comprehensive := len(plan.Queries) > 1

	for i, query := range plan.Queries {
		if i > 0 && comprehensive && f.queryDelay > 0 {
			select {
			case <-time.After(f.queryDelay):
			case <-ctx.Done():
				return pool
			}
		}

		records, err := f.provider.TextSearch(ctx, query, f.maxResults, bias)
		if err != nil {
			f.logger.Warn("text search failed, continuing with remaining queries",
				zap.String("query", query),
				zap.Error(err))
			continue
		}

		f.logger.Debug("text search completed",
			zap.String("query", query),
			zap.Int("records", len(records)))
		pool = append(pool, records...)
	}

	// One extra proximity search when the city resolved to coordinates
	if comprehensive && plan.Bias != nil {
		circle := placestypes.BiasCircle{
			Center: placestypes.LatLng{
				Latitude:  plan.Bias.Latitude,
				Longitude: plan.Bias.Longitude,
			},
			RadiusMeters: nearbySearchBiasRadiusMeters,
		}

		records, err := f.provider.NearbySearch(ctx, plan.PlaceTypes, circle, f.maxResults)
		if err != nil {
			f.logger.Warn("nearby search failed",
				zap.Strings("place_types", plan.PlaceTypes),
				zap.Error(err))
		} else {
			f.logger.Debug("nearby search completed", zap.Int("records", len(records)))
			pool = append(pool, records...)
		}
	}

	return pool
}
