package fallback

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCountBounds(t *testing.T) {
	g := New(0)

	for i := 0; i < 100; i++ {
		leads := g.Generate(context.Background(), "plumbers", "Austin")
		assert.GreaterOrEqual(t, len(leads), 5)
		assert.LessOrEqual(t, len(leads), 12)
	}
}

func TestGenerateLeadFields(t *testing.T) {
	g := New(0)

	leads := g.Generate(context.Background(), "plumbers", "Austin")
	require.NotEmpty(t, leads)

	for _, lead := range leads {
		assert.True(t, strings.HasPrefix(lead.ID, "lead_"))
		assert.True(t, strings.HasPrefix(lead.BusinessName, "plumbers "))
		assert.Contains(t, lead.Address, "Austin")
		assert.Equal(t, "plumbers", lead.Category)
		assert.Equal(t, "Austin", lead.City)
		assert.Contains(t, lead.Phone, ") 555-")
		assert.NotEmpty(t, lead.GoogleMapsURL)

		require.NotNil(t, lead.Rating)
		assert.GreaterOrEqual(t, *lead.Rating, 3.0)
		assert.Less(t, *lead.Rating, 5.0)

		assert.GreaterOrEqual(t, lead.Reviews, 0)
		assert.Less(t, lead.Reviews, 150)

		if lead.HasWebsite {
			assert.NotEmpty(t, lead.WebsiteURL)
		} else {
			assert.Empty(t, lead.WebsiteURL)
		}
	}
}

func TestGenerateWebsiteDistribution(t *testing.T) {
	g := New(0)

	total := 0
	withoutWebsite := 0
	for i := 0; i < 500; i++ {
		leads := g.Generate(context.Background(), "plumbers", "Austin")
		for _, lead := range leads {
			total++
			if !lead.HasWebsite {
				withoutWebsite++
			}
		}
	}

	// The no-website share targets 60%; allow generous slack for randomness
	ratio := float64(withoutWebsite) / float64(total)
	assert.Greater(t, ratio, 0.50)
	assert.Less(t, ratio, 0.70)
}

func TestGenerateRespectsCancelledContext(t *testing.T) {
	g := New(DefaultLatency)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context skips the simulated latency but still yields leads
	leads := g.Generate(ctx, "plumbers", "Austin")
	assert.GreaterOrEqual(t, len(leads), 5)
}
