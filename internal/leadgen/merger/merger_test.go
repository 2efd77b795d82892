package merger

import (
	"testing"

	placestypes "github.com/leadpilot/leadpilot-backend/internal/places/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratingPtr(v float64) *float64 { return &v }

func TestMergeDeduplicatesByID(t *testing.T) {
	pool := []*placestypes.PlaceRecord{
		{ID: "place_123", DisplayName: "First Occurrence"},
		{ID: "place_456", DisplayName: "Other"},
		{ID: "place_123", DisplayName: "Duplicate"},
	}

	leads := Merge(pool, "plumbers", "Austin")

	require.Len(t, leads, 2)
	names := []string{leads[0].BusinessName, leads[1].BusinessName}
	assert.Contains(t, names, "First Occurrence")
	assert.Contains(t, names, "Other")
	assert.NotContains(t, names, "Duplicate")
}

func TestMergeKeepsRecordsWithoutID(t *testing.T) {
	pool := []*placestypes.PlaceRecord{
		{DisplayName: "No ID One"},
		{DisplayName: "No ID Two"},
	}

	leads := Merge(pool, "plumbers", "Austin")

	require.Len(t, leads, 2)
	assert.NotEmpty(t, leads[0].ID)
	assert.NotEmpty(t, leads[1].ID)
	assert.NotEqual(t, leads[0].ID, leads[1].ID)
}

func TestMergeSortsByRatingThenReviews(t *testing.T) {
	pool := []*placestypes.PlaceRecord{
		{ID: "a", DisplayName: "Low", Rating: ratingPtr(3.5), ReviewCount: 500},
		{ID: "b", DisplayName: "Unrated", ReviewCount: 1000},
		{ID: "c", DisplayName: "Top Few Reviews", Rating: ratingPtr(4.8), ReviewCount: 12},
		{ID: "d", DisplayName: "Top Many Reviews", Rating: ratingPtr(4.8), ReviewCount: 88},
	}

	leads := Merge(pool, "plumbers", "Austin")

	require.Len(t, leads, 4)
	assert.Equal(t, "Top Many Reviews", leads[0].BusinessName)
	assert.Equal(t, "Top Few Reviews", leads[1].BusinessName)
	assert.Equal(t, "Low", leads[2].BusinessName)
	assert.Equal(t, "Unrated", leads[3].BusinessName)
}

func TestMergeAppliesPlaceholders(t *testing.T) {
	pool := []*placestypes.PlaceRecord{{ID: "a"}}

	leads := Merge(pool, "plumbers", "Austin")

	require.Len(t, leads, 1)
	assert.Equal(t, "Unknown Business", leads[0].BusinessName)
	assert.Equal(t, "Address not available", leads[0].Address)
	assert.Equal(t, "Phone not available", leads[0].Phone)
	assert.Equal(t, "https://maps.google.com/?q=plumbers+Austin", leads[0].GoogleMapsURL)
}

func TestMergeForcesCategoryAndCity(t *testing.T) {
	pool := []*placestypes.PlaceRecord{
		{ID: "a", DisplayName: "Biz", Types: []string{"restaurant"}},
	}

	leads := Merge(pool, "plumbers", "Austin")

	require.Len(t, leads, 1)
	assert.Equal(t, "plumbers", leads[0].Category)
	assert.Equal(t, "Austin", leads[0].City)
}

func TestMergeWebsiteFlag(t *testing.T) {
	pool := []*placestypes.PlaceRecord{
		{ID: "a", DisplayName: "With Site", WebsiteURI: "https://example.com"},
		{ID: "b", DisplayName: "No Site"},
	}

	leads := Merge(pool, "plumbers", "Austin")

	require.Len(t, leads, 2)
	for _, lead := range leads {
		if lead.BusinessName == "With Site" {
			assert.True(t, lead.HasWebsite)
			assert.Equal(t, "https://example.com", lead.WebsiteURL)
		} else {
			assert.False(t, lead.HasWebsite)
			assert.Empty(t, lead.WebsiteURL)
		}
	}
}

func TestSynthesizeMapsURL(t *testing.T) {
	assert.Equal(t,
		"https://maps.google.com/?q=coffee+shops+New+York",
		SynthesizeMapsURL("coffee shops", "New York"))
}
