package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leadpilot/leadpilot-backend/internal/places/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.Handler) (*GoogleProvider, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewGoogleProvider(&types.ProviderConfig{
		Name:           "google",
		APIHost:        srv.URL,
		GeocodeAPIHost: srv.URL,
		APIKey:         "test-key",
		MaxRetries:     1,
	})
	require.NoError(t, err)
	return p, srv
}

func TestTextSearch(t *testing.T) {
	var gotPath, gotKey, gotMask string
	var gotBody map[string]interface{}

	p, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Goog-Api-Key")
		gotMask = r.Header.Get("X-Goog-FieldMask")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"places": []map[string]interface{}{
				{
					"id":                       "place_1",
					"displayName":              map[string]string{"text": "Ace Plumbing"},
					"formattedAddress":         "100 Main St, Austin, TX",
					"internationalPhoneNumber": "+1 512-555-0100",
					"websiteUri":               "https://aceplumbing.example",
					"rating":                   4.7,
					"userRatingCount":          210,
					"googleMapsUri":            "https://maps.google.com/?cid=1",
					"types":                    []string{"plumber"},
				},
			},
		})
	}))

	records, err := p.TextSearch(context.Background(), "plumbers in Austin", 20, &types.BiasCircle{
		Center:       types.LatLng{Latitude: 30.27, Longitude: -97.74},
		RadiusMeters: 50000,
	})

	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "/v1/places:searchText", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, gotMask, "places.websiteUri")
	assert.Equal(t, "plumbers in Austin", gotBody["textQuery"])
	assert.NotNil(t, gotBody["locationBias"])

	r := records[0]
	assert.Equal(t, "place_1", r.ID)
	assert.Equal(t, "Ace Plumbing", r.DisplayName)
	assert.Equal(t, "100 Main St, Austin, TX", r.Address)
	assert.Equal(t, "https://aceplumbing.example", r.WebsiteURI)
	require.NotNil(t, r.Rating)
	assert.InDelta(t, 4.7, *r.Rating, 0.001)
	assert.Equal(t, 210, r.ReviewCount)
}

func TestTextSearchEmptyQuery(t *testing.T) {
	p, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	_, err := p.TextSearch(context.Background(), "", 20, nil)

	assert.ErrorIs(t, err, types.ErrEmptyQuery)
}

func TestTextSearchHTTPError(t *testing.T) {
	p, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"denied"}`, http.StatusForbidden)
	}))

	_, err := p.TextSearch(context.Background(), "plumbers in Austin", 20, nil)

	require.Error(t, err)
	var provErr *types.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "HTTP_403", provErr.Code)
}

func TestNearbySearch(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	p, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"places": []map[string]interface{}{
				{"id": "place_2", "displayName": map[string]string{"text": "Nearby Biz"}},
			},
		})
	}))

	records, err := p.NearbySearch(context.Background(), []string{"plumber"}, types.BiasCircle{
		Center:       types.LatLng{Latitude: 30.27, Longitude: -97.74},
		RadiusMeters: 25000,
	}, 20)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "/v1/places:searchNearby", gotPath)
	assert.Equal(t, []interface{}{"plumber"}, gotBody["includedTypes"])
	assert.NotNil(t, gotBody["locationRestriction"])
}

func TestGeocode(t *testing.T) {
	p, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		assert.Equal(t, "Austin", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "OK",
			"results": []map[string]interface{}{
				{"geometry": map[string]interface{}{
					"location": map[string]float64{"lat": 30.2672, "lng": -97.7431},
				}},
			},
		})
	}))

	loc, err := p.Geocode(context.Background(), "Austin")

	require.NoError(t, err)
	assert.InDelta(t, 30.2672, loc.Latitude, 0.0001)
	assert.InDelta(t, -97.7431, loc.Longitude, 0.0001)
}

func TestGeocodeZeroResults(t *testing.T) {
	p, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "ZERO_RESULTS",
			"results": []interface{}{},
		})
	}))

	_, err := p.Geocode(context.Background(), "Nowhereville")

	assert.ErrorIs(t, err, types.ErrNoResults)
}

func TestAutocomplete(t *testing.T) {
	p, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/places:autocomplete", r.URL.Path)

		_, _ = w.Write([]byte(`{
			"suggestions": [
				{
					"placePrediction": {
						"placeId": "ChIJAustin",
						"text": {"text": "Austin, TX, USA"},
						"structuredFormat": {
							"mainText": {"text": "Austin"},
							"secondaryText": {"text": "TX, USA"}
						}
					}
				},
				{"queryPrediction": {"text": {"text": "austin plumbers"}}}
			]
		}`))
	}))

	suggestions, err := p.Autocomplete(context.Background(), "aus")

	require.NoError(t, err)
	// Query predictions without a place are skipped
	require.Len(t, suggestions, 1)
	assert.Equal(t, "ChIJAustin", suggestions[0].PlaceID)
	assert.Equal(t, "Austin, TX, USA", suggestions[0].Description)
	assert.Equal(t, "Austin", suggestions[0].MainText)
	assert.Equal(t, "TX, USA", suggestions[0].SecondaryText)
}

func TestIsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		apiKey   string
		expected bool
	}{
		{"empty key", "", false},
		{"placeholder key", "YOUR_API_KEY_HERE", false},
		{"real key", "AIzaReal", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewGoogleProvider(&types.ProviderConfig{
				Name:    "google",
				APIHost: "https://places.googleapis.com",
				APIKey:  tt.apiKey,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.IsConfigured())
		})
	}
}
