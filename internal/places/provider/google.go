package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/leadpilot/leadpilot-backend/internal/places/types"
	"github.com/tidwall/gjson"
)

// Field mask for the Places API (New); fields not listed are never returned.
const placeFieldMask = "places.id,places.displayName,places.formattedAddress," +
	"places.internationalPhoneNumber,places.websiteUri,places.rating," +
	"places.userRatingCount,places.googleMapsUri,places.types"

// GoogleProvider implements the Google Places API (New) and Geocoding API
type GoogleProvider struct {
	*BaseProvider
}

// NewGoogleProvider creates a new Google places provider
func NewGoogleProvider(config *types.ProviderConfig) (*GoogleProvider, error) {
	base := NewBaseProvider(config)
	return &GoogleProvider{BaseProvider: base}, nil
}

type googleCircle struct {
	Center types.LatLng `json:"center"`
	Radius float64      `json:"radius"`
}

type googleLocationBias struct {
	Circle googleCircle `json:"circle"`
}

type googleTextSearchRequest struct {
	TextQuery      string              `json:"textQuery"`
	MaxResultCount int                 `json:"maxResultCount,omitempty"`
	LanguageCode   string              `json:"languageCode,omitempty"`
	LocationBias   *googleLocationBias `json:"locationBias,omitempty"`
}

type googleNearbySearchRequest struct {
	IncludedTypes       []string           `json:"includedTypes"`
	MaxResultCount      int                `json:"maxResultCount,omitempty"`
	LanguageCode        string             `json:"languageCode,omitempty"`
	LocationRestriction googleLocationBias `json:"locationRestriction"`
}

type googlePlace struct {
	ID          string `json:"id"`
	DisplayName *struct {
		Text string `json:"text"`
	} `json:"displayName,omitempty"`
	FormattedAddress         string   `json:"formattedAddress,omitempty"`
	InternationalPhoneNumber string   `json:"internationalPhoneNumber,omitempty"`
	WebsiteURI               string   `json:"websiteUri,omitempty"`
	Rating                   *float64 `json:"rating,omitempty"`
	UserRatingCount          int      `json:"userRatingCount,omitempty"`
	GoogleMapsURI            string   `json:"googleMapsUri,omitempty"`
	Types                    []string `json:"types,omitempty"`
}

type googlePlacesResponse struct {
	Places []googlePlace `json:"places"`
}

// TextSearch executes a free-text search against places:searchText
func (p *GoogleProvider) TextSearch(ctx context.Context, query string, maxResults int, bias *types.BiasCircle) ([]*types.PlaceRecord, error) {
	if query == "" {
		return nil, types.ErrEmptyQuery
	}

	req := googleTextSearchRequest{
		TextQuery:      query,
		MaxResultCount: maxResults,
		LanguageCode:   "en",
	}
	if req.MaxResultCount == 0 {
		req.MaxResultCount = 20
	}
	if bias != nil {
		req.LocationBias = &googleLocationBias{
			Circle: googleCircle{Center: bias.Center, Radius: bias.RadiusMeters},
		}
	}

	apiURL := fmt.Sprintf("%s/v1/places:searchText", p.config.APIHost)
	return p.doPlacesCall(ctx, apiURL, req)
}

// NearbySearch searches by place types against places:searchNearby
func (p *GoogleProvider) NearbySearch(ctx context.Context, placeTypes []string, circle types.BiasCircle, maxResults int) ([]*types.PlaceRecord, error) {
	req := googleNearbySearchRequest{
		IncludedTypes:  placeTypes,
		MaxResultCount: maxResults,
		LanguageCode:   "en",
		LocationRestriction: googleLocationBias{
			Circle: googleCircle{Center: circle.Center, Radius: circle.RadiusMeters},
		},
	}
	if req.MaxResultCount == 0 {
		req.MaxResultCount = 20
	}

	apiURL := fmt.Sprintf("%s/v1/places:searchNearby", p.config.APIHost)
	return p.doPlacesCall(ctx, apiURL, req)
}

// doPlacesCall posts a request body to a Places API endpoint and maps the
// response into normalized records
func (p *GoogleProvider) doPlacesCall(ctx context.Context, apiURL string, body interface{}) ([]*types.PlaceRecord, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range p.BuildDefaultHeaders() {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("X-Goog-Api-Key", p.config.APIKey)
	httpReq.Header.Set("X-Goog-FieldMask", placeFieldMask)

	resp, err := p.DoRequest(ctx, httpReq)
	if err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetName(),
			Code:     "REQUEST_FAILED",
			Message:  "Failed to execute request",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &types.ProviderError{
			Provider: p.GetName(),
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  string(respBody),
		}
	}

	var placesResp googlePlacesResponse
	if err := json.NewDecoder(resp.Body).Decode(&placesResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	records := make([]*types.PlaceRecord, len(placesResp.Places))
	for i, place := range placesResp.Places {
		name := ""
		if place.DisplayName != nil {
			name = place.DisplayName.Text
		}
		records[i] = &types.PlaceRecord{
			ID:            place.ID,
			DisplayName:   name,
			Address:       place.FormattedAddress,
			Phone:         place.InternationalPhoneNumber,
			WebsiteURI:    place.WebsiteURI,
			GoogleMapsURI: place.GoogleMapsURI,
			Rating:        place.Rating,
			ReviewCount:   place.UserRatingCount,
			Types:         place.Types,
		}
	}

	return records, nil
}

type googleGeocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves a free-text place name to its best-guess coordinates
func (p *GoogleProvider) Geocode(ctx context.Context, address string) (*types.LatLng, error) {
	if address == "" {
		return nil, types.ErrEmptyQuery
	}

	host := p.config.GeocodeAPIHost
	if host == "" {
		host = p.config.APIHost
	}

	apiURL := fmt.Sprintf("%s/maps/api/geocode/json?address=%s&key=%s",
		host, url.QueryEscape(address), url.QueryEscape(p.config.APIKey))

	httpReq, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.DoRequest(ctx, httpReq)
	if err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetName(),
			Code:     "REQUEST_FAILED",
			Message:  "Failed to execute request",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &types.ProviderError{
			Provider: p.GetName(),
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  string(respBody),
		}
	}

	var geoResp googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&geoResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if geoResp.Status != "OK" || len(geoResp.Results) == 0 {
		return nil, types.ErrNoResults
	}

	loc := geoResp.Results[0].Geometry.Location
	return &types.LatLng{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}

type googleAutocompleteRequest struct {
	Input                string   `json:"input"`
	IncludedPrimaryTypes []string `json:"includedPrimaryTypes,omitempty"`
	LanguageCode         string   `json:"languageCode,omitempty"`
}

// Autocomplete returns city-level suggestions from places:autocomplete
func (p *GoogleProvider) Autocomplete(ctx context.Context, input string) ([]*types.CitySuggestion, error) {
	req := googleAutocompleteRequest{
		Input: input,
		IncludedPrimaryTypes: []string{
			"locality", "sublocality", "postal_code", "administrative_area_level_3",
		},
		LanguageCode: "en",
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/v1/places:autocomplete", p.config.APIHost)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range p.BuildDefaultHeaders() {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("X-Goog-Api-Key", p.config.APIKey)

	resp, err := p.DoRequest(ctx, httpReq)
	if err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetName(),
			Code:     "REQUEST_FAILED",
			Message:  "Failed to execute request",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &types.ProviderError{
			Provider: p.GetName(),
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  string(respBody),
		}
	}

	// The prediction payload nests display text several levels deep;
	// gjson keeps the extraction readable.
	var suggestions []*types.CitySuggestion
	for _, s := range gjson.GetBytes(respBody, "suggestions").Array() {
		pred := s.Get("placePrediction")
		if !pred.Exists() {
			continue
		}
		suggestions = append(suggestions, &types.CitySuggestion{
			PlaceID:       pred.Get("placeId").String(),
			Description:   pred.Get("text.text").String(),
			MainText:      pred.Get("structuredFormat.mainText.text").String(),
			SecondaryText: pred.Get("structuredFormat.secondaryText.text").String(),
		})
	}

	return suggestions, nil
}
