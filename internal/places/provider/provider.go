package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/leadpilot/leadpilot-backend/internal/places/types"
)

// Provider defines the interface for place-search providers
type Provider interface {
	// TextSearch executes a free-text place search
	TextSearch(ctx context.Context, query string, maxResults int, bias *types.BiasCircle) ([]*types.PlaceRecord, error)

	// NearbySearch searches by place types around a center point
	NearbySearch(ctx context.Context, placeTypes []string, circle types.BiasCircle, maxResults int) ([]*types.PlaceRecord, error)

	// Geocode resolves a free-text place name to coordinates
	Geocode(ctx context.Context, address string) (*types.LatLng, error)

	// Autocomplete returns city suggestions for a partial input
	Autocomplete(ctx context.Context, input string) ([]*types.CitySuggestion, error)

	// GetName returns the provider name
	GetName() string

	// IsConfigured reports whether credentials are present
	IsConfigured() bool
}

// BaseProvider provides common functionality for all providers
type BaseProvider struct {
	config     *types.ProviderConfig
	httpClient *http.Client
}

// NewBaseProvider creates a new base provider
func NewBaseProvider(config *types.ProviderConfig) *BaseProvider {
	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &BaseProvider{
		config:     config,
		httpClient: httpClient,
	}
}

// GetName returns the provider name
func (b *BaseProvider) GetName() string {
	return b.config.Name
}

// GetConfig returns the provider configuration
func (b *BaseProvider) GetConfig() *types.ProviderConfig {
	return b.config
}

// IsConfigured reports whether credentials are present
func (b *BaseProvider) IsConfigured() bool {
	return b.config.IsConfigured()
}

// BuildDefaultHeaders builds default HTTP headers
func (b *BaseProvider) BuildDefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"User-Agent":   "LeadPilot-Backend/1.0",
	}
}

// DoRequest executes an HTTP request with retry logic
func (b *BaseProvider) DoRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	maxRetries := b.config.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		resp, err := b.httpClient.Do(req.WithContext(ctx))
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if ctx.Err() != nil {
			break
		}

		// Exponential backoff
		if i < maxRetries-1 {
			backoff := time.Duration(1<<uint(i)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}
