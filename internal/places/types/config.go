package types

// ProviderConfig represents place-search provider configuration
type ProviderConfig struct {
	Name string `json:"name" yaml:"name"`

	// API settings
	APIHost        string `json:"api_host" yaml:"api_host"`
	GeocodeAPIHost string `json:"geocode_api_host" yaml:"geocode_api_host"`
	APIKey         string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Optional settings
	Timeout    int `json:"timeout,omitempty" yaml:"timeout,omitempty"`         // seconds
	MaxRetries int `json:"max_retries,omitempty" yaml:"max_retries,omitempty"` // default: 3
}

// Validate validates the provider configuration
func (c *ProviderConfig) Validate() error {
	if c.Name == "" {
		return ErrInvalidProviderName
	}
	if c.APIHost == "" {
		return ErrInvalidAPIHost
	}
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// IsConfigured reports whether credentials are present. An unconfigured
// provider must not be called; callers degrade to simulation instead.
func (c *ProviderConfig) IsConfigured() bool {
	return c != nil && c.APIKey != "" && c.APIKey != "YOUR_API_KEY_HERE"
}
