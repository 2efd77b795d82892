package types

// Placeholder values used when the provider omits a display field.
// Leads never carry empty or null display strings.
const (
	PlaceholderBusinessName = "Unknown Business"
	PlaceholderAddress      = "Address not available"
	PlaceholderPhone        = "Phone not available"
)

// Lead is the normalized unit of output for a search. Leads are immutable
// value objects; persistence fields (notes, tags, status) live on SavedLead.
type Lead struct {
	ID            string   `json:"id"`
	BusinessName  string   `json:"business_name"`
	Address       string   `json:"address"`
	Phone         string   `json:"phone"`
	Category      string   `json:"category"`
	City          string   `json:"city"`
	HasWebsite    bool     `json:"has_website"`
	WebsiteURL    string   `json:"website_url,omitempty"`
	GoogleMapsURL string   `json:"google_maps_url"`
	Rating        *float64 `json:"rating,omitempty"`
	Reviews       int      `json:"reviews"`
}

// SearchQuery is the input to a lead search
type SearchQuery struct {
	Keyword       string `json:"keyword"`
	City          string `json:"city"`
	Comprehensive bool   `json:"comprehensive"`
}

// GeoBias is an optional hint attached to queries to prefer results near
// a resolved city centroid
type GeoBias struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
