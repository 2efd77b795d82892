package types

// LatLng is a WGS84 coordinate pair
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BiasCircle biases or restricts a search to an area around a center point
type BiasCircle struct {
	Center       LatLng  `json:"center"`
	RadiusMeters float64 `json:"radius_meters"`
}

// PlaceRecord is the normalized raw record returned by a provider before
// it is mapped into a Lead. Optional provider fields stay optional here;
// placeholder substitution happens during mapping, not in the provider.
type PlaceRecord struct {
	ID            string   `json:"id"`
	DisplayName   string   `json:"display_name"`
	Address       string   `json:"address"`
	Phone         string   `json:"phone"`
	WebsiteURI    string   `json:"website_uri"`
	GoogleMapsURI string   `json:"google_maps_uri"`
	Rating        *float64 `json:"rating,omitempty"`
	ReviewCount   int      `json:"review_count"`
	Types         []string `json:"types,omitempty"`
}

// CitySuggestion is a single autocomplete prediction
type CitySuggestion struct {
	PlaceID       string `json:"place_id"`
	Description   string `json:"description"`
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text"`
}
