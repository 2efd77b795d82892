package merger

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/google/uuid"
	"github.com/leadpilot/leadpilot-backend/internal/leadgen/types"
	placestypes "github.com/leadpilot/leadpilot-backend/internal/places/types"
)

// Merge deduplicates the raw-record pool by provider id, maps each
// surviving record into a Lead and sorts the result by quality.
//
// Dedup is first-occurrence-wins; records with no provider id are never
// deduplicated against each other and receive a synthetic id during
// mapping. Category and city on every Lead are the original inputs, not
// whatever the provider echoed back.
func Merge(pool []*placestypes.PlaceRecord, keyword, city string) []types.Lead {
	seen := make(map[string]struct{}, len(pool))
	leads := make([]types.Lead, 0, len(pool))

	for _, record := range pool {
		if record.ID != "" {
			if _, dup := seen[record.ID]; dup {
				continue
			}
			seen[record.ID] = struct{}{}
		}
		leads = append(leads, mapRecord(record, keyword, city))
	}

	sortLeads(leads)
	return leads
}

func mapRecord(record *placestypes.PlaceRecord, keyword, city string) types.Lead {
	id := record.ID
	if id == "" {
		id = "lead_" + uuid.New().String()
	}

	name := record.DisplayName
	if name == "" {
		name = types.PlaceholderBusinessName
	}

	address := record.Address
	if address == "" {
		address = types.PlaceholderAddress
	}

	phone := record.Phone
	if phone == "" {
		phone = types.PlaceholderPhone
	}

	mapsURL := record.GoogleMapsURI
	if mapsURL == "" {
		mapsURL = SynthesizeMapsURL(keyword, city)
	}

	hasWebsite := record.WebsiteURI != ""

	lead := types.Lead{
		ID:            id,
		BusinessName:  name,
		Address:       address,
		Phone:         phone,
		Category:      keyword,
		City:          city,
		HasWebsite:    hasWebsite,
		GoogleMapsURL: mapsURL,
		Rating:        record.Rating,
		Reviews:       record.ReviewCount,
	}
	if hasWebsite {
		lead.WebsiteURL = record.WebsiteURI
	}

	return lead
}

// sortLeads orders by rating descending, then review count descending.
// Missing ratings sort as zero so unrated listings sink to the bottom.
func sortLeads(leads []types.Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		ri, rj := ratingOf(leads[i]), ratingOf(leads[j])
		if ri != rj {
			return ri > rj
		}
		return leads[i].Reviews > leads[j].Reviews
	})
}

func ratingOf(l types.Lead) float64 {
	if l.Rating == nil {
		return 0
	}
	return *l.Rating
}

// SynthesizeMapsURL builds a maps deep link when the provider omits one
func SynthesizeMapsURL(keyword, city string) string {
	return fmt.Sprintf("https://maps.google.com/?q=%s",
		url.QueryEscape(keyword+" "+city))
}
