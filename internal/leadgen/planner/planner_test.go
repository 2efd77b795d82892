package planner

import (
	"testing"

	"github.com/leadpilot/leadpilot-backend/internal/leadgen/types"
	"github.com/stretchr/testify/assert"
)

func TestQueriesForBasic(t *testing.T) {
	queries := QueriesFor(types.SearchQuery{Keyword: "Plumbers", City: "Austin"})

	assert.Equal(t, []string{"Plumbers in Austin"}, queries)
}

func TestQueriesForComprehensive(t *testing.T) {
	queries := QueriesFor(types.SearchQuery{
		Keyword:       "Plumbers",
		City:          "Austin",
		Comprehensive: true,
	})

	assert.Equal(t, []string{
		"Plumbers in Austin",
		"Plumbers near Austin",
		"best Plumbers Austin",
		"local Plumbers Austin",
	}, queries)
}

func TestPlaceTypesFor(t *testing.T) {
	tests := []struct {
		name     string
		keyword  string
		expected []string
	}{
		{
			name:     "exact match",
			keyword:  "restaurant",
			expected: []string{"restaurant"},
		},
		{
			name:     "substring match",
			keyword:  "Emergency Plumbing Repair",
			expected: []string{"plumber"},
		},
		{
			name:     "case insensitive",
			keyword:  "DENTIST",
			expected: []string{"dentist"},
		},
		{
			name:     "multi-type mapping",
			keyword:  "gym",
			expected: []string{"gym", "fitness_center"},
		},
		{
			name:     "attorney maps to lawyer",
			keyword:  "tax attorney",
			expected: []string{"lawyer"},
		},
		{
			name:     "unknown keyword falls back",
			keyword:  "quantum flux capacitors",
			expected: []string{"establishment"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PlaceTypesFor(tt.keyword))
		})
	}
}
