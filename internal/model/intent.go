package model

// SearchIntent is the canonical, normalized representation of what the user is
// searching for. Every field is optional; an absent field means "no
// constraint". After normalization every populated range pair satisfies
// min <= max.
type SearchIntent struct {
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	MinRooms *int     `json:"min_rooms,omitempty"`
	MaxRooms *int     `json:"max_rooms,omitempty"`
	MinArea  *float64 `json:"min_area,omitempty"`
	MaxArea  *float64 `json:"max_area,omitempty"`

	City        *string `json:"city,omitempty"`
	ComplexName *string `json:"complex_name,omitempty"`

	NearMetro     bool   `json:"near_metro,omitempty"`
	NearbyKeyword string `json:"nearby_keyword,omitempty"`

	// Status is "active", "sold" or empty; empty defaults to active-only
	// retrieval.
	Status string `json:"status,omitempty"`

	// FreeText is the residual natural-language query used for substring
	// relevance scoring.
	FreeText string `json:"free_text,omitempty"`
}

// Apartment statuses accepted in a SearchIntent.
const (
	StatusActive = "active"
	StatusSold   = "sold"
)
