package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Apartment represents a listing row retrieved for scoring, with the complex
// summary and first cover image joined in. The listing subsystem owns these
// rows; this service reads them only.
type Apartment struct {
	ID          int64    `json:"id" db:"id"`
	Title       *string  `json:"title,omitempty" db:"title"`
	Description *string  `json:"description,omitempty" db:"description"`
	Price       *float64 `json:"price,omitempty" db:"price"`
	Rooms       *int     `json:"rooms,omitempty" db:"rooms"`
	Area        *float64 `json:"area,omitempty" db:"area"`
	Floor       *int     `json:"floor,omitempty" db:"floor"`
	Status      string   `json:"status" db:"status"`
	CoverImage  *string  `json:"cover_image,omitempty" db:"cover_image"`

	ComplexName  *string      `json:"complex_name,omitempty" db:"complex_name"`
	City         *string      `json:"city,omitempty" db:"city"`
	Address      *string      `json:"address,omitempty" db:"address"`
	NearbyPlaces NearbyPlaces `json:"nearby_places,omitempty" db:"nearby_places"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NearbyPlace is a point of interest attached to a residential complex.
// DistanceM is nil when the distance is unknown; it is never negative.
type NearbyPlace struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Note      string `json:"note,omitempty"`
	DistanceM *int   `json:"distance_m,omitempty"`
}

// NearbyPlaces is a JSONB column of NearbyPlace entries. Complex metadata is
// operator-entered, so scanning is defensive: malformed payloads scan to an
// empty list instead of failing the whole query.
type NearbyPlaces []NearbyPlace

// Value implements driver.Valuer interface
func (n NearbyPlaces) Value() (driver.Value, error) {
	if n == nil {
		return nil, nil
	}
	return json.Marshal(n)
}

// Scan implements sql.Scanner interface
func (n *NearbyPlaces) Scan(value interface{}) error {
	if value == nil {
		*n = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*n = nil
		return nil
	}

	var places []NearbyPlace
	if err := json.Unmarshal(bytes, &places); err != nil {
		*n = nil
		return nil
	}

	// Drop negative distances rather than propagating bad data into scoring.
	for i := range places {
		if places[i].DistanceM != nil && *places[i].DistanceM < 0 {
			places[i].DistanceM = nil
		}
	}
	*n = places
	return nil
}

// NearestMetroDistance returns the smallest known distance to a metro-type
// place, or nil when no metro distance is recorded for the complex.
func (n NearbyPlaces) NearestMetroDistance() *int {
	var nearest *int
	for i := range n {
		p := n[i]
		if p.Type != "metro" || p.DistanceM == nil {
			continue
		}
		if nearest == nil || *p.DistanceM < *nearest {
			nearest = p.DistanceM
		}
	}
	return nearest
}
