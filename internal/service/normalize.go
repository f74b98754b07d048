package service

import (
	"strings"

	"core/internal/model"
)

// MergeIntents overlays the AI-resolved intent on top of the heuristic base.
// A field from the overlay wins only when it is defined and non-empty;
// otherwise the base value is kept. The merged intent is re-normalized, so the
// heuristic safety nets also apply to AI output.
func MergeIntents(base model.SearchIntent, overlay *model.SearchIntent) model.SearchIntent {
	merged := base
	if overlay != nil {
		if overlay.MinPrice != nil {
			merged.MinPrice = overlay.MinPrice
		}
		if overlay.MaxPrice != nil {
			merged.MaxPrice = overlay.MaxPrice
		}
		if overlay.MinRooms != nil {
			merged.MinRooms = overlay.MinRooms
		}
		if overlay.MaxRooms != nil {
			merged.MaxRooms = overlay.MaxRooms
		}
		if overlay.MinArea != nil {
			merged.MinArea = overlay.MinArea
		}
		if overlay.MaxArea != nil {
			merged.MaxArea = overlay.MaxArea
		}
		if overlay.City != nil && strings.TrimSpace(*overlay.City) != "" {
			merged.City = overlay.City
		}
		if overlay.ComplexName != nil && strings.TrimSpace(*overlay.ComplexName) != "" {
			merged.ComplexName = overlay.ComplexName
		}
		if overlay.NearMetro {
			merged.NearMetro = true
		}
		if overlay.NearbyKeyword != "" {
			merged.NearbyKeyword = overlay.NearbyKeyword
		}
		if overlay.Status != "" {
			merged.Status = overlay.Status
		}
		if strings.TrimSpace(overlay.FreeText) != "" {
			merged.FreeText = overlay.FreeText
		}
	}
	return NormalizeIntent(merged)
}

// NormalizeIntent brings a SearchIntent into canonical form: negative numbers
// are dropped, inverted min/max pairs are swapped, the status is restricted to
// "active"/"sold", the nearby keyword is mapped to its canonical category, and
// a metro mention in the free text forces NearMetro. Idempotent.
func NormalizeIntent(in model.SearchIntent) model.SearchIntent {
	out := in

	out.MinPrice = dropNegativeFloat(out.MinPrice)
	out.MaxPrice = dropNegativeFloat(out.MaxPrice)
	out.MinArea = dropNegativeFloat(out.MinArea)
	out.MaxArea = dropNegativeFloat(out.MaxArea)
	out.MinRooms = dropNonPositiveInt(out.MinRooms)
	out.MaxRooms = dropNonPositiveInt(out.MaxRooms)

	if out.MinPrice != nil && out.MaxPrice != nil && *out.MinPrice > *out.MaxPrice {
		out.MinPrice, out.MaxPrice = out.MaxPrice, out.MinPrice
	}
	if out.MinRooms != nil && out.MaxRooms != nil && *out.MinRooms > *out.MaxRooms {
		out.MinRooms, out.MaxRooms = out.MaxRooms, out.MinRooms
	}
	if out.MinArea != nil && out.MaxArea != nil && *out.MinArea > *out.MaxArea {
		out.MinArea, out.MaxArea = out.MaxArea, out.MinArea
	}

	out.City = trimOrDrop(out.City)
	out.ComplexName = trimOrDrop(out.ComplexName)

	out.NearbyKeyword = normalizeCategoryKeyword(out.NearbyKeyword)

	switch strings.ToLower(strings.TrimSpace(out.Status)) {
	case model.StatusActive:
		out.Status = model.StatusActive
	case model.StatusSold:
		out.Status = model.StatusSold
	default:
		out.Status = ""
	}

	out.FreeText = strings.TrimSpace(out.FreeText)

	// Safety net: the AI occasionally drops the metro signal even when the
	// user asked for it explicitly.
	if !out.NearMetro && containsMetroWord(strings.ToLower(out.FreeText)) {
		out.NearMetro = true
	}

	return out
}

func dropNegativeFloat(v *float64) *float64 {
	if v == nil || *v < 0 {
		return nil
	}
	return v
}

func dropNonPositiveInt(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}

func trimOrDrop(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
