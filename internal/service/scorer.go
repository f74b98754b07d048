package service

import (
	"sort"
	"strings"

	"core/internal/model"
)

// Scoring weights. Hard constraints disqualify outright; soft constraints add
// weighted bonuses on top.
const (
	metroScoreCap      = 10000.0
	nearbyMatchBonus   = 2000.0
	freeTextTokenBonus = 250.0
)

// Score is the outcome of scoring one candidate: either disqualified by a
// hard constraint, or ranked with an accumulated value. Once disqualified a
// score never becomes ranked again, so no arithmetic can resurrect a
// candidate by accident.
type Score struct {
	disqualified bool
	value        float64
}

// DisqualifiedScore excludes a candidate entirely.
func DisqualifiedScore() Score {
	return Score{disqualified: true}
}

// RankedScore starts an eligible candidate at the given value.
func RankedScore(v float64) Score {
	return Score{value: v}
}

// Add returns the score increased by v; adding to a disqualified score is a
// no-op.
func (s Score) Add(v float64) Score {
	if s.disqualified {
		return s
	}
	s.value += v
	return s
}

// IsDisqualified reports whether the candidate is excluded from results.
func (s Score) IsDisqualified() bool { return s.disqualified }

// Value returns the accumulated score; zero for disqualified scores.
func (s Score) Value() float64 {
	if s.disqualified {
		return 0
	}
	return s.value
}

// RankedApartment pairs a candidate with its final score.
type RankedApartment struct {
	Apartment model.Apartment
	Score     float64
}

// RankCandidates scores every candidate against the intent, drops the
// disqualified ones, orders by score descending with price ascending as the
// tie-break, and truncates to limit.
func RankCandidates(apartments []model.Apartment, intent model.SearchIntent, limit int) []RankedApartment {
	ranked := make([]RankedApartment, 0, len(apartments))
	for i := range apartments {
		score := scoreCandidate(&apartments[i], intent)
		if score.IsDisqualified() {
			continue
		}
		ranked = append(ranked, RankedApartment{Apartment: apartments[i], Score: score.Value()})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return priceForSort(ranked[i].Apartment.Price) < priceForSort(ranked[j].Apartment.Price)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func scoreCandidate(apt *model.Apartment, intent model.SearchIntent) Score {
	score := RankedScore(0)

	metroDistance := apt.NearbyPlaces.NearestMetroDistance()
	if intent.NearMetro {
		if metroDistance == nil {
			return DisqualifiedScore()
		}
		bonus := metroScoreCap - float64(*metroDistance)
		if bonus < 0 {
			bonus = 0
		}
		score = score.Add(bonus)
	}

	if intent.NearbyKeyword != "" {
		matches := countNearbyMatches(apt.NearbyPlaces, intent.NearbyKeyword)
		if matches == 0 {
			return DisqualifiedScore()
		}
		score = score.Add(nearbyMatchBonus * float64(matches))
	}

	if intent.City != nil {
		if !containsFold(deref(apt.City), *intent.City) {
			return DisqualifiedScore()
		}
	}

	if intent.ComplexName != nil {
		if !containsFold(deref(apt.ComplexName), *intent.ComplexName) {
			return DisqualifiedScore()
		}
	}

	if intent.FreeText != "" {
		tokens := tokenizeFreeText(intent.FreeText)
		if len(tokens) > 0 {
			matched := countTokenMatches(apt, tokens)
			if matched == 0 && !hasStructuredSignal(intent) {
				return DisqualifiedScore()
			}
			score = score.Add(freeTextTokenBonus * float64(matched))
		}
	}

	// Baseline desirability: a small bonus for cheaper apartments so that
	// otherwise-equal candidates order sensibly.
	if apt.Price != nil {
		base := (1_000_000 - *apt.Price) / 50_000
		if base > 0 {
			score = score.Add(base)
		}
	}

	return score
}

// hasStructuredSignal reports whether the intent carries any constraint
// beyond free text; when it does, a zero-token match is tolerated instead of
// disqualifying.
func hasStructuredSignal(intent model.SearchIntent) bool {
	return intent.NearMetro || intent.NearbyKeyword != "" ||
		intent.City != nil || intent.ComplexName != nil
}

func countNearbyMatches(places model.NearbyPlaces, keyword string) int {
	matches := 0
	for _, p := range places {
		text := strings.ToLower(p.Name + " " + p.Type + " " + p.Note)
		if matchesCategory(keyword, text) {
			matches++
		}
	}
	return matches
}

// countTokenMatches counts intent tokens present in a searchable blob built
// from the candidate's text fields and nearby-place metadata.
func countTokenMatches(apt *model.Apartment, tokens []string) int {
	var blob strings.Builder
	blob.WriteString(deref(apt.Title))
	blob.WriteString(" ")
	blob.WriteString(deref(apt.Description))
	blob.WriteString(" ")
	blob.WriteString(deref(apt.ComplexName))
	blob.WriteString(" ")
	blob.WriteString(deref(apt.Address))
	for _, p := range apt.NearbyPlaces {
		blob.WriteString(" ")
		blob.WriteString(p.Name)
		blob.WriteString(" ")
		blob.WriteString(p.Type)
		blob.WriteString(" ")
		blob.WriteString(p.Note)
	}
	haystack := strings.ToLower(blob.String())

	matched := 0
	for _, token := range tokens {
		if strings.Contains(haystack, token) {
			matched++
		}
	}
	return matched
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// priceForSort places candidates without a price after every priced one.
func priceForSort(p *float64) float64 {
	if p == nil {
		return 1e18
	}
	return *p
}
