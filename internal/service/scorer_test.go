package service

import (
	"testing"

	"core/internal/model"
)

func metroApartment(id int64, price float64, metroDistanceM int) model.Apartment {
	return model.Apartment{
		ID:     id,
		Title:  strPtr("Apartment"),
		Price:  &price,
		Status: model.StatusActive,
		NearbyPlaces: model.NearbyPlaces{
			{Name: "Novza", Type: "metro", DistanceM: intPtr(metroDistanceM)},
		},
	}
}

func TestRankCandidatesMetroDisqualification(t *testing.T) {
	noMetroData := model.Apartment{
		ID:     1,
		Price:  float64Ptr(30000),
		Status: model.StatusActive,
	}
	withMetro := metroApartment(2, 45000, 300)

	intent := model.SearchIntent{NearMetro: true}
	ranked := RankCandidates([]model.Apartment{noMetroData, withMetro}, intent, 5)

	if len(ranked) != 1 {
		t.Fatalf("got %d results, want 1", len(ranked))
	}
	if ranked[0].Apartment.ID != 2 {
		t.Errorf("got apartment %d, want 2 (unknown metro distance must disqualify)", ranked[0].Apartment.ID)
	}
}

func TestRankCandidatesCloserMetroScoresHigher(t *testing.T) {
	near := metroApartment(1, 50000, 200)
	far := metroApartment(2, 50000, 4000)

	ranked := RankCandidates([]model.Apartment{far, near}, model.SearchIntent{NearMetro: true}, 5)

	if len(ranked) != 2 {
		t.Fatalf("got %d results, want 2", len(ranked))
	}
	if ranked[0].Apartment.ID != 1 {
		t.Errorf("closest to metro should rank first, got apartment %d", ranked[0].Apartment.ID)
	}
}

func TestRankCandidatesNearbyKeyword(t *testing.T) {
	withSchools := model.Apartment{
		ID:     1,
		Price:  float64Ptr(60000),
		Status: model.StatusActive,
		NearbyPlaces: model.NearbyPlaces{
			{Name: "School №12", Type: "school"},
			{Name: "Maktab 45", Type: "school"},
		},
	}
	withoutSchools := model.Apartment{
		ID:     2,
		Price:  float64Ptr(20000),
		Status: model.StatusActive,
		NearbyPlaces: model.NearbyPlaces{
			{Name: "Central Park", Type: "park"},
		},
	}

	intent := model.SearchIntent{NearbyKeyword: "school"}
	ranked := RankCandidates([]model.Apartment{withSchools, withoutSchools}, intent, 5)

	if len(ranked) != 1 {
		t.Fatalf("got %d results, want 1 (no school nearby must disqualify)", len(ranked))
	}
	if ranked[0].Apartment.ID != 1 {
		t.Errorf("got apartment %d, want 1", ranked[0].Apartment.ID)
	}
	// Two matching places at 2000 each plus the price baseline.
	wantScore := 2*nearbyMatchBonus + (1_000_000.0-60000.0)/50_000.0
	if ranked[0].Score != wantScore {
		t.Errorf("Score = %v, want %v", ranked[0].Score, wantScore)
	}
}

func TestRankCandidatesCityAndComplexDisqualifiers(t *testing.T) {
	apt := model.Apartment{
		ID:          1,
		Price:       float64Ptr(40000),
		Status:      model.StatusActive,
		City:        strPtr("Tashkent"),
		ComplexName: strPtr("Sunrise Residence"),
	}

	tests := []struct {
		name   string
		intent model.SearchIntent
		kept   bool
	}{
		{"city substring match", model.SearchIntent{City: strPtr("tash")}, true},
		{"city mismatch", model.SearchIntent{City: strPtr("Samarkand")}, false},
		{"complex substring match", model.SearchIntent{ComplexName: strPtr("sunrise")}, true},
		{"complex mismatch", model.SearchIntent{ComplexName: strPtr("Skyline")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := RankCandidates([]model.Apartment{apt}, tt.intent, 5)
			if kept := len(ranked) == 1; kept != tt.kept {
				t.Errorf("kept = %v, want %v", kept, tt.kept)
			}
		})
	}
}

func TestRankCandidatesFreeText(t *testing.T) {
	renovated := model.Apartment{
		ID:          1,
		Title:       strPtr("Bright renovated apartment"),
		Description: strPtr("Fresh renovation, panoramic view"),
		Price:       float64Ptr(55000),
		Status:      model.StatusActive,
	}
	plain := model.Apartment{
		ID:     2,
		Title:  strPtr("Apartment in old building"),
		Price:  float64Ptr(25000),
		Status: model.StatusActive,
	}

	intent := model.SearchIntent{FreeText: "renovated view"}
	ranked := RankCandidates([]model.Apartment{renovated, plain}, intent, 5)

	// No structured signals: zero token matches disqualify.
	if len(ranked) != 1 {
		t.Fatalf("got %d results, want 1", len(ranked))
	}
	if ranked[0].Apartment.ID != 1 {
		t.Errorf("got apartment %d, want 1", ranked[0].Apartment.ID)
	}
}

func TestRankCandidatesFreeTextToleratedWithStructuredSignal(t *testing.T) {
	apt := metroApartment(1, 45000, 500)

	intent := model.SearchIntent{NearMetro: true, FreeText: "renovated"}
	ranked := RankCandidates([]model.Apartment{apt}, intent, 5)

	if len(ranked) != 1 {
		t.Fatalf("got %d results, want 1 (structured signal tolerates zero token matches)", len(ranked))
	}
}

func TestRankCandidatesTieBreakByPrice(t *testing.T) {
	// Prices above the baseline cutoff contribute nothing, and the metro
	// distances are equal, so both candidates score identically.
	expensive := metroApartment(1, 1_500_000, 500)
	cheaper := metroApartment(2, 1_200_000, 500)

	ranked := RankCandidates([]model.Apartment{expensive, cheaper}, model.SearchIntent{NearMetro: true}, 5)

	if len(ranked) != 2 {
		t.Fatalf("got %d results, want 2", len(ranked))
	}
	if ranked[0].Score != ranked[1].Score {
		t.Fatalf("scores differ (%v vs %v), tie-break not exercised", ranked[0].Score, ranked[1].Score)
	}
	if ranked[0].Apartment.ID != 2 {
		t.Errorf("equal scores must order by ascending price, got apartment %d first", ranked[0].Apartment.ID)
	}
}

func TestRankCandidatesTruncatesToLimit(t *testing.T) {
	var apartments []model.Apartment
	for i := 0; i < 8; i++ {
		apartments = append(apartments, model.Apartment{
			ID:     int64(i + 1),
			Price:  float64Ptr(float64(10000 * (i + 1))),
			Status: model.StatusActive,
		})
	}

	ranked := RankCandidates(apartments, model.SearchIntent{}, 3)

	if len(ranked) != 3 {
		t.Fatalf("got %d results, want 3", len(ranked))
	}
	// Baseline prefers cheaper apartments.
	if ranked[0].Apartment.ID != 1 {
		t.Errorf("cheapest should rank first, got apartment %d", ranked[0].Apartment.ID)
	}
}

func TestScoreSumType(t *testing.T) {
	s := DisqualifiedScore()
	if !s.IsDisqualified() {
		t.Error("DisqualifiedScore().IsDisqualified() = false")
	}
	s = s.Add(10000)
	if !s.IsDisqualified() {
		t.Error("Add on a disqualified score must stay disqualified")
	}
	if s.Value() != 0 {
		t.Errorf("disqualified Value() = %v, want 0", s.Value())
	}

	r := RankedScore(5).Add(2.5)
	if r.IsDisqualified() {
		t.Error("ranked score reported disqualified")
	}
	if r.Value() != 7.5 {
		t.Errorf("Value() = %v, want 7.5", r.Value())
	}
}
