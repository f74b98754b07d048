package service

import (
	"testing"

	"core/internal/model"
)

func TestParseHeuristicIntent(t *testing.T) {
	tests := []struct {
		name    string
		message string
		history []model.ChatTurn
		check   func(t *testing.T, intent model.SearchIntent)
	}{
		{
			name:    "English rooms metro and upper price",
			message: "2 room apartment near metro up to 50 thousand",
			check: func(t *testing.T, intent model.SearchIntent) {
				if intent.MinRooms == nil || *intent.MinRooms != 2 {
					t.Errorf("MinRooms = %v, want 2", intent.MinRooms)
				}
				if intent.MaxRooms == nil || *intent.MaxRooms != 2 {
					t.Errorf("MaxRooms = %v, want 2", intent.MaxRooms)
				}
				if !intent.NearMetro {
					t.Error("NearMetro = false, want true")
				}
				if intent.MaxPrice == nil || *intent.MaxPrice != 50000 {
					t.Errorf("MaxPrice = %v, want 50000", intent.MaxPrice)
				}
			},
		},
		{
			name:    "Russian query with price bound and school",
			message: "3 комнатная квартира до 80 тысяч рядом школа",
			check: func(t *testing.T, intent model.SearchIntent) {
				if intent.MinRooms == nil || *intent.MinRooms != 3 {
					t.Errorf("MinRooms = %v, want 3", intent.MinRooms)
				}
				if intent.MaxPrice == nil || *intent.MaxPrice != 80000 {
					t.Errorf("MaxPrice = %v, want 80000", intent.MaxPrice)
				}
				if intent.NearbyKeyword != "school" {
					t.Errorf("NearbyKeyword = %q, want %q", intent.NearbyKeyword, "school")
				}
			},
		},
		{
			name:    "Uzbek suffix price bound",
			message: "2 xonali kvartira 60 ming gacha",
			check: func(t *testing.T, intent model.SearchIntent) {
				if intent.MinRooms == nil || *intent.MinRooms != 2 {
					t.Errorf("MinRooms = %v, want 2", intent.MinRooms)
				}
				if intent.MaxPrice == nil || *intent.MaxPrice != 60000 {
					t.Errorf("MaxPrice = %v, want 60000", intent.MaxPrice)
				}
			},
		},
		{
			name:    "lower price bound with million magnitude",
			message: "apartment from 1.2 million",
			check: func(t *testing.T, intent model.SearchIntent) {
				if intent.MinPrice == nil || *intent.MinPrice != 1200000 {
					t.Errorf("MinPrice = %v, want 1200000", intent.MinPrice)
				}
			},
		},
		{
			name:    "area in square meters",
			message: "квартира 65 кв м",
			check: func(t *testing.T, intent model.SearchIntent) {
				if intent.MinArea == nil || *intent.MinArea != 65 {
					t.Errorf("MinArea = %v, want 65", intent.MinArea)
				}
			},
		},
		{
			name:    "constraint carried from earlier user turn",
			message: "what about near a park",
			history: []model.ChatTurn{
				{Role: "user", Content: "3 room apartment up to 90 thousand"},
				{Role: "assistant", Content: "Here are some options"},
			},
			check: func(t *testing.T, intent model.SearchIntent) {
				if intent.MinRooms == nil || *intent.MinRooms != 3 {
					t.Errorf("MinRooms = %v, want 3 (from history)", intent.MinRooms)
				}
				if intent.MaxPrice == nil || *intent.MaxPrice != 90000 {
					t.Errorf("MaxPrice = %v, want 90000 (from history)", intent.MaxPrice)
				}
				if intent.NearbyKeyword != "park" {
					t.Errorf("NearbyKeyword = %q, want %q", intent.NearbyKeyword, "park")
				}
			},
		},
		{
			name:    "assistant turns are ignored",
			message: "show me something",
			history: []model.ChatTurn{
				{Role: "assistant", Content: "2 room apartment up to 40 thousand"},
			},
			check: func(t *testing.T, intent model.SearchIntent) {
				if intent.MinRooms != nil {
					t.Errorf("MinRooms = %v, want nil", intent.MinRooms)
				}
				if intent.MaxPrice != nil {
					t.Errorf("MaxPrice = %v, want nil", intent.MaxPrice)
				}
			},
		},
		{
			name:    "empty message yields empty intent",
			message: "",
			check: func(t *testing.T, intent model.SearchIntent) {
				if intent.MinRooms != nil || intent.MaxPrice != nil || intent.NearMetro {
					t.Errorf("expected empty intent, got %+v", intent)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := ParseHeuristicIntent(tt.message, tt.history)
			tt.check(t, intent)
		})
	}
}

func TestParseHeuristicIntentIsDeterministic(t *testing.T) {
	message := "2 комнатная до 50 тысяч возле метро"

	first := ParseHeuristicIntent(message, nil)
	second := ParseHeuristicIntent(message, nil)

	if first.NearMetro != second.NearMetro {
		t.Error("NearMetro differs between runs")
	}
	if (first.MaxPrice == nil) != (second.MaxPrice == nil) {
		t.Fatal("MaxPrice presence differs between runs")
	}
	if first.MaxPrice != nil && *first.MaxPrice != *second.MaxPrice {
		t.Errorf("MaxPrice differs: %v vs %v", *first.MaxPrice, *second.MaxPrice)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		num  string
		mag  string
		want *float64
	}{
		{"plain number", "50000", "", float64Ptr(50000)},
		{"thousand magnitude", "50", "thousand", float64Ptr(50000)},
		{"russian thousand", "80", "тысяч", float64Ptr(80000)},
		{"uzbek thousand", "60", "ming", float64Ptr(60000)},
		{"million with decimal comma", "1,2", "million", float64Ptr(1200000)},
		{"unknown trailing word keeps value", "700", "sum", float64Ptr(700)},
		{"garbage number dropped", "abc", "thousand", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseAmount(tt.num, tt.mag)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("parseAmount(%q, %q) = %v, want %v", tt.num, tt.mag, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("parseAmount(%q, %q) = %v, want %v", tt.num, tt.mag, *got, *tt.want)
			}
		})
	}
}

// Helper functions
func float64Ptr(v float64) *float64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}
