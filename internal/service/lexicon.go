package service

import (
	"strings"
	"unicode"
)

// Multilingual lookup tables for the heuristic parser and scorer. All tables
// are initialized once and never mutated at runtime. Covered languages:
// English, Russian, Uzbek.

// magnitudeWords maps localized magnitude suffixes to their multiplier.
var magnitudeWords = map[string]float64{
	"thousand": 1_000,
	"k":        1_000,
	"тыс":      1_000,
	"тысяч":    1_000,
	"тысячи":   1_000,
	"ming":     1_000,
	"million":  1_000_000,
	"m":        1_000_000,
	"mln":      1_000_000,
	"млн":      1_000_000,
	"миллион":  1_000_000,
}

// metroWords are the synonyms that signal metro proximity.
var metroWords = []string{
	"metro",
	"subway",
	"metropoliten",
	"метро",
	"метрополитен",
}

// nearbyCategories maps a normalized category tag to its synonym set. The
// first category whose synonym appears in the text wins, in this order.
var nearbyCategoryOrder = []string{"school", "kindergarten", "hospital", "park", "mall"}

var nearbyCategories = map[string][]string{
	"school": {
		"school", "maktab", "школа", "школе", "школы",
	},
	"kindergarten": {
		"kindergarten", "bogcha", "bog'cha", "садик", "детский сад", "детсад",
	},
	"hospital": {
		"hospital", "clinic", "shifoxona", "kasalxona", "больница", "клиника", "поликлиника",
	},
	"park": {
		"park", "парк",
	},
	"mall": {
		"mall", "shopping center", "savdo markazi", "торговый центр", "трц",
	},
}

// stopWords are dropped during free-text tokenization.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "apartment": {}, "flat": {},
	"want": {}, "need": {}, "looking": {}, "find": {}, "near": {}, "room": {},
	"rooms": {}, "please": {}, "show": {},
	"квартира": {}, "квартиру": {}, "нужна": {}, "нужно": {}, "хочу": {},
	"найди": {}, "покажи": {}, "рядом": {}, "возле": {}, "комната": {},
	"комнаты": {}, "комнат": {},
	"kvartira": {}, "uy": {}, "kerak": {}, "yaqin": {}, "xona": {}, "toping": {},
}

// containsMetroWord reports whether the lower-cased text mentions the metro.
func containsMetroWord(text string) bool {
	for _, w := range metroWords {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// matchNearbyCategory returns the first nearby category whose synonym appears
// in the lower-cased text, or "" when none does.
func matchNearbyCategory(text string) string {
	for _, cat := range nearbyCategoryOrder {
		for _, syn := range nearbyCategories[cat] {
			if strings.Contains(text, syn) {
				return cat
			}
		}
	}
	return ""
}

// matchesCategory reports whether a place's text (name, type or note) matches
// the synonym set of the given category keyword.
func matchesCategory(keyword, placeText string) bool {
	syns, ok := nearbyCategories[keyword]
	if !ok {
		return strings.Contains(placeText, keyword)
	}
	if placeText == keyword {
		return true
	}
	for _, syn := range syns {
		if strings.Contains(placeText, syn) {
			return true
		}
	}
	return false
}

// normalizeCategoryKeyword maps a raw keyword (possibly a synonym in any
// language) to its canonical category tag, or "" when unrecognized.
func normalizeCategoryKeyword(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	if _, ok := nearbyCategories[raw]; ok {
		return raw
	}
	return matchNearbyCategory(raw)
}

// tokenizeFreeText splits text into lower-cased alphanumeric tokens, dropping
// tokens shorter than 3 characters and stop-words.
func tokenizeFreeText(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 3 {
			continue
		}
		if _, ok := stopWords[f]; ok {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
