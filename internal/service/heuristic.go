package service

import (
	"regexp"
	"strconv"
	"strings"

	"core/internal/model"
)

// Localized extraction patterns. Russian and English price bounds are phrased
// as prefixes ("до 50 тысяч", "up to 50 thousand"), Uzbek as suffixes
// ("50 ming gacha"). The pattern set is intentionally narrow; it is the
// guaranteed floor the AI resolver builds on, not full NL coverage.
var (
	roomsPattern = regexp.MustCompile(`(\d+)\s*[-–]?\s*(комнатн\w*|комнат\w*|xonali|xona|rooms?|bedrooms?)`)

	maxPricePrefixPattern = regexp.MustCompile(`(?:до|up to|under|below|не дороже)\s+(\d+(?:[.,]\d+)?)\s*([a-zа-яё']*)`)
	maxPriceSuffixPattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*([a-zа-яё']*)\s*gacha`)

	minPricePrefixPattern = regexp.MustCompile(`(?:от|from)\s+(\d+(?:[.,]\d+)?)\s*([a-zа-яё']*)`)
	minPriceSuffixPattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*([a-zа-яё']*)\s*dan\s+boshlab`)

	areaPattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:кв\.?\s*м|м2|м²|квадрат\w*|kv\.?\s*m|kvadrat|sq\.?\s*m|sqm|square\s+met(?:er|re)s?)`)
)

// ParseHeuristicIntent extracts a SearchIntent from the latest message and up
// to the last 3 prior user turns. It is deterministic, pure and never fails;
// fields it cannot extract are simply left unset. The result is fully
// normalized.
func ParseHeuristicIntent(message string, history []model.ChatTurn) model.SearchIntent {
	text := strings.ToLower(combineUserText(message, history))

	intent := model.SearchIntent{
		FreeText: strings.TrimSpace(message),
	}

	if m := roomsPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			rooms := n
			intent.MinRooms = &rooms
			intent.MaxRooms = &rooms
		}
	}

	if m := maxPricePrefixPattern.FindStringSubmatch(text); m != nil {
		intent.MaxPrice = parseAmount(m[1], m[2])
	} else if m := maxPriceSuffixPattern.FindStringSubmatch(text); m != nil {
		intent.MaxPrice = parseAmount(m[1], m[2])
	}

	if m := minPricePrefixPattern.FindStringSubmatch(text); m != nil {
		intent.MinPrice = parseAmount(m[1], m[2])
	} else if m := minPriceSuffixPattern.FindStringSubmatch(text); m != nil {
		intent.MinPrice = parseAmount(m[1], m[2])
	}

	if m := areaPattern.FindStringSubmatch(text); m != nil {
		intent.MinArea = parseAmount(m[1], "")
	}

	intent.NearbyKeyword = matchNearbyCategory(text)
	intent.NearMetro = containsMetroWord(text)

	return NormalizeIntent(intent)
}

// combineUserText joins the latest message with up to the last 3 prior user
// turns so that constraints mentioned earlier in the conversation still apply.
func combineUserText(message string, history []model.ChatTurn) string {
	parts := []string{message}
	taken := 0
	for i := len(history) - 1; i >= 0 && taken < 3; i-- {
		if history[i].Role != "user" {
			continue
		}
		if t := strings.TrimSpace(history[i].Content); t != "" {
			parts = append(parts, t)
			taken++
		}
	}
	return strings.Join(parts, " ")
}

// parseAmount converts a numeric token plus an optional magnitude word
// ("thousand", "ming", "млн", ...) to a plain number. A token that does not
// survive cleanup yields nil; the field stays unset rather than carrying a
// string.
func parseAmount(numToken, magToken string) *float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(numToken), ",", ".")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value < 0 {
		return nil
	}

	if mult, ok := magnitudeWords[strings.TrimSpace(magToken)]; ok {
		value *= mult
	}
	return &value
}
