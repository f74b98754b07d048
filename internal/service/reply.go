package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"core/internal/model"
)

// localeStrings holds the reply phrasing for one language. Placeholders and
// the no-match message are static lookup data, not translation calls.
type localeStrings struct {
	noMatches       string
	header          string // takes the match count
	roomsUnit       string // takes the room count
	areaUnit        string // takes the area
	locationUnknown string
	metroDistance   string // takes the distance in meters
	metroUnknown    string
	refine          string
}

var locales = map[string]localeStrings{
	"en": {
		noMatches:       "I couldn't find any apartments matching your request. Try relaxing the budget, the number of rooms or the location.",
		header:          "I found %d matching apartment(s):",
		roomsUnit:       "%d room(s)",
		areaUnit:        "%s m²",
		locationUnknown: "location not specified",
		metroDistance:   "%d m to the metro",
		metroUnknown:    "metro distance unknown",
		refine:          "Tell me your budget or the number of rooms and I'll narrow the search.",
	},
	"ru": {
		noMatches:       "Не нашлось квартир по вашему запросу. Попробуйте смягчить бюджет, число комнат или район.",
		header:          "Нашлось подходящих квартир: %d",
		roomsUnit:       "комнат: %d",
		areaUnit:        "%s м²",
		locationUnknown: "расположение не указано",
		metroDistance:   "%d м до метро",
		metroUnknown:    "расстояние до метро неизвестно",
		refine:          "Назовите бюджет или число комнат, и я уточню поиск.",
	},
	"uz": {
		noMatches:       "So'rovingizga mos kvartira topilmadi. Byudjet, xonalar soni yoki manzilni yumshatib ko'ring.",
		header:          "Mos kvartiralar topildi: %d",
		roomsUnit:       "%d xona",
		areaUnit:        "%s m²",
		locationUnknown: "manzil ko'rsatilmagan",
		metroDistance:   "metrogacha %d m",
		metroUnknown:    "metrogacha masofa noma'lum",
		refine:          "Byudjet yoki xonalar sonini ayting, qidiruvni aniqlashtiraman.",
	},
}

// localeFor matches on the primary language subtag and falls back to English.
func localeFor(language string) localeStrings {
	tag := strings.ToLower(strings.TrimSpace(language))
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	if l, ok := locales[tag]; ok {
		return l
	}
	return locales["en"]
}

// ComposeReply renders the localized natural-language summary of the ranked
// matches plus the machine-usable filter patch.
func ComposeReply(ranked []RankedApartment, intent model.SearchIntent, language string, totalChecked int) *model.ChatResponse {
	loc := localeFor(language)

	resp := &model.ChatResponse{
		Matches:                make([]model.CandidateView, 0, len(ranked)),
		AppliedFilters:         BuildAppliedFilters(intent),
		Source:                 model.SourceDatabaseOnly,
		TotalCandidatesChecked: totalChecked,
	}

	if len(ranked) == 0 {
		resp.Reply = loc.noMatches
		return resp
	}

	var b strings.Builder
	fmt.Fprintf(&b, loc.header, len(ranked))
	b.WriteString("\n")

	for _, ra := range ranked {
		view := buildCandidateView(ra)
		resp.Matches = append(resp.Matches, view)
		b.WriteString("\n")
		b.WriteString(formatMatchLine(view, intent, loc))
	}

	b.WriteString("\n\n")
	b.WriteString(loc.refine)

	resp.Reply = b.String()
	return resp
}

// buildCandidateView projects a ranked apartment into the caller-facing shape.
func buildCandidateView(ra RankedApartment) model.CandidateView {
	apt := ra.Apartment

	view := model.CandidateView{
		ID:                  apt.ID,
		Title:               deref(apt.Title),
		Price:               apt.Price,
		Rooms:               apt.Rooms,
		Area:                apt.Area,
		Floor:               apt.Floor,
		Status:              apt.Status,
		CoverImage:          deref(apt.CoverImage),
		ComplexName:         deref(apt.ComplexName),
		City:                deref(apt.City),
		MetroDistanceMeters: apt.NearbyPlaces.NearestMetroDistance(),
		Score:               ra.Score,
		URL:                 fmt.Sprintf("/apartments/%d", apt.ID),
	}

	view.LocationText = deref(apt.Address)
	if view.LocationText == "" {
		view.LocationText = view.City
	}
	return view
}

// formatMatchLine renders one result line: title, price, rooms, area,
// location and the metro note when relevant.
func formatMatchLine(view model.CandidateView, intent model.SearchIntent, loc localeStrings) string {
	parts := []string{}

	title := view.Title
	if title == "" {
		title = view.ComplexName
	}
	parts = append(parts, "• "+title)

	if view.Price != nil {
		parts = append(parts, formatPrice(*view.Price))
	}
	if view.Rooms != nil {
		parts = append(parts, fmt.Sprintf(loc.roomsUnit, *view.Rooms))
	}
	if view.Area != nil {
		parts = append(parts, fmt.Sprintf(loc.areaUnit, trimFloat(*view.Area)))
	}

	location := view.LocationText
	if location == "" {
		location = loc.locationUnknown
	}
	parts = append(parts, location)

	if view.MetroDistanceMeters != nil {
		parts = append(parts, fmt.Sprintf(loc.metroDistance, *view.MetroDistanceMeters))
	} else if intent.NearMetro {
		parts = append(parts, loc.metroUnknown)
	}

	return strings.Join(parts, " — ")
}

// BuildAppliedFilters flattens the intent into a string map the client can
// reapply as explicit UI filters. The search term prefers free text, then the
// metro signal, then the nearby keyword.
func BuildAppliedFilters(intent model.SearchIntent) map[string]string {
	filters := map[string]string{}

	putFloat := func(key string, v *float64) {
		if v != nil {
			filters[key] = strconv.FormatFloat(math.Round(*v), 'f', -1, 64)
		}
	}
	putInt := func(key string, v *int) {
		if v != nil {
			filters[key] = strconv.Itoa(*v)
		}
	}

	putFloat("minPrice", intent.MinPrice)
	putFloat("maxPrice", intent.MaxPrice)
	putInt("minRooms", intent.MinRooms)
	putInt("maxRooms", intent.MaxRooms)
	putFloat("minArea", intent.MinArea)
	putFloat("maxArea", intent.MaxArea)

	if intent.City != nil {
		filters["city"] = *intent.City
	}
	if intent.ComplexName != nil {
		filters["complexName"] = *intent.ComplexName
	}
	if intent.Status != "" {
		filters["status"] = intent.Status
	}

	switch {
	case intent.FreeText != "":
		filters["search"] = intent.FreeText
	case intent.NearMetro:
		filters["search"] = "metro"
	case intent.NearbyKeyword != "":
		filters["search"] = intent.NearbyKeyword
	}

	return filters
}

// formatPrice groups digits in threes ("48 500 000"); prices are whole
// currency units.
func formatPrice(price float64) string {
	s := strconv.FormatFloat(math.Round(price), 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
