package model

// ChatTurn is a single prior message in the conversation.
type ChatTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest represents an assistant search request from the chat UI.
type ChatRequest struct {
	Message  string     `json:"message" binding:"required"`
	History  []ChatTurn `json:"history,omitempty"`
	Language string     `json:"language,omitempty"`
	Limit    int        `json:"limit,omitempty"`
}

// CandidateView is the projection of a ranked apartment returned to callers.
type CandidateView struct {
	ID                  int64    `json:"id"`
	Title               string   `json:"title"`
	Price               *float64 `json:"price,omitempty"`
	Rooms               *int     `json:"rooms,omitempty"`
	Area                *float64 `json:"area,omitempty"`
	Floor               *int     `json:"floor,omitempty"`
	Status              string   `json:"status"`
	CoverImage          string   `json:"coverImage,omitempty"`
	ComplexName         string   `json:"complexName,omitempty"`
	City                string   `json:"city,omitempty"`
	LocationText        string   `json:"locationText,omitempty"`
	MetroDistanceMeters *int     `json:"metroDistanceMeters,omitempty"`
	Score               float64  `json:"score"`
	URL                 string   `json:"url,omitempty"`
}

// ChatResponse is the assistant's answer: a natural-language reply plus the
// ranked matches and a flat filter patch the client can reapply as UI filters.
type ChatResponse struct {
	Reply                  string            `json:"reply"`
	Matches                []CandidateView   `json:"matches"`
	AppliedFilters         map[string]string `json:"appliedFilters"`
	Source                 string            `json:"source"`
	TotalCandidatesChecked int               `json:"totalCandidatesChecked"`
}

// SourceDatabaseOnly marks replies composed purely from store data, without
// any generative text from the language model.
const SourceDatabaseOnly = "database_only"
