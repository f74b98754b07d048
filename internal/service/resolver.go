package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"core/internal/config"
	"core/internal/model"
	"core/internal/utils"
)

// maxHistoryTurns is how much conversation context is forwarded to the model.
const maxHistoryTurns = 8

const resolverSystemPrompt = `You are an apartment-search intent extractor for a real-estate marketplace.
Read the user's latest message together with the conversation history and extract search filters.

Respond ONLY with a single JSON object with exactly these fields (use null for anything not mentioned):
{
  "minPrice": number or null,
  "maxPrice": number or null,
  "minRooms": integer or null,
  "maxRooms": integer or null,
  "minArea": number or null,
  "maxArea": number or null,
  "city": string or null,
  "complexName": string or null,
  "nearMetro": boolean or null,
  "nearbyKeyword": one of "school","kindergarten","hospital","park","mall" or null,
  "status": "active" or "sold" or null,
  "freeText": string or null
}

Rules:
- Prices are plain numbers in the local currency: "50 thousand" = 50000, "1.2 million" = 1200000.
- "N rooms" sets both minRooms and maxRooms to N unless a range is given.
- Messages may be in English, Russian or Uzbek.
- freeText is the residual descriptive part of the query (e.g. "bright", "renovated").
- Do not add any fields, comments or text outside the JSON object.`

// ResolverClient resolves a free-text message into a SearchIntent by calling
// an OpenAI-compatible chat-completions endpoint. One attempt per request,
// bounded by the configured timeout; without a credential it resolves to
// nothing at all (no network touched).
type ResolverClient struct {
	cfg        *config.OpenAIConfig
	httpClient *http.Client
}

// NewResolverClient creates a resolver over the configured completion endpoint.
func NewResolverClient(cfg *config.OpenAIConfig) *ResolverClient {
	return &ResolverClient{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
}

// IsEnabled returns whether a credential is configured.
func (c *ResolverClient) IsEnabled() bool {
	return c.cfg != nil && c.cfg.Enabled
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// Resolve sends the message plus trimmed history to the completion endpoint
// and maps the strict-JSON answer to a normalized SearchIntent. Returns
// (nil, nil) when no credential is configured. Failures are typed:
// *UpstreamResolverError for transport/status problems,
// ErrInvalidResolverPayload when the body cannot be coerced to JSON.
func (c *ResolverClient) Resolve(ctx context.Context, message string, history []model.ChatTurn, language string) (*model.SearchIntent, error) {
	if !c.IsEnabled() {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	req := chatCompletionRequest{
		Model:          c.cfg.Model,
		Messages:       buildResolverMessages(message, history, language),
		Temperature:    c.cfg.Temperature,
		MaxTokens:      c.cfg.MaxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(c.cfg.APIBase, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &UpstreamResolverError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamResolverError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamResolverError{StatusCode: resp.StatusCode}
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResolverPayload, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrInvalidResolverPayload)
	}

	var raw rawResolvedIntent
	content := completion.Choices[0].Message.Content
	if err := utils.ParseModelJSON(content, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResolverPayload, err)
	}

	intent := raw.toIntent()
	return &intent, nil
}

// buildResolverMessages assembles the prompt: system instruction, then the
// last maxHistoryTurns turns, then the latest message tagged with the language.
func buildResolverMessages(message string, history []model.ChatTurn, language string) []chatMessage {
	msgs := []chatMessage{{Role: "system", Content: resolverSystemPrompt}}

	start := 0
	if len(history) > maxHistoryTurns {
		start = len(history) - maxHistoryTurns
	}
	for _, turn := range history[start:] {
		role := turn.Role
		if role != "assistant" {
			role = "user"
		}
		msgs = append(msgs, chatMessage{Role: role, Content: turn.Content})
	}

	if language == "" {
		language = "en"
	}
	msgs = append(msgs, chatMessage{
		Role:    "user",
		Content: fmt.Sprintf("[language=%s] %s", language, message),
	})
	return msgs
}

// rawResolvedIntent is the untrusted intermediate shape of the model's answer.
// Every field is optional and numeric fields tolerate numbers arriving as
// strings; anything that does not clean up to a number is dropped.
type rawResolvedIntent struct {
	MinPrice      flexFloat `json:"minPrice"`
	MaxPrice      flexFloat `json:"maxPrice"`
	MinRooms      flexInt   `json:"minRooms"`
	MaxRooms      flexInt   `json:"maxRooms"`
	MinArea       flexFloat `json:"minArea"`
	MaxArea       flexFloat `json:"maxArea"`
	City          *string   `json:"city"`
	ComplexName   *string   `json:"complexName"`
	NearMetro     flexBool  `json:"nearMetro"`
	NearbyKeyword *string   `json:"nearbyKeyword"`
	Status        *string   `json:"status"`
	FreeText      *string   `json:"freeText"`
}

func (r rawResolvedIntent) toIntent() model.SearchIntent {
	intent := model.SearchIntent{
		MinPrice:    r.MinPrice.value,
		MaxPrice:    r.MaxPrice.value,
		MinRooms:    r.MinRooms.value,
		MaxRooms:    r.MaxRooms.value,
		MinArea:     r.MinArea.value,
		MaxArea:     r.MaxArea.value,
		City:        r.City,
		ComplexName: r.ComplexName,
		NearMetro:   r.NearMetro.value,
	}
	if r.NearbyKeyword != nil {
		intent.NearbyKeyword = *r.NearbyKeyword
	}
	if r.Status != nil {
		intent.Status = *r.Status
	}
	if r.FreeText != nil {
		intent.FreeText = *r.FreeText
	}
	return NormalizeIntent(intent)
}

// flexFloat accepts a JSON number or a numeric string; anything else leaves
// the value unset without failing the whole payload.
type flexFloat struct {
	value *float64
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	s = strings.NewReplacer(" ", "", ",", "").Replace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	f.value = &v
	return nil
}

// flexInt accepts a JSON integer, float or numeric string.
type flexInt struct {
	value *int
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var inner flexFloat
	if err := inner.UnmarshalJSON(b); err != nil || inner.value == nil {
		return nil
	}
	v := int(*inner.value)
	f.value = &v
	return nil
}

// flexBool accepts a JSON bool or "true"/"false" strings.
type flexBool struct {
	value bool
}

func (f *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	f.value = strings.EqualFold(s, "true")
	return nil
}
