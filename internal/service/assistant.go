package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"core/internal/model"
)

// ApartmentStore is the read-only slice of the listing subsystem this service
// consumes: filtered, recency-ordered candidate retrieval with the complex
// summary joined in.
type ApartmentStore interface {
	SearchCandidates(ctx context.Context, intent model.SearchIntent, fetchLimit int) ([]model.Apartment, error)
	GetApartmentByID(ctx context.Context, id int64) (*model.Apartment, error)
}

// IntentResolver is the optional AI path; a disabled resolver resolves to
// nothing without error.
type IntentResolver interface {
	Resolve(ctx context.Context, message string, history []model.ChatTurn, language string) (*model.SearchIntent, error)
}

// AssistantService runs the conversational search pipeline: heuristic parse,
// optional AI resolve, merge, retrieve, rank, compose. It holds no state
// across requests and is safe for concurrent use.
type AssistantService struct {
	store        ApartmentStore
	resolver     IntentResolver
	defaultLimit int
	maxLimit     int
}

// NewAssistantService creates the assistant pipeline service.
func NewAssistantService(store ApartmentStore, resolver IntentResolver, defaultLimit, maxLimit int) *AssistantService {
	return &AssistantService{
		store:        store,
		resolver:     resolver,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Chat answers one conversational search request. Resolver failures of any
// kind degrade silently to the heuristic intent; store failures propagate so
// the handler can distinguish "query failed" from "no matches".
func (s *AssistantService) Chat(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	limit := s.clampLimit(req.Limit)

	intent := ParseHeuristicIntent(req.Message, req.History)

	aiIntent, err := s.resolver.Resolve(ctx, req.Message, req.History, req.Language)
	if err != nil {
		var upstream *UpstreamResolverError
		switch {
		case errors.As(err, &upstream):
			log.Printf("Warning: intent resolver unavailable, using heuristic intent only: %v", err)
		case errors.Is(err, ErrInvalidResolverPayload):
			log.Printf("Warning: intent resolver returned an unusable payload, using heuristic intent only: %v", err)
		default:
			log.Printf("Warning: intent resolver error, using heuristic intent only: %v", err)
		}
		aiIntent = nil
	}

	intent = MergeIntents(intent, aiIntent)

	candidates, err := s.store.SearchCandidates(ctx, intent, fetchLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("candidate retrieval failed: %w", err)
	}

	ranked := RankCandidates(candidates, intent, limit)

	return ComposeReply(ranked, intent, req.Language, len(candidates)), nil
}

// GetApartment retrieves a single apartment with its complex summary.
func (s *AssistantService) GetApartment(ctx context.Context, id int64) (*model.Apartment, error) {
	return s.store.GetApartmentByID(ctx, id)
}

// clampLimit bounds the requested result count to [1, maxLimit], defaulting
// when unset.
func (s *AssistantService) clampLimit(requested int) int {
	if requested <= 0 {
		return s.defaultLimit
	}
	if requested > s.maxLimit {
		return s.maxLimit
	}
	return requested
}

// fetchLimit over-provisions retrieval because disqualification may reject
// most of the candidate set; fetching more up front beats re-querying.
func fetchLimit(limit int) int {
	n := limit * 30
	if n < 60 {
		n = 60
	}
	if n > 400 {
		n = 400
	}
	return n
}
