package queries

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/andrescamacho/amalgam-go/internal/application/game/dtos"
	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
	"github.com/andrescamacho/amalgam-go/internal/domain/session"
)

// GetSessionQuery returns a full snapshot of one session
type GetSessionQuery struct {
	SessionID string
}

type GetSessionResponse struct {
	Snapshot  *dtos.SnapshotDTO
	CreatedAt time.Time
}

// GetSessionHandler handles the GetSession query
type GetSessionHandler struct {
	sessions session.Repository
}

func NewGetSessionHandler(sessions session.Repository) *GetSessionHandler {
	return &GetSessionHandler{sessions: sessions}
}

// Handle executes the GetSession query
func (h *GetSessionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetSessionQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetSessionQuery")
	}

	s, err := findSession(ctx, h.sessions, query.SessionID)
	if err != nil {
		return nil, err
	}

	return &GetSessionResponse{
		Snapshot:  dtos.NewSnapshot(s.ID().String(), s.Seed(), s.State(), s.Engine()),
		CreatedAt: s.CreatedAt(),
	}, nil
}

// ListSessionsQuery lists live sessions, newest first
type ListSessionsQuery struct{}

// SessionSummaryDTO is one line of a session listing
type SessionSummaryDTO struct {
	SessionID string
	CreatedAt time.Time
	TurnCount int
	Territory int
}

type ListSessionsResponse struct {
	Sessions []SessionSummaryDTO
}

// ListSessionsHandler handles the ListSessions query
type ListSessionsHandler struct {
	sessions session.Repository
}

func NewListSessionsHandler(sessions session.Repository) *ListSessionsHandler {
	return &ListSessionsHandler{sessions: sessions}
}

// Handle executes the ListSessions query
func (h *ListSessionsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListSessionsQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListSessionsQuery")
	}

	all, err := h.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summaries := make([]SessionSummaryDTO, 0, len(all))
	for _, s := range all {
		state := s.State()
		summaries = append(summaries, SessionSummaryDTO{
			SessionID: s.ID().String(),
			CreatedAt: s.CreatedAt(),
			TurnCount: state.TurnCount,
			Territory: state.Grid.OwnedCount(),
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	return &ListSessionsResponse{Sessions: summaries}, nil
}
