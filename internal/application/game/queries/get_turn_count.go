package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
	"github.com/andrescamacho/amalgam-go/internal/domain/session"
)

// GetTurnCountQuery returns how many turns have claimed territory
type GetTurnCountQuery struct {
	SessionID string
}

type GetTurnCountResponse struct {
	TurnCount int
}

// GetTurnCountHandler handles the GetTurnCount query
type GetTurnCountHandler struct {
	sessions session.Repository
}

func NewGetTurnCountHandler(sessions session.Repository) *GetTurnCountHandler {
	return &GetTurnCountHandler{sessions: sessions}
}

// Handle executes the GetTurnCount query
func (h *GetTurnCountHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetTurnCountQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetTurnCountQuery")
	}

	s, err := findSession(ctx, h.sessions, query.SessionID)
	if err != nil {
		return nil, err
	}

	return &GetTurnCountResponse{TurnCount: s.TurnCount()}, nil
}
