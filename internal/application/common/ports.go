package common

import (
	"context"

	"github.com/andrescamacho/amalgam-go/internal/application/game/dtos"
	"github.com/andrescamacho/amalgam-go/internal/domain/game"
	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

// TurnEvent is published after every turn that changed the board
type TurnEvent struct {
	SessionID shared.SessionID
	Outcome   game.TurnOutcome
	State     game.State
	Snapshot  *dtos.SnapshotDTO
}

// TurnPublisher fans resolved turns out to observers (websocket clients, UIs)
type TurnPublisher interface {
	PublishTurn(ctx context.Context, event TurnEvent)
}

// NoOpPublisher drops every event
type NoOpPublisher struct{}

func (NoOpPublisher) PublishTurn(ctx context.Context, event TurnEvent) {}
