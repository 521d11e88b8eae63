package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/amalgam-go/internal/adapters/metrics"
	"github.com/andrescamacho/amalgam-go/internal/application/common"
	"github.com/andrescamacho/amalgam-go/internal/application/game/dtos"
	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
	"github.com/andrescamacho/amalgam-go/internal/domain/catalog"
	"github.com/andrescamacho/amalgam-go/internal/domain/session"
	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

// StartGameCommand creates a new session. Zero fields fall back to the handler defaults.
type StartGameCommand struct {
	GridSize       int     `validate:"omitempty,min=1,max=200"`
	ResourceChance float64 `validate:"omitempty,min=0,max=1"`
	MiningCap      int     `validate:"omitempty,min=1,max=1000"`
	Seed           uint64
}

// StartGameResponse carries the new session's id and initial snapshot
type StartGameResponse struct {
	SessionID string
	Snapshot  *dtos.SnapshotDTO
}

// StartGameHandler handles the StartGame command
type StartGameHandler struct {
	sessions session.Repository
	catalog  *catalog.Catalog
	defaults session.Settings
	clock    shared.Clock
	validate *validator.Validate
}

// NewStartGameHandler creates a new StartGameHandler
func NewStartGameHandler(
	sessions session.Repository,
	cat *catalog.Catalog,
	defaults session.Settings,
	clock shared.Clock,
) *StartGameHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if cat == nil {
		cat = catalog.Default()
	}

	return &StartGameHandler{
		sessions: sessions,
		catalog:  cat,
		defaults: defaults,
		clock:    clock,
		validate: validator.New(),
	}
}

// Handle executes the StartGame command
func (h *StartGameHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*StartGameCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *StartGameCommand")
	}

	if err := h.validate.Struct(cmd); err != nil {
		return nil, toValidationError(err)
	}

	settings := h.defaults
	if cmd.GridSize > 0 {
		settings.GridSize = cmd.GridSize
	}
	if cmd.ResourceChance > 0 {
		settings.ResourceChance = cmd.ResourceChance
	}
	if cmd.MiningCap > 0 {
		settings.MiningCap = cmd.MiningCap
	}
	if cmd.Seed != 0 {
		settings.Seed = cmd.Seed
	}

	s, err := session.Start(settings, h.catalog, h.clock)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	if err := h.sessions.Add(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	logger := common.LoggerFromContext(ctx)
	logger.Log("INFO", "Session started", map[string]interface{}{
		"session_id": s.ID().String(),
		"seed":       s.Seed(),
		"grid_size":  settings.GridSize,
	})

	metrics.RecordSessionStarted(settings.GridSize)
	if all, err := h.sessions.List(ctx); err == nil {
		metrics.SetActiveSessions(len(all))
	}

	return &StartGameResponse{
		SessionID: s.ID().String(),
		Snapshot:  dtos.NewSnapshot(s.ID().String(), s.Seed(), s.State(), s.Engine()),
	}, nil
}

// toValidationError reports the first failing field as a domain validation error
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return shared.NewValidationError(fe.Field(), fmt.Sprintf("failed '%s' (value: '%v')", fe.Tag(), fe.Value()))
	}
	return shared.NewValidationError("command", err.Error())
}
