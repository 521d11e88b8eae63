package queries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
	"github.com/andrescamacho/amalgam-go/internal/domain/game"
	"github.com/andrescamacho/amalgam-go/internal/domain/ledger"
	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

// GetTurnHistoryQuery represents a query to retrieve a session's turn ledger
type GetTurnHistoryQuery struct {
	SessionID   string
	StartDate   *time.Time
	EndDate     *time.Time
	Direction   *string
	CraftedOnly bool
	Limit       int
	Offset      int
	OrderBy     string
}

// GetTurnHistoryResponse represents the result of the query
type GetTurnHistoryResponse struct {
	Turns []*TurnRecordDTO
	Total int
}

// TurnRecordDTO represents a turn record data transfer object
type TurnRecordDTO struct {
	ID           string         `json:"id"`
	SessionID    string         `json:"session_id"`
	TurnNumber   int            `json:"turn_number"`
	Direction    string         `json:"direction"`
	Timestamp    time.Time      `json:"timestamp"`
	CellsClaimed int            `json:"cells_claimed"`
	Territory    int            `json:"territory"`
	Mined        map[string]int `json:"mined,omitempty"`
	Crafted      map[string]int `json:"crafted,omitempty"`
}

// GetTurnHistoryHandler handles the GetTurnHistory query
type GetTurnHistoryHandler struct {
	turnRepo ledger.TurnRecordRepository
}

// NewGetTurnHistoryHandler creates a new GetTurnHistoryHandler
func NewGetTurnHistoryHandler(turnRepo ledger.TurnRecordRepository) *GetTurnHistoryHandler {
	return &GetTurnHistoryHandler{turnRepo: turnRepo}
}

// Handle executes the GetTurnHistory query
func (h *GetTurnHistoryHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetTurnHistoryQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetTurnHistoryQuery")
	}

	sessionID, err := shared.ParseSessionID(query.SessionID)
	if err != nil {
		return nil, err
	}

	opts, err := h.buildQueryOptions(query)
	if err != nil {
		return nil, err
	}

	records, err := h.turnRepo.FindBySession(ctx, sessionID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query turn records: %w", err)
	}

	total, err := h.turnRepo.CountBySession(ctx, sessionID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to count turn records: %w", err)
	}

	dtos := make([]*TurnRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = ToTurnRecordDTO(rec)
	}

	return &GetTurnHistoryResponse{
		Turns: dtos,
		Total: total,
	}, nil
}

func (h *GetTurnHistoryHandler) buildQueryOptions(query *GetTurnHistoryQuery) (ledger.QueryOptions, error) {
	opts := ledger.DefaultQueryOptions()

	opts.StartDate = query.StartDate
	opts.EndDate = query.EndDate

	if query.Direction != nil {
		dir, ok := game.ParseDirection(*query.Direction)
		if !ok {
			return opts, shared.NewValidationError("direction", fmt.Sprintf("unknown direction %q", *query.Direction))
		}
		d := dir.String()
		opts.Direction = &d
	}
	opts.CraftedOnly = query.CraftedOnly

	if query.Limit > 0 {
		opts.Limit = query.Limit
	}
	if query.Offset < 0 {
		return opts, shared.NewValidationError("offset", "must not be negative")
	}
	opts.Offset = query.Offset

	if query.OrderBy != "" {
		switch strings.ToUpper(query.OrderBy) {
		case "TURN_NUMBER ASC", "ASC":
			opts.OrderBy = "turn_number ASC"
		case "TURN_NUMBER DESC", "DESC":
			opts.OrderBy = "turn_number DESC"
		default:
			return opts, shared.NewValidationError("order_by", fmt.Sprintf("unsupported ordering %q", query.OrderBy))
		}
	}

	return opts, nil
}

// ToTurnRecordDTO converts a domain record for transport
func ToTurnRecordDTO(rec *ledger.TurnRecord) *TurnRecordDTO {
	return &TurnRecordDTO{
		ID:           rec.ID().String(),
		SessionID:    rec.SessionID().String(),
		TurnNumber:   rec.TurnNumber(),
		Direction:    rec.Direction(),
		Timestamp:    rec.Timestamp(),
		CellsClaimed: rec.CellsClaimed(),
		Territory:    rec.Territory(),
		Mined:        rec.Mined(),
		Crafted:      rec.Crafted(),
	}
}
