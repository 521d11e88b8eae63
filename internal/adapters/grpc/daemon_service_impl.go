package grpc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/amalgam-go/internal/application/common"
	"github.com/andrescamacho/amalgam-go/internal/application/game/commands"
	"github.com/andrescamacho/amalgam-go/internal/application/game/queries"
	ledgerQueries "github.com/andrescamacho/amalgam-go/internal/application/ledger/queries"
	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
)

// Version is reported by HealthCheck
const Version = "0.1.0"

// daemonServiceImpl bridges gRPC requests to the mediator
type daemonServiceImpl struct {
	mediator  mediator.Mediator
	logger    common.GameLogger
	startedAt time.Time
}

func newDaemonServiceImpl(med mediator.Mediator, logger common.GameLogger) *daemonServiceImpl {
	return &daemonServiceImpl{
		mediator:  med,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// NewGameService creates the service implementation (exported for testing)
func NewGameService(med mediator.Mediator, logger common.GameLogger) GameServiceServer {
	return newDaemonServiceImpl(med, logger)
}

// send dispatches through the mediator with the daemon logger attached
func (s *daemonServiceImpl) send(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if s.logger != nil {
		ctx = common.WithLogger(ctx, s.logger)
	}
	resp, err := s.mediator.Send(ctx, request)
	if err != nil {
		return nil, toStatus(err)
	}
	return resp, nil
}

func (s *daemonServiceImpl) StartGame(ctx context.Context, req *StartGameRequest) (*StartGameResponse, error) {
	response, err := s.send(ctx, &commands.StartGameCommand{
		GridSize:       req.GridSize,
		ResourceChance: req.ResourceChance,
		MiningCap:      req.MiningCap,
		Seed:           req.Seed,
	})
	if err != nil {
		return nil, err
	}

	resp := response.(*commands.StartGameResponse)
	return &StartGameResponse{
		SessionID: resp.SessionID,
		Snapshot:  resp.Snapshot,
	}, nil
}

func (s *daemonServiceImpl) SubmitDirection(ctx context.Context, req *SubmitDirectionRequest) (*SubmitDirectionResponse, error) {
	response, err := s.send(ctx, &commands.SubmitDirectionCommand{
		SessionID: req.SessionID,
		Direction: req.Direction,
	})
	if err != nil {
		return nil, err
	}

	resp := response.(*commands.SubmitDirectionResponse)
	out := &SubmitDirectionResponse{
		Direction: resp.Direction,
		Changed:   resp.Changed,
		Mined:     resp.Mined,
		TurnCount: resp.TurnCount,
		Snapshot:  resp.Snapshot,
	}
	for _, p := range resp.CellsClaimed {
		out.CellsClaimed = append(out.CellsClaimed, PositionMessage{Row: p.Row, Col: p.Col})
	}
	for _, c := range resp.Crafted {
		out.Crafted = append(out.Crafted, CraftMessage{Output: c.Output, Times: c.Times})
	}
	return out, nil
}

func (s *daemonServiceImpl) GetState(ctx context.Context, req *GetStateRequest) (*GetStateResponse, error) {
	response, err := s.send(ctx, &queries.GetSessionQuery{SessionID: req.SessionID})
	if err != nil {
		return nil, err
	}

	resp := response.(*queries.GetSessionResponse)
	return &GetStateResponse{
		Snapshot:  resp.Snapshot,
		CreatedAt: resp.CreatedAt,
	}, nil
}

func (s *daemonServiceImpl) ListSessions(ctx context.Context, req *ListSessionsRequest) (*ListSessionsResponse, error) {
	response, err := s.send(ctx, &queries.ListSessionsQuery{})
	if err != nil {
		return nil, err
	}

	resp := response.(*queries.ListSessionsResponse)
	out := &ListSessionsResponse{Sessions: make([]SessionSummary, 0, len(resp.Sessions))}
	for _, summary := range resp.Sessions {
		out.Sessions = append(out.Sessions, SessionSummary{
			SessionID: summary.SessionID,
			CreatedAt: summary.CreatedAt,
			TurnCount: summary.TurnCount,
			Territory: summary.Territory,
		})
	}
	return out, nil
}

func (s *daemonServiceImpl) GetCraftingTree(ctx context.Context, req *GetCraftingTreeRequest) (*GetCraftingTreeResponse, error) {
	response, err := s.send(ctx, &queries.GetCraftingTreeQuery{SessionID: req.SessionID})
	if err != nil {
		return nil, err
	}

	resp := response.(*queries.GetCraftingTreeResponse)
	return &GetCraftingTreeResponse{
		Root:          resp.Root,
		CatalogDigest: resp.CatalogDigest,
	}, nil
}

func (s *daemonServiceImpl) GetHistory(ctx context.Context, req *GetHistoryRequest) (*GetHistoryResponse, error) {
	query := &ledgerQueries.GetTurnHistoryQuery{
		SessionID:   req.SessionID,
		StartDate:   req.Since,
		EndDate:     req.Until,
		CraftedOnly: req.CraftedOnly,
		Limit:       req.Limit,
		Offset:      req.Offset,
		OrderBy:     req.OrderBy,
	}
	if dir := strings.TrimSpace(req.Direction); dir != "" {
		query.Direction = &dir
	}

	response, err := s.send(ctx, query)
	if err != nil {
		return nil, err
	}

	resp := response.(*ledgerQueries.GetTurnHistoryResponse)
	return &GetHistoryResponse{
		Turns: resp.Turns,
		Total: resp.Total,
	}, nil
}

// HealthCheck verifies daemon health
func (s *daemonServiceImpl) HealthCheck(ctx context.Context, req *HealthCheckRequest) (*HealthCheckResponse, error) {
	response, err := s.send(ctx, &queries.ListSessionsQuery{})
	if err != nil {
		return nil, err
	}

	listed, ok := response.(*queries.ListSessionsResponse)
	if !ok {
		return nil, toStatus(fmt.Errorf("unexpected response type %T", response))
	}

	return &HealthCheckResponse{
		Status:         "ok",
		Version:        Version,
		ActiveSessions: len(listed.Sessions),
		UptimeSeconds:  int64(time.Since(s.startedAt).Seconds()),
	}, nil
}
