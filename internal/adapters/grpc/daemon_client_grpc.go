package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// DaemonClient talks to the daemon game service
type DaemonClient struct {
	conn *grpc.ClientConn
}

// NewDaemonClient connects to the daemon's unix socket
func NewDaemonClient(socketPath string) (*DaemonClient, error) {
	conn, err := grpc.NewClient(
		"unix:"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon socket: %w", err)
	}

	return &DaemonClient{conn: conn}, nil
}

// NewDaemonClientFromConn wraps an existing connection. The connection must
// default to the json content subtype.
func NewDaemonClientFromConn(conn *grpc.ClientConn) *DaemonClient {
	return &DaemonClient{conn: conn}
}

// Close closes the gRPC connection
func (c *DaemonClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *DaemonClient) invoke(ctx context.Context, method string, req, resp any) error {
	return c.conn.Invoke(ctx, fullMethod(method), req, resp, grpc.CallContentSubtype(CodecName))
}

func (c *DaemonClient) StartGame(ctx context.Context, req *StartGameRequest) (*StartGameResponse, error) {
	resp := &StartGameResponse{}
	if err := c.invoke(ctx, "StartGame", req, resp); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}
	return resp, nil
}

func (c *DaemonClient) SubmitDirection(ctx context.Context, sessionID, direction string) (*SubmitDirectionResponse, error) {
	resp := &SubmitDirectionResponse{}
	req := &SubmitDirectionRequest{SessionID: sessionID, Direction: direction}
	if err := c.invoke(ctx, "SubmitDirection", req, resp); err != nil {
		return nil, fmt.Errorf("failed to submit direction: %w", err)
	}
	return resp, nil
}

func (c *DaemonClient) GetState(ctx context.Context, sessionID string) (*GetStateResponse, error) {
	resp := &GetStateResponse{}
	if err := c.invoke(ctx, "GetState", &GetStateRequest{SessionID: sessionID}, resp); err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}
	return resp, nil
}

func (c *DaemonClient) ListSessions(ctx context.Context) (*ListSessionsResponse, error) {
	resp := &ListSessionsResponse{}
	if err := c.invoke(ctx, "ListSessions", &ListSessionsRequest{}, resp); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return resp, nil
}

func (c *DaemonClient) GetCraftingTree(ctx context.Context, sessionID string) (*GetCraftingTreeResponse, error) {
	resp := &GetCraftingTreeResponse{}
	if err := c.invoke(ctx, "GetCraftingTree", &GetCraftingTreeRequest{SessionID: sessionID}, resp); err != nil {
		return nil, fmt.Errorf("failed to get crafting tree: %w", err)
	}
	return resp, nil
}

func (c *DaemonClient) GetHistory(ctx context.Context, req *GetHistoryRequest) (*GetHistoryResponse, error) {
	resp := &GetHistoryResponse{}
	if err := c.invoke(ctx, "GetHistory", req, resp); err != nil {
		return nil, fmt.Errorf("failed to get turn history: %w", err)
	}
	return resp, nil
}

func (c *DaemonClient) HealthCheck(ctx context.Context) (*HealthCheckResponse, error) {
	resp := &HealthCheckResponse{}
	if err := c.invoke(ctx, "HealthCheck", &HealthCheckRequest{}, resp); err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	return resp, nil
}
