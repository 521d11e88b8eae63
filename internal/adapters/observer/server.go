package observer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzhttp"

	"github.com/andrescamacho/amalgam-go/internal/adapters/input"
	"github.com/andrescamacho/amalgam-go/internal/application/common"
	"github.com/andrescamacho/amalgam-go/internal/application/game/commands"
	"github.com/andrescamacho/amalgam-go/internal/application/game/queries"
	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
	"github.com/andrescamacho/amalgam-go/internal/infrastructure/logging"
)

const (
	writeWait = 5 * time.Second
	readWait  = 60 * time.Second
)

// Options tunes the observer server
type Options struct {
	// Origins allowed to open a websocket; empty keeps gorilla's same-host check
	AllowedOrigins []string

	// Minimum interval between accepted MOVE messages per connection
	MoveCooldown time.Duration

	Logger *slog.Logger
}

// Server streams session snapshots to browsers and accepts moves from them
type Server struct {
	mediator mediator.Mediator
	hub      *Hub
	opts     Options
	logger   *slog.Logger
	upgrader websocket.Upgrader

	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates an observer. The hub must also be the publisher handed to
// the SubmitDirection handler for TURN messages to flow.
func NewServer(med mediator.Mediator, hub *Hub, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mediator: med,
		hub:      hub,
		opts:     opts,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
		},
	}
	if len(opts.AllowedOrigins) > 0 {
		s.upgrader.CheckOrigin = s.checkOrigin
	}
	return s
}

// Handler routes /ws and /api/sessions/{id}
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.WSHandler())
	mux.Handle("GET /api/sessions/{id}", gzhttp.GzipHandler(s.SnapshotHandler()))
	return mux
}

// Listen binds addr; call Start to serve
func (s *Server) Listen(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	s.httpServer = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	return nil
}

// Addr returns the bound address
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start serves in the background
func (s *Server) Start() {
	go func() {
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("observer server error", "error", err)
		}
	}()
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// SnapshotHandler serves GET /api/sessions/{id}
func (s *Server) SnapshotHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		resp, err := s.mediator.Send(r.Context(), &queries.GetSessionQuery{SessionID: r.PathValue("id")})
		if err != nil {
			writeError(rw, err)
			return
		}

		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(resp.(*queries.GetSessionResponse).Snapshot)
	}
}

// WSHandler serves GET /ws?session=<id>
func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session")
		if sessionID == "" {
			http.Error(rw, "missing session parameter", http.StatusBadRequest)
			return
		}

		resp, err := s.mediator.Send(r.Context(), &queries.GetSessionQuery{SessionID: sessionID})
		if err != nil {
			writeError(rw, err)
			return
		}
		initial := resp.(*queries.GetSessionResponse).Snapshot
		// Subscribe under the canonical id the turn events are published with
		sessionID = initial.SessionID

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sub := s.hub.subscribe(sessionID)
		defer s.hub.unsubscribe(sessionID, sub)

		s.reply(sub, ServerMessage{Type: TypeSnapshot, Snapshot: initial})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		writeDone := make(chan struct{})
		go func() {
			defer close(writeDone)
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-sub.out:
					_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		s.readLoop(ctx, conn, sessionID, sub)

		cancel()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))

		select {
		case <-writeDone:
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, sessionID string, sub *subscriber) {
	gate := input.NewGate(s.opts.MoveCooldown)
	logger := logging.NewGameLogger(s.logger)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(readWait))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if ctx.Err() != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.reply(sub, ServerMessage{Type: TypeError, Error: "malformed message"})
			continue
		}

		switch msg.Type {
		case TypePing:
			s.reply(sub, ServerMessage{Type: TypePong})
		case TypeMove:
			if !gate.Allow() {
				continue
			}
			cmdCtx := common.WithLogger(ctx, logger)
			if _, err := s.mediator.Send(cmdCtx, &commands.SubmitDirectionCommand{
				SessionID: sessionID,
				Direction: msg.Direction,
			}); err != nil {
				s.reply(sub, ServerMessage{Type: TypeError, Error: err.Error()})
			}
		default:
			s.reply(sub, ServerMessage{Type: TypeError, Error: fmt.Sprintf("unknown message type %q", msg.Type)})
		}
	}
}

func (s *Server) reply(sub *subscriber, msg ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("failed to encode observer message", "type", msg.Type, "error", err)
		return
	}
	sub.send(payload)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return slices.Contains(s.opts.AllowedOrigins, u.Scheme+"://"+u.Host)
}

func writeError(rw http.ResponseWriter, err error) {
	var notFound *shared.SessionNotFoundError
	var invalid *shared.ValidationError
	switch {
	case errors.As(err, &notFound):
		http.Error(rw, err.Error(), http.StatusNotFound)
	case errors.As(err, &invalid):
		http.Error(rw, err.Error(), http.StatusBadRequest)
	default:
		http.Error(rw, err.Error(), http.StatusInternalServerError)
	}
}
