package grpc

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"google.golang.org/grpc"

	"github.com/andrescamacho/amalgam-go/internal/application/common"
	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
)

// DaemonServer serves the game service over a unix socket
type DaemonServer struct {
	mediator   mediator.Mediator
	listener   net.Listener
	grpcServer *grpc.Server
	socketPath string

	// Shutdown coordination
	shutdownChan chan os.Signal
	done         chan struct{}
	stopOnce     sync.Once
}

// NewDaemonServer creates a daemon listening on socketPath. SIGINT and
// SIGTERM trigger a graceful stop.
func NewDaemonServer(med mediator.Mediator, logger common.GameLogger, socketPath string) (*DaemonServer, error) {
	// Remove existing socket file if present
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
	}

	// Owner only
	if err := os.Chmod(socketPath, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	server := NewDaemonServerWithListener(med, logger, listener)
	server.socketPath = socketPath
	server.shutdownChan = make(chan os.Signal, 1)
	signal.Notify(server.shutdownChan, os.Interrupt, syscall.SIGTERM)
	go server.handleShutdown()

	return server, nil
}

// NewDaemonServerWithListener serves on an existing listener without signal handling
func NewDaemonServerWithListener(med mediator.Mediator, logger common.GameLogger, listener net.Listener) *DaemonServer {
	grpcServer := grpc.NewServer()
	RegisterGameServiceServer(grpcServer, newDaemonServiceImpl(med, logger))

	return &DaemonServer{
		mediator:   med,
		listener:   listener,
		grpcServer: grpcServer,
		done:       make(chan struct{}),
	}
}

// Addr returns the listener address
func (s *DaemonServer) Addr() string {
	return s.listener.Addr().String()
}

// Start serves requests and blocks until Stop is called or serving fails
func (s *DaemonServer) Start() error {
	fmt.Printf("Daemon server listening on unix socket: %s\n", s.Addr())

	errChan := make(chan error, 1)
	go func() {
		if err := s.grpcServer.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-s.done:
		fmt.Println("Initiating graceful shutdown of gRPC server...")
		s.grpcServer.GracefulStop()
		if s.socketPath != "" {
			_ = os.Remove(s.socketPath)
		}
		return nil
	}
}

// Stop asks Start to shut down gracefully. Safe to call more than once.
func (s *DaemonServer) Stop() {
	s.stopOnce.Do(func() {
		if s.shutdownChan != nil {
			signal.Stop(s.shutdownChan)
		}
		close(s.done)
	})
}

// Done is closed once Stop has been requested
func (s *DaemonServer) Done() <-chan struct{} {
	return s.done
}

func (s *DaemonServer) handleShutdown() {
	select {
	case <-s.shutdownChan:
		fmt.Println("\nShutdown signal received, stopping daemon...")
		s.Stop()
	case <-s.done:
	}
}
