package cli

import (
	"fmt"

	"gorm.io/gorm"

	grpcadapter "github.com/andrescamacho/amalgam-go/internal/adapters/grpc"
	"github.com/andrescamacho/amalgam-go/internal/infrastructure/config"
	"github.com/andrescamacho/amalgam-go/internal/infrastructure/database"
)

// resolveSessionID resolves the session from the --session flag or the saved default
// Priority: CLI flag > user config default
func resolveSessionID() (string, error) {
	if sessionID != "" {
		return sessionID, nil
	}

	userConfigHandler, err := config.NewUserConfigHandler()
	if err != nil {
		return "", fmt.Errorf("no session specified and failed to load user config: %w", err)
	}

	userCfg, err := userConfigHandler.Load()
	if err != nil {
		return "", fmt.Errorf("no session specified and failed to load user config: %w", err)
	}

	if userCfg.DefaultSessionID != "" {
		return userCfg.DefaultSessionID, nil
	}

	return "", fmt.Errorf("no session specified: use --session, or start one with 'amalgam game new'")
}

// connectDaemon dials the daemon socket
func connectDaemon() (*grpcadapter.DaemonClient, error) {
	client, err := grpcadapter.NewDaemonClient(socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	return client, nil
}

// openLedger loads config and opens the turn ledger database, creating tables if needed
func openLedger() (*gorm.DB, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to migrate ledger: %w", err)
	}
	return db, nil
}
