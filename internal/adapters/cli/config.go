package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
	"github.com/andrescamacho/amalgam-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage Amalgam configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (AMALGAM_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences (default session) are stored in ~/.amalgam/config.json

Examples:
  amalgam config show
  amalgam config set-session 3f1c9a2e-...
  amalgam config clear-session`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetSessionCommand())
	cmd.AddCommand(newConfigClearSessionCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Fprintln(out, "Amalgam Configuration")
			fmt.Fprintln(out, "=====================")

			fmt.Fprintln(out, "User Preferences:")
			fmt.Fprintf(out, "  Config file:      %s\n", userConfigHandler.GetConfigPath())
			if userCfg.DefaultSessionID != "" {
				fmt.Fprintf(out, "  Default Session:  %s\n", userCfg.DefaultSessionID)
			} else {
				fmt.Fprintf(out, "  Default Session:  (not set)\n")
			}

			fmt.Fprintln(out, "\nGame:")
			fmt.Fprintf(out, "  Grid Size:        %d\n", cfg.Game.GridSize)
			fmt.Fprintf(out, "  Resource Chance:  %.2f\n", cfg.Game.ResourceChance)
			fmt.Fprintf(out, "  Mining Cap:       %d\n", cfg.Game.MiningCap)
			fmt.Fprintf(out, "  Move Cooldown:    %s\n", cfg.Game.MoveCooldown)

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			default:
				fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
				fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
				fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
				fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
			}

			fmt.Fprintln(out, "\nDaemon:")
			fmt.Fprintf(out, "  Socket Path:      %s\n", cfg.Daemon.SocketPath)
			fmt.Fprintf(out, "  Max Sessions:     %d\n", cfg.Daemon.MaxSessions)

			fmt.Fprintln(out, "\nObserver:")
			fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Observer.Enabled)
			fmt.Fprintf(out, "  Address:          %s\n", cfg.Observer.Address)

			fmt.Fprintln(out, "\nMetrics:")
			fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Metrics.Enabled)
			fmt.Fprintf(out, "  Address:          %s%s\n", cfg.Metrics.Addr(), cfg.Metrics.Path)

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}

	return cmd
}

// newConfigSetSessionCommand creates the config set-session subcommand
func newConfigSetSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-session <session-id>",
		Short: "Set the default session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := shared.ParseSessionID(args[0])
			if err != nil {
				return err
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			if err := userConfigHandler.SetDefaultSession(id.String()); err != nil {
				return fmt.Errorf("failed to set default session: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Default session set")
			fmt.Fprintf(out, "  Session ID: %s\n", id)
			fmt.Fprintln(out, "\nOverride with the --session flag.")

			return nil
		},
	}

	return cmd
}

// newConfigClearSessionCommand creates the config clear-session subcommand
func newConfigClearSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-session",
		Short: "Clear the default session",
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			if err := userConfigHandler.ClearDefaultSession(); err != nil {
				return fmt.Errorf("failed to clear default session: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Default session cleared")
			return nil
		},
	}

	return cmd
}

// maskPassword hides the password of a postgres URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}
