package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check daemon health status",
		Long:  `Verify that the daemon is running and responsive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			health, err := client.HealthCheck(ctx)
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Daemon is healthy")
			fmt.Fprintf(out, "  Status:          %s\n", health.Status)
			fmt.Fprintf(out, "  Version:         %s\n", health.Version)
			fmt.Fprintf(out, "  Active Sessions: %d\n", health.ActiveSessions)
			fmt.Fprintf(out, "  Uptime:          %s\n", time.Duration(health.UptimeSeconds)*time.Second)

			return nil
		},
	}

	return cmd
}
