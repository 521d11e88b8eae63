package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	grpcadapter "github.com/andrescamacho/amalgam-go/internal/adapters/grpc"
	"github.com/andrescamacho/amalgam-go/internal/infrastructure/config"
)

const daemonTimeout = 10 * time.Second

// NewGameCommand creates the game command with subcommands
func NewGameCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Play sessions hosted by the daemon",
		Long: `Start, move, and inspect game sessions hosted by amalgam-daemon.

'game new' remembers the new session in ~/.amalgam/config.json so later
commands can omit --session.

Examples:
  amalgam game new --seed 42
  amalgam game move up
  amalgam game show
  amalgam game tree
  amalgam game list`,
	}

	cmd.AddCommand(newGameNewCommand())
	cmd.AddCommand(newGameMoveCommand())
	cmd.AddCommand(newGameShowCommand())
	cmd.AddCommand(newGameTreeCommand())
	cmd.AddCommand(newGameListCommand())

	return cmd
}

func newGameNewCommand() *cobra.Command {
	var (
		size      int
		chance    float64
		miningCap int
		seed      uint64
		noSave    bool
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), daemonTimeout)
			defer cancel()

			resp, err := client.StartGame(ctx, &grpcadapter.StartGameRequest{
				GridSize:       size,
				ResourceChance: chance,
				MiningCap:      miningCap,
				Seed:           seed,
			})
			if err != nil {
				return fmt.Errorf("failed to start game: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Session started")
			fmt.Fprintf(out, "  Session ID: %s\n", resp.SessionID)
			fmt.Fprintf(out, "  Seed:       %d\n", resp.Snapshot.Seed)
			fmt.Fprintf(out, "  Grid:       %dx%d\n", resp.Snapshot.Size, resp.Snapshot.Size)

			if noSave {
				return nil
			}
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaultSession(resp.SessionID); err != nil {
				return fmt.Errorf("failed to save default session: %w", err)
			}
			fmt.Fprintln(out, "\nSaved as the default session.")
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", 0, "Grid edge length (daemon default when 0)")
	cmd.Flags().Float64Var(&chance, "resource-chance", 0, "Probability a cell holds a resource (daemon default when 0)")
	cmd.Flags().IntVar(&miningCap, "mining-cap", 0, "Units a deposit yields before depleting (daemon default when 0)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Generation seed (random when 0)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not remember the session as default")

	return cmd
}

func newGameMoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "move <up|down|left|right>",
		Short:     "Expand territory one step",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "left", "right"},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSessionID()
			if err != nil {
				return err
			}

			client, err := connectDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), daemonTimeout)
			defer cancel()

			resp, err := client.SubmitDirection(ctx, id, strings.ToLower(args[0]))
			if err != nil {
				return fmt.Errorf("move failed: %w", err)
			}

			printMove(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	return cmd
}

func printMove(out io.Writer, resp *grpcadapter.SubmitDirectionResponse) {
	if !resp.Changed {
		fmt.Fprintf(out, "No change: nothing to claim moving %q\n", resp.Direction)
		return
	}

	fmt.Fprintf(out, "Turn %d: %s\n", resp.TurnCount, resp.Direction)
	fmt.Fprintf(out, "  Claimed:   %d cells\n", len(resp.CellsClaimed))
	fmt.Fprintf(out, "  Territory: %d cells\n", resp.Snapshot.Territory)
	for _, name := range sortedKeys(resp.Mined) {
		fmt.Fprintf(out, "  Mined:     %s x%d\n", name, resp.Mined[name])
	}
	for _, c := range resp.Crafted {
		fmt.Fprintf(out, "  Crafted:   %s x%d\n", c.Output, c.Times)
	}
}

func newGameShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the grid and inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSessionID()
			if err != nil {
				return err
			}

			client, err := connectDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), daemonTimeout)
			defer cancel()

			resp, err := client.GetState(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get state: %w", err)
			}

			formatter := NewGridFormatter(nil)
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatGrid(resp.Snapshot))
			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.FormatSummary(resp.Snapshot))
			return nil
		},
	}

	return cmd
}

func newGameTreeCommand() *cobra.Command {
	var (
		noColor bool
		bare    bool
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the crafting tree with held counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if !bare {
				var err error
				if id, err = resolveSessionID(); err != nil {
					return err
				}
			}

			client, err := connectDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), daemonTimeout)
			defer cancel()

			resp, err := client.GetCraftingTree(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get crafting tree: %w", err)
			}

			formatter := NewTreeFormatter(!noColor, true)
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatTree(resp.Root))
			fmt.Fprintln(out, formatter.FormatTreeSummary(resp.Root))
			if verbose {
				fmt.Fprintf(out, "Catalog digest: %s\n", resp.CatalogDigest)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable ANSI colors")
	cmd.Flags().BoolVar(&bare, "bare", false, "Show recipes only, without a session")

	return cmd
}

func newGameListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List live sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), daemonTimeout)
			defer cancel()

			resp, err := client.ListSessions(ctx)
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(resp.Sessions) == 0 {
				fmt.Fprintln(out, "No live sessions")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SESSION\tCREATED\tTURNS\tTERRITORY")
			for _, s := range resp.Sessions {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", s.SessionID, s.CreatedAt.Format(time.RFC3339), s.TurnCount, s.Territory)
			}
			return w.Flush()
		},
	}

	return cmd
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
