package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/amalgam-go/internal/adapters/persistence"
	"github.com/andrescamacho/amalgam-go/internal/adapters/tui"
	"github.com/andrescamacho/amalgam-go/internal/application/common"
	"github.com/andrescamacho/amalgam-go/internal/application/game/commands"
	"github.com/andrescamacho/amalgam-go/internal/application/game/queries"
	"github.com/andrescamacho/amalgam-go/internal/application/setup"
	"github.com/andrescamacho/amalgam-go/internal/domain/ledger"
	"github.com/andrescamacho/amalgam-go/internal/infrastructure/config"
	"github.com/andrescamacho/amalgam-go/internal/infrastructure/database"
	"github.com/andrescamacho/amalgam-go/internal/infrastructure/logging"
)

// NewPlayCommand creates the play command, which runs a session in this terminal
func NewPlayCommand() *cobra.Command {
	var (
		size      int
		chance    float64
		miningCap int
		seed      uint64
		cooldown  time.Duration
		record    bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a local game in the terminal",
		Long: `Play a local game in the terminal.

` + tui.HowToPlay + `

Keys:
  arrows, wasd, hjkl   expand
  ?                    toggle help
  q, esc, ctrl-c       quit

With --record every resolved turn is written to the configured ledger database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfigOrDefault(configPath)

			settings := cfg.Game.SessionSettings()
			if cmd.Flags().Changed("cooldown") {
				cfg.Game.MoveCooldown = cooldown
			}

			var turns ledger.TurnRecordRepository
			if record {
				db, err := openLedger()
				if err != nil {
					return err
				}
				defer database.Close(db)
				turns = persistence.NewGormTurnRecordRepository(db)
			}

			// The terminal is taken over, so only file logging stays visible.
			logCfg := cfg.Logging
			if logCfg.Output != "file" {
				logCfg.Output = "discard"
			}
			logger, closer, err := logging.New(logCfg)
			if err != nil {
				return fmt.Errorf("failed to set up logging: %w", err)
			}
			defer closer.Close()

			sessions := persistence.NewMemorySessionRepository(1)
			registry := setup.NewHandlerRegistry(sessions, turns, nil, nil, settings, nil)
			med, err := registry.CreateConfiguredMediator()
			if err != nil {
				return fmt.Errorf("failed to configure mediator: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = common.WithLogger(ctx, logging.NewGameLogger(logger))

			resp, err := med.Send(ctx, &commands.StartGameCommand{
				GridSize:       size,
				ResourceChance: chance,
				MiningCap:      miningCap,
				Seed:           seed,
			})
			if err != nil {
				return fmt.Errorf("failed to start game: %w", err)
			}
			id := resp.(*commands.StartGameResponse).SessionID

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("failed to open terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("failed to initialize terminal: %w", err)
			}

			app := tui.NewApp(screen, med, id, tui.Options{MoveCooldown: cfg.Game.MoveCooldown})
			runErr := app.Run(ctx)
			screen.Fini()
			if runErr != nil {
				return runErr
			}

			final, err := med.Send(context.Background(), &queries.GetSessionQuery{SessionID: id})
			if err != nil {
				return err
			}
			snap := final.(*queries.GetSessionResponse).Snapshot
			fmt.Fprint(cmd.OutOrStdout(), NewGridFormatter(nil).FormatSummary(snap))
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", 0, "Grid edge length (config default when 0)")
	cmd.Flags().Float64Var(&chance, "resource-chance", 0, "Probability a cell holds a resource (config default when 0)")
	cmd.Flags().IntVar(&miningCap, "mining-cap", 0, "Units a deposit yields before depleting (config default when 0)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Generation seed (random when 0)")
	cmd.Flags().DurationVar(&cooldown, "cooldown", 0, "Minimum time between accepted moves")
	cmd.Flags().BoolVar(&record, "record", false, "Record turns in the ledger database")

	return cmd
}
