package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/andrescamacho/amalgam-go/internal/adapters/persistence"
	"github.com/andrescamacho/amalgam-go/internal/application/ledger/queries"
	"github.com/andrescamacho/amalgam-go/internal/infrastructure/database"
)

const exportPageSize = 500

// NewLedgerCommand creates the ledger command with subcommands
func NewLedgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Turn ledger operations",
		Long: `View and export the turn ledger.

Every turn that changes a session is recorded with the cells it claimed,
the resources it mined and the recipes it fired. The ledger is an audit
trail; it is never used to restore a session.

Examples:
  amalgam ledger list --limit 20
  amalgam ledger list --direction up --crafted-only
  amalgam ledger list --start-date 2025-01-15 --end-date 2025-01-22
  amalgam ledger export --out turns.jsonl.zst`,
	}

	cmd.AddCommand(newLedgerListCommand())
	cmd.AddCommand(newLedgerExportCommand())

	return cmd
}

// newLedgerListCommand creates the ledger list subcommand
func newLedgerListCommand() *cobra.Command {
	var (
		startDate   string
		endDate     string
		direction   string
		craftedOnly bool
		limit       int
		offset      int
		orderBy     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded turns",
		Long: `List recorded turns of a session with optional filtering.

Results are ordered by turn number descending (newest first) by default.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSessionID()
			if err != nil {
				return err
			}

			query, err := buildHistoryQuery(id, startDate, endDate, direction, craftedOnly)
			if err != nil {
				return err
			}
			query.Limit = limit
			query.Offset = offset
			query.OrderBy = orderBy

			db, err := openLedger()
			if err != nil {
				return err
			}
			defer database.Close(db)

			response, err := queryHistory(cmd.Context(), db, query)
			if err != nil {
				return err
			}

			displayTurnList(cmd.OutOrStdout(), response)
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start-date", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&direction, "direction", "", "Filter by direction")
	cmd.Flags().BoolVar(&craftedOnly, "crafted-only", false, "Only turns that fired a recipe")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of turns to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of turns to skip")
	cmd.Flags().StringVar(&orderBy, "order-by", "desc", "Sort order (asc or desc)")

	return cmd
}

// newLedgerExportCommand creates the ledger export subcommand
func newLedgerExportCommand() *cobra.Command {
	var (
		outPath   string
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export turns as zstd-compressed JSON lines",
		Long: `Export every recorded turn of a session, oldest first, as one JSON
object per line compressed with zstd. Without --out the stream goes to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSessionID()
			if err != nil {
				return err
			}

			query, err := buildHistoryQuery(id, startDate, endDate, "", false)
			if err != nil {
				return err
			}
			query.OrderBy = "asc"

			db, err := openLedger()
			if err != nil {
				return err
			}
			defer database.Close(db)

			var out io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create export file: %w", err)
				}
				defer f.Close()
				out = f
			}

			n, err := exportHistory(cmd.Context(), db, query, out)
			if err != nil {
				return err
			}
			if outPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d turns to %s\n", n, outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&startDate, "start-date", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "End date (YYYY-MM-DD)")

	return cmd
}

func buildHistoryQuery(id, startDate, endDate, direction string, craftedOnly bool) (*queries.GetTurnHistoryQuery, error) {
	query := &queries.GetTurnHistoryQuery{
		SessionID:   id,
		CraftedOnly: craftedOnly,
	}

	if startDate != "" {
		parsed, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date format: %w", err)
		}
		query.StartDate = &parsed
	}
	if endDate != "" {
		parsed, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date format: %w", err)
		}
		// Set to end of day
		endOfDay := parsed.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		query.EndDate = &endOfDay
	}
	if direction != "" {
		d := strings.ToLower(direction)
		query.Direction = &d
	}

	return query, nil
}

func queryHistory(ctx context.Context, db *gorm.DB, query *queries.GetTurnHistoryQuery) (*queries.GetTurnHistoryResponse, error) {
	handler := queries.NewGetTurnHistoryHandler(persistence.NewGormTurnRecordRepository(db))
	result, err := handler.Handle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	return result.(*queries.GetTurnHistoryResponse), nil
}

// exportHistory pages through the ledger and streams every turn to w
func exportHistory(ctx context.Context, db *gorm.DB, query *queries.GetTurnHistoryQuery, w io.Writer) (int, error) {
	exporter, err := NewTurnExporter(w)
	if err != nil {
		return 0, err
	}

	query.Limit = exportPageSize
	for {
		page, err := queryHistory(ctx, db, query)
		if err != nil {
			exporter.Close()
			return exporter.Count(), err
		}
		for _, turn := range page.Turns {
			if err := exporter.Write(turn); err != nil {
				exporter.Close()
				return exporter.Count(), err
			}
		}
		if len(page.Turns) < query.Limit {
			break
		}
		query.Offset += len(page.Turns)
	}

	return exporter.Count(), exporter.Close()
}

// displayTurnList formats and displays a page of turns
func displayTurnList(out io.Writer, response *queries.GetTurnHistoryResponse) {
	if len(response.Turns) == 0 {
		fmt.Fprintln(out, "No turns found")
		return
	}

	fmt.Fprintf(out, "\nTURNS (Showing %d of %d total)\n", len(response.Turns), response.Total)
	fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────────────────")

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Turn\tTimestamp\tDirection\tClaimed\tTerritory\tMined\tCrafted")
	fmt.Fprintln(w, "────\t─────────\t─────────\t───────\t─────────\t─────\t───────")

	for _, turn := range response.Turns {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\t%s\n",
			turn.TurnNumber,
			turn.Timestamp.Format("2006-01-02 15:04:05"),
			turn.Direction,
			turn.CellsClaimed,
			turn.Territory,
			formatDeltas(turn.Mined),
			formatDeltas(turn.Crafted),
		)
	}

	w.Flush()
	fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────────────────")
	fmt.Fprintf(out, "Total: %d turns\n\n", response.Total)
}

// formatDeltas formats a name -> count map as "A x1, B x2"
func formatDeltas(m map[string]int) string {
	if len(m) == 0 {
		return "-"
	}
	keys := sortedKeys(m)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s x%d", k, m[k])
	}
	return strings.Join(parts, ", ")
}
