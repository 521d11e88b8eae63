package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/andrescamacho/amalgam-go/internal/adapters/input"
	"github.com/andrescamacho/amalgam-go/internal/application/game/commands"
	"github.com/andrescamacho/amalgam-go/internal/application/game/queries"
	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
	"github.com/andrescamacho/amalgam-go/internal/domain/catalog"
)

// Options configures the local terminal UI
type Options struct {
	MoveCooldown time.Duration
	Catalog      *catalog.Catalog
	// Now overrides the gate clock in tests
	Now func() time.Time
}

// App plays one session in a terminal. All turns go through the mediator,
// so the same handlers serve the daemon and local play.
type App struct {
	screen    tcell.Screen
	mediator  mediator.Mediator
	sessionID string
	gate      *input.Gate
	renderer  *Renderer
	view      View
}

// NewApp creates an App for an existing session. The caller owns the screen
// and is responsible for Init and Fini.
func NewApp(screen tcell.Screen, med mediator.Mediator, sessionID string, opts Options) *App {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &App{
		screen:    screen,
		mediator:  med,
		sessionID: sessionID,
		gate:      input.NewGateWithClock(opts.MoveCooldown, now),
		renderer:  NewRenderer(opts.Catalog),
	}
}

// View returns the current frame state
func (a *App) View() View {
	return a.view
}

// Run draws the session and processes terminal events until the player
// quits, the screen is finalized or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.Refresh(ctx); err != nil {
		return err
	}
	a.draw()

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			quit, err := a.HandleEvent(ctx, ev)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
			a.draw()
		}
	}
}

// HandleEvent applies one terminal event and reports whether the player quit.
// Direction keys inside the move cooldown are dropped.
func (a *App) HandleEvent(ctx context.Context, ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		return false, nil

	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return true, nil
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q', 'Q':
				return true, nil
			case '?':
				a.view.ShowHelp = !a.view.ShowHelp
				return false, nil
			}
		}

		dir, ok := input.KeyDirection(ev)
		if !ok {
			return false, nil
		}
		a.view.ShowHelp = false
		if !a.gate.Allow() {
			return false, nil
		}
		return false, a.move(ctx, dir.String())
	}
	return false, nil
}

// Refresh reloads the snapshot from the mediator
func (a *App) Refresh(ctx context.Context) error {
	resp, err := a.mediator.Send(ctx, &queries.GetSessionQuery{SessionID: a.sessionID})
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	a.view.Snapshot = resp.(*queries.GetSessionResponse).Snapshot
	if a.view.Status == "" {
		a.view.Status = "Press ? for help"
	}
	return nil
}

func (a *App) move(ctx context.Context, direction string) error {
	resp, err := a.mediator.Send(ctx, &commands.SubmitDirectionCommand{
		SessionID: a.sessionID,
		Direction: direction,
	})
	if err != nil {
		return fmt.Errorf("failed to submit direction: %w", err)
	}
	result := resp.(*commands.SubmitDirectionResponse)
	a.view.Snapshot = result.Snapshot
	a.view.Status = FormatOutcome(result)
	return nil
}

func (a *App) draw() {
	a.renderer.Draw(a.screen, a.view)
	a.screen.Show()
}
