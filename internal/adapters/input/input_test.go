package input_test

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/amalgam-go/internal/adapters/input"
	"github.com/andrescamacho/amalgam-go/internal/domain/game"
)

func TestKeyDirection(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want game.Direction
		ok   bool
	}{
		{"arrow up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), game.DirectionUp, true},
		{"arrow down", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), game.DirectionDown, true},
		{"arrow left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), game.DirectionLeft, true},
		{"arrow right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), game.DirectionRight, true},
		{"w", tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), game.DirectionUp, true},
		{"S", tcell.NewEventKey(tcell.KeyRune, 'S', tcell.ModNone), game.DirectionDown, true},
		{"h", tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone), game.DirectionLeft, true},
		{"l", tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone), game.DirectionRight, true},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), "", false},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := input.KeyDirection(tt.ev)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSwipeDirection(t *testing.T) {
	tests := []struct {
		dx, dy int
		want   game.Direction
		ok     bool
	}{
		{10, 2, game.DirectionRight, true},
		{-10, 2, game.DirectionLeft, true},
		{1, 5, game.DirectionDown, true},
		{1, -5, game.DirectionUp, true},
		// ties go vertical
		{4, 4, game.DirectionDown, true},
		{4, -4, game.DirectionUp, true},
		{0, 0, "", false},
	}

	for _, tt := range tests {
		got, ok := input.SwipeDirection(tt.dx, tt.dy)
		assert.Equal(t, tt.ok, ok, "dx=%d dy=%d", tt.dx, tt.dy)
		assert.Equal(t, tt.want, got, "dx=%d dy=%d", tt.dx, tt.dy)
	}
}

func TestGate_EnforcesCooldown(t *testing.T) {
	// Arrange
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	gate := input.NewGateWithClock(300*time.Millisecond, func() time.Time { return now })

	// Act & Assert
	assert.True(t, gate.Allow())
	assert.False(t, gate.Allow())

	now = now.Add(299 * time.Millisecond)
	assert.False(t, gate.Allow())

	now = now.Add(2 * time.Millisecond)
	assert.True(t, gate.Allow())
	assert.False(t, gate.Allow())
}

func TestGate_ZeroCooldownAcceptsEverything(t *testing.T) {
	gate := input.NewGate(0)

	for i := 0; i < 10; i++ {
		assert.True(t, gate.Allow())
	}
}
