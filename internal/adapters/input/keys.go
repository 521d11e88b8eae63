package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/andrescamacho/amalgam-go/internal/domain/game"
)

var runeDirections = map[rune]game.Direction{
	'w': game.DirectionUp,
	'k': game.DirectionUp,
	's': game.DirectionDown,
	'j': game.DirectionDown,
	'a': game.DirectionLeft,
	'h': game.DirectionLeft,
	'd': game.DirectionRight,
	'l': game.DirectionRight,
}

// KeyDirection maps arrow keys, WASD and HJKL (either case) to a direction
func KeyDirection(ev *tcell.EventKey) (game.Direction, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return game.DirectionUp, true
	case tcell.KeyDown:
		return game.DirectionDown, true
	case tcell.KeyLeft:
		return game.DirectionLeft, true
	case tcell.KeyRight:
		return game.DirectionRight, true
	case tcell.KeyRune:
		return RuneDirection(ev.Rune())
	}
	return "", false
}

// RuneDirection maps a typed character to a direction
func RuneDirection(r rune) (game.Direction, bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	d, ok := runeDirections[r]
	return d, ok
}

// SwipeDirection maps a drag vector. Horizontal wins only when strictly
// larger than vertical; a zero vector is not a swipe.
func SwipeDirection(dx, dy int) (game.Direction, bool) {
	if dx == 0 && dy == 0 {
		return "", false
	}
	if abs(dx) > abs(dy) {
		if dx > 0 {
			return game.DirectionRight, true
		}
		return game.DirectionLeft, true
	}
	if dy > 0 {
		return game.DirectionDown, true
	}
	return game.DirectionUp, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
