package tui

// HowToPlay is the short rules text shown by the help overlay and `amalgam play --help`
const HowToPlay = `Use the arrow keys (or WASD / HJKL) to expand your territory and claim new cells.
Mine resources by owning cells containing them, then combine basic resources
to create advanced materials.

Ultimate Goal: Create the legendary Quantum Amalgam by discovering and
combining rare resources across your empire!`

var helpKeys = []string{
	"arrows, wasd, hjkl   expand",
	"?                    toggle this help",
	"q, esc, ctrl-c       quit",
}
