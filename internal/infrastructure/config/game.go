package config

import (
	"time"

	"github.com/andrescamacho/amalgam-go/internal/domain/session"
)

// GameConfig holds the defaults applied to every new session
type GameConfig struct {
	// Side length of the square grid
	GridSize int `mapstructure:"grid_size" validate:"min=1,max=200"`

	// Chance that a cell starts with a basic resource
	ResourceChance float64 `mapstructure:"resource_chance" validate:"probability"`

	// Number of times a resource cell can be mined before it is depleted
	MiningCap int `mapstructure:"mining_cap" validate:"min=1"`

	// Minimum interval between accepted moves in interactive adapters
	MoveCooldown time.Duration `mapstructure:"move_cooldown"`

	// Board seed; zero picks a random seed per session
	Seed uint64 `mapstructure:"seed"`
}

// SessionSettings converts the game section into new-session defaults
func (g GameConfig) SessionSettings() session.Settings {
	return session.Settings{
		GridSize:       g.GridSize,
		ResourceChance: g.ResourceChance,
		MiningCap:      g.MiningCap,
		Seed:           g.Seed,
	}
}
