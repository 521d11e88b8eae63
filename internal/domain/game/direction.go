package game

import "strings"

// Direction is one of the four expansion directions
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Directions returns all valid directions
func Directions() []Direction {
	return []Direction{DirectionUp, DirectionDown, DirectionLeft, DirectionRight}
}

// ParseDirection normalizes a direction name. Unknown values return false.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	return d, d.Valid()
}

func (d Direction) Valid() bool {
	switch d {
	case DirectionUp, DirectionDown, DirectionLeft, DirectionRight:
		return true
	}
	return false
}

// Delta returns the row/column offset of one step in this direction
func (d Direction) Delta() (dRow, dCol int) {
	switch d {
	case DirectionUp:
		return -1, 0
	case DirectionDown:
		return 1, 0
	case DirectionLeft:
		return 0, -1
	case DirectionRight:
		return 0, 1
	}
	return 0, 0
}

func (d Direction) String() string {
	return string(d)
}

// Position is a (row, col) grid coordinate
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Step returns the neighbouring position in direction d
func (p Position) Step(d Direction) Position {
	dr, dc := d.Delta()
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}
