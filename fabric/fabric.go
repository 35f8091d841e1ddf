// Package fabric defines the commonly used data structures that describe an
// FPGA fabric: sides, coordinates, tile types, the device grid, routing
// segments, switches and direct connections.
package fabric

import "fmt"

// Side defines the side of a tile or a switch block.
type Side int

const (
	Top Side = iota
	Right
	Bottom
	Left
)

// NumSides is the number of sides of a tile.
const NumSides = 4

// Sides lists all the sides in index order.
var Sides = [NumSides]Side{Top, Right, Bottom, Left}

// Name returns the name of the side.
func (s Side) Name() string {
	switch s {
	case Top:
		return "Top"
	case Right:
		return "Right"
	case Bottom:
		return "Bottom"
	case Left:
		return "Left"
	default:
		panic("invalid side")
	}
}

func (s Side) String() string {
	return s.Name()
}

// Opposite returns the side facing s.
func (s Side) Opposite() Side {
	return Side((int(s) + 2) % NumSides)
}

// Clockwise returns the next side in the Top, Right, Bottom, Left order.
func (s Side) Clockwise() Side {
	return Side((int(s) + 1) % NumSides)
}

// CounterClockwise returns the previous side in the Top, Right, Bottom, Left
// order.
func (s Side) CounterClockwise() Side {
	return Side((int(s) + NumSides - 1) % NumSides)
}

// ParseSide converts a side name (case sensitive, as printed by Name, or its
// lower-case form) into a Side.
func ParseSide(name string) (Side, error) {
	switch name {
	case "Top", "top", "TOP":
		return Top, nil
	case "Right", "right", "RIGHT":
		return Right, nil
	case "Bottom", "bottom", "BOTTOM":
		return Bottom, nil
	case "Left", "left", "LEFT":
		return Left, nil
	}

	return Top, fmt.Errorf("unknown side %q", name)
}

// Point is a coordinate on the device grid.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// ManhattanDistance returns |p.X-q.X| + |p.Y-q.Y|.
func (p Point) ManhattanDistance(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}

// SwitchID indexes the switch list of an architecture.
type SwitchID int

// NoSwitch marks an unset optional switch.
const NoSwitch SwitchID = -1

// SegmentID indexes the segment list of an architecture.
type SegmentID int

// SwitchBlockType selects the track-to-track pattern inside a switch block.
type SwitchBlockType int

const (
	Subset SwitchBlockType = iota
	Universal
	Wilton
)

func (t SwitchBlockType) String() string {
	switch t {
	case Subset:
		return "subset"
	case Universal:
		return "universal"
	case Wilton:
		return "wilton"
	default:
		panic("invalid switch block type")
	}
}

// ParseSwitchBlockType converts a pattern name into a SwitchBlockType.
func ParseSwitchBlockType(name string) (SwitchBlockType, error) {
	switch name {
	case "subset", "SUBSET":
		return Subset, nil
	case "universal", "UNIVERSAL":
		return Universal, nil
	case "wilton", "WILTON":
		return Wilton, nil
	}

	return Subset, fmt.Errorf("unknown switch block type %q", name)
}
