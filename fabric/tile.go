package fabric

// EmptyTileName is the name of the tile type that fills unused grid cells.
const EmptyTileName = "EMPTY"

// PinClassType tells if a pin class drives or receives signals.
type PinClassType int

const (
	Driver PinClassType = iota
	Receiver
)

// PinClass groups logically equivalent pins of a tile type.
type PinClass struct {
	Type PinClassType
	Pins []int
}

// PinLocation tells on which cell of a multi-cell tile a pin sits and on
// which sides of that cell it is exposed.
type PinLocation struct {
	WidthOffset  int
	HeightOffset int
	Sides        []Side
}

// TileType describes a physical block that occupies Width x Height cells.
type TileType struct {
	Index  int
	Name   string
	Width  int
	Height int
	IsIO   bool

	Classes []PinClass

	// PinClass maps a pin to its class index.
	PinClass []int
	// PinLocations maps a pin to its location.
	PinLocations []PinLocation

	// Fc holds the absolute number of tracks a pin connects to, indexed by
	// [pin][segment].
	Fc [][]int
}

// EmptyTile is the tile type of unused cells.
var EmptyTile = &TileType{Name: EmptyTileName, Width: 1, Height: 1}

// IsEmpty returns true for the empty tile type.
func (t *TileType) IsEmpty() bool {
	return t == nil || t.Name == EmptyTileName
}

// NumPins returns the number of pins of the tile type.
func (t *TileType) NumPins() int {
	return len(t.PinClass)
}

// PinClassType returns whether the pin drives or receives.
func (t *TileType) PinClassType(pin int) PinClassType {
	return t.Classes[t.PinClass[pin]].Type
}

// PinsAt returns, in ascending order, the pins of the given class type that
// sit on cell offset (w, h) and are exposed on side.
func (t *TileType) PinsAt(w, h int, side Side, classType PinClassType) []int {
	var pins []int

	for pin, loc := range t.PinLocations {
		if loc.WidthOffset != w || loc.HeightOffset != h {
			continue
		}

		if t.PinClassType(pin) != classType {
			continue
		}

		for _, s := range loc.Sides {
			if s == side {
				pins = append(pins, pin)
				break
			}
		}
	}

	return pins
}

// PinSides returns the sides the pin is exposed on.
func (t *TileType) PinSides(pin int) []Side {
	return t.PinLocations[pin].Sides
}

// FcOf returns the absolute Fc of a pin towards a segment. Missing entries
// count as zero.
func (t *TileType) FcOf(pin int, seg SegmentID) int {
	if pin >= len(t.Fc) || int(seg) >= len(t.Fc[pin]) {
		return 0
	}

	return t.Fc[pin][seg]
}

// IsFcZero returns true if the pin does not connect to any segment.
func (t *TileType) IsFcZero(pin int) bool {
	if pin >= len(t.Fc) {
		return true
	}

	for _, fc := range t.Fc[pin] {
		if fc != 0 {
			return false
		}
	}

	return true
}
