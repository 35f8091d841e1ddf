package fabric

// Segment describes a routing wire type.
type Segment struct {
	Name      string
	Length    int
	Frequency int
	Longline  bool

	RMetal float64
	CMetal float64

	// CB and SB tell, per position along the wire, whether the wire has a
	// connection box or a switch block connection there. An empty list
	// means every position is populated.
	CB []bool
	SB []bool

	OpinSwitch    SwitchID
	OpinSwitchDec SwitchID
}

// Switch describes an electrical switch.
type Switch struct {
	Name     string
	R        float64
	Cin      float64
	Cout     float64
	Tdel     float64
	Buffered bool
}

// Direct describes a dedicated connection from the output pins of one tile
// type to the input pins of another tile type at a fixed offset.
type Direct struct {
	Name     string
	FromTile *TileType
	ToTile   *TileType

	FromPinStart int
	FromPinEnd   int
	ToPinStart   int
	ToPinEnd     int

	XOffset int
	YOffset int

	Switch SwitchID
}

// VIBEndpointKind tells what a VIB endpoint refers to.
type VIBEndpointKind int

const (
	VIBPin VIBEndpointKind = iota
	VIBSegment
	VIBMux
)

// VIBEndpoint is one source or target of a VIB multiplexer.
type VIBEndpoint struct {
	Kind VIBEndpointKind

	// Pin is the block pin for VIBPin.
	Pin int

	// Segment, SegmentDir ('W', 'E', 'N' or 'S') and SegmentIndex locate a
	// wire for VIBSegment.
	Segment      SegmentID
	SegmentDir   byte
	SegmentIndex int

	// MuxName names a first-stage multiplexer for VIBMux.
	MuxName string
}

// VIBFirstStage is a first-stage multiplexer. Each becomes a MUX node.
type VIBFirstStage struct {
	Name  string
	Froms []VIBEndpoint
}

// VIBSecondStage is a second-stage multiplexer that connects every From to
// every To.
type VIBSecondStage struct {
	Name  string
	Froms []VIBEndpoint
	Tos   []VIBEndpoint
}

// VIB is a versatile interconnect block attached to a tile type.
type VIB struct {
	Name         string
	TileName     string
	Switch       SwitchID
	FirstStages  []VIBFirstStage
	SecondStages []VIBSecondStage
}

// FirstStageIndex returns the index of the first stage with the given name.
func (v *VIB) FirstStageIndex(name string) (int, bool) {
	for i, s := range v.FirstStages {
		if s.Name == name {
			return i, true
		}
	}

	return 0, false
}
