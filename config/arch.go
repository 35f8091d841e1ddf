package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	err := validate.RegisterValidation("multiple_of_three", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%3 == 0
	})
	if err != nil {
		panic(err)
	}
}

// Arch is an architecture file.
type Arch struct {
	Device   DeviceSpec    `yaml:"device"`
	Routing  RoutingSpec   `yaml:"routing"`
	Switches []SwitchSpec  `yaml:"switches" validate:"required,min=1,dive"`
	Segments []SegmentSpec `yaml:"segments" validate:"required,min=1,dive"`
	Tiles    []TileSpec    `yaml:"tiles" validate:"required,min=1,dive"`
	Directs  []DirectSpec  `yaml:"directs" validate:"omitempty,dive"`
	VIBs     []VIBSpec     `yaml:"vibs" validate:"omitempty,dive"`
}

// DeviceSpec describes the grid.
type DeviceSpec struct {
	Width      int             `yaml:"width" validate:"min=1"`
	Height     int             `yaml:"height" validate:"min=1"`
	IO         string          `yaml:"io"`
	Fill       string          `yaml:"fill"`
	Placements []PlacementSpec `yaml:"placements" validate:"omitempty,dive"`
}

// PlacementSpec puts a tile at a fixed root cell.
type PlacementSpec struct {
	Tile string `yaml:"tile" validate:"required"`
	X    int    `yaml:"x" validate:"min=0"`
	Y    int    `yaml:"y" validate:"min=0"`
}

// RoutingSpec holds the channel and switch block parameters.
type RoutingSpec struct {
	ChanWidth        int    `yaml:"chan_width" validate:"min=1"`
	SBType           string `yaml:"sb_type" validate:"required,oneof=subset universal wilton"`
	Fs               int    `yaml:"fs" validate:"min=3,multiple_of_three"`
	SubType          string `yaml:"sub_type" validate:"omitempty,oneof=subset universal wilton"`
	SubFs            int    `yaml:"sub_fs" validate:"omitempty,min=3,multiple_of_three"`
	ConcatWire       bool   `yaml:"concat_wire"`
	WireOppositeSide bool   `yaml:"wire_opposite_side"`
	OPIN2AllSides    bool   `yaml:"opin2all_sides"`
	PerimeterCB      bool   `yaml:"perimeter_cb"`
	ShrinkBoundary   bool   `yaml:"shrink_boundary"`
	ThroughChannel   bool   `yaml:"through_channel"`
	DelaylessSwitch  string `yaml:"delayless_switch" validate:"required"`
	WireToIPINSwitch string `yaml:"wire_to_ipin_switch" validate:"required"`
}

// SwitchSpec describes a switch.
type SwitchSpec struct {
	Name     string  `yaml:"name" validate:"required"`
	R        float64 `yaml:"r" validate:"min=0"`
	Cin      float64 `yaml:"cin" validate:"min=0"`
	Cout     float64 `yaml:"cout" validate:"min=0"`
	Tdel     float64 `yaml:"tdel" validate:"min=0"`
	Buffered bool    `yaml:"buffered"`
}

// SegmentSpec describes a wire type. CB and SB are population bits; an
// omitted list means fully populated.
type SegmentSpec struct {
	Name      string  `yaml:"name" validate:"required"`
	Length    int     `yaml:"length" validate:"min=1"`
	Frequency int     `yaml:"freq" validate:"min=1"`
	Longline  bool    `yaml:"longline"`
	RMetal    float64 `yaml:"rmetal" validate:"min=0"`
	CMetal    float64 `yaml:"cmetal" validate:"min=0"`
	CB        []int   `yaml:"cb" validate:"omitempty,dive,oneof=0 1"`
	SB        []int   `yaml:"sb" validate:"omitempty,dive,oneof=0 1"`
	Switch    string  `yaml:"switch" validate:"required"`
	SwitchDec string  `yaml:"switch_dec"`
}

// TileSpec describes a tile type.
type TileSpec struct {
	Name   string     `yaml:"name" validate:"required"`
	Width  int        `yaml:"width" validate:"omitempty,min=1"`
	Height int        `yaml:"height" validate:"omitempty,min=1"`
	Ports  []PortSpec `yaml:"ports" validate:"omitempty,dive"`
}

// PortSpec describes a group of pins. Equivalent pins share one class.
// With Spread set, consecutive pins go round-robin over Sides; otherwise
// each pin is exposed on every listed side.
type PortSpec struct {
	Name       string             `yaml:"name" validate:"required"`
	Type       string             `yaml:"type" validate:"required,oneof=input output"`
	NumPins    int                `yaml:"num_pins" validate:"min=1"`
	Equivalent bool               `yaml:"equivalent"`
	Sides      []string           `yaml:"sides" validate:"required,min=1,dive,oneof=top right bottom left"`
	Spread     bool               `yaml:"spread"`
	XOffset    int                `yaml:"x_offset" validate:"min=0"`
	YOffset    int                `yaml:"y_offset" validate:"min=0"`
	Fc         float64            `yaml:"fc" validate:"min=0"`
	FcType     string             `yaml:"fc_type" validate:"omitempty,oneof=frac abs"`
	FcOverride map[string]float64 `yaml:"fc_override"`
}

// DirectSpec describes a direct connection between two tile types.
type DirectSpec struct {
	Name     string `yaml:"name" validate:"required"`
	FromTile string `yaml:"from_tile" validate:"required"`
	FromPins [2]int `yaml:"from_pins"`
	ToTile   string `yaml:"to_tile" validate:"required"`
	ToPins   [2]int `yaml:"to_pins"`
	XOffset  int    `yaml:"x_offset"`
	YOffset  int    `yaml:"y_offset"`
	Switch   string `yaml:"switch" validate:"required"`
}

// VIBSpec describes a versatile interconnect block. Endpoints are written
// as "pin:<n>", "seg:<segment>.<W|E|N|S>.<index>" or "mux:<name>".
type VIBSpec struct {
	Name         string            `yaml:"name" validate:"required"`
	Tile         string            `yaml:"tile" validate:"required"`
	Switch       string            `yaml:"switch" validate:"required"`
	FirstStages  []FirstStageSpec  `yaml:"first_stages" validate:"omitempty,dive"`
	SecondStages []SecondStageSpec `yaml:"second_stages" validate:"omitempty,dive"`
}

// FirstStageSpec is a first-stage multiplexer.
type FirstStageSpec struct {
	Name  string   `yaml:"name" validate:"required"`
	Froms []string `yaml:"from" validate:"required,min=1"`
}

// SecondStageSpec is a second-stage multiplexer.
type SecondStageSpec struct {
	Name  string   `yaml:"name"`
	Froms []string `yaml:"from" validate:"required,min=1"`
	Tos   []string `yaml:"to" validate:"required,min=1"`
}

// LoadArchFile reads and validates an architecture file.
func LoadArchFile(path string) (*Arch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading architecture file: %w", err)
	}

	return ParseArch(data)
}

// ParseArch decodes and validates an architecture description.
func ParseArch(data []byte) (*Arch, error) {
	arch := &Arch{}
	if err := yaml.Unmarshal(data, arch); err != nil {
		return nil, fmt.Errorf("decoding architecture: %w", err)
	}

	if err := arch.Validate(); err != nil {
		return nil, err
	}

	return arch, nil
}

// Validate checks the field constraints of the architecture.
func (a *Arch) Validate() error {
	if err := validate.Struct(a); err != nil {
		return formatValidationError(err)
	}

	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Namespace()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, e.Param())
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, e.Param())
		case "multiple_of_three":
			return fmt.Errorf("%s: must be a multiple of 3", field)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
