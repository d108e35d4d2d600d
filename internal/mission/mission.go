// Package mission holds the parameters that drive map generation.
package mission

import (
	"bytes"
	"cdogs-mapgen/internal/gamemap"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Kind selects the generator.
type Kind string

const (
	KindCave     Kind = "cave"
	KindInterior Kind = "interior"
)

// Map size limits. The lower bound leaves room for a 9x9 exit.
const (
	MinMapSize = 16
	MaxMapSize = 512
)

// RoomParams controls room sizes and decorative inner walls.
type RoomParams struct {
	Count      int  `json:"count"`
	Min        int  `json:"min"`
	Max        int  `json:"max"`
	Overlap    bool `json:"overlap"`
	Walls      int  `json:"walls"`
	WallLength int  `json:"wall_length"`
	WallPad    int  `json:"wall_pad"`
}

// DoorParams controls door runs and how many keys may be placed.
type DoorParams struct {
	Enabled   bool `json:"enabled"`
	Min       int  `json:"min"`
	Max       int  `json:"max"`
	RandomPos bool `json:"random_pos"`
	Keys      int  `json:"keys"`
}

// PillarParams controls how many off-path areas become solid blocks.
type PillarParams struct {
	Count int `json:"count"`
}

// CaveParams drives the cellular automaton generator.
type CaveParams struct {
	FillPercent   int        `json:"fill_percent"`
	Repeat        int        `json:"repeat"`
	R1            int        `json:"r1"`
	R2            int        `json:"r2"`
	CorridorWidth int        `json:"corridor_width"`
	Squares       int        `json:"squares"`
	Rooms         RoomParams `json:"rooms"`
	Doors         DoorParams `json:"doors"`
	ExitEnabled   bool       `json:"exit_enabled"`
}

// InteriorParams drives the BSP generator.
type InteriorParams struct {
	CorridorWidth int          `json:"corridor_width"`
	Rooms         RoomParams   `json:"rooms"`
	Doors         DoorParams   `json:"doors"`
	Pillars       PillarParams `json:"pillars"`
	ExitEnabled   bool         `json:"exit_enabled"`
}

// Mission is one level's generation input. It is never mutated by the
// generators.
type Mission struct {
	Kind     Kind                `json:"kind"`
	Width    int                 `json:"width"`
	Height   int                 `json:"height"`
	Seed     int64               `json:"seed"`
	Index    int                 `json:"index"`
	Cave     CaveParams          `json:"cave"`
	Interior InteriorParams      `json:"interior"`
	Tiles    gamemap.TileClasses `json:"tiles"`
}

func defaultCaveParams() CaveParams {
	return CaveParams{
		FillPercent:   40,
		Repeat:        4,
		R1:            5,
		R2:            2,
		CorridorWidth: 2,
		Squares:       1,
		Rooms: RoomParams{
			Count:      4,
			Min:        6,
			Max:        10,
			Overlap:    true,
			Walls:      1,
			WallLength: 3,
			WallPad:    1,
		},
		Doors:       DoorParams{Enabled: true, Min: 1, Max: 2, Keys: gamemap.KeyCount},
		ExitEnabled: true,
	}
}

func defaultInteriorParams() InteriorParams {
	return InteriorParams{
		CorridorWidth: 3,
		Rooms: RoomParams{
			Min:        8,
			Max:        16,
			Walls:      2,
			WallLength: 4,
			WallPad:    1,
		},
		Doors:       DoorParams{Enabled: true, Min: 1, Max: 2, Keys: gamemap.KeyCount},
		Pillars:     PillarParams{Count: 2},
		ExitEnabled: true,
	}
}

// Default returns a working mission of the given kind. Both parameter blocks
// are filled so the kind can be switched without losing settings.
func Default(kind Kind, width, height int) Mission {
	return Mission{
		Kind:     kind,
		Width:    width,
		Height:   height,
		Seed:     1,
		Cave:     defaultCaveParams(),
		Interior: defaultInteriorParams(),
		Tiles:    gamemap.DefaultTileClasses(),
	}
}

// DefaultCave returns a cave mission preset.
func DefaultCave(width, height int) Mission { return Default(KindCave, width, height) }

// DefaultInterior returns an interior mission preset.
func DefaultInterior(width, height int) Mission { return Default(KindInterior, width, height) }

// Load reads a mission from a JSON file.
func Load(path string) (Mission, error) {
	f, err := os.Open(path)
	if err != nil {
		return Mission{}, fmt.Errorf("load mission: %w", err)
	}
	defer f.Close()
	m, err := Decode(f)
	if err != nil {
		return Mission{}, fmt.Errorf("load mission %s: %w", path, err)
	}
	return m, nil
}

// Decode reads a JSON mission. Fields absent from the input keep the
// defaults for the mission's kind, and the result is validated.
func Decode(r io.Reader) (Mission, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Mission{}, fmt.Errorf("read mission: %w", err)
	}
	var head struct {
		Kind   Kind `json:"kind"`
		Width  int  `json:"width"`
		Height int  `json:"height"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Mission{}, fmt.Errorf("decode mission: %w", err)
	}
	if head.Kind == "" {
		head.Kind = KindInterior
	}
	m := Default(head.Kind, 64, 64)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return Mission{}, fmt.Errorf("decode mission: %w", err)
	}
	m.Tiles = m.Tiles.Normalize()
	if err := m.Validate(); err != nil {
		return Mission{}, err
	}
	return m, nil
}

// Validate reports every out-of-range parameter of the selected kind.
func (m Mission) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	if m.Width < MinMapSize || m.Width > MaxMapSize {
		bad("width %d not in [%d,%d]", m.Width, MinMapSize, MaxMapSize)
	}
	if m.Height < MinMapSize || m.Height > MaxMapSize {
		bad("height %d not in [%d,%d]", m.Height, MinMapSize, MaxMapSize)
	}
	if m.Index < 0 {
		bad("mission index %d is negative", m.Index)
	}
	switch m.Kind {
	case KindCave:
		c := m.Cave
		if c.FillPercent < 0 || c.FillPercent > 100 {
			bad("cave: fill_percent %d not in [0,100]", c.FillPercent)
		}
		if c.Repeat < 0 {
			bad("cave: repeat %d is negative", c.Repeat)
		}
		if c.R1 < 0 || c.R1 > 9 {
			bad("cave: r1 %d not in [0,9]", c.R1)
		}
		if c.R2 < 0 || c.R2 > 25 {
			bad("cave: r2 %d not in [0,25]", c.R2)
		}
		if c.CorridorWidth < 1 {
			bad("cave: corridor_width %d < 1", c.CorridorWidth)
		}
		if c.Squares < 0 {
			bad("cave: squares %d is negative", c.Squares)
		}
		errs = append(errs, c.Rooms.validate("cave")...)
		errs = append(errs, c.Doors.validate("cave")...)
	case KindInterior:
		in := m.Interior
		if in.CorridorWidth < 1 {
			bad("interior: corridor_width %d < 1", in.CorridorWidth)
		}
		if in.Pillars.Count < 0 {
			bad("interior: pillars.count %d is negative", in.Pillars.Count)
		}
		errs = append(errs, in.Rooms.validate("interior")...)
		errs = append(errs, in.Doors.validate("interior")...)
	default:
		bad("unknown kind %q", m.Kind)
	}
	return errors.Join(errs...)
}

func (r RoomParams) validate(kind string) []error {
	var errs []error
	if r.Count < 0 {
		errs = append(errs, fmt.Errorf("%s: rooms.count %d is negative", kind, r.Count))
	}
	if r.Min < 3 {
		errs = append(errs, fmt.Errorf("%s: rooms.min %d < 3", kind, r.Min))
	}
	if r.Min > r.Max {
		errs = append(errs, fmt.Errorf("%s: rooms.min %d > rooms.max %d", kind, r.Min, r.Max))
	}
	if r.Walls < 0 || r.WallLength < 0 || r.WallPad < 0 {
		errs = append(errs, fmt.Errorf("%s: rooms wall settings must not be negative", kind))
	}
	return errs
}

func (d DoorParams) validate(kind string) []error {
	var errs []error
	if d.Min < 1 {
		errs = append(errs, fmt.Errorf("%s: doors.min %d < 1", kind, d.Min))
	}
	if d.Min > d.Max {
		errs = append(errs, fmt.Errorf("%s: doors.min %d > doors.max %d", kind, d.Min, d.Max))
	}
	if d.Keys < 0 || d.Keys > gamemap.KeyCount {
		errs = append(errs, fmt.Errorf("%s: doors.keys %d not in [0,%d]", kind, d.Keys, gamemap.KeyCount))
	}
	return errs
}
