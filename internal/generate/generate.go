// Package generate builds maps from mission parameters with either the
// cellular automaton cave generator or the BSP interior generator.
package generate

import (
	"cdogs-mapgen/internal/gamemap"
	"cdogs-mapgen/internal/mission"
	"fmt"
	"math/rand"
)

// Config drives one generation run.
type Config struct {
	Mission mission.Mission
	// Rand is the random source. When nil one is seeded from Mission.Seed.
	Rand *rand.Rand
	// Logf receives trace events. Nil is silent.
	Logf func(format string, args ...any)
}

// Generate validates the mission and builds its map. The only errors come
// from validation; the generators themselves always produce a map, placing
// fewer rooms or keys than asked for when space runs out.
func Generate(cfg *Config) (*gamemap.Map, error) {
	m := cfg.Mission
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(m.Seed))
	}
	b := NewBuilder(m.Width, m.Height, m.Tiles.Normalize(), rng)
	b.Logf = cfg.Logf

	switch m.Kind {
	case mission.KindCave:
		Cave(b, m.Cave, m.Index)
	case mission.KindInterior:
		Interior(b, m.Interior, m.Index)
	default:
		return nil, fmt.Errorf("generate: unknown mission kind %q", m.Kind)
	}
	return b.Map, nil
}
