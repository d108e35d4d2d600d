// cdogs-mapgen builds cave and interior maps from a mission and either dumps
// them as text or opens an interactive preview in the terminal.
package main

import (
	"cdogs-mapgen/internal/gamemap"
	"cdogs-mapgen/internal/generate"
	"cdogs-mapgen/internal/mission"
	"cdogs-mapgen/internal/viewer"
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
)

func main() {
	kind := flag.String("kind", string(mission.KindInterior), "Generator: cave or interior")
	seed := flag.Int64("seed", 1, "Random seed")
	width := flag.Int("w", 80, "Map width")
	height := flag.Int("h", 60, "Map height")
	missionFile := flag.String("mission", "", "JSON mission file (overrides -kind, -w and -h)")
	dump := flag.Bool("dump", false, "Print the map as text and exit")
	theme := flag.String("theme", "ascii", "Preview theme: ascii or emoji")
	flag.Parse()

	m, err := loadMission(*missionFile, mission.Kind(*kind), *width, *height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if flagSet("seed") || *missionFile == "" {
		m.Seed = *seed
	}

	if *dump {
		gm, err := generate.Generate(&generate.Config{Mission: m})
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(gamemap.Format(gm))
		return
	}

	if err := preview(m, *theme); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadMission(path string, kind mission.Kind, width, height int) (mission.Mission, error) {
	if path != "" {
		return mission.Load(path)
	}
	m := mission.Default(kind, width, height)
	return m, m.Validate()
}

func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func preview(m mission.Mission, theme string) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tcell.NewScreen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen.Init: %w", err)
	}
	defer screen.Fini()

	v, err := viewer.New(screen, m)
	if err != nil {
		return err
	}
	if err := v.UseTheme(theme); err != nil {
		return err
	}
	v.Run()
	return nil
}
