package main

import (
	"flag"
	"log"
	"os"

	"github.com/retroblast-engine/tilerun/actor"
	"github.com/retroblast-engine/tilerun/config"
	"github.com/retroblast-engine/tilerun/internal/game"
	"github.com/retroblast-engine/tilerun/resource"
	"github.com/retroblast-engine/tilerun/scene"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	dir := flag.String("game", ".", "game directory holding config.json and resources/")
	tilemap := flag.String("tilemap", "", "start on this tilemap instead of starting_tilemap")
	outlines := flag.Bool("outlines", false, "draw solid cells and actor bodies (toggle with F3)")
	flag.Parse()

	fsys := os.DirFS(*dir)
	cfg, err := config.LoadGame(fsys)
	if err != nil {
		log.Fatalf("Game config error: %v", err)
	}
	user, err := cfg.LoadUser()
	if err != nil {
		log.Fatalf("User config error: %v", err)
	}

	pack := resource.New(fsys)
	face, err := game.LoadFace(pack, cfg)
	if err != nil {
		log.Fatalf("Font error: %v", err)
	}

	start := cfg.StartingTilemap
	if *tilemap != "" {
		start = *tilemap
	}
	g := game.New(cfg, user, face)

	m, err := scene.Load(pack, start, cfg.PlayerCharacter, scene.Kinds{"door": newDoor})
	if err != nil {
		// The window still opens so the error is shown in game.
		log.Printf("Tilemap %s failed to load: %v", start, err)
		g.Push(game.NewDiagnostic(err, face))
	} else {
		log.Printf("Tilemap loaded: %s (%dx%d, %d npcs)", start, m.Grid.Columns, m.Grid.Rows, len(m.NPCs))
		play := game.NewPlay(m)
		play.SetOutlines(*outlines)
		g.Push(play)
	}

	if err := g.Run(); err != nil {
		log.Fatalf("Game error: %v", err)
	}
}

// door locks while active.
type door struct{}

func newDoor() actor.Hooks { return door{} }

func (door) OnActivation()   { log.Println("Door locked") }
func (door) OnDeactivation() { log.Println("Door unlocked") }
