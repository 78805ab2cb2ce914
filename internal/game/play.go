package game

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/retroblast-engine/tilerun/actor"
	"github.com/retroblast-engine/tilerun/internal/render"
	"github.com/retroblast-engine/tilerun/scene"
)

// Play runs a tilemap scene: tiles animate, then the player moves.
type Play struct {
	Map      *scene.Tilemap
	renderer *render.Renderer
}

func NewPlay(m *scene.Tilemap) *Play {
	return &Play{Map: m, renderer: render.New()}
}

func (p *Play) Update(g *Game, in Input, dt time.Duration) Outcome {
	if in.Back {
		return Outcome{Quit: true}
	}
	if in.Outlines {
		p.renderer.Outlines = !p.renderer.Outlines
	}

	if err := p.Map.Update(dt); err != nil {
		return Fatal(err)
	}
	if in.Moving {
		p.Map.Move(in.Direction, dt)
	} else if p.Map.Player != nil {
		p.Map.Player.Action = actor.Stand
	}

	if in.Interact {
		if npc := p.Map.Interact(); npc != nil {
			log.Printf("[Play] %s %s is now %v", p.Map.Name, npc.Kind, npc)
		}
	}
	return Continue
}

func (p *Play) Draw(screen *ebiten.Image) {
	p.renderer.Draw(screen, p.Map)
}

// SetOutlines switches the collision outlines on or off.
func (p *Play) SetOutlines(on bool) {
	p.renderer.Outlines = on
}
