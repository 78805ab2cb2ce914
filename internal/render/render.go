// Package render draws a running map onto an ebiten screen.
package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/retroblast-engine/tilerun/actor"
	"github.com/retroblast-engine/tilerun/scene"
	"github.com/retroblast-engine/tilerun/tile"
)

var (
	solidOutline  = color.RGBA{R: 255, A: 160}
	actorOutline  = color.RGBA{G: 255, A: 160}
	activeOutline = color.RGBA{R: 255, G: 220, A: 200}
)

// Renderer converts decoded images to GPU images once and draws scenes with them.
type Renderer struct {
	// Outlines draws solid cells and actor bodies on top of the scene.
	Outlines bool

	textures map[image.Image]*ebiten.Image
}

func New() *Renderer {
	return &Renderer{textures: make(map[image.Image]*ebiten.Image)}
}

func (r *Renderer) texture(img image.Image) *ebiten.Image {
	if e, ok := img.(*ebiten.Image); ok {
		return e
	}
	if tex, ok := r.textures[img]; ok {
		return tex
	}
	tex := ebiten.NewImageFromImage(img)
	r.textures[img] = tex
	return tex
}

// Draw paints the tile layers bottom first, then NPCs and the player.
func (r *Renderer) Draw(screen *ebiten.Image, s *scene.Tilemap) {
	cam := s.Viewport(screen.Bounds().Size()).Min

	for _, layer := range s.Grid.Layers {
		for i, t := range layer.Tiles {
			if t == nil || t.ID == tile.Blank || t.Image == nil {
				continue
			}
			cell := s.Grid.CellRect(i%s.Grid.Columns, i/s.Grid.Columns)
			r.drawAt(screen, t.Image, cell.Min.Sub(cam))
		}
	}

	for _, npc := range s.NPCs {
		r.drawActor(screen, &npc.Actor, cam)
	}
	if s.Player != nil {
		r.drawActor(screen, &s.Player.Actor, cam)
	}

	if r.Outlines {
		r.drawOutlines(screen, s, cam)
	}
}

func (r *Renderer) drawActor(screen *ebiten.Image, a *actor.Actor, cam image.Point) {
	if img := a.Image(); img != nil {
		r.drawAt(screen, img, a.Bounds().Min.Sub(cam))
	}
}

func (r *Renderer) drawAt(screen *ebiten.Image, img image.Image, at image.Point) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(at.X), float64(at.Y))
	screen.DrawImage(r.texture(img), op)
}

func (r *Renderer) drawOutlines(screen *ebiten.Image, s *scene.Tilemap, cam image.Point) {
	g := s.Grid
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Columns; col++ {
			cell := g.CellRect(col, row)
			if g.IntersectsSolid(cell) {
				strokeRect(screen, cell.Sub(cam), solidOutline)
			}
		}
	}

	for _, npc := range s.NPCs {
		c := actorOutline
		if npc.Active() {
			c = activeOutline
		}
		strokeRect(screen, npc.Bounds().Sub(cam), c)
	}
	if s.Player != nil {
		strokeRect(screen, s.Player.Bounds().Sub(cam), actorOutline)
	}
}

func strokeRect(screen *ebiten.Image, r image.Rectangle, c color.Color) {
	vector.StrokeRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, c, false)
}
