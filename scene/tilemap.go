// Package scene runs a map: its tile grid, the player and the NPCs living on it.
package scene

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/retroblast-engine/tilerun/actor"
	"github.com/retroblast-engine/tilerun/resource"
	"github.com/retroblast-engine/tilerun/tilemap"
)

var ErrActorPanic = errors.New("scene: actor update panicked")

// Kinds maps an NPC kind to a constructor for its hooks.
type Kinds map[string]func() actor.Hooks

func (k Kinds) hooks(kind string) actor.Hooks {
	if newHooks, ok := k[kind]; ok {
		return newHooks()
	}
	return actor.NopHooks{}
}

// Tilemap is a map being played.
type Tilemap struct {
	Name   string
	Grid   *tilemap.Grid
	Player *actor.Player
	NPCs   []*actor.NPC
}

// NewTilemap assembles a scene from parts that are already loaded.
func NewTilemap(grid *tilemap.Grid, player *actor.Player, npcs ...*actor.NPC) *Tilemap {
	return &Tilemap{Grid: grid, Player: player, NPCs: npcs}
}

// Load reads a map with its placements from p. The player uses the walkabout
// named by character unless the placement names one.
func Load(p *resource.Pack, name, character string, kinds Kinds) (*Tilemap, error) {
	grid, err := p.Tilemap(name)
	if err != nil {
		return nil, err
	}
	placement, err := p.Placement(name)
	if err != nil {
		return nil, err
	}

	start := resource.Spawn{Walkabout: character}
	if placement.Player != nil {
		start = *placement.Player
		if start.Walkabout == "" {
			start.Walkabout = character
		}
	}
	w, err := p.Walkabout(start.Walkabout)
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	speed := start.Speed()
	player := actor.NewPlayer(w, actor.Vec{X: start.X, Y: start.Y}, actor.Vec{X: speed, Y: speed})

	s := NewTilemap(grid, player)
	s.Name = name
	for i, spawn := range placement.NPCs {
		w, err := p.Walkabout(spawn.Walkabout)
		if err != nil {
			return nil, fmt.Errorf("npc %d: %w", i, err)
		}
		speed := spawn.Speed()
		npc := actor.NewNPC(actor.New(w, actor.Vec{X: spawn.X, Y: spawn.Y}, actor.Vec{X: speed, Y: speed}), spawn.Kind, kinds.hooks(spawn.Kind))
		if v := spawn.ActiveValue(); v != "" {
			if err := npc.SetActiveValue(v); err != nil {
				return nil, fmt.Errorf("npc %d (%s): %w", i, spawn.Kind, err)
			}
		}
		s.NPCs = append(s.NPCs, npc)
	}
	return s, nil
}

// Update advances tile animations first, then the player and every NPC.
// A failing NPC does not stop the others; all failures are joined.
func (s *Tilemap) Update(dt time.Duration) error {
	s.Grid.Update(dt)
	if s.Player != nil {
		s.Player.Update(dt)
	}

	var errs []error
	for i, npc := range s.NPCs {
		if err := updateNPC(npc, dt); err != nil {
			errs = append(errs, fmt.Errorf("npc %d (%s): %w", i, npc.Kind, err))
		}
	}
	return errors.Join(errs...)
}

func updateNPC(npc *actor.NPC, dt time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrActorPanic, r)
		}
	}()
	return npc.Update(dt)
}

// Move walks the player towards dir. It reports whether the player moved.
func (s *Tilemap) Move(dir actor.Direction, dt time.Duration) bool {
	if s.Player == nil {
		return false
	}
	return s.Player.Move(s, dir, dt)
}

// IntersectsSolid reports whether r hits a solid tile or an NPC body. NPCs
// already overlapping the player do not block, so it can walk out of them.
func (s *Tilemap) IntersectsSolid(r image.Rectangle) bool {
	if s.Grid.IntersectsSolid(r) {
		return true
	}
	var current image.Rectangle
	if s.Player != nil {
		current = s.Player.Bounds()
	}
	for _, npc := range s.NPCs {
		body := npc.Bounds()
		if body.Overlaps(r) && !body.Overlaps(current) {
			return true
		}
	}
	return false
}

// CollideCheck returns the first NPC whose body overlaps r, or nil.
func (s *Tilemap) CollideCheck(r image.Rectangle) *actor.NPC {
	for _, npc := range s.NPCs {
		if npc.Bounds().Overlaps(r) {
			return npc
		}
	}
	return nil
}

// Interact flips the switch of the NPC right in front of the player and
// returns it, or nil when nobody is there.
func (s *Tilemap) Interact() *actor.NPC {
	if s.Player == nil {
		return nil
	}
	dx, dy := s.Player.Direction.Unit()
	npc := s.CollideCheck(s.Player.Bounds().Add(image.Pt(int(dx), int(dy))))
	if npc != nil {
		npc.SetActive(!npc.Active())
	}
	return npc
}
