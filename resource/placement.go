package resource

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strconv"
)

// DefaultVelocity is the speed in pixels per second of actors placed without one.
const DefaultVelocity = 64

// Spawn places one actor on a map.
type Spawn struct {
	Walkabout string  `json:"walkabout"`
	Kind      string  `json:"kind,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Velocity  float64 `json:"velocity,omitempty"`

	// Active is kept raw: maps may write true, "true", "1" or garbage.
	Active json.RawMessage `json:"active,omitempty"`
}

// Speed returns the velocity, or DefaultVelocity when none is set.
func (s Spawn) Speed() float64 {
	if s.Velocity > 0 {
		return s.Velocity
	}
	return DefaultVelocity
}

// ActiveValue returns the activation property as text, "" when unset.
func (s Spawn) ActiveValue() string {
	if len(s.Active) == 0 {
		return ""
	}
	if v, err := strconv.Unquote(string(s.Active)); err == nil {
		return v
	}
	return string(s.Active)
}

// Placement lists where the player starts and which NPCs live on a map.
type Placement struct {
	Player *Spawn  `json:"player,omitempty"`
	NPCs   []Spawn `json:"npcs,omitempty"`
}

// Placement reads <name>.actors.json next to the tilemap. A missing file
// places the player at the origin and no NPCs.
func (p *Pack) Placement(name string) (*Placement, error) {
	data, err := fs.ReadFile(p.fsys, path.Join(TilemapDir, name+".actors.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return &Placement{}, nil
	}
	if err != nil {
		return nil, err
	}

	var pl Placement
	if err := json.Unmarshal(data, &pl); err != nil {
		return nil, fmt.Errorf("tilemap %s: parse placement: %w", name, err)
	}
	for i, npc := range pl.NPCs {
		if npc.Walkabout == "" {
			return nil, fmt.Errorf("tilemap %s: npc %d has no walkabout", name, i)
		}
	}
	return &pl, nil
}
