package actor

import (
	"image"
	"math"
	"time"
)

// Collider answers whether a rectangle overlaps anything impassable.
type Collider interface {
	IntersectsSolid(r image.Rectangle) bool
}

// Player is the actor under the control of the human player.
type Player struct {
	Actor
}

// NewPlayer places a player at pos.
func NewPlayer(w *Walkabout, pos Vec, velocity Vec) *Player {
	return &Player{Actor: *New(w, pos, velocity)}
}

// Move walks the player as far as it legally can towards dir during elapsed.
//
// The planned distance is the velocity along the movement axis. Step counts are
// tried from floor(planned), at least 1, down to 1; each step is scaled by the
// elapsed seconds and the first one whose sweep, the union of the current and
// the destination rectangle, touches no solid tile is taken. Once the search
// reaches a step of 2 the scale is pinned to 1 for that and every smaller step.
//
// The facing always changes, even when every step is blocked. A blocked player
// stands still and Move returns false; that is not an error.
func (p *Player) Move(c Collider, dir Direction, elapsed time.Duration) bool {
	p.Direction = dir

	planned := p.Velocity.X
	if dir.Vertical() {
		planned = p.Velocity.Y
	}

	scale := elapsed.Seconds()
	maxStep := 1
	if steps := math.Floor(planned); steps > 1 {
		maxStep = int(steps)
	}

	dx, dy := dir.Unit()
	current := p.Bounds()

	for step := maxStep; step >= 1; step-- {
		// Steps of 2 and below move whole pixels.
		if step == 2 {
			scale = 1
		}

		offset := float64(step) * scale
		next := Vec{X: p.Pos.X + dx*offset, Y: p.Pos.Y + dy*offset}
		sweep := current.Union(rectAt(next, p.Size))

		if c.IntersectsSolid(sweep) {
			continue
		}

		p.Action = Walk
		if a := p.Animation(); a != nil {
			p.Size = a.LargestFrameSize()
		}
		p.Pos = next
		return true
	}

	p.Action = Stand
	return false
}
