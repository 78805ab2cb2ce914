// Package actor holds the moving entities of a scene: the human player and NPCs.
package actor

import (
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	"github.com/retroblast-engine/tilerun/anim"
)

// Direction is one of the four cardinal directions an actor can face.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

var directionNames = [...]string{"north", "east", "south", "west"}

func (d Direction) String() string {
	if d < North || d > West {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection accepts the lower case names used in walkabout tags.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if strings.EqualFold(s, name) {
			return Direction(i), nil
		}
	}
	return North, fmt.Errorf("actor: unknown direction %q", s)
}

// Unit returns the signed axis step for the direction, screen coordinates.
func (d Direction) Unit() (dx, dy float64) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	}
	return 0, 0
}

// Vertical reports whether the direction moves along the Y axis.
func (d Direction) Vertical() bool {
	return d == North || d == South
}

// Action is what the actor is visibly doing.
type Action int

const (
	Stand Action = iota
	Walk
)

var actionNames = [...]string{"stand", "walk"}

func (a Action) String() string {
	if a < Stand || a > Walk {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction accepts "stand" or "walk".
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if strings.EqualFold(s, name) {
			return Action(i), nil
		}
	}
	return Stand, fmt.Errorf("actor: unknown action %q", s)
}

// Vec is a floating point pair, used for sub pixel positions and per axis speeds.
type Vec struct {
	X, Y float64
}

// Actor is the state shared by the player and NPCs.
type Actor struct {
	Pos       Vec         // top left corner, sub pixel precision
	Size      image.Point // width and height in pixels
	Direction Direction
	Action    Action
	Velocity  Vec // pixels per second along each axis
	Walkabout *Walkabout

	playing *anim.Clock
}

// New places an actor at pos, standing and facing south. Its size starts at the
// envelope of the standing animation.
func New(w *Walkabout, pos Vec, velocity Vec) *Actor {
	a := &Actor{
		Pos:       pos,
		Direction: South,
		Action:    Stand,
		Velocity:  velocity,
		Walkabout: w,
	}
	if c := a.Animation(); c != nil {
		a.Size = c.LargestFrameSize()
	}
	return a
}

// rectAt builds the pixel rectangle of the actor placed at a float position.
func rectAt(pos Vec, size image.Point) image.Rectangle {
	x, y := int(math.Floor(pos.X)), int(math.Floor(pos.Y))
	return image.Rect(x, y, x+size.X, y+size.Y)
}

// Bounds is the actor's current rectangle.
func (a *Actor) Bounds() image.Rectangle {
	return rectAt(a.Pos, a.Size)
}

// Image returns the frame the walkabout selects for the current action and direction.
func (a *Actor) Image() image.Image {
	if c := a.Animation(); c != nil {
		return c.Image()
	}
	return nil
}

// Animation returns the clock for the current action and direction, nil without a walkabout.
func (a *Actor) Animation() *anim.Clock {
	if a.Walkabout == nil {
		return nil
	}
	return a.Walkabout.Animation(a.Action, a.Direction)
}

// Update advances the animation for the current action and direction. A clock
// that just became current starts from its first frame.
func (a *Actor) Update(dt time.Duration) {
	c := a.Animation()
	if c == nil {
		return
	}
	if c != a.playing {
		c.Reset()
		a.playing = c
	}
	c.Advance(dt)
}
