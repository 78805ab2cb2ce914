package actor

import (
	"fmt"
	"strings"

	"github.com/retroblast-engine/tilerun/anim"
)

type animationKey struct {
	action    Action
	direction Direction
}

// Walkabout is the set of animations of one character, one per action and direction.
type Walkabout struct {
	Name       string
	animations map[animationKey]*anim.Clock
}

// NewWalkabout creates an empty walkabout.
func NewWalkabout(name string) *Walkabout {
	return &Walkabout{Name: name, animations: make(map[animationKey]*anim.Clock)}
}

// Set registers the animation played for an action while facing a direction.
func (w *Walkabout) Set(action Action, direction Direction, clock *anim.Clock) {
	w.animations[animationKey{action, direction}] = clock
}

// SetTagged registers an animation under a tag such as "walk_north".
// A bare action tag ("stand") applies to every direction not set explicitly.
func (w *Walkabout) SetTagged(tag string, clock *anim.Clock) error {
	actionName, dirName, hasDir := strings.Cut(tag, "_")

	action, err := ParseAction(actionName)
	if err != nil {
		return fmt.Errorf("walkabout %s: tag %q: %w", w.Name, tag, err)
	}

	if !hasDir {
		for d := North; d <= West; d++ {
			if _, ok := w.animations[animationKey{action, d}]; !ok {
				w.Set(action, d, clock)
			}
		}
		return nil
	}

	direction, err := ParseDirection(dirName)
	if err != nil {
		return fmt.Errorf("walkabout %s: tag %q: %w", w.Name, tag, err)
	}
	w.Set(action, direction, clock)
	return nil
}

// Animation returns the clock for action and direction. Missing walk animations
// fall back to standing, missing directions to south.
func (w *Walkabout) Animation(action Action, direction Direction) *anim.Clock {
	if c, ok := w.animations[animationKey{action, direction}]; ok {
		return c
	}
	if action != Stand {
		return w.Animation(Stand, direction)
	}
	if direction != South {
		return w.animations[animationKey{Stand, South}]
	}
	return nil
}

// Validate checks that at least a standing animation facing south exists.
func (w *Walkabout) Validate() error {
	if w.Animation(Stand, South) == nil {
		return fmt.Errorf("walkabout %s: no stand animation facing south", w.Name)
	}
	return nil
}
