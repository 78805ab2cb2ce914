package actor

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidActive is returned when an activation value is not a boolean.
var ErrInvalidActive = errors.New("actor: active status must be true or false")

// Hooks is the behaviour an NPC kind runs when it is switched on or off.
type Hooks interface {
	OnActivation()
	OnDeactivation()
}

// Ticker is implemented by hooks that also run every frame.
type Ticker interface {
	Tick(n *NPC, dt time.Duration) error
}

// NopHooks does nothing on either transition.
type NopHooks struct{}

func (NopHooks) OnActivation()   {}
func (NopHooks) OnDeactivation() {}

// NPC is an actor controlled by the engine, with an on/off switch.
// The switch has no third state and cannot be cleared.
type NPC struct {
	Actor
	Kind string

	active bool
	hooks  Hooks
}

// NewNPC creates an inactive NPC. A nil hooks value means NopHooks.
func NewNPC(a *Actor, kind string, hooks Hooks) *NPC {
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &NPC{Actor: *a, Kind: kind, hooks: hooks}
}

// Active reports the switch position.
func (n *NPC) Active() bool {
	return n.active
}

// SetActive stores status and runs the matching hook. Setting the value it
// already has runs the hook again.
func (n *NPC) SetActive(status bool) {
	n.active = status
	if status {
		n.hooks.OnActivation()
	} else {
		n.hooks.OnDeactivation()
	}
}

// SetActiveValue parses a map property such as "true" or "0" and applies it.
// Anything else fails with ErrInvalidActive and leaves the NPC untouched.
func (n *NPC) SetActiveValue(value string) error {
	status, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%w: got %q", ErrInvalidActive, value)
	}
	n.SetActive(status)
	return nil
}

// Update advances the NPC's animation, then runs its hooks' Tick if they have one.
func (n *NPC) Update(dt time.Duration) error {
	n.Actor.Update(dt)
	if t, ok := n.hooks.(Ticker); ok {
		return t.Tick(n, dt)
	}
	return nil
}

func (n *NPC) String() string {
	if n.active {
		return "<Active NPC>"
	}
	return "<Inactive NPC>"
}
