package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/retroblast-engine/tilerun/actor"
)

// Input is the player's intent for one tick.
type Input struct {
	Direction actor.Direction
	Moving    bool // a direction key is held

	Interact bool // pressed this tick
	Back     bool
	Outlines bool
}

var directionKeys = []struct {
	dir  actor.Direction
	keys []ebiten.Key
}{
	{actor.North, []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}},
	{actor.South, []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}},
	{actor.West, []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}},
	{actor.East, []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}},
}

func readInput() Input {
	var in Input
	for _, dk := range directionKeys {
		for _, k := range dk.keys {
			if ebiten.IsKeyPressed(k) {
				in.Direction, in.Moving = dk.dir, true
				break
			}
		}
		if in.Moving {
			break
		}
	}

	in.Interact = inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter)
	in.Back = inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	in.Outlines = inpututil.IsKeyJustPressed(ebiten.KeyF3)
	return in
}
