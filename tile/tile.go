// Package tile implements a single map cell: its image, flags and animation.
package tile

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/retroblast-engine/tilerun/anim"
)

// Blank is the tile id of a cell without an image.
const Blank = -1

var (
	ErrEmptyAnimation = errors.New("tile: animated tile has no animation frames")
	ErrBadDuration    = errors.New("tile: animation frame duration must be positive")
	ErrUnknownTile    = errors.New("tile: tile id not in sheet")
)

// AnimationFrame is one (tile id, duration) pair of an animated tile.
type AnimationFrame struct {
	TileID   int
	Duration time.Duration
}

// Metadata is the optional per tile data loaded with the map.
type Metadata struct {
	Animation []AnimationFrame
}

// Tile is one grid cell. Update refreshes Image and Bounds.
type Tile struct {
	ID       int
	Flags    Flags
	Metadata Metadata

	Image  image.Image
	Bounds image.Rectangle

	sheet Sheet
	clock *anim.Clock
}

// New builds a tile and validates its animation up front.
func New(sheet Sheet, id int, flags Flags, meta Metadata) (*Tile, error) {
	t := &Tile{
		ID:       id,
		Flags:    flags,
		Metadata: meta,
		sheet:    sheet,
		Bounds:   image.Rect(0, 0, sheet.TileWidth(), sheet.TileHeight()),
	}

	if id != Blank && (id < 0 || id >= sheet.Len()) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTile, id)
	}

	if !t.IsAnimated() {
		return t, nil
	}

	if len(meta.Animation) == 0 {
		return nil, fmt.Errorf("tile %d: %w", id, ErrEmptyAnimation)
	}

	sources := make([]anim.Source, len(meta.Animation))
	for i, f := range meta.Animation {
		if f.Duration <= 0 {
			return nil, fmt.Errorf("tile %d frame %d: %w (got %v)", id, i, ErrBadDuration, f.Duration)
		}
		img := sheet.Tile(f.TileID)
		if img == nil {
			return nil, fmt.Errorf("tile %d frame %d: %w: %d", id, i, ErrUnknownTile, f.TileID)
		}
		sources[i] = anim.Source{Image: img, Duration: f.Duration}
	}

	clock, err := anim.NewClock(sources)
	if err != nil {
		return nil, fmt.Errorf("tile %d: %w", id, err)
	}
	t.clock = clock

	return t, nil
}

// Update refreshes Image and Bounds. Blank tiles are skipped, static tiles
// fetch their image once.
func (t *Tile) Update(dt time.Duration) {
	if t.ID == Blank {
		return
	}

	if t.clock != nil {
		t.clock.Advance(dt)
		t.Image = t.clock.Image()
	} else if t.Image == nil {
		t.Image = t.sheet.Tile(t.ID)
	}

	if t.Image != nil {
		b := t.Image.Bounds()
		t.Bounds = image.Rect(0, 0, b.Dx(), b.Dy())
	}
}

// Clock returns the animation clock of an animated tile, nil otherwise.
func (t *Tile) Clock() *anim.Clock {
	return t.clock
}

func (t *Tile) IsSolid() bool        { return t.Flags.Has(Solid) }
func (t *Tile) IsDestructible() bool { return t.Flags.Has(Destructible) }
func (t *Tile) IsAnimated() bool     { return t.Flags.Has(Animated) }
