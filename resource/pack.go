// Package resource opens the assets of a game directory: tilemaps, their tile
// definitions and actor placements, walkabouts and fonts.
package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/retroblast-engine/tilerun/actor"
	"github.com/retroblast-engine/tilerun/aseprite"
	"github.com/retroblast-engine/tilerun/tile"
	"github.com/retroblast-engine/tilerun/tilemap"
)

const (
	TilemapDir   = "resources/tilemaps"
	WalkaboutDir = "resources/walkabouts"
	FontDir      = "resources/fonts"
)

var ErrNoTilemapLayers = errors.New("resource: sprite has no tilemap layers")

// Pack reads resources from a game directory.
type Pack struct {
	fsys fs.FS
}

// New wraps the root of a game directory, for example os.DirFS(path).
func New(fsys fs.FS) *Pack {
	return &Pack{fsys: fsys}
}

// Sprite decodes an aseprite file.
func (p *Pack) Sprite(name string) (*aseprite.File, error) {
	f, err := p.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sprite, err := aseprite.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return sprite, nil
}

// Tilemap builds the collision grid of a map from the tilemap layers of
// <name>.aseprite and the tile definitions in <name>.tiles.json, which may be absent.
func (p *Pack) Tilemap(name string) (*tilemap.Grid, error) {
	sprite, err := p.Sprite(path.Join(TilemapDir, name+".aseprite"))
	if err != nil {
		return nil, err
	}

	defs, err := p.Definitions(name)
	if err != nil {
		return nil, err
	}

	layers, err := sprite.TilemapLayers(0)
	if err != nil {
		return nil, fmt.Errorf("tilemap %s: %w", name, err)
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("tilemap %s: %w", name, ErrNoTilemapLayers)
	}

	first := layers[0]
	grid, err := tilemap.New(first.Columns, first.Rows, first.Tileset.TileWidth, first.Tileset.TileHeight)
	if err != nil {
		return nil, fmt.Errorf("tilemap %s: %w", name, err)
	}

	for _, l := range layers {
		sheet, err := l.Tileset.Sheet()
		if err != nil {
			return nil, fmt.Errorf("tilemap %s: %w", name, err)
		}
		if err := grid.Build(l.Name, sheet, l.IDs, defs); err != nil {
			return nil, fmt.Errorf("tilemap %s: %w", name, err)
		}
	}
	return grid, nil
}

// Definitions reads <name>.tiles.json. A missing file means no definitions.
func (p *Pack) Definitions(name string) (tile.Definitions, error) {
	f, err := p.fsys.Open(path.Join(TilemapDir, name+".tiles.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return tile.Definitions{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	defs, err := tile.ReadDefinitions(f)
	if err != nil {
		return nil, fmt.Errorf("tilemap %s: %w", name, err)
	}
	return defs, nil
}

// Walkabout builds a character's animations from the tags of its sprite.
// Tags are named after an action and optionally a direction, like "walk_north".
func (p *Pack) Walkabout(name string) (*actor.Walkabout, error) {
	sprite, err := p.Sprite(path.Join(WalkaboutDir, name+".aseprite"))
	if err != nil {
		return nil, err
	}

	w := actor.NewWalkabout(name)
	// Tags with a direction go first so a bare action only fills the gaps.
	for _, explicit := range []bool{true, false} {
		for _, tag := range sprite.Tags {
			if strings.Contains(tag.Name, "_") != explicit {
				continue
			}
			clock, err := sprite.Clock(tag)
			if err != nil {
				return nil, fmt.Errorf("walkabout %s: %w", name, err)
			}
			if err := w.SetTagged(tag.Name, clock); err != nil {
				return nil, err
			}
		}
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Font returns the raw bytes of a font file.
func (p *Pack) Font(name string) ([]byte, error) {
	return fs.ReadFile(p.fsys, path.Join(FontDir, name))
}
