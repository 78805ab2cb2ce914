// Package tilemap holds the tile grid of a map and answers collision queries on it.
package tilemap

import (
	"fmt"
	"image"
	"time"

	"github.com/retroblast-engine/tilerun/tile"
)

// Layer is one plane of tiles, stored row by row.
type Layer struct {
	Name  string
	Tiles []*tile.Tile
}

// Grid is a stack of equally sized layers on a common cell size.
type Grid struct {
	Columns, Rows         int
	TileWidth, TileHeight int
	Layers                []Layer
}

// New creates an empty grid. Layers are added with AddLayer.
func New(columns, rows, tileWidth, tileHeight int) (*Grid, error) {
	if columns <= 0 || rows <= 0 {
		return nil, fmt.Errorf("tilemap: invalid grid size %dx%d", columns, rows)
	}
	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, fmt.Errorf("tilemap: invalid tile size %dx%d", tileWidth, tileHeight)
	}
	return &Grid{Columns: columns, Rows: rows, TileWidth: tileWidth, TileHeight: tileHeight}, nil
}

// AddLayer appends a layer. tiles must hold exactly Columns*Rows cells.
func (g *Grid) AddLayer(name string, tiles []*tile.Tile) error {
	if len(tiles) != g.Columns*g.Rows {
		return fmt.Errorf("tilemap: layer %q has %d tiles, want %d", name, len(tiles), g.Columns*g.Rows)
	}
	g.Layers = append(g.Layers, Layer{Name: name, Tiles: tiles})
	return nil
}

// Build creates a layer from tile ids, resolving flags and animations through defs.
func (g *Grid) Build(name string, sheet tile.Sheet, ids []int, defs tile.Definitions) error {
	tiles := make([]*tile.Tile, len(ids))
	for i, id := range ids {
		def := defs.Lookup(id)
		t, err := tile.New(sheet, id, def.Flags, def.Metadata)
		if err != nil {
			return fmt.Errorf("layer %q cell (%d,%d): %w", name, i%g.Columns, i/g.Columns, err)
		}
		tiles[i] = t
	}
	return g.AddLayer(name, tiles)
}

// At returns the tile of a layer at a grid coordinate, nil when outside the grid.
func (g *Grid) At(layer, col, row int) *tile.Tile {
	if layer < 0 || layer >= len(g.Layers) || !g.inside(col, row) {
		return nil
	}
	return g.Layers[layer].Tiles[row*g.Columns+col]
}

func (g *Grid) inside(col, row int) bool {
	return col >= 0 && col < g.Columns && row >= 0 && row < g.Rows
}

// Bounds is the pixel area covered by the grid.
func (g *Grid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.Columns*g.TileWidth, g.Rows*g.TileHeight)
}

// CellRect is the pixel rectangle of a grid cell.
func (g *Grid) CellRect(col, row int) image.Rectangle {
	x, y := col*g.TileWidth, row*g.TileHeight
	return image.Rect(x, y, x+g.TileWidth, y+g.TileHeight)
}

// IntersectsSolid reports whether r overlaps any cell holding a solid tile on any layer.
// Blank cells count only when explicitly flagged solid. Space outside the grid is open.
func (g *Grid) IntersectsSolid(r image.Rectangle) bool {
	r = r.Intersect(g.Bounds())
	if r.Empty() {
		return false
	}

	// Cells touched by the half open rectangle r.
	minCol, minRow := r.Min.X/g.TileWidth, r.Min.Y/g.TileHeight
	maxCol, maxRow := (r.Max.X-1)/g.TileWidth, (r.Max.Y-1)/g.TileHeight

	for _, layer := range g.Layers {
		for row := minRow; row <= maxRow; row++ {
			for col := minCol; col <= maxCol; col++ {
				if t := layer.Tiles[row*g.Columns+col]; t != nil && t.IsSolid() {
					return true
				}
			}
		}
	}
	return false
}

// Update advances every tile of every layer.
func (g *Grid) Update(dt time.Duration) {
	for _, layer := range g.Layers {
		for _, t := range layer.Tiles {
			if t != nil {
				t.Update(dt)
			}
		}
	}
}
