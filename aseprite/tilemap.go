package aseprite

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/retroblast-engine/tilerun/tile"
)

// ErrFlippedTile is returned for tilemap cells drawn flipped or rotated, which
// grids cannot represent.
var ErrFlippedTile = errors.New("aseprite: flipped tiles are not supported")

// TilemapCell is one cell of a tilemap cel.
type TilemapCell struct {
	ID                         int
	XFlip, YFlip, DiagonalFlip bool
}

func (c TilemapCell) Flipped() bool {
	return c.XFlip || c.YFlip || c.DiagonalFlip
}

// Tilemap is a grid of tileset references, stored row by row from the top.
type Tilemap struct {
	Columns, Rows int
	Cells         []TilemapCell
}

func decodeTilemap(r *bytes.Reader) (*Tilemap, error) {
	var th tilemapHeader
	if err := binary.Read(r, binary.LittleEndian, &th); err != nil {
		return nil, err
	}
	compressed, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data, err := decompressZlib(compressed)
	if err != nil {
		return nil, fmt.Errorf("error decompressing tile data: %w", err)
	}

	bytesPerTile := int(th.BitsPerTile) / 8
	numTiles := int(th.Width) * int(th.Height)
	if bytesPerTile == 0 || numTiles != len(data)/bytesPerTile {
		return nil, fmt.Errorf("%w: invalid number of tiles: %d", ErrCorrupt, numTiles)
	}

	tm := &Tilemap{Columns: int(th.Width), Rows: int(th.Height), Cells: make([]TilemapCell, numTiles)}
	for i := range tm.Cells {
		raw := data[i*bytesPerTile : (i+1)*bytesPerTile]
		var v uint32
		switch bytesPerTile {
		case 1:
			v = uint32(raw[0])
		case 2:
			v = uint32(binary.LittleEndian.Uint16(raw))
		default:
			v = binary.LittleEndian.Uint32(raw)
		}

		tm.Cells[i] = TilemapCell{
			ID:           int(v & th.TileIDBitmask),
			XFlip:        v&th.XFlipBitmask != 0,
			YFlip:        v&th.YFlipBitmask != 0,
			DiagonalFlip: v&th.DiagonalFlipBitmask != 0,
		}
	}
	return tm, nil
}

// TilemapLayer is a tilemap layer flattened to canvas sized tile ids, ready for
// tilemap.Grid.Build. Cells not covered by the cel are tile.Blank.
type TilemapLayer struct {
	Name          string
	Columns, Rows int
	IDs           []int
	Tileset       *Tileset
}

// TilemapLayers returns every visible tilemap layer of a frame, bottom first.
// All layers must share the tile size of the first one.
func (f *File) TilemapLayers(frame int) ([]TilemapLayer, error) {
	if frame < 0 || frame >= len(f.Frames) {
		return nil, fmt.Errorf("frame %d out of range", frame)
	}

	var out []TilemapLayer
	for _, cel := range f.Frames[frame].Cels {
		if cel.Tilemap == nil || cel.Layer >= len(f.Layers) {
			continue
		}
		layer := f.Layers[cel.Layer]
		if !layer.Visible() {
			continue
		}

		ts := f.TilesetByID(layer.TilesetIndex)
		if ts == nil {
			return nil, fmt.Errorf("layer %q: %w: no tileset %d", layer.Name, ErrCorrupt, layer.TilesetIndex)
		}
		if len(out) > 0 && (ts.TileWidth != out[0].Tileset.TileWidth || ts.TileHeight != out[0].Tileset.TileHeight) {
			return nil, fmt.Errorf("layer %q: tile size %dx%d differs from %dx%d",
				layer.Name, ts.TileWidth, ts.TileHeight, out[0].Tileset.TileWidth, out[0].Tileset.TileHeight)
		}

		tl, err := flatten(layer.Name, cel, ts, int(f.Header.Width), int(f.Header.Height))
		if err != nil {
			return nil, err
		}
		out = append(out, tl)
	}
	return out, nil
}

func flatten(name string, cel Cel, ts *Tileset, width, height int) (TilemapLayer, error) {
	cols, rows := width/ts.TileWidth, height/ts.TileHeight
	tl := TilemapLayer{Name: name, Columns: cols, Rows: rows, IDs: make([]int, cols*rows), Tileset: ts}
	for i := range tl.IDs {
		tl.IDs[i] = tile.Blank
	}

	offCol, offRow := floorDiv(cel.X, ts.TileWidth), floorDiv(cel.Y, ts.TileHeight)
	tm := cel.Tilemap
	for row := 0; row < tm.Rows; row++ {
		for col := 0; col < tm.Columns; col++ {
			c, r := col+offCol, row+offRow
			if c < 0 || c >= cols || r < 0 || r >= rows {
				continue
			}
			cell := tm.Cells[row*tm.Columns+col]
			if cell.Flipped() {
				return TilemapLayer{}, fmt.Errorf("layer %q cell %d,%d: %w", name, col, row, ErrFlippedTile)
			}
			id := cell.ID
			if id == 0 && ts.EmptyZero() {
				id = tile.Blank
			}
			tl.IDs[r*cols+c] = id
		}
	}
	return tl, nil
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
