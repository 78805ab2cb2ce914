package aseprite

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"

	"github.com/retroblast-engine/tilerun/tile"
)

// Tileset represents a collection of tiles stored as one vertical strip.
type Tileset struct {
	ID                    int
	Name                  string
	Flags                 DWORD
	TileWidth, TileHeight int
	NumberOfTiles         int
	Image                 *image.NRGBA // TileWidth x (TileHeight * NumberOfTiles)
}

// EmptyZero reports whether tile id 0 means "no tile" in tilemaps using this set.
func (ts *Tileset) EmptyZero() bool {
	return ts.Flags&FlagTileIDZeroAsEmptyTile != 0
}

// Sheet exposes the strip as a tile image source.
func (ts *Tileset) Sheet() (tile.Sheet, error) {
	if ts.Image == nil {
		return nil, fmt.Errorf("tileset %q: tiles are stored in an external file", ts.Name)
	}
	sheet, err := tile.NewImageSheet(ts.Image, ts.TileWidth, ts.TileHeight)
	if err != nil {
		return nil, err
	}
	return sheet, nil
}

func (f *File) decodeTileset(r *bytes.Reader) error {
	var th tilesetHeader
	if err := binary.Read(r, binary.LittleEndian, &th); err != nil {
		return err
	}
	name, err := readString(r)
	if err != nil {
		return err
	}

	if th.TileWidth == 0 || th.TileHeight == 0 {
		return fmt.Errorf("%w: tileset %q has %dx%d tiles", ErrCorrupt, name, th.TileWidth, th.TileHeight)
	}

	ts := &Tileset{
		ID:            int(th.TilesetID),
		Name:          name,
		Flags:         th.TilesetFlags,
		TileWidth:     int(th.TileWidth),
		TileHeight:    int(th.TileHeight),
		NumberOfTiles: int(th.NumberOfTiles),
	}

	if th.TilesetFlags&FlagIncludeLinkToExternalFile != 0 {
		var link [2]DWORD // external file id, tileset id inside it
		if err := binary.Read(r, binary.LittleEndian, &link); err != nil {
			return err
		}
	}

	if th.TilesetFlags&FlagIncludeTilesInsideFile != 0 {
		var length DWORD
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return err
		}
		if int64(length) > int64(r.Len()) {
			return fmt.Errorf("%w: tileset %q declares %d bytes, %d left", ErrCorrupt, name, length, r.Len())
		}
		compressed := make([]byte, length)
		if _, err := io.ReadFull(r, compressed); err != nil {
			return err
		}
		decompressed, err := decompressZlib(compressed)
		if err != nil {
			return fmt.Errorf("error decompressing Tileset Image data: %w", err)
		}
		ts.Image, err = f.decodePixels(decompressed, ts.TileWidth, ts.TileHeight*ts.NumberOfTiles)
		if err != nil {
			return fmt.Errorf("tileset %q: %w", name, err)
		}
	}

	f.Tilesets = append(f.Tilesets, ts)
	return nil
}

// TilesetByID finds a tileset by the id stored in the file.
func (f *File) TilesetByID(id int) *Tileset {
	for _, ts := range f.Tilesets {
		if ts.ID == id {
			return ts
		}
	}
	return nil
}
