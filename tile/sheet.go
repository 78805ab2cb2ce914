package tile

import (
	"fmt"
	"image"
)

// Sheet is a shared source of equally sized tile images addressed by id.
type Sheet interface {
	Tile(id int) image.Image
	TileWidth() int
	TileHeight() int
	Len() int
}

// subImager is satisfied by *image.RGBA, *image.Paletted, *ebiten.Image and friends.
type subImager interface {
	image.Image
	SubImage(r image.Rectangle) image.Image
}

// ImageSheet cuts a single image into tiles, row by row from the top left.
type ImageSheet struct {
	src                   subImager
	tileWidth, tileHeight int
	columns, rows         int
}

// NewImageSheet wraps src, which must support SubImage.
func NewImageSheet(src image.Image, tileWidth, tileHeight int) (*ImageSheet, error) {
	si, ok := src.(subImager)
	if !ok {
		return nil, fmt.Errorf("tile: %T does not support SubImage", src)
	}
	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, fmt.Errorf("tile: invalid tile size %dx%d", tileWidth, tileHeight)
	}

	b := src.Bounds()
	return &ImageSheet{
		src:        si,
		tileWidth:  tileWidth,
		tileHeight: tileHeight,
		columns:    b.Dx() / tileWidth,
		rows:       b.Dy() / tileHeight,
	}, nil
}

// Tile returns the sub image at id, or nil when id is out of range.
func (s *ImageSheet) Tile(id int) image.Image {
	if id < 0 || id >= s.Len() {
		return nil
	}
	origin := s.src.Bounds().Min
	x := origin.X + (id%s.columns)*s.tileWidth
	y := origin.Y + (id/s.columns)*s.tileHeight
	return s.src.SubImage(image.Rect(x, y, x+s.tileWidth, y+s.tileHeight))
}

func (s *ImageSheet) TileWidth() int  { return s.tileWidth }
func (s *ImageSheet) TileHeight() int { return s.tileHeight }
func (s *ImageSheet) Len() int        { return s.columns * s.rows }
