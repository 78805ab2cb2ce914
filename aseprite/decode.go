// Package aseprite decodes .ase/.aseprite files into tilesets, tilemap layers and
// tagged, timed frames.
package aseprite

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"time"
)

var (
	ErrBadMagic         = errors.New("aseprite: bad magic number")
	ErrUnsupportedDepth = errors.New("aseprite: unsupported color depth")
	ErrCorrupt          = errors.New("aseprite: corrupt file")
)

// File is a decoded sprite.
type File struct {
	Header   Header
	Palette  []color.NRGBA
	Layers   []Layer
	Frames   []Frame
	Tags     []Tag
	Tilesets []*Tileset
}

// Layer describes one layer of the sprite.
type Layer struct {
	Name         string
	Type         WORD
	Flags        WORD
	ChildLevel   int
	TilesetIndex int // only for LayerTilemap
}

// Visible reports the layer's visibility flag.
func (l Layer) Visible() bool {
	return l.Flags&1 != 0
}

// Frame is one frame with its cels.
type Frame struct {
	Duration time.Duration
	Cels     []Cel
}

// Cel is the content of one layer in one frame: either an image or a tilemap.
type Cel struct {
	Layer   int
	X, Y    int
	Opacity BYTE
	ZIndex  int
	Image   *image.NRGBA
	Tilemap *Tilemap
}

// Order is the drawing order of the cel inside its frame.
func (c Cel) Order() int {
	return c.Layer + c.ZIndex
}

// Tag names a range of frames, typically one animation.
type Tag struct {
	Name      string
	From, To  int
	Direction LoopAnimationDirection
	Repeat    int
}

// ReadFile decodes the .ase or .aseprite file at path.
func ReadFile(path string) (*File, error) {
	ext := filepath.Ext(path)
	if ext != ".aseprite" && ext != ".ase" {
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode reads a whole sprite from r.
func Decode(r io.Reader) (*File, error) {
	f := &File{}
	if err := binary.Read(r, binary.LittleEndian, &f.Header); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if f.Header.MagicNumberHeader != MagicNumber {
		return nil, fmt.Errorf("%w: 0x%X", ErrBadMagic, f.Header.MagicNumberHeader)
	}
	switch f.Header.ColorDepth {
	case ColorDepthRGBA, ColorDepthGrayscale, ColorDepthIndexed:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDepth, f.Header.ColorDepth)
	}

	for i := 0; i < int(f.Header.FrameCount); i++ {
		chunks, fh, err := readFrame(r)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}

		f.Frames = append(f.Frames, Frame{Duration: time.Duration(fh.FrameDuration) * time.Millisecond})
		for _, c := range chunks {
			if err := f.decodeChunk(i, c); err != nil {
				return nil, fmt.Errorf("frame %d chunk 0x%04X: %w", i, c.Type, err)
			}
		}
	}

	return f, nil
}

// readFrame reads a frame header and the raw chunks that follow it.
func readFrame(r io.Reader) ([]Chunk, *FrameHeader, error) {
	fh := &FrameHeader{}
	if err := binary.Read(r, binary.LittleEndian, fh); err != nil {
		return nil, nil, err
	}
	if fh.MagicNumber != MagicNumberFrame {
		return nil, nil, fmt.Errorf("%w: frame magic 0x%X", ErrBadMagic, fh.MagicNumber)
	}

	if fh.BytesInFrame < frameHeaderSize {
		return nil, nil, fmt.Errorf("%w: frame size %d", ErrCorrupt, fh.BytesInFrame)
	}

	var chunks []Chunk
	total := uint32(frameHeaderSize)
	for j := 0; j < int(fh.NumberOfChunks()); j++ {
		var size DWORD
		var typ WORD
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &typ); err != nil {
			return nil, nil, err
		}
		if size < chunkHeaderSize || size > fh.BytesInFrame-total {
			return nil, nil, fmt.Errorf("%w: chunk size %d with %d bytes left in frame", ErrCorrupt, size, fh.BytesInFrame-total)
		}

		data, err := readN(r, int64(size-chunkHeaderSize))
		if err != nil {
			return nil, nil, err
		}
		chunks = append(chunks, Chunk{Type: typ, Data: data})
		total += size
	}

	if total != fh.BytesInFrame {
		return nil, nil, fmt.Errorf("%w: frame size mismatch: expected %d, got %d", ErrCorrupt, fh.BytesInFrame, total)
	}
	return chunks, fh, nil
}

// readN reads exactly n bytes, growing the buffer only as data arrives.
func readN(r io.Reader, n int64) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, n); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *File) decodeChunk(frame int, c Chunk) error {
	r := bytes.NewReader(c.Data)
	switch c.Type {
	case ChunkOldPalette:
		return f.decodeOldPalette(r)
	case ChunkPalette:
		return f.decodePalette(r)
	case ChunkLayer:
		return f.decodeLayer(r)
	case ChunkCel:
		return f.decodeCel(frame, r)
	case ChunkTags:
		return f.decodeTags(r)
	case ChunkTileset:
		return f.decodeTileset(r)
	}
	return nil
}

func readString(r io.Reader) (string, error) {
	var length WORD
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", err
	}
	chars := make([]byte, length)
	if _, err := io.ReadFull(r, chars); err != nil {
		return "", err
	}
	return string(chars), nil
}

func (f *File) setColor(i int, c color.NRGBA) error {
	if i < 0 || i >= maxPaletteSize {
		return fmt.Errorf("%w: palette index %d", ErrCorrupt, i)
	}
	if i >= len(f.Palette) {
		grown := make([]color.NRGBA, i+1)
		copy(grown, f.Palette)
		f.Palette = grown
	}
	f.Palette[i] = c
	return nil
}

func (f *File) decodeOldPalette(r io.Reader) error {
	var packets WORD
	if err := binary.Read(r, binary.LittleEndian, &packets); err != nil {
		return err
	}

	index := 0
	for p := 0; p < int(packets); p++ {
		var head [2]BYTE // entries to skip, number of colors (0 means 256)
		if err := binary.Read(r, binary.LittleEndian, &head); err != nil {
			return err
		}
		index += int(head[0])
		count := int(head[1])
		if count == 0 {
			count = 256
		}
		for k := 0; k < count; k++ {
			var rgb [3]BYTE
			if err := binary.Read(r, binary.LittleEndian, &rgb); err != nil {
				return err
			}
			if err := f.setColor(index, color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}); err != nil {
				return err
			}
			index++
		}
	}
	return nil
}

func (f *File) decodePalette(r io.Reader) error {
	var head struct {
		NewPaletteSize DWORD
		FirstColor     DWORD
		LastColor      DWORD
		Reserved       [8]BYTE
	}
	if err := binary.Read(r, binary.LittleEndian, &head); err != nil {
		return err
	}

	if head.NewPaletteSize > maxPaletteSize || head.FirstColor > head.LastColor || head.LastColor >= head.NewPaletteSize {
		return fmt.Errorf("%w: palette entries %d-%d of %d", ErrCorrupt, head.FirstColor, head.LastColor, head.NewPaletteSize)
	}

	for i := head.FirstColor; i <= head.LastColor; i++ {
		var entry struct {
			Flags      WORD
			R, G, B, A BYTE
		}
		if err := binary.Read(r, binary.LittleEndian, &entry); err != nil {
			return err
		}
		if entry.Flags&1 != 0 {
			if _, err := readString(r); err != nil {
				return err
			}
		}
		if err := f.setColor(int(i), color.NRGBA{R: entry.R, G: entry.G, B: entry.B, A: entry.A}); err != nil {
			return err
		}
	}
	return nil
}

func (f *File) decodeLayer(r io.Reader) error {
	var lh layerHeader
	if err := binary.Read(r, binary.LittleEndian, &lh); err != nil {
		return err
	}
	name, err := readString(r)
	if err != nil {
		return err
	}

	layer := Layer{Name: name, Type: lh.Type, Flags: lh.Flags, ChildLevel: int(lh.ChildLevel)}
	if lh.Type == LayerTilemap {
		var idx DWORD
		if err := binary.Read(r, binary.LittleEndian, &idx); err != nil {
			return err
		}
		layer.TilesetIndex = int(idx)
	}
	if f.Header.Flags&headerFlagLayerUUID != 0 {
		var uuid [16]BYTE
		if err := binary.Read(r, binary.LittleEndian, &uuid); err != nil {
			return err
		}
	}

	f.Layers = append(f.Layers, layer)
	return nil
}

func (f *File) decodeCel(frame int, r *bytes.Reader) error {
	var ch celHeader
	if err := binary.Read(r, binary.LittleEndian, &ch); err != nil {
		return err
	}
	cel := Cel{
		Layer:   int(ch.LayerIndex),
		X:       int(ch.XPosition),
		Y:       int(ch.YPosition),
		Opacity: ch.OpacityLevel,
		ZIndex:  int(ch.ZIndex),
	}

	switch ch.CelType {
	case RawImageData, CompressedImageData:
		var size [2]WORD
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return err
		}
		pixels, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		if ch.CelType == CompressedImageData {
			if pixels, err = decompressZlib(pixels); err != nil {
				return fmt.Errorf("error decompressing image data: %w", err)
			}
		}
		if cel.Image, err = f.decodePixels(pixels, int(size[0]), int(size[1])); err != nil {
			return err
		}

	case LinkedCelData:
		var pos WORD
		if err := binary.Read(r, binary.LittleEndian, &pos); err != nil {
			return err
		}
		linked, ok := f.celAt(int(pos), cel.Layer)
		if !ok || int(pos) >= frame {
			return fmt.Errorf("%w: linked cel points at frame %d", ErrCorrupt, pos)
		}
		cel.Image, cel.Tilemap = linked.Image, linked.Tilemap

	case CompressedTilemapData:
		tm, err := decodeTilemap(r)
		if err != nil {
			return err
		}
		cel.Tilemap = tm

	default:
		return fmt.Errorf("%w: unknown cel type %d", ErrCorrupt, ch.CelType)
	}

	f.Frames[frame].Cels = append(f.Frames[frame].Cels, cel)
	return nil
}

func (f *File) celAt(frame, layer int) (Cel, bool) {
	if frame < 0 || frame >= len(f.Frames) {
		return Cel{}, false
	}
	for _, c := range f.Frames[frame].Cels {
		if c.Layer == layer {
			return c, true
		}
	}
	return Cel{}, false
}

// decodePixels converts w*h pixels of the file's color depth into an NRGBA image.
func (f *File) decodePixels(data []byte, w, h int) (*image.NRGBA, error) {
	bpp := f.Header.BytesPerPixel()
	if len(data) < w*h*bpp {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d pixels", ErrCorrupt, len(data), w, h)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		p := data[i*bpp : (i+1)*bpp]
		var c color.NRGBA
		switch f.Header.ColorDepth {
		case ColorDepthRGBA:
			c = color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
		case ColorDepthGrayscale:
			c = color.NRGBA{R: p[0], G: p[0], B: p[0], A: p[1]}
		case ColorDepthIndexed:
			if p[0] != f.Header.TransparentIdx && int(p[0]) < len(f.Palette) {
				c = f.Palette[p[0]]
			}
		}
		img.SetNRGBA(i%w, i/w, c)
	}
	return img, nil
}

func (f *File) decodeTags(r io.Reader) error {
	var head struct {
		NumberOfTags WORD
		Reserved     [8]BYTE
	}
	if err := binary.Read(r, binary.LittleEndian, &head); err != nil {
		return err
	}

	for i := 0; i < int(head.NumberOfTags); i++ {
		var th tagHeader
		if err := binary.Read(r, binary.LittleEndian, &th); err != nil {
			return err
		}
		name, err := readString(r)
		if err != nil {
			return err
		}
		if th.FromFrame > th.ToFrame {
			return fmt.Errorf("%w: tag %q runs backwards", ErrCorrupt, name)
		}
		f.Tags = append(f.Tags, Tag{
			Name:      name,
			From:      int(th.FromFrame),
			To:        int(th.ToFrame),
			Direction: th.AnimationDirection,
			Repeat:    int(th.Repeat),
		})
	}
	return nil
}

// Function to decompress ZLIB data
func decompressZlib(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("input data is empty")
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib reader: %w", err)
	}
	defer r.Close()

	var out bytes.Buffer
	if _, err = io.Copy(&out, r); err != nil {
		return nil, fmt.Errorf("failed to copy decompressed data: %w", err)
	}
	return out.Bytes(), nil
}
