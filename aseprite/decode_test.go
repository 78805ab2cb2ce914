package aseprite

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"image/color"
	"slices"
	"testing"
	"time"

	"github.com/retroblast-engine/tilerun/tile"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

func le(t *testing.T, vals ...any) []byte {
	t.Helper()
	var b bytes.Buffer
	for _, v := range vals {
		if s, ok := v.(string); ok {
			binary.Write(&b, binary.LittleEndian, WORD(len(s)))
			b.WriteString(s)
			continue
		}
		if err := binary.Write(&b, binary.LittleEndian, v); err != nil {
			t.Fatalf("encode %T: %v", v, err)
		}
	}
	return b.Bytes()
}

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var b bytes.Buffer
	w := zlib.NewWriter(&b)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return b.Bytes()
}

func pixels(c color.NRGBA, n int) []byte {
	var out []byte
	for i := 0; i < n; i++ {
		out = append(out, c.R, c.G, c.B, c.A)
	}
	return out
}

type rawFrame struct {
	duration WORD
	chunks   []Chunk
}

func encode(t *testing.T, width, height WORD, frames []rawFrame) []byte {
	t.Helper()
	var body bytes.Buffer
	for _, fr := range frames {
		size := DWORD(frameHeaderSize)
		for _, c := range fr.chunks {
			size += DWORD(chunkHeaderSize + len(c.Data))
		}
		body.Write(le(t, FrameHeader{
			BytesInFrame:  size,
			MagicNumber:   MagicNumberFrame,
			OldChunkCount: WORD(len(fr.chunks)),
			FrameDuration: fr.duration,
			NewChunkCount: DWORD(len(fr.chunks)),
		}))
		for _, c := range fr.chunks {
			body.Write(le(t, DWORD(chunkHeaderSize+len(c.Data)), c.Type))
			body.Write(c.Data)
		}
	}

	h := Header{
		FileSize:          DWORD(headerSize + body.Len()),
		MagicNumberHeader: MagicNumber,
		FrameCount:        WORD(len(frames)),
		Width:             width,
		Height:            height,
		ColorDepth:        ColorDepthRGBA,
	}
	return append(le(t, h), body.Bytes()...)
}

// sample is a 4x4 sprite with an image layer, a tilemap layer over a 2x2
// tileset of two tiles, and a two frame tag. Frame 1 links back to frame 0.
func sample(t *testing.T) []byte {
	t.Helper()
	return sampleWithCell(t, 1)
}

// sampleWithCell is sample with the first ground cell set to the raw value v.
func sampleWithCell(t *testing.T, v DWORD) []byte {
	t.Helper()

	tilesetPixels := append(pixels(green, 4), pixels(blue, 4)...)
	tileset := append(le(t,
		tilesetHeader{
			TilesetID:     0,
			TilesetFlags:  FlagIncludeTilesInsideFile | FlagTileIDZeroAsEmptyTile,
			NumberOfTiles: 2,
			TileWidth:     2,
			TileHeight:    2,
		},
		"terrain",
	), func() []byte {
		z := deflate(t, tilesetPixels)
		return append(le(t, DWORD(len(z))), z...)
	}()...)

	body := append(le(t,
		celHeader{LayerIndex: 0, XPosition: 1, YPosition: 1, OpacityLevel: 255, CelType: CompressedImageData},
		[2]WORD{2, 2},
	), deflate(t, pixels(red, 4))...)

	ground := append(le(t,
		celHeader{LayerIndex: 1, XPosition: 0, YPosition: 2, OpacityLevel: 255, CelType: CompressedTilemapData},
		tilemapHeader{
			Width:         2,
			Height:        1,
			BitsPerTile:   32,
			TileIDBitmask: 0x1fffffff,
			XFlipBitmask:  0x20000000,
			YFlipBitmask:  0x40000000,
		},
	), deflate(t, le(t, v, DWORD(0)))...)

	tags := le(t,
		WORD(1), [8]BYTE{},
		tagHeader{FromFrame: 0, ToFrame: 1, AnimationDirection: Forward},
		"walk_south",
	)

	return encode(t, 4, 4, []rawFrame{
		{duration: 100, chunks: []Chunk{
			{Type: ChunkLayer, Data: le(t, layerHeader{Flags: 1, Type: LayerNormal, Opacity: 255}, "body")},
			{Type: ChunkLayer, Data: append(le(t, layerHeader{Flags: 1, Type: LayerTilemap, Opacity: 255}, "ground"), le(t, DWORD(0))...)},
			{Type: ChunkTileset, Data: tileset},
			{Type: ChunkCel, Data: body},
			{Type: ChunkCel, Data: ground},
			{Type: ChunkTags, Data: tags},
		}},
		{duration: 150, chunks: []Chunk{
			{Type: ChunkCel, Data: le(t,
				celHeader{LayerIndex: 0, XPosition: 1, YPosition: 1, OpacityLevel: 255, CelType: LinkedCelData},
				WORD(0),
			)},
		}},
	})
}

func TestDecode(t *testing.T) {
	f, err := Decode(bytes.NewReader(sample(t)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(f.Layers) != 2 || f.Layers[0].Name != "body" || f.Layers[1].Type != LayerTilemap {
		t.Fatalf("layers = %+v", f.Layers)
	}
	if len(f.Frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(f.Frames))
	}
	if got := f.Frames[1].Duration; got != 150*time.Millisecond {
		t.Errorf("frame 1 duration = %v, want 150ms", got)
	}
	if len(f.Tags) != 1 || f.Tags[0].Name != "walk_south" || f.Tags[0].To != 1 {
		t.Errorf("tags = %+v", f.Tags)
	}

	ts := f.TilesetByID(0)
	if ts == nil || ts.Name != "terrain" || !ts.EmptyZero() {
		t.Fatalf("tileset = %+v", ts)
	}
	sheet, err := ts.Sheet()
	if err != nil {
		t.Fatalf("Sheet: %v", err)
	}
	if sheet.Len() != 2 {
		t.Fatalf("sheet has %d tiles, want 2", sheet.Len())
	}
	if got := color.NRGBAModel.Convert(sheet.Tile(1).At(0, 3)); got != blue {
		t.Errorf("tile 1 pixel = %v, want %v", got, blue)
	}
}

func TestFrameImage(t *testing.T) {
	f, err := Decode(bytes.NewReader(sample(t)))
	if err != nil {
		t.Fatal(err)
	}

	for frame := range f.Frames {
		img, err := f.FrameImage(frame)
		if err != nil {
			t.Fatalf("FrameImage(%d): %v", frame, err)
		}
		if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
			t.Errorf("frame %d bounds = %v", frame, img.Bounds())
		}
		if got := img.NRGBAAt(1, 1); got != red {
			t.Errorf("frame %d (1,1) = %v, want %v", frame, got, red)
		}
		if got := img.NRGBAAt(0, 0); got.A != 0 {
			t.Errorf("frame %d (0,0) = %v, want transparent", frame, got)
		}
	}

	if _, err := f.FrameImage(2); err == nil {
		t.Error("FrameImage(2) should fail")
	}
}

func TestTilemapLayers(t *testing.T) {
	f, err := Decode(bytes.NewReader(sample(t)))
	if err != nil {
		t.Fatal(err)
	}

	layers, err := f.TilemapLayers(0)
	if err != nil {
		t.Fatalf("TilemapLayers: %v", err)
	}
	if len(layers) != 1 {
		t.Fatalf("got %d layers, want 1", len(layers))
	}
	l := layers[0]
	if l.Name != "ground" || l.Columns != 2 || l.Rows != 2 {
		t.Errorf("layer = %s %dx%d", l.Name, l.Columns, l.Rows)
	}
	want := []int{tile.Blank, tile.Blank, 1, tile.Blank}
	if !slices.Equal(l.IDs, want) {
		t.Errorf("ids = %v, want %v", l.IDs, want)
	}
}

func TestTilemapLayersFlipped(t *testing.T) {
	f, err := Decode(bytes.NewReader(sampleWithCell(t, 1|0x20000000)))
	if err != nil {
		t.Fatal(err)
	}

	cell := f.Frames[0].Cels[1].Tilemap.Cells[0]
	if cell.ID != 1 || !cell.XFlip || cell.YFlip || !cell.Flipped() {
		t.Errorf("cell = %+v, want id 1 flipped on x", cell)
	}
	if _, err := f.TilemapLayers(0); !errors.Is(err, ErrFlippedTile) {
		t.Errorf("err = %v, want ErrFlippedTile", err)
	}
}

func TestFlattenNegativeOffset(t *testing.T) {
	ts := &Tileset{TileWidth: 2, TileHeight: 2}
	cel := Cel{
		X: -1, Y: 3,
		Tilemap: &Tilemap{Columns: 2, Rows: 1, Cells: []TilemapCell{{ID: 1}, {ID: 2}}},
	}

	tl, err := flatten("ground", cel, ts, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{tile.Blank, tile.Blank, 2, tile.Blank}
	if !slices.Equal(tl.IDs, want) {
		t.Errorf("ids = %v, want %v", tl.IDs, want)
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{5, 2, 2},
		{4, 2, 2},
		{-1, 2, -1},
		{-2, 2, -1},
		{-3, 2, -2},
		{0, 8, 0},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestClock(t *testing.T) {
	f, err := Decode(bytes.NewReader(sample(t)))
	if err != nil {
		t.Fatal(err)
	}

	c, err := f.Clock(f.Tags[0])
	if err != nil {
		t.Fatalf("Clock: %v", err)
	}
	if c.Total() != 250*time.Millisecond {
		t.Errorf("total = %v, want 250ms", c.Total())
	}
	c.Advance(120 * time.Millisecond)
	if c.Index() != 1 {
		t.Errorf("index after 120ms = %d, want 1", c.Index())
	}

	if _, err := f.Clock(Tag{Name: "broken", From: 0, To: 5}); err == nil {
		t.Error("tag past the last frame should fail")
	}
}

func TestTagFrames(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		want []int
	}{
		{"forward", Tag{From: 1, To: 3, Direction: Forward}, []int{1, 2, 3}},
		{"reverse", Tag{From: 1, To: 3, Direction: Reverse}, []int{3, 2, 1}},
		{"ping-pong", Tag{From: 1, To: 3, Direction: PingPong}, []int{1, 2, 3, 2}},
		{"ping-pong reverse", Tag{From: 1, To: 3, Direction: PingPongReverse}, []int{3, 2, 1, 2}},
		{"ping-pong of two", Tag{From: 0, To: 1, Direction: PingPong}, []int{0, 1}},
		{"single", Tag{From: 4, To: 4, Direction: PingPong}, []int{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tag.TagFrames(); !slices.Equal(got, tt.want) {
				t.Errorf("TagFrames() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	good := sample(t)

	badMagic := slices.Clone(good)
	binary.LittleEndian.PutUint16(badMagic[4:], 0x1234)

	badDepth := slices.Clone(good)
	binary.LittleEndian.PutUint16(badDepth[12:], 24)

	badSize := slices.Clone(good)
	binary.LittleEndian.PutUint32(badSize[headerSize:], 17)

	single := func(c Chunk) []byte {
		return encode(t, 4, 4, []rawFrame{{duration: 100, chunks: []Chunk{c}}})
	}

	hugeChunk := single(Chunk{Type: ChunkLayer, Data: le(t, layerHeader{Flags: 1}, "body")})
	binary.LittleEndian.PutUint32(hugeChunk[headerSize+frameHeaderSize:], 0xFFFFFFF0)

	palette := func(size, first, last DWORD) []byte {
		return single(Chunk{Type: ChunkPalette, Data: le(t, size, first, last, [8]BYTE{}, WORD(0), [4]BYTE{})})
	}

	hugeTileset := single(Chunk{Type: ChunkTileset, Data: le(t,
		tilesetHeader{TilesetFlags: FlagIncludeTilesInsideFile, NumberOfTiles: 1, TileWidth: 2, TileHeight: 2},
		"terrain",
		DWORD(0xFFFFFF00),
	)})
	zeroTiles := single(Chunk{Type: ChunkTileset, Data: le(t, tilesetHeader{NumberOfTiles: 1}, "terrain")})

	// skip 255 entries, then write two: the second lands past the last index
	oldPalette := single(Chunk{Type: ChunkOldPalette, Data: le(t, WORD(1), [2]BYTE{255, 2}, [6]BYTE{})})

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bad magic", badMagic, ErrBadMagic},
		{"unsupported depth", badDepth, ErrUnsupportedDepth},
		{"frame size mismatch", badSize, ErrCorrupt},
		{"chunk larger than frame", hugeChunk, ErrCorrupt},
		{"palette index past size", palette(2, 0, 2), ErrCorrupt},
		{"palette runs backwards", palette(4, 3, 1), ErrCorrupt},
		{"palette too large", palette(0x10000000, 0x0FFFFFFF, 0x0FFFFFFF), ErrCorrupt},
		{"old palette overflow", oldPalette, ErrCorrupt},
		{"tileset longer than chunk", hugeTileset, ErrCorrupt},
		{"tileset without tile size", zeroTiles, ErrCorrupt},
		{"truncated", good[:len(good)-10], nil},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.data))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodePalette(t *testing.T) {
	data := encode(t, 1, 1, []rawFrame{{duration: 100, chunks: []Chunk{{
		Type: ChunkPalette,
		Data: le(t, DWORD(2), DWORD(0), DWORD(1), [8]BYTE{}, WORD(0), [4]BYTE{255, 0, 0, 255}, WORD(0), [4]BYTE{0, 0, 255, 255}),
	}}}})

	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if want := []color.NRGBA{red, blue}; !slices.Equal(f.Palette, want) {
		t.Errorf("palette = %v, want %v", f.Palette, want)
	}
}

func TestReadFileExtension(t *testing.T) {
	if _, err := ReadFile("sprite.png"); err == nil {
		t.Error("ReadFile should reject a .png")
	}
}
