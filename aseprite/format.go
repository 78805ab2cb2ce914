package aseprite

// Binary layout of .ase/.aseprite files.
// From https://github.com/aseprite/aseprite/blob/main/docs/ase-file-specs.md#references

type (
	BYTE  = uint8  // An 8-bit unsigned integer value
	WORD  = uint16 // A 16-bit unsigned integer value
	SHORT = int16  // A 16-bit signed integer value
	DWORD = uint32 // A 32-bit unsigned integer value
)

const (
	MagicNumber      = 0xA5E0
	MagicNumberFrame = 0xF1FA

	headerSize      = 128
	frameHeaderSize = 16
	chunkHeaderSize = 6 // DWORD size + WORD type
	maxPaletteSize  = 256

	// Color depth (bits per pixel)
	ColorDepthRGBA      WORD = 32
	ColorDepthGrayscale WORD = 16
	ColorDepthIndexed   WORD = 8
)

// Chunk types understood by the decoder. Everything else is skipped.
const (
	ChunkOldPalette WORD = 0x0004
	ChunkLayer      WORD = 0x2004
	ChunkCel        WORD = 0x2005
	ChunkTags       WORD = 0x2018
	ChunkPalette    WORD = 0x2019
	ChunkTileset    WORD = 0x2023
)

// Header is the 128 byte file header.
type Header struct {
	FileSize          DWORD    // File size
	MagicNumberHeader WORD     // Magic number (0xA5E0)
	FrameCount        WORD     // Number of frames
	Width             WORD     // Width in pixels
	Height            WORD     // Height in pixels
	ColorDepth        WORD     // 32 bpp = RGBA, 16 bpp = Grayscale, 8 bpp = Indexed
	Flags             DWORD    // 1 = layer opacity valid, 4 = layers carry a UUID
	Speed             WORD     // DEPRECATED: use the frame duration field from each frame header
	Reserved1         DWORD    // Reserved (set to 0)
	Reserved2         DWORD    // Reserved (set to 0)
	TransparentIdx    BYTE     // Palette entry which is transparent in non-background layers (Indexed only)
	IgnoreBytes       [3]BYTE  // Ignore these bytes
	NumColors         WORD     // Number of colors (0 means 256 for old sprites)
	PixelWidth        BYTE     // Pixel ratio is "pixel width/pixel height"
	PixelHeight       BYTE     // Pixel height
	GridX             SHORT    // X position of the grid
	GridY             SHORT    // Y position of the grid
	GridWidth         WORD     // Grid width (zero if there is no grid)
	GridHeight        WORD     // Grid height (zero if there is no grid)
	FutureUse         [84]BYTE // For future use (set to zero)
}

const headerFlagLayerUUID DWORD = 4

// BytesPerPixel derives the pixel size from the color depth.
func (h *Header) BytesPerPixel() int {
	return int(h.ColorDepth) / 8
}

// FrameHeader is the 16 byte header in front of every frame.
type FrameHeader struct {
	BytesInFrame  DWORD   // Bytes in frame, header included
	MagicNumber   WORD    // Magic number (0xF1FA)
	OldChunkCount WORD    // 0xFFFF means "use NewChunkCount"
	FrameDuration WORD    // Frame duration in milliseconds
	Reserved      [2]BYTE // Reserved (set to 0)
	NewChunkCount DWORD   // If this is 0, use OldChunkCount
}

// NumberOfChunks returns the number of chunks in the frame.
func (fh *FrameHeader) NumberOfChunks() uint32 {
	if fh.OldChunkCount == 0xFFFF {
		return fh.NewChunkCount
	}
	if fh.NewChunkCount == 0 {
		return uint32(fh.OldChunkCount)
	}
	return fh.NewChunkCount
}

// Chunk is a raw, still undecoded chunk.
type Chunk struct {
	Type WORD
	Data []byte
}

// Layer types.
const (
	LayerNormal  WORD = 0
	LayerGroup   WORD = 1
	LayerTilemap WORD = 2
)

type layerHeader struct {
	Flags         WORD    // Visible, editable, lock movement, ...
	Type          WORD    // LayerNormal, LayerGroup or LayerTilemap
	ChildLevel    WORD    // Layer child level
	DefaultWidth  WORD    // Ignored
	DefaultHeight WORD    // Ignored
	BlendMode     WORD    // Blend mode, always Normal here
	Opacity       BYTE    // Valid only if header flag 1 is set
	Reserved      [3]BYTE // For future use (set to 0)
}

// CelDataType is the kind of data stored in a cel.
type CelDataType WORD

const (
	RawImageData CelDataType = iota
	LinkedCelData
	CompressedImageData
	CompressedTilemapData
)

type celHeader struct {
	LayerIndex   WORD        // Layer index
	XPosition    SHORT       // X position
	YPosition    SHORT       // Y position
	OpacityLevel BYTE        // Opacity level
	CelType      CelDataType // Cel type
	ZIndex       SHORT       // Z-Index
	Reserved     [5]BYTE     // For future use (set to 0)
}

type tilemapHeader struct {
	Width               WORD     // Width in number of tiles
	Height              WORD     // Height in number of tiles
	BitsPerTile         WORD     // Always 32 at the moment
	TileIDBitmask       DWORD    // Bitmask for tile ID (e.g. 0x1fffffff for 32-bit tiles)
	XFlipBitmask        DWORD    // Bitmask for X flip
	YFlipBitmask        DWORD    // Bitmask for Y flip
	DiagonalFlipBitmask DWORD    // Bitmask for diagonal flip
	Reserved            [10]BYTE // Reserved for future use
}

type tilesetHeader struct {
	TilesetID     DWORD    // Tileset ID
	TilesetFlags  DWORD    // See the Flag* constants
	NumberOfTiles DWORD    // Number of tiles
	TileWidth     WORD     // Tile width in pixels
	TileHeight    WORD     // Tile height in pixels
	BaseIndex     SHORT    // Base index, just for UI purposes
	Reserved      [14]BYTE // Reserved for future use
}

/* Tileset flags (1: Enabled, 0: Disabled)
Bit 2 (4)  - Tilemaps using this tileset use tile ID=0 as empty tile
Bit 1 (2)  - Include tiles inside this file
Bit 0 (1)  - Include link to external file
*/
const (
	FlagIncludeLinkToExternalFile = 1 << iota
	FlagIncludeTilesInsideFile
	FlagTileIDZeroAsEmptyTile
)

// LoopAnimationDirection represents the direction of a tag's loop.
type LoopAnimationDirection BYTE

const (
	Forward         LoopAnimationDirection = iota // 0 = forward
	Reverse                                       // 1 = reverse
	PingPong                                      // 2 = ping-pong
	PingPongReverse                               // 3 = ping-pong reverse
)

type tagHeader struct {
	FromFrame          WORD                   // Frame where the tag starts
	ToFrame            WORD                   // Frame where the tag ends
	AnimationDirection LoopAnimationDirection // Loop animation direction
	Repeat             WORD                   // Repeat N times, 0 = infinite
	Reserved           [6]BYTE                // For future (set to zero)
	Deprecated         [3]BYTE                // Tag color, deprecated
	ExtraByte          BYTE                   // Extra byte (zero)
}
