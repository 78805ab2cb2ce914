package tile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

var ErrMalformedMetadata = errors.New("tile: malformed tile metadata")

// Definition is the flags and metadata shared by every cell using one tile id.
type Definition struct {
	Flags    Flags
	Metadata Metadata
}

// Definitions maps tile ids to their definition. Ids without an entry are plain
// static tiles.
type Definitions map[int]Definition

// Lookup returns the definition for id, or the zero Definition.
func (d Definitions) Lookup(id int) Definition {
	return d[id]
}

// jsonDefinitions is the on-disk format:
//
//	{"tiles": {"3": {"flags": ["solid", "animated"], "animation": [[3, 200], [4, 200]]}}}
//
// Animation durations are milliseconds.
type jsonDefinitions struct {
	Tiles map[string]jsonDefinition `json:"tiles"`
}

type jsonDefinition struct {
	Flags     []string    `json:"flags"`
	Animation [][]float64 `json:"animation,omitempty"`
}

// ReadDefinitions decodes tile definitions and validates them.
func ReadDefinitions(r io.Reader) (Definitions, error) {
	var jd jsonDefinitions
	if err := json.NewDecoder(r).Decode(&jd); err != nil {
		return nil, fmt.Errorf("parse tile definitions: %w", err)
	}

	defs := make(Definitions, len(jd.Tiles))
	for key, raw := range jd.Tiles {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: tile key %q is not an integer", ErrMalformedMetadata, key)
		}

		flags, err := ParseFlags(raw.Flags)
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", id, err)
		}

		var meta Metadata
		for i, pair := range raw.Animation {
			if len(pair) != 2 {
				return nil, fmt.Errorf("%w: tile %d frame %d needs [tile_id, duration_ms], got %v", ErrMalformedMetadata, id, i, pair)
			}
			meta.Animation = append(meta.Animation, AnimationFrame{
				TileID:   int(pair[0]),
				Duration: time.Duration(pair[1] * float64(time.Millisecond)),
			})
		}

		if flags.Has(Animated) && len(meta.Animation) == 0 {
			return nil, fmt.Errorf("tile %d: %w", id, ErrEmptyAnimation)
		}

		defs[id] = Definition{Flags: flags, Metadata: meta}
	}

	return defs, nil
}
