package game

import (
	"bytes"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/retroblast-engine/tilerun/config"
	"github.com/retroblast-engine/tilerun/resource"
)

// LoadFace loads the game's font_face from the resource pack, or Go Mono for
// "default". A font that fails to load falls back to Go Mono as well.
func LoadFace(p *resource.Pack, cfg *config.Game) (*text.GoTextFace, error) {
	src, err := fontSource(p, cfg.FontFace)
	if err != nil {
		log.Printf("[Font] %s failed to load (%v), using Go Mono (embedded)", cfg.FontFace, err)
		if src, err = text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF)); err != nil {
			return nil, fmt.Errorf("load mono font: %w", err)
		}
	}
	return &text.GoTextFace{Source: src, Size: float64(cfg.FontSize)}, nil
}

func fontSource(p *resource.Pack, name string) (*text.GoTextFaceSource, error) {
	if name == config.DefaultFontFace {
		log.Printf("[Font] Go Mono (embedded)")
		return text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	}

	data, err := p.Font(name)
	if err != nil {
		return nil, err
	}
	log.Printf("[Font] %s", name)
	return text.NewGoTextFaceSource(bytes.NewReader(data))
}
