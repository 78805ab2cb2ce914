package game

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

var diagnosticBackground = color.RGBA{R: 40, G: 0, B: 0, A: 255}

// Diagnostic shows an error that stopped the scene below it. Escape goes back.
type Diagnostic struct {
	lines string
	face  *text.GoTextFace
}

func NewDiagnostic(err error, face *text.GoTextFace) *Diagnostic {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %v\n\n", err)

	var pe *PanicError
	if errors.As(err, &pe) {
		b.Write(pe.Stack)
	}
	b.WriteString("\nPress Escape to go back.")

	return &Diagnostic{lines: b.String(), face: face}
}

func (*Diagnostic) reportsErrors() {}

func (d *Diagnostic) Update(g *Game, in Input, dt time.Duration) Outcome {
	if in.Back {
		g.Pop()
	}
	return Continue
}

func (d *Diagnostic) Draw(screen *ebiten.Image) {
	screen.Fill(diagnosticBackground)

	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.ColorScale.ScaleWithColor(color.White)
	op.LineSpacing = d.face.Size * 1.3
	text.Draw(screen, d.lines, d.face, op)
}
