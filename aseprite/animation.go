package aseprite

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"slices"

	"github.com/retroblast-engine/tilerun/anim"
)

// FrameImage composites the visible image cels of a frame onto a canvas sized image.
func (f *File) FrameImage(frame int) (*image.NRGBA, error) {
	if frame < 0 || frame >= len(f.Frames) {
		return nil, fmt.Errorf("frame %d out of range", frame)
	}

	cels := slices.Clone(f.Frames[frame].Cels)
	// Sort by order, then z-index, so cels pushed back by a negative z-index draw first.
	slices.SortStableFunc(cels, func(a, b Cel) int {
		if a.Order() == b.Order() {
			return cmp.Compare(a.ZIndex, b.ZIndex)
		}
		return cmp.Compare(a.Order(), b.Order())
	})

	canvas := image.NewNRGBA(image.Rect(0, 0, int(f.Header.Width), int(f.Header.Height)))
	for _, cel := range cels {
		if cel.Image == nil {
			continue
		}
		if cel.Layer < len(f.Layers) && !f.Layers[cel.Layer].Visible() {
			continue
		}

		dst := cel.Image.Bounds().Add(image.Pt(cel.X, cel.Y))
		mask := image.NewUniform(color.Alpha{A: cel.Opacity})
		draw.DrawMask(canvas, dst, cel.Image, image.Point{}, mask, image.Point{}, draw.Over)
	}
	return canvas, nil
}

// TagFrames lists the frame indices a tag plays in one cycle, honouring its direction.
func (t Tag) TagFrames() []int {
	var forward []int
	for i := t.From; i <= t.To; i++ {
		forward = append(forward, i)
	}
	backward := slices.Clone(forward)
	slices.Reverse(backward)

	switch t.Direction {
	case Reverse:
		return backward
	case PingPong:
		if len(forward) > 2 {
			return append(forward, backward[1:len(backward)-1]...)
		}
		return forward
	case PingPongReverse:
		if len(backward) > 2 {
			return append(backward, forward[1:len(forward)-1]...)
		}
		return backward
	}
	return forward
}

// Clock builds the animation clock of a tag from composited frames and their durations.
func (f *File) Clock(t Tag) (*anim.Clock, error) {
	if t.To >= len(f.Frames) {
		return nil, fmt.Errorf("tag %q: frame %d out of range", t.Name, t.To)
	}

	images := make(map[int]image.Image)
	var sources []anim.Source
	for _, i := range t.TagFrames() {
		img, ok := images[i]
		if !ok {
			rendered, err := f.FrameImage(i)
			if err != nil {
				return nil, err
			}
			img = rendered
			images[i] = img
		}
		sources = append(sources, anim.Source{Image: img, Duration: f.Frames[i].Duration})
	}

	c, err := anim.NewClock(sources)
	if err != nil {
		return nil, fmt.Errorf("tag %q: %w", t.Name, err)
	}
	return c, nil
}
