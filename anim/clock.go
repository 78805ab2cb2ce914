// Package anim selects the current frame of a looping, duration based animation.
package anim

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"time"
)

// ErrNoFrames is returned when a clock is built without any frame to select.
var ErrNoFrames = errors.New("anim: animation has no frames")

// Source is one frame handed to NewClock: an image and how long it is shown.
type Source struct {
	Image    image.Image
	Duration time.Duration
}

// Frame is a frame placed on the animation timeline.
type Frame struct {
	Image    image.Image
	Start    time.Duration // cumulative start time inside the cycle
	Duration time.Duration
}

// End returns the first instant after the frame.
func (f Frame) End() time.Duration {
	return f.Start + f.Duration
}

// Clock loops over a sequence of frames, advanced by caller supplied time deltas.
type Clock struct {
	frames  []Frame
	total   time.Duration
	elapsed time.Duration // always in [0, total) when total > 0
	index   int
}

// NewClock lays the sources out back to back and selects the first frame.
func NewClock(sources []Source) (*Clock, error) {
	if len(sources) == 0 {
		return nil, ErrNoFrames
	}

	c := &Clock{frames: make([]Frame, len(sources))}
	for i, s := range sources {
		if s.Duration < 0 {
			return nil, fmt.Errorf("anim: frame %d has negative duration %v", i, s.Duration)
		}
		c.frames[i] = Frame{Image: s.Image, Start: c.total, Duration: s.Duration}
		c.total += s.Duration
	}
	c.Reset()

	return c, nil
}

// Advance accumulates dt and reselects the current frame. Negative deltas are ignored.
func (c *Clock) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	if c.total == 0 {
		c.index = 0
		return
	}

	c.elapsed = (c.elapsed + dt%c.total) % c.total
	c.index = c.frameAt(c.elapsed)
}

// frameAt finds the frame whose [Start, End) holds t. Zero length frames never match.
func (c *Clock) frameAt(t time.Duration) int {
	return sort.Search(len(c.frames), func(i int) bool {
		return c.frames[i].End() > t
	})
}

// Reset rewinds the clock to the start of the cycle.
func (c *Clock) Reset() {
	c.elapsed = 0
	c.index = 0
	if c.total > 0 {
		c.index = c.frameAt(0)
	}
}

// Image returns the image of the selected frame.
func (c *Clock) Image() image.Image {
	return c.frames[c.index].Image
}

// Index returns the position of the selected frame.
func (c *Clock) Index() int {
	return c.index
}

// Elapsed returns the wrapped position inside the cycle.
func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}

// Total returns the cycle length, the sum of all frame durations.
func (c *Clock) Total() time.Duration {
	return c.total
}

// Frames returns a copy of the timeline.
func (c *Clock) Frames() []Frame {
	out := make([]Frame, len(c.frames))
	copy(out, c.frames)
	return out
}

// LargestFrameSize returns the widest width and tallest height over all frames.
// Collision boxes are sized with it.
func (c *Clock) LargestFrameSize() image.Point {
	var size image.Point
	for _, f := range c.frames {
		if f.Image == nil {
			continue
		}
		b := f.Image.Bounds()
		size.X = max(size.X, b.Dx())
		size.Y = max(size.Y, b.Dy())
	}
	return size
}
