package anim

import (
	"errors"
	"image"
	"testing"
	"time"
)

func frameImage(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func threeFrames() []Source {
	return []Source{
		{Image: frameImage(8, 8), Duration: 100 * time.Millisecond},
		{Image: frameImage(8, 12), Duration: 50 * time.Millisecond},
		{Image: frameImage(10, 8), Duration: 150 * time.Millisecond},
	}
}

func TestNewClockRejectsEmpty(t *testing.T) {
	_, err := NewClock(nil)
	if !errors.Is(err, ErrNoFrames) {
		t.Fatalf("expected ErrNoFrames, got %v", err)
	}
}

func TestNewClockRejectsNegativeDuration(t *testing.T) {
	_, err := NewClock([]Source{{Image: frameImage(1, 1), Duration: -time.Millisecond}})
	if err == nil {
		t.Fatal("expected an error for a negative duration")
	}
}

func TestClockTimeline(t *testing.T) {
	c, err := NewClock(threeFrames())
	if err != nil {
		t.Fatal(err)
	}
	if c.Total() != 300*time.Millisecond {
		t.Fatalf("total = %v, want 300ms", c.Total())
	}

	frames := c.Frames()
	var cursor time.Duration
	for i, f := range frames {
		if f.Start != cursor {
			t.Errorf("frame %d starts at %v, want %v", i, f.Start, cursor)
		}
		cursor = f.End()
	}
	if cursor != c.Total() {
		t.Errorf("frames cover [0, %v), want [0, %v)", cursor, c.Total())
	}
}

func TestClockAdvanceSelectsFrame(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
		want    int
	}{
		{"start", 0, 0},
		{"inside first", 99 * time.Millisecond, 0},
		{"second boundary", 100 * time.Millisecond, 1},
		{"third boundary", 150 * time.Millisecond, 2},
		{"last instant", 299 * time.Millisecond, 2},
		{"wraps to start", 300 * time.Millisecond, 0},
		{"wraps several cycles", 3*300*time.Millisecond + 120*time.Millisecond, 1},
		{"negative ignored", -time.Second, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClock(threeFrames())
			if err != nil {
				t.Fatal(err)
			}
			c.Advance(tt.advance)
			if c.Index() != tt.want {
				t.Errorf("index = %d, want %d", c.Index(), tt.want)
			}
			if c.Image() != c.Frames()[tt.want].Image {
				t.Error("Image does not match the selected frame")
			}
		})
	}
}

func TestClockPeriodicity(t *testing.T) {
	for x := time.Duration(0); x < 700*time.Millisecond; x += 7 * time.Millisecond {
		a, _ := NewClock(threeFrames())
		b, _ := NewClock(threeFrames())
		a.Advance(x)
		b.Advance(a.Total() + x)
		if a.Index() != b.Index() {
			t.Fatalf("advance(%v) picked %d, advance(T+%v) picked %d", x, a.Index(), x, b.Index())
		}
	}
}

func TestClockFrameContainment(t *testing.T) {
	c, _ := NewClock(threeFrames())
	step := 13 * time.Millisecond
	for i := 0; i < 200; i++ {
		c.Advance(step)
		f := c.Frames()[c.Index()]
		if c.Elapsed() < f.Start || c.Elapsed() >= f.End() {
			t.Fatalf("tick %d: elapsed %v outside selected frame [%v, %v)", i, c.Elapsed(), f.Start, f.End())
		}
	}
}

func TestClockZeroTotalStaysOnFirstFrame(t *testing.T) {
	c, err := NewClock([]Source{
		{Image: frameImage(4, 4)},
		{Image: frameImage(4, 4)},
	})
	if err != nil {
		t.Fatal(err)
	}
	c.Advance(time.Hour)
	if c.Index() != 0 {
		t.Errorf("index = %d, want 0", c.Index())
	}
}

func TestClockSkipsZeroLengthFrames(t *testing.T) {
	c, _ := NewClock([]Source{
		{Image: frameImage(1, 1)},
		{Image: frameImage(2, 2), Duration: time.Second},
	})
	if c.Index() != 1 {
		t.Errorf("index = %d, want 1", c.Index())
	}
}

func TestClockReset(t *testing.T) {
	c, _ := NewClock(threeFrames())
	c.Advance(160 * time.Millisecond)
	c.Reset()
	if c.Index() != 0 || c.Elapsed() != 0 {
		t.Errorf("after reset index=%d elapsed=%v", c.Index(), c.Elapsed())
	}
}

func TestLargestFrameSize(t *testing.T) {
	c, _ := NewClock(threeFrames())
	if got, want := c.LargestFrameSize(), image.Pt(10, 12); got != want {
		t.Errorf("LargestFrameSize = %v, want %v", got, want)
	}
}
