package game

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/retroblast-engine/tilerun/config"
)

// stub is a scene that does whatever its fields say.
type stub struct {
	out     Outcome
	panic   any
	updates int
}

func (s *stub) Update(g *Game, in Input, dt time.Duration) Outcome {
	s.updates++
	if s.panic != nil {
		panic(s.panic)
	}
	return s.out
}

func (s *stub) Draw(*ebiten.Image) {}

// failingDiagnostic is an error screen that fails itself.
type failingDiagnostic struct {
	*Diagnostic
	err error
}

func (d failingDiagnostic) Update(*Game, Input, time.Duration) Outcome {
	return Fatal(d.err)
}

func newGame(scenes ...Scene) *Game {
	g := New(&config.Game{Name: "test"}, config.DefaultUser(), nil)
	for _, s := range scenes {
		g.Push(s)
	}
	return g
}

func TestStepContinues(t *testing.T) {
	s := &stub{}
	g := newGame(s)

	if err := g.step(Input{}, time.Millisecond); err != nil {
		t.Fatalf("step = %v, want nil", err)
	}
	if s.updates != 1 || len(g.stack) != 1 {
		t.Errorf("updates = %d, stack = %d", s.updates, len(g.stack))
	}
}

func TestStepTerminates(t *testing.T) {
	tests := []struct {
		name   string
		scenes []Scene
	}{
		{"quit", []Scene{&stub{out: Outcome{Quit: true}}}},
		{"empty stack", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGame(tt.scenes...)
			if err := g.step(Input{}, 0); !errors.Is(err, ebiten.Termination) {
				t.Errorf("step = %v, want ebiten.Termination", err)
			}
		})
	}
}

func TestStepErrorShowsDiagnostic(t *testing.T) {
	errBroken := errors.New("broken")
	s := &stub{out: Fatal(errBroken)}
	g := newGame(s)

	if err := g.step(Input{}, 0); err != nil {
		t.Fatalf("step = %v, want nil", err)
	}
	d, ok := g.top().(*Diagnostic)
	if !ok {
		t.Fatalf("top = %T, want *Diagnostic", g.top())
	}
	if !strings.Contains(d.lines, "broken") {
		t.Errorf("diagnostic text = %q", d.lines)
	}

	// Escape goes back to the scene that failed.
	if err := g.step(Input{Back: true}, 0); err != nil {
		t.Fatalf("step = %v, want nil", err)
	}
	if g.top() != s {
		t.Errorf("top = %T, want the failed scene", g.top())
	}
}

func TestStepRecoversPanic(t *testing.T) {
	g := newGame(&stub{panic: "boom"})

	if err := g.step(Input{}, 0); err != nil {
		t.Fatalf("step = %v, want nil", err)
	}
	d, ok := g.top().(*Diagnostic)
	if !ok {
		t.Fatalf("top = %T, want *Diagnostic", g.top())
	}
	if !strings.Contains(d.lines, "panic: boom") || !strings.Contains(d.lines, "goroutine") {
		t.Errorf("diagnostic should carry the panic and its stack, got %q", d.lines)
	}
}

func TestTickWrapsPanic(t *testing.T) {
	g := newGame()
	out := g.tick(&stub{panic: 42}, Input{}, 0)

	var pe *PanicError
	if !errors.As(out.Err, &pe) {
		t.Fatalf("err = %v, want a PanicError", out.Err)
	}
	if pe.Value != 42 || len(pe.Stack) == 0 {
		t.Errorf("panic error = %v with %d stack bytes", pe.Value, len(pe.Stack))
	}
}

func TestFailingDiagnosticEndsGame(t *testing.T) {
	errDraw := errors.New("cannot draw")
	g := newGame(&stub{}, failingDiagnostic{Diagnostic: NewDiagnostic(errors.New("first"), nil), err: errDraw})

	if err := g.step(Input{}, 0); !errors.Is(err, errDraw) {
		t.Errorf("step = %v, want %v", err, errDraw)
	}
	if len(g.stack) != 2 {
		t.Errorf("stack = %d scenes, want 2", len(g.stack))
	}
}

func TestElapsed(t *testing.T) {
	g := newGame()
	if got := g.elapsed(); got != 0 {
		t.Errorf("first elapsed = %v, want 0", got)
	}

	g.last = time.Now().Add(-time.Hour)
	if got := g.elapsed(); got != maxFrameTime {
		t.Errorf("elapsed after a stall = %v, want %v", got, maxFrameTime)
	}
}
