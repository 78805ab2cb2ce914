// Package game runs scenes inside the ebiten frame loop.
package game

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"runtime/debug"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/retroblast-engine/tilerun/config"
)

// maxFrameTime caps the elapsed time handed to a single tick.
const maxFrameTime = 250 * time.Millisecond

// Outcome is what a scene reports after a tick.
type Outcome struct {
	Err  error
	Quit bool
}

var Continue = Outcome{}

// Fatal reports an error the scene cannot recover from.
func Fatal(err error) Outcome {
	return Outcome{Err: err}
}

// Scene is one screen of the game. The top of the stack is updated and drawn.
type Scene interface {
	Update(g *Game, in Input, dt time.Duration) Outcome
	Draw(screen *ebiten.Image)
}

// reporter is a scene that shows errors. Its own failure ends the game.
type reporter interface {
	reportsErrors()
}

// Game implements ebiten.Game over a stack of scenes.
type Game struct {
	Config *config.Game
	User   config.User
	Face   *text.GoTextFace

	stack  []Scene
	last   time.Time
	screen image.Point
}

// New creates a game with an empty scene stack.
func New(cfg *config.Game, user config.User, face *text.GoTextFace) *Game {
	size := image.Pt(user.Display.WindowSize[0], user.Display.WindowSize[1])
	if size.X <= 0 || size.Y <= 0 {
		d := config.DefaultUser().Display.WindowSize
		size = image.Pt(d[0], d[1])
	}
	return &Game{Config: cfg, User: user, Face: face, screen: size}
}

func (g *Game) Push(s Scene) {
	g.stack = append(g.stack, s)
}

// Pop removes the top scene. An empty stack ends the game on the next tick.
func (g *Game) Pop() {
	if len(g.stack) > 0 {
		g.stack = g.stack[:len(g.stack)-1]
	}
}

func (g *Game) Replace(s Scene) {
	g.Pop()
	g.Push(s)
}

func (g *Game) top() Scene {
	if len(g.stack) == 0 {
		return nil
	}
	return g.stack[len(g.stack)-1]
}

// Run configures the window and blocks until the game ends.
func (g *Game) Run() error {
	ebiten.SetWindowSize(g.screen.X, g.screen.Y)
	ebiten.SetWindowTitle(g.Config.FriendlyName)
	ebiten.SetFullscreen(g.User.Display.Fullscreen)
	ebiten.SetTPS(g.User.TPS())

	log.Printf("[Game] %s: %dx%d at %d TPS", g.Config.Name, g.screen.X, g.screen.Y, g.User.TPS())
	return ebiten.RunGame(g)
}

func (g *Game) elapsed() time.Duration {
	now := time.Now()
	defer func() { g.last = now }()
	if g.last.IsZero() {
		return 0
	}
	return min(now.Sub(g.last), maxFrameTime)
}

// Update ticks the top scene. A failing scene is covered by a diagnostic
// scene; a failing diagnostic scene ends the game with its error.
func (g *Game) Update() error {
	return g.step(readInput(), g.elapsed())
}

func (g *Game) step(in Input, dt time.Duration) error {
	top := g.top()
	if top == nil {
		return ebiten.Termination
	}

	out := g.tick(top, in, dt)
	if out.Quit {
		return ebiten.Termination
	}
	if out.Err == nil {
		return nil
	}

	if _, ok := top.(reporter); ok {
		return out.Err
	}
	log.Printf("[Game] scene failed: %v", out.Err)
	g.Push(NewDiagnostic(out.Err, g.Face))
	return nil
}

func (g *Game) tick(s Scene, in Input, dt time.Duration) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Fatal(&PanicError{Value: r, Stack: debug.Stack()})
		}
	}()
	return s.Update(g, in, dt)
}

// PanicError is a panic recovered from a scene.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	if top := g.top(); top != nil {
		top.Draw(screen)
	}

	if g.User.Display.FPSDisplay {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("%.02f FPS", ebiten.ActualFPS()))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screen.X, g.screen.Y
}
