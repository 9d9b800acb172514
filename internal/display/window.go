//go:build cgo

package display

import (
	"context"
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/taigrr/ip2k/internal/frametime"
	"github.com/taigrr/ip2k/internal/input"
	"github.com/taigrr/ip2k/pkg/render"
)

// windowKeys maps keymap key names to ebiten keys.
var windowKeys = map[string]ebiten.Key{
	"up":    ebiten.KeyArrowUp,
	"down":  ebiten.KeyArrowDown,
	"left":  ebiten.KeyArrowLeft,
	"right": ebiten.KeyArrowRight,
	"esc":   ebiten.KeyEscape,
	"\\":    ebiten.KeyBackslash,
	"space": ebiten.KeySpace,
	"enter": ebiten.KeyEnter,
	"tab":   ebiten.KeyTab,
	"f1":    ebiten.KeyF1,
	"f2":    ebiten.KeyF2,
	"f3":    ebiten.KeyF3,
	"f12":   ebiten.KeyF12,
}

func init() {
	letters := []ebiten.Key{
		ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF, ebiten.KeyG,
		ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL, ebiten.KeyM, ebiten.KeyN,
		ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR, ebiten.KeyS, ebiten.KeyT, ebiten.KeyU,
		ebiten.KeyV, ebiten.KeyW, ebiten.KeyX, ebiten.KeyY, ebiten.KeyZ,
	}
	for i, k := range letters {
		windowKeys[string(rune('a'+i))] = k
	}
	digits := []ebiten.Key{
		ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
		ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
	}
	for i, k := range digits {
		windowKeys[string(rune('0'+i))] = k
	}
}

// Window shows frames in a desktop window.
type Window struct {
	opts Options
}

// NewWindow creates a window surface.
func NewWindow(opts Options) *Window {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &Window{opts: opts}
}

// Run implements Surface. It blocks until the window closes.
func (w *Window) Run(ctx context.Context, frame Frame) error {
	g := &windowGame{
		ctx:    ctx,
		opts:   w.opts,
		frame:  frame,
		clock:  frametime.NewClock(0),
		width:  w.opts.Width,
		height: w.opts.Height,
	}

	ebiten.SetWindowTitle(w.opts.Title)
	ebiten.SetWindowSize(w.opts.Width, w.opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if w.opts.FPS > 0 {
		ebiten.SetTPS(w.opts.FPS)
	}

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type windowGame struct {
	ctx   context.Context
	opts  Options
	frame Frame
	clock *frametime.Clock

	width, height int
	buf           *render.RenderBuffer
	img           *ebiten.Image
	pix           []byte
}

func (g *windowGame) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	now := time.Now()
	dt := g.clock.Tick(now)
	g.poll(now)

	in := g.opts.State.Next(now)
	if in.Quit {
		return ebiten.Termination
	}

	buf, err := g.frame(Tick{Width: g.width, Height: g.height, DT: dt, FPS: g.clock.FPS(), Input: in})
	if err != nil {
		return err
	}
	g.buf = buf
	return nil
}

// poll feeds key state into the input state. Held actions follow the key;
// others fire on the press edge.
func (g *windowGame) poll(now time.Time) {
	state := g.opts.State
	keymap := state.Keymap()

	for name, key := range windowKeys {
		a := keymap.Lookup(name)
		if a == input.ActionNone {
			continue
		}
		switch {
		case a.Held() && ebiten.IsKeyPressed(key):
			state.Press(a, now)
		case a.Held() && inpututil.IsKeyJustReleased(key):
			state.Release(a)
		case !a.Held() && inpututil.IsKeyJustPressed(key):
			state.Press(a, now)
		}
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		state.Press(keymap.Lookup("ctrl+c"), now)
	}
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	if g.buf == nil {
		return
	}
	if g.img == nil || g.img.Bounds().Dx() != g.buf.Width || g.img.Bounds().Dy() != g.buf.Height {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(g.buf.Width, g.buf.Height)
		g.pix = make([]byte, g.buf.Width*g.buf.Height*4)
	}

	g.buf.CopyRGBA(g.pix)
	g.img.WritePixels(g.pix)
	screen.DrawImage(g.img, nil)

	if g.opts.Status != nil {
		ebitenutil.DebugPrint(screen, g.opts.Status(g.clock.FPS()))
	}
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = max(outsideWidth, 1), max(outsideHeight, 1)
	return g.width, g.height
}
