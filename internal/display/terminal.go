package display

import (
	"context"
	"fmt"
	"image/color"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/ip2k/internal/frametime"
	"github.com/taigrr/ip2k/pkg/render"
)

var (
	statusFg = color.RGBA{0xE0, 0xE0, 0xE0, 0xFF}
	statusBg = color.RGBA{0x10, 0x10, 0x18, 0xFF}
)

// Terminal shows frames as half-block cells in the terminal's alternate
// screen.
type Terminal struct {
	opts Options
}

// NewTerminal creates a terminal surface.
func NewTerminal(opts Options) *Terminal {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &Terminal{opts: opts}
}

// bufferSize returns the render buffer size for a terminal of cols x rows,
// leaving the last row for the status line when shown.
func (t *Terminal) bufferSize(cols, rows int) (width, height int) {
	if t.opts.Status != nil {
		rows--
	}
	return render.TerminalSize(max(cols, 1), max(rows, 1))
}

// Run implements Surface.
func (t *Terminal) Run(ctx context.Context, frame Frame) error {
	log := t.opts.Log
	state := t.opts.State
	keymap := state.Keymap()

	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)
	log.Debug("terminal started", zap.Int("cols", cols), zap.Int("rows", rows))

	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			log.Warn("terminal shutdown", zap.Error(err))
		}
	}()

	events := term.Events()
	clock := frametime.NewClock(t.opts.FPS)

	for {
		now := time.Now()
		dt := clock.Tick(now)

	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				switch ev := ev.(type) {
				case uv.WindowSizeEvent:
					cols, rows = ev.Width, ev.Height
					term.Erase()
					term.Resize(cols, rows)
					log.Debug("terminal resized", zap.Int("cols", cols), zap.Int("rows", rows))
				case uv.KeyPressEvent:
					state.Press(keymap.Match(ev.MatchString), now)
				case uv.KeyReleaseEvent:
					state.Release(keymap.Match(ev.MatchString))
				}
			default:
				break drain
			}
		}

		in := state.Next(now)
		if in.Quit {
			return nil
		}

		width, height := t.bufferSize(cols, rows)
		buf, err := frame(Tick{Width: width, Height: height, DT: dt, FPS: clock.FPS(), Input: in})
		if err != nil {
			return err
		}

		buf.Draw(term, uv.Rect(0, 0, cols, height/2))
		if t.opts.Status != nil {
			drawStatus(term, rows-1, cols, t.opts.Status(clock.FPS()))
		}
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(clock.Remaining(time.Now())):
		}
	}
}

// drawStatus writes text on one terminal row, padding it to the width.
func drawStatus(scr uv.Screen, row, cols int, text string) {
	runes := []rune(text)
	for x := range cols {
		content := " "
		if x < len(runes) {
			content = string(runes[x])
		}
		scr.SetCell(x, row, &uv.Cell{
			Content: content,
			Width:   1,
			Style:   uv.Style{Fg: statusFg, Bg: statusBg},
		})
	}
}
