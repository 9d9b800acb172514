package render

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the buffer to terminal cells and draws them on the screen.
// Each terminal row shows two buffer rows: ▀ with the top pixel as
// foreground and the bottom pixel as background, so the buffer height
// should be twice the area height.
func (b *RenderBuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= b.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= b.Width {
				break
			}

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: ToRGBA(b.Pixel(x, topY)),
					Bg: ToRGBA(b.Pixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// TerminalSize returns the buffer size that fills a terminal area of the
// given columns and rows with half-block cells.
func TerminalSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}
