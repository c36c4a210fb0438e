package tui

import (
	"fmt"
	"path/filepath"

	"github.com/bodgit/mifont/canvas"
	"github.com/bodgit/mifont/glyph"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Draw redraws the whole screen.
func (a *App) Draw() {
	c := a.canvas()
	w, h := a.screen.Size()
	k := a.scale()

	for row := 0; row < h-1; row++ {
		for col := 0; col < w; col++ {
			p := c.ScreenToBuffer(cellToScreen(col, row))
			cell, ok := c.Inspect(p)
			if !ok {
				a.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
				continue
			}

			ch, style := ' ', tcell.StyleDefault
			left := col%(2*k) == 0
			top := row%k == 0

			switch {
			case cell.Preview:
				ch, style = '∙', pasteStyle
			case cell.Selected:
				ch, style = '░', selectStyle
			case left && cell.LeftEdge && c.Layout().Orientation == glyph.Horizontal:
				ch, style = '▏', glyphStyle
				if cell.Active {
					style = activeStyle
				}
			case top && cell.TopEdge && c.Layout().Orientation == glyph.Vertical:
				ch, style = '▔', glyphStyle
				if cell.Active {
					style = activeStyle
				}
			case left && k > 1 && c.Grid():
				ch, style = '▏', gridStyle
			}

			a.screen.SetContent(col, row, ch, nil, style.Background(rgb(cell.Color)))
		}
	}

	a.drawStatus(w, h-1)
	a.screen.Show()
}

// Status returns the text of the status line.
func (a *App) Status() string {
	c := a.canvas()
	l := c.Layout()

	modified := ""
	if a.editor.Modified() {
		modified = "*"
	}

	code := c.HoverGlyph()
	if code < 0 {
		code = c.ActiveGlyph()
	}

	state := c.Mode().String()
	if c.State() != canvas.Idle {
		state = c.State().String()
	}

	s := fmt.Sprintf("%s%s | %s %dpx | %s | colour %d | %s | zoom %d", filepath.Base(a.editor.File()), modified, l.Orientation, l.CellHeight, glyph.Describe(code), c.Color(), state, c.Zoom())
	if r, ok := c.Selection(); ok {
		s += fmt.Sprintf(" | sel %dx%d", r.Dx(), r.Dy())
	}
	if a.message != "" {
		s += " | " + a.message
	}
	return s
}

func (a *App) drawStatus(w, row int) {
	c := a.canvas()

	// Swatch of the drawing color
	swatch := tcell.StyleDefault.Background(rgb(c.Buffer().Color(c.Color())))
	a.screen.SetContent(0, row, ' ', nil, swatch)
	a.screen.SetContent(1, row, ' ', nil, swatch)

	s := runewidth.Truncate(" "+a.Status(), w-2, "…")
	col := 2
	for _, r := range s {
		a.screen.SetContent(col, row, r, nil, statusStyle)
		col += runewidth.RuneWidth(r)
	}
	for ; col < w; col++ {
		a.screen.SetContent(col, row, ' ', nil, statusStyle)
	}
}
