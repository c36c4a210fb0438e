/*
Package tui drives a canvas from a terminal.

Each pixel of the sheet is drawn as a block of zoom/5 rows by twice as many
columns, which keeps pixels roughly square in a typical terminal font. The
bottom row of the screen is a status line.
*/
package tui

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/bodgit/mifont"
	"github.com/bodgit/mifont/canvas"
	"github.com/bodgit/mifont/clipboard"
	"github.com/bodgit/mifont/glyph"
	"github.com/bodgit/mifont/history"
	"github.com/gdamore/tcell/v2"
)

var (
	gridStyle   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(100, 100, 100))
	glyphStyle  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0, 160, 0))
	activeStyle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 0, 0))
	selectStyle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 255, 0))
	pasteStyle  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0, 255, 0))
	statusStyle = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
)

// App is a terminal editing session.
type App struct {
	screen tcell.Screen
	editor *mifont.Editor
	logger *log.Logger

	files []string
	index int

	prevButtons tcell.ButtonMask
	message     string
	confirm     tcell.Key // action awaiting a second press
	quit        bool
}

// New returns an App showing the sheet currently open in e on screen, which
// must already be initialised. PgUp and PgDn cycle through files, which
// should include the open sheet.
func New(screen tcell.Screen, e *mifont.Editor, logger *log.Logger, files ...string) *App {
	a := &App{
		screen: screen,
		editor: e,
		logger: logger,
		files:  files,
	}
	for i, f := range files {
		if f == e.File() {
			a.index = i
		}
	}
	a.watch()
	return a
}

func (a *App) watch() {
	a.canvas().Subscribe(func(ev canvas.Event) {
		if ev.Kind == canvas.CharacterJumped {
			a.message = "glyph " + glyph.Describe(ev.Code)
		}
	})
}

// switchFile opens the file n places along the list, wrapping at either
// end. The clipboard is carried over.
func (a *App) switchFile(n int) {
	if len(a.files) < 2 {
		a.message = "no other sheets"
		return
	}

	i := (a.index + n + len(a.files)) % len(a.files)
	if err := a.editor.Open(a.files[i]); err != nil {
		a.report(err)
		return
	}
	a.index = i
	a.prevButtons = 0
	a.watch()
	a.message = fmt.Sprintf("sheet %d of %d", i+1, len(a.files))
}

// confirmed reports whether an action that discards unsaved changes can go
// ahead. The first press only warns.
func (a *App) confirmed(k tcell.Key, what string) bool {
	if !a.editor.Modified() || a.confirm == k {
		return true
	}
	a.message = "unsaved changes, press " + what + " again"
	return false
}

func (a *App) canvas() *canvas.Canvas { return a.editor.Canvas() }

func (a *App) Message() string { return a.message }

func (a *App) Done() bool { return a.quit }

// Run processes events until the user quits.
func (a *App) Run() error {
	a.screen.EnableMouse()
	defer a.screen.DisableMouse()

	for !a.quit {
		a.Draw()
		ev := a.screen.PollEvent()
		if ev == nil {
			return errors.New("tui: screen closed")
		}
		a.HandleEvent(ev)
	}
	return nil
}

// HandleEvent applies a single terminal event.
func (a *App) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	}
}

// scale returns the number of rows per sheet pixel.
func (a *App) scale() int {
	return a.canvas().Zoom() / canvas.ZoomStep
}

// cellToScreen converts a terminal cell to canvas screen space, in which a
// sheet pixel is zoom units square.
func cellToScreen(col, row int) image.Point {
	return image.Pt(col*canvas.ZoomStep/2, row*canvas.ZoomStep)
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	c := a.canvas()
	x, y := ev.Position()
	p := cellToScreen(x, y)

	buttons := ev.Buttons()

	step := c.Layout().CellWidth
	if c.Layout().Orientation == glyph.Vertical {
		step = c.Layout().CellHeight
	}

	// Wheel events don't carry the state of the other buttons
	switch {
	case buttons&tcell.WheelUp != 0:
		a.scroll(-step)
		return
	case buttons&tcell.WheelDown != 0:
		a.scroll(step)
		return
	}

	down := buttons&tcell.Button1 != 0
	wasDown := a.prevButtons&tcell.Button1 != 0
	a.prevButtons = buttons

	switch {
	case down && !wasDown:
		_, h := a.screen.Size()
		if y >= h-1 {
			return
		}
		c.PointerDown(p, ev.Modifiers()&tcell.ModShift != 0)
	case !down && wasDown:
		c.PointerUp(p)
	default:
		c.PointerMove(p)
	}
}

func (a *App) scroll(n int) {
	c := a.canvas()
	if c.Layout().Orientation == glyph.Vertical {
		c.Scroll(0, n)
	} else {
		c.Scroll(n, 0)
	}
}

func (a *App) report(err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, history.ErrEmpty):
		a.message = "nothing to restore"
	case errors.Is(err, clipboard.ErrEmptySelection):
		a.message = "select a region first (shift+drag)"
	case errors.Is(err, canvas.ErrEmptyClipboard):
		a.message = "copy a selection first"
	case errors.Is(err, canvas.ErrBusy):
		a.message = "finish the current gesture first"
	case errors.Is(err, canvas.ErrNotPasting):
		a.message = "not pasting"
	default:
		a.message = err.Error()
		a.logger.Println(err)
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	c := a.canvas()

	pending := tcell.KeyNUL
	defer func() { a.confirm = pending }()

	k := ev.Key()
	if k == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 {
		switch ev.Rune() {
		case 'z', 'Z':
			k = tcell.KeyCtrlZ
		case 'y', 'Y':
			k = tcell.KeyCtrlY
		case 's', 'S':
			k = tcell.KeyCtrlS
		}
	}

	switch k {
	case tcell.KeyCtrlZ:
		a.report(c.Undo())
	case tcell.KeyCtrlY:
		a.report(c.Redo())
	case tcell.KeyCtrlS:
		if err := a.editor.Save(); err != nil {
			a.report(err)
			return
		}
		a.message = "saved " + a.editor.File()
	case tcell.KeyEnter:
		a.report(c.CommitPaste())
	case tcell.KeyEscape:
		if c.State() == canvas.PastePreviewing {
			a.report(c.CancelPaste())
			return
		}
		c.ClearSelection()
	case tcell.KeyLeft:
		a.arrow(-1, 0)
	case tcell.KeyRight:
		a.arrow(1, 0)
	case tcell.KeyUp:
		a.arrow(0, -1)
	case tcell.KeyDown:
		a.arrow(0, 1)
	case tcell.KeyPgDn, tcell.KeyPgUp:
		n, what := 1, "PgDn"
		if k == tcell.KeyPgUp {
			n, what = -1, "PgUp"
		}
		if !a.confirmed(k, what) {
			pending = k
			return
		}
		a.switchFile(n)
	case tcell.KeyRune:
		if ev.Rune() == 'q' {
			if !a.confirmed(tcell.KeyRune, "q") {
				pending = tcell.KeyRune
				return
			}
			a.quit = true
			return
		}
		a.handleRune(ev.Rune())
	}
}

func (a *App) arrow(dx, dy int) {
	c := a.canvas()
	if c.State() == canvas.PastePreviewing {
		a.report(c.MovePreview(dx, dy))
		return
	}
	c.Scroll(dx, dy)
}

func (a *App) handleRune(r rune) {
	c := a.canvas()

	switch r {
	case 'u':
		a.report(c.Undo())
	case 'r':
		a.report(c.Redo())
	case 'c':
		if err := c.Copy(); err != nil {
			a.report(err)
			return
		}
		clip := c.Clip()
		a.message = fmt.Sprintf("copied %dx%d pixels", clip.Width, clip.Height)
	case 'v':
		a.report(c.Paste())
	case 'd':
		c.SetMode(canvas.Draw)
	case 's':
		c.SetMode(canvas.Select)
	case '[':
		a.report(c.SetColor((int(c.Color()) + 255) % 256))
	case ']':
		a.report(c.SetColor((int(c.Color()) + 1) % 256))
	case '+', '=':
		c.ZoomIn()
	case '-':
		c.ZoomOut()
	case 'g':
		c.SetGrid(!c.Grid())
	case 'n':
		a.report(c.JumpTo((c.ActiveGlyph() + 1) % c.Layout().Cells))
	case 'p':
		n := c.Layout().Cells
		a.report(c.JumpTo((c.ActiveGlyph() + n - 1) % n))
	}
}

func rgb(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}
