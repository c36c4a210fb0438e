/*
Package mifont is a library for editing the bitmap font sheets of The Secret
of Monkey Island.

Each sheet is an 8-bit indexed bitmap holding 256 glyphs. An Editor opens a
sheet, hands out a canvas to edit it with and writes it back leaving
everything except the edited pixels untouched.
*/
package mifont

import (
	"errors"
	"io"
	"log"
	"os"

	"github.com/bodgit/mifont/bmp"
	"github.com/bodgit/mifont/canvas"
	"github.com/bodgit/mifont/glyph"
	"github.com/bodgit/mifont/raster"
)

var errNoSheet = errors.New("mifont: no sheet is open")

// Sheet is a decoded font sheet.
type Sheet struct {
	File   *bmp.File
	Buffer *raster.Buffer
	Layout glyph.Layout
}

// ReadSheet decodes a sheet from r. If height is non-zero it is used as the
// cell height instead of detecting it.
func ReadSheet(r io.Reader, height int) (*Sheet, error) {
	f, err := bmp.Read(r)
	if err != nil {
		return nil, err
	}

	b, err := raster.New(f.Image)
	if err != nil {
		return nil, err
	}

	var l glyph.Layout
	if height != 0 {
		l, err = glyph.ForHeight(b.Width(), b.Height(), height)
	} else {
		l, err = glyph.Detect(b.Width(), b.Height())
	}
	if err != nil {
		return nil, err
	}

	return &Sheet{
		File:   f,
		Buffer: b,
		Layout: l,
	}, nil
}

// OpenSheet reads the sheet stored in file.
func OpenSheet(file string, height int) (*Sheet, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadSheet(f, height)
}

// Editor is an editing session. Only one sheet is open at a time but the
// clipboard is kept when switching between sheets.
type Editor struct {
	db     *ClipDB
	logger *log.Logger

	// Height forces the cell height of sheets opened afterwards
	Height int

	file   string
	sheet  *Sheet
	canvas *canvas.Canvas
	saved  raster.Snapshot
}

// New returns an Editor. db may be nil if clips are not to be stored.
func New(db *ClipDB, logger *log.Logger) *Editor {
	return &Editor{
		db:     db,
		logger: logger,
	}
}

// Open loads file and makes it the current sheet. On failure the current
// sheet is left as it was.
func (e *Editor) Open(file string) error {
	sheet, err := OpenSheet(file, e.Height)
	if err != nil {
		return err
	}

	c := canvas.New(sheet.Buffer, sheet.Layout)
	if e.canvas != nil {
		c.SetClip(e.canvas.Clip())
		c.SetZoom(e.canvas.Zoom())
	}

	e.file = file
	e.sheet = sheet
	e.canvas = c
	e.saved = sheet.Buffer.Snapshot()

	e.logger.Printf("Opened \"%s\", %dx%d %s layout with %d pixel cells\n", file, sheet.Buffer.Width(), sheet.Buffer.Height(), sheet.Layout.Orientation, sheet.Layout.CellHeight)

	return nil
}

func (e *Editor) File() string { return e.file }

// Sheet returns the current sheet, or nil.
func (e *Editor) Sheet() *Sheet { return e.sheet }

// Canvas returns the canvas editing the current sheet, or nil.
func (e *Editor) Canvas() *canvas.Canvas { return e.canvas }

// Modified reports whether the sheet differs from when it was last opened
// or saved.
func (e *Editor) Modified() bool {
	return e.sheet != nil && !e.sheet.Buffer.Equal(e.saved)
}

// Save overwrites the current sheet's file. No backup is made.
func (e *Editor) Save() error {
	return e.SaveAs(e.file)
}

// SaveAs writes the current sheet to file, which becomes the current file.
func (e *Editor) SaveAs(file string) error {
	if e.sheet == nil {
		return errNoSheet
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := e.sheet.File.WriteTo(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	e.file = file
	e.saved = e.sheet.Buffer.Snapshot()

	e.logger.Printf("Saved \"%s\"\n", file)

	return nil
}

// StoreClip saves the clipboard in the clip database under name.
func (e *Editor) StoreClip(name string) error {
	if e.db == nil || e.canvas == nil || e.canvas.Clip() == nil {
		return canvas.ErrEmptyClipboard
	}
	return e.db.StoreClip(name, e.canvas.Clip())
}

// LoadClip replaces the clipboard with the clip stored under name.
func (e *Editor) LoadClip(name string) error {
	if e.canvas == nil {
		return errNoSheet
	}
	if e.db == nil {
		return errNoClip
	}
	clip, err := e.db.FindClip(name)
	if err != nil {
		return err
	}
	if clip == nil {
		return errNoClip
	}
	e.canvas.SetClip(clip)
	return nil
}
