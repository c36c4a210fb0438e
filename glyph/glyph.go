/*
Package glyph maps character codes to cells of a font sheet.

A sheet holds 256 glyphs, one per character code. The game stores them side
by side in a strip 2560 pixels wide, each cell 10 pixels wide and as tall as
the sheet. Older extractions stack the cells vertically instead, in which
case the sheet is 256 cells tall and each cell spans the full width. Cell
heights of 8, 9, 14 and 15 pixels are used.
*/
package glyph

import (
	"errors"
	"fmt"
	"image"
)

const (
	// NumGlyphs is the number of cells in every sheet.
	NumGlyphs = 256
	// CellWidth is the width of a cell in a horizontal sheet.
	CellWidth = 10
	// SheetWidth is the width of a horizontal sheet.
	SheetWidth = NumGlyphs * CellWidth
)

// Heights lists the cell heights found in the game files, smallest first.
var Heights = []int{8, 9, 14, 15}

// truncated maps the heights of vertical sheets that hold fewer than
// NumGlyphs cells to their cell height.
var truncated = map[int]int{
	2259: 9,
	3390: 15,
}

var (
	// ErrCode is returned for a character code outside 0-255.
	ErrCode = errors.New("glyph: character code out of range")
	// ErrLayout is returned when a sheet's dimensions match no known
	// layout.
	ErrLayout = errors.New("glyph: unrecognised sheet dimensions")
)

// Orientation is the direction cells advance in a sheet.
type Orientation int

const (
	// Horizontal sheets place cell c at x = c * CellWidth.
	Horizontal Orientation = iota
	// Vertical sheets place cell c at y = c * CellHeight.
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Layout describes how the cells of a sheet are arranged. It holds no
// mutable state.
type Layout struct {
	Orientation Orientation
	CellWidth   int
	CellHeight  int
	// Cells is the number of cells present, counting from code 0
	Cells int
}

// NewHorizontal returns the layout of a 2560 pixel wide sheet of the given
// height.
func NewHorizontal(height int) Layout {
	return Layout{Horizontal, CellWidth, height, NumGlyphs}
}

// NewVertical returns the layout of a sheet width pixels wide holding cells
// stacked cells of the given height.
func NewVertical(width, height, cells int) Layout {
	return Layout{Vertical, width, height, cells}
}

// Detect works out the layout of a sheet from its dimensions. Candidate
// heights are tried smallest first and the first that tiles the sheet is
// used. A couple of vertical sheets shipped with the game stop short of the
// last few codes; those are recognised by their height.
func Detect(width, height int) (Layout, error) {
	if width == SheetWidth {
		for _, h := range Heights {
			if height == h {
				return NewHorizontal(h), nil
			}
		}
	}
	for _, h := range Heights {
		if height == h*NumGlyphs {
			return NewVertical(width, h, NumGlyphs), nil
		}
	}
	if h, ok := truncated[height]; ok {
		return NewVertical(width, h, height/h), nil
	}
	return Layout{}, fmt.Errorf("%w: %dx%d", ErrLayout, width, height)
}

// ForHeight returns the layout of a width by height sheet whose cells are
// known to be cellHeight pixels tall, bypassing detection. A vertical sheet
// may hold fewer than NumGlyphs cells; rows after the last whole cell belong
// to no glyph.
func ForHeight(width, height, cellHeight int) (Layout, error) {
	switch {
	case cellHeight <= 0:
	case width == SheetWidth && height == cellHeight:
		return NewHorizontal(cellHeight), nil
	case height >= cellHeight && height <= cellHeight*NumGlyphs:
		return NewVertical(width, cellHeight, height/cellHeight), nil
	}
	return Layout{}, fmt.Errorf("%w: %dx%d with %d pixel cells", ErrLayout, width, height, cellHeight)
}

// Size returns the area covered by the cells of a sheet using this layout.
func (l Layout) Size() image.Point {
	if l.Orientation == Vertical {
		return image.Pt(l.CellWidth, l.CellHeight*l.Cells)
	}
	return image.Pt(l.CellWidth*l.Cells, l.CellHeight)
}

// Region returns the cell occupied by code. Codes the sheet has no cell
// for return ErrCode.
func (l Layout) Region(code int) (image.Rectangle, error) {
	if code < 0 || code >= l.Cells {
		return image.Rectangle{}, ErrCode
	}
	var min image.Point
	if l.Orientation == Vertical {
		min = image.Pt(0, code*l.CellHeight)
	} else {
		min = image.Pt(code*l.CellWidth, 0)
	}
	return image.Rectangle{min, min.Add(image.Pt(l.CellWidth, l.CellHeight))}, nil
}

// CodeAt returns the character code whose cell contains (x, y). It returns
// false when the point lies outside the sheet.
func (l Layout) CodeAt(x, y int) (int, bool) {
	if !(image.Point{x, y}.In(image.Rectangle{Max: l.Size()})) {
		return 0, false
	}
	if l.Orientation == Vertical {
		return y / l.CellHeight, true
	}
	return x / l.CellWidth, true
}
