package bmp

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"
)

type encoder struct {
	w io.Writer
}

func padPalette(p color.Palette) color.Palette {
	// Pad palette to exactly paletteEntries colors
	for len(p) < paletteEntries {
		p = append(p, color.RGBA{0, 0, 0, 0xff})
	}
	return p
}

func (e *encoder) encode(m *image.Paletted) error {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	s := stride(w)
	offset := fileHeaderLen + infoHeaderLen + paletteLen
	size := offset + s*h

	le := binary.LittleEndian

	var hdr [fileHeaderLen + infoHeaderLen]byte
	hdr[0], hdr[1] = 'B', 'M'
	le.PutUint32(hdr[2:], uint32(size))
	le.PutUint32(hdr[10:], uint32(offset))
	le.PutUint32(hdr[14:], infoHeaderLen)
	le.PutUint32(hdr[18:], uint32(w))
	le.PutUint32(hdr[22:], uint32(h))
	le.PutUint16(hdr[26:], 1)
	le.PutUint16(hdr[28:], bitsPerPixel)
	le.PutUint32(hdr[30:], biRGB)
	le.PutUint32(hdr[34:], uint32(s*h))
	le.PutUint32(hdr[46:], paletteEntries)

	if _, err := e.w.Write(hdr[:]); err != nil {
		return err
	}

	var pal [paletteLen]byte
	for i, c := range m.Palette {
		r, g, b, _ := c.RGBA()
		pal[i*4+0] = byte(b >> 8)
		pal[i*4+1] = byte(g >> 8)
		pal[i*4+2] = byte(r >> 8)
	}
	if _, err := e.w.Write(pal[:]); err != nil {
		return err
	}

	// Rows are written bottom-up
	row := make([]byte, s)
	for y := h - 1; y >= 0; y-- {
		copy(row, m.Pix[y*m.Stride:][:w])
		if _, err := e.w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// Encode writes the Image m to w as an 8-bit indexed bitmap. Images that are
// not already paletted must use a color.Palette color model.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Empty() {
		return errors.New("bmp: image is empty")
	}

	pm, _ := m.(*image.Paletted)
	if pm == nil {
		cp, ok := m.ColorModel().(color.Palette)
		if !ok {
			return errors.New("bmp: image is not paletted")
		}
		pm = image.NewPaletted(b, cp)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				pm.Set(x, y, cp.Convert(m.At(x, y)))
			}
		}
	}
	if len(pm.Palette) > paletteEntries {
		return errPaletteColor
	}

	// Adjust image so that top-left corner is at (0, 0)
	dup := *pm
	dup.Rect = dup.Rect.Sub(dup.Rect.Min)
	dup.Palette = padPalette(append(color.Palette(nil), pm.Palette...))

	e := encoder{w: w}

	return e.encode(&dup)
}
