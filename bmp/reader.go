package bmp

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"io"
	"io/ioutil"
)

// File is a decoded indexed bitmap that can be written back without
// disturbing anything but the pixel indices.
type File struct {
	// Image holds the pixels; edit its Pix via SetColorIndex. Replacing
	// the palette or resizing the image is not supported.
	Image *image.Paletted

	raw     []byte
	offset  int
	stride  int
	topDown bool
}

type header struct {
	offset      int
	width       int
	height      int
	topDown     bool
	paletteAt   int
	colorsUsed  uint32
	infoLen     uint32
	planes      uint16
	bitCount    uint16
	compression uint32
}

func parseHeader(b []byte) (header, error) {
	var h header

	if len(b) < fileHeaderLen+infoHeaderLen {
		return h, errNotEnough
	}
	if b[0] != 'B' || b[1] != 'M' {
		return h, errNotBMP
	}

	le := binary.LittleEndian

	h.offset = int(le.Uint32(b[10:14]))
	h.infoLen = le.Uint32(b[14:18])
	switch h.infoLen {
	case infoHeaderLen, v4HeaderLen, v5HeaderLen:
	default:
		return h, errHeader
	}

	width := int32(le.Uint32(b[18:22]))
	height := int32(le.Uint32(b[22:26]))
	h.planes = le.Uint16(b[26:28])
	h.bitCount = le.Uint16(b[28:30])
	h.compression = le.Uint32(b[30:34])
	h.colorsUsed = le.Uint32(b[46:50])

	switch {
	case h.planes != 1:
		return h, errPlanes
	case h.bitCount != bitsPerPixel:
		return h, errDepth
	case h.compression != biRGB:
		return h, errCompression
	case h.colorsUsed != 0 && h.colorsUsed != paletteEntries:
		return h, errPaletteSize
	}

	if height < 0 {
		h.topDown = true
		height = -height
	}
	if width <= 0 || height <= 0 {
		return h, errDimensions
	}
	h.width, h.height = int(width), int(height)

	h.paletteAt = fileHeaderLen + int(h.infoLen)
	if h.offset < h.paletteAt+paletteLen {
		return h, errOffset
	}

	return h, nil
}

func (h header) palette(b []byte) (color.Palette, error) {
	if len(b) < h.paletteAt+paletteLen {
		return nil, errNotEnough
	}
	p := make(color.Palette, paletteEntries)
	for i := range p {
		e := b[h.paletteAt+i*4:]
		p[i] = color.RGBA{e[2], e[1], e[0], 0xff}
	}
	return p, nil
}

func (h header) pixelsEnd() int {
	return h.offset + stride(h.width)*h.height
}

type decoder struct {
	r io.Reader

	raw []byte
	h   header

	palette color.Palette
	image   *image.Paletted
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	var err error
	if d.raw, err = ioutil.ReadAll(d.r); err != nil {
		return err
	}

	if d.h, err = parseHeader(d.raw); err != nil {
		return err
	}

	if d.palette, err = d.h.palette(d.raw); err != nil {
		return err
	}

	if len(d.raw) < d.h.pixelsEnd() {
		return errNotEnough
	}

	if configOnly {
		return nil
	}

	d.image = image.NewPaletted(image.Rect(0, 0, d.h.width, d.h.height), d.palette)

	s := stride(d.h.width)
	for y := 0; y < d.h.height; y++ {
		copy(d.image.Pix[y*d.image.Stride:], d.raw[d.h.offset+d.row(y)*s:][:d.h.width])
	}

	return nil
}

// row maps an image row to its position in the pixel data.
func (d *decoder) row(y int) int {
	if d.h.topDown {
		return y
	}
	return d.h.height - 1 - y
}

// Read reads an indexed bitmap from r, keeping the original bytes.
func Read(r io.Reader) (*File, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return &File{
		Image:   d.image,
		raw:     d.raw,
		offset:  d.h.offset,
		stride:  stride(d.h.width),
		topDown: d.h.topDown,
	}, nil
}

// Decode reads an indexed bitmap from r and returns it as an image.Image.
func Decode(r io.Reader) (image.Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of an indexed bitmap
// without decoding the pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: d.palette,
		Width:      d.h.width,
		Height:     d.h.height,
	}, nil
}

// Palette returns a copy of the palette stored in the file.
func (f *File) Palette() color.Palette {
	return append(color.Palette(nil), f.Image.Palette...)
}

// Bytes returns the file contents with the current pixels applied.
func (f *File) Bytes() []byte {
	b := append([]byte(nil), f.raw...)

	w, h := f.Image.Rect.Dx(), f.Image.Rect.Dy()
	for y := 0; y < h; y++ {
		row := y
		if !f.topDown {
			row = h - 1 - y
		}
		copy(b[f.offset+row*f.stride:][:w], f.Image.Pix[y*f.Image.Stride:][:w])
	}

	return b
}

// WriteTo writes the file to w. Only the pixel indices can differ from the
// bytes originally read.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	n, err := io.Copy(w, bytes.NewReader(f.Bytes()))
	return n, err
}
