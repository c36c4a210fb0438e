/*
Package bmp implements an 8-bit indexed Windows bitmap decoder and encoder
suitable for editing font sheets in place.

The file starts with a 14 byte file header followed by an information header
of 40, 108 or 124 bytes. A table of 256 four byte palette entries stored as
blue, green, red and a reserved byte comes next, and finally the pixel data,
one palette index per pixel. Each row is padded to a multiple of four bytes
and rows are stored bottom-up unless the height is negative.

Only uncompressed images with exactly 256 palette entries are supported. A
File remembers every byte it was read from so that writing it back only
changes the pixel indices.
*/
package bmp

const (
	fileHeaderLen  = 14
	infoHeaderLen  = 40
	v4HeaderLen    = 108
	v5HeaderLen    = 124
	paletteEntries = 256
	paletteLen     = paletteEntries * 4
	bitsPerPixel   = 8
	biRGB          = 0
)

// FormatError reports that the input is not a supported indexed bitmap.
type FormatError string

func (e FormatError) Error() string { return "bmp: invalid format: " + string(e) }

var (
	errNotBMP       = FormatError("not a BMP file")
	errHeader       = FormatError("unsupported information header")
	errPlanes       = FormatError("planes must be 1")
	errDepth        = FormatError("unsupported bit depth")
	errCompression  = FormatError("compressed images are not supported")
	errPaletteSize  = FormatError("palette must have 256 entries")
	errDimensions   = FormatError("invalid dimensions")
	errOffset       = FormatError("pixel data overlaps header")
	errNotEnough    = FormatError("not enough image data")
	errPaletteColor = FormatError("image palette has more than 256 colors")
)

func stride(width int) int {
	return (width + 3) &^ 3
}
