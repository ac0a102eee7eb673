package frogger

import (
	"fmt"

	"github.com/vovakirdan/tui-frogger/internal/core"
)

// Bitmap is an immutable 1-bit pixel mask.
type Bitmap struct {
	w, h int
	bits []bool
}

// NewBitmap builds a bitmap from ASCII art. Every non-space, non-dot rune is
// a set pixel and each art pixel becomes a scale x scale block.
// All rows must have the same length.
func NewBitmap(scale int, rows ...string) *Bitmap {
	if scale < 1 {
		scale = 1
	}
	if len(rows) == 0 {
		return &Bitmap{}
	}
	artW := len([]rune(rows[0]))
	b := &Bitmap{
		w:    artW * scale,
		h:    len(rows) * scale,
		bits: make([]bool, artW*scale*len(rows)*scale),
	}
	for ry, row := range rows {
		runes := []rune(row)
		if len(runes) != artW {
			panic(fmt.Sprintf("frogger: bitmap row %d has %d pixels, expected %d", ry, len(runes), artW))
		}
		for rx, r := range runes {
			if r == ' ' || r == '.' {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					b.bits[(ry*scale+dy)*b.w+rx*scale+dx] = true
				}
			}
		}
	}
	return b
}

// Width returns the bitmap width in pixels.
func (b *Bitmap) Width() int { return b.w }

// Height returns the bitmap height in pixels.
func (b *Bitmap) Height() int { return b.h }

// Bit reports whether the pixel at (x, y) is set.
func (b *Bitmap) Bit(x, y int) bool {
	if x < 0 || x >= b.w || y < 0 || y >= b.h {
		return false
	}
	return b.bits[y*b.w+x]
}

// Rotate returns the bitmap turned 90 degrees clockwise.
func (b *Bitmap) Rotate() *Bitmap {
	r := &Bitmap{w: b.h, h: b.w, bits: make([]bool, len(b.bits))}
	for y := 0; y < b.h; y++ {
		for x := 0; x < b.w; x++ {
			// (x, y) lands at column h-1-y, row x.
			r.bits[x*r.w+(b.h-1-y)] = b.bits[y*b.w+x]
		}
	}
	return r
}

// Image is a two-tone sprite: a bitmap plus the colors to draw it with.
type Image struct {
	Width      int
	Height     int
	Foreground core.Color
	Background core.Color
	Bitmap     *Bitmap
}

// NewImage creates an image sized to its bitmap.
func NewImage(bm *Bitmap, fg, bg core.Color) Image {
	return Image{
		Width:      bm.Width(),
		Height:     bm.Height(),
		Foreground: fg,
		Background: bg,
		Bitmap:     bm,
	}
}

// Equal reports whether all five fields match, bitmap by identity.
func (img Image) Equal(other Image) bool {
	return img.Width == other.Width &&
		img.Height == other.Height &&
		img.Foreground == other.Foreground &&
		img.Background == other.Background &&
		img.Bitmap == other.Bitmap
}

// WithBackground returns a copy of the image with a different background.
func (img Image) WithBackground(c core.Color) Image {
	img.Background = c
	return img
}

// mask returns the bitmap as a core.Mask, or nil when the image has none.
func (img Image) mask() core.Mask {
	if img.Bitmap == nil {
		return nil
	}
	return img.Bitmap
}
