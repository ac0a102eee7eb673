package core

// Mask is a 1-bit bitmap: set bits are drawn in the foreground color,
// clear bits in the background color.
type Mask interface {
	Width() int
	Height() int
	Bit(x, y int) bool
}

// HalfBlock is the glyph used to pack two pixel rows into one terminal cell:
// the foreground paints the upper half, the background the lower half.
const HalfBlock = '▀'

// Framebuffer is an RGB565 pixel canvas with the drawing primitives of the
// board LCD. Drawing outside the canvas is clipped.
type Framebuffer struct {
	width  int
	height int
	pix    []Color
}

// NewFramebuffer creates a black canvas of the given size in pixels.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		width:  width,
		height: height,
		pix:    make([]Color, width*height),
	}
}

// Width returns the canvas width in pixels.
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the canvas height in pixels.
func (fb *Framebuffer) Height() int { return fb.height }

// Bounds returns the canvas rectangle.
func (fb *Framebuffer) Bounds() Rect {
	return NewRect(0, 0, fb.width, fb.height)
}

// At returns the pixel at (x, y), or black when out of bounds.
func (fb *Framebuffer) At(x, y int) Color {
	if !fb.Bounds().Contains(x, y) {
		return ColorBlack
	}
	return fb.pix[y*fb.width+x]
}

// Set writes one pixel.
func (fb *Framebuffer) Set(x, y int, c Color) {
	if !fb.Bounds().Contains(x, y) {
		return
	}
	fb.pix[y*fb.width+x] = c
}

// DrawRect fills a rectangle. Argument order follows the LCD driver:
// x, width, y, height.
func (fb *Framebuffer) DrawRect(x, width, y, height int, c Color) {
	r := NewRect(x, y, width, height).Clip(fb.Bounds())
	if r.Empty() {
		return
	}
	for py := r.Y; py < r.Bottom(); py++ {
		row := fb.pix[py*fb.width : (py+1)*fb.width]
		for px := r.X; px < r.Right(); px++ {
			row[px] = c
		}
	}
}

// DrawImage draws a two-tone bitmap. Passing fg == bg erases the area the
// image covers. A nil mask fills the whole rectangle with fg.
func (fb *Framebuffer) DrawImage(x, width, y, height int, mask Mask, fg, bg Color) {
	if mask == nil {
		fb.DrawRect(x, width, y, height, fg)
		return
	}
	if !NewRect(x, y, width, height).Intersects(fb.Bounds()) {
		return
	}
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			c := bg
			if i < mask.Width() && j < mask.Height() && mask.Bit(i, j) {
				c = fg
			}
			fb.Set(x+i, y+j, c)
		}
	}
}

// Clear paints the whole canvas black.
func (fb *Framebuffer) Clear() {
	for i := range fb.pix {
		fb.pix[i] = ColorBlack
	}
}

// CellSize returns the number of terminal columns and rows needed to show
// the canvas at the given scale.
func (fb *Framebuffer) CellSize(scale int) (cols, rows int) {
	scale = max(1, scale)
	cols = (fb.width + scale - 1) / scale
	lines := (fb.height + scale - 1) / scale
	return cols, (lines + 1) / 2
}

// Blit samples the canvas every scale pixels and writes it into dst at
// (ox, oy) using half-block cells, two sampled lines per terminal row.
func (fb *Framebuffer) Blit(dst *Screen, ox, oy, scale int) {
	scale = max(1, scale)
	cols, rows := fb.CellSize(scale)
	half := scale / 2
	for cy := 0; cy < rows; cy++ {
		topY := (2*cy)*scale + half
		botY := (2*cy+1)*scale + half
		for cx := 0; cx < cols; cx++ {
			px := cx*scale + half
			dst.Set(ox+cx, oy+cy, Cell{
				Rune: HalfBlock,
				Fg:   fb.At(px, topY),
				Bg:   fb.At(px, botY),
			})
		}
	}
}
