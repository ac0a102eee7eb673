package core

import "fmt"

// Color is a 16-bit RGB565 pixel value, the native format of the board LCD.
type Color uint16

// Palette used by the board. Values match the LCD driver constants.
const (
	ColorBlack  Color = 0x0000
	ColorWhite  Color = 0xFFFF
	ColorRed    Color = 0xF800
	ColorGreen  Color = 0x07E0
	ColorGreen2 Color = 0x2444
	ColorBlue   Color = 0x001F
	ColorBlue2  Color = 0x051D
	ColorCyan   Color = 0x07FF
	ColorYellow Color = 0xFFE0
	ColorOrange Color = 0xFD20
	ColorBrown  Color = 0xBBCA
	ColorGray   Color = 0x8430
	ColorPink   Color = 0xF97F
)

// RGB packs 8-bit channels into an RGB565 color. Low bits are discarded.
func RGB(r, g, b uint8) Color {
	return Color(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// RGB expands the color back to 8-bit channels.
func (c Color) RGB() (r, g, b uint8) {
	r5 := uint8(c >> 11 & 0x1F)
	g6 := uint8(c >> 5 & 0x3F)
	b5 := uint8(c & 0x1F)
	// Replicate the high bits into the low bits so 0x1F maps to 0xFF.
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// Hex returns the color as a "#rrggbb" string, the form lipgloss accepts.
func (c Color) Hex() string {
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Align is the horizontal alignment of a status line.
type Align int

const (
	AlignCenter Align = iota
	AlignLeft
	AlignRight
)
