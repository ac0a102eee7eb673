package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-frogger/internal/core"
	"github.com/vovakirdan/tui-frogger/internal/frogger"
)

// Side panel layout
const (
	panelWidth  = 32 // Message log and LED strip column
	logCapacity = 14 // Status lines kept on the message log
	maxScale    = 16
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Width(panelWidth).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
)

// Board is one emulated board: the LCD, the LED strip, the status log and
// the keys standing in for the joystick.
type Board struct {
	label  string
	fb     *core.Framebuffer
	screen *core.Screen
	leds   *LEDStrip
	log    *MessageLog
	input  *KeyInput
}

// NewBoard creates a board with a blank LCD.
func NewBoard(label string, holdTicks int) *Board {
	return &Board{
		label:  label,
		fb:     core.NewFramebuffer(frogger.LCDWidth, frogger.LCDHeight),
		screen: core.NewScreen(1, 1),
		leds:   &LEDStrip{},
		log:    NewMessageLog(logCapacity),
		input:  NewKeyInput(holdTicks),
	}
}

// Devices wires the board's peripherals and the given link into a session.
func (b *Board) Devices(l frogger.Link) frogger.Devices {
	return frogger.Devices{
		Display:  b.fb,
		Input:    b.input,
		Link:     l,
		LEDs:     b.leds,
		Terminal: b.log,
	}
}

// Input returns the key-driven joystick.
func (b *Board) Input() *KeyInput { return b.input }

// Framebuffer returns the LCD canvas.
func (b *Board) Framebuffer() *core.Framebuffer { return b.fb }

// LEDs returns the indicator strip.
func (b *Board) LEDs() *LEDStrip { return b.leds }

// Log returns the status message log.
func (b *Board) Log() *MessageLog { return b.log }

// FitScale returns the smallest scale, not below minScale, at which the
// LCD fits in a width x height cell area.
func (b *Board) FitScale(width, height, minScale int) int {
	for s := max(1, minScale); s < maxScale; s++ {
		cols, rows := b.fb.CellSize(s)
		if cols <= width && rows <= height {
			return s
		}
	}
	return maxScale
}

// View renders the LCD next to the side panel within width x height cells.
func (b *Board) View(width, height, minScale int) string {
	panel := b.panelView()
	lcdWidth := width - lipgloss.Width(panel) - 1
	scale := b.FitScale(lcdWidth, height, minScale)

	cols, rows := b.fb.CellSize(scale)
	b.screen.Resize(cols, rows)
	b.fb.Blit(b.screen, 0, 0, scale)

	return lipgloss.JoinHorizontal(lipgloss.Top, RenderScreen(b.screen), " ", panel)
}

// Text returns the LCD as plain half-block text, for screenshots.
func (b *Board) Text(scale int) string {
	cols, rows := b.fb.CellSize(scale)
	screen := core.NewScreen(cols, rows)
	b.fb.Blit(screen, 0, 0, scale)
	return screen.String()
}

func (b *Board) panelView() string {
	var sb strings.Builder
	sb.WriteString(labelStyle.Render(b.label))
	sb.WriteString("\n")
	sb.WriteString(b.leds.View())
	sb.WriteString("\n\n")
	sb.WriteString(b.log.View(panelWidth - 2))
	return panelStyle.Render(sb.String())
}

// LEDStrip is the row of RGB indicators. It implements frogger.LEDs.
type LEDStrip struct {
	colors [frogger.LEDCount]frogger.RGB
}

// SetIndicator sets one indicator. Out of range indices are ignored.
func (l *LEDStrip) SetIndicator(index int, r, g, b uint8) {
	if index < 0 || index >= len(l.colors) {
		return
	}
	l.colors[index] = frogger.RGB{R: r, G: g, B: b}
}

// At returns the color of one indicator.
func (l *LEDStrip) At(index int) frogger.RGB {
	if index < 0 || index >= len(l.colors) {
		return frogger.LEDOff
	}
	return l.colors[index]
}

// View renders the strip as a row of dots.
func (l *LEDStrip) View() string {
	var sb strings.Builder
	for i, c := range l.colors {
		if i > 0 {
			sb.WriteString(" ")
		}
		if c == frogger.LEDOff {
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render("○"))
			continue
		}
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ledHex(c))).Render("●"))
	}
	return sb.String()
}

// ledHex brightens the low PWM duty values the board uses so dim
// indicators are still visible on a terminal.
func ledHex(c frogger.RGB) string {
	boost := func(v uint8) uint8 {
		return uint8(min(255, int(v)*2+40*min(1, int(v))))
	}
	return core.RGB(boost(c.R), boost(c.G), boost(c.B)).Hex()
}

type logLine struct {
	text  string
	align core.Align
	color core.Color
}

// MessageLog is the scrolling status list. It implements frogger.Terminal.
type MessageLog struct {
	capacity int
	lines    []logLine
}

// NewMessageLog keeps up to capacity lines, dropping the oldest.
func NewMessageLog(capacity int) *MessageLog {
	return &MessageLog{capacity: max(1, capacity)}
}

// PostLine appends a status line.
func (m *MessageLog) PostLine(text string, align core.Align, color core.Color) {
	m.lines = append(m.lines, logLine{text: text, align: align, color: color})
	if len(m.lines) > m.capacity {
		m.lines = m.lines[len(m.lines)-m.capacity:]
	}
}

// Clear empties the log.
func (m *MessageLog) Clear() {
	m.lines = m.lines[:0]
}

// Lines returns the text of every line, oldest first.
func (m *MessageLog) Lines() []string {
	out := make([]string, len(m.lines))
	for i, l := range m.lines {
		out[i] = l.text
	}
	return out
}

// View renders the lines aligned within width columns.
func (m *MessageLog) View(width int) string {
	rendered := make([]string, len(m.lines))
	for i, l := range m.lines {
		pos := lipgloss.Center
		switch l.align {
		case core.AlignLeft:
			pos = lipgloss.Left
		case core.AlignRight:
			pos = lipgloss.Right
		}
		text := lipgloss.NewStyle().Foreground(lipgloss.Color(l.color.Hex())).Render(l.text)
		rendered[i] = lipgloss.PlaceHorizontal(width, pos, text)
	}
	return strings.Join(rendered, "\n")
}
