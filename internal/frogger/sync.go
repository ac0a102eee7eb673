package frogger

// Link words. A position packs x into the high half and y into the low
// half. Both sentinels decode to points outside the playfield, so they can
// never be mistaken for a reachable position.
const (
	WinWord   uint32 = 0x00FF00FF // The sender reached the finish row
	ReadyWord uint32 = 0x00000001 // The sender pressed up to start a round
)

// EncodePosition packs a pixel position into a link word.
func EncodePosition(x, y int) uint32 {
	return uint32(x&0xFFFF)<<16 | uint32(y&0xFFFF)
}

// DecodePosition unpacks a link word into a pixel position.
func DecodePosition(word uint32) (x, y int) {
	return int(word >> 16), int(word & 0xFFFF)
}

// ShouldSend reports whether the local frog's position goes out this tick:
// only when it changed, and only from a road row. Water rows carry the frog
// every tick and would flood the link.
func ShouldSend(oldX, oldY int, e *Entity, row int) bool {
	if e.X == oldX && e.Y == oldY {
		return false
	}
	return row > WaterRows
}

// Inbound is the decoded meaning of a word received during play.
type Inbound int

const (
	InboundPosition Inbound = iota // Applied to the remote frog
	InboundWin                     // The peer won
	InboundRejected                // Decoded outside the playfield and dropped
)

// ApplyInbound interprets a received word for the remote frog. Positions
// outside the playfield are rejected and leave the frog where it was.
// Accepted positions also refresh the frog's background for its new row.
func ApplyInbound(remote *Entity, word uint32) Inbound {
	if word == WinWord {
		return InboundWin
	}
	x, y := DecodePosition(word)
	if !InPlayfield(x, y) {
		return InboundRejected
	}
	remote.X, remote.Y = x, y
	CorrectBackground(remote)
	return InboundPosition
}
