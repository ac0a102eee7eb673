package core

// RuntimeConfig contains the platform settings a board is started with.
type RuntimeConfig struct {
	ScreenW  int   // Terminal width in characters
	ScreenH  int   // Terminal height in characters
	TickRate int   // Poll ticks per second
	Scale    int   // LCD pixels per terminal column (rows pack two pixel lines)
	Seed     int64 // Initial RNG seed; 0 means derive from the clock
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Scale:    3,
		Seed:     0,
	}
}
