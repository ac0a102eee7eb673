package config

import (
	_ "embed"
)

//go:embed defaults/frogger.yaml
var defaultFroggerYAML []byte

// Default returns the built-in configuration. It matches the embedded
// defaults/frogger.yaml.
func Default() Config {
	return Config{
		Game: GameConfig{
			TickRate:        60,
			CountdownStepMs: 1000,
			LEDStepMs:       150,
			FlashMs:         25,
			FarewellMs:      2000,
			ReadyResendMs:   1000,
		},
		Link: LinkConfig{
			Driver:   "udp",
			Listen:   ":7420",
			Buffer:   64,
			LocalID:  0x11,
			RemoteID: 0x00,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
