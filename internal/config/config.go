// Package config provides YAML-based configuration loading for the
// frogger boards: game timings, the link to the peer board, storage and
// logging.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-frogger/internal/frogger"
	"github.com/vovakirdan/tui-frogger/internal/link"
)

// Config contains all frogger configuration.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Link    LinkConfig    `yaml:"link"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// GameConfig defines tick rate and sequence timings.
type GameConfig struct {
	TickRate        int `yaml:"tick_rate"`         // Session steps per second
	CountdownStepMs int `yaml:"countdown_step_ms"` // Each countdown line
	LEDStepMs       int `yaml:"led_step_ms"`       // Each win chase / loss blink step
	FlashMs         int `yaml:"flash_ms"`          // Invalid move flash
	FarewellMs      int `yaml:"farewell_ms"`       // Farewell message before clearing
	ReadyResendMs   int `yaml:"ready_resend_ms"`   // Ready word repeat interval
}

// LinkConfig defines how the board reaches its peer.
type LinkConfig struct {
	Driver   string `yaml:"driver"` // "udp" or "ws"
	Listen   string `yaml:"listen"`
	Peer     string `yaml:"peer"`
	Buffer   int    `yaml:"buffer"`
	LocalID  int    `yaml:"local_id"`
	RemoteID int    `yaml:"remote_id"`
}

// StorageConfig defines where round history is kept.
type StorageConfig struct {
	Path string `yaml:"path"` // Empty means ~/.frogger/frogger.db
}

// LogConfig defines logging output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Empty means ~/.frogger/frogger.log
}

// Validate checks values that would stop a session from running.
func (c Config) Validate() error {
	if c.Game.TickRate <= 0 {
		return fmt.Errorf("config: game.tick_rate must be positive, got %d", c.Game.TickRate)
	}
	if c.Game.TickRate > 1000 {
		return fmt.Errorf("config: game.tick_rate %d is above 1000", c.Game.TickRate)
	}
	if c.Link.Driver != "" && !link.Exists(c.Link.Driver) {
		return fmt.Errorf("config: unknown link.driver %q", c.Link.Driver)
	}
	if c.Link.Buffer < 0 {
		return fmt.Errorf("config: link.buffer must not be negative, got %d", c.Link.Buffer)
	}
	return nil
}

// SessionOptions converts the game section into session options.
// Logger and recorder are left for the caller.
func (c Config) SessionOptions() frogger.Options {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return frogger.Options{
		TickRate:      c.Game.TickRate,
		CountdownStep: ms(c.Game.CountdownStepMs),
		LEDStep:       ms(c.Game.LEDStepMs),
		FlashStep:     ms(c.Game.FlashMs),
		Farewell:      ms(c.Game.FarewellMs),
		ReadyResend:   ms(c.Game.ReadyResendMs),
		LocalID:       c.Link.LocalID,
		RemoteID:      c.Link.RemoteID,
	}
}

// LinkOptions converts the link section into driver settings.
func (c Config) LinkOptions() link.Config {
	return link.Config{
		Listen: c.Link.Listen,
		Peer:   c.Link.Peer,
		Buffer: c.Link.Buffer,
	}
}
