// Package multiplayer pairs SSH sessions into two-board frogger matches.
// A host opens a lobby and gets a join code; a second session enters the
// code, and both receive one end of an in-process link. Each board then
// runs its own game and the coordinator only keeps score.
package multiplayer

import "github.com/vovakirdan/tui-frogger/internal/core"

// PlayerID is an alias to core.PlayerID for convenience.
// Player1 is the lobby host, Player2 the session that joined.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	PlayerNone = core.PlayerNone
	Player1 = core.Player1
	Player2 = core.Player2
)

// SessionID uniquely identifies a player's session (an SSH connection).
type SessionID string

// MatchID uniquely identifies a paired match.
type MatchID string
