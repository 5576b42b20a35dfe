package game

import (
	"fmt"

	"connect_four/internal/board"
)

// PlayerID is an opaque player identifier supplied by the identity layer.
type PlayerID int64

// Phase is the status discriminant.
type Phase uint8

const (
	// PhaseIdle is never produced. It keeps discriminant 0 of the persisted
	// layout reserved.
	PhaseIdle     Phase = 0
	PhaseOngoing  Phase = 1
	PhaseFinished Phase = 2
)

// Result is how a finished game ended.
type Result uint8

const (
	PlayerAWon Result = 0
	PlayerBWon Result = 1
	Draw       Result = 2
)

func (r Result) String() string {
	switch r {
	case PlayerAWon:
		return "player_a_won"
	case PlayerBWon:
		return "player_b_won"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("result(%d)", uint8(r))
	}
}

// Status is Ongoing or Finished(Result). Result is only meaningful when
// Phase is PhaseFinished.
type Status struct {
	Phase  Phase
	Result Result
}

func Ongoing() Status { return Status{Phase: PhaseOngoing} }

func Finished(r Result) Status { return Status{Phase: PhaseFinished, Result: r} }

func (s Status) IsFinished() bool { return s.Phase == PhaseFinished }

func (s Status) String() string {
	switch s.Phase {
	case PhaseIdle:
		return "idle"
	case PhaseOngoing:
		return "ongoing"
	case PhaseFinished:
		return "finished:" + s.Result.String()
	default:
		return fmt.Sprintf("phase(%d)", uint8(s.Phase))
	}
}

// Game is one match. Boards[0] belongs to PlayerA and Boards[1] to PlayerB.
type Game struct {
	ID             uint64
	PlayerA        PlayerID
	PlayerB        PlayerID
	ColumnPointers board.ColumnPointers
	Boards         [2]uint64
	MoveCount      uint8
	Status         Status
}

// NextIndex is the board index of the player to move: even move counts
// belong to PlayerA.
func (g *Game) NextIndex() int { return int(g.MoveCount & 1) }

// NextPlayer returns the player whose turn it is.
func (g *Game) NextPlayer() PlayerID {
	if g.NextIndex() == 0 {
		return g.PlayerA
	}
	return g.PlayerB
}

// Winner returns the winning player, if any.
func (g *Game) Winner() (PlayerID, bool) {
	if !g.Status.IsFinished() {
		return 0, false
	}
	switch g.Status.Result {
	case PlayerAWon:
		return g.PlayerA, true
	case PlayerBWon:
		return g.PlayerB, true
	default:
		return 0, false
	}
}

// HasPlayer reports whether p takes part in g.
func (g *Game) HasPlayer(p PlayerID) bool { return p == g.PlayerA || p == g.PlayerB }

// Grid renders the board top row first.
func (g *Game) Grid() [board.Rows][board.Columns]uint8 {
	return board.Grid(g.Boards[0], g.Boards[1])
}
