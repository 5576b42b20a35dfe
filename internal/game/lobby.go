package game

import "connect_four/internal/board"

// Lobby issues game ids and holds the board geometry every game shares.
// It is not synchronized: callers serialize operations on the same lobby.
type Lobby struct {
	GameCount             uint64
	OverflowMask          uint64
	InitialColumnPointers board.ColumnPointers
}

// NewLobby returns a lobby with no games and the standard 7x6 geometry.
func NewLobby() *Lobby {
	return &Lobby{
		GameCount:             0,
		OverflowMask:          board.OverflowMask,
		InitialColumnPointers: board.InitialPointers(),
	}
}

// CreateGame allocates the next id and returns a fresh game between a and b.
// The counter is only advanced when the game is created.
func (l *Lobby) CreateGame(a, b PlayerID) (*Game, error) {
	if a == b {
		return nil, ErrSamePlayers
	}

	g := &Game{
		ID:             l.GameCount,
		PlayerA:        a,
		PlayerB:        b,
		ColumnPointers: l.InitialColumnPointers,
		MoveCount:      0,
		Status:         Ongoing(),
	}
	l.GameCount++

	return g, nil
}
