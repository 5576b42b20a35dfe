package game

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"connect_four/internal/board"
)

// Persisted sizes. All integers are big-endian.
//
//	Lobby: game_count(8) overflow_mask(8) pointers(7*8)
//	Game:  id(8) player_a(8) player_b(8) pointers(7*8) boards(2*8)
//	       move_count(1) phase(1) result(1)
const (
	LobbySize = 8 + 8 + board.Columns*8
	GameSize  = 8 + 8 + 8 + board.Columns*8 + 2*8 + 1 + 1 + 1
)

// MarshalBinary encodes the lobby into its fixed 72-byte layout.
func (l *Lobby) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, LobbySize)
	out = binary.BigEndian.AppendUint64(out, l.GameCount)
	out = binary.BigEndian.AppendUint64(out, l.OverflowMask)
	for _, p := range l.InitialColumnPointers {
		out = binary.BigEndian.AppendUint64(out, p)
	}
	return out, nil
}

// UnmarshalBinary decodes a lobby written by MarshalBinary.
func (l *Lobby) UnmarshalBinary(b []byte) error {
	if len(b) != LobbySize {
		return fmt.Errorf("%w: lobby is %d bytes, want %d", ErrCorruptState, len(b), LobbySize)
	}
	r := reader{b: b}
	l.GameCount = r.u64()
	l.OverflowMask = r.u64()
	for c := range l.InitialColumnPointers {
		l.InitialColumnPointers[c] = r.u64()
	}
	return nil
}

// MarshalBinary encodes the game into its fixed 99-byte layout.
func (g *Game) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, GameSize)
	out = binary.BigEndian.AppendUint64(out, g.ID)
	out = binary.BigEndian.AppendUint64(out, uint64(g.PlayerA))
	out = binary.BigEndian.AppendUint64(out, uint64(g.PlayerB))
	for _, p := range g.ColumnPointers {
		out = binary.BigEndian.AppendUint64(out, p)
	}
	out = binary.BigEndian.AppendUint64(out, g.Boards[0])
	out = binary.BigEndian.AppendUint64(out, g.Boards[1])
	out = append(out, g.MoveCount, byte(g.Status.Phase))
	if g.Status.IsFinished() {
		out = append(out, byte(g.Status.Result))
	} else {
		out = append(out, 0)
	}
	return out, nil
}

// UnmarshalBinary decodes a game written by MarshalBinary and checks its
// invariants.
func (g *Game) UnmarshalBinary(b []byte) error {
	if len(b) != GameSize {
		return fmt.Errorf("%w: game is %d bytes, want %d", ErrCorruptState, len(b), GameSize)
	}
	r := reader{b: b}
	var d Game
	d.ID = r.u64()
	d.PlayerA = PlayerID(r.u64())
	d.PlayerB = PlayerID(r.u64())
	for c := range d.ColumnPointers {
		d.ColumnPointers[c] = r.u64()
	}
	d.Boards[0] = r.u64()
	d.Boards[1] = r.u64()
	d.MoveCount = r.u8()
	d.Status.Phase = Phase(r.u8())
	d.Status.Result = Result(r.u8())

	if err := d.Validate(); err != nil {
		return err
	}
	*g = d
	return nil
}

// Validate checks the data-model invariants of a game loaded from storage.
func (g *Game) Validate() error {
	corrupt := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{ErrCorruptState}, args...)...)
	}

	if g.PlayerA == g.PlayerB {
		return corrupt("players are equal")
	}
	if g.Boards[0]&g.Boards[1] != 0 {
		return corrupt("boards overlap")
	}
	if (g.Boards[0]|g.Boards[1])&board.OverflowMask != 0 {
		return corrupt("sentinel bit set")
	}
	if n := bits.OnesCount64(g.Boards[0]) + bits.OnesCount64(g.Boards[1]); n != int(g.MoveCount) {
		return corrupt("move count %d, %d discs", g.MoveCount, n)
	}
	if int(g.MoveCount) > board.Cells {
		return corrupt("move count %d", g.MoveCount)
	}

	occupied := g.Boards[0] | g.Boards[1]
	for c, p := range g.ColumnPointers {
		if p < board.Base(c) || p > board.Sentinel(c) {
			return corrupt("column %d pointer %d out of range", c, p)
		}
		// discs sit contiguously below the pointer
		height := p - board.Base(c)
		colBits := (occupied >> board.Base(c)) & (1<<board.Rows - 1)
		if colBits != 1<<height-1 {
			return corrupt("column %d pointer %d does not match discs", c, p)
		}
	}

	switch g.Status.Phase {
	case PhaseIdle, PhaseOngoing:
		if g.Status.Result != 0 {
			return corrupt("result set on unfinished game")
		}
	case PhaseFinished:
		if g.Status.Result > Draw {
			return corrupt("unknown result %d", g.Status.Result)
		}
	default:
		return corrupt("unknown phase %d", g.Status.Phase)
	}
	return nil
}

// reader walks a buffer whose length was checked up front.
type reader struct {
	b []byte
	i int
}

func (r *reader) u8() byte {
	v := r.b[r.i]
	r.i++
	return v
}

func (r *reader) u64() uint64 {
	v := binary.BigEndian.Uint64(r.b[r.i : r.i+8])
	r.i += 8
	return v
}
