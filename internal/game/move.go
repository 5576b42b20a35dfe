package game

import "connect_four/internal/board"

// MakeMove validates and plays actor's disc into column. Checks run in this
// order: finished game, turn, column range, column fullness.
//
// The move is staged on a copy of g; g only changes when every check
// passed, so a rejected move leaves no trace.
func MakeMove(l *Lobby, g *Game, actor PlayerID, column int) error {
	if g.Status.IsFinished() {
		return ErrGameAlreadyFinished
	}

	mover := g.NextIndex()
	if actor != g.NextPlayer() {
		return ErrNotPlayerTurn
	}

	if column < 0 || column >= board.Columns {
		return ErrInvalidColumnInput
	}

	next := *g
	board.Apply(&next.Boards[mover], &next.ColumnPointers, column)
	if next.Boards[mover]&l.OverflowMask != 0 {
		return ErrColumnAlreadyFull
	}

	won := board.HasWon(next.Boards[mover])
	if won {
		next.Status = Finished(Result(mover))
	}

	next.MoveCount++

	if !won && next.MoveCount == board.Cells {
		next.Status = Finished(Draw)
	}

	*g = next
	return nil
}
