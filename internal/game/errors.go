package game

import "errors"

// Rejections. None of them is fatal: the caller can resubmit with a valid
// turn or input.
var (
	ErrSamePlayers         = errors.New("same players")
	ErrNotPlayerTurn       = errors.New("not player's turn")
	ErrGameAlreadyFinished = errors.New("game already finished")
	ErrInvalidColumnInput  = errors.New("invalid column input")
	ErrColumnAlreadyFull   = errors.New("column already full")

	// ErrCorruptState is returned when persisted bytes do not decode to a
	// consistent Lobby or Game.
	ErrCorruptState = errors.New("corrupt game state")
)

// Code returns the stable identifier of a rejection, or "" for errors that
// are not rejections of this package.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrSamePlayers):
		return "SamePlayers"
	case errors.Is(err, ErrNotPlayerTurn):
		return "NotPlayerTurn"
	case errors.Is(err, ErrGameAlreadyFinished):
		return "GameAlreadyFinished"
	case errors.Is(err, ErrInvalidColumnInput):
		return "InvalidColumnInput"
	case errors.Is(err, ErrColumnAlreadyFull):
		return "ColumnAlreadyFull"
	case errors.Is(err, ErrCorruptState):
		return "CorruptState"
	default:
		return ""
	}
}
