package domain

import (
	"time"

	"connect_four/internal/game"
)

// LobbyRecord is a persisted lobby.
type LobbyRecord struct {
	ID        int64       `db:"id"`
	Lobby     *game.Lobby `db:"state"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

// GameRecord is a persisted game, addressed by (LobbyID, Game.ID).
type GameRecord struct {
	LobbyID   int64      `db:"lobby_id"`
	Game      *game.Game `db:"state"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// GameView is the JSON shape of a game returned to clients.
type GameView struct {
	LobbyID    int64       `json:"lobby_id"`
	GameID     uint64      `json:"game_id"`
	PlayerA    int64       `json:"player_a"`
	PlayerB    int64       `json:"player_b"`
	NextPlayer *int64      `json:"next_player,omitempty"`
	MoveCount  uint8       `json:"move_count"`
	Status     string      `json:"status"`
	Result     string      `json:"result,omitempty"`
	WinnerID   *int64      `json:"winner_id,omitempty"`
	Boards     [2]uint64   `json:"boards"`
	Pointers   [7]uint64   `json:"column_pointers"`
	Grid       [6][7]uint8 `json:"grid"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// View converts the record for API responses.
func (r *GameRecord) View() GameView {
	g := r.Game
	v := GameView{
		LobbyID:   r.LobbyID,
		GameID:    g.ID,
		PlayerA:   int64(g.PlayerA),
		PlayerB:   int64(g.PlayerB),
		MoveCount: g.MoveCount,
		Boards:    g.Boards,
		Pointers:  g.ColumnPointers,
		Grid:      g.Grid(),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	switch g.Status.Phase {
	case game.PhaseFinished:
		v.Status = "finished"
		v.Result = g.Status.Result.String()
		if w, ok := g.Winner(); ok {
			id := int64(w)
			v.WinnerID = &id
		}
	case game.PhaseOngoing:
		v.Status = "ongoing"
		next := int64(g.NextPlayer())
		v.NextPlayer = &next
	default:
		v.Status = "idle"
	}
	return v
}

// LobbyView is the JSON shape of a lobby.
type LobbyView struct {
	ID                    int64     `json:"lobby_id"`
	GameCount             uint64    `json:"game_count"`
	OverflowMask          uint64    `json:"overflow_mask"`
	InitialColumnPointers [7]uint64 `json:"initial_column_pointers"`
	CreatedAt             time.Time `json:"created_at"`
}

func (r *LobbyRecord) View() LobbyView {
	return LobbyView{
		ID:                    r.ID,
		GameCount:             r.Lobby.GameCount,
		OverflowMask:          r.Lobby.OverflowMask,
		InitialColumnPointers: r.Lobby.InitialColumnPointers,
		CreatedAt:             r.CreatedAt,
	}
}
