package repository

import (
	"context"
	"errors"
	"fmt"

	"connect_four/internal/domain"
	"connect_four/internal/game"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GameRepository struct {
	db *pgxpool.Pool
}

func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

const gameColumns = `lobby_id, state, created_at, updated_at`

// CreateWithTx inserts a new game row.
func (r *GameRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, lobbyID int64, g *game.Game) (*domain.GameRecord, error) {
	state, err := g.MarshalBinary()
	if err != nil {
		return nil, err
	}

	rec := &domain.GameRecord{LobbyID: lobbyID, Game: g}
	err = tx.QueryRow(ctx,
		`INSERT INTO games (lobby_id, game_id, player_a, player_b, status, move_count, state)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		lobbyID,
		int64(g.ID),
		int64(g.PlayerA),
		int64(g.PlayerB),
		g.Status.String(),
		int16(g.MoveCount),
		state,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert game %d/%d: %w", lobbyID, g.ID, err)
	}
	return rec, nil
}

// Get reads a game without locking it.
func (r *GameRepository) Get(ctx context.Context, lobbyID int64, gameID uint64) (*domain.GameRecord, error) {
	return r.scan(r.db.QueryRow(ctx,
		`SELECT `+gameColumns+` FROM games WHERE lobby_id = $1 AND game_id = $2`,
		lobbyID, int64(gameID)))
}

// GetForUpdate reads a game and locks its row until tx ends. Moves on the
// same game queue up behind the lock.
func (r *GameRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, lobbyID int64, gameID uint64) (*domain.GameRecord, error) {
	return r.scan(tx.QueryRow(ctx,
		`SELECT `+gameColumns+` FROM games WHERE lobby_id = $1 AND game_id = $2 FOR UPDATE`,
		lobbyID, int64(gameID)))
}

// UpdateWithTx writes the game state and its denormalized columns.
func (r *GameRepository) UpdateWithTx(ctx context.Context, tx pgx.Tx, rec *domain.GameRecord) error {
	g := rec.Game
	state, err := g.MarshalBinary()
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx,
		`UPDATE games SET state = $3, status = $4, move_count = $5, updated_at = now()
		 WHERE lobby_id = $1 AND game_id = $2
		 RETURNING updated_at`,
		rec.LobbyID, int64(g.ID), state, g.Status.String(), int16(g.MoveCount),
	).Scan(&rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ListByPlayer returns the most recently updated games of a player.
func (r *GameRepository) ListByPlayer(ctx context.Context, player game.PlayerID, limit int) ([]*domain.GameRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+gameColumns+`
		 FROM games
		 WHERE player_a = $1 OR player_b = $1
		 ORDER BY updated_at DESC
		 LIMIT $2`,
		int64(player), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.GameRecord
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

func (r *GameRepository) scan(row pgx.Row) (*domain.GameRecord, error) {
	var (
		rec   domain.GameRecord
		state []byte
	)
	if err := row.Scan(&rec.LobbyID, &state, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rec.Game = &game.Game{}
	if err := rec.Game.UnmarshalBinary(state); err != nil {
		return nil, fmt.Errorf("game in lobby %d: %w", rec.LobbyID, err)
	}
	return &rec, nil
}
