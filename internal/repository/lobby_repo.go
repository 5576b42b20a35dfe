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

// ErrNotFound is returned when a lobby or game row does not exist.
var ErrNotFound = errors.New("not found")

type LobbyRepository struct {
	db *pgxpool.Pool
}

func NewLobbyRepository(db *pgxpool.Pool) *LobbyRepository {
	return &LobbyRepository{db: db}
}

// Create stores a new lobby and fills in its id and timestamps.
func (r *LobbyRepository) Create(ctx context.Context, l *game.Lobby) (*domain.LobbyRecord, error) {
	state, err := l.MarshalBinary()
	if err != nil {
		return nil, err
	}

	rec := &domain.LobbyRecord{Lobby: l}
	err = r.db.QueryRow(ctx,
		`INSERT INTO lobbies (state) VALUES ($1)
		 RETURNING id, created_at, updated_at`,
		state,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert lobby: %w", err)
	}
	return rec, nil
}

// Get reads a lobby without locking it.
func (r *LobbyRepository) Get(ctx context.Context, id int64) (*domain.LobbyRecord, error) {
	return r.scan(r.db.QueryRow(ctx,
		`SELECT id, state, created_at, updated_at FROM lobbies WHERE id = $1`, id))
}

// GetForUpdate reads a lobby and locks its row until tx ends, which
// serializes game creation within the lobby.
func (r *LobbyRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.LobbyRecord, error) {
	return r.scan(tx.QueryRow(ctx,
		`SELECT id, state, created_at, updated_at FROM lobbies WHERE id = $1 FOR UPDATE`, id))
}

// UpdateWithTx writes the lobby state back.
func (r *LobbyRepository) UpdateWithTx(ctx context.Context, tx pgx.Tx, rec *domain.LobbyRecord) error {
	state, err := rec.Lobby.MarshalBinary()
	if err != nil {
		return err
	}
	err = tx.QueryRow(ctx,
		`UPDATE lobbies SET state = $2, updated_at = now() WHERE id = $1
		 RETURNING updated_at`,
		rec.ID, state,
	).Scan(&rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *LobbyRepository) scan(row pgx.Row) (*domain.LobbyRecord, error) {
	var (
		rec   domain.LobbyRecord
		state []byte
	)
	if err := row.Scan(&rec.ID, &state, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rec.Lobby = &game.Lobby{}
	if err := rec.Lobby.UnmarshalBinary(state); err != nil {
		return nil, fmt.Errorf("lobby %d: %w", rec.ID, err)
	}
	return &rec, nil
}
