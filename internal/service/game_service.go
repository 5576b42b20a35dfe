package service

import (
	"context"
	"errors"
	"fmt"

	"connect_four/internal/domain"
	"connect_four/internal/game"
	"connect_four/internal/logger"
	"connect_four/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrLobbyNotFound = errors.New("lobby not found")
	ErrGameNotFound  = errors.New("game not found")
)

// Notifier receives every committed game state.
type Notifier interface {
	Publish(rec *domain.GameRecord)
}

// GameService runs every lobby and game operation as one database
// transaction. Rejections roll the transaction back, so nothing is
// persisted for them.
type GameService struct {
	db        *pgxpool.Pool
	lobbyRepo *repository.LobbyRepository
	gameRepo  *repository.GameRepository
	notifier  Notifier
}

func NewGameService(db *pgxpool.Pool, notifier Notifier) *GameService {
	return &GameService{
		db:        db,
		lobbyRepo: repository.NewLobbyRepository(db),
		gameRepo:  repository.NewGameRepository(db),
		notifier:  notifier,
	}
}

// CreateLobby stores a new lobby with the standard geometry.
func (s *GameService) CreateLobby(ctx context.Context) (*domain.LobbyRecord, error) {
	rec, err := s.lobbyRepo.Create(ctx, game.NewLobby())
	if err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info("lobby created", "lobby_id", rec.ID)
	return rec, nil
}

// GetLobby reads a lobby.
func (s *GameService) GetLobby(ctx context.Context, lobbyID int64) (*domain.LobbyRecord, error) {
	rec, err := s.lobbyRepo.Get(ctx, lobbyID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrLobbyNotFound
	}
	return rec, err
}

// CreateGame allocates the next game id of the lobby for a match between
// playerA and playerB. playerA moves first.
func (s *GameService) CreateGame(ctx context.Context, lobbyID int64, playerA, playerB game.PlayerID) (*domain.GameRecord, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lobby, err := s.lobbyRepo.GetForUpdate(ctx, tx, lobbyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLobbyNotFound
		}
		return nil, err
	}

	g, err := lobby.Lobby.CreateGame(playerA, playerB)
	if err != nil {
		return nil, err
	}

	rec, err := s.gameRepo.CreateWithTx(ctx, tx, lobbyID, g)
	if err != nil {
		return nil, err
	}
	if err := s.lobbyRepo.UpdateWithTx(ctx, tx, lobby); err != nil {
		return nil, fmt.Errorf("update lobby %d: %w", lobbyID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	GamesCreated.Inc()
	logger.WithContext(ctx).Info("game created",
		"lobby_id", lobbyID, "game_id", g.ID, "player_a", playerA, "player_b", playerB)
	s.publish(rec)
	return rec, nil
}

// GetGame reads a game.
func (s *GameService) GetGame(ctx context.Context, lobbyID int64, gameID uint64) (*domain.GameRecord, error) {
	rec, err := s.gameRepo.Get(ctx, lobbyID, gameID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	return rec, err
}

// ListPlayerGames returns the latest games a player takes part in.
func (s *GameService) ListPlayerGames(ctx context.Context, player game.PlayerID, limit int) ([]*domain.GameRecord, error) {
	return s.gameRepo.ListByPlayer(ctx, player, limit)
}

// MakeMove plays actor's disc into column. The game row stays locked for
// the whole validate-and-write cycle.
func (s *GameService) MakeMove(ctx context.Context, lobbyID int64, gameID uint64, actor game.PlayerID, column int) (*domain.GameRecord, error) {
	log := logger.WithContext(ctx).With("lobby_id", lobbyID, "game_id", gameID, "player", actor, "column", column)

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lobby, err := s.lobbyRepo.Get(ctx, lobbyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLobbyNotFound
		}
		return nil, err
	}

	rec, err := s.gameRepo.GetForUpdate(ctx, tx, lobbyID, gameID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	if err := game.MakeMove(lobby.Lobby, rec.Game, actor, column); err != nil {
		if code := game.Code(err); code != "" {
			MovesRejected.WithLabelValues(code).Inc()
		}
		log.Info("move rejected", "reason", err)
		return nil, err
	}

	if err := s.gameRepo.UpdateWithTx(ctx, tx, rec); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	MovesAccepted.Inc()
	log.Debug("move accepted", "move_count", rec.Game.MoveCount)
	if rec.Game.Status.IsFinished() {
		GamesFinished.WithLabelValues(rec.Game.Status.Result.String()).Inc()
		log.Info("game finished", "result", rec.Game.Status.Result.String(), "move_count", rec.Game.MoveCount)
	}

	s.publish(rec)
	return rec, nil
}

func (s *GameService) publish(rec *domain.GameRecord) {
	if s.notifier != nil {
		s.notifier.Publish(rec)
	}
}
