package integration

import (
	"context"
	"sync"
	"testing"

	"connect_four/internal/domain"
	"connect_four/internal/game"
	"connect_four/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	seen []*domain.GameRecord
}

func (r *recorder) Publish(rec *domain.GameRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, rec)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

func TestGameService_VerticalWin(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	notes := &recorder{}
	svc := service.NewGameService(db, notes)

	lobby, err := svc.CreateLobby(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), lobby.Lobby.GameCount)

	a, b := players()
	first, err := svc.CreateGame(ctx, lobby.ID, a, b)
	require.NoError(t, err)
	second, err := svc.CreateGame(ctx, lobby.ID, b, a)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), first.Game.ID)
	assert.Equal(t, uint64(1), second.Game.ID)

	stored, err := svc.GetLobby(ctx, lobby.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stored.Lobby.GameCount)

	for i, col := range []int{0, 1, 0, 1, 0, 1} {
		actor := a
		if i%2 == 1 {
			actor = b
		}
		_, err := svc.MakeMove(ctx, lobby.ID, first.Game.ID, actor, col)
		require.NoError(t, err, "move %d", i+1)
	}

	rec, err := svc.MakeMove(ctx, lobby.ID, first.Game.ID, a, 0)
	require.NoError(t, err)
	assert.Equal(t, game.Finished(game.PlayerAWon), rec.Game.Status)
	assert.Equal(t, uint8(7), rec.Game.MoveCount)

	_, err = svc.MakeMove(ctx, lobby.ID, first.Game.ID, b, 1)
	assert.ErrorIs(t, err, game.ErrGameAlreadyFinished)

	got, err := svc.GetGame(ctx, lobby.ID, first.Game.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Game.Boards, got.Game.Boards)
	assert.Equal(t, game.Finished(game.PlayerAWon), got.Game.Status)

	// two creations and seven accepted moves
	assert.Equal(t, 9, notes.count())

	list, err := svc.ListPlayerGames(ctx, a, 10)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestGameService_RejectionsAreNotPersisted(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	svc := service.NewGameService(db, nil)

	lobby, err := svc.CreateLobby(ctx)
	require.NoError(t, err)

	a, b := players()
	_, err = svc.CreateGame(ctx, lobby.ID, a, a)
	assert.ErrorIs(t, err, game.ErrSamePlayers)

	stored, err := svc.GetLobby(ctx, lobby.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), stored.Lobby.GameCount)

	g, err := svc.CreateGame(ctx, lobby.ID, a, b)
	require.NoError(t, err)

	_, err = svc.MakeMove(ctx, lobby.ID, g.Game.ID, b, 3)
	assert.ErrorIs(t, err, game.ErrNotPlayerTurn)
	_, err = svc.MakeMove(ctx, lobby.ID, g.Game.ID, a, 7)
	assert.ErrorIs(t, err, game.ErrInvalidColumnInput)

	got, err := svc.GetGame(ctx, lobby.ID, g.Game.ID)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), got.Game.MoveCount)
	assert.Equal(t, [2]uint64{}, got.Game.Boards)

	_, err = svc.GetGame(ctx, lobby.ID, 99)
	assert.ErrorIs(t, err, service.ErrGameNotFound)
	_, err = svc.CreateGame(ctx, -1, a, b)
	assert.ErrorIs(t, err, service.ErrLobbyNotFound)
}

func TestGameService_ConcurrentMovesSerialize(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	svc := service.NewGameService(db, nil)

	lobby, err := svc.CreateLobby(ctx)
	require.NoError(t, err)
	a, b := players()
	g, err := svc.CreateGame(ctx, lobby.ID, a, b)
	require.NoError(t, err)

	// both requests are A's first move; the row lock lets exactly one through
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.MakeMove(ctx, lobby.ID, g.Game.ID, a, i)
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
			continue
		}
		assert.ErrorIs(t, err, game.ErrNotPlayerTurn)
	}
	assert.Equal(t, 1, accepted)

	got, err := svc.GetGame(ctx, lobby.ID, g.Game.ID)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), got.Game.MoveCount)
}
