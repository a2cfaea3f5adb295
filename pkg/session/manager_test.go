package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/meiyaku-knights/navi/pkg/adapters/memory"
	"github.com/meiyaku-knights/navi/pkg/adapters/redis"
	"github.com/meiyaku-knights/navi/pkg/domain"
	"github.com/meiyaku-knights/navi/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowStore adds IO latency so lost updates show up when locking is missing.
type slowStore struct {
	*memory.Store
}

func (s slowStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Load(ctx, id)
}

func (s slowStore) Save(ctx context.Context, sess *domain.Session) error {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Save(ctx, sess)
}

func appendDecision(s *domain.Session) (*domain.Session, error) {
	next := s.Snapshot()
	next.Path = append(next.Path, domain.Decision{QuestionID: "Q", NextID: "Q"})
	return next, nil
}

func TestManager_UpdateSerializes(t *testing.T) {
	manager := session.NewManager(slowStore{memory.NewStore()})
	ctx := context.Background()

	_, err := manager.LoadOrCreate(ctx, "race")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Update(ctx, "race", appendDecision)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := manager.Load(ctx, "race")
	require.NoError(t, err)
	assert.Len(t, final.Path, 20, "no update may be lost")
}

func TestManager_LoadOrCreate(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	s, err := manager.LoadOrCreate(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseNotStarted, s.Phase)

	s.Phase = domain.PhaseAtQuestion
	require.NoError(t, manager.Save(ctx, s))

	again, err := manager.LoadOrCreate(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseAtQuestion, again.Phase)

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, ids)
}

func TestManager_UpdatePersistsAlongsideError(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()
	_, err := manager.LoadOrCreate(ctx, "s")
	require.NoError(t, err)

	boom := errors.New("graph down")
	out, err := manager.Update(ctx, "s", func(s *domain.Session) (*domain.Session, error) {
		next := s.Snapshot()
		next.LoadFailed = true
		return next, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.True(t, out.LoadFailed)

	stored, err := manager.Load(ctx, "s")
	require.NoError(t, err)
	assert.True(t, stored.LoadFailed)

	_, err = manager.Update(ctx, "missing", appendDecision)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_DistributedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewFromClient(client)
	manager := session.NewManager(store,
		session.WithLocker(redis.NewLocker(client, "navi:")),
		session.WithLockTTL(5*time.Second),
	)
	ctx := context.Background()

	_, err := manager.LoadOrCreate(ctx, "dist")
	require.NoError(t, err)

	err = manager.WithLock(ctx, "dist", func(ctx context.Context) error {
		assert.True(t, mr.Exists("navi:lock:dist"), "lock held during fn")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("navi:lock:dist"), "lock released after fn")

	require.NoError(t, manager.Delete(ctx, "dist"))
	_, err = manager.Load(ctx, "dist")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
