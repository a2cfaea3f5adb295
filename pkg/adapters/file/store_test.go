package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/meiyaku-knights/navi/pkg/adapters/file"
	"github.com/meiyaku-knights/navi/pkg/domain"
	"github.com/meiyaku-knights/navi/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, file.NewStore(t.TempDir()))
}

func TestFileCache_Contract(t *testing.T) {
	ports.RunVideoCacheContract(t, file.NewCache(t.TempDir()))
}

func TestFileStore_AtomicOverwrite(t *testing.T) {
	dir := t.TempDir()
	store := file.NewStore(dir)
	ctx := context.Background()

	s := domain.NewSession("overwrite")
	require.NoError(t, store.Save(ctx, s))
	s.Phase = domain.PhaseAtResult
	s.CurrentID = "End_A"
	require.NoError(t, store.Save(ctx, s))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	loaded, err := store.Load(ctx, "overwrite")
	require.NoError(t, err)
	assert.Equal(t, "End_A", loaded.CurrentID)
}

func TestFileStore_EmptyID(t *testing.T) {
	store := file.NewStore(t.TempDir())
	assert.Error(t, store.Save(context.Background(), domain.NewSession("")))
	_, err := store.Load(context.Background(), "")
	assert.Error(t, err)
}

func TestFileCache_CorruptEntry(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.VideoCacheKey+".json"), []byte("{broken"), 0o644))

	_, err := file.NewCache(dir).Get(context.Background(), domain.VideoCacheKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCacheMiss)
}
