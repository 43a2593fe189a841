package mapstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := OpenCatalog(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCatalog_RecordAndGet(t *testing.T) {
	ctx := context.Background()
	c := openTestCatalog(t)
	now := time.Now()

	rec := MapRecord{
		Name:      "valley",
		MapID:     "id-1",
		Version:   4,
		Width:     20,
		Height:    15,
		Units:     3,
		Bytes:     3012,
		SavedUnix: now.UnixNano(),
	}
	require.NoError(t, c.Record(ctx, rec))

	got, err := c.Get(ctx, "valley")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.True(t, now.Equal(got.SavedAt()))
}

func TestCatalog_RecordReplaces(t *testing.T) {
	ctx := context.Background()
	c := openTestCatalog(t)

	require.NoError(t, c.Record(ctx, MapRecord{Name: "m", MapID: "a", Units: 1}))
	require.NoError(t, c.Record(ctx, MapRecord{Name: "m", MapID: "b", Units: 2}))

	got, err := c.Get(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, "b", got.MapID)
	assert.Equal(t, 2, got.Units)

	all, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCatalog_ListOrdered(t *testing.T) {
	ctx := context.Background()
	c := openTestCatalog(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, c.Record(ctx, MapRecord{Name: name, MapID: name}))
	}

	all, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alpha", all[0].Name)
	assert.Equal(t, "mid", all[1].Name)
	assert.Equal(t, "zeta", all[2].Name)
}

func TestCatalog_GetMissing(t *testing.T) {
	c := openTestCatalog(t)
	_, err := c.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrMapNotFound)
}

func TestCatalog_Delete(t *testing.T) {
	ctx := context.Background()
	c := openTestCatalog(t)
	require.NoError(t, c.Record(ctx, MapRecord{Name: "gone", MapID: "x"}))

	require.NoError(t, c.Delete(ctx, "gone"))
	require.NoError(t, c.Delete(ctx, "gone"))

	_, err := c.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrMapNotFound)
}

func TestCatalog_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	c, err := OpenCatalog(path)
	require.NoError(t, err)
	require.NoError(t, c.Record(ctx, MapRecord{Name: "kept", MapID: "k"}))
	require.NoError(t, c.Close())

	c, err = OpenCatalog(path)
	require.NoError(t, err)
	defer c.Close()
	got, err := c.Get(ctx, "kept")
	require.NoError(t, err)
	assert.Equal(t, "k", got.MapID)
}
