package snapshot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vswatch/vswatch/pkg/snapshot"
	"github.com/vswatch/vswatch/pkg/types"
)

func TestClient_Load(t *testing.T) {
	t.Run("first run has no snapshot", func(t *testing.T) {
		c := snapshot.NewClient(t.TempDir())
		lineage, err := c.Load()
		require.NoError(t, err)
		assert.Nil(t, lineage)
	})

	t.Run("malformed snapshot", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(snapshot.Path(dir), []byte("{"), 0o644))

		c := snapshot.NewClient(dir)
		_, err := c.Load()
		assert.ErrorContains(t, err, "json decode error")
	})
}

func TestClient_Save(t *testing.T) {
	lineage := types.Lineage{
		{Release: types.ReleaseLatest, Electron: "11.3.0", Node: "12.18.3", Chromium: "89.0.4328.0"},
		{Release: "1.52.1", Electron: "11.2.1", Node: "12.18.3", Chromium: "87.0.4280.141"},
		{Release: "1.52.0", Electron: "11.1.0"},
	}

	dir := filepath.Join(t.TempDir(), "cache")
	c := snapshot.NewClient(dir)
	require.NoError(t, c.Save(lineage))

	got, err := c.Load()
	require.NoError(t, err)

	// The head is dropped on save; the remainder keeps its order and data.
	require.Len(t, got, 2)
	assert.Equal(t, lineage[1], got[0])
	assert.Equal(t, lineage[2], got[1])
}

func TestClient_SaveLoad_RollingWindow(t *testing.T) {
	dir := t.TempDir()
	c := snapshot.NewClient(dir)

	first := types.Lineage{
		{Release: types.ReleaseLatest, Electron: "11.2.1"},
		{Release: "1.52.1", Electron: "11.2.1"},
	}
	require.NoError(t, c.Save(first))

	cached, err := c.Load()
	require.NoError(t, err)
	require.Len(t, cached, 1)

	// Next run: a fresh head lands on top of the cached tail.
	second := append(types.Lineage{
		{Release: types.ReleaseLatest, Electron: "11.3.0"},
	}, cached...)
	require.NoError(t, c.Save(second))

	cached, err = c.Load()
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, types.Release("1.52.1"), cached[0].Release)
}
