package store_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/katalvlaran/teamsolver/internal/store"
)

const (
	traitsJSON = `{
  "Targon": {"thresholds": [2, 4], "type": "origin"},
  "Warden": {"thresholds": [2, 4], "type": "class"}
}`
	championsJSON = `[
  {"name": "Leona", "cost": 4, "traits": ["Targon", "Warden"], "roles": ["tank"]},
  {"name": "Braum", "cost": 4, "traits": ["Warden"], "roles": ["tank"]}
]`
	championsMoreJSON = `[
  {"name": "Leona", "cost": 4, "traits": ["Targon", "Warden"], "roles": ["tank"]},
  {"name": "Braum", "cost": 4, "traits": ["Warden"], "roles": ["tank"]},
  {"name": "Diana", "cost": 4, "traits": ["Targon"], "roles": ["carry"]}
]`
)

type countingObserver struct {
	mu     sync.Mutex
	ok     int
	failed int
}

func (c *countingObserver) ObserveReload(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.failed++
		return
	}
	c.ok++
}

func (c *countingObserver) counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ok, c.failed
}

func dataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "traits.json", traitsJSON)
	writeFile(t, dir, "champions.json", championsJSON)

	return dir
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestNew_Embedded(t *testing.T) {
	s, err := store.New("")
	require.NoError(t, err)
	require.NotNil(t, s.Dataset())
	assert.Positive(t, s.Dataset().Len())
	assert.Equal(t, uint64(1), s.Loads())
	assert.ErrorIs(t, s.Watch(context.Background()), store.ErrNoDir)
}

func TestNew_BrokenDir(t *testing.T) {
	_, err := store.New(t.TempDir())
	assert.Error(t, err)
}

func TestReload(t *testing.T) {
	dir := dataDir(t)
	obs := &countingObserver{}
	s, err := store.New(dir, store.WithObserver(obs), store.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	first := s.Dataset()
	assert.Equal(t, 2, first.Len())

	writeFile(t, dir, "champions.json", championsMoreJSON)
	require.NoError(t, s.Reload())
	assert.Equal(t, 3, s.Dataset().Len())
	assert.Equal(t, 2, first.Len(), "handed-out snapshot is untouched")

	// A character with an unknown trait keeps the previous dataset.
	writeFile(t, dir, "champions.json", `[{"name": "Zed", "cost": 3, "traits": ["Shadow"], "roles": ["carry"]}]`)
	require.Error(t, s.Reload())
	assert.Equal(t, 3, s.Dataset().Len())

	ok, failed := obs.counts()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, failed)
	assert.Equal(t, uint64(2), s.Loads())
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir := dataDir(t)
	s, err := store.New(dir, store.WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	// Unrelated files are ignored; the watcher may need a moment to start.
	require.Eventually(t, func() bool {
		writeFile(t, dir, "notes.txt", "x")
		writeFile(t, dir, "champions.json", championsMoreJSON)
		return s.Dataset().Len() == 3
	}, 5*time.Second, 50*time.Millisecond)
}
