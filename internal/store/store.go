// Package store holds the current roster dataset and swaps it atomically when
// the data directory changes.
//
// Readers call Dataset once per request and keep the snapshot they got; a
// reload never mutates a dataset that is already handed out.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/katalvlaran/teamsolver/assets"
	"github.com/katalvlaran/teamsolver/roster"
)

// ErrNoDir is returned by Watch when the store serves the embedded dataset.
var ErrNoDir = errors.New("store: no data directory to watch")

// DefaultDebounce is how long Watch waits for more events before reloading.
const DefaultDebounce = 200 * time.Millisecond

// ReloadObserver is told about every reload attempt.
type ReloadObserver interface {
	ObserveReload(err error)
}

// Store serves the current dataset.
type Store struct {
	dir      string
	current  atomic.Pointer[roster.Dataset]
	loads    atomic.Uint64
	log      *zap.Logger
	obs      ReloadObserver
	debounce time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithObserver receives reload outcomes, typically the metrics collectors.
func WithObserver(o ReloadObserver) Option {
	return func(s *Store) {
		s.obs = o
	}
}

// WithDebounce sets the quiet period Watch waits for before reloading.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// New loads the dataset from dir, or the embedded one when dir is empty.
// The initial load must succeed.
func New(dir string, opts ...Option) (*Store, error) {
	s := &Store{
		dir:      dir,
		log:      zap.NewNop(),
		debounce: DefaultDebounce,
	}
	for _, fn := range opts {
		fn(s)
	}

	ds, err := s.load()
	if err != nil {
		return nil, err
	}
	s.current.Store(ds)
	s.loads.Add(1)
	s.log.Info("dataset loaded",
		zap.String("source", s.source()),
		zap.Int("characters", ds.Len()),
		zap.Int("traits", len(ds.Catalogue())))

	return s, nil
}

// Dataset returns the current snapshot.
func (s *Store) Dataset() *roster.Dataset { return s.current.Load() }

// Loads returns how many datasets have been installed, the initial one included.
func (s *Store) Loads() uint64 { return s.loads.Load() }

// Dir returns the watched directory, empty for the embedded dataset.
func (s *Store) Dir() string { return s.dir }

// Reload reads the data again and installs it. On failure the previous
// dataset stays in place and the error is returned.
func (s *Store) Reload() error {
	ds, err := s.load()
	if s.obs != nil {
		s.obs.ObserveReload(err)
	}
	if err != nil {
		s.log.Warn("dataset reload failed, keeping previous", zap.String("source", s.source()), zap.Error(err))
		return err
	}
	s.current.Store(ds)
	s.loads.Add(1)
	s.log.Info("dataset reloaded",
		zap.String("source", s.source()),
		zap.Int("characters", ds.Len()))

	return nil
}

// Watch reloads the dataset whenever a champions or traits file in the data
// directory changes, until ctx is done. Bursts of events within the debounce
// window cause a single reload.
func (s *Store) Watch(ctx context.Context) error {
	if s.dir == "" {
		return ErrNoDir
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("store: watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(s.dir); err != nil {
		return fmt.Errorf("store: watch %s: %w", s.dir, err)
	}
	s.log.Info("watching data directory", zap.String("dir", s.dir))

	timer := time.NewTimer(s.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			s.log.Debug("data file changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(s.debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watcher error", zap.Error(err))
		case <-timer.C:
			_ = s.Reload()
		}
	}
}

// relevant reports whether ev touches a roster data file.
func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	base := filepath.Base(ev.Name)
	if _, err := roster.FormatOf(base); err != nil {
		return false
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	return stem == roster.ChampionsBase || stem == roster.TraitsBase
}

func (s *Store) load() (*roster.Dataset, error) {
	if s.dir == "" {
		return assets.Default()
	}

	return roster.LoadDir(s.dir)
}

func (s *Store) source() string {
	if s.dir == "" {
		return "embedded"
	}

	return s.dir
}
