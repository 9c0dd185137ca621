// Package ledger persists the installed version of every tracked item in
// versions.json. The file is always rewritten whole.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	log "github.com/sirupsen/logrus"

	"github.com/ytget/ptd-launcher/internal/model"
)

const (
	// FileName is the ledger file name inside the app-data root
	FileName = "versions.json"

	lockSuffix = ".lock"
	tmpSuffix  = ".tmp"
	indent     = "    "
	filePerm   = 0644
)

// Ledger maps items to the version installed on disk. An empty string
// means the item is not installed.
type Ledger struct {
	FlashPlayer string            `json:"flash_player"`
	Games       map[string]string `json:"games"`
}

// Default returns a ledger with an empty entry for every known game
func Default() *Ledger {
	l := &Ledger{Games: make(map[string]string, len(model.KnownGames))}
	for _, game := range model.KnownGames {
		l.Games[game] = ""
	}
	return l
}

// Clone returns a deep copy
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{FlashPlayer: l.FlashPlayer, Games: make(map[string]string, len(l.Games))}
	for k, v := range l.Games {
		c.Games[k] = v
	}
	return c
}

// Version returns the recorded version of a game or of the runtime
func (l *Ledger) Version(item string) string {
	if item == model.FlashPlayerID {
		return l.FlashPlayer
	}
	return l.Games[item]
}

// SetVersion records the version of a game or of the runtime
func (l *Ledger) SetVersion(item, version string) {
	if item == model.FlashPlayerID {
		l.FlashPlayer = version
		return
	}
	if l.Games == nil {
		l.Games = make(map[string]string)
	}
	l.Games[item] = version
}

// IsCustomRuntime reports whether the runtime was supplied by the user
func (l *Ledger) IsCustomRuntime() bool {
	return l.FlashPlayer == model.CustomVersion
}

// normalize keeps only known games and fills in missing keys
func (l *Ledger) normalize() {
	games := make(map[string]string, len(model.KnownGames))
	for _, game := range model.KnownGames {
		games[game] = l.Games[game]
	}
	l.Games = games
}

// Store loads and saves a Ledger at a fixed path. The in-memory copy is
// authoritative for the session even when a save fails.
type Store struct {
	path   string
	lock   *flock.Flock
	mu     sync.RWMutex
	ledger *Ledger
}

// NewStore creates a store for the ledger file inside dir
func NewStore(dir string) *Store {
	path := filepath.Join(dir, FileName)
	return &Store{
		path:   path,
		lock:   flock.New(path + lockSuffix),
		ledger: Default(),
	}
}

// Path returns the ledger file path
func (s *Store) Path() string {
	return s.path
}

// Load reads the ledger from disk, creating it with defaults when missing.
// A corrupt file is replaced in memory by defaults and reported.
func (s *Store) Load() (*Ledger, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Infof("creating new %s", FileName)
		l := Default()
		s.set(l)
		return l.Clone(), s.Save(l)
	}
	if err != nil {
		return s.Get(), fmt.Errorf("read ledger: %w", err)
	}

	l := Default()
	if err := json.Unmarshal(data, l); err != nil {
		log.Errorf("ledger %s is malformed, using defaults: %v", s.path, err)
		s.set(Default())
		return s.Get(), fmt.Errorf("parse ledger: %w", err)
	}
	l.normalize()
	s.set(l)
	return l.Clone(), nil
}

// Get returns a copy of the current in-memory ledger
func (s *Store) Get() *Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Clone()
}

// Save replaces the in-memory ledger and rewrites the file. On failure it
// returns a *model.PersistenceError and keeps the in-memory copy.
func (s *Store) Save(l *Ledger) error {
	l = l.Clone()
	l.normalize()
	s.set(l)

	if err := s.write(l); err != nil {
		return &model.PersistenceError{Path: s.path, Cause: err}
	}
	return nil
}

// Update applies fn to the current ledger and saves the result
func (s *Store) Update(fn func(l *Ledger)) error {
	l := s.Get()
	fn(l)
	return s.Save(l)
}

func (s *Store) set(l *Ledger) {
	s.mu.Lock()
	s.ledger = l
	s.mu.Unlock()
}

func (s *Store) write(l *Ledger) error {
	data, err := json.MarshalIndent(l, "", indent)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock ledger: %w", err)
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			log.Warnf("failed to unlock %s: %v", s.lock.Path(), err)
		}
	}()

	tmp := s.path + tmpSuffix
	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}
