package state

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/session"
)

const saveDebounce = 500 * time.Millisecond

type Manager struct {
	db  *sql.DB
	log *slog.Logger
	now func() time.Time

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   map[string]session.Settings
}

// Open opens (creating if needed) the settings database at path.
func Open(path string, logger *slog.Logger) (*Manager, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return newManager(db, logger), nil
}

func newManager(db *sql.DB, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		db:      db,
		log:     logger.With("component", "state"),
		now:     time.Now,
		pending: make(map[string]session.Settings),
	}
}

func (m *Manager) Close() error {
	m.Flush()
	return m.db.Close()
}

// Flush writes pending saves immediately.
func (m *Manager) Flush() {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}
	pending := m.pending
	m.pending = make(map[string]session.Settings)
	m.saveMu.Unlock()

	for key, s := range pending {
		if err := saveMedia(m.db, key, s, m.now()); err != nil {
			m.log.Warn("save settings failed", "media", key, "error", err)
		}
	}
}

// LoadSettings returns the saved settings for mediaKey. A save still
// waiting on the debounce timer takes precedence over the database.
func (m *Manager) LoadSettings(mediaKey string) (session.Settings, bool, error) {
	m.saveMu.Lock()
	s, ok := m.pending[mediaKey]
	m.saveMu.Unlock()
	if ok {
		return s, true, nil
	}

	st, err := getMedia(m.db, mediaKey)
	if err != nil {
		return session.Settings{}, false, err
	}
	if st == nil {
		return session.Settings{}, false, nil
	}
	return st.Settings, true, nil
}

// SaveSettings queues a save; rapid successive saves coalesce.
func (m *Manager) SaveSettings(mediaKey string, s session.Settings) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending[mediaKey] = s

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(saveDebounce, m.Flush)
}

// History lists saved media, most recently updated first. limit <= 0 lists
// everything.
func (m *Manager) History(ctx context.Context, limit int) ([]MediaState, error) {
	m.Flush()
	return listMedia(ctx, m.db, limit)
}

// Forget deletes the saved settings for mediaKey.
func (m *Manager) Forget(mediaKey string) error {
	m.saveMu.Lock()
	delete(m.pending, mediaKey)
	m.saveMu.Unlock()
	return deleteMedia(m.db, mediaKey)
}
