package eventlog

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lox/arenacore/internal/match"
)

// ManagerConfig configures a Manager's defaults.
type ManagerConfig struct {
	// BaseDir is where per-match JSONL files are created. Defaults to "matches".
	BaseDir string
	// FlushInterval is how often the background ticker flushes all open
	// writers, independent of per-writer FlushLines batching. Defaults to
	// 10s.
	FlushInterval time.Duration
	// FlushLines is how many buffered lines a Writer accumulates before an
	// individual WriteEvent call forces a flush. Defaults to 50.
	FlushLines int
}

// Manager coordinates one eventlog.Writer per in-flight match, flushing
// them all on a ticker so a crash loses at most one interval's worth of
// events rather than the whole match.
type Manager struct {
	cfg    ManagerConfig
	logger zerolog.Logger

	mu      sync.RWMutex
	writers map[string]*Writer

	flushReq chan struct{}
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewManager creates and starts a Manager. Call Shutdown to stop the
// background flusher and close every remaining writer.
func NewManager(logger zerolog.Logger, cfg ManagerConfig) *Manager {
	if cfg.BaseDir == "" {
		cfg.BaseDir = "matches"
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 10 * time.Second
	}
	if cfg.FlushLines <= 0 {
		cfg.FlushLines = 50
	}

	m := &Manager{
		cfg:      cfg,
		logger:   logger,
		writers:  make(map[string]*Writer),
		flushReq: make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
	m.wg.Add(1)
	go m.run()
	return m
}

// CreateWriter opens a new per-match JSONL file at
// <BaseDir>/match-<matchID>.jsonl and registers it for periodic flush.
func (m *Manager) CreateWriter(matchID string) (*Writer, error) {
	m.mu.Lock()
	if _, exists := m.writers[matchID]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("eventlog: writer for match %s already exists", matchID)
	}
	m.mu.Unlock()

	path := filepath.Join(m.cfg.BaseDir, fmt.Sprintf("match-%s.jsonl", matchID))
	w, err := NewWriter(path, m.cfg.FlushLines)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.writers[matchID] = w
	m.mu.Unlock()

	return w, nil
}

// RemoveWriter flushes and closes the writer for matchID, if any.
func (m *Manager) RemoveWriter(matchID string) {
	m.mu.Lock()
	w, ok := m.writers[matchID]
	if ok {
		delete(m.writers, matchID)
	}
	m.mu.Unlock()

	if ok {
		if err := w.Close(); err != nil {
			m.logger.Error().Err(err).Str("matchId", matchID).Msg("eventlog: close on remove failed")
		}
	}
}

// OnEvent returns a match.RunOptions-compatible callback that writes every
// emitted event to matchID's writer, creating it lazily on first use.
func (m *Manager) OnEvent(matchID string) func(match.Event) {
	return func(ev match.Event) {
		m.mu.RLock()
		w, ok := m.writers[matchID]
		m.mu.RUnlock()
		if !ok {
			var err error
			w, err = m.CreateWriter(matchID)
			if err != nil {
				m.logger.Error().Err(err).Str("matchId", matchID).Msg("eventlog: lazy writer creation failed")
				return
			}
		}
		if err := w.WriteEvent(ev); err != nil {
			m.logger.Error().Err(err).Str("matchId", matchID).Msg("eventlog: write event failed")
		}
	}
}

// Shutdown stops the ticker, flushes, and closes every remaining writer.
func (m *Manager) Shutdown() {
	close(m.stop)
	m.wg.Wait()
	m.flushAll()

	m.mu.Lock()
	writers := m.writers
	m.writers = make(map[string]*Writer)
	m.mu.Unlock()

	for matchID, w := range writers {
		if err := w.Close(); err != nil {
			m.logger.Error().Err(err).Str("matchId", matchID).Msg("eventlog: close on shutdown failed")
		}
	}
}

func (m *Manager) run() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.flushAll()
		case <-m.flushReq:
			m.flushAll()
		case <-m.stop:
			return
		}
	}
}

func (m *Manager) flushAll() {
	m.mu.RLock()
	snapshot := make(map[string]*Writer, len(m.writers))
	for k, v := range m.writers {
		snapshot[k] = v
	}
	m.mu.RUnlock()

	for matchID, w := range snapshot {
		if err := w.Flush(); err != nil {
			m.logger.Error().Err(err).Str("matchId", matchID).Msg("eventlog: periodic flush failed")
		}
	}
}
