package server

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/mphaphulimavhungu/casino/internal/randutil"
)

// Store keeps live sessions in memory. A session is dropped as soon as it
// ends, whether scored, forfeited or aborted.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     SessionOptions
	clock    quartz.Clock
	logger   *log.Logger
}

// NewStore creates an empty store whose sessions use opts
func NewStore(opts SessionOptions, clock quartz.Clock, logger *log.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		opts:     opts,
		clock:    clock,
		logger:   logger.WithPrefix("session"),
	}
}

// Create starts a new session. playerCount zero uses the configured count.
func (st *Store) Create(playerCount int) (*Session, error) {
	opts := st.opts
	if playerCount != 0 {
		opts.PlayerCount = playerCount
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = randutil.NewSeed()
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	s := newSession(id.String(), opts, seed, st.clock, st.logger, st.remove)
	st.sessions[s.id] = s
	st.logger.Info("Session created", "session", s.id, "players", opts.PlayerCount)
	return s, nil
}

// Get returns the live session with id
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) remove(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, s.id)
	st.logger.Debug("Session discarded", "session", s.id, "remaining", len(st.sessions))
}

// CloseAll aborts every live session
func (st *Store) CloseAll() {
	st.mu.RLock()
	sessions := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		sessions = append(sessions, s)
	}
	st.mu.RUnlock()

	for _, s := range sessions {
		s.Close()
	}
}
