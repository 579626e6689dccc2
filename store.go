package main

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type storedSession struct {
	session *Session
	created time.Time
}

// Store keeps sessions in memory. Commands on a session run under the
// store lock, so one session is never mutated concurrently.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*storedSession
	opts     SessionOptions
	now      func() time.Time
}

func NewStore(opts SessionOptions) *Store {
	return &Store{
		sessions: map[string]*storedSession{},
		opts:     opts,
		now:      time.Now,
	}
}

// Create starts a session. A non-nil seed overrides the store's source.
func (st *Store) Create(seed *int64) (string, SessionView) {
	st.mu.Lock()
	defer st.mu.Unlock()

	opts := st.opts
	if seed != nil {
		opts.Source = rand.NewSource(*seed)
	} else if opts.Source != nil {
		// Sessions must not share a source; derive a fresh one per session.
		opts.Source = rand.NewSource(opts.Source.Int63())
	}
	s := NewSession(opts)
	id := st.newIDLocked()
	st.sessions[id] = &storedSession{session: s, created: st.now()}
	return id, s.View()
}

func (st *Store) newIDLocked() string {
	for {
		id := uuid.NewString()
		if _, exists := st.sessions[id]; !exists {
			return id
		}
	}
}

// Do runs fn on the session with the store lock held.
func (st *Store) Do(id string, fn func(s *Session) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	ss, ok := st.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	return fn(ss.session)
}

func (st *Store) View(id string) (SessionView, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	ss, ok := st.sessions[id]
	if !ok {
		return SessionView{}, ErrSessionNotFound
	}
	return ss.session.View(), nil
}

func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	return nil
}

// Summaries lists sessions oldest first.
func (st *Store) Summaries() []sessionSummary {
	st.mu.RLock()
	out := make([]sessionSummary, 0, len(st.sessions))
	for id, ss := range st.sessions {
		v := ss.session.View()
		sum := sessionSummary{ID: id, Created: ss.created, Held: len(v.Reserve)}
		if len(v.Queue) > 0 {
			sum.Front = toPieceView(v.Queue[0])
		}
		out = append(out, sum)
	}
	st.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Created.Equal(out[j].Created) {
			return out[i].ID < out[j].ID
		}
		return out[i].Created.Before(out[j].Created)
	})
	return out
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
