// Package handlers is the HTTP façade over the edit-session engine: one
// handler per /session/... route, registered on a method-and-path
// net/http.ServeMux.
package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
	"github.com/R3v3ill3/patch-boundary-engine/session"
)

// Store is an in-memory registry of live edit sessions, keyed by a random
// session id. The engine itself is single-threaded per session; Store only
// serialises access to the map of sessions, not to any one session's
// internal state, so callers must not issue concurrent requests against
// the same session id.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session.EditSession
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*session.EditSession)}
}

// Create starts a new session over patches and returns its id.
func (st *Store) Create(patches []engine.Patch) string {
	id := newSessionID()
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[id] = session.New(patches, engine.DefaultTolerances())
	return id
}

// Get returns the session for id, or ok=false if it does not exist (never
// created, or already committed/cancelled).
func (st *Store) Get(id string) (*session.EditSession, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Close removes id from the store; both commit and cancel call this once
// they have done whatever they do with the session's final state.
func (st *Store) Close(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("handlers: generating session id: %v", err))
	}
	return hex.EncodeToString(buf)
}
