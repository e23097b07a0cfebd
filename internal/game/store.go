package game

import (
	"sync"
	"time"
)

// Store is the authoritative room-code to Room mapping. It is owned by a
// Game instance rather than being package state so tests can build
// isolated stores.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{rooms: make(map[string]*Room)}
}

// GetOrCreate returns the room for code, creating it when absent. The
// second return value reports whether the room was created.
func (s *Store) GetOrCreate(code string, turnDuration time.Duration) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[code]; ok {
		return r, false
	}
	r := newRoom(code, turnDuration)
	s.rooms[code] = r
	return r, true
}

// Get returns the room for code, or nil.
func (s *Store) Get(code string) *Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms[code]
}

// RemoveIfEmpty deletes the room for code when it has no players left and
// reports whether it did. Lock order is room before store, matching Join;
// the store lock is never held while waiting on a room lock.
func (s *Store) RemoveIfEmpty(code string) bool {
	s.mu.RLock()
	r := s.rooms[code]
	s.mu.RUnlock()
	if r == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Players) != 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rooms[code] != r {
		return false
	}
	delete(s.rooms, code)
	return true
}

// Codes returns a snapshot of all live room codes.
func (s *Store) Codes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]string, 0, len(s.rooms))
	for code := range s.rooms {
		codes = append(codes, code)
	}
	return codes
}

// Registry tracks which room, if any, a connection currently belongs to.
// Purely bookkeeping; the rooms themselves hold the player objects.
type Registry struct {
	mu     sync.Mutex
	byConn map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byConn: make(map[string]string)}
}

// Bind records that connID belongs to the room with the given code,
// replacing any previous binding.
func (reg *Registry) Bind(connID, code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.byConn[connID] = code
}

// Lookup returns the room code bound to connID.
func (reg *Registry) Lookup(connID string) (string, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	code, ok := reg.byConn[connID]
	return code, ok
}

// Unbind removes connID's binding and returns the code it was bound to.
func (reg *Registry) Unbind(connID string) (string, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	code, ok := reg.byConn[connID]
	if ok {
		delete(reg.byConn, connID)
	}
	return code, ok
}
