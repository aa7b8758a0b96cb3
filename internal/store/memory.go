package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"legislature/internal/engine"
)

// GameStore keeps the current snapshot of every game plus the snapshots that
// led to it. States are values, so history costs no copying.
type GameStore struct {
	mu    sync.RWMutex
	games map[string][]engine.GameState
	limit int
}

// NewGameStore creates a store keeping at most limit snapshots per game.
// A limit of zero or less keeps everything.
func NewGameStore(limit int) *GameStore {
	return &GameStore{
		games: make(map[string][]engine.GameState),
		limit: limit,
	}
}

// Save appends s as the latest snapshot of its game.
func (s *GameStore) Save(state engine.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := append(s.games[state.GameID], state)
	if s.limit > 0 && len(h) > s.limit {
		h = h[len(h)-s.limit:]
	}
	s.games[state.GameID] = h
}

// Get returns the latest snapshot of a game.
func (s *GameStore) Get(gameID string) (engine.GameState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := s.games[gameID]
	if len(h) == 0 {
		return engine.GameState{}, false
	}
	return h[len(h)-1], true
}

// History returns a copy of the retained snapshots, oldest first.
func (s *GameStore) History(gameID string) []engine.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := s.games[gameID]
	out := make([]engine.GameState, len(h))
	copy(out, h)
	return out
}

// Delete removes a game.
func (s *GameStore) Delete(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, gameID)
}

// Export serialises the latest snapshot.
func (s *GameStore) Export(gameID string) ([]byte, error) {
	state, ok := s.Get(gameID)
	if !ok {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	return json.Marshal(state)
}

// Import restores a snapshot produced by Export after checking it.
func (s *GameStore) Import(data []byte) (engine.GameState, error) {
	var state engine.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return engine.GameState{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := engine.Validate(state); err != nil {
		return engine.GameState{}, fmt.Errorf("snapshot %s: %w", state.GameID, err)
	}
	s.Save(state)
	return state, nil
}
