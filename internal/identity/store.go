// Package identity persists which player a device has claimed in each room,
// the Go counterpart of the browser client's localStorage record. It is the
// only durable storage in the system.
package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xonyis/triman/internal/game"
)

type Store struct {
	path string

	mu     sync.Mutex
	byRoom map[string]game.Player
}

// Open loads the identity file at path, creating an empty store if the file
// does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path, byRoom: make(map[string]game.Player)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}
	if err := json.Unmarshal(data, &s.byRoom); err != nil {
		// A corrupt file is not fatal; start over rather than blocking play.
		s.byRoom = make(map[string]game.Player)
	}
	return s, nil
}

// Lookup returns the remembered player for a room, if any.
func (s *Store) Lookup(room string) (game.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byRoom[room]
	return p, ok
}

// Remember records the claimed player for a room and saves immediately.
func (s *Store) Remember(room string, p game.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byRoom[room] = p
	return s.save()
}

// Forget drops the remembered player for a room.
func (s *Store) Forget(room string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byRoom, room)
	return s.save()
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(s.byRoom, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write identity file: %w", err)
	}
	return nil
}
