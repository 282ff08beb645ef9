package content

import (
	"math/rand"
	"sync"
)

// Store holds the fetched content tree and splash lines. The startup
// goroutine writes each value once; after that everything is read-only,
// so readers only need the lock to observe the initial publication.
type Store struct {
	mu     sync.RWMutex
	tree   Tree
	loaded bool
	splash []string
}

func NewStore() *Store {
	return &Store{}
}

// SetTree publishes the fetched tree. Called once by the startup fetch.
func (s *Store) SetTree(t Tree) {
	s.mu.Lock()
	s.tree = t
	s.loaded = true
	s.mu.Unlock()
}

// Tree returns the content tree and whether the startup fetch has
// completed yet.
func (s *Store) Tree() (Tree, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree, s.loaded
}

// SetSplash publishes the splash lines shown on the home page.
func (s *Store) SetSplash(lines []string) {
	s.mu.Lock()
	s.splash = lines
	s.mu.Unlock()
}

// Splash returns a random splash line, or the fallback when none are loaded.
func (s *Store) Splash() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.splash) == 0 {
		return "Ready when you are."
	}
	return s.splash[rand.Intn(len(s.splash))]
}
