// Package preferences stores the UI preferences of the local user.
package preferences

import (
	"context"
	"strconv"
	"sync"

	"github.com/capitalize-ai/gemini-chat/internal/storage"
)

// Persistence is the part of the storage gateway preferences need.
type Persistence interface {
	Load(ctx context.Context, key string) (string, bool)
	Save(ctx context.Context, key, value string)
}

// Service holds the dark mode flag, saved as "true" or "false".
type Service struct {
	mu       sync.Mutex
	darkMode bool
	persist  Persistence
}

// New loads the saved flag, falling back to defaultDark.
func New(ctx context.Context, persist Persistence, defaultDark bool) *Service {
	s := &Service{darkMode: defaultDark, persist: persist}
	if raw, ok := persist.Load(ctx, storage.KeyDarkMode); ok {
		s.darkMode = raw == "true"
	}
	return s
}

// DarkMode reports the current flag.
func (s *Service) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.darkMode
}

// SetDarkMode sets and saves the flag.
func (s *Service) SetDarkMode(ctx context.Context, on bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.darkMode = on
	s.persist.Save(ctx, storage.KeyDarkMode, strconv.FormatBool(on))
	return s.darkMode
}

// Toggle flips and saves the flag, returning the new value.
func (s *Service) Toggle(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.darkMode = !s.darkMode
	s.persist.Save(ctx, storage.KeyDarkMode, strconv.FormatBool(s.darkMode))
	return s.darkMode
}
