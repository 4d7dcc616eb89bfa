package store

import (
	"sync"

	"github.com/capitalize-ai/gemini-chat/internal/model"
)

const defaultEventBuffer = 64

// hub fans store events out to subscribers without blocking the store.
type hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan model.RoomEvent
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan model.RoomEvent)}
}

// Subscribe returns a channel of store events and a function that ends the
// subscription and closes the channel. Events are dropped while the
// channel's buffer is full.
func (s *Store) Subscribe(buffer int) (<-chan model.RoomEvent, func()) {
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	ch := make(chan model.RoomEvent, buffer)

	h := s.events
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) publish(ev model.RoomEvent) {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = s.now()
	}

	h := s.events
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
