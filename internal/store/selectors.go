package store

import (
	"sort"
	"strings"

	"github.com/capitalize-ai/gemini-chat/internal/model"
)

// DefaultPerPage is the page size used by Messages when none is given.
const DefaultPerPage = 20

// Chatrooms returns a copy of every room in collection order.
func (s *Store) Chatrooms() []model.Chatroom {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneRooms(s.rooms)
}

// Chatroom returns a copy of the room with id.
func (s *Store) Chatroom(id string) (model.Chatroom, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Chatroom{}, false
	}
	return s.rooms[idx].Clone(), true
}

// ActiveChatroomID returns the stored active id, which may be stale.
func (s *Store) ActiveChatroomID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.activeID
}

// ActiveChatroom returns a copy of the active room, if it exists.
func (s *Store) ActiveChatroom() (model.Chatroom, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(s.activeID)
	if idx < 0 {
		return model.Chatroom{}, false
	}
	return s.rooms[idx].Clone(), true
}

// IsTyping reports the transient typing flag.
func (s *Store) IsTyping() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.typing
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() model.ChatState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return model.ChatState{
		Chatrooms:        cloneRooms(s.rooms),
		ActiveChatroomID: s.activeID,
		IsTyping:         s.typing,
	}
}

// Recent returns room summaries ordered by last activity, newest first.
// Rooms without messages follow in collection order.
func (s *Store) Recent() []model.ChatroomSummary {
	summaries := s.summaries("")
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.MessageCount == 0 || b.MessageCount == 0 {
			return a.MessageCount > 0 && b.MessageCount == 0
		}
		return a.LastMessageTimestamp > b.LastMessageTimestamp
	})
	return summaries
}

// Search returns summaries of rooms whose title contains query, ignoring
// case. A blank query matches every room.
func (s *Store) Search(query string) []model.ChatroomSummary {
	return s.summaries(strings.ToLower(strings.TrimSpace(query)))
}

func (s *Store) summaries(query string) []model.ChatroomSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ChatroomSummary, 0, len(s.rooms))
	for _, room := range s.rooms {
		if query != "" && !strings.Contains(strings.ToLower(room.Title), query) {
			continue
		}
		sum := room.Summary()
		sum.Active = room.ID == s.activeID
		out = append(out, sum)
	}
	return out
}

// Messages returns the newest page*perPage messages of a room, oldest
// first. Each page reaches further back into the thread.
func (s *Store) Messages(id string, page, perPage int) (model.ListMessagesResponse, bool) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.ListMessagesResponse{}, false
	}

	all := s.rooms[idx].Messages
	start := len(all) - page*perPage
	if start < 0 {
		start = 0
	}
	msgs := make([]model.Message, len(all)-start)
	copy(msgs, all[start:])

	return model.ListMessagesResponse{
		Messages: msgs,
		Page:     page,
		PerPage:  perPage,
		Total:    len(all),
		HasMore:  start > 0,
	}, true
}

func cloneRooms(rooms []model.Chatroom) []model.Chatroom {
	out := make([]model.Chatroom, len(rooms))
	for i := range rooms {
		out[i] = rooms[i].Clone()
	}
	return out
}
