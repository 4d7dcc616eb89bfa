// Package model defines data structures for the chat application.
package model

// Chatroom is a named conversation thread. LastMessage and
// LastMessageTimestamp always mirror the final element of Messages.
type Chatroom struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	LastMessage          string    `json:"lastMessage,omitempty"`
	LastMessageTimestamp int64     `json:"lastMessageTimestamp,omitempty"`
	Messages             []Message `json:"messages"`
}

// Append adds msg to the end of the thread and refreshes the derived fields.
func (c *Chatroom) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.LastMessage = msg.Content
	c.LastMessageTimestamp = msg.Timestamp
}

// SyncDerived recomputes LastMessage and LastMessageTimestamp from Messages.
func (c *Chatroom) SyncDerived() {
	if len(c.Messages) == 0 {
		c.LastMessage = ""
		c.LastMessageTimestamp = 0
		return
	}
	last := c.Messages[len(c.Messages)-1]
	c.LastMessage = last.Content
	c.LastMessageTimestamp = last.Timestamp
}

// Clone returns a deep copy. The copy's Messages slice is never nil.
func (c Chatroom) Clone() Chatroom {
	out := c
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return out
}

// Summary returns the sidebar view of the room.
func (c Chatroom) Summary() ChatroomSummary {
	return ChatroomSummary{
		ID:                   c.ID,
		Title:                c.Title,
		LastMessage:          c.LastMessage,
		LastMessageTimestamp: c.LastMessageTimestamp,
		MessageCount:         len(c.Messages),
	}
}

// ChatroomSummary is a room without its thread.
type ChatroomSummary struct {
	ID                   string `json:"id"`
	Title                string `json:"title"`
	LastMessage          string `json:"lastMessage,omitempty"`
	LastMessageTimestamp int64  `json:"lastMessageTimestamp,omitempty"`
	MessageCount         int    `json:"messageCount"`
	Active               bool   `json:"active,omitempty"`
}

// ChatState is the full state held by the chat store.
type ChatState struct {
	Chatrooms        []Chatroom `json:"chatrooms"`
	ActiveChatroomID string     `json:"activeChatroomId,omitempty"`
	IsTyping         bool       `json:"isTyping"`
}

// CreateChatroomRequest is the request to create a new room.
type CreateChatroomRequest struct {
	Title string `json:"title"`
}

// ListChatroomsResponse is the response for listing rooms.
type ListChatroomsResponse struct {
	Chatrooms        []ChatroomSummary `json:"chatrooms"`
	Total            int               `json:"total"`
	ActiveChatroomID string            `json:"activeChatroomId,omitempty"`
}

// StateResponse is the selector view returned by the state endpoint.
type StateResponse struct {
	ActiveChatroomID string `json:"activeChatroomId,omitempty"`
	IsTyping         bool   `json:"isTyping"`
	ChatroomCount    int    `json:"chatroomCount"`
}
