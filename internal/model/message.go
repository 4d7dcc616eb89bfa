package model

import (
	"time"
)

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"

	// SenderLegacyAI is how documents written before version 2 spell the
	// assistant. It only appears while migrating.
	SenderLegacyAI Sender = "ai"
)

// Valid reports whether s is one of the current sender values.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAssistant
}

// Message is a single entry in a chat room thread. Messages are never
// edited or deleted once appended.
type Message struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Sender    Sender `json:"sender"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
	ImageURL  string `json:"imageUrl,omitempty"`
}

// Time returns the creation instant.
func (m Message) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

// SendMessageRequest is the request to send a user message to the active room.
type SendMessageRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// SendMessageResponse is the response after sending a message.
type SendMessageResponse struct {
	Message        *Message `json:"message"`
	ChatroomID     string   `json:"chatroomId"`
	ReplyScheduled bool     `json:"replyScheduled"`
}

// ListMessagesResponse is one page of a room's thread, oldest first.
type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
	Page     int       `json:"page"`
	PerPage  int       `json:"perPage"`
	Total    int       `json:"total"`
	HasMore  bool      `json:"hasMore"`
}
