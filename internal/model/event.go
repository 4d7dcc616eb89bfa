package model

import (
	"time"
)

// EventType represents the type of store change event.
type EventType string

const (
	EventChatroomCreated   EventType = "chatroom.created"
	EventChatroomDeleted   EventType = "chatroom.deleted"
	EventChatroomActivated EventType = "chatroom.activated"
	EventMessageAppended   EventType = "message.appended"
	EventTypingChanged     EventType = "typing.changed"
)

// RoomEvent describes one state transition of the chat store.
type RoomEvent struct {
	Type       EventType `json:"type"`
	ChatroomID string    `json:"chatroomId,omitempty"`
	Title      string    `json:"title,omitempty"`
	Message    *Message  `json:"message,omitempty"`
	Typing     bool      `json:"typing,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ErrorEvent represents an error event on a stream.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HeartbeatEvent represents a heartbeat event.
type HeartbeatEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// ReplayCompleteEvent marks the end of the initial thread replay.
type ReplayCompleteEvent struct {
	ChatroomID   string `json:"chatroomId,omitempty"`
	MessageCount int    `json:"messageCount"`
}
