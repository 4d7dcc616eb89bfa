// Package service coordinates the chat store with the reply scheduler.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/capitalize-ai/gemini-chat/internal/model"
	"github.com/capitalize-ai/gemini-chat/internal/responder"
	"github.com/capitalize-ai/gemini-chat/internal/store"
	"github.com/capitalize-ai/gemini-chat/pkg/logger"
)

var (
	// ErrChatroomNotFound is returned for an id that names no room.
	ErrChatroomNotFound = errors.New("chatroom not found")

	// ErrNoActiveChatroom is returned when sending with no room selected.
	ErrNoActiveChatroom = errors.New("no active chatroom")
)

// ChatService handles chat room and message operations.
type ChatService struct {
	store     *store.Store
	scheduler *responder.Scheduler
	logger    *logger.Logger
}

// NewChatService creates a new chat service.
func NewChatService(st *store.Store, scheduler *responder.Scheduler, log *logger.Logger) *ChatService {
	return &ChatService{
		store:     st,
		scheduler: scheduler,
		logger:    logger.OrNop(log).Named("chat"),
	}
}

// Store returns the underlying chat store.
func (s *ChatService) Store() *store.Store {
	return s.store
}

// List returns room summaries. A non-empty query filters by title; recent
// orders by last activity.
func (s *ChatService) List(query string, recent bool) *model.ListChatroomsResponse {
	var rooms []model.ChatroomSummary
	switch {
	case query != "":
		rooms = s.store.Search(query)
	case recent:
		rooms = s.store.Recent()
	default:
		rooms = s.store.Search("")
	}

	resp := &model.ListChatroomsResponse{
		Chatrooms: rooms,
		Total:     len(rooms),
	}
	if room, ok := s.store.ActiveChatroom(); ok {
		resp.ActiveChatroomID = room.ID
	}
	return resp
}

// Create creates a room and makes it active.
func (s *ChatService) Create(ctx context.Context, req *model.CreateChatroomRequest) *model.Chatroom {
	room := s.store.CreateChatroom(ctx, req.Title)
	s.logger.Info("chatroom created", zap.String("chatroom_id", room.ID))
	return &room
}

// Get returns a room with its full thread.
func (s *ChatService) Get(id string) (*model.Chatroom, error) {
	room, ok := s.store.Chatroom(id)
	if !ok {
		return nil, ErrChatroomNotFound
	}
	return &room, nil
}

// Delete cancels the room's pending replies and removes it.
func (s *ChatService) Delete(ctx context.Context, id string) error {
	cancelled := s.scheduler.CancelRoom(ctx, id)
	if !s.store.DeleteChatroom(ctx, id) {
		return ErrChatroomNotFound
	}
	s.logger.Info("chatroom deleted",
		zap.String("chatroom_id", id),
		zap.Int("replies_cancelled", cancelled),
	)
	return nil
}

// Activate selects a room. Unlike the store command, it refuses ids that
// name no room.
func (s *ChatService) Activate(ctx context.Context, id string) error {
	if _, ok := s.store.Chatroom(id); !ok {
		return ErrChatroomNotFound
	}
	s.store.SetActiveChatroom(ctx, id)
	return nil
}

// State returns the selector view of the store.
func (s *ChatService) State() *model.StateResponse {
	resp := &model.StateResponse{
		IsTyping:      s.store.IsTyping(),
		ChatroomCount: len(s.store.Chatrooms()),
	}
	if room, ok := s.store.ActiveChatroom(); ok {
		resp.ActiveChatroomID = room.ID
	}
	return resp
}
