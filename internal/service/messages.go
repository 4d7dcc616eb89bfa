package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/capitalize-ai/gemini-chat/internal/model"
)

// Send appends a user message to the active room and schedules the
// assistant's reply.
func (s *ChatService) Send(ctx context.Context, req *model.SendMessageRequest) (*model.SendMessageResponse, error) {
	msg, roomID, ok := s.store.SendMessage(ctx, req.Content, req.ImageURL)
	if !ok {
		return nil, ErrNoActiveChatroom
	}

	delay, scheduled := s.scheduler.Schedule(ctx, roomID, req.Content, req.ImageURL != "")

	s.logger.Debug("message sent",
		zap.String("chatroom_id", roomID),
		zap.String("message_id", msg.ID),
		zap.Bool("reply_scheduled", scheduled),
		zap.Duration("reply_delay", delay),
	)

	return &model.SendMessageResponse{
		Message:        &msg,
		ChatroomID:     roomID,
		ReplyScheduled: scheduled,
	}, nil
}

// Messages returns a page of a room's thread.
func (s *ChatService) Messages(id string, page, perPage int) (*model.ListMessagesResponse, error) {
	resp, ok := s.store.Messages(id, page, perPage)
	if !ok {
		return nil, ErrChatroomNotFound
	}
	return &resp, nil
}
