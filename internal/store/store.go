// Package store holds the chat state and the commands that change it.
package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/capitalize-ai/gemini-chat/internal/model"
	"github.com/capitalize-ai/gemini-chat/internal/storage"
	"github.com/capitalize-ai/gemini-chat/pkg/logger"
	"github.com/capitalize-ai/gemini-chat/pkg/metrics"
	"github.com/capitalize-ai/gemini-chat/pkg/tracing"
)

// DefaultTitle replaces a blank title passed to CreateChatroom.
const DefaultTitle = "New Chat"

// Persistence is the part of the storage gateway the store needs.
type Persistence interface {
	// Read returns storage.ErrNotFound or storage.ErrUnavailable when the
	// key holds nothing, and any other error when it could not be read.
	Read(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, value string)
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUIDv7 id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// Store owns the chat rooms, the active room and the typing flag. Every
// command runs under one lock, and commands that change the room collection
// write it through the persistence gateway before releasing that lock.
type Store struct {
	mu       sync.RWMutex
	rooms    []model.Chatroom
	activeID string
	typing   bool

	persist Persistence
	logger  *logger.Logger
	tracer  trace.Tracer
	now     func() time.Time
	newID   func() string

	events *hub
}

// New loads the saved room collection, seeding and saving the default rooms
// on first run.
func New(ctx context.Context, persist Persistence, log *logger.Logger, opts ...Option) *Store {
	s := &Store{
		persist: persist,
		logger:  logger.OrNop(log).Named("store"),
		tracer:  tracing.Tracer("store"),
		now:     time.Now,
		newID:   func() string { return uuid.Must(uuid.NewV7()).String() },
		events:  newHub(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.load(ctx)
	metrics.ChatroomsActive.Set(float64(len(s.rooms)))
	return s
}

func (s *Store) load(ctx context.Context) {
	raw, err := s.persist.Read(ctx, storage.KeyChatrooms)
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrUnavailable):
		s.rooms = DefaultChatrooms(s.now(), s.newID)
		s.logger.Info("seeded default chatrooms", zap.Int("count", len(s.rooms)))
		s.save(ctx)
		return
	case err != nil:
		// A collection may still be saved; writing the seed would replace it.
		s.rooms = DefaultChatrooms(s.now(), s.newID)
		s.logger.Error("failed to read saved chatrooms, not persisting seed", zap.Error(err))
		return
	}

	rooms, migrated, err := DecodeChatrooms(raw)
	if err != nil {
		// Storage is left untouched until the next mutating command.
		s.logger.Error("discarding saved chatrooms", zap.Error(err), zap.Int("bytes", len(raw)))
		s.rooms = []model.Chatroom{}
		return
	}
	s.rooms = rooms
	if migrated {
		s.logger.Info("migrated saved chatrooms",
			zap.Int("count", len(rooms)),
			zap.Int("version", DocumentVersion),
		)
		s.save(ctx)
	}
}

// save writes the whole collection. Callers hold s.mu.
func (s *Store) save(ctx context.Context) {
	raw, err := EncodeChatrooms(s.rooms)
	if err != nil {
		s.logger.Error("failed to encode chatrooms", zap.Error(err))
		return
	}
	s.persist.Save(ctx, storage.KeyChatrooms, raw)
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.rooms {
		if s.rooms[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "store."+name, trace.WithAttributes(attrs...))
}

// CreateChatroom appends an empty room and makes it active.
func (s *Store) CreateChatroom(ctx context.Context, title string) model.Chatroom {
	ctx, span := s.startSpan(ctx, "CreateChatroom")
	defer span.End()

	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room := model.Chatroom{
		ID:       s.newID(),
		Title:    title,
		Messages: []model.Message{},
	}
	s.rooms = append(s.rooms, room)
	s.activeID = room.ID
	s.save(ctx)

	span.SetAttributes(attribute.String("chatroom.id", room.ID))
	metrics.RecordCommand("create_chatroom", true)
	metrics.ChatroomsActive.Set(float64(len(s.rooms)))
	s.logger.Debug("chatroom created", zap.String("chatroom_id", room.ID))

	s.publish(model.RoomEvent{Type: model.EventChatroomCreated, ChatroomID: room.ID, Title: room.Title})
	s.publish(model.RoomEvent{Type: model.EventChatroomActivated, ChatroomID: room.ID})
	return room.Clone()
}

// DeleteChatroom removes the room with id. Deleting the active room makes
// the first remaining room active. It reports whether a room was removed.
func (s *Store) DeleteChatroom(ctx context.Context, id string) bool {
	ctx, span := s.startSpan(ctx, "DeleteChatroom", attribute.String("chatroom.id", id))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		metrics.RecordCommand("delete_chatroom", false)
		return false
	}

	s.rooms = append(s.rooms[:idx], s.rooms[idx+1:]...)
	activeChanged := false
	if s.activeID == id {
		s.activeID = ""
		if len(s.rooms) > 0 {
			s.activeID = s.rooms[0].ID
		}
		activeChanged = true
	}
	s.save(ctx)

	metrics.RecordCommand("delete_chatroom", true)
	metrics.ChatroomsActive.Set(float64(len(s.rooms)))
	s.logger.Debug("chatroom deleted", zap.String("chatroom_id", id))

	s.publish(model.RoomEvent{Type: model.EventChatroomDeleted, ChatroomID: id})
	if activeChanged {
		s.publish(model.RoomEvent{Type: model.EventChatroomActivated, ChatroomID: s.activeID})
	}
	return true
}

// SetActiveChatroom records id as the active room. The id is not checked;
// selectors report no active room while it names nothing.
func (s *Store) SetActiveChatroom(ctx context.Context, id string) {
	_, span := s.startSpan(ctx, "SetActiveChatroom", attribute.String("chatroom.id", id))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeID = id
	metrics.RecordCommand("set_active_chatroom", true)
	s.publish(model.RoomEvent{Type: model.EventChatroomActivated, ChatroomID: id})
}

// SendMessage appends a user message to the active room and returns the
// message and the room it went to. It reports false when no room is active
// or content is empty.
func (s *Store) SendMessage(ctx context.Context, content, imageURL string) (model.Message, string, bool) {
	ctx, span := s.startSpan(ctx, "SendMessage", attribute.Bool("message.has_image", imageURL != ""))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	roomID := s.activeID
	msg, ok := s.appendLocked(ctx, roomID, model.Message{
		Content:  content,
		Sender:   model.SenderUser,
		ImageURL: imageURL,
	})
	metrics.RecordCommand("send_message", ok)
	if !ok {
		return model.Message{}, "", false
	}
	return msg, roomID, true
}

// ReceiveMessage appends an assistant message to chatroomID, or to the
// active room when chatroomID is empty.
func (s *Store) ReceiveMessage(ctx context.Context, content, chatroomID string) (model.Message, bool) {
	ctx, span := s.startSpan(ctx, "ReceiveMessage", attribute.String("chatroom.id", chatroomID))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	target := chatroomID
	if target == "" {
		target = s.activeID
	}
	msg, ok := s.appendLocked(ctx, target, model.Message{
		Content: content,
		Sender:  model.SenderAssistant,
	})
	metrics.RecordCommand("receive_message", ok)
	return msg, ok
}

func (s *Store) appendLocked(ctx context.Context, roomID string, msg model.Message) (model.Message, bool) {
	idx := s.indexOf(roomID)
	if idx < 0 || msg.Content == "" {
		return model.Message{}, false
	}

	msg.ID = s.newID()
	msg.Timestamp = s.now().UnixMilli()
	s.rooms[idx].Append(msg)
	s.save(ctx)

	metrics.MessagesTotal.WithLabelValues(string(msg.Sender)).Inc()
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("chatroom.id", roomID),
		attribute.String("message.id", msg.ID),
	)

	published := msg
	s.publish(model.RoomEvent{Type: model.EventMessageAppended, ChatroomID: roomID, Message: &published})
	return msg, true
}

// SetTypingStatus sets the transient typing flag.
func (s *Store) SetTypingStatus(ctx context.Context, typing bool) {
	_, span := s.startSpan(ctx, "SetTypingStatus", attribute.Bool("typing", typing))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := s.typing != typing
	s.typing = typing
	metrics.RecordCommand("set_typing_status", changed)
	if changed {
		s.publish(model.RoomEvent{Type: model.EventTypingChanged, ChatroomID: s.activeID, Typing: typing})
	}
}

// EnsureDefaults seeds and saves the default rooms when the collection is
// empty. It reports whether it seeded.
func (s *Store) EnsureDefaults(ctx context.Context) bool {
	ctx, span := s.startSpan(ctx, "EnsureDefaults")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.rooms) > 0 {
		metrics.RecordCommand("ensure_defaults", false)
		return false
	}

	s.rooms = DefaultChatrooms(s.now(), s.newID)
	s.save(ctx)

	metrics.RecordCommand("ensure_defaults", true)
	metrics.ChatroomsActive.Set(float64(len(s.rooms)))
	for _, room := range s.rooms {
		s.publish(model.RoomEvent{Type: model.EventChatroomCreated, ChatroomID: room.ID, Title: room.Title})
	}
	return true
}

// Reset drops every room and saves the empty collection.
func (s *Store) Reset(ctx context.Context) {
	ctx, span := s.startSpan(ctx, "Reset")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.rooms
	s.rooms = []model.Chatroom{}
	s.activeID = ""
	s.save(ctx)

	metrics.RecordCommand("reset", true)
	metrics.ChatroomsActive.Set(0)
	for _, room := range removed {
		s.publish(model.RoomEvent{Type: model.EventChatroomDeleted, ChatroomID: room.ID})
	}
}
