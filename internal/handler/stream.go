package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/gemini-chat/internal/middleware"
	"github.com/capitalize-ai/gemini-chat/internal/model"
	"github.com/capitalize-ai/gemini-chat/internal/store"
	"github.com/capitalize-ai/gemini-chat/pkg/logger"
	"github.com/capitalize-ai/gemini-chat/pkg/metrics"
)

// DefaultHeartbeat is the interval between keep-alive events.
const DefaultHeartbeat = 30 * time.Second

// StreamHandler handles SSE streaming endpoints.
type StreamHandler struct {
	store     *store.Store
	heartbeat time.Duration
	logger    *logger.Logger
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(st *store.Store, heartbeat time.Duration, log *logger.Logger) *StreamHandler {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &StreamHandler{
		store:     st,
		heartbeat: heartbeat,
		logger:    logger.OrNop(log),
	}
}

// Stream handles GET /api/v1/stream
// Replays the thread of ?chatroom_id= (default: the active room), then
// forwards store events until the client goes away. With chatroom_id set,
// only that room's events and typing changes are forwarded.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	roomID := r.URL.Query().Get("chatroom_id")
	if roomID != "" {
		if err := middleware.ValidateChatroomID(roomID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if _, ok := h.store.Chatroom(roomID); !ok {
			writeError(w, http.StatusNotFound, "chatroom not found")
			return
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Subscribe before the replay so nothing falls between the two.
	events, unsubscribe := h.store.Subscribe(0)
	defer unsubscribe()

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	var room model.Chatroom
	if roomID != "" {
		room, ok = h.store.Chatroom(roomID)
	} else {
		room, ok = h.store.ActiveChatroom()
	}

	sendSSEEvent(w, flusher, "connected", map[string]string{
		"chatroomId": room.ID,
	})

	replayed := 0
	seen := make(map[string]struct{}, len(room.Messages))
	if ok {
		for i := range room.Messages {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if err := sendSSEEvent(w, flusher, "message", &room.Messages[i]); err != nil {
				return
			}
			seen[room.Messages[i].ID] = struct{}{}
			replayed++
		}
	}

	sendSSEEvent(w, flusher, "replay_complete", &model.ReplayCompleteEvent{
		ChatroomID:   room.ID,
		MessageCount: replayed,
	})

	log := h.logger.With(
		zap.String("correlation_id", middleware.GetCorrelationID(ctx)),
		zap.String("user_id", middleware.GetUserID(ctx)),
	)
	log.Debug("stream replay complete",
		zap.String("chatroom_id", room.ID),
		zap.Int("messages_replayed", replayed),
	)

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("SSE client disconnected")
			return

		case ev, open := <-events:
			if !open {
				return
			}
			if !forward(ev, roomID, seen) {
				continue
			}
			if err := sendSSEEvent(w, flusher, string(ev.Type), &ev); err != nil {
				log.Debug("SSE write failed", zap.Error(err))
				return
			}

		case <-heartbeat.C:
			sendSSEEvent(w, flusher, "heartbeat", &model.HeartbeatEvent{
				Timestamp: time.Now(),
			})
		}
	}
}

// forward reports whether a live event goes to a stream pinned to roomID.
// Messages already sent in the replay are skipped.
func forward(ev model.RoomEvent, roomID string, replayed map[string]struct{}) bool {
	if ev.Type == model.EventMessageAppended && ev.Message != nil {
		if _, ok := replayed[ev.Message.ID]; ok {
			delete(replayed, ev.Message.ID)
			return false
		}
	}
	if roomID == "" || ev.Type == model.EventTypingChanged {
		return true
	}
	return ev.ChatroomID == roomID
}
