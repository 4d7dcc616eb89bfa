package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/capitalize-ai/gemini-chat/internal/middleware"
	"github.com/capitalize-ai/gemini-chat/internal/model"
	"github.com/capitalize-ai/gemini-chat/internal/service"
	"github.com/capitalize-ai/gemini-chat/internal/store"
	"github.com/capitalize-ai/gemini-chat/pkg/logger"
)

// ChatroomHandler handles chat room endpoints.
type ChatroomHandler struct {
	chat   *service.ChatService
	logger *logger.Logger
}

// NewChatroomHandler creates a new chat room handler.
func NewChatroomHandler(chat *service.ChatService, log *logger.Logger) *ChatroomHandler {
	return &ChatroomHandler{
		chat:   chat,
		logger: logger.OrNop(log),
	}
}

// List handles GET /api/v1/chatrooms?q=&sort=recent
func (h *ChatroomHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.chat.List(q.Get("q"), q.Get("sort") == "recent"))
}

// Create handles POST /api/v1/chatrooms
func (h *ChatroomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateChatroomRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	title, err := middleware.ValidateTitle(req.Title)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Title = title

	writeJSON(w, http.StatusCreated, h.chat.Create(r.Context(), &req))
}

// Get handles GET /api/v1/chatrooms/{id}
func (h *ChatroomHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := chatroomID(w, r)
	if !ok {
		return
	}

	room, err := h.chat.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// Delete handles DELETE /api/v1/chatrooms/{id}
func (h *ChatroomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := chatroomID(w, r)
	if !ok {
		return
	}

	if err := h.chat.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Activate handles PUT /api/v1/chatrooms/{id}/active
func (h *ChatroomHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, ok := chatroomID(w, r)
	if !ok {
		return
	}

	if err := h.chat.Activate(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.chat.State())
}

// Messages handles GET /api/v1/chatrooms/{id}/messages?page=&per_page=
func (h *ChatroomHandler) Messages(w http.ResponseWriter, r *http.Request) {
	id, ok := chatroomID(w, r)
	if !ok {
		return
	}

	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", store.DefaultPerPage)
	if perPage > 100 {
		perPage = 100
	}

	resp, err := h.chat.Messages(id, page, perPage)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// State handles GET /api/v1/state
func (h *ChatroomHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.chat.State())
}

func chatroomID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateChatroomID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrChatroomNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNoActiveChatroom):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
