package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/capitalize-ai/gemini-chat/internal/model"
)

// DocumentVersion is the version tag written with every room collection.
//
// Version 1 is the bare JSON array written by the original browser client,
// which spelled the assistant sender "ai".
const DocumentVersion = 2

var (
	// ErrCorruptDocument means the stored value is not a room collection.
	ErrCorruptDocument = errors.New("corrupt chatrooms document")

	// ErrUnsupportedVersion means the document was written by a newer release.
	ErrUnsupportedVersion = errors.New("unsupported chatrooms document version")
)

type document struct {
	Version   int              `json:"version"`
	Chatrooms []model.Chatroom `json:"chatrooms"`
}

// EncodeChatrooms serializes rooms as a versioned document.
func EncodeChatrooms(rooms []model.Chatroom) (string, error) {
	if rooms == nil {
		rooms = []model.Chatroom{}
	}
	raw, err := json.Marshal(document{Version: DocumentVersion, Chatrooms: rooms})
	if err != nil {
		return "", fmt.Errorf("failed to encode chatrooms: %w", err)
	}
	return string(raw), nil
}

// DecodeChatrooms parses a stored room collection, upgrading older versions.
// migrated reports whether the result differs in shape from what was stored
// and should be written back.
func DecodeChatrooms(raw string) (rooms []model.Chatroom, migrated bool, err error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(trimmed, "["):
		if err := json.Unmarshal([]byte(trimmed), &rooms); err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
		}
		return migrateV1(rooms), true, nil

	case strings.HasPrefix(trimmed, "{"):
		var doc document
		if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
		}
		switch {
		case doc.Version > DocumentVersion:
			return nil, false, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
		case doc.Version < DocumentVersion:
			return migrateV1(doc.Chatrooms), true, nil
		}
		return normalize(doc.Chatrooms), false, nil

	default:
		return nil, false, ErrCorruptDocument
	}
}

func migrateV1(rooms []model.Chatroom) []model.Chatroom {
	for i := range rooms {
		for j := range rooms[i].Messages {
			if rooms[i].Messages[j].Sender == model.SenderLegacyAI {
				rooms[i].Messages[j].Sender = model.SenderAssistant
			}
		}
	}
	return normalize(rooms)
}

// normalize restores the derived fields and non-nil slices.
func normalize(rooms []model.Chatroom) []model.Chatroom {
	if rooms == nil {
		return []model.Chatroom{}
	}
	for i := range rooms {
		if rooms[i].Messages == nil {
			rooms[i].Messages = []model.Message{}
		}
		rooms[i].SyncDerived()
	}
	return rooms
}
