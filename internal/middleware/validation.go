package middleware

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Limits on user input.
const (
	MaxTitleLength   = 50
	MaxContentLength = 100000
	MaxImageBytes    = 5 * 1024 * 1024
	MaxChatroomIDLen = 128
)

// ValidateMessageContent validates message content.
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("content cannot be empty")
	}
	if len(content) > MaxContentLength {
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// ValidateTitle validates a chat room title and returns it trimmed.
func ValidateTitle(title string) (string, error) {
	if !utf8.ValidString(title) {
		return "", errors.New("title must be valid UTF-8")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errors.New("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", errors.New("title is too long")
	}
	return title, nil
}

// ValidateChatroomID validates a chat room ID. Rooms created by older
// clients use numeric ids, so any short printable string is accepted.
func ValidateChatroomID(id string) error {
	if id == "" {
		return errors.New("chatroom ID cannot be empty")
	}
	if len(id) > MaxChatroomIDLen || strings.ContainsAny(id, " \t\r\n/") {
		return errors.New("invalid chatroom ID format")
	}
	return nil
}

// ValidateImageURL accepts an empty value, an http(s) URL, or a base64
// data URI holding an image of at most MaxImageBytes.
func ValidateImageURL(imageURL string) error {
	if imageURL == "" {
		return nil
	}

	if rest, ok := strings.CutPrefix(imageURL, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found || !strings.HasPrefix(meta, "image/") || !strings.HasSuffix(meta, ";base64") {
			return errors.New("image must be a base64 encoded image data URI")
		}
		if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes+2 {
			return errors.New("image size should be less than 5MB")
		}
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return errors.New("image data is not valid base64")
		}
		if len(decoded) > MaxImageBytes {
			return errors.New("image size should be less than 5MB")
		}
		return nil
	}

	u, err := url.Parse(imageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("image must be a data URI or an http(s) URL")
	}
	return nil
}
