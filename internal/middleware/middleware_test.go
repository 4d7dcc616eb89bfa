package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/capitalize-ai/gemini-chat/internal/auth"
)

func TestAuth(t *testing.T) {
	t.Parallel()

	tokens := auth.NewTokens("secret", time.Hour, "gemini-chat")
	signed, _, err := tokens.Issue("+15551234567", "+1", "5551234567")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var gotUser string
	var gotScope bool
	handler := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetUserID(r.Context())
		gotScope = HasScope(r.Context(), auth.ScopeChat)
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"bearer", "Bearer " + signed, "", http.StatusNoContent},
		{"query token", "", "?access_token=" + signed, http.StatusNoContent},
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + signed, "", http.StatusUnauthorized},
		{"bad token", "Bearer nope", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		gotUser = ""
		req := httptest.NewRequest(http.MethodGet, "/api/v1/state"+tt.query, nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, rec.Code, tt.want)
		}
		if tt.want == http.StatusNoContent && (gotUser != "+15551234567" || !gotScope) {
			t.Errorf("%s: user = %q scope = %v", tt.name, gotUser, gotScope)
		}
	}
}

func TestRequireScope(t *testing.T) {
	t.Parallel()

	handler := RequireScope("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestLoggingSetsCorrelationID(t *testing.T) {
	t.Parallel()

	var seen string
	handler := Logging(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetCorrelationID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "abc-123" || rec.Header().Get("X-Correlation-ID") != "abc-123" {
		t.Errorf("correlation id not propagated: ctx=%q header=%q", seen, rec.Header().Get("X-Correlation-ID"))
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Header().Get("X-Correlation-ID") == "" {
		t.Error("no correlation id generated")
	}
}

func TestValidateTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Trip Planning", "Trip Planning", false},
		{"  padded  ", "padded", false},
		{"", "", true},
		{"   ", "", true},
		{strings.Repeat("a", 50), strings.Repeat("a", 50), false},
		{strings.Repeat("a", 51), "", true},
		{strings.Repeat("é", 50), strings.Repeat("é", 50), false},
	}
	for _, tt := range tests {
		got, err := ValidateTitle(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ValidateTitle(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestValidateMessageContent(t *testing.T) {
	t.Parallel()

	if err := ValidateMessageContent("hello"); err != nil {
		t.Errorf("valid content rejected: %v", err)
	}
	for _, bad := range []string{"", "  \n", string([]byte{0xff, 0xfe})} {
		if err := ValidateMessageContent(bad); err == nil {
			t.Errorf("ValidateMessageContent(%q) accepted", bad)
		}
	}
}

func TestValidateImageURL(t *testing.T) {
	t.Parallel()

	small := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	huge := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(make([]byte, MaxImageBytes+1))

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"empty", "", false},
		{"data uri", small, false},
		{"https", "https://example.com/cat.png", false},
		{"too large", huge, true},
		{"not image", "data:text/plain;base64,aGk=", true},
		{"not base64", "data:image/png;base64,@@@", true},
		{"ftp", "ftp://example.com/cat.png", true},
		{"relative", "/cat.png", true},
	}
	for _, tt := range tests {
		if err := ValidateImageURL(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("%s: error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestValidateChatroomID(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"1714567890123", "0190a5f2-7c1e-7b3a-9f00-5e8f1c2d3a4b"} {
		if err := ValidateChatroomID(ok); err != nil {
			t.Errorf("ValidateChatroomID(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "a b", "a/b", strings.Repeat("x", 200)} {
		if err := ValidateChatroomID(bad); err == nil {
			t.Errorf("ValidateChatroomID(%q) accepted", bad)
		}
	}
}
