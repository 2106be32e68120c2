package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/sahayhealth/sahay-backend/internal/pkg/logger"
)

type stubComposer struct {
	reply string
	err   error

	gotConversationID string
	gotQuestion       string
}

func (s *stubComposer) Answer(_ context.Context, conversationID, question string) (string, error) {
	s.gotConversationID = conversationID
	s.gotQuestion = question
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newChatRouter(composer *stubComposer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewChatHandler(logger.NewNop(), composer)
	r.POST("/chat", h.Chat)
	return r
}

func postChat(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChatSuccess(t *testing.T) {
	composer := &stubComposer{reply: "You're doing great 🌞"}
	w := postChat(t, newChatRouter(composer), `{"message":"I want to meditate","userId":"u42"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body["response"] != "You're doing great 🌞" {
		t.Fatalf("unexpected response: %q", body["response"])
	}
	if composer.gotConversationID != "u42" || composer.gotQuestion != "I want to meditate" {
		t.Fatalf("composer got (%q, %q)", composer.gotConversationID, composer.gotQuestion)
	}
}

func TestChatDefaultsConversationID(t *testing.T) {
	composer := &stubComposer{reply: "ok"}
	w := postChat(t, newChatRouter(composer), `{"message":"hello"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
	if composer.gotConversationID != "defaultUser" {
		t.Fatalf("conversation id %q, want defaultUser", composer.gotConversationID)
	}
}

func TestChatMissingMessage(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "absent", body: `{"userId":"u1"}`},
		{name: "empty", body: `{"message":""}`},
		{name: "blank", body: `{"message":"   "}`},
		{name: "malformed_json", body: `{`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			composer := &stubComposer{reply: "never"}
			w := postChat(t, newChatRouter(composer), tc.body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status=%d, want 400", w.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("bad response body: %v", err)
			}
			if body["error"] != "Message is required" {
				t.Fatalf("error=%q, want %q", body["error"], "Message is required")
			}
		})
	}
}

func TestChatPipelineFailure(t *testing.T) {
	composer := &stubComposer{err: errors.New("pinecone http 503: unavailable")}
	w := postChat(t, newChatRouter(composer), `{"message":"hello"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	// Generic message only: internal detail must not leak.
	if body["error"] != "Internal server error" {
		t.Fatalf("error=%q, want generic message", body["error"])
	}
}
