package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Siddiha/Amp/internal/agent"
	"github.com/Siddiha/Amp/internal/cache"
	"github.com/Siddiha/Amp/internal/history"
	"github.com/Siddiha/Amp/internal/llm"
	"github.com/Siddiha/Amp/internal/player"
	"github.com/Siddiha/Amp/internal/retry"
)

// echoClient answers every turn with a fixed reply and never requests a
// tool, so the handler tests need no player behind the agent.
type echoClient struct {
	reply string
}

func (c *echoClient) Chat(ctx context.Context, messages []llm.Message, systemPrompt string, useTools bool) (*llm.Result, error) {
	return &llm.Result{Text: c.reply}, nil
}

func newTestHandler(t *testing.T, store *cache.Cache, plays *history.Store) *Handler {
	t.Helper()

	a := agent.NewAgent(&echoClient{reply: "Sure thing!"}, nil, retry.Config{MaxAttempts: 1}, zap.NewNop())
	if store == nil {
		store = cache.New(time.Minute, 16)
	}
	return NewHandler(a, store, plays, zap.NewNop())
}

// ------------------------------------------------------------------------------------------------------
func TestChatHandler(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	body := bytes.NewBufferString(`{"message":"play something"}`)
	req := httptest.NewRequest(http.MethodPost, "/chat", body)
	rec := httptest.NewRecorder()

	h.ChatHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Response != "Sure thing!" {
		t.Errorf("unexpected reply: %q", resp.Response)
	}
}

// ------------------------------------------------------------------------------------------------------
func TestChatHandlerInvalidJSON(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.ChatHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// ------------------------------------------------------------------------------------------------------
func TestChatHandlerEmptyMessage(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"  "}`))
	rec := httptest.NewRecorder()

	h.ChatHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// ------------------------------------------------------------------------------------------------------
func TestHealthHandler(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.HealthHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

// ------------------------------------------------------------------------------------------------------
func TestCacheStatsHandler(t *testing.T) {
	store := cache.New(time.Minute, 16)
	store.Set("k", "v", 0)
	store.Get("k")
	store.Get("missing")

	h := newTestHandler(t, store, nil)

	req := httptest.NewRequest(http.MethodGet, "/cache/stats", nil)
	rec := httptest.NewRecorder()

	h.CacheStatsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var stats cache.Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	if stats.Size != 1 || stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.HitRate != "50.0%" {
		t.Errorf("unexpected hit rate: %q", stats.HitRate)
	}
}

// ------------------------------------------------------------------------------------------------------
func TestHistoryHandler(t *testing.T) {
	plays, err := history.NewStore(filepath.Join(t.TempDir(), "history.db"), 0)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer plays.Close()

	if err := plays.Record(player.Track{Name: "Kid A", Artists: "Radiohead", URI: "spotify:track:x"}); err != nil {
		t.Fatalf("failed to record: %v", err)
	}

	h := newTestHandler(t, nil, plays)

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()

	h.HistoryHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []history.Play
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode history: %v", err)
	}
	if len(got) != 1 || got[0].Track != "Kid A" {
		t.Errorf("unexpected history: %+v", got)
	}
}

// ------------------------------------------------------------------------------------------------------
func TestHistoryHandlerDisabled(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()

	h.HistoryHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

// ------------------------------------------------------------------------------------------------------
func TestWebSocketHandler(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	server := httptest.NewServer(http.HandlerFunc(h.WebSocketHandler))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(ChatRequest{Message: "hello"}); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	var resp ChatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("failed to read: %v", err)
	}
	if resp.Response != "Sure thing!" {
		t.Errorf("unexpected reply: %q", resp.Response)
	}
}
