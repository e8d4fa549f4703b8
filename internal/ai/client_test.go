package ai_test

import (
	"context"
	"encoding/json"
	"github.com/myrjola/detectivequest/internal/ai"
	"github.com/myrjola/detectivequest/internal/mansion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newRoom(t *testing.T) *mansion.Room {
	t.Helper()
	room, err := mansion.Build([]mansion.Seed{
		{Name: "Biblioteca", Clue: "Página arrancada com anotações sobre dinheiro", Left: -1, Right: -1},
	})
	require.NoError(t, err)
	return room
}

func newFakeOpenAI(t *testing.T, content string, status int) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var request struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			Messages  []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, ai.MaxTokens, request.MaxTokens)
		if assert.Len(t, request.Messages, 2) {
			assert.True(t, strings.Contains(request.Messages[1].Content, "Biblioteca"))
			assert.True(t, strings.Contains(request.Messages[1].Content, "Página arrancada"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
			return
		}
		response := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   request.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		}
		assert.NoError(t, json.NewEncoder(w).Encode(response))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestClient_Narrate(t *testing.T) {
	server, calls := newFakeOpenAI(t, "  Estantes empoeiradas guardam segredos.\n", http.StatusOK)
	client := ai.NewClient("test-key", server.URL+"/v1")
	room := newRoom(t)

	narration, err := client.Narrate(context.Background(), room)
	require.NoError(t, err)
	require.Equal(t, "Estantes empoeiradas guardam segredos.", narration)

	narration, err = client.Narrate(context.Background(), room)
	require.NoError(t, err)
	require.Equal(t, "Estantes empoeiradas guardam segredos.", narration)
	require.Equal(t, 1, *calls, "revisits must be served from cache")
}

func TestClient_Narrate_errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		status  int
		wantErr error
	}{
		{name: "api error", content: "", status: http.StatusTooManyRequests},
		{name: "blank content", content: "   ", status: http.StatusOK, wantErr: ai.ErrEmptyNarration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, calls := newFakeOpenAI(t, tt.content, tt.status)
			client := ai.NewClient("test-key", server.URL+"/v1")

			_, err := client.Narrate(context.Background(), newRoom(t))
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}

			_, err = client.Narrate(context.Background(), newRoom(t))
			require.Error(t, err)
			require.GreaterOrEqual(t, *calls, 2, "failures are not cached")
		})
	}
}
