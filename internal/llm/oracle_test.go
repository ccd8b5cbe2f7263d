package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saathi/internal/conversation"
	"saathi/internal/provider"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func fakeChatServer(t *testing.T, reply string, got *chatRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   got.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestReplySendsSystemPromptAndHistory(t *testing.T) {
	var got chatRequest
	srv := fakeChatServer(t, "नमस्ते!", &got)

	oracle := NewOracle(provider.NewOpenAI("sk-test", provider.WithBaseURL(srv.URL)), "", "")
	reply, err := oracle.Reply(context.Background(), []conversation.Message{
		{Role: conversation.RoleUser, Content: "हैलो"},
		{Role: conversation.RoleAssistant, Content: "नमस्ते"},
		{Role: conversation.RoleUser, Content: "कैसे हो?"},
	})
	require.NoError(t, err)
	require.Equal(t, "नमस्ते!", reply)

	require.Equal(t, DefaultModel, got.Model)
	require.Len(t, got.Messages, 4)
	require.Equal(t, "system", got.Messages[0].Role)
	require.Equal(t, DefaultSystemPrompt, got.Messages[0].Content)
	require.Equal(t, "assistant", got.Messages[2].Role)
	require.Equal(t, "कैसे हो?", got.Messages[3].Content)
}

func TestReplyWithoutCredential(t *testing.T) {
	t.Setenv(provider.EnvAPIKey, "")

	_, err := NewOracle(provider.NewOpenAI(""), "", "").Reply(context.Background(), nil)
	require.ErrorIs(t, err, provider.ErrMissingCredential)
}
