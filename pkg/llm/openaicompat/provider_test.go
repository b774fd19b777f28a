package openaicompat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"synthmind-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_PostsCompletionRequest(t *testing.T) {
	var got chatRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`))
	}))
	defer srv.Close()

	p := NewProvider("secret", srv.URL+"/v1/", "qwen2", time.Second)
	reply, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, llm.WithMaxTokens(10))

	require.NoError(t, err)
	assert.Equal(t, "hello there", reply)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "qwen2", got.Model)
	assert.Equal(t, 10, got.MaxTokens)
	assert.Equal(t, []chatMessage{{Role: "user", Content: "hi"}}, got.Messages)
}

func TestChat_OmitsAuthorizationWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	_, err := NewProvider("", srv.URL, "m", time.Second).Generate(context.Background(), "hi")
	require.NoError(t, err)
}

func TestChat_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"server error", http.StatusInternalServerError, `boom`, "status 500"},
		{"error object", http.StatusOK, `{"error":{"message":"context length exceeded"}}`, "context length exceeded"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "empty choices"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewProvider("", srv.URL, "m", time.Second).Generate(context.Background(), "hi")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
