package reasoning

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civreg/pkg/platform/sentinel"
)

func completionServer(t *testing.T, handler func(req openai.ChatCompletionRequest) (int, any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		status, body := handler(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func reply(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		ID:    "chatcmpl-1",
		Model: DefaultModel,
		Choices: []openai.ChatCompletionChoice{{
			Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
			FinishReason: openai.FinishReasonStop,
		}},
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestCompleteSendsSingleUserMessage(t *testing.T) {
	var seen openai.ChatCompletionRequest
	srv := completionServer(t, func(req openai.ChatCompletionRequest) (int, any) {
		seen = req
		return http.StatusOK, reply("  approved \n")
	})
	c, err := New(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	got, err := c.Complete(context.Background(), "Decide the registration status")
	require.NoError(t, err)
	assert.Equal(t, "approved", got)
	assert.Equal(t, DefaultModel, seen.Model)
	assert.Equal(t, DefaultMaxTokens, seen.MaxTokens)
	require.Len(t, seen.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, seen.Messages[0].Role)
	assert.Equal(t, "Decide the registration status", seen.Messages[0].Content)
}

func TestCompleteServerErrorIsUnavailable(t *testing.T) {
	srv := completionServer(t, func(openai.ChatCompletionRequest) (int, any) {
		return http.StatusServiceUnavailable, map[string]any{
			"error": map[string]any{"message": "overloaded", "type": "server_error"},
		}
	})
	c, err := New(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "prompt")
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestCompleteNoChoices(t *testing.T) {
	srv := completionServer(t, func(openai.ChatCompletionRequest) (int, any) {
		return http.StatusOK, openai.ChatCompletionResponse{ID: "chatcmpl-2"}
	})
	c, err := New(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "prompt")
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.ErrorIs(t, err, errEmptyResponse)
}

func TestCompleteHonoursCancellation(t *testing.T) {
	srv := completionServer(t, func(openai.ChatCompletionRequest) (int, any) {
		return http.StatusOK, reply("yes")
	})
	c, err := New(Config{APIKey: "test-key", BaseURL: srv.URL, RequestsPerSecond: 0.001})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "first call takes the only token")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Complete(ctx, "second call waits on the limiter")
	require.Error(t, err)
	assert.NotErrorIs(t, err, sentinel.ErrUnavailable)
}
