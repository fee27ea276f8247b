package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imperium/internal/ports/llm"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	c, err := NewClient(Config{APIKey: "sk-test", BaseURL: ts.URL, Timeout: time.Second})
	require.NoError(t, err)
	return c
}

func TestComplete_SendsSingleStatelessRequest(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o", body.Model)
		assert.InDelta(t, 0.4, body.Temperature, 1e-9)
		assert.Equal(t, 4096, body.MaxTokens)
		if !assert.Len(t, body.Messages, 2) {
			return
		}
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "SYS", body.Messages[0].Content)
		assert.Equal(t, "user", body.Messages[1].Role)
		assert.Equal(t, "USR", body.Messages[1].Content)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"a\":1}"}}]}`))
	})

	out, err := c.Complete(context.Background(), llm.Request{System: "SYS", User: "USR", Temperature: 0.4, MaxTokens: 4096})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)
	assert.Equal(t, 1, calls)
}

func TestComplete_EmptyContent(t *testing.T) {
	for _, body := range []string{
		`{"choices":[]}`,
		`{"choices":[{"message":{"content":null}}]}`,
		`{"choices":[{"message":{"content":""}}]}`,
	} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		_, err := c.Complete(context.Background(), llm.Request{})
		assert.ErrorIs(t, err, llm.ErrEmptyCompletion, "body %s", body)
	}
}

func TestComplete_ProviderErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"You exceeded your current quota"}}`))
	})

	_, err := c.Complete(context.Background(), llm.Request{})
	require.Error(t, err)
	assert.Equal(t, "You exceeded your current quota", err.Error())
}

func TestComplete_NotConfigured(t *testing.T) {
	c, err := NewClient(Config{})
	require.NoError(t, err)

	assert.False(t, c.Configured())
	_, err = c.Complete(context.Background(), llm.Request{})
	assert.ErrorIs(t, err, llm.ErrNotConfigured)
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient(Config{APIKey: "k", BaseURL: "::not a url"})
	assert.Error(t, err)
}
