// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

package openai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient("test-key").WithBaseURL(srv.URL)
	return client, srv
}

func TestChatSuccess(t *testing.T) {
	var gotAuth string
	var gotBody ChatRequest

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, decodeJSON(r, &gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"model": "gpt-4o-mini",
			"choices": [{"message": {"role": "assistant", "content": "hi there"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12}
		}`))
	})
	defer srv.Close()

	temp := 1.0
	resp, err := client.Chat(context.Background(), ChatRequest{
		Model:       "gpt-4o-mini",
		Messages:    []ChatMessage{NewSystemMessage("be brief"), NewUserMessage("hello")},
		Temperature: &temp,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotBody.Model)
	assert.False(t, gotBody.Stream)
	require.NotNil(t, gotBody.Temperature)
	assert.Equal(t, 1.0, *gotBody.Temperature)
	assert.Equal(t, "hi there", resp.GetContent())
	assert.Equal(t, 12, resp.Usage.TotalTokens)
}

func TestChatTemperatureZeroSurvivesMarshal(t *testing.T) {
	var gotBody map[string]any
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, decodeJSON(r, &gotBody))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	})
	defer srv.Close()

	temp := 0.0
	_, err := client.Chat(context.Background(), ChatRequest{
		Model:       "gpt-4o-mini",
		Messages:    []ChatMessage{NewUserMessage("hi")},
		Temperature: &temp,
	})
	require.NoError(t, err)

	val, present := gotBody["temperature"]
	require.True(t, present, "temperature 0 must be sent, not dropped")
	assert.Equal(t, 0.0, val)
}

func TestChatErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{
			"auth failure",
			http.StatusUnauthorized,
			`{"error": {"message": "Incorrect API key provided", "code": "invalid_api_key"}}`,
			ErrAuthFailed,
		},
		{
			"rate limited",
			http.StatusTooManyRequests,
			`{"error": {"message": "Rate limit reached", "code": "rate_limit_exceeded"}}`,
			ErrRateLimited,
		},
		{
			"model not found",
			http.StatusNotFound,
			`{"error": {"message": "The model does not exist"}}`,
			ErrModelNotFound,
		},
		{
			"auth failure with garbage body",
			http.StatusUnauthorized,
			`not json`,
			ErrAuthFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			defer srv.Close()

			_, err := client.Chat(context.Background(), ChatRequest{
				Model:    "gpt-4o-mini",
				Messages: []ChatMessage{NewUserMessage("hi")},
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
		})
	}
}

func TestChatServerErrorIsTyped(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"message": "The server had an error", "code": "server_error"}}`))
	})
	defer srv.Close()

	_, err := client.Chat(context.Background(), ChatRequest{
		Model:    "gpt-4o-mini",
		Messages: []ChatMessage{NewUserMessage("hi")},
	})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "server_error", apiErr.Code)
}

func TestChatNotConfigured(t *testing.T) {
	client := NewClient("")
	_, err := client.Chat(context.Background(), ChatRequest{Model: "gpt-4o-mini"})
	assert.True(t, errors.Is(err, ErrNotConfigured))

	err = client.ChatStream(context.Background(), ChatRequest{Model: "gpt-4o-mini"}, func(StreamChunk) {})
	assert.True(t, errors.Is(err, ErrNotConfigured))
}
