// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func sseChunk(content string) string {
	return `data: {"id":"c1","model":"gpt-4o-mini","choices":[{"delta":{"content":` +
		string(mustMarshal(content)) + `},"finish_reason":""}]}` + "\n\n"
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func TestSSEReaderReadEvent(t *testing.T) {
	input := "data: first\n\n" +
		": comment line\n" +
		"event: message\ndata: second\n\n" +
		"data: [DONE]\n\n"

	reader := NewSSEReader(strings.NewReader(input))

	_, data, err := reader.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	eventType, data, err := reader.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, "message", eventType)
	assert.Equal(t, "second", string(data))

	_, data, err = reader.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, "[DONE]", string(data))

	_, _, err = reader.ReadEvent()
	assert.Equal(t, io.EOF, err)
}

func TestSSEReaderCRLF(t *testing.T) {
	reader := NewSSEReader(strings.NewReader("data: hello\r\n\r\n"))
	_, data, err := reader.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestChatStreamDeliversChunksInOrder(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		require.NoError(t, decodeJSON(r, &req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, sseChunk("Hel"))
		io.WriteString(w, sseChunk("lo "))
		io.WriteString(w, sseChunk("world"))
		io.WriteString(w, "data: [DONE]\n\n")
	})
	defer srv.Close()

	var got []string
	err := client.ChatStream(context.Background(), ChatRequest{
		Model:    "gpt-4o-mini",
		Messages: []ChatMessage{NewUserMessage("hi")},
	}, func(chunk StreamChunk) {
		got = append(got, chunk.GetContent())
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo ", "world"}, got)
}

func TestChatStreamSkipsMalformedChunks(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, sseChunk("ok"))
		io.WriteString(w, "data: {not valid json\n\n")
		io.WriteString(w, sseChunk("still ok"))
		io.WriteString(w, "data: [DONE]\n\n")
	})
	defer srv.Close()

	var got []string
	err := client.ChatStream(context.Background(), ChatRequest{
		Model:    "gpt-4o-mini",
		Messages: []ChatMessage{NewUserMessage("hi")},
	}, func(chunk StreamChunk) {
		got = append(got, chunk.GetContent())
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok", "still ok"}, got)
}

func TestChatStreamStopsOnFinishReason(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, sseChunk("done"))
		io.WriteString(w, `data: {"id":"c1","choices":[{"delta":{"content":""},"finish_reason":"stop"}]}`+"\n\n")
		// Anything after finish_reason must not be delivered.
		io.WriteString(w, sseChunk("extra"))
	})
	defer srv.Close()

	var got []string
	err := client.ChatStream(context.Background(), ChatRequest{
		Model:    "gpt-4o-mini",
		Messages: []ChatMessage{NewUserMessage("hi")},
	}, func(chunk StreamChunk) {
		if c := chunk.GetContent(); c != "" {
			got = append(got, c)
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"done"}, got)
}

func TestChatStreamErrorResponse(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "Rate limit reached"}}`))
	})
	defer srv.Close()

	err := client.ChatStream(context.Background(), ChatRequest{
		Model:    "gpt-4o-mini",
		Messages: []ChatMessage{NewUserMessage("hi")},
	}, func(StreamChunk) {})
	assert.True(t, errors.Is(err, ErrRateLimited))
}

func TestChatStreamCancellationPreservesPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		io.WriteString(w, sseChunk("partial"))
		flusher.Flush()
		<-r.Context().Done()
	})
	defer srv.Close()

	err := client.ChatStream(ctx, ChatRequest{
		Model:    "gpt-4o-mini",
		Messages: []ChatMessage{NewUserMessage("hi")},
	}, func(chunk StreamChunk) {
		cancel()
	})
	require.Error(t, err)

	var streamErr *StreamError
	require.True(t, errors.As(err, &streamErr))
	assert.Equal(t, "partial", streamErr.Partial)
}
