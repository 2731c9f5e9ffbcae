package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_MissingAPIKey(t *testing.T) {
	providers := []Provider{ProviderOpenAI, ProviderGemini, ProviderAnthropic}

	for _, p := range providers {
		t.Run(string(p), func(t *testing.T) {
			config, err := ConfigForProvider(p)
			require.NoError(t, err)

			client, err := NewClient(context.Background(), config, "")
			assert.Nil(t, client)

			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, p, reqErr.Provider)
		})
	}
}

func TestNewClient_NilConfigDefaultsToOpenAI(t *testing.T) {
	client, err := NewClient(context.Background(), nil, "sk-test")
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	_, ok := client.(*OpenAIClient)
	assert.True(t, ok)
}

func newOpenAITestServer(t *testing.T, handler func(body map[string]any) (int, string)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))

		status, response := handler(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIClient_GenerateJSON(t *testing.T) {
	var captured map[string]any
	server := newOpenAITestServer(t, func(body map[string]any) (int, string) {
		captured = body
		return http.StatusOK, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"is_generic\": false}"}, "finish_reason": "stop"}]
		}`
	})

	config := DefaultOpenAIConfig()
	config.BaseURL = server.URL + "/v1"
	client, err := NewOpenAIClient(config, "sk-test")
	require.NoError(t, err)

	text, err := client.GenerateJSON(context.Background(), Request{System: "sys", User: "usr"}, TierLite)
	require.NoError(t, err)
	assert.Equal(t, `{"is_generic": false}`, text)

	assert.Equal(t, "gpt-4o-mini", captured["model"])
	format, ok := captured["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "sys", messages[0].(map[string]any)["content"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
	assert.Equal(t, "usr", messages[1].(map[string]any)["content"])
}

func TestOpenAIClient_GenerateJSON_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response string
	}{
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			response: `{"error": {"message": "boom", "type": "server_error"}}`,
		},
		{
			name:     "no choices",
			status:   http.StatusOK,
			response: `{"id": "x", "object": "chat.completion", "choices": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newOpenAITestServer(t, func(map[string]any) (int, string) {
				return tt.status, tt.response
			})

			config := DefaultOpenAIConfig()
			config.BaseURL = server.URL + "/v1"
			client, err := NewOpenAIClient(config, "sk-test")
			require.NoError(t, err)

			_, err = client.GenerateJSON(context.Background(), Request{User: "usr"}, TierStandard)
			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr), "got %v", err)
			assert.Equal(t, ProviderOpenAI, reqErr.Provider)
		})
	}
}

func TestOpenAIClient_GenerateJSON_BlankContentIsNotRequestError(t *testing.T) {
	server := newOpenAITestServer(t, func(map[string]any) (int, string) {
		return http.StatusOK, `{"id": "x", "object": "chat.completion", "choices": [{"index": 0, "message": {"role": "assistant", "content": "  "}}]}`
	})

	config := DefaultOpenAIConfig()
	config.BaseURL = server.URL + "/v1"
	client, err := NewOpenAIClient(config, "sk-test")
	require.NoError(t, err)

	text, err := client.GenerateJSON(context.Background(), Request{User: "usr"}, TierStandard)
	require.NoError(t, err)
	assert.Equal(t, "  ", text)
}

func TestOpenAIClient_NoModelForTier(t *testing.T) {
	config := &Config{Provider: ProviderOpenAI, Models: map[ModelTier]string{}}
	client, err := NewOpenAIClient(config, "sk-test")
	require.NoError(t, err)

	_, err = client.GenerateJSON(context.Background(), Request{User: "usr"}, TierStandard)
	var reqErr *RequestError
	assert.True(t, errors.As(err, &reqErr))
}

func TestAnthropicClient_GenerateJSON(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("X-Api-Key"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-0",
			"content": [{"type": "text", "text": "{\"key_risks\": []}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer server.Close()

	config := DefaultAnthropicConfig()
	config.BaseURL = server.URL + "/"
	client, err := NewAnthropicClient(config, "sk-ant-test")
	require.NoError(t, err)

	text, err := client.GenerateJSON(context.Background(), Request{System: "sys", User: "usr"}, TierStandard)
	require.NoError(t, err)
	assert.Equal(t, `{"key_risks": []}`, text)

	assert.Equal(t, "claude-sonnet-4-0", captured["model"])
	system, ok := captured["system"].([]any)
	require.True(t, ok)
	assert.Equal(t, "sys", system[0].(map[string]any)["text"])
}

func newAnthropicTestServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-0",
			"content": ` + content + `,
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 0}
		}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAnthropicClient_GenerateJSON_EmptyOutput(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantText   string
		wantReqErr bool
	}{
		{name: "blank text block", content: `[{"type": "text", "text": ""}]`, wantText: ""},
		{name: "no content blocks", content: `[]`, wantReqErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newAnthropicTestServer(t, tt.content)

			config := DefaultAnthropicConfig()
			config.BaseURL = server.URL + "/"
			client, err := NewAnthropicClient(config, "sk-ant-test")
			require.NoError(t, err)

			text, err := client.GenerateJSON(context.Background(), Request{User: "usr"}, TierStandard)
			if tt.wantReqErr {
				var reqErr *RequestError
				require.True(t, errors.As(err, &reqErr), "got %v", err)
				assert.Equal(t, ProviderAnthropic, reqErr.Provider)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, text)
		})
	}
}

func TestRequestError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &RequestError{Provider: ProviderOpenAI, Message: "chat completion failed", Cause: cause}

	assert.Contains(t, err.Error(), "openai request failed")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)

	bare := &RequestError{Provider: ProviderGemini, Message: "no candidates in response"}
	assert.Equal(t, "gemini request failed: no candidates in response", bare.Error())
}
