package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shabadpapers/shabad-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	_ = logger.Initialize(logger.Config{Level: "error", Environment: "development"})
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, false},
		{"code fence", "```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`, false},
		{"prose around", `Here you go: {"a":1} hope it helps`, `{"a":1}`, false},
		{"no object", `sorry`, "", true},
		{"reversed braces", `} {`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: ProviderGemini})
	assert.ErrorContains(t, err, "API key is required")
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "mystery", APIKey: "k"})
	assert.ErrorContains(t, err, "unknown LLM provider")
}

func TestNew_SelectsAnthropic(t *testing.T) {
	gen, err := New(context.Background(), Config{Provider: "Anthropic", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, gen.Name())
}

func TestAnthropic_GenerateJSON(t *testing.T) {
	var requests int
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/v1/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [{"type": "text", "text": "Sure! {\"suggestions\":[\"Kraft\"],\"reasoning\":\"strong\"}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 20}
		}`))
	}))
	defer server.Close()

	gen, err := NewAnthropic(Config{APIKey: "k", Model: "claude-test", MaxOutputTokens: 256, BaseURL: server.URL})
	require.NoError(t, err)

	out, err := gen.GenerateJSON(context.Background(), "suggest paper")

	require.NoError(t, err)
	assert.JSONEq(t, `{"suggestions":["Kraft"],"reasoning":"strong"}`, out)
	assert.Equal(t, 1, requests)
	assert.Equal(t, "claude-test", body["model"])
	assert.EqualValues(t, 256, body["max_tokens"])
}

func TestAnthropic_UpstreamErrorIsNotRetried(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
	}))
	defer server.Close()

	gen, err := NewAnthropic(Config{APIKey: "k", MaxOutputTokens: 16, BaseURL: server.URL})
	require.NoError(t, err)

	_, err = gen.GenerateJSON(context.Background(), "x")

	assert.Error(t, err)
	assert.Equal(t, 1, requests)
}
