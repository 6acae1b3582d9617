package completion

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/idelcare/nursebot/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLMClient struct {
	response    string
	shouldError bool
	errorMsg    string
	callCount   int
}

func (f *fakeLLMClient) GenerateInference(ctx context.Context, messages []llm.Message, callback func(chunk string) error, opts ...llm.LLMOption) error {
	f.callCount++
	if f.shouldError {
		return errors.New(f.errorMsg)
	}
	return callback(f.response)
}

func (f *fakeLLMClient) GetModel() string { return "fake-model" }

func TestCompleteReturnsProviderJSON(t *testing.T) {
	client := New(&fakeLLMClient{response: `{"intent": "CHAT"}`})

	raw := client.Complete(context.Background(), "system", "user", 0.5)

	assert.Equal(t, `{"intent": "CHAT"}`, raw)
	_, failed := Detect(raw)
	assert.False(t, failed)
}

func TestCompleteStripsCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"json fence", "```json\n{\"a\": 1}\n```"},
		{"bare fence", "```\n{\"a\": 1}\n```"},
		{"padded", "  ```json\n{\"a\": 1}\n```  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New(&fakeLLMClient{response: tt.response})
			raw := client.Complete(context.Background(), "system", "user", 0.5)
			assert.Equal(t, `{"a": 1}`, raw)
		})
	}
}

func TestCompleteFoldsTransportErrorIntoEnvelope(t *testing.T) {
	client := New(&fakeLLMClient{shouldError: true, errorMsg: "connection refused"})

	raw := client.Complete(context.Background(), "system", "user", 0.5)

	require.True(t, json.Valid([]byte(raw)))
	env, failed := Detect(raw)
	require.True(t, failed)
	assert.Equal(t, "connection refused", env.Message)
	assert.Equal(t, FallbackReply, env.FinalReply)
}

func TestCompleteFoldsMalformedOutputIntoEnvelope(t *testing.T) {
	client := New(&fakeLLMClient{response: "Bonjour, voici ma réponse sans JSON"})

	raw := client.Complete(context.Background(), "system", "user", 0.5)

	require.True(t, json.Valid([]byte(raw)))
	env, failed := Detect(raw)
	require.True(t, failed)
	assert.Equal(t, FallbackReply, env.FinalReply)
}

func TestDetectOnNonEnvelopeJSON(t *testing.T) {
	_, failed := Detect(`{"needsAdmin": true}`)
	assert.False(t, failed)

	_, failed = Detect("not json at all")
	assert.False(t, failed)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "0123456789...", Truncate("0123456789abcdef", 10))
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	// "é" is two bytes; a byte cut at 3 would land mid-rune.
	got := Truncate("opéré ce matin", 3)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "op...", got)
}
