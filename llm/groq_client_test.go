package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGroqClient(t *testing.T, serverURL string) *GroqClient {
	t.Helper()
	os.Setenv("GROQ_API_KEY", "test-key")
	t.Cleanup(func() { os.Unsetenv("GROQ_API_KEY") })

	client := NewGroqClient("llama-3.3-70b-versatile").(*GroqClient)
	client.url = serverURL + "/openai/v1/chat/completions"
	return client
}

func TestGroqClientGenerateInference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		response := groqResponse{
			Choices: []groqChoice{
				{Message: groqMessage{Content: `{"reply": "Bonjour"}`}},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := newTestGroqClient(t, server.URL)

	var result string
	err := client.GenerateInference(context.Background(), []Message{{Role: "user", Content: "Bonjour"}}, func(chunk string) error {
		result = chunk
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, `{"reply": "Bonjour"}`, result)
}

func TestGroqClientWithSystemPromptAndJSONOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request groqRequest
		err := json.NewDecoder(r.Body).Decode(&request)
		require.NoError(t, err)

		// System message is prepended to the messages array.
		require.Len(t, request.Messages, 2)
		assert.Equal(t, "system", request.Messages[0].Role)
		assert.Equal(t, "Tu es un assistant IDEL", request.Messages[0].Content)
		assert.Equal(t, "user", request.Messages[1].Role)

		require.NotNil(t, request.ResponseFormat)
		assert.Equal(t, "json_object", request.ResponseFormat.Type)
		assert.Equal(t, 0.3, request.Temperature)

		response := groqResponse{Choices: []groqChoice{{Message: groqMessage{Content: `{}`}}}}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := newTestGroqClient(t, server.URL)

	err := client.GenerateInference(context.Background(),
		[]Message{{Role: "user", Content: "Bonjour"}},
		func(chunk string) error { return nil },
		WithSystemPrompt("Tu es un assistant IDEL"),
		WithTemperature(0.3),
		WithJSONOutput(true),
	)

	require.NoError(t, err)
}

func TestGroqClientErrorHandling(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"non-200 status",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error": {"message": "rate limit"}}`))
			},
		},
		{
			"malformed body",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
		{
			"no choices",
			func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(groqResponse{})
			},
		},
		{
			"empty content",
			func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(groqResponse{Choices: []groqChoice{{}}})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := newTestGroqClient(t, server.URL)

			err := client.GenerateInference(context.Background(),
				[]Message{{Role: "user", Content: "Bonjour"}},
				func(chunk string) error { return nil })

			assert.Error(t, err)
		})
	}
}
