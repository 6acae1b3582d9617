package completion

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/idelcare/nursebot/llm"
	"go.uber.org/zap"
)

// FallbackReply is the user-safe message carried by failure envelopes.
const FallbackReply = "Désolé, je rencontre un problème technique. Veuillez réessayer."

// Envelope is the uniform failure shape returned in place of provider
// output. Callers detect it with Detect instead of handling errors.
type Envelope struct {
	Error      bool   `json:"error"`
	Message    string `json:"message,omitempty"`
	FinalReply string `json:"finalReply,omitempty"`
}

// Client performs one text-generation request and guarantees the caller
// always receives parseable JSON text, never an error. Transport, auth and
// malformed-provider-response failures are all folded into the same
// envelope shape.
type Client struct {
	llm llm.LLMClient
}

func New(client llm.LLMClient) *Client {
	return &Client{llm: client}
}

// Complete issues a single completion constrained to JSON-object output.
// The returned string is always valid JSON.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) string {
	var raw string
	err := c.llm.GenerateInference(
		ctx,
		[]llm.Message{{Role: "user", Content: userPrompt}},
		func(chunk string) error {
			raw += chunk
			return nil
		},
		llm.WithSystemPrompt(systemPrompt),
		llm.WithTemperature(temperature),
		llm.WithJSONOutput(true),
	)

	if err != nil {
		logger.Error("Completion request failed", zap.String("model", c.llm.GetModel()), zap.Error(err))
		return errorEnvelope(err.Error())
	}

	cleaned := stripFences(raw)
	if !json.Valid([]byte(cleaned)) {
		logger.Error("Provider returned non-JSON output",
			zap.String("model", c.llm.GetModel()),
			zap.String("preview", Truncate(raw, 200)))
		return errorEnvelope("provider returned invalid JSON")
	}

	logger.Info("Completion succeeded",
		zap.String("model", c.llm.GetModel()),
		zap.String("preview", Truncate(cleaned, 200)))
	return cleaned
}

// Detect reports whether raw carries the failure envelope.
func Detect(raw string) (Envelope, bool) {
	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return Envelope{}, false
	}
	return env, env.Error
}

func errorEnvelope(message string) string {
	data, _ := json.Marshal(Envelope{
		Error:      true,
		Message:    message,
		FinalReply: FallbackReply,
	})
	return string(data)
}

// stripFences removes a markdown code fence some providers wrap around
// JSON output.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// Truncate shortens s for log previews, cutting on a rune boundary so
// accented text is never split mid-sequence.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
