package voice

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	openai "github.com/sashabaranov/go-openai"
)

// Transcriber converts a recorded audio capture into text. Unlike the
// completion client, this path may fail with an error: voice capture is
// the start of the pipeline and has no JSON-shaped fallback.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// WhisperTranscriber sends captures to the OpenAI speech-to-text API,
// constrained to French.
type WhisperTranscriber struct {
	client *openai.Client
	model  string
}

func NewWhisperTranscriber(model string) *WhisperTranscriber {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Fatal("OPENAI_API_KEY environment variable is not set")
		return nil
	}

	return &WhisperTranscriber{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (t *WhisperTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		Reader:   bytes.NewReader(audio),
		FilePath: "capture" + ExtensionFor(mimeType),
		Language: "fr",
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("empty transcription")
	}
	return text, nil
}

// ExtensionFor maps a capture mime type to the file extension the
// transcription API expects.
func ExtensionFor(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "webm"):
		return ".webm"
	case strings.Contains(mimeType, "ogg"):
		return ".ogg"
	case strings.Contains(mimeType, "wav"):
		return ".wav"
	case strings.Contains(mimeType, "mp4"):
		return ".mp4"
	default:
		return ".mp3"
	}
}
