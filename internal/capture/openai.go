package capture

import (
	"bytes"
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAITranscriber sends WAV clips to the OpenAI transcription API.
type OpenAITranscriber struct {
	client   openai.Client
	model    string
	language string
}

func NewOpenAITranscriber(apiKey, model, language string) *OpenAITranscriber {
	if model == "" {
		model = "whisper-1"
	}
	return &OpenAITranscriber{
		client:   openai.NewClient(option.WithAPIKey(apiKey)),
		model:    model,
		language: language,
	}
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, wavData []byte) (string, error) {
	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(wavData), "audio.wav", "audio/wav"),
		Model: openai.AudioModel(t.model),
	}
	if t.language != "" && t.language != "auto" {
		params.Language = openai.String(t.language)
	}

	transcription, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return transcription.Text, nil
}
