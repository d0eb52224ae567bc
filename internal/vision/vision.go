// Package vision answers "what am I looking at" questions from screen
// captures and camera frames.
package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Describer is the image-understanding capability.
type Describer interface {
	Describe(ctx context.Context, imageBytes []byte, prompt string) (string, error)
}

// OpenAIDescriber sends images to a vision-capable chat model.
type OpenAIDescriber struct {
	client openai.Client
	model  string
}

func NewOpenAIDescriber(apiKey, model string) *OpenAIDescriber {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIDescriber{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (d *OpenAIDescriber) Describe(ctx context.Context, imageBytes []byte, prompt string) (string, error) {
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(imageBytes)

	resp, err := d.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(d.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(prompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: dataURL,
				}),
			}),
		},
		MaxCompletionTokens: openai.Int(200),
	})
	if err != nil {
		return "", fmt.Errorf("describe image: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("describe image: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// MockDescriber serves development without an API key.
type MockDescriber struct{}

func (MockDescriber) Describe(_ context.Context, _ []byte, _ string) (string, error) {
	return "화면에 코드 편집기가 열려 있습니다.", nil
}

// CaptureScreen grabs an interactive screen selection as PNG bytes.
// macOS only; other platforms report the feature unavailable.
func CaptureScreen(ctx context.Context) ([]byte, error) {
	if runtime.GOOS != "darwin" {
		return nil, errors.New("screen capture is only supported on macOS")
	}

	tmp, err := os.CreateTemp("", "orion-screen-*.png")
	if err != nil {
		return nil, fmt.Errorf("create capture file: %w", err)
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	if err := exec.CommandContext(ctx, "screencapture", "-i", "-x", tmp.Name()).Run(); err != nil {
		return nil, fmt.Errorf("screencapture: %w", err)
	}
	data, err := os.ReadFile(tmp.Name())
	if err != nil || len(data) == 0 {
		return nil, errors.New("screen capture cancelled or empty")
	}
	return data, nil
}
