package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// LocalLLMRepo calls the llm_server HTTP API (Qwen2.5-Coder on the Hailo
// NPU). Any transport error, non-200 response or empty completion counts as
// a backend failure so the chain can fall through.
type LocalLLMRepo struct {
	BaseUrl string
	Timeout time.Duration
}

type localGenReq struct {
	Prompt      string   `json:"prompt"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature float64  `json:"temperature"`
	Stop        []string `json:"stop"`
}

type localGenResult struct {
	Text    string `json:"text"`
	Content string `json:"content"`
}

func (r LocalLLMRepo) Name() string {
	return "local"
}

func (r LocalLLMRepo) Call(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	body, err := json.Marshal(localGenReq{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Stop:        []string{},
	})

	if err != nil {
		return "", err
	}

	result, err := request[localGenResult](ctx, reqConfig{
		Method:  "POST",
		Url:     fmt.Sprintf("%s/generate", r.BaseUrl),
		Headers: []string{"Content-Type:application/json"},
		Body:    body,
		Timeout: r.Timeout}, 200)

	if err != nil {
		return "", fmt.Errorf("local llm call failed: %w", err)
	}

	text := result.Text
	if text == "" {
		text = result.Content
	}
	if text == "" {
		return "", errors.New("empty local llm response error")
	}

	return text, nil
}
