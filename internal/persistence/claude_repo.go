package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ClaudeRepo calls the hosted Anthropic messages API.
type ClaudeRepo struct {
	ApiKey  string
	Model   string
	Timeout time.Duration
}

type claudeMessageProto struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeReq struct {
	Model       string               `json:"model"`
	MaxTokens   int                  `json:"max_tokens"`
	Temperature float64              `json:"temperature"`
	Messages    []claudeMessageProto `json:"messages"`
}

type claudeContent struct {
	Text string `json:"text"`
}

type claudeMessage struct {
	Content []claudeContent `json:"content"`
}

func (r ClaudeRepo) Name() string {
	return "cloud"
}

func (r ClaudeRepo) Call(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	if r.ApiKey == "" {
		return "", errors.New("no claude api key available error")
	}

	body, err := json.Marshal(claudeReq{
		Model:       r.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages:    []claudeMessageProto{{Role: "user", Content: prompt}},
	})

	if err != nil {
		return "", err
	}

	msg, err := request[claudeMessage](ctx, reqConfig{
		Method: "POST",
		Url:    "https://api.anthropic.com/v1/messages",
		Headers: []string{
			"Content-Type:application/json",
			"anthropic-version:2023-06-01",
			fmt.Sprintf("x-api-key:%s", r.ApiKey)},
		Body:    body,
		Timeout: r.Timeout}, 200)

	if err != nil {
		return "", fmt.Errorf("claude api call failed: %w", err)
	}

	if len(msg.Content) == 0 || msg.Content[0].Text == "" {
		return "", errors.New("empty claude response error")
	}

	return msg.Content[0].Text, nil
}
