package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wardproject/ward/internal/utils"
)

const systemPrompt = `You translate user requests into a single shell command.
Respond with JSON only, no prose, using this shape:
{"command": "...", "explanation": "...", "risks": ["..."], "requires_admin": false}
Prefer the least destructive command that satisfies the request.`

// ClientConfig configures the model-backed translator.
type ClientConfig struct {
	// BaseURL is an OpenAI-compatible endpoint, e.g.
	// https://api.openai.com/v1 or a local server.
	BaseURL string
	// APIKey is sent as a bearer token when non-empty.
	APIKey string
	// Model names the chat model to use.
	Model string
	// Timeout bounds each translation call. Zero means 60s.
	Timeout time.Duration
}

// Client translates requests through an OpenAI-compatible chat endpoint.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// NewClient creates a model-backed translator.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Translate sends the request to the model and parses its JSON reply.
func (c *Client) Translate(ctx context.Context, request string) (*Translation, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: request},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding translation request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building translation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling translation endpoint: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading translation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("translation endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing translation response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("translation endpoint error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, ErrNoTranslation
	}

	content := stripFences(parsed.Choices[0].Message.Content)
	var t Translation
	if err := json.Unmarshal([]byte(content), &t); err != nil {
		utils.Debug("model reply was not JSON", "content", content)
		return nil, fmt.Errorf("model reply was not the expected JSON: %w", err)
	}
	t.Command = strings.TrimSpace(t.Command)
	if t.Command == "" {
		return nil, ErrNoTranslation
	}
	return &t, nil
}

// stripFences removes a surrounding markdown code fence from model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "json" || first == "" {
			s = s[idx+1:]
		}
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
