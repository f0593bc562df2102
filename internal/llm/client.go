package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// Config holds the streaming chat client's configuration.
type Config struct {
	Host  string
	Model string
}

// Client streams chat completions from an Ollama server, yielding
// incremental message content through a callback so sentence-granular TTS
// can start on the first completed sentence rather than the full reply.
type Client struct {
	api   *api.Client
	model string
}

// NewClient builds a client against an Ollama host, with the same
// connection-pooling tuning the reference agent uses for low-latency
// repeated requests to a local model.
func NewClient(cfg Config) (*Client, error) {
	host := strings.TrimSuffix(cfg.Host, "/")
	parsed, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("llm: invalid host %q: %w", cfg.Host, err)
	}

	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &Client{
		api:   api.NewClient(parsed, httpClient),
		model: cfg.Model,
	}, nil
}

// Chat streams one completion for the given system prompt + history,
// invoking onToken for every incremental content chunk in order. It
// returns the full concatenated response once the model signals done.
func (c *Client) Chat(ctx context.Context, systemPrompt string, history []ChatEntry, onToken func(chunk string)) (string, error) {
	messages := make([]api.Message, 0, len(history)+1)
	messages = append(messages, api.Message{Role: "system", Content: systemPrompt})
	for _, entry := range history {
		messages = append(messages, api.Message{Role: entry.Role, Content: entry.Content})
	}

	stream := true
	var full strings.Builder
	err := c.api.Chat(ctx, &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   &stream,
	}, func(resp api.ChatResponse) error {
		if resp.Message.Content != "" {
			full.WriteString(resp.Message.Content)
			if onToken != nil {
				onToken(resp.Message.Content)
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("llm: chat request failed: %w", err)
	}

	return full.String(), nil
}

// HealthCheck verifies the Ollama server is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.api.Heartbeat(ctx); err != nil {
		return fmt.Errorf("llm: cannot reach ollama: %w", err)
	}
	return nil
}
