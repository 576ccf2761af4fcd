package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"market-radar-bot/internal/api"
	"market-radar-bot/internal/interfaces"
	"market-radar-bot/internal/logger"
)

const defaultBaseURL = "https://api.telegram.org"

// Client delivers plain-text messages through the Telegram Bot API.
type Client struct {
	api    *api.Client
	token  string
	chatID string
}

// Compile-time interface check
var _ interfaces.Sink = (*Client)(nil)

// Option configures the client
type Option func(*clientConfig)

type clientConfig struct {
	baseURL string
	timeout time.Duration
}

// WithBaseURL overrides the Bot API endpoint (used by tests)
func WithBaseURL(baseURL string) Option {
	return func(c *clientConfig) {
		c.baseURL = baseURL
	}
}

// WithTimeout overrides the request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// New creates a Telegram sink. Empty credentials are allowed; Send then
// becomes a logged no-op so a misconfigured deployment still runs the rest
// of the pipeline.
func New(token, chatID string, opts ...Option) *Client {
	cfg := clientConfig{
		baseURL: defaultBaseURL,
		timeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Client{
		api: api.NewClient(
			api.WithBaseURL(cfg.baseURL),
			api.WithTimeout(cfg.timeout),
			api.WithLogging(true),
			api.WithURLRedactor(func(u string) string {
				return redactToken(token, u)
			}),
		),
		token:  token,
		chatID: chatID,
	}
}

// redactToken masks the bot token wherever it appears in s. The token sits
// in the request path, so logged URLs must never carry it verbatim.
func redactToken(token, s string) string {
	if token == "" {
		return s
	}
	return strings.ReplaceAll(s, token, "***")
}

type sendMessageReq struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResp struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send posts one message to the configured chat. A non-success response is
// returned as an error carrying the status and body; the caller decides
// whether to keep going (it always does).
func (c *Client) Send(ctx context.Context, text string) error {
	if c.token == "" || c.chatID == "" {
		logger.Warn(ctx, "Telegram credentials missing, skipping send", "chars", len(text))
		return nil
	}

	resp, err := c.api.POST(ctx, fmt.Sprintf("/bot%s/sendMessage", c.token), sendMessageReq{
		ChatID: c.chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}

	var body sendMessageResp
	if err := resp.ParseJSON(&body); err == nil && !body.OK {
		return fmt.Errorf("telegram rejected message: %s", body.Description)
	}
	return nil
}
