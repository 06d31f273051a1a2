// Package telegram talks to the Telegram Bot API, the messaging endpoint
// that delivers questions and returns free-text replies. Every call is
// retried up to a fixed attempt bound before being surfaced as failed.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"countries-trivia/internal/domain"
)

const (
	defaultBaseURL    = "https://api.telegram.org"
	defaultAttempts   = 10
	defaultRetryDelay = 200 * time.Millisecond
)

// Client is a Telegram Bot API client. Each participant plays through
// their own bot, so the token travels with the address rather than with
// the client.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxAttempts int
	retryDelay  time.Duration
}

// New builds a client against the given API base URL. An empty base
// falls back to the public Telegram endpoint.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxAttempts: defaultAttempts,
		retryDelay:  defaultRetryDelay,
	}
}

// SendMessage delivers text to the participant's chat.
func (c *Client) SendMessage(ctx context.Context, addr domain.Address, text string) error {
	form := url.Values{}
	form.Set("chat_id", addr.ChatID)
	form.Set("text", text)

	if _, err := c.postWithRetry(ctx, c.methodURL(addr.Token, "sendMessage"), form); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// GetUpdates fetches the pending inbound messages for the participant's
// chat, oldest first, with their send timestamps.
func (c *Client) GetUpdates(ctx context.Context, addr domain.Address) ([]domain.InboundMessage, error) {
	body, err := c.postWithRetry(ctx, c.methodURL(addr.Token, "getUpdates"), nil)
	if err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}

	var payload struct {
		OK     bool `json:"ok"`
		Result []struct {
			Message struct {
				Date int64  `json:"date"`
				Text string `json:"text"`
			} `json:"message"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	if !payload.OK {
		return nil, fmt.Errorf("get updates: api returned ok=false")
	}

	messages := make([]domain.InboundMessage, 0, len(payload.Result))
	for _, update := range payload.Result {
		messages = append(messages, domain.InboundMessage{
			Text:   update.Message.Text,
			SentAt: time.Unix(update.Message.Date, 0),
		})
	}
	return messages, nil
}

func (c *Client) methodURL(token, method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, token, method)
}

// postWithRetry POSTs the form and returns the response body, retrying
// transport errors and non-200 statuses up to the attempt bound.
func (c *Client) postWithRetry(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		body, err := c.post(ctx, endpoint, form)
		if err == nil {
			return body, nil
		}
		lastErr = err
		log.Printf("telegram: attempt %d/%d failed: %v", attempt, c.maxAttempts, err)
	}
	return nil, fmt.Errorf("after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	var reader io.Reader
	if form != nil {
		reader = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(snippet))
	}
	return io.ReadAll(resp.Body)
}
