package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tekhekspert/lead-capture/internal/config"
)

const parseModeHTML = "HTML"

// ErrNotConfigured is returned before any network call when the bot token or
// chat id is missing.
var ErrNotConfigured = errors.New("telegram: bot token or chat id not configured")

// APIError is a response from the Bot API that was not a success.
type APIError struct {
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("telegram api error: %d", e.StatusCode)
	}
	return fmt.Sprintf("telegram api error: %d - %s", e.StatusCode, e.Description)
}

// Bad chat ids come back as 400 with one of these descriptions.
var chatIDErrors = []string{
	"chat not found",
	"chat_id is empty",
	"chat_id_invalid",
	"peer_id_invalid",
	"group chat was upgraded",
}

// Misconfigured reports a response that means the credentials themselves are
// wrong (bad token, unknown or forbidden chat) rather than a one-off failure.
func (e *APIError) Misconfigured() bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	case http.StatusBadRequest:
		desc := strings.ToLower(e.Description)
		for _, s := range chatIDErrors {
			if strings.Contains(desc, s) {
				return true
			}
		}
	}
	return false
}

type Client struct {
	botToken   string
	chatID     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client from the start-up configuration. A nil httpClient
// falls back to http.DefaultClient; deadlines come from the caller's context.
func NewClient(cfg config.Telegram, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL := strings.TrimRight(cfg.APIURL, "/")
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	return &Client{
		botToken:   cfg.BotToken,
		chatID:     cfg.ChatID,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *Client) Configured() bool {
	return c.botToken != "" && c.chatID != ""
}

// SendMessage posts text to the configured chat. Exactly one request is made.
func (c *Client) SendMessage(ctx context.Context, text string) (int64, error) {
	if !c.Configured() {
		return 0, ErrNotConfigured
	}

	body, err := json.Marshal(SendMessageInput{
		ChatID:    c.chatID,
		Text:      text,
		ParseMode: parseModeHTML,
	})
	if err != nil {
		return 0, fmt.Errorf("telegram: marshal payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, c.redact(fmt.Errorf("telegram: build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, c.redact(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("telegram: read response: %w", err)
	}

	var result SendMessageResponse
	decodeErr := json.Unmarshal(respBody, &result)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &APIError{StatusCode: resp.StatusCode, Description: result.Description}
	}
	if decodeErr != nil {
		return 0, fmt.Errorf("telegram: malformed response: %w", decodeErr)
	}
	if !result.OK {
		code := result.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return 0, &APIError{StatusCode: code, Description: result.Description}
	}

	var messageID int64
	if result.Result != nil {
		messageID = result.Result.MessageID
	}
	return messageID, nil
}

// redact strips the bot token from URLs embedded in transport errors.
func (c *Client) redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) && c.botToken != "" {
		ue.URL = strings.ReplaceAll(ue.URL, c.botToken, "<redacted>")
	}
	return err
}
