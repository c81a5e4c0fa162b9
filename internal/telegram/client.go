// Package telegram adapts the Telegram Bot API to the bot and intake packages.
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/tanya-writes/showcase-portal/internal/bot"
	"github.com/tanya-writes/showcase-portal/internal/intake"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// fileEndpoint is the Bot API file download URL: token, then file path.
const fileEndpoint = "https://api.telegram.org/file/bot%s/%s"

// API is the subset of tgbotapi.BotAPI used by Client.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
}

// Client sends messages and downloads files for one bot token.
type Client struct {
	api   API
	token string
	http  *http.Client
	// FileEndpoint overrides the download URL format in tests.
	FileEndpoint string
	// MaxDownloadBytes bounds a single download; 0 means 20 MiB.
	MaxDownloadBytes int64
}

// New connects to the Bot API with token. It calls getMe once to verify the
// token.
func New(token string) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	return NewWithAPI(api, token), nil
}

// NewWithAPI wraps an existing API implementation.
func NewWithAPI(api API, token string) *Client {
	return &Client{
		api:          api,
		token:        token,
		http:         &http.Client{Timeout: 30 * time.Second},
		FileEndpoint: fileEndpoint,
	}
}

// Send posts text to chatID. parseMode is a tgbotapi mode or empty for plain text.
func (c *Client) Send(ctx context.Context, chatID int64, text, parseMode string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseMode
	msg.DisableWebPagePreview = true
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("telegram: send to %d: %w", chatID, err)
	}
	return nil
}

// Download fetches the bytes of an uploaded file.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	f, err := c.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("telegram: get file %s: %w", fileID, err)
	}
	if f.FilePath == "" {
		return nil, fmt.Errorf("telegram: file %s has no path", fileID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(c.FileEndpoint, c.token, f.FilePath), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram: download %s: %w", fileID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram: download %s: status %d", fileID, resp.StatusCode)
	}

	limit := c.MaxDownloadBytes
	if limit <= 0 {
		limit = 20 << 20
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("telegram: read %s: %w", fileID, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("telegram: file %s exceeds %d bytes", fileID, limit)
	}
	return body, nil
}

// SetWebhook registers url with the secret token Telegram echoes back in the
// X-Telegram-Bot-Api-Secret-Token header.
func (c *Client) SetWebhook(url, secret string) error {
	params := tgbotapi.Params{
		"url":             url,
		"allowed_updates": `["message"]`,
	}
	if secret != "" {
		params["secret_token"] = secret
	}
	return c.call("setWebhook", params)
}

// DeleteWebhook removes the webhook registration.
func (c *Client) DeleteWebhook() error {
	return c.call("deleteWebhook", tgbotapi.Params{})
}

func (c *Client) call(method string, params tgbotapi.Params) error {
	resp, err := c.api.MakeRequest(method, params)
	if err != nil {
		return fmt.Errorf("telegram: %s: %w", method, err)
	}
	if !resp.Ok {
		return fmt.Errorf("telegram: %s: %s", method, resp.Description)
	}
	return nil
}

// ParseUpdate decodes a webhook body.
func ParseUpdate(body []byte) (tgbotapi.Update, error) {
	var u tgbotapi.Update
	if err := json.Unmarshal(body, &u); err != nil {
		return u, fmt.Errorf("telegram: decode update: %w", err)
	}
	return u, nil
}

// ErrNoMessage is returned for updates without a user message (edits,
// channel posts, callbacks).
var ErrNoMessage = errors.New("update carries no message")

// ToMessage converts an update to the bot's message model.
func ToMessage(u tgbotapi.Update) (bot.Message, error) {
	m := u.Message
	if m == nil || m.From == nil || m.Chat == nil {
		return bot.Message{}, ErrNoMessage
	}

	out := bot.Message{
		UserID: strconv.FormatInt(m.From.ID, 10),
		ChatID: m.Chat.ID,
		Text:   m.Text,
		Voice:  m.Voice != nil,
	}
	if d := m.Document; d != nil {
		out.Document = &intake.Attachment{
			FileID:   d.FileID,
			FileName: d.FileName,
			MimeType: d.MimeType,
			Size:     int64(d.FileSize),
		}
	}
	for _, p := range m.Photo {
		out.Photo = append(out.Photo, intake.Attachment{
			FileID:   p.FileID,
			FileName: p.FileUniqueID + ".jpg",
			MimeType: "image/jpeg",
			Size:     int64(p.FileSize),
		})
	}
	return out, nil
}
