// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// Bucket and table names used when the environment does not override them.
const (
	DefaultPDFBucket       = "tanya-showcase-pdfs-private"
	DefaultThumbnailBucket = "tanya-showcase-thumbnails-public"
	DefaultShowcaseTable   = "showcase"
	DefaultShowcaseIndex   = "status-created_at-index"
	DefaultAppsTable       = "applications"
	DefaultPlaceholder     = "/images/showcase-placeholder.jpg"
)

// Env holds the configuration values shared by every function.
type Env struct {
	Region            string
	PDFBucket         string
	ThumbnailBucket   string
	ShowcaseTable     string
	ShowcaseIndex     string
	ApplicationsTable string
	SignedURLTTL      time.Duration
	PlaceholderThumb  string
	Environment       string
	Version           string
}

// BotEnv holds the configuration of the Telegram intake bot.
type BotEnv struct {
	Env
	Token            string
	TokenSecret      string
	WebhookSecret    string
	AuthorizedUsers  string
	MaxDocumentBytes int64
}

// ApplyEnv holds the configuration of the application submission function.
type ApplyEnv struct {
	Env
	RecaptchaSecret string
	MinCaptchaScore float64
	AdminChatID     int64
	Token           string
	TokenSecret     string
}

// MustLoad reads the environment variables and returns an Env struct.
func MustLoad() Env {
	ttlSec, err := strconv.Atoi(get("SIGNED_URL_TTL_SECONDS", "86400"))
	if err != nil || ttlSec <= 0 {
		panic(fmt.Errorf("invalid SIGNED_URL_TTL_SECONDS"))
	}
	return Env{
		Region:            get("AWS_REGION", "us-east-1"),
		PDFBucket:         get("PDF_BUCKET", DefaultPDFBucket),
		ThumbnailBucket:   get("THUMBNAIL_BUCKET", DefaultThumbnailBucket),
		ShowcaseTable:     get("SHOWCASE_TABLE", DefaultShowcaseTable),
		ShowcaseIndex:     get("SHOWCASE_INDEX", DefaultShowcaseIndex),
		ApplicationsTable: get("APPLICATIONS_TABLE", DefaultAppsTable),
		SignedURLTTL:      time.Duration(ttlSec) * time.Second,
		PlaceholderThumb:  get("PLACEHOLDER_THUMBNAIL_URL", DefaultPlaceholder),
		Environment:       get("APP_ENV", "development"),
		Version:           get("APP_VERSION", "1.0.0"),
	}
}

// MustLoadBot reads the bot configuration. Either TELEGRAM_BOT_TOKEN or
// TELEGRAM_BOT_TOKEN_SECRET must be set, and at least one authorized user.
func MustLoadBot() BotEnv {
	maxBytes, err := strconv.ParseInt(get("MAX_DOCUMENT_BYTES", "20971520"), 10, 64)
	if err != nil || maxBytes <= 0 {
		panic(fmt.Errorf("invalid MAX_DOCUMENT_BYTES"))
	}
	e := BotEnv{
		Env:              MustLoad(),
		Token:            get("TELEGRAM_BOT_TOKEN", ""),
		TokenSecret:      get("TELEGRAM_BOT_TOKEN_SECRET", ""),
		WebhookSecret:    get("TELEGRAM_WEBHOOK_SECRET", ""),
		AuthorizedUsers:  must("AUTHORIZED_USERS"),
		MaxDocumentBytes: maxBytes,
	}
	if e.Token == "" && e.TokenSecret == "" {
		panic(fmt.Errorf("missing env TELEGRAM_BOT_TOKEN or TELEGRAM_BOT_TOKEN_SECRET"))
	}
	return e
}

// MustLoadApply reads the application submission configuration. The Telegram
// token is optional; without it notifications are skipped.
func MustLoadApply() ApplyEnv {
	var chatID int64
	if v := get("TELEGRAM_ADMIN_CHAT_ID", ""); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(fmt.Errorf("invalid TELEGRAM_ADMIN_CHAT_ID: %w", err))
		}
		chatID = id
	}
	score, err := strconv.ParseFloat(get("RECAPTCHA_MIN_SCORE", "0.5"), 64)
	if err != nil {
		panic(fmt.Errorf("invalid RECAPTCHA_MIN_SCORE: %w", err))
	}
	return ApplyEnv{
		Env:             MustLoad(),
		RecaptchaSecret: get("RECAPTCHA_SECRET_KEY", ""),
		MinCaptchaScore: score,
		AdminChatID:     chatID,
		Token:           get("TELEGRAM_BOT_TOKEN", ""),
		TokenSecret:     get("TELEGRAM_BOT_TOKEN_SECRET", ""),
	}
}

// get returns the value of the environment variable k or def if not set.
func get(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// must returns the value of the environment variable k or panics if not set.
func must(k string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		panic(fmt.Errorf("missing env %s", k))
	}
	return v
}
