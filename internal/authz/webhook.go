package authz

import (
	"crypto/subtle"

	"github.com/tanya-writes/showcase-portal/internal/httpx"
)

// WebhookSecretHeader is the header Telegram echoes back with the secret
// token registered through setWebhook.
const WebhookSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookSecretOK reports whether the request headers carry the configured
// webhook secret. An empty secret disables the check (local development).
func WebhookSecretOK(headers map[string]string, secret string) bool {
	if secret == "" {
		return true
	}
	got := httpx.Header(headers, WebhookSecretHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(secret)) == 1
}
