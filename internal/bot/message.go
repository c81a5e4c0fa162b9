// Package bot routes chat messages from content managers to the intake engine
// and the bot commands, and renders every outcome as a reply.
package bot

import (
	"context"
	"iter"
	"strings"

	"github.com/tanya-writes/showcase-portal/internal/intake"
	"github.com/tanya-writes/showcase-portal/internal/models"
)

// Message is an inbound chat message reduced to what the bot acts on.
type Message struct {
	UserID string
	ChatID int64
	Text   string
	// Document is set for file uploads.
	Document *intake.Attachment
	// Photo holds the variants of an image, sorted ascending by resolution.
	Photo []intake.Attachment
	Voice bool
}

// Messenger delivers replies. parseMode is empty for plain text.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text, parseMode string) error
}

// Lister lists published showcase records, newest first.
type Lister interface {
	ListPublished(ctx context.Context, limit int) iter.Seq2[models.Showcase, error]
}

// parseCommand splits "/cmd@botname arg1 arg2" into its lower-cased keyword
// and arguments.
func parseCommand(text string) (cmd string, args []string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}
	cmd, _, _ = strings.Cut(fields[0], "@")
	return strings.ToLower(cmd), fields[1:], true
}
