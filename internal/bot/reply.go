package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// reply is built twice in lockstep: as MarkdownV2 and as plain text, so a
// failed rich send can be retried without formatting.
type reply struct {
	rich  strings.Builder
	plain strings.Builder
}

// escape makes s safe to interpolate into a MarkdownV2 message.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func newReply(parts ...string) *reply {
	r := &reply{}
	for _, p := range parts {
		r.text(p)
	}
	return r
}

func (r *reply) text(s string) *reply {
	r.rich.WriteString(escape(s))
	r.plain.WriteString(s)
	return r
}

func (r *reply) bold(s string) *reply {
	r.rich.WriteString("*" + escape(s) + "*")
	r.plain.WriteString(s)
	return r
}

func (r *reply) code(s string) *reply {
	r.rich.WriteString("`" + strings.NewReplacer(`\`, `\\`, "`", "\\`").Replace(s) + "`")
	r.plain.WriteString(s)
	return r
}

func (r *reply) line(parts ...string) *reply {
	for _, p := range parts {
		r.text(p)
	}
	r.rich.WriteByte('\n')
	r.plain.WriteByte('\n')
	return r
}
