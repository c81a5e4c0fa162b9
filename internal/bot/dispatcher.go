package bot

import (
	"context"
	"errors"
	"log"

	"github.com/tanya-writes/showcase-portal/internal/authz"
	"github.com/tanya-writes/showcase-portal/internal/intake"
	"github.com/tanya-writes/showcase-portal/internal/s3io"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Info is the deployment detail shown by /status.
type Info struct {
	PDFBucket       string
	ThumbnailBucket string
	Version         string
}

// Dispatcher is the single entry point for inbound messages.
type Dispatcher struct {
	users   *authz.Registry
	engine  *intake.Engine
	catalog Lister
	out     Messenger
	info    Info

	commands map[string]func(context.Context, Message, []string)
}

// NewDispatcher wires a dispatcher.
func NewDispatcher(users *authz.Registry, engine *intake.Engine, catalog Lister, out Messenger, info Info) *Dispatcher {
	d := &Dispatcher{users: users, engine: engine, catalog: catalog, out: out, info: info}
	d.commands = map[string]func(context.Context, Message, []string){
		"/start":   d.cmdStart,
		"/help":    d.cmdHelp,
		"/status":  d.cmdStatus,
		"/list":    d.cmdList,
		"/whoami":  d.cmdWhoAmI,
		"/cancel":  d.cmdCancel,
		"/adduser": d.cmdAddUser,
	}
	return d
}

// Handle processes one message. Every outcome, including failures, becomes a
// reply; nothing is returned to the caller.
func (d *Dispatcher) Handle(ctx context.Context, m Message) {
	if !d.users.IsAuthorized(m.UserID) {
		log.Printf("bot: denied user %s", m.UserID)
		d.send(ctx, m.ChatID, newReply("❌ You are not authorized to use this bot."))
		return
	}

	if cmd, args, ok := parseCommand(m.Text); ok {
		if h, found := d.commands[cmd]; found {
			h(ctx, m, args)
			return
		}
	}

	switch {
	case m.Document != nil:
		d.onDocument(ctx, m)
	case len(m.Photo) > 0:
		d.onPhoto(ctx, m)
	case m.Text != "":
		d.onText(ctx, m)
	case m.Voice:
		d.send(ctx, m.ChatID, newReply("🎤 Voice messages aren't supported yet. Please type your answer instead."))
	default:
		d.send(ctx, m.ChatID, hintReply())
	}
}

func (d *Dispatcher) onDocument(ctx context.Context, m Message) {
	sess, replaced, err := d.engine.BeginDocument(ctx, m.UserID, m.ChatID, *m.Document)
	if err != nil {
		log.Printf("bot: document from %s: %v", m.UserID, err)
		d.send(ctx, m.ChatID, errorReply(err, intake.Session{}))
		return
	}

	r := newReply()
	if replaced {
		r.line("♻️ Your previous unfinished draft was discarded.")
	}
	r.text("✅ PDF uploaded: ").code(sess.DocumentKey).line().line()
	r.text(prompt(sess.Step))
	d.send(ctx, m.ChatID, r)
}

func (d *Dispatcher) onPhoto(ctx context.Context, m Message) {
	largest := m.Photo[len(m.Photo)-1]
	sess, err := d.engine.AttachThumbnail(ctx, m.UserID, largest)
	if err != nil {
		log.Printf("bot: photo from %s: %v", m.UserID, err)
		d.send(ctx, m.ChatID, errorReply(err, sess))
		return
	}
	d.send(ctx, m.ChatID, newReply("🖼 Thumbnail added. ").bold(sess.Title).text(" is live on the showcase!"))
}

func (d *Dispatcher) onText(ctx context.Context, m Message) {
	sess, err := d.engine.Advance(ctx, m.UserID, m.Text)
	if err != nil {
		log.Printf("bot: text from %s: %v", m.UserID, err)
		d.send(ctx, m.ChatID, errorReply(err, sess))
		return
	}

	switch sess.Step {
	case intake.StepAwaitingThumbnail:
		d.send(ctx, m.ChatID, newReply("✅ Published ").bold(sess.Title).text(" by ").text(sess.Author).line(".").line().text(prompt(sess.Step)))
	case intake.StepDone:
		d.send(ctx, m.ChatID, newReply("🎉 All done! ").bold(sess.Title).text(" is live on the showcase."))
	default:
		d.send(ctx, m.ChatID, newReply(prompt(sess.Step)))
	}
}

// send delivers r as MarkdownV2, retrying once as plain text. A reply that
// cannot be delivered either way is dropped.
func (d *Dispatcher) send(ctx context.Context, chatID int64, r *reply) {
	err := d.out.Send(ctx, chatID, r.rich.String(), tgbotapi.ModeMarkdownV2)
	if err == nil {
		return
	}
	log.Printf("bot: rich send to %d failed, retrying as plain text: %v", chatID, err)
	if err := d.out.Send(ctx, chatID, r.plain.String(), ""); err != nil {
		log.Printf("bot: send to %d failed, reply dropped: %v", chatID, err)
	}
}

func prompt(step intake.Step) string {
	switch step {
	case intake.StepAwaitingTitle:
		return "📝 What is the title of the work?"
	case intake.StepAwaitingAuthor:
		return "👤 Who is the author?"
	case intake.StepAwaitingDescription:
		return "📄 Please send a short description."
	case intake.StepAwaitingThumbnail:
		return "🖼 Send a photo to use as the thumbnail, or /done to finish without one."
	}
	return ""
}

func hintReply() *reply {
	return newReply("💡 Send a PDF file to add new student work, or use /help for commands.")
}

// errorReply maps an intake failure to what the user should do next. sess is
// the session as it stood after the failure, if any.
func errorReply(err error, sess intake.Session) *reply {
	switch {
	case errors.Is(err, intake.ErrSessionClosed):
		return newReply("✅ Published ").bold(sess.Title).text(" by ").text(sess.Author).line(".").
			text("Your draft was closed meanwhile, so it keeps the placeholder thumbnail.")
	case errors.Is(err, intake.ErrUnsupportedMediaType):
		return newReply("❌ Please send a PDF file.")
	case errors.Is(err, intake.ErrDocumentTooLarge):
		return newReply("❌ That file is too large. Bots can only download files up to 20 MB.")
	case errors.Is(err, intake.ErrDownload):
		return newReply("❌ I couldn't download that file. Please send it again.")
	case errors.Is(err, intake.ErrIntakeWrite):
		if sess.Step == intake.StepAwaitingThumbnail {
			return newReply("❌ Couldn't save the thumbnail. Send the photo again, or /done to finish without one.")
		}
		return newReply("❌ Couldn't publish the showcase item. Please send the description again.")
	case errors.Is(err, s3io.ErrStorageWrite):
		return newReply("❌ Error uploading the PDF. Please try again.")
	case errors.Is(err, intake.ErrNoActiveSession):
		return hintReply()
	case errors.Is(err, intake.ErrWrongStep):
		return newReply("📝 Let's finish the details first. ").text(prompt(sess.Step))
	case errors.Is(err, intake.ErrEmptyAnswer):
		return newReply("✏️ That looks empty. ").text(prompt(sess.Step))
	case errors.Is(err, intake.ErrAwaitingThumbnail):
		return newReply(prompt(intake.StepAwaitingThumbnail))
	}
	return newReply("❌ Something went wrong. Please try again.")
}
