package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/tanya-writes/showcase-portal/internal/authz"
)

// listLimit caps the number of records shown by /list.
const listLimit = 10

func (d *Dispatcher) cmdStart(ctx context.Context, m Message, _ []string) {
	r := newReply().bold("🎨 Tanya's Showcase Bot").line().line()
	r.line("Welcome! This bot publishes student work to the showcase.").line()
	r.bold("How to add content:").line()
	r.line("1. Send a PDF file")
	r.line("2. Answer with the title, author and description")
	r.line("3. Optionally send a thumbnail photo, or /done to skip")
	r.line().text("Use /help to see every command.")
	d.send(ctx, m.ChatID, r)
}

func (d *Dispatcher) cmdHelp(ctx context.Context, m Message, _ []string) {
	r := newReply().bold("📚 Help").line().line()
	r.line("📝 Send a PDF to start a new showcase item")
	r.line("📋 /list: latest published works")
	r.line("🔍 /status: bot status and your current draft")
	r.line("👤 /whoami: your user id and role")
	r.line("🗑 /cancel: discard your current draft")
	r.line("➕ /adduser <id> <role>: grant access (admins only)")
	r.line().text("PDFs stay private and are shared through signed links. Thumbnails are public.")
	d.send(ctx, m.ChatID, r)
}

func (d *Dispatcher) cmdStatus(ctx context.Context, m Message, _ []string) {
	r := newReply().bold("🤖 Bot Status").line().line()
	r.line("✅ Bot is running")
	if d.info.Version != "" {
		r.line("🏷 Version: " + d.info.Version)
	}
	r.line().bold("📊 Storage Buckets:").line()
	r.text("• PDFs: ").code(d.info.PDFBucket).line()
	r.text("• Thumbnails: ").code(d.info.ThumbnailBucket).line()
	r.line().line(fmt.Sprintf("👤 Authorized users: %d", d.users.Len()))
	if d.users.HasAtLeast(m.UserID, authz.RoleAdmin) {
		for _, id := range d.users.Users() {
			role, _ := d.users.RoleOf(id)
			r.text("• ").code(id).text(" " + role.String()).line()
		}
	}
	r.line(fmt.Sprintf("📝 Drafts in progress: %d", d.engine.OpenSessions()))

	if sess, ok := d.engine.Session(m.UserID); ok {
		r.line().text("Your draft: ").code(sess.DocumentKey).line()
		r.text("Waiting for: ").text(sess.Step.String())
	} else {
		r.line().text("You have no draft in progress.")
	}
	d.send(ctx, m.ChatID, r)
}

func (d *Dispatcher) cmdList(ctx context.Context, m Message, _ []string) {
	r := newReply().bold("📚 Published Showcase Items:").line().line()
	n := 0
	for rec, err := range d.catalog.ListPublished(ctx, listLimit) {
		if err != nil {
			log.Printf("bot: list: %v", err)
			d.send(ctx, m.ChatID, newReply("❌ Error retrieving showcase items."))
			return
		}
		n++
		r.text("📖 ").bold(rec.Title).line()
		r.line("👤 Author: " + rec.Author)
		r.line("📅 " + dateOf(rec.CreatedAt)).line()
	}
	if n == 0 {
		d.send(ctx, m.ChatID, newReply("📚 No showcase items found."))
		return
	}
	d.send(ctx, m.ChatID, r)
}

func (d *Dispatcher) cmdWhoAmI(ctx context.Context, m Message, _ []string) {
	role, _ := d.users.RoleOf(m.UserID)
	r := newReply("👤 Your id: ").code(m.UserID).line()
	r.text("Role: ").text(role.String())
	d.send(ctx, m.ChatID, r)
}

func (d *Dispatcher) cmdCancel(ctx context.Context, m Message, _ []string) {
	if d.engine.Cancel(m.UserID) {
		d.send(ctx, m.ChatID, newReply("🗑 Draft cancelled. Send a new PDF whenever you're ready."))
		return
	}
	d.send(ctx, m.ChatID, newReply("Nothing to cancel."))
}

func (d *Dispatcher) cmdAddUser(ctx context.Context, m Message, args []string) {
	if len(args) != 2 {
		d.send(ctx, m.ChatID, newReply("Usage: /adduser <user id> <content_manager|admin>"))
		return
	}
	target := args[0]
	if _, err := strconv.ParseInt(target, 10, 64); err != nil {
		d.send(ctx, m.ChatID, newReply("❌ User ids are numeric. Ask the user to send /whoami."))
		return
	}

	// An unparseable role stays RoleNone and is rejected by AddUser after
	// the permission check.
	role, _ := authz.ParseRole(args[1])
	err := d.users.AddUser(m.UserID, target, role)
	switch {
	case errors.Is(err, authz.ErrPermissionDenied):
		d.send(ctx, m.ChatID, newReply("❌ Only admins can add users."))
		return
	case errors.Is(err, authz.ErrInvalidRole):
		d.send(ctx, m.ChatID, newReply("❌ Unknown role. Use content_manager or admin."))
		return
	case err != nil:
		log.Printf("bot: adduser: %v", err)
		d.send(ctx, m.ChatID, newReply("❌ Something went wrong. Please try again."))
		return
	}

	log.Printf("bot: %s added %s as %s", m.UserID, target, role)
	r := newReply("✅ User ").code(target).text(" added as ").text(role.String()).line(".")
	r.text("This lasts until the bot restarts. Add them to AUTHORIZED_USERS to make it permanent.")
	d.send(ctx, m.ChatID, r)
}

// dateOf returns the date part of a stored timestamp.
func dateOf(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
