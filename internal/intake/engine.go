package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tanya-writes/showcase-portal/internal/models"
	"github.com/tanya-writes/showcase-portal/internal/s3io"
	"github.com/tanya-writes/showcase-portal/internal/validate"
)

// Objects is the object store used by the engine.
type Objects interface {
	Upload(ctx context.Context, bucket, key string, body []byte, contentType string) (s3io.Ref, error)
	SignedReadURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	PublicURL(bucket, key string) string
}

// Catalog is the record store used by the engine.
type Catalog interface {
	CreateShowcase(ctx context.Context, in models.ShowcaseInput) (string, error)
	UpdateShowcase(ctx context.Context, id string, patch models.ShowcasePatch) error
}

// Downloader fetches attachment bytes from the messaging platform.
type Downloader interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// Attachment describes a document or photo sent by the user.
type Attachment struct {
	FileID   string
	FileName string
	MimeType string
	Size     int64
}

// Config holds the bucket layout and limits of the engine.
type Config struct {
	PrivateBucket        string
	PublicBucket         string
	SignedURLTTL         time.Duration
	PlaceholderThumbnail string
	// MaxDocumentBytes rejects larger documents before download; 0 disables.
	MaxDocumentBytes int64
}

// Engine is the intake state machine. It holds no per-user state itself;
// sessions live in the Store it was given.
type Engine struct {
	sessions *Store
	objects  Objects
	catalog  Catalog
	files    Downloader
	keys     *s3io.KeyClock
	cfg      Config
}

// NewEngine wires an engine over its collaborators.
func NewEngine(sessions *Store, objects Objects, catalog Catalog, files Downloader, cfg Config) *Engine {
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = 24 * time.Hour
	}
	return &Engine{
		sessions: sessions,
		objects:  objects,
		catalog:  catalog,
		files:    files,
		keys:     s3io.NewKeyClock(),
		cfg:      cfg,
	}
}

// finishTokens end a session at the thumbnail step without a thumbnail.
var finishTokens = map[string]bool{"/done": true, "done": true, "/skip": true, "skip": true}

// IsFinishToken reports whether text completes a session without a thumbnail.
func IsFinishToken(text string) bool {
	return finishTokens[strings.ToLower(strings.TrimSpace(text))]
}

// BeginDocument stores a PDF in the private bucket and opens a fresh session
// for the user, replacing any session already open. Nothing is downloaded or
// stored for a non-PDF.
func (e *Engine) BeginDocument(ctx context.Context, userID string, chatID int64, doc Attachment) (Session, bool, error) {
	if err := validate.DocumentPDF(doc.MimeType); err != nil {
		return Session{}, false, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, doc.MimeType)
	}
	if e.cfg.MaxDocumentBytes > 0 && doc.Size > e.cfg.MaxDocumentBytes {
		return Session{}, false, fmt.Errorf("%w: %d bytes", ErrDocumentTooLarge, doc.Size)
	}

	body, err := e.files.Download(ctx, doc.FileID)
	if err != nil {
		return Session{}, false, fmt.Errorf("%w: %w", ErrDownload, err)
	}
	if err := validate.PDFContent(body); err != nil {
		return Session{}, false, fmt.Errorf("%w: %v", ErrUnsupportedMediaType, err)
	}

	key := e.keys.DocumentKey(doc.FileName)
	if _, err := e.objects.Upload(ctx, e.cfg.PrivateBucket, key, body, s3io.ContentTypePDF); err != nil {
		return Session{}, false, err
	}

	sess, replaced := e.sessions.Start(userID, chatID, key)
	return sess, replaced, nil
}

// Advance applies a text answer to the user's session. On error the
// returned session is the unchanged current one, if any.
func (e *Engine) Advance(ctx context.Context, userID, text string) (Session, error) {
	sess, ok := e.sessions.Get(userID)
	if !ok {
		return Session{}, ErrNoActiveSession
	}
	switch sess.Step {
	case StepAwaitingTitle:
		return e.onTitle(sess, text)
	case StepAwaitingAuthor:
		return e.onAuthor(sess, text)
	case StepAwaitingDescription:
		return e.onDescription(ctx, sess, text)
	case StepAwaitingThumbnail:
		return e.onThumbnailText(sess, text)
	}
	return sess, fmt.Errorf("session in unexpected step %s", sess.Step)
}

func (e *Engine) onTitle(sess Session, text string) (Session, error) {
	title, err := validate.Answer(text)
	if err != nil {
		return sess, ErrEmptyAnswer
	}
	sess.Title = title
	sess.Step = StepAwaitingAuthor
	return e.save(sess)
}

func (e *Engine) onAuthor(sess Session, text string) (Session, error) {
	author, err := validate.Answer(text)
	if err != nil {
		return sess, ErrEmptyAnswer
	}
	sess.Author = author
	sess.Step = StepAwaitingDescription
	return e.save(sess)
}

// onDescription publishes the record. The session only advances once the
// record exists; on failure it stays at StepAwaitingDescription.
func (e *Engine) onDescription(ctx context.Context, sess Session, text string) (Session, error) {
	desc, err := validate.Answer(text)
	if err != nil {
		return sess, ErrEmptyAnswer
	}

	pdfURL, err := e.objects.SignedReadURL(ctx, e.cfg.PrivateBucket, sess.DocumentKey, e.cfg.SignedURLTTL)
	if err != nil {
		return sess, fmt.Errorf("%w: sign document: %w", ErrIntakeWrite, err)
	}
	id, err := e.catalog.CreateShowcase(ctx, models.ShowcaseInput{
		Title:        sess.Title,
		Author:       sess.Author,
		Description:  desc,
		DocumentKey:  sess.DocumentKey,
		PDFURL:       pdfURL,
		ThumbnailURL: e.cfg.PlaceholderThumbnail,
	})
	if err != nil {
		return sess, fmt.Errorf("%w: create record: %w", ErrIntakeWrite, err)
	}

	sess.Description = desc
	sess.RecordID = id
	sess.Step = StepAwaitingThumbnail
	if !e.sessions.Update(sess) {
		sess.Step = StepDone
		return sess, fmt.Errorf("%w: record %s", ErrSessionClosed, id)
	}
	return sess, nil
}

func (e *Engine) onThumbnailText(sess Session, text string) (Session, error) {
	if !IsFinishToken(text) {
		return sess, ErrAwaitingThumbnail
	}
	e.sessions.Clear(sess.UserID)
	sess.Step = StepDone
	return sess, nil
}

// AttachThumbnail uploads a photo as the thumbnail of the session's record and
// completes the session. Without a session at the thumbnail step nothing is
// downloaded or written.
func (e *Engine) AttachThumbnail(ctx context.Context, userID string, photo Attachment) (Session, error) {
	sess, ok := e.sessions.Get(userID)
	if !ok {
		return Session{}, ErrNoActiveSession
	}
	if sess.Step != StepAwaitingThumbnail {
		return sess, ErrWrongStep
	}

	body, err := e.files.Download(ctx, photo.FileID)
	if err != nil {
		return sess, fmt.Errorf("%w: %w", ErrDownload, err)
	}
	key := s3io.ThumbnailKey(sess.DocumentKey)
	if _, err := e.objects.Upload(ctx, e.cfg.PublicBucket, key, body, s3io.ContentTypeJPEG); err != nil {
		return sess, fmt.Errorf("%w: %w", ErrIntakeWrite, err)
	}
	thumbURL := e.objects.PublicURL(e.cfg.PublicBucket, key)
	if err := e.catalog.UpdateShowcase(ctx, sess.RecordID, models.ShowcasePatch{ThumbnailURL: &thumbURL}); err != nil {
		return sess, fmt.Errorf("%w: %w", ErrIntakeWrite, err)
	}

	e.sessions.Clear(userID)
	sess.Step = StepDone
	return sess, nil
}

// Cancel drops the user's session from any step. It reports false when there
// was nothing to cancel.
func (e *Engine) Cancel(userID string) bool {
	return e.sessions.Clear(userID)
}

// Session returns the user's open session.
func (e *Engine) Session(userID string) (Session, bool) {
	return e.sessions.Get(userID)
}

// OpenSessions returns the number of sessions in progress.
func (e *Engine) OpenSessions() int {
	return e.sessions.Len()
}

// save stores a transition. A session cancelled or replaced meanwhile wins.
func (e *Engine) save(sess Session) (Session, error) {
	if !e.sessions.Update(sess) {
		return sess, ErrNoActiveSession
	}
	return sess, nil
}
