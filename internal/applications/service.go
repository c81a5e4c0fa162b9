// Package applications accepts enrolment applications from the website form.
package applications

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/tanya-writes/showcase-portal/internal/api"
	"github.com/tanya-writes/showcase-portal/internal/captcha"
	"github.com/tanya-writes/showcase-portal/internal/models"
	"github.com/tanya-writes/showcase-portal/internal/validate"

	"github.com/google/uuid"
)

var (
	// ErrInvalid is returned for a form that fails validation.
	ErrInvalid = errors.New("invalid application")
	// ErrCaptcha is returned when the CAPTCHA token is missing or not accepted.
	ErrCaptcha = errors.New("captcha failed")
)

// Store persists applications.
type Store interface {
	PutApplication(ctx context.Context, a models.Application) error
}

// Verifier checks a CAPTCHA token.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// Notifier delivers a text message to a chat.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text, parseMode string) error
}

// Service validates, stores and announces applications.
type Service struct {
	store   Store
	captcha Verifier
	// notify may be nil; notifications are then skipped.
	notify    Notifier
	adminChat int64
	now       func() time.Time
}

// NewService wires a service. notify may be nil.
func NewService(store Store, verifier Verifier, notify Notifier, adminChat int64) *Service {
	return &Service{store: store, captcha: verifier, notify: notify, adminChat: adminChat, now: time.Now}
}

// Submit stores the application and returns its id. The admin notification
// is best effort: its failure is logged and never fails the submission.
func (s *Service) Submit(ctx context.Context, req api.ApplicationRequest, clientIP string) (string, error) {
	if err := validateForm(req); err != nil {
		return "", err
	}
	if err := s.captcha.Verify(ctx, req.CaptchaToken, clientIP); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCaptcha, err)
	}

	app := models.Application{
		ID:              uuid.NewString(),
		StudentName:     strings.TrimSpace(req.Name),
		Grade:           strings.TrimSpace(req.Grade),
		PhoneNumber:     strings.TrimSpace(req.Phone),
		Program:         strings.TrimSpace(req.Program),
		Comments:        strings.TrimSpace(req.Comments),
		IPAddress:       clientIP,
		CaptchaVerified: true,
		Status:          models.StatusNew,
	}
	if err := s.store.PutApplication(ctx, app); err != nil {
		return "", err
	}

	s.announce(ctx, app)
	return app.ID, nil
}

func validateForm(req api.ApplicationRequest) error {
	validators := []func() error{
		func() error { return validate.Required("name", req.Name) },
		func() error { return validate.Required("grade", req.Grade) },
		func() error { return validate.Required("phone", req.Phone) },
		func() error { return validate.Required("program", req.Program) },
		func() error { return validate.Phone(req.Phone) },
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	if len(req.Comments) > 2000 {
		return fmt.Errorf("%w: comments too long", ErrInvalid)
	}
	return nil
}

func (s *Service) announce(ctx context.Context, a models.Application) {
	if s.notify == nil || s.adminChat == 0 {
		log.Printf("applications: notifier not configured, skipping notification for %s", a.ID)
		return
	}
	comments := a.Comments
	if comments == "" {
		comments = "None"
	}
	text := strings.Join([]string{
		"📋 New Application Received!",
		"",
		"👤 Student: " + a.StudentName,
		"📚 Grade: " + a.Grade,
		"📞 Phone: " + a.PhoneNumber,
		"🎓 Program: " + a.Program,
		"💬 Comments: " + comments,
		"",
		"📅 Submitted: " + s.now().UTC().Format("2006-01-02 15:04 MST"),
		"🆔 Application ID: " + a.ID,
	}, "\n")
	if err := s.notify.Send(ctx, s.adminChat, text, ""); err != nil {
		log.Printf("applications: notify %s: %v", a.ID, err)
	}
}

// Status maps a Submit error to an HTTP status and the text shown on the website.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest, "Missing required fields"
	case errors.Is(err, captcha.ErrMissingToken):
		return http.StatusBadRequest, "CAPTCHA verification is required."
	case errors.Is(err, ErrCaptcha):
		return http.StatusBadRequest, "CAPTCHA verification failed. Please try again."
	}
	return http.StatusInternalServerError, "Failed to submit application. Please try again."
}
