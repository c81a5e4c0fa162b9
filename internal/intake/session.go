// Package intake drives the conversational publish flow of the showcase bot:
// a PDF upload followed by title, author and description prompts, then an
// optional thumbnail.
package intake

import (
	"sync"
	"time"
)

// Step is the position of a session in the intake flow.
type Step int

// Steps in order. StepDone is terminal; a done session is no longer stored.
const (
	StepAwaitingTitle Step = iota + 1
	StepAwaitingAuthor
	StepAwaitingDescription
	StepAwaitingThumbnail
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepAwaitingTitle:
		return "awaiting_title"
	case StepAwaitingAuthor:
		return "awaiting_author"
	case StepAwaitingDescription:
		return "awaiting_description"
	case StepAwaitingThumbnail:
		return "awaiting_thumbnail_or_done"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// Session is one user's in-progress publish flow.
type Session struct {
	UserID      string
	ChatID      int64
	DocumentKey string
	Title       string
	Author      string
	Description string
	Step        Step
	RecordID    string
	StartedAt   time.Time
}

// Store holds at most one session per user, in process memory only.
//
// Sessions are copied in and out, so two messages from the same user that
// race resolve as last write wins; the order of such interleavings is not
// specified.
type Store struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]Session), now: time.Now}
}

// Start opens a session at StepAwaitingTitle, replacing any existing one.
// replaced reports whether a previous session was discarded.
func (s *Store) Start(userID string, chatID int64, documentKey string) (sess Session, replaced bool) {
	sess = Session{
		UserID:      userID,
		ChatID:      chatID,
		DocumentKey: documentKey,
		Step:        StepAwaitingTitle,
		StartedAt:   s.now(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, replaced = s.sessions[userID]
	s.sessions[userID] = sess
	return sess, replaced
}

// Get returns a copy of the user's session.
func (s *Store) Get(userID string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

// Update saves sess only while the user still has a session for the same
// document, so a slow transition never resurrects a cancelled or replaced
// session. It reports whether sess was saved.
func (s *Store) Update(sess Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.sessions[sess.UserID]
	if !ok || cur.DocumentKey != sess.DocumentKey {
		return false
	}
	s.sessions[sess.UserID] = sess
	return true
}

// Clear removes the user's session and reports whether one existed.
// Clearing a missing session is a no-op.
func (s *Store) Clear(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[userID]
	delete(s.sessions, userID)
	return ok
}

// Len returns the number of open sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
