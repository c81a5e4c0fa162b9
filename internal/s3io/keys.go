package s3io

import (
	"fmt"
	"path"
	"strings"
	"sync/atomic"
	"time"
)

// Common object key patterns and content types.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeJPEG = "image/jpeg"

	defaultDocumentName = "document.pdf"
	thumbnailPrefix     = "thumbnails/"
)

// KeyClock mints document keys with a strictly increasing millisecond prefix.
// The prefix only avoids collisions; it is not a secret.
type KeyClock struct {
	last atomic.Int64
	now  func() time.Time
}

// NewKeyClock returns a KeyClock driven by the wall clock.
func NewKeyClock() *KeyClock {
	return &KeyClock{now: time.Now}
}

// DocumentKey returns "<unix-millis>-<sanitized filename>". The name always
// ends in .pdf so the key can be served by file name.
func (c *KeyClock) DocumentKey(filename string) string {
	name := SanitizeFilename(filename)
	if !strings.EqualFold(path.Ext(name), ".pdf") {
		name += ".pdf"
	}
	for {
		prev := c.last.Load()
		ms := c.now().UnixMilli()
		if ms <= prev {
			ms = prev + 1
		}
		if c.last.CompareAndSwap(prev, ms) {
			return fmt.Sprintf("%d-%s", ms, name)
		}
	}
}

// ThumbnailKey derives the public thumbnail key of a document key.
func ThumbnailKey(documentKey string) string {
	base := path.Base(documentKey)
	return thumbnailPrefix + strings.TrimSuffix(base, path.Ext(base)) + ".jpg"
}

// SanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] so keys stay URL and header safe.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(path.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "" || name == "." || name == "/" {
		return defaultDocumentName
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		default:
			b.WriteRune('_')
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return defaultDocumentName
	}
	return out
}
