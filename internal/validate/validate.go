// Package validate provides functions to validate uploads, answers and form input.
package validate

import (
	"bytes"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	phoneRx    = regexp.MustCompile(`^\+?[0-9 ()\-]{7,20}$`)
	pdfNameRx  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ._\-]{0,254}$`)
	pdfMagic   = []byte("%PDF-")
	maxFormLen = 500
)

// DocumentPDF checks that the declared MIME type names a PDF.
func DocumentPDF(mimeType string) error {
	if !strings.Contains(strings.ToLower(mimeType), "pdf") {
		return errors.New("only PDF documents allowed")
	}
	return nil
}

// PDFContent checks that body starts with the PDF header.
func PDFContent(body []byte) error {
	if !bytes.HasPrefix(body, pdfMagic) {
		return errors.New("content is not a PDF")
	}
	return nil
}

// PDFFilename checks that fn is a bare .pdf file name (no path components).
func PDFFilename(fn string) error {
	if strings.ToLower(filepath.Ext(fn)) != ".pdf" {
		return errors.New("only .pdf files allowed")
	}
	if strings.Contains(fn, "..") || !pdfNameRx.MatchString(fn) {
		return errors.New("invalid file name")
	}
	return nil
}

// Answer trims an intake answer and rejects blank input.
func Answer(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("answer required")
	}
	return s, nil
}

// Required checks that the named field is non-empty after trimming whitespace.
func Required(name, v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New(name + " required")
	}
	if len(v) > maxFormLen {
		return errors.New(name + " too long")
	}
	return nil
}

// Phone checks the loose shape of a phone number.
func Phone(p string) error {
	if !phoneRx.MatchString(strings.TrimSpace(p)) {
		return errors.New("invalid phone number")
	}
	return nil
}
