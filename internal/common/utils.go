package common

import (
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds the JSON logger every action writes to. Quiet keeps only
// errors.
func NewLogger(w io.Writer, quiet bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if quiet {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// ShortHash is the first 12 hex digits of ContentHash, enough to tell
// submissions apart in logs.
func ShortHash(data []byte) string {
	return ContentHash(data)[:12]
}

// HasPDFExtension reports whether a filename ends in .pdf, ignoring case and
// surrounding whitespace.
func HasPDFExtension(name string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(name)), ".pdf")
}
