package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
	"sort"
	"strings"
	"time"
)

// Document is a corpus entry as read for a build.
// It is immutable for the duration of a build.
type Document struct {
	// Slug is the unique identifier, a forward-slash path without extension.
	Slug string

	// Title is the human-readable title.
	Title string

	// Tags is the deduplicated tag set.
	Tags []string

	// Content is the raw body text, markup included.
	Content string

	// Links holds explicit outbound links as target slugs.
	Links []string

	// Description is an optional summary from front matter.
	Description string

	// ModifiedAt is the last modification time.
	ModifiedAt time.Time

	// FilePath is the location the document was read from.
	FilePath string
}

// Fingerprint returns the content fingerprint of the document.
func (d Document) Fingerprint() string {
	return Fingerprint(d.Title, d.Content, d.Tags)
}

// Fingerprint is a deterministic SHA-256 of title, content and sorted tags.
// Every field is length-prefixed. Two inputs with the same fingerprint always
// produce the same embedding.
func Fingerprint(title, content string, tags []string) string {
	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)

	h := sha256.New()
	writeField(h, title)
	writeField(h, content)
	_ = binary.Write(h, binary.BigEndian, uint64(len(sorted)))
	for _, tag := range sorted {
		writeField(h, tag)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeField(w io.Writer, field string) {
	_ = binary.Write(w, binary.BigEndian, uint64(len(field)))
	_, _ = io.WriteString(w, field)
}

// NormalizeTags trims, lowercases and deduplicates tags, preserving first-seen order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tag, "#")))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
