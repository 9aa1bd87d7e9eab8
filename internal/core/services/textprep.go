package services

import (
	"regexp"
	"strings"
)

var (
	fencedCodeRe = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`([^`]*)`")
	imageRe      = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.*?)\*`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
)

// CleanMarkdown removes Markdown syntax, keeping readable text.
func CleanMarkdown(content string) string {
	content = fencedCodeRe.ReplaceAllString(content, "")
	content = inlineCodeRe.ReplaceAllString(content, "$1")
	content = imageRe.ReplaceAllString(content, "")
	content = linkRe.ReplaceAllString(content, "$1")
	content = headingRe.ReplaceAllString(content, "")
	content = boldRe.ReplaceAllString(content, "$1")
	content = italicRe.ReplaceAllString(content, "$1")
	content = blankRunRe.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// PrepareText builds the embedding input from title, body and tags.
func PrepareText(title, content string, tags []string) string {
	var tagText string
	if len(tags) > 0 {
		tagText = "Tags: " + strings.Join(tags, ", ")
	}
	return strings.TrimSpace(title + "\n\n" + CleanMarkdown(content) + "\n\n" + tagText)
}
