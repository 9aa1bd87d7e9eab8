// Package markdown loads a corpus of Markdown files with YAML front matter.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
	"github.com/custodia-labs/semlink/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.CorpusSource = (*Source)(nil)

var (
	wikiLinkPattern     = regexp.MustCompile(`\[\[([^\]|#]+)(?:#[^\]|]*)?(?:\|[^\]]*)?\]\]`)
	markdownLinkPattern = regexp.MustCompile(`\[[^\]]*\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)
	schemePattern       = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Source reads every .md file under a root directory.
type Source struct {
	root string
}

// NewSource creates a corpus source rooted at dir.
func NewSource(root string) *Source {
	return &Source{root: root}
}

// Root returns the content directory.
func (s *Source) Root() string {
	return s.root
}

// frontMatter is the subset of front matter fields the corpus uses.
type frontMatter struct {
	Title       string    `yaml:"title"`
	Tags        yaml.Node `yaml:"tags"`
	Description string    `yaml:"description"`
	Date        yaml.Node `yaml:"date"`
	Draft       bool      `yaml:"draft"`
}

// parsed is a document before its links are resolved against the corpus.
type parsed struct {
	doc     domain.Document
	targets []string
}

// Load returns every document, ordered by slug. Drafts are skipped.
func (s *Source) Load(ctx context.Context) ([]domain.Document, error) {
	var items []parsed

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != s.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(p), ".md") {
			return nil
		}

		item, ok, err := s.parseFile(p)
		if err != nil {
			logger.Warn("Skipping %s: %v", p, err)
			return nil
		}
		if ok {
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", s.root, err)
	}

	slugs := make(map[string]bool, len(items))
	byBase := make(map[string][]string)
	for _, item := range items {
		slugs[item.doc.Slug] = true
		base := path.Base(item.doc.Slug)
		byBase[base] = append(byBase[base], item.doc.Slug)
	}

	docs := make([]domain.Document, 0, len(items))
	for _, item := range items {
		item.doc.Links = resolveLinks(item.doc.Slug, item.targets, slugs, byBase)
		docs = append(docs, item.doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Slug < docs[j].Slug })

	logger.Debug("Loaded %d documents from %s", len(docs), s.root)
	return docs, nil
}

func (s *Source) parseFile(p string) (parsed, bool, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return parsed{}, false, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return parsed{}, false, err
	}

	rel, err := filepath.Rel(s.root, p)
	if err != nil {
		return parsed{}, false, err
	}
	slug := Slugify(rel)

	fm, body, err := splitFrontMatter(raw)
	if err != nil {
		return parsed{}, false, fmt.Errorf("front matter: %w", err)
	}
	if fm.Draft {
		return parsed{}, false, nil
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = extractMarkdownTitle(body, rel)
	}

	modified := info.ModTime()
	if t, ok := parseDate(&fm.Date); ok {
		modified = t
	}

	return parsed{
		doc: domain.Document{
			Slug:        slug,
			Title:       title,
			Tags:        domain.NormalizeTags(parseTags(&fm.Tags)),
			Content:     body,
			Description: strings.TrimSpace(fm.Description),
			ModifiedAt:  modified,
			FilePath:    p,
		},
		targets: extractTargets(body),
	}, true, nil
}

// splitFrontMatter separates a leading "---" YAML block from the body.
func splitFrontMatter(raw []byte) (frontMatter, string, error) {
	var fm frontMatter
	content := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(content, []byte("---\n")) {
		return fm, string(content), nil
	}

	rest := content[len("---\n"):]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return fm, string(content), nil
	}

	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return fm, "", err
	}

	body := rest[end+len("\n---"):]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	return fm, string(body), nil
}

// parseTags accepts a YAML list or a comma/space separated string.
func parseTags(node *yaml.Node) []string {
	switch node.Kind {
	case yaml.SequenceNode:
		var tags []string
		for _, item := range node.Content {
			if item.Kind == yaml.ScalarNode {
				tags = append(tags, item.Value)
			}
		}
		return tags
	case yaml.ScalarNode:
		return strings.FieldsFunc(node.Value, func(r rune) bool { return r == ',' || r == ' ' })
	default:
		return nil
	}
}

func parseDate(node *yaml.Node) (time.Time, bool) {
	if node.Kind != yaml.ScalarNode || node.Value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, node.Value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// extractMarkdownTitle returns the first H1 heading or a title derived from the file name.
func extractMarkdownTitle(content, rel string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}

	filename := filepath.Base(rel)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// extractTargets finds wikilink and relative Markdown link targets.
func extractTargets(body string) []string {
	var targets []string
	for _, m := range wikiLinkPattern.FindAllStringSubmatch(body, -1) {
		targets = append(targets, strings.TrimSpace(m[1]))
	}
	for _, m := range markdownLinkPattern.FindAllStringSubmatch(body, -1) {
		target := m[1]
		if schemePattern.MatchString(target) || strings.HasPrefix(target, "#") {
			continue
		}
		if i := strings.IndexAny(target, "#?"); i >= 0 {
			target = target[:i]
		}
		switch {
		case target == "":
		case strings.HasPrefix(target, "/"), strings.HasPrefix(target, "../"):
			targets = append(targets, target)
		default:
			targets = append(targets, "./"+strings.TrimPrefix(target, "./"))
		}
	}
	return targets
}

// resolveLinks maps raw targets to slugs: exact slug, then relative to the
// linking document, then a unique file name match. Unresolved targets are kept.
func resolveLinks(from string, targets []string, slugs map[string]bool, byBase map[string][]string) []string {
	seen := make(map[string]bool)
	links := make([]string, 0, len(targets))

	for _, target := range targets {
		relative := strings.HasPrefix(target, "./") || strings.HasPrefix(target, "../")
		candidate := Slugify(strings.TrimPrefix(target, "/"))

		resolved := candidate
		switch {
		case relative:
			resolved = Slugify(path.Join(path.Dir(from), target))
		case slugs[candidate]:
		case len(byBase[candidate]) == 1:
			resolved = byBase[candidate][0]
		}

		if resolved == "" || resolved == from || seen[resolved] {
			continue
		}
		seen[resolved] = true
		links = append(links, resolved)
	}
	return links
}

// Slugify turns a relative file path into a slug: forward slashes, no .md
// extension, spaces replaced by hyphens.
func Slugify(p string) string {
	p = filepath.ToSlash(p)
	p = path.Clean(p)
	if strings.EqualFold(path.Ext(p), ".md") {
		p = p[:len(p)-len(path.Ext(p))]
	}
	p = strings.TrimPrefix(p, "./")
	if p == "." {
		return ""
	}
	return strings.ReplaceAll(strings.TrimSpace(p), " ", "-")
}
