// Package docs exposes the bundled guide topics.
package docs

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

const guideDir = "guide"

// FS holds the guide pages and their index.yaml.
//
//go:embed guide
var FS embed.FS

// ErrUnknownTopic is returned for a topic id not in the index.
var ErrUnknownTopic = errors.New("unknown docs topic")

// Topic is one guide page.
type Topic struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Path  string `json:"path" yaml:"path"`
}

type index struct {
	Topics []Topic `yaml:"topics"`
}

// Topics lists the guide topics in index order. Topics without a title in
// the index take the first heading of their page.
func Topics() ([]Topic, error) {
	return topicsFS(FS)
}

func topicsFS(fsys fs.FS) ([]Topic, error) {
	data, err := fs.ReadFile(fsys, path.Join(guideDir, "index.yaml"))
	if err != nil {
		return nil, err
	}
	var idx index
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse docs index: %w", err)
	}
	for i, t := range idx.Topics {
		if t.ID == "" || t.Path == "" {
			return nil, fmt.Errorf("docs index entry %d needs id and path", i)
		}
		if t.Title != "" {
			continue
		}
		content, err := fs.ReadFile(fsys, path.Join(guideDir, t.Path))
		if err != nil {
			return nil, err
		}
		idx.Topics[i].Title = firstHeading(content, t.ID)
	}
	return idx.Topics, nil
}

// Find returns the topic with the given id.
func Find(id string) (Topic, error) {
	topics, err := Topics()
	if err != nil {
		return Topic{}, err
	}
	id = strings.ToLower(strings.TrimSpace(strings.TrimSuffix(id, ".md")))
	for _, t := range topics {
		if t.ID == id {
			return t, nil
		}
	}
	return Topic{}, fmt.Errorf("%w: %s", ErrUnknownTopic, id)
}

// Read returns a topic's Markdown source.
func Read(t Topic) ([]byte, error) {
	return fs.ReadFile(FS, path.Join(guideDir, t.Path))
}

// Match is a search hit.
type Match struct {
	Topic   string `json:"topic"`
	Title   string `json:"title"`
	Line    int    `json:"line"`
	Snippet string `json:"snippet"`
}

// Search finds query (case-insensitive) in the prose and headings of every
// topic. Code blocks are not searched. limit <= 0 means no limit.
func Search(query string, limit int) ([]Match, error) {
	topics, err := Topics()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, errors.New("empty search query")
	}

	var matches []Match
	for _, t := range topics {
		content, err := Read(t)
		if err != nil {
			return nil, err
		}
		for _, b := range textBlocks(content) {
			if !strings.Contains(strings.ToLower(b.text), needle) {
				continue
			}
			matches = append(matches, Match{Topic: t.ID, Title: t.Title, Line: b.line, Snippet: snippet(b.text, 100)})
			if limit > 0 && len(matches) >= limit {
				return matches, nil
			}
		}
	}
	return matches, nil
}

type block struct {
	line int
	text string
}

// textBlocks returns the text of every heading, paragraph and list item
// paragraph, with the 1-based line it starts on.
func textBlocks(content []byte) []block {
	doc := goldmark.New().Parser().Parse(text.NewReader(content))
	var out []block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			lines := n.Lines()
			if lines.Len() == 0 {
				return ast.WalkSkipChildren, nil
			}
			start := lines.At(0).Start
			out = append(out, block{
				line: bytes.Count(content[:start], []byte("\n")) + 1,
				text: strings.Join(strings.Fields(string(nodeText(n, content))), " "),
			})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return out
}

func nodeText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(v.Value)
		default:
			buf.Write(nodeText(c, source))
		}
	}
	return buf.Bytes()
}

func firstHeading(content []byte, fallback string) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(content))
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			if title := strings.TrimSpace(string(nodeText(h, content))); title != "" {
				return title
			}
		}
	}
	return fallback
}

func snippet(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
