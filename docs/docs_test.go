package docs

import (
	"errors"
	"testing"
	"testing/fstest"
)

func TestTopicsHaveContent(t *testing.T) {
	topics, err := Topics()
	if err != nil {
		t.Fatalf("Topics: %v", err)
	}
	if len(topics) == 0 {
		t.Fatal("no bundled topics")
	}
	for _, topic := range topics {
		if topic.Title == "" {
			t.Errorf("topic %s has no title", topic.ID)
		}
		content, err := Read(topic)
		if err != nil {
			t.Errorf("Read(%s): %v", topic.ID, err)
			continue
		}
		if len(content) == 0 {
			t.Errorf("topic %s is empty", topic.ID)
		}
	}
}

func TestTitleFromHeadingOrIndex(t *testing.T) {
	fsys := fstest.MapFS{
		"guide/index.yaml": {Data: []byte("topics:\n  - id: a\n    path: a.md\n  - id: b\n    title: Custom\n    path: b.md\n  - id: c\n    path: c.md\n")},
		"guide/a.md":       {Data: []byte("Intro line\n\n## The `A` Topic\n\nBody\n")},
		"guide/b.md":       {Data: []byte("# Ignored\n")},
		"guide/c.md":       {Data: []byte("no headings\n")},
	}
	topics, err := topicsFS(fsys)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"The A Topic", "Custom", "c"}
	for i, w := range want {
		if topics[i].Title != w {
			t.Errorf("topics[%d].Title = %q, want %q", i, topics[i].Title, w)
		}
	}
}

func TestFind(t *testing.T) {
	topic, err := Find("Configuration.md")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if topic.ID != "configuration" {
		t.Errorf("ID = %q", topic.ID)
	}
	if _, err := Find("nope"); !errors.Is(err, ErrUnknownTopic) {
		t.Errorf("Find(nope) error = %v, want ErrUnknownTopic", err)
	}
}

func TestSearchSkipsCode(t *testing.T) {
	matches, err := Search("strict", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) == 0 {
		t.Fatal("expected matches for 'strict'")
	}
	for _, m := range matches {
		if m.Line < 1 {
			t.Errorf("match %+v has no line", m)
		}
	}

	// Only appears inside a fenced block in the overview.
	matches, err = Search("mtpoi config init", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("code block content matched: %+v", matches)
	}

	limited, err := Search("the", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limit ignored: got %d matches", len(limited))
	}

	if _, err := Search("  ", 0); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestTextBlockLines(t *testing.T) {
	blocks := textBlocks([]byte("# Title\n\nfirst para\nwraps\n\n```\ncode\n```\n\n- item one\n"))
	if len(blocks) != 3 {
		t.Fatalf("blocks = %+v", blocks)
	}
	if blocks[0].line != 1 || blocks[0].text != "Title" {
		t.Errorf("heading block = %+v", blocks[0])
	}
	if blocks[1].line != 3 || blocks[1].text != "first para wraps" {
		t.Errorf("paragraph block = %+v", blocks[1])
	}
	if blocks[2].line != 10 || blocks[2].text != "item one" {
		t.Errorf("list block = %+v", blocks[2])
	}
}
