package docs

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// TestTopics checks that docs/readme.md lists exactly the embedded topics.
func TestTopics(t *testing.T) {
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	topics, err := Topics()
	if err != nil {
		t.Fatalf("Topics() error = %v", err)
	}
	slices.Sort(listed)
	if !slices.Equal(listed, topics) {
		t.Errorf("readme lists %v, embedded topics are %v", listed, topics)
	}

	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatalf("failed to glob *.md: %v", err)
	}
	if got, want := len(files), len(topics)+1; got != want {
		t.Errorf("got %d markdown files, want %d", got, want)
	}
}

// TestTopicStructure checks that every topic starts with a title and that
// fenced blocks declare their language.
func TestTopicStructure(t *testing.T) {
	topics, err := Topics()
	if err != nil {
		t.Fatalf("Topics() error = %v", err)
	}
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	for _, topic := range topics {
		t.Run(topic, func(t *testing.T) {
			content, err := Topic(topic)
			if err != nil {
				t.Fatalf("Topic(%q) error = %v", topic, err)
			}
			source := []byte(content)
			root := md.Parser().Parse(text.NewReader(source))

			first, ok := root.FirstChild().(*ast.Heading)
			if !ok || first.Level != 1 {
				t.Errorf("topic %q does not start with a level 1 heading", topic)
			}
			ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
				if fcb, ok := n.(*ast.FencedCodeBlock); entering && ok && fcb.Info == nil {
					t.Errorf("topic %q has a fenced block without language", topic)
				}
				return ast.WalkContinue, nil
			})
		})
	}
}

func TestAllTopics(t *testing.T) {
	all, err := Topic("*")
	if err != nil {
		t.Fatalf("Topic(*) error = %v", err)
	}
	for _, title := range []string{"# FIFO lot matching", "# Tax report", "# Currency conversion", "# Ledger"} {
		if !strings.Contains(all, title) {
			t.Errorf("Topic(*) misses %q", title)
		}
	}
	if _, err := Topic("nope"); err == nil {
		t.Error("Topic(nope) want error")
	}
}
