package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func run(t *testing.T, c suggest.ICompleter, limit int, input string) string {
	t.Helper()
	var out bytes.Buffer
	h := NewInputHandler(c, 1, 10, limit).WithIO(strings.NewReader(input), &out)
	if err := h.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return out.String()
}

func TestInputInsertAndQuery(t *testing.T) {
	c := suggest.NewCompleter()
	out := run(t, c, 10, "+cat\n+cats\n+car\nca\ncats\nzz\n")

	for _, want := range []string{
		"Added 'cat'",
		"Found 3 suggestions for prefix 'ca'",
		"'cats' is a word with no longer completions",
		"No suggestions found for prefix: 'zz'",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// lexicographic order
	car, cat, cats := strings.Index(out, "car\033"), strings.Index(out, "cat\033"), strings.Index(out, "cats\033")
	if car < 0 || !(car < cat && cat < cats) {
		t.Errorf("suggestions out of order:\n%s", out)
	}
}

func TestInputRejects(t *testing.T) {
	c := suggest.NewCompleter()
	out := run(t, c, 10, "+Cat\n+\nCA\nabcdefghijklmnop")

	for _, want := range []string{
		"Rejected: invalid character 'C'",
		"Nothing to add",
		"Prefix too long",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if c.Stats()["totalWords"] != 0 {
		t.Errorf("invalid words were added")
	}
}

func TestInputLimitAndStats(t *testing.T) {
	c := suggest.NewCompleter()
	for _, w := range []string{"aa", "ab", "ac", "ad"} {
		_ = c.AddWord(w)
	}
	out := run(t, c, 2, "a\n:stats\n")

	if !strings.Contains(out, "... and 2 more") {
		t.Errorf("expected truncated listing:\n%s", out)
	}
	if strings.Contains(out, "ac\033") {
		t.Errorf("limit not applied:\n%s", out)
	}
	if !strings.Contains(out, "totalWords") {
		t.Errorf("stats missing:\n%s", out)
	}
}
