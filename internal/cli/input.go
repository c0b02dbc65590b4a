// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
)

// InputHandler reads lines from stdin. A line starting with '+' inserts the
// rest of the line as a word, ":stats" prints completer statistics and any
// other line is queried as a prefix.
type InputHandler struct {
	completer       suggest.ICompleter
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	requestCount    int
	reader          io.Reader
	out             *log.Logger
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(completer suggest.ICompleter, minLength, maxLength, limit int) *InputHandler {
	return &InputHandler{
		completer:       completer,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		reader:          os.Stdin,
		out:             logger.Plain(os.Stdout),
	}
}

// WithIO redirects input and output, mostly for tests.
func (h *InputHandler) WithIO(r io.Reader, w io.Writer) *InputHandler {
	h.reader = r
	h.out = logger.Plain(w)
	return h
}

// Start begins the interface loop and returns nil when input ends.
func (h *InputHandler) Start() error {
	h.out.Print("wordtrie CLI [BETA]")
	h.out.Print("type a prefix and press Enter, '+word' to add a word, ':stats' for stats (Ctrl+C to exit):")
	reader := bufio.NewReader(h.reader)

	for {
		h.out.Print("> ")
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	switch {
	case line == ":stats":
		h.printStats()
	case strings.HasPrefix(line, "+"):
		h.handleInsert(strings.TrimSpace(line[1:]))
	default:
		h.handleQuery(line)
	}
}

func (h *InputHandler) handleInsert(word string) {
	if word == "" {
		h.out.Error("Nothing to add")
		return
	}
	if err := h.completer.AddWord(word); err != nil {
		h.out.Errorf("Rejected: %v", err)
		return
	}
	h.out.Printf("Added '%s'", word)
}

// handleQuery checks the prefix length, queries the completer and prints the
// outcome with numbered suggestions.
func (h *InputHandler) handleQuery(prefix string) {
	if len(prefix) < h.minPrefixLength {
		h.out.Errorf("Prefix too short: %s", prefix)
		return
	}
	if len(prefix) > h.maxPrefixLength {
		h.out.Errorf("Prefix too long: %s", prefix)
		return
	}

	start := time.Now()
	res, err := h.completer.Query(prefix)
	elapsed := time.Since(start)
	if err != nil {
		h.out.Errorf("Rejected: %v", err)
		return
	}
	log.Debugf("Took [ %v ] for prefix '%s'", elapsed, prefix)

	switch res.Outcome {
	case trie.NoMatch:
		h.out.Warnf("No suggestions found for prefix: '%s'", prefix)
		return
	case trie.ExactWordNoExtensions:
		h.out.Printf("'%s' is a word with no longer completions", prefix)
		return
	}

	suggestions := suggest.ToSuggestions(res, h.suggestLimit)
	h.out.Printf("Found %d suggestions for prefix '%s':", len(res.Words), prefix)
	for i, s := range suggestions {
		marker := " "
		if s.Exact {
			marker = "*"
		}
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", s.Word)
		h.out.Printf("%2d.%s %s", i+1, marker, clWord)
	}
	if hidden := len(res.Words) - len(suggestions); hidden > 0 {
		h.out.Printf("... and %s more", utils.FormatWithCommas(hidden))
	}
}

func (h *InputHandler) printStats() {
	stats := h.completer.Stats()
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.out.Printf("%-18s %10s", k, utils.FormatWithCommas(stats[k]))
	}
}
