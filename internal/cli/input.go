// Package cli handles cmd line input and suggestions for testing and debugging.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/multisuggest/internal/logger"
	"github.com/bastiangx/multisuggest/pkg/suggest"
)

// InputHandler processes user input from stdin, providing ranked suggestions.
// Prefix length bounds and the suggestion limit mirror what server mode
// enforces so behavior can be compared between the two.
type InputHandler struct {
	suggester       *suggest.Suggester
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	log             *log.Logger
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(s *suggest.Suggester, minLength, maxLength, limit int) *InputHandler {
	return &InputHandler{
		suggester:       s,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		log:             logger.NewWithConfig("cli", log.GetLevel(), false, false, log.TextFormatter),
	}
}

// Start begins the interface loop. It continuously prompts for input, reads a
// line from stdin, and passes the trimmed input to handleInput. The loop
// terminates when stdin closes.
func (h *InputHandler) Start() error {
	h.log.Print("MultiSuggest CLI")
	reader := bufio.NewReader(os.Stdin)
	h.log.Print("type a query and press Enter to see the suggestions (Ctrl+C to exit):")

	for {
		h.log.Print("> ")
		query, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		h.handleInput(query)
	}
}

// handleInput validates one query and prints its ranked suggestions.
func (h *InputHandler) handleInput(query string) {
	if len(query) < h.minPrefixLength {
		h.log.Errorf("Query too short: %s", query)
		return
	}
	if len(query) > h.maxPrefixLength {
		h.log.Errorf("Query too long: %s", query)
		return
	}

	start := time.Now()
	suggestions := h.suggester.Suggest(query, h.suggestLimit)
	elapsed := time.Since(start)
	h.log.Debugf("Took [ %v ] for query '%s'", elapsed, query)

	if len(suggestions) == 0 {
		h.log.Warnf("No suggestions found for query: '%s'", query)
		return
	}

	h.log.Printf("Found %d suggestions for query '%s':", len(suggestions), query)
	for i, s := range suggestions {
		clTerm := fmt.Sprintf("\033[38;5;75m%s\033[0m", s.Term)
		h.log.Printf("%2d. %-50s (weight: %12s)", i+1, clTerm, formatWithCommas(s.Weight))
	}
}

// formatWithCommas renders a weight with thousands separators.
func formatWithCommas(n int64) string {
	s := fmt.Sprint(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
