// Package cli handles cmd line input for DBG and testing the completion model interactively
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/LujunWeng/suggestd/internal/utils"
	"github.com/LujunWeng/suggestd/pkg/model"
	"github.com/LujunWeng/suggestd/pkg/proposal"
)

// InputHandler drives a live completion model from stdin lines. Each entered
// line is treated as the leading line content of an editor; when a new line
// extends the previous one the existing model is narrowed instead of
// rebuilt, which makes the caching and refilter behavior observable.
type InputHandler struct {
	provider        proposal.Provider
	policy          proposal.Policy
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	requestCount    int

	session *model.Model
	base    string
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(provider proposal.Provider, policy proposal.Policy, minLength, maxLength, limit int) *InputHandler {
	return &InputHandler{
		provider:        provider,
		policy:          policy,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("suggestd CLI")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a line and press Enter to see the projection (Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			h.session = nil
			h.base = ""
			continue
		}
		h.handleInput(line)
	}
}

// handleInput either narrows the current session with the new line content
// or opens a fresh one, then prints the scored projection.
func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	prefix := utils.TrailingWord(line)
	if len(prefix) < h.minPrefixLength {
		log.Errorf("Prefix too short: %s", prefix)
		return
	}
	if len(prefix) > h.maxPrefixLength {
		log.Errorf("Prefix too long: %s", prefix)
		return
	}

	start := time.Now()

	if h.session != nil && strings.HasPrefix(line, h.base) {
		h.session.SetLineContext(model.LineContext{
			LeadingLineContent:  line,
			CharacterCountDelta: len(line) - len(h.base),
		})
		log.Debug("Narrowed existing session", "line", line)
	} else {
		batch := h.provider.Complete(prefix, h.suggestLimit)
		items := proposal.Wrap(batch, h.provider, proposal.Position{Line: 1, Column: len(line) + 1})
		h.session = model.New(items, len(line)+1, model.LineContext{LeadingLineContent: line}, h.policy)
		h.base = line
		log.Debug("Opened new session", "prefix", prefix)
	}

	projection := h.session.Items()
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for line '%s'", elapsed, line)

	if len(projection) == 0 {
		log.Warnf("No suggestions for '%s'", prefix)
		return
	}

	log.Printf("Found %d suggestions (%d incomplete providers):", len(projection), len(h.session.Incomplete()))
	for i, x := range projection {
		clLabel := fmt.Sprintf("\033[38;5;75m%s\033[0m", highlight(x.Suggestion.Label, x.Matches))
		log.Printf("%2d. %-40s (score: %4d)", i+1, clLabel, x.Score)
	}
}

// highlight underlines the matched positions of label.
func highlight(label string, matches []int) string {
	if len(matches) == 0 {
		return label
	}
	set := make(map[int]struct{}, len(matches))
	for _, p := range matches {
		set[p] = struct{}{}
	}
	var sb strings.Builder
	for i, r := range []rune(label) {
		if _, ok := set[i]; ok {
			sb.WriteString("\033[4m")
			sb.WriteRune(r)
			sb.WriteString("\033[24m")
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
