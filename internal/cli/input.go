// Package cli implements the interactive solve loop.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/wordhive/internal/utils"
	"github.com/bastiangx/wordhive/pkg/solve"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Solver answers a single puzzle request.
type Solver interface {
	Solve(opts solve.Options) ([]string, error)
}

var wordStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})

// InputHandler reads puzzles from a reader, one per line:
//
//	letters present [min] [max]
//
// and prints the matching words. Settings that do not fit on a line
// (case sensitivity, repeat cap) are fixed for the session.
type InputHandler struct {
	solver        Solver
	caseSensitive bool
	maxRepeats    int
	in            io.Reader
	out           io.Writer
	requestCount  int
}

// NewInputHandler creates a handler reading from in and printing results
// to out.
func NewInputHandler(solver Solver, caseSensitive bool, maxRepeats int, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		solver:        solver,
		caseSensitive: caseSensitive,
		maxRepeats:    maxRepeats,
		in:            in,
		out:           out,
	}
}

// Start runs the loop until the input ends or a line reads "quit".
// Invalid lines are reported and skipped.
func (h *InputHandler) Start() error {
	log.Print("hive interactive mode")
	log.Print("enter: letters present [min] [max]  (quit or Ctrl+D to exit)")
	reader := bufio.NewReader(h.in)

	for {
		fmt.Fprint(h.out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "quit" || line == "exit":
			return nil
		case line != "":
			h.handleInput(line)
		}
		if err != nil {
			fmt.Fprintln(h.out)
			return nil
		}
	}
}

// ParseLine turns an input line into search options.
func ParseLine(line string) (solve.Options, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields) > 4 {
		return solve.Options{}, fmt.Errorf("expected 2 to 4 fields, got %d", len(fields))
	}
	opts := solve.Options{Letters: fields[0], Present: fields[1]}
	if !utils.IsLetters(opts.Letters) || !utils.IsLetters(opts.Present) {
		return solve.Options{}, fmt.Errorf("letters and present letters must be letters only")
	}
	bounds := []*int{&opts.MinLength, &opts.MaxLength}
	for i, raw := range fields[2:] {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return solve.Options{}, fmt.Errorf("invalid length %q", raw)
		}
		*bounds[i] = n
	}
	return opts, nil
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	opts, err := ParseLine(line)
	if err != nil {
		log.Errorf("Invalid input: %v", err)
		return
	}
	opts.CaseSensitive = h.caseSensitive
	opts.MaxRepeats = h.maxRepeats
	if !h.caseSensitive && utils.HasUpper(opts.Letters+opts.Present) {
		log.Debug("Uppercase letters are folded; run with --case-sensitive to mark start-only letters")
	}

	start := time.Now()
	words, err := h.solver.Solve(opts)
	if err != nil {
		log.Errorf("%v", err)
		return
	}
	log.Debugf("Took [ %v ] for request #%d", time.Since(start), h.requestCount)

	if len(words) == 0 {
		fmt.Fprintf(h.out, "No words found for %q\n", line)
		return
	}
	fmt.Fprintf(h.out, "Found %s words:\n", utils.FormatWithCommas(len(words)))
	for i, w := range words {
		fmt.Fprintf(h.out, "%4d. %s\n", i+1, wordStyle.Render(w))
	}
}
