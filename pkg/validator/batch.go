package validator

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultDelay is the pause between lookups used by the front ends.
const DefaultDelay = 250 * time.Millisecond

// Summary is the outcome of validating a batch of candidates.
type Summary struct {
	Candidates int     `json:"candidates"`
	Validated  int     `json:"validated"`
	Entries    []Entry `json:"entries"`
}

// BatchOptions configures ValidateWords.
type BatchOptions struct {
	// Delay is waited between consecutive lookups.
	Delay time.Duration
	// Progress, if set, is called after every lookup with the number of
	// words processed so far and the batch size.
	Progress func(done, total int)
}

// ValidateWords looks up every word in order, one at a time. Words the
// service does not know, and words whose lookup fails, are left out of the
// summary; failures are logged and do not stop the batch. Cancelling ctx
// stops the batch and returns what was confirmed so far together with the
// context error.
func ValidateWords(ctx context.Context, v Validator, words []string, opts BatchOptions) (Summary, error) {
	summary := Summary{Candidates: len(words), Entries: []Entry{}}
	for i, word := range words {
		if i > 0 && opts.Delay > 0 {
			timer := time.NewTimer(opts.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return summary, ctx.Err()
			case <-timer.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		entry, err := v.Lookup(ctx, word)
		switch {
		case err != nil:
			log.Warnf("Skipping %q: %v", word, err)
		case entry != nil:
			summary.Entries = append(summary.Entries, *entry)
			summary.Validated++
		default:
			log.Debugf("%s does not know %q", v.Name(), word)
		}

		if opts.Progress != nil {
			opts.Progress(i+1, len(words))
		}
	}
	return summary, nil
}
