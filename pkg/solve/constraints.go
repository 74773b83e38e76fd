package solve

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// DefaultMinLength applies when Options.MinLength is zero.
const DefaultMinLength = 4

// Options is the raw, user-facing form of a search request.
type Options struct {
	Letters       string
	Present       string
	CaseSensitive bool
	MinLength     int // 0 selects DefaultMinLength
	MaxLength     int // 0 means unbounded
	MaxRepeats    int // 0 means unbounded
}

// ConfigError reports a request that cannot be turned into Constraints.
type ConfigError struct {
	Field string
	Rule  string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Rule
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Rule)
}

type runeSet map[rune]struct{}

func (s runeSet) has(r rune) bool {
	_, ok := s[r]
	return ok
}

// Constraints is the immutable description of one search.
type Constraints struct {
	allowed       runeSet
	anywhere      runeSet
	required      []rune
	requiredStart rune
	hasStart      bool
	caseSensitive bool
	minLength     int
	maxLength     int
	maxRepeats    int
}

// Derive validates opts and computes the constraint set a search runs under.
func Derive(opts Options) (*Constraints, error) {
	if opts.Letters == "" {
		return nil, &ConfigError{Field: "letters", Rule: "no letters provided"}
	}
	if opts.Present == "" {
		return nil, &ConfigError{Field: "present", Rule: "no required letter provided"}
	}
	if opts.MinLength < 0 {
		return nil, &ConfigError{Field: "minimal-word-length", Rule: "must not be negative"}
	}
	if opts.MaxLength < 0 {
		return nil, &ConfigError{Field: "maximal-word-length", Rule: "must not be negative"}
	}
	if opts.MaxRepeats < 0 {
		return nil, &ConfigError{Field: "repeats", Rule: "must not be negative"}
	}

	c := &Constraints{
		caseSensitive: opts.CaseSensitive,
		minLength:     opts.MinLength,
		maxLength:     opts.MaxLength,
		maxRepeats:    opts.MaxRepeats,
	}
	if c.minLength == 0 {
		c.minLength = DefaultMinLength
	}
	if c.maxLength == 0 {
		c.maxLength = math.MaxInt
	}
	if c.maxLength < c.minLength {
		return nil, &ConfigError{
			Field: "maximal-word-length",
			Rule:  fmt.Sprintf("%d is below minimal-word-length %d", c.maxLength, c.minLength),
		}
	}

	required := runeSet{}
	if !opts.CaseSensitive {
		c.allowed = runeSet{}
		for _, r := range strings.ToLower(opts.Letters) {
			c.allowed[r] = struct{}{}
		}
		c.anywhere = c.allowed
		for _, r := range strings.ToLower(opts.Present) {
			required[r] = struct{}{}
		}
	} else {
		c.allowed = runeSet{}
		c.anywhere = runeSet{}
		for _, r := range opts.Letters {
			if unicode.IsUpper(r) {
				c.allowed[unicode.ToLower(r)] = struct{}{}
				continue
			}
			c.allowed[r] = struct{}{}
			c.anywhere[r] = struct{}{}
		}
		for _, r := range opts.Present {
			if unicode.IsUpper(r) {
				if c.hasStart {
					return nil, &ConfigError{
						Field: "present",
						Rule:  "at most one uppercase required letter allowed in case-sensitive mode",
					}
				}
				r = unicode.ToLower(r)
				c.requiredStart = r
				c.hasStart = true
			}
			required[r] = struct{}{}
		}
	}
	c.required = lo.Keys(required)
	return c, nil
}

// MinLength returns the inclusive lower length bound.
func (c *Constraints) MinLength() int { return c.minLength }

// MaxLength returns the inclusive upper length bound, math.MaxInt when unbounded.
func (c *Constraints) MaxLength() int { return c.maxLength }

// MaxRepeats returns the per-character cap, 0 when unbounded.
func (c *Constraints) MaxRepeats() int { return c.maxRepeats }

// RequiredStart returns the mandatory first character, if one was set.
func (c *Constraints) RequiredStart() (rune, bool) { return c.requiredStart, c.hasStart }

// Required returns the characters every match must contain, sorted.
func (c *Constraints) Required() []rune { return sortedRunes(c.required) }

// Allowed returns the characters permitted at position 0, sorted.
func (c *Constraints) Allowed() []rune { return sortedRunes(lo.Keys(c.allowed)) }

// Anywhere returns the characters permitted past position 0, sorted.
func (c *Constraints) Anywhere() []rune { return sortedRunes(lo.Keys(c.anywhere)) }

// Key is a canonical rendering of the constraint set. Two requests that
// derive the same constraints share a key.
func (c *Constraints) Key() string {
	var b strings.Builder
	b.WriteString(string(c.Allowed()))
	b.WriteByte('|')
	b.WriteString(string(c.Anywhere()))
	b.WriteByte('|')
	b.WriteString(string(c.Required()))
	b.WriteByte('|')
	if c.hasStart {
		b.WriteRune(c.requiredStart)
	}
	fmt.Fprintf(&b, "|%d|%d|%d", c.minLength, c.maxLength, c.maxRepeats)
	return b.String()
}

// permitted reports whether r may be placed at the given depth.
func (c *Constraints) permitted(r rune, depth int) bool {
	if depth == 0 || !c.caseSensitive {
		return c.allowed.has(r)
	}
	return c.anywhere.has(r)
}
