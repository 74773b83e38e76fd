// Package format renders solver results as plain text, JSON, markdown or
// HTML.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bastiangx/wordhive/pkg/validator"
	"github.com/samber/lo"
	"github.com/yuin/goldmark"
)

// Format is an output format.
type Format string

const (
	Plain    Format = "plain"
	JSON     Format = "json"
	Markdown Format = "markdown"
	// HTML is the markdown rendering converted to an HTML fragment.
	HTML Format = "html"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Plain, JSON, Markdown, HTML:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format %q, use plain, json, markdown or html", s)
}

// Words renders a word list.
func Words(words []string, f Format) (string, error) {
	switch f {
	case JSON:
		return marshal(lo.Ternary(words == nil, []string{}, words))
	case Markdown:
		return strings.Join(lo.Map(words, func(w string, _ int) string {
			return "**" + w + "**"
		}), "\n\n"), nil
	case HTML:
		md, _ := Words(words, Markdown)
		return toHTML(md)
	}
	return strings.Join(words, "\n"), nil
}

// Entries renders validated words with their definitions.
func Entries(entries []validator.Entry, f Format) (string, error) {
	switch f {
	case JSON:
		return marshal(lo.Ternary(entries == nil, []validator.Entry{}, entries))
	case Markdown:
		return strings.Join(lo.Map(entries, func(e validator.Entry, _ int) string {
			return "**" + e.Word + "**\n" + e.Definition
		}), "\n\n"), nil
	case HTML:
		md, _ := Entries(entries, Markdown)
		return toHTML(md)
	}
	return strings.Join(lo.Map(entries, func(e validator.Entry, _ int) string {
		return e.Word + "\t" + e.Definition
	}), "\n"), nil
}

func toHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func marshal(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write writes content and a trailing newline to path, or to stdout when
// path is empty.
func Write(content, path string) error {
	if path == "" {
		return write(os.Stdout, content)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := write(f, content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func write(w io.Writer, content string) error {
	_, err := io.WriteString(w, content+"\n")
	return err
}
