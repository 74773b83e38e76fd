package dictionary

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/saintfish/chardet"
	"github.com/ulikunitz/xz"
	"golang.org/x/text/encoding/htmlindex"
)

// FileFormat is the container a word list is stored in.
type FileFormat int

const (
	FormatText FileFormat = iota // newline-delimited UTF-8 or legacy charset
	FormatGzip                   // gzip-compressed text
	FormatXZ                     // xz-compressed text
)

func (f FileFormat) String() string {
	switch f {
	case FormatGzip:
		return "gzip"
	case FormatXZ:
		return "xz"
	default:
		return "text"
	}
}

// DetectFileFormat picks the container from the file extension. Anything
// that is not .gz or .xz is read as plain text.
func DetectFileFormat(filename string) FileFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gz":
		return FormatGzip
	case ".xz":
		return FormatXZ
	default:
		return FormatText
	}
}

// SourceError reports a word source that is missing or unreadable.
type SourceError struct {
	Path string
	Hint string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("word source %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

const missingHint = "point --dictionary (or HIVE_DICT) at a newline-delimited word list"

// openSource opens path and layers decompression and charset decoding on top.
// The returned closer releases every layer.
func openSource(path string, charset string) (io.Reader, func(), error) {
	file, err := os.Open(path)
	if err != nil {
		hint := "check file permissions"
		if os.IsNotExist(err) {
			hint = missingHint
		}
		return nil, nil, &SourceError{Path: path, Hint: hint, Err: err}
	}
	closers := []func() error{file.Close}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var r io.Reader = bufio.NewReader(file)
	format := DetectFileFormat(path)
	switch format {
	case FormatGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			closeAll()
			return nil, nil, &SourceError{Path: path, Hint: "the file is not valid gzip", Err: err}
		}
		closers = append(closers, gz.Close)
		r = gz
	case FormatXZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			closeAll()
			return nil, nil, &SourceError{Path: path, Hint: "the file is not valid xz", Err: err}
		}
		r = xr
	}

	if strings.EqualFold(charset, CharsetAuto) {
		br := bufio.NewReaderSize(r, detectSampleSize)
		charset = detectCharset(br)
		r = br
		if _, err := htmlindex.Get(charset); charset != "" && err != nil {
			log.Warnf("Detected charset %q for %s is not supported, reading as UTF-8", charset, path)
			charset = ""
		}
	}

	if charset != "" && !isUTF8(charset) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			closeAll()
			return nil, nil, &SourceError{Path: path, Hint: "use a WHATWG encoding label such as latin1", Err: fmt.Errorf("unknown charset %q: %w", charset, err)}
		}
		r = enc.NewDecoder().Reader(r)
	}

	log.Debugf("Opened word source %s (format=%s, charset=%q)", path, format, charset)
	return r, closeAll, nil
}

// CharsetAuto asks the loader to guess the encoding from the first bytes of
// the (decompressed) source.
const CharsetAuto = "auto"

const detectSampleSize = 16 << 10

// detectCharset peeks at br and returns a WHATWG label for the most likely
// encoding. Empty means UTF-8.
func detectCharset(br *bufio.Reader) string {
	sample, _ := br.Peek(detectSampleSize)
	if len(sample) == 0 {
		return ""
	}
	res, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		log.Debugf("Charset detection failed: %v", err)
		return ""
	}
	log.Debugf("Detected charset %s (confidence %d)", res.Charset, res.Confidence)
	if isUTF8(res.Charset) {
		return ""
	}
	// chardet spells some names differently from the WHATWG labels (GB-18030).
	name := res.Charset
	if _, err := htmlindex.Get(name); err != nil {
		name = strings.ReplaceAll(strings.ToLower(name), "-", "")
	}
	return name
}

func isUTF8(charset string) bool {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "utf-8", "utf8":
		return true
	}
	return false
}
