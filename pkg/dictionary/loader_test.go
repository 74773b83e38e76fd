package dictionary

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const sample = "  Ware\nwar\n\nraw\nwar\nre-do\nco2\narea\n"

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"  Hello \r", "hello", true},
		{"ŻÓŁW", "żółw", true},
		{"", "", false},
		{"   ", "", false},
		{"don't", "", false},
		{"two words", "", false},
		{"abc1", "", false},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestLoadText(t *testing.T) {
	dict, err := Load(writeFile(t, "words.txt", []byte(sample)), Options{})
	require.NoError(t, err)

	assert.Equal(t, Stats{Lines: 8, Words: 4, Rejected: 3, Duplicates: 1, Nodes: dict.Index().Nodes()}, dict.Stats())
	assert.Equal(t, 4, dict.Index().Words())
	for _, w := range []string{"ware", "war", "raw", "area"} {
		assert.True(t, dict.Index().Contains(w), w)
		assert.True(t, dict.Contains(w), w)
	}
	assert.True(t, dict.Contains("WARE"))
	assert.False(t, dict.Contains("redo"))
	assert.False(t, dict.Contains(""))
}

func TestLoadCompressed(t *testing.T) {
	var gzBuf bytes.Buffer
	gw := gzip.NewWriter(&gzBuf)
	_, err := gw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	var xzBuf bytes.Buffer
	xw, err := xz.NewWriter(&xzBuf)
	require.NoError(t, err)
	_, err = xw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, xw.Close())

	for name, data := range map[string][]byte{"words.txt.gz": gzBuf.Bytes(), "words.xz": xzBuf.Bytes()} {
		t.Run(name, func(t *testing.T) {
			dict, err := Load(writeFile(t, name, data), Options{})
			require.NoError(t, err)
			assert.Equal(t, 4, dict.Stats().Words)
			assert.True(t, dict.Contains("area"))
		})
	}
}

func TestLoadLegacyCharset(t *testing.T) {
	// "café" and "naïve" in ISO-8859-1.
	data := []byte{'c', 'a', 'f', 0xe9, '\n', 'n', 'a', 0xef, 'v', 'e', '\n'}
	path := writeFile(t, "latin.txt", data)

	dict, err := Load(path, Options{Charset: "latin1"})
	require.NoError(t, err)
	assert.True(t, dict.Contains("café"))
	assert.True(t, dict.Contains("naïve"))

	_, err = Load(path, Options{Charset: "no-such-charset"})
	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
}

func TestLoadDetectCharset(t *testing.T) {
	path := writeFile(t, "utf8.txt", []byte("café\nnaïve\nrésumé\nsoufflé\n"))
	dict, err := Load(path, Options{Charset: CharsetAuto})
	require.NoError(t, err)
	assert.True(t, dict.Contains("résumé"))
	assert.Equal(t, 4, dict.Stats().Words)

	path = writeFile(t, "ascii.txt", []byte(sample))
	dict, err = Load(path, Options{Charset: "AUTO"})
	require.NoError(t, err)
	assert.True(t, dict.Contains("ware"))
}

func TestLoadMissingSource(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.txt"), Options{})
	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, missingHint, srcErr.Hint)
}

func TestLoadCorruptGzip(t *testing.T) {
	_, err := Load(writeFile(t, "bad.gz", []byte("not gzip at all")), Options{})
	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
}

func TestComplete(t *testing.T) {
	dict := FromWords([]string{"ware", "war", "wares", "warsaw", "raw", "Wane"})

	assert.Equal(t, []string{"war", "ware", "wares", "warsaw"}, dict.Complete("war", 0))
	assert.Equal(t, []string{"war", "ware"}, dict.Complete("WAR", 2))
	assert.Equal(t, []string{"wane", "war", "ware", "wares", "warsaw"}, dict.Complete("w", 10))
	assert.Empty(t, dict.Complete("zz", 5))
	assert.Equal(t, "", dict.Path())
}

func TestCompleteBoundedLimit(t *testing.T) {
	var lines []string
	for c := 'z'; c >= 'a'; c-- {
		for d := 'z'; d >= 'a'; d-- {
			lines = append(lines, "q"+string(c)+string(d))
		}
	}
	dict := FromWords(lines)

	assert.Equal(t, []string{"qaa", "qab", "qac"}, dict.Complete("q", 3))
	assert.Equal(t, []string{"qza", "qzb"}, dict.Complete("QZ", 2))
	assert.Len(t, dict.Complete("q", 0), 26*26)
	assert.Len(t, dict.Complete("q", 1000), 26*26)
	assert.Empty(t, dict.Complete("x", 5))
}

func TestDetectFileFormat(t *testing.T) {
	assert.Equal(t, FormatGzip, DetectFileFormat("a/words.txt.GZ"))
	assert.Equal(t, FormatXZ, DetectFileFormat("words.xz"))
	assert.Equal(t, FormatText, DetectFileFormat("words.txt"))
	assert.Equal(t, FormatText, DetectFileFormat("words"))
	assert.Equal(t, "xz", FormatXZ.String())
}
