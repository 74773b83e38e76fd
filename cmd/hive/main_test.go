package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionaryFlagOverridesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hive.toml")
	require.NoError(t, os.WriteFile(path, []byte("dictionary = \"from-file.txt\"\ncharset = \"latin1\"\n"), 0o644))

	g, err := loadGlobals(&CLI{Config: path})
	require.NoError(t, err)
	assert.Equal(t, "from-file.txt", g.Config.Dictionary)
	assert.Equal(t, "latin1", g.Config.Charset)
	assert.Equal(t, path, g.ConfigPath)

	// HIVE_DICT reaches loadGlobals through the --dictionary field.
	g, err = loadGlobals(&CLI{Config: path, Dictionary: "from-env.txt", Charset: "auto"})
	require.NoError(t, err)
	assert.Equal(t, "from-env.txt", g.Config.Dictionary)
	assert.Equal(t, "auto", g.Config.Charset)
}
