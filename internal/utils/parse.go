package utils

import (
	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadTOMLFile loads and parses a TOML file into the provided struct.
// Keys the struct does not know are logged and otherwise ignored.
func LoadTOMLFile(path string, v any) error {
	meta, err := toml.DecodeFile(path, v)
	if err != nil {
		log.Warnf("TOML parsing error in %s: %v", path, err)
		return err
	}
	for _, key := range meta.Undecoded() {
		log.Warnf("Unknown key %q in %s", key.String(), path)
	}
	return nil
}
