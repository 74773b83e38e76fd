// Copyright 2025 The WordHive Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements hive, a word puzzle solver.

Given a set of letters and the letters every answer must use, hive lists the
dictionary words that can be spelled from them. In case-sensitive mode an
uppercase letter may only open a word, and an uppercase required letter must.

# Usage

Solve a puzzle, reading the rest of the settings from the config file:

	hive solve --letters walrus --present w

	hive --case-sensitive solve --letters Walrus --present Wl --format markdown

Confirm the candidates with an online dictionary:

	hive solve --letters walrus --present w --validator free-dictionary

Serve the HTTP API, or answer requests over stdin/stdout:

	hive serve --addr :8080
	hive ipc --codec json

Try puzzles interactively:

	hive repl

# Configuration

Settings are read from --config, or from config.toml in the user config
directory when it exists. Flags override the file; HIVE_DICT stands in for
--dictionary, so it overrides the file's dictionary as well.

	letters = "walrus"
	present = "w"
	minimal-word-length = 4
	dictionary = "data/dictionary.txt"

	[server]
	addr = ":8080"
	cache-size = 256
	codec = "msgpack"

	[validation]
	delay-ms = 250
	attempts = 3

Write a file with every default filled in:

	hive init-config
*/
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/bastiangx/wordhive/internal/logger"
	"github.com/bastiangx/wordhive/internal/utils"
	"github.com/bastiangx/wordhive/pkg/config"
	"github.com/bastiangx/wordhive/pkg/dictionary"
	"github.com/bastiangx/wordhive/pkg/solve"
	"github.com/bastiangx/wordhive/pkg/validator"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "hive"
	gh      = "https://github.com/bastiangx/wordhive"
)

// CLI is the command line of hive.
type CLI struct {
	Debug      bool   `short:"d" help:"Enable debug logging."`
	Config     string `short:"c" type:"path" help:"Config file (TOML, or JSON/YAML by extension)."`
	Dictionary string `env:"HIVE_DICT" type:"path" help:"Word list to load (plain, .gz or .xz)."`
	Charset    string `help:"Character set of the word list, e.g. latin1, or auto to detect."`

	Solve      SolveCmd      `cmd:"" default:"withargs" help:"Solve a puzzle (default)."`
	Serve      ServeCmd      `cmd:"" help:"Serve the HTTP API."`
	IPC        IPCCmd        `cmd:"" name:"ipc" help:"Answer requests over stdin/stdout."`
	Repl       ReplCmd       `cmd:"" help:"Solve puzzles interactively."`
	InitConfig InitConfigCmd `cmd:"" name:"init-config" help:"Write a config file with default values."`
	Version    VersionCmd    `cmd:"" help:"Show version information."`
}

// Globals is passed to every command.
type Globals struct {
	Config     *config.Config
	ConfigPath string
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name(AppName),
		kong.Description("Finds the words a set of letters can spell."),
		kong.UsageOnError(),
	)
	logger.Setup(cli.Debug)

	globals, err := loadGlobals(&cli)
	if err != nil {
		exit(err)
	}
	if err := ctx.Run(globals); err != nil {
		exit(err)
	}
}

func loadGlobals(cli *CLI) (*Globals, error) {
	cfg, path, err := config.LoadConfigWithPriority(cli.Config)
	if err != nil {
		return nil, err
	}
	if cli.Dictionary != "" {
		cfg.Dictionary = cli.Dictionary
	}
	if cli.Charset != "" {
		cfg.Charset = cli.Charset
	}
	return &Globals{Config: cfg, ConfigPath: path}, nil
}

// loadDictionary loads the configured word list, looking for relative
// names next to the executable and in the config directory as well.
func (g *Globals) loadDictionary() (*dictionary.Dictionary, error) {
	configDir := ""
	if g.ConfigPath != "" {
		configDir = filepath.Dir(g.ConfigPath)
	} else if dir, err := config.GetConfigDir(); err == nil {
		configDir = dir
	}
	path := utils.NewPathResolver(configDir).ResolveFile(g.Config.Dictionary)
	log.Debugf("Using word list at: %s", path)
	return dictionary.Load(path, dictionary.Options{Charset: g.Config.Charset})
}

func exit(err error) {
	var cfgErr *solve.ConfigError
	var srcErr *dictionary.SourceError
	var setupErr *validator.SetupError
	switch {
	case errors.As(err, &cfgErr):
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
	case errors.As(err, &srcErr):
		fmt.Fprintf(os.Stderr, "Dictionary error: %v\n", err)
		if srcErr.Hint != "" {
			fmt.Fprintf(os.Stderr, "  hint: %s\n", srcErr.Hint)
		}
	case errors.As(err, &setupErr):
		fmt.Fprintf(os.Stderr, "Validator error: %v\n", err)
	default:
		log.Error(err)
	}
	os.Exit(1)
}
