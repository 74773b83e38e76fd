package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bastiangx/wordhive/internal/cli"
	"github.com/bastiangx/wordhive/internal/format"
	"github.com/bastiangx/wordhive/internal/logger"
	"github.com/bastiangx/wordhive/internal/utils"
	"github.com/bastiangx/wordhive/pkg/config"
	"github.com/bastiangx/wordhive/pkg/server"
	"github.com/bastiangx/wordhive/pkg/solve"
	"github.com/bastiangx/wordhive/pkg/validator"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const GracefulShutdownTimeout = 20 * time.Second

// SolveCmd solves one puzzle. Flags left unset keep the config value.
type SolveCmd struct {
	Letters           string `short:"l" help:"Letters available to build words."`
	Present           string `short:"p" help:"Letters every word must contain."`
	Size              int    `help:"Expected number of distinct letters."`
	MinimalWordLength int    `help:"Minimum word length (default 4)."`
	MaximalWordLength int    `help:"Maximum word length (default unbounded)."`
	Repeats           int    `help:"Maximum uses of a single letter (default unbounded)."`
	CaseSensitive     bool   `help:"Uppercase letters may only start a word."`
	Output            string `short:"o" type:"path" help:"Write results to a file instead of stdout."`
	Format            string `short:"f" help:"Output format: plain, json, markdown or html."`
	Validator         string `help:"Confirm words with an online dictionary."`
	APIKey            string `name:"api-key" help:"API key for merriam-webster or wordnik."`
	ValidatorURL      string `name:"validator-url" help:"Base URL of a custom validator."`
}

func (c *SolveCmd) apply(cfg *config.Config) error {
	setString(&cfg.Letters, c.Letters)
	setString(&cfg.Present, c.Present)
	setString(&cfg.Output, c.Output)
	setString(&cfg.Format, c.Format)
	setString(&cfg.APIKey, c.APIKey)
	setString(&cfg.ValidatorURL, c.ValidatorURL)
	setInt(&cfg.Size, c.Size)
	setInt(&cfg.MinWordLength, c.MinimalWordLength)
	setInt(&cfg.MaxWordLength, c.MaximalWordLength)
	setInt(&cfg.Repeats, c.Repeats)
	if c.CaseSensitive {
		cfg.CaseSensitive = true
	}
	if c.Validator != "" {
		kind, err := validator.ParseKind(c.Validator)
		if err != nil {
			return err
		}
		cfg.Validator = kind
	}
	return nil
}

func (c *SolveCmd) Run(g *Globals) error {
	cfg := g.Config
	if err := c.apply(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	outFormat, err := format.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	// Catch option errors before the word list is read.
	if _, err := solve.Derive(cfg.SolveOptions()); err != nil {
		return err
	}

	dict, err := g.loadDictionary()
	if err != nil {
		return err
	}
	matches, err := solve.Solve(dict.Index(), cfg.SolveOptions())
	if err != nil {
		return err
	}
	words := matches.Sorted()

	if cfg.Validator == "" {
		out, err := format.Words(words, outFormat)
		if err != nil {
			return err
		}
		return format.Write(out, cfg.Output)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v, err := validator.New(ctx, cfg.Validator, cfg.ValidatorOptions())
	if err != nil {
		return err
	}
	summary, err := validator.ValidateWords(ctx, v, words, validator.BatchOptions{
		Delay: time.Duration(cfg.Validation.DelayMS) * time.Millisecond,
		Progress: func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rValidating %d/%d", done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr)
		log.Warnf("Validation interrupted: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Generated %d candidates, %d validated by %s.\n",
		summary.Candidates, summary.Validated, cfg.Validator.DisplayName())

	out, ferr := format.Entries(summary.Entries, outFormat)
	if ferr != nil {
		return ferr
	}
	if werr := format.Write(out, cfg.Output); werr != nil {
		return werr
	}
	return err
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// newEngine loads the word list and wraps it for the long-running modes.
func newEngine(g *Globals) (*server.Engine, error) {
	dict, err := g.loadDictionary()
	if err != nil {
		return nil, err
	}
	cfg := g.Config
	return server.NewEngine(dict, server.EngineOptions{
		CacheSize:       cfg.Server.CacheSize,
		ValidationDelay: time.Duration(cfg.Validation.DelayMS) * time.Millisecond,
		Attempts:        uint(max(cfg.Validation.Attempts, 1)),
	}), nil
}

// ServeCmd runs the HTTP API until interrupted.
type ServeCmd struct {
	Addr        string `short:"a" help:"Listen address (default from config, :8080)."`
	AllowOrigin string `help:"Value of Access-Control-Allow-Origin (default *)."`
}

func (c *ServeCmd) Run(g *Globals) error {
	setString(&g.Config.Server.Addr, c.Addr)
	engine, err := newEngine(g)
	if err != nil {
		return err
	}

	handler := server.NewHandler(engine, server.HandlerOptions{
		AllowOrigin: c.AllowOrigin,
		Logger:      logger.New("http"),
	})
	srv := &http.Server{
		Addr:              g.Config.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		showStartupInfo(g, engine)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		log.Info("got quit signal...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
		return nil
	})
	return eg.Wait()
}

// IPCCmd serves requests over stdin/stdout.
type IPCCmd struct {
	Codec string `help:"Message framing: msgpack or json (default from config)."`
}

func (c *IPCCmd) Run(g *Globals) error {
	setString(&g.Config.Server.Codec, c.Codec)
	codec, err := server.ParseCodec(g.Config.Server.Codec)
	if err != nil {
		return err
	}
	engine, err := newEngine(g)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.NewIPCServer(engine, os.Stdin, os.Stdout, codec).Serve(ctx)
}

// ReplCmd reads puzzles from stdin.
type ReplCmd struct {
	CaseSensitive bool `help:"Uppercase letters may only start a word."`
	Repeats       int  `help:"Maximum uses of a single letter (default unbounded)."`
}

func (c *ReplCmd) Run(g *Globals) error {
	engine, err := newEngine(g)
	if err != nil {
		return err
	}
	stats := engine.Stats().Dictionary
	log.Infof("Loaded %s words", utils.FormatWithCommas(stats.Words))

	caseSensitive := c.CaseSensitive || g.Config.CaseSensitive
	repeats := c.Repeats
	if repeats == 0 {
		repeats = g.Config.Repeats
	}
	return cli.NewInputHandler(engine, caseSensitive, repeats, os.Stdin, os.Stdout).Start()
}

// InitConfigCmd writes the default config.
type InitConfigCmd struct {
	Path  string `arg:"" optional:"" type:"path" help:"Where to write (default: user config directory)."`
	Force bool   `help:"Overwrite an existing file."`
}

func (c *InitConfigCmd) Run(*Globals) error {
	path := c.Path
	if path == "" {
		p, err := config.GetDefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if utils.FileExists(path) && !c.Force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", utils.GetAbsolutePath(path))
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(*Globals) error {
	banner := logger.NewWithConfig(os.Stderr, "", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ hive ] Spells every word your letters allow.")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
	return nil
}

// showStartupInfo displays some basic info about the server.
func showStartupInfo(g *Globals, engine *server.Engine) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	stats := engine.Stats().Dictionary
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("words: %s (%s nodes)", utils.FormatWithCommas(stats.Words), utils.FormatWithCommas(stats.Nodes))
	log.Infof("listening on: %s", g.Config.Server.Addr)
	log.Info("Press Ctrl+C to exit")
}
