package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ideamans/go-l10n"

	"github.com/user/staticgen/pkg/batch"
	"github.com/user/staticgen/pkg/config"
	"github.com/user/staticgen/pkg/metrics"
	"github.com/user/staticgen/pkg/resolver"
	"github.com/user/staticgen/pkg/resource"
	"github.com/user/staticgen/pkg/staticgen"
)

// BatchFlags are shared by the publish and delete commands.
type BatchFlags struct {
	FromFile      string `short:"f" help:"Read additional paths from a file, one per line (- for stdin)." group:"Batch"`
	CollectErrors bool   `help:"Attempt every path and report all failures instead of stopping at the first." group:"Batch"`
	Workers       *int   `short:"w" help:"Paths processed at once when collecting errors." group:"Batch"`

	Summary     string `short:"s" type:"path" help:"Write a run summary (.md for Markdown, text otherwise)." group:"Output"`
	MetricsFile string `type:"path" help:"Write Prometheus metrics in textfile format." group:"Output"`
}

// PublishCmd defines the publish subcommand.
type PublishCmd struct {
	Paths []string `arg:"" optional:"" help:"Logical paths to publish (a trailing / publishes index.html)."`

	BatchFlags `embed:""`

	ContentFile string `help:"Publish this file's bytes for the single given path instead of rendering it (- for stdin)." group:"Rendering"`

	Fetcher   string            `help:"Renderer: http or chrome." group:"Rendering"`
	BaseURL   string            `short:"u" help:"Base URL of the running application." group:"Rendering"`
	TimeoutMs *int              `help:"Render timeout in milliseconds (0 = none)." group:"Rendering"`
	Header    map[string]string `short:"H" help:"Extra request header as Name=Value (repeatable)." group:"Rendering"`

	ChromePath        string `env:"CHROME_PATH" help:"Path to Chrome executable (falls back to system default)." group:"Browser"`
	NoHeadless        bool   `help:"Run browser in non-headless mode." group:"Browser"`
	IgnoreHTTPSErrors bool   `help:"Ignore HTTPS certificate errors." group:"Browser"`
	ProxyServer       string `help:"HTTP proxy server (e.g., http://proxy:8080)." group:"Browser"`
}

// DeleteCmd defines the delete subcommand.
type DeleteCmd struct {
	Paths []string `arg:"" optional:"" help:"Logical paths to delete."`

	BatchFlags `embed:""`
}

// ResolveCmd defines the resolve subcommand.
type ResolveCmd struct {
	Paths []string `arg:"" help:"Logical paths to resolve."`
}

// Run executes the publish command.
func (cmd *PublishCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig(func(cfg *config.Config) {
		cmd.BatchFlags.apply(cfg)
		cmd.apply(cfg)
	})
	if err != nil {
		return err
	}
	log := g.newLogger(cfg)

	paths, err := cmd.BatchFlags.collectPaths(cmd.Paths, g.stdin)
	if err != nil {
		return err
	}

	var content []byte
	if cmd.ContentFile != "" {
		if len(paths) != 1 {
			return errors.New(l10n.T("--content-file needs exactly one path"))
		}
		if content, err = readContent(cmd.ContentFile, g.stdin); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext(log)
	defer cancel()

	recorder := metrics.NewPrometheusRecorder(nil)
	opts := []staticgen.Option{staticgen.WithLogger(log), staticgen.WithRecorder(recorder)}
	if content == nil {
		fetcher, closeFetcher, err := newFetcher(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeFetcher()
		opts = append(opts, staticgen.WithFetcher(fetcher))
	}

	gen, err := staticgen.New(generatorConfig(cfg), opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	var results []batch.Result
	if content != nil {
		results, err = gen.PublishContent(ctx, batch.Item{Path: paths[0], Content: content})
	} else {
		results, err = gen.Publish(ctx, resource.Paths(paths...)...)
	}
	return finish(runReport{
		operation:  "publish",
		config:     cfg,
		serverName: gen.ServerName(),
		results:    results,
		elapsed:    time.Since(start),
		recorder:   recorder,
		log:        log,
	}, err)
}

func (cmd *PublishCmd) apply(cfg *config.Config) {
	if cmd.Fetcher != "" {
		cfg.Fetcher = cmd.Fetcher
	}
	if cmd.BaseURL != "" {
		cfg.BaseURL = cmd.BaseURL
	}
	if cmd.TimeoutMs != nil {
		cfg.TimeoutMs = *cmd.TimeoutMs
	}
	if len(cmd.Header) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(cmd.Header))
		}
		for k, v := range cmd.Header {
			cfg.Headers[k] = v
		}
	}
	if cmd.ChromePath != "" {
		cfg.Chrome.Path = cmd.ChromePath
	}
	if cmd.NoHeadless {
		cfg.Chrome.Headless = false
	}
	if cmd.IgnoreHTTPSErrors {
		cfg.Chrome.IgnoreHTTPSErrors = true
	}
	if cmd.ProxyServer != "" {
		cfg.Chrome.ProxyServer = cmd.ProxyServer
	}
}

// Run executes the delete command.
func (cmd *DeleteCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig(cmd.BatchFlags.apply)
	if err != nil {
		return err
	}
	log := g.newLogger(cfg)

	paths, err := cmd.BatchFlags.collectPaths(cmd.Paths, g.stdin)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(log)
	defer cancel()

	recorder := metrics.NewPrometheusRecorder(nil)
	gen, err := staticgen.New(generatorConfig(cfg),
		staticgen.WithLogger(log),
		staticgen.WithRecorder(recorder))
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := gen.Delete(ctx, resource.Paths(paths...)...)
	return finish(runReport{
		operation:  "delete",
		config:     cfg,
		serverName: gen.ServerName(),
		results:    results,
		elapsed:    time.Since(start),
		recorder:   recorder,
		log:        log,
	}, err)
}

// Run executes the resolve command.
func (cmd *ResolveCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig(nil)
	if err != nil {
		return err
	}
	for _, p := range cmd.Paths {
		loc := resolver.Resolve(cfg.WebRoot, p)
		if !resolver.Contains(cfg.WebRoot, loc.FilePath) {
			fmt.Fprintf(g.stdout, "%s\t%s\n", p, l10n.T("(outside the web root)"))
			continue
		}
		fmt.Fprintf(g.stdout, "%s\t%s\n", p, loc.FilePath)
	}
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run(g *Globals) error {
	fmt.Fprintln(g.stdout, l10n.F("staticgen version %s", version))
	return nil
}

func (f *BatchFlags) apply(cfg *config.Config) {
	if f.CollectErrors {
		cfg.Batch.Mode = string(batch.ModeCollectAll)
	}
	if f.Workers != nil {
		cfg.Batch.Workers = *f.Workers
	}
	if f.Summary != "" {
		cfg.SummaryFile = f.Summary
	}
	if f.MetricsFile != "" {
		cfg.MetricsFile = f.MetricsFile
	}
}

// collectPaths returns args followed by the paths listed in FromFile.
func (f *BatchFlags) collectPaths(args []string, stdin io.Reader) ([]string, error) {
	paths := append([]string(nil), args...)
	if f.FromFile != "" {
		var r io.Reader = stdin
		if f.FromFile != "-" {
			file, err := os.Open(f.FromFile)
			if err != nil {
				return nil, fmt.Errorf("open path list: %w", err)
			}
			defer file.Close()
			r = file
		}
		listed, err := readPathList(r)
		if err != nil {
			return nil, err
		}
		paths = append(paths, listed...)
	}
	if len(paths) == 0 {
		return nil, errors.New(l10n.T("no paths given"))
	}
	return paths, nil
}

func generatorConfig(cfg config.Config) staticgen.Config {
	b := cfg.ToBatchConfig()
	return staticgen.Config{
		WebRoot:    cfg.WebRoot,
		ServerName: cfg.ServerName,
		Mode:       b.Mode,
		Workers:    b.Workers,
	}
}
