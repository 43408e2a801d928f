package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/user/staticgen/pkg/adapters/chromebrowser"
	"github.com/user/staticgen/pkg/adapters/chromefetcher"
	"github.com/user/staticgen/pkg/adapters/httpfetcher"
	"github.com/user/staticgen/pkg/adapters/logger"
	"github.com/user/staticgen/pkg/batch"
	"github.com/user/staticgen/pkg/config"
	"github.com/user/staticgen/pkg/metrics"
	"github.com/user/staticgen/pkg/ports"
	"github.com/user/staticgen/pkg/summarizer"
)

// loadConfig layers defaults, the config file, global flags and the
// command's overrides, then validates the result.
func (g *Globals) loadConfig(override func(*config.Config)) (config.Config, error) {
	cfg := config.Defaults()
	if g.Config != "" {
		loaded, err := config.LoadFromFile(g.Config)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if g.WebRoot != "" {
		cfg.WebRoot = g.WebRoot
	}
	if g.ServerName != "" {
		cfg.ServerName = g.ServerName
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if override != nil {
		override(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (g *Globals) newLogger(cfg config.Config) ports.Logger {
	if g.Quiet {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
}

// newFetcher builds the configured content fetcher. The returned func
// releases its resources.
func newFetcher(ctx context.Context, cfg config.Config, log ports.Logger) (ports.ContentFetcher, func(), error) {
	serverName, _ := cfg.ResolveServerName()

	switch cfg.Fetcher {
	case config.FetcherChrome:
		opts := cfg.ToBrowserOptions()
		if opts.Headless {
			log.Info("Launching browser in headless mode")
		} else {
			log.Info("Launching browser in visible mode")
		}
		browser := chromebrowser.New()
		if err := browser.Launch(ctx, opts); err != nil {
			return nil, nil, fmt.Errorf("launch browser: %w", err)
		}
		fetcher, err := chromefetcher.New(browser, cfg.BaseURL, chromefetcher.WithLogger(log))
		if err != nil {
			browser.Close()
			return nil, nil, err
		}
		return fetcher, func() {
			browser.Close()
			log.Debug("Browser closed")
		}, nil

	default:
		fetcher, err := httpfetcher.New(cfg.BaseURL,
			httpfetcher.WithServerName(serverName),
			httpfetcher.WithHeaders(cfg.Headers),
			httpfetcher.WithTimeout(cfg.Timeout()),
			httpfetcher.WithLogger(log))
		if err != nil {
			return nil, nil, err
		}
		return fetcher, func() {}, nil
	}
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// readPathList reads one path per line. Blank lines and lines starting
// with # are skipped.
func readPathList(r io.Reader) ([]string, error) {
	var paths []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read path list: %w", err)
	}
	return paths, nil
}

// readContent reads a file, or stdin for "-". The result is never nil so
// that an empty file publishes an empty page instead of rendering.
func readContent(path string, stdin io.Reader) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

type runReport struct {
	operation  string
	config     config.Config
	serverName string
	results    []batch.Result
	elapsed    time.Duration
	recorder   *metrics.PrometheusRecorder
	log        ports.Logger
}

// finish writes the optional summary and metrics files and returns runErr,
// joined with any output error.
func finish(r runReport, runErr error) error {
	var errs []error
	if runErr != nil {
		errs = append(errs, runErr)
	}

	if path := r.config.SummaryFile; path != "" {
		summary := summarizer.NewBuilder().
			WithOperation(r.operation).
			WithTarget(r.config.WebRoot, r.serverName).
			WithBatch(r.config.ToBatchConfig()).
			WithDuration(r.elapsed).
			WithResults(r.results).
			Build()
		if err := summarizer.NewWriter(summarizer.ForPath(path)).Write(path, summary); err != nil {
			errs = append(errs, fmt.Errorf("write summary: %w", err))
		} else {
			r.log.Info("Summary saved to %s", path)
		}
	}

	if path := r.config.MetricsFile; path != "" {
		if err := r.recorder.WriteTextfile(path); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		} else {
			r.log.Info("Metrics saved to %s", path)
		}
	}

	if runErr != nil {
		r.log.Error("%s failed: %s", r.operation, runErr)
	}
	return errors.Join(errs...)
}
