// Package chromebrowser provides a browser implementation using chromedp.
package chromebrowser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/user/staticgen/pkg/ports"
)

// Browser implements ports.Browser using chromedp. Each Render opens its own
// tab, so concurrent renders are independent.
type Browser struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc

	headers network.Headers
	timeout time.Duration
}

// New creates a new Browser.
func New() *Browser {
	return &Browser{}
}

// Launch starts the browser with the given options.
func (b *Browser) Launch(ctx context.Context, opts ports.BrowserOptions) error {
	chromedpOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("metrics-recording-only", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("safebrowsing-disable-auto-update", true),
	}

	if opts.Headless {
		chromedpOpts = append(chromedpOpts, chromedp.Flag("headless", "new"))
	}

	// CLI option, then CHROME_PATH, then system defaults
	chromePath := ResolveChromePath(opts.ChromePath)
	if chromePath == "" {
		return fmt.Errorf("chrome not found: please install Chrome/Chromium, set CHROME_PATH environment variable, or use --chrome-path option")
	}
	chromedpOpts = append(chromedpOpts, chromedp.ExecPath(chromePath))

	if opts.Incognito {
		chromedpOpts = append(chromedpOpts, chromedp.Flag("incognito", true))
	}
	if opts.UserAgent != "" {
		chromedpOpts = append(chromedpOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		chromedpOpts = append(chromedpOpts, chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight))
	}
	if opts.IgnoreHTTPSErrors {
		chromedpOpts = append(chromedpOpts,
			chromedp.Flag("ignore-certificate-errors", true),
			chromedp.Flag("ignore-certificate-errors-spki-list", true),
			chromedp.Flag("allow-insecure-localhost", true))
	}
	if opts.ProxyServer != "" {
		chromedpOpts = append(chromedpOpts, chromedp.Flag("proxy-server", opts.ProxyServer))
	}

	// Server, background and container execution
	chromedpOpts = append(chromedpOpts,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-software-rasterizer", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-namespace-sandbox", true),
		chromedp.Flag("disable-seccomp-filter-sandbox", true),
		chromedp.Flag("no-zygote", true),
	)

	if len(opts.Headers) > 0 {
		b.headers = make(network.Headers, len(opts.Headers))
		for k, v := range opts.Headers {
			b.headers[k] = v
		}
	}
	b.timeout = opts.RenderTimeout

	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(ctx, chromedpOpts...)
	b.ctx, b.cancel = chromedp.NewContext(b.allocCtx)

	// Start the browser now so tabs opened by Render share it.
	if err := chromedp.Run(b.ctx); err != nil {
		b.Close()
		return fmt.Errorf("start browser: %w", err)
	}
	return nil
}

// Render loads url in a fresh tab and returns the serialized document. The
// tab is closed as soon as ctx is done.
func (b *Browser) Render(ctx context.Context, url string) (*ports.RenderedPage, error) {
	if b.ctx == nil {
		return nil, fmt.Errorf("browser not launched")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Tabs must descend from the browser context; ctx only bounds their life.
	tabCtx, cancelTab := chromedp.NewContext(b.ctx)
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()
	if b.timeout > 0 {
		var cancelTimeout context.CancelFunc
		tabCtx, cancelTimeout = context.WithTimeout(tabCtx, b.timeout)
		defer cancelTimeout()
	}

	if len(b.headers) > 0 {
		if err := chromedp.Run(tabCtx, network.Enable(), network.SetExtraHTTPHeaders(b.headers)); err != nil {
			return nil, fmt.Errorf("set headers: %w", err)
		}
	}

	resp, err := chromedp.RunResponse(tabCtx, chromedp.Navigate(url))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}

	rendered := &ports.RenderedPage{URL: url}
	if resp != nil {
		rendered.StatusCode = int(resp.Status)
	}
	if err := chromedp.Run(tabCtx,
		chromedp.Title(&rendered.Title),
		chromedp.Location(&rendered.URL),
		chromedp.OuterHTML("html", &rendered.HTML, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return rendered, nil
}

// Close shuts down the browser.
func (b *Browser) Close() error {
	if b.cancel != nil {
		b.cancel()
	}

	// Give Chrome a moment to shut down gracefully, then force kill
	time.Sleep(100 * time.Millisecond)

	if b.allocCancel != nil {
		b.allocCancel()
	}
	return nil
}

// Ensure Browser implements ports.Browser
var _ ports.Browser = (*Browser)(nil)
