package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/AbigailEBurns/EarningsDateUpdater/internal/config"
	"github.com/AbigailEBurns/EarningsDateUpdater/internal/earnings"
	"github.com/AbigailEBurns/EarningsDateUpdater/pkg/contracts/domain"
)

// hideWebdriver runs before any page script so the site cannot detect automation
const hideWebdriver = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`

// Browser fetches earnings pages through chromedp
type Browser struct {
	cfg       config.ScraperConfig
	extractor *Extractor
	logger    *slog.Logger
}

// NewBrowser validates the selectors and returns a Browser for cfg
func NewBrowser(cfg config.ScraperConfig, logger *slog.Logger) (*Browser, error) {
	extractor, err := NewExtractor(cfg.TopSelector, cfg.BottomSelector)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Browser{
		cfg:       cfg,
		extractor: extractor,
		logger:    logger.With(slog.String("component", "scraper")),
	}, nil
}

// PageURL returns the earnings page address for ticker
func PageURL(baseURL, ticker string) string {
	return fmt.Sprintf(baseURL, url.PathEscape(ticker))
}

// allocatorOptions builds the Chrome flags for one session
func (b *Browser) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption(nil), chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", b.cfg.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.DisableGPU,
	)
	if b.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(b.cfg.UserAgent))
	}
	if b.cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if b.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.cfg.ExecPath))
	}
	return opts
}

// Fetch opens the ticker's page in a new browser and returns both candidates.
// A candidate element that never appears within PageTimeout is reported as "".
func (b *Browser) Fetch(ctx context.Context, ticker string) (domain.Candidates, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return domain.Candidates{}, earnings.NewRetrievalError(ticker, earnings.StageNavigate, earnings.ErrEmptyTicker)
	}

	target := PageURL(b.cfg.BaseURL, ticker)
	logger := b.logger.With(slog.String("ticker", ticker))
	start := time.Now()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, b.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// The first Run starts Chrome and ties it to browserCtx, so it must not
	// carry the navigation deadline.
	if err := chromedp.Run(browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(hideWebdriver).Do(ctx)
		return err
	})); err != nil {
		return domain.Candidates{}, earnings.NewRetrievalError(ticker, earnings.StageNavigate, fmt.Errorf("start browser: %w", err))
	}

	navCtx, cancelNav := context.WithTimeout(browserCtx, b.cfg.NavigationTimeout)
	err := chromedp.Run(navCtx, chromedp.Navigate(target))
	cancelNav()
	if err != nil {
		logger.DebugContext(ctx, "Navigation failed", slog.String("url", target), slog.String("error", err.Error()))
		return domain.Candidates{}, earnings.NewRetrievalError(ticker, earnings.StageNavigate, err)
	}

	for _, sel := range []string{b.cfg.TopSelector, b.cfg.BottomSelector} {
		if err := b.waitFor(browserCtx, sel); err != nil {
			if ctx.Err() != nil {
				return domain.Candidates{}, earnings.NewRetrievalError(ticker, earnings.StageRender, ctx.Err())
			}
			logger.DebugContext(ctx, "Candidate element not found", slog.String("selector", sel))
		}
	}

	var html string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return domain.Candidates{}, earnings.NewRetrievalError(ticker, earnings.StageRender, err)
	}

	candidates, err := b.extractor.Extract(html)
	if err != nil {
		return domain.Candidates{}, earnings.NewRetrievalError(ticker, earnings.StageExtract, err)
	}

	logger.DebugContext(ctx, "Earnings page retrieved",
		slog.String("url", target),
		slog.String("top", candidates.Top),
		slog.String("bottom", candidates.Bottom),
		slog.Duration("duration", time.Since(start)))

	return candidates, nil
}

// waitFor blocks until sel is in the DOM or PageTimeout elapses
func (b *Browser) waitFor(ctx context.Context, sel string) error {
	waitCtx, cancel := context.WithTimeout(ctx, b.cfg.PageTimeout)
	defer cancel()

	return chromedp.Run(waitCtx, chromedp.WaitReady(sel, chromedp.ByQuery))
}
