package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// Default timing for page interactions.
const (
	defaultNavTimeout  = 60 * time.Second
	defaultActTimeout  = 15 * time.Second
	defaultSettleDelay = 2 * time.Second
)

// Options configures the Chrome process behind a Session.
type Options struct {
	// Headless hides the browser window. Interactive hand-offs (CAPTCHA,
	// login walls) need a visible browser.
	Headless bool
	// ExecPath overrides the Chrome executable to launch.
	ExecPath string
	// UserDataDir persists cookies/sessions between runs when set.
	UserDataDir string
	// NavTimeout bounds a single navigation (default 60s).
	NavTimeout time.Duration
	// SettleDelay is the post-ready pause for scripted pages (default 2s).
	SettleDelay time.Duration
}

// Session is a running Chrome instance with one active tab.
type Session struct {
	parent context.Context
	opts   Options

	mu          sync.Mutex
	ctx         context.Context
	cancelAlloc context.CancelFunc
	cancelTab   context.CancelFunc
}

// NewSession launches Chrome. The caller owns the session and must Close it.
func NewSession(parent context.Context, opts Options) (*Session, error) {
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = defaultNavTimeout
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = defaultSettleDelay
	}
	s := &Session{parent: parent, opts: opts}
	if err := s.start(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) start() error {
	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if s.opts.ExecPath != "" {
		execOpts = append(execOpts, chromedp.ExecPath(s.opts.ExecPath))
	}
	if s.opts.UserDataDir != "" {
		execOpts = append(execOpts, chromedp.UserDataDir(s.opts.UserDataDir))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(s.parent, execOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Launch the browser eagerly so startup failures surface here.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	s.mu.Lock()
	s.ctx = tabCtx
	s.cancelAlloc = cancelAlloc
	s.cancelTab = cancelTab
	s.mu.Unlock()
	return nil
}

// Restart tears the browser down and launches a fresh one. Called by the
// pipeline after a navigation error that suggests a dead browser.
func (s *Session) Restart() error {
	s.stop()
	return s.start()
}

// Close shuts the browser down.
func (s *Session) Close() {
	s.stop()
}

func (s *Session) stop() {
	s.mu.Lock()
	cancelTab, cancelAlloc := s.cancelTab, s.cancelAlloc
	s.cancelTab, s.cancelAlloc, s.ctx = nil, nil, nil
	s.mu.Unlock()

	if cancelTab != nil {
		cancelTab()
	}
	if cancelAlloc != nil {
		cancelAlloc()
	}
}

// run executes actions against the live tab, bounded by timeout and by the
// caller's context.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	s.mu.Lock()
	tabCtx := s.ctx
	s.mu.Unlock()
	if tabCtx == nil {
		return fmt.Errorf("browser session is closed")
	}

	runCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// Navigate implements Page.
func (s *Session) Navigate(ctx context.Context, url string) error {
	err := s.run(ctx, s.opts.NavTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.opts.SettleDelay),
	)
	if err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// Location implements Page.
func (s *Session) Location(ctx context.Context) (string, error) {
	var url string
	if err := s.run(ctx, defaultActTimeout, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return url, nil
}

// BodyText implements Page.
func (s *Session) BodyText(ctx context.Context) (string, error) {
	var text string
	if err := s.run(ctx, defaultActTimeout, chromedp.Text("body", &text, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read body text: %w", err)
	}
	return text, nil
}

// HTML implements Page.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, defaultActTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read page html: %w", err)
	}
	return html, nil
}

// Exists implements Page.
func (s *Session) Exists(ctx context.Context, selector string) (bool, error) {
	var found bool
	err := s.run(ctx, defaultActTimeout,
		chromedp.Evaluate(fmt.Sprintf(`!!document.querySelector(%q)`, selector), &found))
	if err != nil {
		return false, fmt.Errorf("selector probe failed: %w", err)
	}
	return found, nil
}

// ClickSelector implements Page.
func (s *Session) ClickSelector(ctx context.Context, selector string) error {
	err := s.run(ctx, defaultActTimeout,
		chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible),
		chromedp.Sleep(s.opts.SettleDelay),
	)
	if err != nil {
		return fmt.Errorf("click on %s failed: %w", selector, err)
	}
	return nil
}
