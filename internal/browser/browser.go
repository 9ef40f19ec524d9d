package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultTimeout bounds every element lookup and navigation that has no explicit timeout
const DefaultTimeout = 30 * time.Second

const closeTimeout = 5 * time.Second

// Options configures the browser launch
type Options struct {
	Headless   bool
	SlowMotion time.Duration // Delay inserted before each input or navigation step
	Width      int
	Height     int
	Timeout    time.Duration // Default per-operation timeout
	Bin        string        // Browser binary, looked up (or downloaded) when empty
	ProfileDir string        // Chrome/Chromium profile directory for authenticated sessions
	Trace      bool          // Log every CDP operation rod performs
}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = 1280
	}
	if o.Height == 0 {
		o.Height = 720
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// LoadState is a page lifecycle milestone to wait for
type LoadState string

const (
	LoadStateDOMContentLoaded LoadState = "domcontentloaded"
	LoadStateLoad             LoadState = "load"
)

// ElementState is the condition WaitForSelector waits for
type ElementState string

const (
	StateAttached ElementState = "attached"
	StateVisible  ElementState = "visible"
)

// ClickOptions tunes a single click
type ClickOptions struct {
	Timeout time.Duration // Zero uses the session default
	Force   bool          // Skip actionability checks and dispatch the click from page script
}

// WaitOptions tunes WaitForSelector
type WaitOptions struct {
	State   ElementState
	Timeout time.Duration // Zero uses the session default
}

// ScreenshotOptions configures a capture
type ScreenshotOptions struct {
	Path     string
	FullPage bool
	MaxWidth uint // Downscale to this width when the capture is wider, zero keeps the original size
}

// Session wraps the Rod browser and its single page
type Session struct {
	ctx      context.Context
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	timeout  time.Duration
	keepDir  bool
	closed   bool
}

// Launch starts a browser bound to ctx and opens a blank page.
// Cancelling ctx abandons any operation in flight.
func Launch(ctx context.Context, opts Options) (*Session, error) {
	opts = opts.withDefaults()

	bin := opts.Bin
	if bin == "" {
		if path, has := launcher.LookPath(); has {
			bin = path
		}
	}

	l := launcher.New().Context(ctx).Headless(opts.Headless)
	if bin != "" {
		l = l.Bin(bin)
	}
	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().Context(ctx).ControlURL(u).SlowMotion(opts.SlowMotion).Trace(opts.Trace)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	return &Session{
		ctx:      ctx,
		launcher: l,
		browser:  browser,
		page:     page,
		timeout:  opts.Timeout,
		keepDir:  opts.ProfileDir != "",
	}, nil
}

// Page returns the underlying Rod page
func (s *Session) Page() *rod.Page {
	return s.page
}

// Close cleans up browser resources. Only the first call has an effect.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.page != nil {
		_ = s.page.Close()
	}
	var err error
	if s.browser != nil {
		// The run context may already be cancelled, close over a fresh one.
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		err = s.browser.Context(ctx).Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
		// A user supplied profile directory must survive the session.
		if !s.keepDir {
			s.launcher.Cleanup()
		}
	}
	return err
}

func (s *Session) bounded(d time.Duration) *rod.Page {
	if d <= 0 {
		d = s.timeout
	}
	return s.page.Timeout(d)
}

// Goto navigates to url and waits for the load event.
func (s *Session) Goto(url string) error {
	p := s.bounded(0)
	defer p.CancelTimeout()

	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	return nil
}

// Fill replaces the value of the matching field without simulating keystrokes.
func (s *Session) Fill(selector, value string) error {
	p := s.bounded(0)
	defer p.CancelTimeout()

	el, err := find(p, selector)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	return nil
}

// Click clicks the matching element.
func (s *Session) Click(selector string, opts ClickOptions) error {
	p := s.bounded(opts.Timeout)
	defer p.CancelTimeout()

	el, err := find(p, selector)
	if err != nil {
		return err
	}
	if opts.Force {
		return forceClick(el)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

// forceClick dispatches the mouse event sequence from page script, so
// overlays, disabled styling and pending animations do not block it.
func forceClick(el *rod.Element) error {
	_, err := el.Eval(`() => {
		try { this.focus(); } catch (e) {}
		for (const type of ['mousedown', 'mouseup', 'click']) {
			this.dispatchEvent(new MouseEvent(type, {bubbles: true, cancelable: true, view: window}));
		}
	}`)
	if err != nil {
		return fmt.Errorf("force click: %w", err)
	}
	return nil
}

// WaitForSelector blocks until the selector matches, and is visible when opts asks for it.
func (s *Session) WaitForSelector(selector string, opts WaitOptions) error {
	p := s.bounded(opts.Timeout)
	defer p.CancelTimeout()

	el, err := find(p, selector)
	if err != nil {
		return err
	}
	if opts.State == StateVisible {
		if err := el.WaitVisible(); err != nil {
			return fmt.Errorf("wait visible %s: %w", selector, err)
		}
	}
	return nil
}

// WaitForTimeout sleeps for d, returning early when the session context ends.
func (s *Session) WaitForTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-s.ctx.Done():
	}
}

// WaitForLoadState waits until the current document reaches state.
func (s *Session) WaitForLoadState(state LoadState, timeout time.Duration) error {
	p := s.bounded(timeout)
	defer p.CancelTimeout()

	var err error
	switch state {
	case LoadStateDOMContentLoaded:
		err = p.Wait(rod.Eval(`() => document.readyState !== 'loading'`))
	case LoadStateLoad:
		err = p.WaitLoad()
	default:
		return fmt.Errorf("unsupported load state: %s", state)
	}
	if err != nil {
		return fmt.Errorf("wait for %s: %w", state, err)
	}
	return nil
}

// IsVisible reports whether the selector currently matches a visible element.
// A missing element is not visible.
func (s *Session) IsVisible(selector string) (bool, error) {
	p := s.bounded(0)
	defer p.CancelTimeout()

	el, has, err := lookup(p, selector)
	if err != nil || !has {
		return false, err
	}
	return el.Visible()
}

// IsEnabled reports whether the element matching selector is enabled.
func (s *Session) IsEnabled(selector string) (bool, error) {
	p := s.bounded(0)
	defer p.CancelTimeout()

	el, has, err := lookup(p, selector)
	if err != nil {
		return false, err
	}
	if !has {
		return false, fmt.Errorf("element not found: %s", selector)
	}
	disabled, err := el.Disabled()
	if err != nil {
		return false, err
	}
	return !disabled, nil
}

// Screenshot captures the page as PNG to opts.Path.
func (s *Session) Screenshot(opts ScreenshotOptions) error {
	p := s.bounded(0)
	defer p.CancelTimeout()

	data, err := p.Screenshot(opts.FullPage, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}
	return writePNG(opts.Path, data, opts.MaxWidth)
}
