package executor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/newbdez33/freee-checkin/internal/browser"
	"github.com/newbdez33/freee-checkin/internal/script"
)

// Timing constants of the click and login policies
const (
	NotReadyDelay    = 3000 * time.Millisecond  // Extra wait before clicking an element that is hidden or disabled
	ClickTimeout     = 10000 * time.Millisecond // Bound of the regular click attempt
	LoginLoadTimeout = 15000 * time.Millisecond // Bound of the post-submit DOMContentLoaded wait
	LoginSettleDelay = 3000 * time.Millisecond  // Unconditional sleep after submitting the login form
)

// Policy holds the timings the interpreter applies
type Policy struct {
	NotReadyDelay    time.Duration
	ClickTimeout     time.Duration
	LoginLoadTimeout time.Duration
	LoginSettleDelay time.Duration
	// WaitSelectorTimeout bounds selector based wait actions. Zero inherits
	// the session default timeout.
	WaitSelectorTimeout time.Duration
}

// DefaultPolicy returns the documented timings.
func DefaultPolicy() Policy {
	return Policy{
		NotReadyDelay:    NotReadyDelay,
		ClickTimeout:     ClickTimeout,
		LoginLoadTimeout: LoginLoadTimeout,
		LoginSettleDelay: LoginSettleDelay,
	}
}

// Options configures an Interpreter
type Options struct {
	Policy Policy
	Logger *slog.Logger
	Now    func() time.Time // Clock used for default screenshot names
}

// Interpreter turns actions into session calls
type Interpreter struct {
	policy   Policy
	logger   *slog.Logger
	now      func() time.Time
	lastShot int64
}

// NewInterpreter creates an Interpreter. A zero Policy is replaced by DefaultPolicy.
func NewInterpreter(opts Options) *Interpreter {
	if opts.Policy == (Policy{}) {
		opts.Policy = DefaultPolicy()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Interpreter{
		policy: opts.Policy,
		logger: opts.Logger,
		now:    opts.Now,
	}
}

// Perform executes one action and reports whether it succeeded. It never
// panics: every failure is logged and turned into false. The action's
// settle delay is honored whatever the outcome.
func (in *Interpreter) Perform(s Session, action script.Action) bool {
	err := in.perform(s, action)
	if action.Wait != nil && *action.Wait > 0 {
		s.WaitForTimeout(millis(*action.Wait))
	}
	if err != nil {
		in.logger.Error("action failed", "action", action.Type, "error", err)
		return false
	}
	return true
}

func (in *Interpreter) perform(s Session, action script.Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	switch action.Type {
	case script.ActionClick:
		if action.Selector == "" {
			return fmt.Errorf("click requires a selector")
		}
		return in.click(s, action.Selector)

	case script.ActionFill:
		if action.Selector == "" {
			return fmt.Errorf("fill requires a selector")
		}
		in.logger.Info("filling field", "selector", action.Selector)
		return s.Fill(action.Selector, action.Value)

	case script.ActionNavigate:
		if action.URL == "" {
			return fmt.Errorf("navigate requires a url")
		}
		in.logger.Info("navigating", "url", action.URL)
		return s.Goto(action.URL)

	case script.ActionWait:
		if action.Selector != "" {
			in.logger.Info("waiting for selector", "selector", action.Selector)
			return s.WaitForSelector(action.Selector, browser.WaitOptions{
				State:   browser.StateVisible,
				Timeout: in.policy.WaitSelectorTimeout,
			})
		}
		ms := action.WaitMillis()
		in.logger.Info("waiting", "ms", ms)
		s.WaitForTimeout(millis(ms))
		return nil

	case script.ActionScreenshot:
		path := action.Path
		if path == "" {
			path = in.screenshotPath()
		}
		in.logger.Info("taking screenshot", "path", path)
		return s.Screenshot(browser.ScreenshotOptions{
			Path:     path,
			FullPage: action.FullPage,
			MaxWidth: action.MaxWidth,
		})

	default:
		in.logger.Warn("unknown action type, skipping", "action", action.Type)
		return nil
	}
}

// click waits for the element, gives late-enabling controls extra time and
// falls back to a forced click when the regular one fails.
func (in *Interpreter) click(s Session, selector string) error {
	in.logger.Info("clicking element", "selector", selector)

	if err := s.WaitForSelector(selector, browser.WaitOptions{State: browser.StateVisible}); err != nil {
		return err
	}

	visible, err := s.IsVisible(selector)
	if err != nil {
		return fmt.Errorf("check visibility of %s: %w", selector, err)
	}
	enabled, err := s.IsEnabled(selector)
	if err != nil {
		return fmt.Errorf("check enabled state of %s: %w", selector, err)
	}
	in.logger.Debug("element state", "selector", selector, "visible", visible, "enabled", enabled)

	if !visible || !enabled {
		in.logger.Info("element not ready, waiting", "selector", selector, "delay", in.policy.NotReadyDelay)
		s.WaitForTimeout(in.policy.NotReadyDelay)
	}

	err = s.Click(selector, browser.ClickOptions{Timeout: in.policy.ClickTimeout})
	if err == nil {
		return nil
	}
	in.logger.Warn("regular click failed, trying force click", "selector", selector, "error", err)

	if err := s.Click(selector, browser.ClickOptions{Force: true}); err != nil {
		return fmt.Errorf("force click %s: %w", selector, err)
	}
	return nil
}

// screenshotPath derives a default file name from the clock, bumping the
// stamp so that two captures in the same millisecond do not collide.
func (in *Interpreter) screenshotPath() string {
	stamp := in.now().UnixMilli()
	if stamp <= in.lastShot {
		stamp = in.lastShot + 1
	}
	in.lastShot = stamp
	return fmt.Sprintf("screenshot-%d.png", stamp)
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
