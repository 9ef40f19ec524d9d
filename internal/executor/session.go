package executor

import (
	"context"
	"time"

	"github.com/newbdez33/freee-checkin/internal/browser"
)

// Session is the browser capability the interpreter drives. *browser.Session implements it.
type Session interface {
	Goto(url string) error
	Fill(selector, value string) error
	Click(selector string, opts browser.ClickOptions) error
	WaitForSelector(selector string, opts browser.WaitOptions) error
	WaitForTimeout(d time.Duration)
	WaitForLoadState(state browser.LoadState, timeout time.Duration) error
	Screenshot(opts browser.ScreenshotOptions) error
	IsVisible(selector string) (bool, error)
	IsEnabled(selector string) (bool, error)
	Close() error
}

// Launcher creates the session of a run.
type Launcher func(ctx context.Context) (Session, error)

// BrowserLauncher returns a Launcher starting a rod browser with opts.
func BrowserLauncher(opts browser.Options) Launcher {
	return func(ctx context.Context) (Session, error) {
		s, err := browser.Launch(ctx, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

var _ Session = (*browser.Session)(nil)
