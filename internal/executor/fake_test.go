package executor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/newbdez33/freee-checkin/internal/browser"
)

var errNotFound = errors.New("element not found")

// fakeSession records every call and fails the ones listed in errs,
// keyed by "method" or "method selector".
type fakeSession struct {
	calls    []string
	sleeps   []time.Duration
	errs     map[string]error
	hidden   map[string]bool
	disabled map[string]bool
	closed   int
	panicOn  string
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		errs:     map[string]error{},
		hidden:   map[string]bool{},
		disabled: map[string]bool{},
	}
}

func (f *fakeSession) record(method, arg string) error {
	call := method
	if arg != "" {
		call = method + " " + arg
	}
	f.calls = append(f.calls, call)
	if f.panicOn != "" && f.panicOn == call {
		panic("boom")
	}
	if err, ok := f.errs[call]; ok {
		return err
	}
	return f.errs[method]
}

func (f *fakeSession) Goto(url string) error { return f.record("goto", url) }

func (f *fakeSession) Fill(selector, value string) error {
	return f.record("fill", selector+"="+value)
}

func (f *fakeSession) Click(selector string, opts browser.ClickOptions) error {
	if opts.Force {
		return f.record("force-click", selector)
	}
	return f.record("click", fmt.Sprintf("%s timeout=%s", selector, opts.Timeout))
}

func (f *fakeSession) WaitForSelector(selector string, opts browser.WaitOptions) error {
	return f.record("wait-selector", fmt.Sprintf("%s state=%s timeout=%s", selector, opts.State, opts.Timeout))
}

func (f *fakeSession) WaitForTimeout(d time.Duration) {
	f.sleeps = append(f.sleeps, d)
	_ = f.record("sleep", d.String())
}

func (f *fakeSession) WaitForLoadState(state browser.LoadState, timeout time.Duration) error {
	return f.record("load-state", fmt.Sprintf("%s timeout=%s", state, timeout))
}

func (f *fakeSession) Screenshot(opts browser.ScreenshotOptions) error {
	return f.record("screenshot", opts.Path)
}

func (f *fakeSession) IsVisible(selector string) (bool, error) {
	if err := f.record("is-visible", selector); err != nil {
		return false, err
	}
	return !f.hidden[selector], nil
}

func (f *fakeSession) IsEnabled(selector string) (bool, error) {
	if err := f.record("is-enabled", selector); err != nil {
		return false, err
	}
	return !f.disabled[selector], nil
}

func (f *fakeSession) Close() error {
	f.closed++
	f.calls = append(f.calls, "close")
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestInterpreter(now func() time.Time) *Interpreter {
	return NewInterpreter(Options{Logger: discardLogger(), Now: now})
}
