package executor

import (
	"fmt"

	"github.com/newbdez33/freee-checkin/internal/browser"
	"github.com/newbdez33/freee-checkin/internal/script"
)

// LoginStep names the step of the login procedure that failed
type LoginStep string

const (
	StepNavigate     LoginStep = "navigate"
	StepFillUsername LoginStep = "fill username"
	StepFillPassword LoginStep = "fill password"
	StepSubmit       LoginStep = "submit"
)

// LoginResult is the outcome of Login. A zero Err means success.
type LoginResult struct {
	Step LoginStep
	Err  error
}

// OK reports whether the login form was submitted.
func (r LoginResult) OK() bool { return r.Err == nil }

func (r LoginResult) String() string {
	if r.OK() {
		return "ok"
	}
	return fmt.Sprintf("%s: %v", r.Step, r.Err)
}

// Login navigates to the login page, fills in the credentials, submits the
// form and waits for the resulting page to settle. The first failing step
// stops the procedure.
func (in *Interpreter) Login(s Session, login script.Login) (res LoginResult) {
	step := StepNavigate
	defer func() {
		if r := recover(); r != nil {
			res = LoginResult{Step: step, Err: fmt.Errorf("unexpected failure: %v", r)}
		}
		if !res.OK() {
			in.logger.Error("login failed", "step", res.Step, "error", res.Err)
		}
	}()

	if login.URL == "" {
		return LoginResult{Step: step, Err: fmt.Errorf("login url is empty")}
	}
	in.logger.Info("navigating to login page", "url", login.URL)
	if err := s.Goto(login.URL); err != nil {
		return LoginResult{Step: step, Err: err}
	}

	sel := login.Selectors.WithDefaults()

	in.logger.Info("filling login form")
	step = StepFillUsername
	if err := s.Fill(sel.Username, login.Username); err != nil {
		return LoginResult{Step: step, Err: err}
	}
	step = StepFillPassword
	if err := s.Fill(sel.Password, login.Password); err != nil {
		return LoginResult{Step: step, Err: err}
	}

	in.logger.Info("submitting login form")
	step = StepSubmit
	if err := s.Click(sel.Submit, browser.ClickOptions{}); err != nil {
		return LoginResult{Step: step, Err: err}
	}

	if err := s.WaitForLoadState(browser.LoadStateDOMContentLoaded, in.policy.LoginLoadTimeout); err != nil {
		in.logger.Warn("load state timeout, continuing", "error", err)
	}
	// Client side redirects after login are not observable, give them time.
	s.WaitForTimeout(in.policy.LoginSettleDelay)

	in.logger.Info("login completed")
	return LoginResult{}
}
