package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/newbdez33/freee-checkin/internal/holiday"
	"github.com/newbdez33/freee-checkin/internal/script"
)

// ErrLogin is returned by the runner when the login procedure fails.
var ErrLogin = errors.New("login failed")

// State is the lifecycle position of a Runner
type State int

const (
	StateIdle State = iota
	StateRunning
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Status is how a run ended
type Status string

const (
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Report summarizes a run
type Report struct {
	Status  Status
	Holiday string // Name of the day off when Status is skipped
	Actions int    // Actions attempted
	Failed  int    // Actions that returned false
	Unknown int    // Actions of an unknown type
}

// RunnerOptions configures a Runner
type RunnerOptions struct {
	Interpreter *Interpreter
	Launch      Launcher
	Calendar    holiday.Calendar                 // Defaults to holiday.None
	Now         func() time.Time                 // Clock for the holiday guard
	LookupEnv   func(string) (string, bool)      // Source of credential overrides, defaults to os.LookupEnv
	Logger      *slog.Logger
	OnAction    func(i, total int, action script.Action, ok bool) // Progress callback, optional
}

// Runner executes a script: holiday guard, login, then every action in order
type Runner struct {
	opts  RunnerOptions
	state State
}

// NewRunner creates a Runner.
func NewRunner(opts RunnerOptions) *Runner {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Interpreter == nil {
		opts.Interpreter = NewInterpreter(Options{Logger: opts.Logger})
	}
	if opts.Calendar == nil {
		opts.Calendar = holiday.None{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}
	return &Runner{opts: opts}
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	return r.state
}

// RunFile loads the config at path and runs it. A config that cannot be
// loaded fails the run before any browser is started.
func (r *Runner) RunFile(ctx context.Context, path string) (*Report, error) {
	if rep, skip := r.holidayGuard(); skip {
		return rep, nil
	}
	cfg, err := script.Load(path)
	if err != nil {
		r.state = StateTerminated
		return &Report{Status: StatusFailed}, err
	}
	return r.execute(ctx, cfg)
}

// Run runs an already parsed config.
func (r *Runner) Run(ctx context.Context, cfg *script.Config) (*Report, error) {
	if rep, skip := r.holidayGuard(); skip {
		return rep, nil
	}
	return r.execute(ctx, cfg)
}

func (r *Runner) holidayGuard() (*Report, bool) {
	name, ok := r.opts.Calendar.IsHoliday(r.opts.Now())
	if !ok {
		return nil, false
	}
	r.opts.Logger.Info("today is a day off, skipping run", "holiday", name)
	r.state = StateTerminated
	return &Report{Status: StatusSkipped, Holiday: name}, true
}

func (r *Runner) execute(ctx context.Context, cfg *script.Config) (rep *Report, err error) {
	r.state = StateRunning
	rep = &Report{Status: StatusFailed}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("unexpected failure: %v", p)
		}
		if err != nil {
			rep.Status = StatusFailed
			r.opts.Logger.Error("script failed", "error", err)
		}
		r.state = StateTerminated
	}()

	cfg.ApplySecrets(r.opts.LookupEnv)

	session, err := r.opts.Launch(ctx)
	if err != nil {
		return rep, fmt.Errorf("failed to start browser: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			r.opts.Logger.Warn("failed to close browser", "error", cerr)
		}
	}()

	in := r.opts.Interpreter
	if cfg.Login != nil {
		if res := in.Login(session, *cfg.Login); !res.OK() {
			return rep, fmt.Errorf("%w at %s: %v", ErrLogin, res.Step, res.Err)
		}
	}

	total := len(cfg.Actions)
	if total > 0 {
		r.opts.Logger.Info("performing actions", "count", total)
	}
	for i, action := range cfg.Actions {
		if err := ctx.Err(); err != nil {
			return rep, fmt.Errorf("run interrupted: %w", err)
		}
		rep.Actions++
		if !action.Type.Known() {
			rep.Unknown++
		}
		ok := in.Perform(session, action)
		if !ok {
			rep.Failed++
		}
		if r.opts.OnAction != nil {
			r.opts.OnAction(i, total, action, ok)
		}
	}

	rep.Status = StatusCompleted
	r.opts.Logger.Info("script completed", "actions", rep.Actions, "failed", rep.Failed)
	return rep, nil
}
