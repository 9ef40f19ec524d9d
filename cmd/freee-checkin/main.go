package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/newbdez33/freee-checkin/internal/browser"
	"github.com/newbdez33/freee-checkin/internal/executor"
	"github.com/newbdez33/freee-checkin/internal/holiday"
	"github.com/newbdez33/freee-checkin/internal/logging"
	"github.com/newbdez33/freee-checkin/internal/script"
)

var version = "1.0.0"

var (
	headless     bool
	slowMo       time.Duration
	width        int
	height       int
	timeout      time.Duration
	waitTimeout  time.Duration
	browserBin   string
	profile      string
	holidaysFile string
	skipWeekends bool
	verbose      bool
	trace        bool

	loginURL      string
	loginUser     string
	loginPassword string
	loginHeadless bool

	exampleOutput string
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "freee-checkin",
		Short:         "Automated website login and actions",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd := &cobra.Command{
		Use:   "run <config>",
		Short: "Run automation script from config file",
		Long: `run launches a browser, logs in with the config's login section and then
performs every action of the script in order.

Credentials can be kept out of the file with the ` + script.EnvUsername + ` and
` + script.EnvPassword + ` environment variables (a .env file is read too).

Example:
  freee-checkin run config.json --holidays holidays.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runScript,
	}
	runCmd.Flags().BoolVar(&headless, "headless", true, "Run the browser without a window")
	runCmd.Flags().DurationVar(&slowMo, "slow-mo", 100*time.Millisecond, "Delay before each browser input")
	runCmd.Flags().StringVar(&holidaysFile, "holidays", "", "Holiday table (YAML) on which the run is skipped")
	runCmd.Flags().BoolVar(&skipWeekends, "skip-weekends", false, "Skip the run on Saturdays and Sundays")
	runCmd.Flags().DurationVar(&waitTimeout, "wait-timeout", 0, "Bound of selector wait actions (default: --timeout)")
	addBrowserFlags(runCmd)

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Simple login to a website",
		Long: `login signs in and leaves the browser open for manual actions until
interrupted with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: runLogin,
	}
	loginCmd.Flags().StringVarP(&loginURL, "url", "u", "", "Website URL")
	loginCmd.Flags().StringVar(&loginUser, "username", "", "Username/Email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password")
	loginCmd.Flags().BoolVar(&loginHeadless, "headless", false, "Run in headless mode")
	_ = loginCmd.MarkFlagRequired("url")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")
	addBrowserFlags(loginCmd)

	exampleCmd := &cobra.Command{
		Use:   "example",
		Short: "Generate example config file",
		Args:  cobra.NoArgs,
		RunE:  runExample,
	}
	exampleCmd.Flags().StringVarP(&exampleOutput, "output", "o", "config.json", "Output filename (.json, .yaml or .yml)")

	rootCmd.AddCommand(runCmd, loginCmd, exampleCmd)
	return rootCmd
}

func addBrowserFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&width, "width", 1280, "Viewport width")
	cmd.Flags().IntVar(&height, "height", 720, "Viewport height")
	cmd.Flags().DurationVar(&timeout, "timeout", browser.DefaultTimeout, "Default timeout of browser operations")
	cmd.Flags().StringVar(&browserBin, "browser-bin", "", "Chrome/Chromium binary (default: auto-detect)")
	cmd.Flags().StringVar(&profile, "profile", "", "Chrome/Chromium profile directory for authenticated sessions (close browser first)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")
	cmd.Flags().BoolVar(&trace, "trace", false, "Log every browser protocol call")
}

func browserOptions(headless bool) browser.Options {
	return browser.Options{
		Headless:   headless,
		SlowMotion: slowMo,
		Width:      width,
		Height:     height,
		Timeout:    timeout,
		Bin:        browserBin,
		ProfileDir: profile,
		Trace:      trace,
	}
}

func runScript(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	logger := logging.Init(verbose)

	calendar, err := loadCalendar()
	if err != nil {
		color.Red("✗ %v", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	policy := executor.DefaultPolicy()
	policy.WaitSelectorTimeout = waitTimeout

	runner := executor.NewRunner(executor.RunnerOptions{
		Interpreter: executor.NewInterpreter(executor.Options{Policy: policy, Logger: logger}),
		Launch:      executor.BrowserLauncher(browserOptions(headless)),
		Calendar:    calendar,
		Logger:      logger,
		OnAction:    logAction,
	})

	fmt.Printf("→ Running %s\n", configPath)
	report, err := runner.RunFile(ctx, configPath)
	if err != nil {
		color.Red("✗ Script failed: %v", err)
		return err
	}

	switch report.Status {
	case executor.StatusSkipped:
		color.Yellow("⚠ Skipped: today is %s", report.Holiday)
	default:
		if report.Failed > 0 {
			color.Yellow("⚠ Script completed with %d of %d actions failed", report.Failed, report.Actions)
		} else {
			color.Green("✓ Script completed successfully!")
		}
	}
	return nil
}

func loadCalendar() (holiday.Calendar, error) {
	if holidaysFile == "" {
		if skipWeekends {
			return holiday.NewTable(nil, true)
		}
		return holiday.None{}, nil
	}
	table, err := holiday.Load(holidaysFile)
	if err != nil {
		return nil, err
	}
	if skipWeekends {
		table = table.WithWeekends()
	}
	return table, nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	logger := logging.Init(verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := browser.Launch(ctx, browserOptions(loginHeadless))
	if err != nil {
		color.Red("✗ %v", err)
		return err
	}
	defer func() { _ = session.Close() }()

	in := executor.NewInterpreter(executor.Options{Logger: logger})
	res := in.Login(session, script.Login{URL: loginURL, Username: loginUser, Password: loginPassword})
	if !res.OK() {
		color.Red("✗ Login failed: %s", res)
	} else {
		color.Green("✓ Login completed. Browser will remain open for manual actions.")
	}
	color.Yellow("Press Ctrl+C to exit.")

	<-ctx.Done()
	logger.Debug("closing browser")
	return nil
}

func runExample(cmd *cobra.Command, args []string) error {
	if err := script.WriteExample(exampleOutput); err != nil {
		color.Red("✗ %v", err)
		return err
	}
	color.Green("✓ Example config file created: %s", exampleOutput)
	color.Yellow("Edit the config file with your website details and run: freee-checkin run %s", exampleOutput)
	return nil
}

// logAction prints the outcome of one action
func logAction(i, total int, action script.Action, ok bool) {
	mark := color.GreenString("✓")
	if !ok {
		mark = color.RedString("✗")
	}
	fmt.Printf("  [%d/%d] %s %s\n", i+1, total, action.Describe(), mark)
}
