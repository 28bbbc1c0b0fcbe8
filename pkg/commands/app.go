// Package commands implements the surf CLI: cobra subcommands that drive
// browser sessions through the resilience executors.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/entrhq/surf/pkg/browser"
	"github.com/entrhq/surf/pkg/config"
	"github.com/entrhq/surf/pkg/logging"
	"github.com/entrhq/surf/pkg/resilience"
)

// App carries the state shared by every subcommand: configuration, the
// session logger, the browser session manager, and one retry executor per
// operation class. It is built once in the root command's PersistentPreRunE.
type App struct {
	cfg       *config.Config
	logger    *logging.Logger
	manager   *browser.SessionManager
	allowlist *config.URLAllowlist

	// One executor per operation class; each owns its own circuit breaker.
	connection  *resilience.Executor
	interactive *resilience.Executor
	network     *resilience.Executor
	filesystem  *resilience.Executor

	out io.Writer

	// Flag-level overrides applied on top of the config file.
	headed bool
	engine string

	browserReady bool
}

// NewApp creates an App writing command output to out.
func NewApp(out io.Writer) *App {
	if out == nil {
		out = os.Stdout
	}
	return &App{out: out}
}

// Setup loads configuration and wires the executors. Called by the root
// command before any subcommand runs.
func (a *App) Setup(configPath string) error {
	if configPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		configPath = path
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	allowlist, err := cfg.Allowlist()
	if err != nil {
		return err
	}
	a.allowlist = allowlist

	// Fallback logger still works; the error is not fatal for a CLI run.
	logger, logErr := logging.NewLogger("cli")
	if logErr != nil {
		fmt.Fprintln(a.out, warnStyle.Render("warning: file logging unavailable, using stderr"))
	}
	a.logger = logger

	a.connection = resilience.NewExecutor(resilience.PolicyExponential, cfg.ConnectionConfig(),
		resilience.WithLogger(logger))
	a.interactive = resilience.NewExecutor(resilience.PolicyLinear, cfg.InteractiveConfig(),
		resilience.WithLogger(logger))
	a.network = resilience.NewExecutor(resilience.PolicyExponential, cfg.NetworkConfig(),
		resilience.WithLogger(logger))
	a.filesystem = resilience.NewExecutor(resilience.PolicyFixed, cfg.FileSystemConfig(),
		resilience.WithLogger(logger))

	a.manager = browser.NewSessionManager()
	if cfg.Browser.MaxSessions > 0 {
		a.manager.SetMaxSessions(cfg.Browser.MaxSessions)
	}
	if cfg.Browser.IdleTimeout > 0 {
		a.manager.SetIdleTimeout(time.Duration(cfg.Browser.IdleTimeout))
	}

	return nil
}

// Close releases everything Setup acquired. Safe to call when Setup failed
// partway through.
func (a *App) Close() {
	if a.manager != nil && a.manager.HasSessions() && a.logger != nil {
		for _, info := range a.manager.ListSessions() {
			a.logger.Debugf("closing session %q (last page %s)", info.Name, info.CurrentURL)
		}
	}
	if a.manager != nil {
		if err := a.manager.Shutdown(); err != nil && a.logger != nil {
			a.logger.Warnf("session manager shutdown: %v", err)
		}
	}
	for _, exec := range []*resilience.Executor{a.connection, a.interactive, a.network, a.filesystem} {
		if exec != nil {
			exec.Close()
		}
	}
	if a.logger != nil {
		a.logger.Close()
	}
}

// sessionOptions builds launch options from config plus flag overrides.
func (a *App) sessionOptions() browser.SessionOptions {
	opts := browser.SessionOptions{
		Headless: a.cfg.Browser.HeadlessDefault() && !a.headed,
		Timeout:  a.cfg.Browser.Timeout,
	}
	engine := a.engine
	if engine == "" {
		engine = a.cfg.Browser.Engine
	}
	if engine != "" {
		opts.Engine = browser.Engine(engine)
	}
	if a.cfg.Browser.ViewportWidth > 0 && a.cfg.Browser.ViewportHeight > 0 {
		opts.Viewport = &browser.Viewport{
			Width:  a.cfg.Browser.ViewportWidth,
			Height: a.cfg.Browser.ViewportHeight,
		}
	}
	return opts
}

// startSession launches a named session under the connection executor.
func (a *App) startSession(ctx context.Context, name string, opts browser.SessionOptions) (*browser.Session, error) {
	return resilience.Execute(a.connection, ctx, func(context.Context) (*browser.Session, error) {
		if !a.browserReady {
			if err := a.manager.Initialize(); err != nil {
				return nil, err
			}
			a.browserReady = true
		}
		return a.manager.StartSession(name, opts)
	})
}

// navigate checks the URL allowlist and navigates under the network executor.
func (a *App) navigate(ctx context.Context, sess *browser.Session, url string, opts browser.NavigateOptions) error {
	if !a.allowlist.Allows(url) {
		return fmt.Errorf("url %q is not permitted by allowed_urls configuration", url)
	}
	_, err := resilience.Execute(a.network, ctx, func(context.Context) (struct{}, error) {
		return struct{}{}, sess.Navigate(url, opts)
	})
	return err
}

// withPage starts a throwaway session, navigates to url, runs fn, and tears
// the session down. Most subcommands operate on exactly one page.
func (a *App) withPage(ctx context.Context, url, waitUntil string, fn func(*browser.Session) error) error {
	sess, err := a.startSession(ctx, "default", a.sessionOptions())
	if err != nil {
		return fmt.Errorf("failed to start browser session: %w", err)
	}
	defer a.manager.CloseSession(sess.Name)

	if err := a.navigate(ctx, sess, url, browser.NavigateOptions{WaitUntil: waitUntil}); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return fn(sess)
}

// ReportBreakers prints a warning for any executor whose breaker is open, so
// scripted callers can tell a rejected run from a merely failed one. The
// entry point calls it after Execute, even when a subcommand errored.
func (a *App) ReportBreakers() {
	named := []struct {
		name string
		exec *resilience.Executor
	}{
		{"connection", a.connection},
		{"interactive", a.interactive},
		{"network", a.network},
		{"filesystem", a.filesystem},
	}
	for _, n := range named {
		if n.exec == nil {
			continue
		}
		if m := n.exec.Metrics(); m.BreakerState == resilience.BreakerOpen {
			fmt.Fprintln(a.out, warnStyle.Render(
				fmt.Sprintf("warning: %s circuit breaker is open (%d/%d attempts failed)",
					n.name, m.FailedAttempts, m.TotalAttempts)))
		}
	}
}
