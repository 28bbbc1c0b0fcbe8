package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entrhq/surf/pkg/browser"
	"github.com/entrhq/surf/pkg/resilience"
)

func newRunCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run SCRIPT",
		Short: "Run a YAML script of browser steps",
		Long: `Run executes a YAML script of steps such as navigate, click, fill, wait,
screenshot, eval, extract, and search. Steps can target multiple named
sessions; sessions stay open for the duration of the script.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read script: %w", err)
			}
			script, err := parseScript(data)
			if err != nil {
				return err
			}
			return runScript(app, cmd.Context(), script)
		},
	}
	return cmd
}

func runScript(app *App, ctx context.Context, script *Script) error {
	// Sessions launch on first use and live until the script ends; the
	// entry point's teardown closes them through the manager.
	getSession := func(name string) (*browser.Session, error) {
		if sess, err := app.manager.GetSession(name); err == nil {
			return sess, nil
		}
		opts := app.sessionOptions()
		if cfg, ok := script.Sessions[name]; ok {
			if cfg.Engine != "" {
				opts.Engine = browser.Engine(cfg.Engine)
			}
			if cfg.Headed {
				opts.Headless = false
			}
		}
		return app.startSession(ctx, name, opts)
	}

	for i, step := range script.Steps {
		sess, err := getSession(step.sessionName())
		if err != nil {
			return fmt.Errorf("step %d: failed to start session %q: %w", i+1, step.sessionName(), err)
		}
		if err := runStep(app, ctx, sess, step); err != nil {
			fmt.Fprintln(app.out, errorStyle.Render(fmt.Sprintf("step %d (%s) failed", i+1, step.Action)))
			return fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
		app.logger.Debugf("script step %d (%s) completed in session %q", i+1, step.Action, sess.Name)

		// Long scripts can accumulate sessions; drop any that sat idle
		// past the configured timeout.
		if err := app.manager.CleanupIdleSessions(); err != nil {
			app.logger.Warnf("idle session cleanup: %v", err)
		}
	}

	fmt.Fprintln(app.out, successStyle.Render(fmt.Sprintf("script completed: %d step(s)", len(script.Steps))))
	return nil
}

func runStep(app *App, ctx context.Context, sess *browser.Session, step ScriptStep) error {
	switch step.Action {
	case "navigate":
		waitUntil := step.WaitUntil
		if waitUntil == "" {
			waitUntil = "load"
		}
		if err := app.navigate(ctx, sess, step.URL, browser.NavigateOptions{WaitUntil: waitUntil}); err != nil {
			return err
		}
		if meta, err := sess.GetMetadata(); err == nil {
			app.logger.Debugf("session %q now at %q (%s)", sess.Name, meta["title"], meta["url"])
		}
		return nil

	case "click":
		clickCount := 1
		if step.Double {
			clickCount = 2
		}
		_, err := resilience.Execute(app.interactive, ctx, func(context.Context) (struct{}, error) {
			return struct{}{}, sess.Click(browser.ClickOptions{
				Selector:   step.Selector,
				Button:     step.Button,
				ClickCount: clickCount,
				Timeout:    step.Timeout,
			})
		})
		return err

	case "fill":
		_, err := resilience.Execute(app.interactive, ctx, func(context.Context) (struct{}, error) {
			return struct{}{}, sess.Fill(browser.FillOptions{
				Selector:   step.Selector,
				Value:      step.Value,
				PressEnter: step.Enter,
				Timeout:    step.Timeout,
			})
		})
		return err

	case "wait":
		_, err := resilience.Execute(app.interactive, ctx, func(context.Context) (struct{}, error) {
			return struct{}{}, sess.Wait(browser.WaitOptions{
				Selector: step.Selector,
				State:    step.State,
				Timeout:  step.Timeout,
			})
		})
		return err

	case "screenshot":
		size, err := resilience.Execute(app.filesystem, ctx, func(context.Context) (int, error) {
			return sess.Screenshot(browser.ScreenshotOptions{
				Path:     step.Output,
				FullPage: step.FullPage,
				Selector: step.Selector,
			})
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(app.out, mutedStyle.Render(fmt.Sprintf("wrote %s (%d bytes)", step.Output, size)))
		return nil

	case "eval":
		result, err := resilience.Execute(app.interactive, ctx, func(context.Context) (interface{}, error) {
			return sess.Evaluate(browser.EvaluateOptions{Expression: step.Expression})
		})
		if err != nil {
			return err
		}
		return printEvalResult(app, result)

	case "extract":
		format := browser.ExtractFormat(step.Format)
		if format == "" {
			format = browser.FormatText
		}
		content, err := resilience.Execute(app.interactive, ctx, func(context.Context) (string, error) {
			return sess.ExtractContent(browser.ExtractOptions{
				Format:    format,
				Selector:  step.Selector,
				MaxLength: step.MaxLength,
			})
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(app.out, content)
		return nil

	case "search":
		results, err := resilience.Execute(app.interactive, ctx, func(context.Context) ([]browser.SearchResult, error) {
			return sess.Search(browser.SearchOptions{
				Pattern:       step.Pattern,
				CaseSensitive: step.CaseSensitive,
				MaxResults:    step.Max,
			})
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(app.out, titleStyle.Render(fmt.Sprintf("%d match(es) for %q", len(results), step.Pattern)))
		for i, r := range results {
			fmt.Fprintf(app.out, "%d. ...%s...\n", i+1, r.Context)
		}
		return nil
	}

	// Unreachable when the script passed validation.
	return fmt.Errorf("unknown action %q", step.Action)
}
