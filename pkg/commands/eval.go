package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/surf/pkg/browser"
	"github.com/entrhq/surf/pkg/resilience"
)

func newEvalCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval URL EXPRESSION",
		Short: "Open a page and evaluate JavaScript in it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, expr := args[0], args[1]
			return app.withPage(cmd.Context(), url, "load", func(sess *browser.Session) error {
				result, err := resilience.Execute(app.interactive, cmd.Context(), func(context.Context) (interface{}, error) {
					return sess.Evaluate(browser.EvaluateOptions{Expression: expr})
				})
				if err != nil {
					return err
				}
				return printEvalResult(app, result)
			})
		},
	}
	return cmd
}

// printEvalResult renders the evaluation result: strings print as-is,
// everything else as JSON so structured values survive shell pipelines.
func printEvalResult(app *App, result interface{}) error {
	switch v := result.(type) {
	case nil:
		fmt.Fprintln(app.out, mutedStyle.Render("undefined"))
	case string:
		fmt.Fprintln(app.out, v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Fprintln(app.out, string(encoded))
	}
	return nil
}
