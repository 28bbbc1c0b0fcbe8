package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/surf/pkg/browser"
	"github.com/entrhq/surf/pkg/resilience"
)

func newWaitCommand(app *App) *cobra.Command {
	var state string
	var timeout float64

	cmd := &cobra.Command{
		Use:   "wait URL SELECTOR",
		Short: "Open a page and wait for an element state",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !browser.ValidWaitState(state) {
				return fmt.Errorf("invalid wait state %q (expected attached, detached, visible, or hidden)", state)
			}
			url, selector := args[0], args[1]
			return app.withPage(cmd.Context(), url, "load", func(sess *browser.Session) error {
				_, err := resilience.Execute(app.interactive, cmd.Context(), func(context.Context) (struct{}, error) {
					return struct{}{}, sess.Wait(browser.WaitOptions{
						Selector: selector,
						State:    state,
						Timeout:  timeout,
					})
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(app.out, successStyle.Render(fmt.Sprintf("%s is %s", selector, state)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&state, "state", "visible", "Element state to wait for: attached, detached, visible, or hidden")
	cmd.Flags().Float64Var(&timeout, "timeout", 0, "Wait timeout in milliseconds (0 for the session default)")

	return cmd
}
