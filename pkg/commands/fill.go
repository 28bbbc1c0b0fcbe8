package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/surf/pkg/browser"
	"github.com/entrhq/surf/pkg/resilience"
)

func newFillCommand(app *App) *cobra.Command {
	var pressEnter bool

	cmd := &cobra.Command{
		Use:   "fill URL SELECTOR VALUE",
		Short: "Open a page and fill a form field",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, selector, value := args[0], args[1], args[2]
			return app.withPage(cmd.Context(), url, "load", func(sess *browser.Session) error {
				_, err := resilience.Execute(app.interactive, cmd.Context(), func(context.Context) (struct{}, error) {
					return struct{}{}, sess.Fill(browser.FillOptions{
						Selector:   selector,
						Value:      value,
						PressEnter: pressEnter,
					})
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(app.out, successStyle.Render(fmt.Sprintf("filled %s", selector)))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&pressEnter, "enter", false, "Press Enter after filling to submit")

	return cmd
}
