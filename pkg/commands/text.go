package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/surf/pkg/browser"
	"github.com/entrhq/surf/pkg/resilience"
)

func newTextCommand(app *App) *cobra.Command {
	var selector string
	var maxLength int

	cmd := &cobra.Command{
		Use:   "text URL",
		Short: "Print the visible text of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withPage(cmd.Context(), args[0], "load", func(sess *browser.Session) error {
				content, err := resilience.Execute(app.interactive, cmd.Context(), func(context.Context) (string, error) {
					return sess.ExtractContent(browser.ExtractOptions{
						Format:    browser.FormatText,
						Selector:  selector,
						MaxLength: maxLength,
					})
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(app.out, content)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&selector, "selector", "s", "", "Limit extraction to elements matching a CSS selector")
	cmd.Flags().IntVar(&maxLength, "max-length", 0, "Truncate output to this many characters")

	return cmd
}
