package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/surf/pkg/browser"
	"github.com/entrhq/surf/pkg/resilience"
)

type clickOptions struct {
	button string
	double bool
}

func newClickCommand(app *App) *cobra.Command {
	opts := clickOptions{}

	cmd := &cobra.Command{
		Use:   "click URL SELECTOR",
		Short: "Open a page and click an element",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClick(app, cmd, args[0], args[1], opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.button, "button", "left", "Mouse button: left, right, or middle")
	flags.BoolVar(&opts.double, "double", false, "Double-click instead of single-click")

	return cmd
}

func runClick(app *App, cmd *cobra.Command, url, selector string, opts clickOptions) error {
	if !browser.ValidButton(opts.button) {
		return fmt.Errorf("invalid mouse button %q", opts.button)
	}

	clickCount := 1
	if opts.double {
		clickCount = 2
	}

	return app.withPage(cmd.Context(), url, "load", func(sess *browser.Session) error {
		_, err := resilience.Execute(app.interactive, cmd.Context(), func(context.Context) (struct{}, error) {
			return struct{}{}, sess.Click(browser.ClickOptions{
				Selector:   selector,
				Button:     opts.button,
				ClickCount: clickCount,
			})
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(app.out, successStyle.Render(fmt.Sprintf("clicked %s", selector)))
		return nil
	})
}
