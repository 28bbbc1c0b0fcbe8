package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/surf/pkg/browser"
	"github.com/entrhq/surf/pkg/resilience"
)

type screenshotOptions struct {
	output   string
	fullPage bool
	selector string
}

func newScreenshotCommand(app *App) *cobra.Command {
	opts := screenshotOptions{}

	cmd := &cobra.Command{
		Use:   "screenshot URL",
		Short: "Open a page and capture a screenshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreenshot(app, cmd, args[0], opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "screenshot.png", "File to write the image to")
	flags.BoolVar(&opts.fullPage, "full-page", false, "Capture the full scrollable page")
	flags.StringVarP(&opts.selector, "selector", "s", "", "Capture only the element matching a CSS selector")

	return cmd
}

func runScreenshot(app *App, cmd *cobra.Command, url string, opts screenshotOptions) error {
	return app.withPage(cmd.Context(), url, "load", func(sess *browser.Session) error {
		// Capture writes straight to disk, so it runs under the filesystem
		// executor whose phrases cover permission and busy-file errors.
		size, err := resilience.Execute(app.filesystem, cmd.Context(), func(context.Context) (int, error) {
			return sess.Screenshot(browser.ScreenshotOptions{
				Path:     opts.output,
				FullPage: opts.fullPage,
				Selector: opts.selector,
			})
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(app.out, successStyle.Render(fmt.Sprintf("wrote %s (%d bytes)", opts.output, size)))
		return nil
	})
}
