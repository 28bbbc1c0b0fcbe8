package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/surf/pkg/browser"
	"github.com/entrhq/surf/pkg/resilience"
)

type openOptions struct {
	format    string
	selector  string
	maxLength int
	waitUntil string
}

func newOpenCommand(app *App) *cobra.Command {
	opts := openOptions{}

	cmd := &cobra.Command{
		Use:   "open URL",
		Short: "Open a page and print its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(app, cmd, args[0], opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", "text", "Output format: text, markdown, or html")
	flags.StringVarP(&opts.selector, "selector", "s", "", "Limit extraction to elements matching a CSS selector")
	flags.IntVar(&opts.maxLength, "max-length", 0, "Truncate output to this many characters")
	flags.StringVar(&opts.waitUntil, "wait-until", "load", "Navigation wait state: load, domcontentloaded, or networkidle")

	return cmd
}

func runOpen(app *App, cmd *cobra.Command, url string, opts openOptions) error {
	format := browser.ExtractFormat(opts.format)
	switch format {
	case browser.FormatText, browser.FormatMarkdown, browser.FormatHTML:
	default:
		return fmt.Errorf("invalid format %q (expected text, markdown, or html)", opts.format)
	}
	if !browser.ValidWaitUntil(opts.waitUntil) {
		return fmt.Errorf("invalid wait state %q", opts.waitUntil)
	}

	return app.withPage(cmd.Context(), url, opts.waitUntil, func(sess *browser.Session) error {
		content, err := resilience.Execute(app.interactive, cmd.Context(), func(context.Context) (string, error) {
			return sess.ExtractContent(browser.ExtractOptions{
				Format:    format,
				Selector:  opts.selector,
				MaxLength: opts.maxLength,
			})
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(app.out, content)
		return nil
	})
}
