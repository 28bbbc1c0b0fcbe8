package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/surf/pkg/browser"
	"github.com/entrhq/surf/pkg/resilience"
)

func newSearchCommand(app *App) *cobra.Command {
	var caseSensitive bool
	var maxResults int

	cmd := &cobra.Command{
		Use:   "search URL PATTERN",
		Short: "Open a page and search its visible text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, pattern := args[0], args[1]
			return app.withPage(cmd.Context(), url, "load", func(sess *browser.Session) error {
				results, err := resilience.Execute(app.interactive, cmd.Context(), func(context.Context) ([]browser.SearchResult, error) {
					return sess.Search(browser.SearchOptions{
						Pattern:       pattern,
						CaseSensitive: caseSensitive,
						MaxResults:    maxResults,
					})
				})
				if err != nil {
					return err
				}
				if len(results) == 0 {
					fmt.Fprintln(app.out, mutedStyle.Render("no matches"))
					return nil
				}
				fmt.Fprintln(app.out, titleStyle.Render(fmt.Sprintf("%d match(es)", len(results))))
				for i, r := range results {
					fmt.Fprintf(app.out, "%d. ...%s...\n", i+1, r.Context)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "Match case exactly")
	cmd.Flags().IntVarP(&maxResults, "max", "n", 10, "Maximum number of matches to print")

	return cmd
}
