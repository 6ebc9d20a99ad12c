package main

import (
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-settingspage/pkg/settings"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var (
		tab    string
		output string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the settings page HTML with the current option values",
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			page, err := a.newPage()
			if err != nil {
				return err
			}
			query := url.Values{settings.ParamPage: {a.doc.Page.MenuSlug}}
			if tab != "" {
				query.Set(settings.ParamTab, tab)
			}
			req := settings.Request{Method: "GET", Query: query}

			out := cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()
				out = file
			}
			return page.Render(cmd.Context(), out, req)
		}),
	}
	cmd.Flags().StringVarP(&tab, "tab", "t", "", "tab key to open")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
