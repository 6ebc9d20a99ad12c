package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-settingspage/pkg/renderers/tui"
)

func newEditCmd(opts *rootOptions) *cobra.Command {
	var tabs []string
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit option values with terminal prompts",
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			page, err := a.newPage()
			if err != nil {
				return err
			}
			editor, err := tui.New(page,
				tui.WithTabs(tabs...),
				tui.WithLogger(a.logger),
				tui.WithTheme(tui.Theme{TabPrefix: "== "}),
			)
			if err != nil {
				return err
			}
			written, err := editor.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("edit: %w", err)
			}
			a.logger.Debug("terminal edit finished", "fields", written)
			return nil
		}),
	}
	cmd.Flags().StringSliceVarP(&tabs, "tab", "t", nil, "only prompt for these tab keys")
	return cmd
}
