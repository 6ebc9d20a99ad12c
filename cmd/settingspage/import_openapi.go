package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-settingspage/pkg/schema"
)

func newImportOpenAPICmd() *cobra.Command {
	var (
		component string
		output    string
	)
	cmd := &cobra.Command{
		Use:   "import-openapi <openapi-file>",
		Short: "Derive a settings document from an OpenAPI component schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			doc, err := schema.FromOpenAPI(cmd.Context(), raw, component)
			if err != nil {
				return err
			}
			encoded, err := doc.Marshal()
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(encoded)
				return err
			}
			return os.WriteFile(output, encoded, 0o644)
		},
	}
	cmd.Flags().StringVar(&component, "component", "", "components.schemas entry to import")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	_ = cmd.MarkFlagRequired("component")
	return cmd
}
