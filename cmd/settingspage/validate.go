package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-settingspage/pkg/schema"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var printSchema bool
	cmd := &cobra.Command{
		Use:   "validate [document...]",
		Short: "Check settings documents against the document schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if printSchema {
				_, err := out.Write(schema.DocumentSchema())
				return err
			}
			if len(args) == 0 && opts.schemaFile != "" {
				args = []string{opts.schemaFile}
			}
			if len(args) == 0 {
				return fmt.Errorf("no document given")
			}
			var failed int
			for _, path := range args {
				doc, err := schema.Load(cmd.Context(), schema.SourceFromFile(path))
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s\n%v\n", path, err)
					continue
				}
				fmt.Fprintf(out, "ok   %s (%s: %d tabs, %d fields)\n", path, doc.Page.MenuSlug, len(doc.Tabs), len(doc.Tabs.Fields()))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents are invalid", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&printSchema, "print-schema", false, "print the JSON Schema documents are checked against")
	return cmd
}
