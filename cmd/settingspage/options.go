package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/settings"
	"github.com/goliatone/go-settingspage/pkg/store"
)

func newOptionsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Inspect and change stored option values",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every field with its effective value",
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			page, err := a.newPage()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TAB\tFIELD\tTYPE\tVALUE\tSTORED")
			for _, tab := range page.Tabs() {
				for _, field := range tab.Fields {
					value, err := page.Value(cmd.Context(), field)
					if err != nil {
						return err
					}
					_, stored, err := a.store.Get(cmd.Context(), field.ID)
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%q\t%t\n", tab.Key(), field.ID, field.Kind(), value, stored)
				}
			}
			return w.Flush()
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <field>",
		Short: "Print the effective value of a field",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			field, err := findField(a.doc.Tabs, args[0])
			if err != nil {
				return err
			}
			page, err := a.newPage()
			if err != nil {
				return err
			}
			value, err := page.Value(cmd.Context(), field)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <field> <value>",
		Short: "Sanitize and store a field value",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			field, err := findField(a.doc.Tabs, args[0])
			if err != nil {
				return err
			}
			value := settings.SanitizeValue(field, args[1])
			label, err := choiceLabel(field, value)
			if err != nil {
				return err
			}
			if err := a.store.Set(cmd.Context(), field.ID, value); err != nil {
				return err
			}
			if label != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %q (%s)\n", field.ID, value, label)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %q\n", field.ID, value)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <field>",
		Short: "Remove a stored value so the default applies again",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			field, err := findField(a.doc.Tabs, args[0])
			if err != nil {
				return err
			}
			deleter, ok := a.store.(store.Deleter)
			if !ok {
				return errors.New("configured store does not support delete")
			}
			return deleter.Delete(cmd.Context(), field.ID)
		}),
	})
	return cmd
}

func findField(tabs model.TabSet, id string) (model.Field, error) {
	for _, field := range tabs.Fields() {
		if field.ID == id {
			return field, nil
		}
	}
	return model.Field{}, fmt.Errorf("unknown field %q", id)
}

// choiceLabel returns the option label for select and radio values and
// rejects values that are not among the field's options.
func choiceLabel(field model.Field, value string) (string, error) {
	switch field.Kind() {
	case model.FieldSelect, model.FieldRadio:
	default:
		return "", nil
	}
	label, ok := field.Options.Label(value)
	if !ok {
		return "", fmt.Errorf("%q is not an option of %s (choices: %s)", value, field.ID, strings.Join(field.Options.Values(), ", "))
	}
	return label, nil
}
