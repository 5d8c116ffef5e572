package main

import (
	"fmt"

	"haber_bosch_console/internal/catalog"
	"haber_bosch_console/internal/models"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRangesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ranges [catalyst]",
		Short: "Print the control ranges of a catalyst as YAML",
		Long: `Print the range metadata the form applies for a catalyst.
Without an argument every supported catalyst is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cats := catalog.Supported()
			if len(args) == 1 {
				cats = []models.Catalyst{models.ParseCatalyst(args[0])}
			}

			cat := catalog.New(catalog.Builtin, nil)
			entries := make([]models.RangeCatalogEntry, 0, len(cats))
			for _, c := range cats {
				entry, err := cat.Lookup(c)
				if err != nil {
					return err
				}
				entries = append(entries, entry)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			for _, e := range entries {
				if err := enc.Encode(e); err != nil {
					return fmt.Errorf("encode %s: %w", e.Catalyst, err)
				}
			}
			return nil
		},
	}
}
