package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/notetakerapp/notetaker-server/internal/export"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List export formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		exporter := export.New(export.Config{DocxEnabled: cfg.Export.DocxEnabled, Logger: log})
		entries, err := exporter.Catalog()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FORMAT\tNAME\tEXT\tAVAILABLE\tDESCRIPTION")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", e.ID, e.Name, e.Extension, e.Available, e.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
