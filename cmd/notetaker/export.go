package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notetakerapp/notetaker-server/internal/export"
	"github.com/notetakerapp/notetaker-server/internal/service"
)

var (
	exportFormat       string
	exportIDs          []int64
	exportTranslations bool
	exportOut          string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export notes to a file",
	Example: `  notetaker export --format pdf
  notetaker export --format all --ids 1,2 --out ./exports`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		artifact, err := env.exports.Export(cmd.Context(), exportFormat, service.ExportRequest{
			NoteIDs:             exportIDs,
			IncludeTranslations: exportTranslations,
		})
		if err != nil {
			return err
		}

		path, checksum, err := export.WriteFile(exportOut, artifact)
		if err != nil {
			return err
		}

		for _, s := range artifact.Skipped {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %s\n", s.Format, s.Reason)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (%d bytes)\n", checksum, path, len(artifact.Data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(export.FormatMarkdown), "markdown, pdf, docx or all")
	exportCmd.Flags().Int64SliceVar(&exportIDs, "ids", nil, "Note IDs to export (default all notes)")
	exportCmd.Flags().BoolVar(&exportTranslations, "translations", true, "Include Chinese translations")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "Output directory")
}
