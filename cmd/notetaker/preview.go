package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/notetakerapp/notetaker-server/internal/export"
	"github.com/notetakerapp/notetaker-server/internal/service"
)

var (
	previewIDs   []int64
	previewWidth int
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the Markdown export in the terminal",
	Long: `preview renders the Markdown export with glamour. When stdout is not a
terminal the raw Markdown is printed so the output can be piped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		artifact, err := env.exports.Export(cmd.Context(), string(export.FormatMarkdown), service.ExportRequest{
			NoteIDs:             previewIDs,
			IncludeTranslations: true,
		})
		if err != nil {
			return err
		}

		if !term.IsTerminal(int(os.Stdout.Fd())) {
			_, err := cmd.OutOrStdout().Write(artifact.Data)
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(string(artifact.Data), previewWidth))
		return nil
	},
}

// renderMarkdown returns md styled for the terminal, or md itself if rendering fails.
func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().Int64SliceVar(&previewIDs, "ids", nil, "Note IDs to preview (default all notes)")
	previewCmd.Flags().IntVar(&previewWidth, "width", 80, "Wrap width")
}
