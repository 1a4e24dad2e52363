package export

import (
	"fmt"
	"strings"

	"github.com/notetakerapp/notetaker-server/internal/domain"
)

// MarkdownEncoder renders notes as a single Markdown document.
type MarkdownEncoder struct{}

// Format implements Encoder.
func (MarkdownEncoder) Format() Format { return FormatMarkdown }

// Encode implements Encoder. It never fails.
func (MarkdownEncoder) Encode(notes []domain.Note, opts Options) ([]byte, error) {
	lines := []string{
		"# NoteTaker Export",
		fmt.Sprintf("*Exported on %s*", opts.Now.Format(headerTimeLayout)),
		"",
		fmt.Sprintf("**Total Notes:** %d", len(notes)),
		"",
		"---",
		"",
	}

	for i := range notes {
		lines = appendMarkdownNote(lines, i+1, &notes[i], opts)
	}

	return []byte(strings.Join(lines, "\n")), nil
}

func appendMarkdownNote(lines []string, index int, n *domain.Note, opts Options) []string {
	lines = append(lines, fmt.Sprintf("## %d. %s", index, noteTitle(n)), "")

	if !n.CreatedAt.IsZero() {
		lines = append(lines, "**Created:** "+n.CreatedAt.Format(noteTimeLayout))
	}
	if !n.UpdatedAt.IsZero() {
		lines = append(lines, "**Last Updated:** "+n.UpdatedAt.Format(noteTimeLayout))
	}
	if len(n.AutoTags) > 0 {
		quoted := make([]string, len(n.AutoTags))
		for i, tag := range n.AutoTags {
			quoted[i] = "`" + tag + "`"
		}
		lines = append(lines, "**Tags:** "+strings.Join(quoted, ", "))
	}
	lines = append(lines, "")

	if n.Content != "" {
		lines = append(lines, "### Content", n.Content, "")
	}

	if hasTranslationBlock(n, opts) {
		lines = append(lines, "### Chinese Translation")
		if n.TitleZH != "" {
			lines = append(lines, "**Title (中文):** "+n.TitleZH)
		}
		if n.ContentZH != "" {
			lines = append(lines, "**Content (中文):** "+n.ContentZH)
		}
		lines = append(lines, "")
	}

	return append(lines, "---", "")
}
