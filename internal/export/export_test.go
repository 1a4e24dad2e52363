package export

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/notetakerapp/notetaker-server/internal/domain"
)

var testNow = time.Date(2024, 3, 15, 14, 30, 5, 0, time.UTC)

func sampleNotes() []domain.Note {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 3, 2, 10, 15, 30, 0, time.UTC)
	return []domain.Note{
		{
			ID:        1,
			Title:     "Groceries",
			Content:   "milk\neggs",
			AutoTags:  []string{"personal", "todo"},
			TitleZH:   "杂货",
			ContentZH: "牛奶\n鸡蛋",
			CreatedAt: created,
			UpdatedAt: updated,
		},
		{
			ID:        2,
			Title:     "Meeting <notes> & more",
			Content:   "Discuss project",
			CreatedAt: created,
			UpdatedAt: updated,
		},
	}
}

func testOptions() Options {
	return Options{Now: testNow, IncludeTranslations: true, DisableCompression: true}
}

// readZip returns the entries of a ZIP archive in order.
func readZip(t *testing.T, data []byte) ([]string, map[string][]byte) {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var names []string
	contents := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		names = append(names, f.Name)
		contents[f.Name] = b
	}
	return names, contents
}
