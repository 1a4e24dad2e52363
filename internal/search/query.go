package search

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// DefaultLimit caps the hits returned by Search.
const DefaultLimit = 100

// Hit is a matching note with its relevance score.
type Hit struct {
	NoteID int64   `json:"note_id"`
	Score  float64 `json:"score"`
}

// Search returns notes matching q, best match first.
// A blank query returns no hits.
func (s *NoteIndex) Search(ctx context.Context, q string, limit int) ([]Hit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildNoteQuery(q), limit, 0, false)
	req.SortBy([]string{"-_score", "-updated_at"})

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, err := ParseDocID(h.ID)
		if err != nil {
			s.logger.Warn("skipping malformed search hit", "id", h.ID)
			continue
		}
		hits = append(hits, Hit{NoteID: id, Score: h.Score})
	}
	return hits, nil
}

// buildNoteQuery matches the title, body, translations and tags.
// Titles weigh most; fuzzy and prefix clauses tolerate typos and partial words.
func buildNoteQuery(q string) query.Query {
	lower := strings.ToLower(q)

	titleMatch := bleve.NewMatchQuery(q)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)

	contentMatch := bleve.NewMatchQuery(q)
	contentMatch.SetField("content")

	titleZH := bleve.NewMatchQuery(q)
	titleZH.SetField("title_zh")
	titleZH.SetBoost(1.5)

	contentZH := bleve.NewMatchQuery(q)
	contentZH.SetField("content_zh")
	contentZH.SetBoost(0.8)

	autoTag := bleve.NewTermQuery(lower)
	autoTag.SetField("auto_tags")
	autoTag.SetBoost(2.0)

	tag := bleve.NewTermQuery(lower)
	tag.SetField("tags")
	tag.SetBoost(2.0)

	clauses := []query.Query{titleMatch, contentMatch, titleZH, contentZH, autoTag, tag}

	// Single words get typo tolerance and autocomplete.
	if !strings.ContainsAny(q, " \t\n") && utf8.RuneCountInString(q) >= 2 {
		fuzzy := bleve.NewFuzzyQuery(lower)
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("title")
		fuzzy.SetBoost(0.8)

		titlePrefix := bleve.NewPrefixQuery(lower)
		titlePrefix.SetField("title")
		titlePrefix.SetBoost(0.5)

		contentPrefix := bleve.NewPrefixQuery(lower)
		contentPrefix.SetField("content")
		contentPrefix.SetBoost(0.3)

		clauses = append(clauses, fuzzy, titlePrefix, contentPrefix)
	}

	return bleve.NewDisjunctionQuery(clauses...)
}
