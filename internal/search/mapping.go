package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/cjk"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve mapping for note documents.
//
// English text uses stemming, translations use CJK bigrams and tags are
// indexed as exact keywords so compound tags like "follow-up" stay intact.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = en.AnalyzerName
	titleField.Store = true
	titleField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("title", titleField)

	// Content is searchable but not stored.
	contentField := bleve.NewTextFieldMapping()
	contentField.Analyzer = en.AnalyzerName
	contentField.Store = false
	docMapping.AddFieldMappingsAt("content", contentField)

	titleZHField := bleve.NewTextFieldMapping()
	titleZHField.Analyzer = cjk.AnalyzerName
	titleZHField.Store = false
	docMapping.AddFieldMappingsAt("title_zh", titleZHField)

	contentZHField := bleve.NewTextFieldMapping()
	contentZHField.Analyzer = cjk.AnalyzerName
	contentZHField.Store = false
	docMapping.AddFieldMappingsAt("content_zh", contentZHField)

	autoTagsField := bleve.NewTextFieldMapping()
	autoTagsField.Analyzer = keyword.Name
	autoTagsField.Store = true
	docMapping.AddFieldMappingsAt("auto_tags", autoTagsField)

	tagsField := bleve.NewTextFieldMapping()
	tagsField.Analyzer = keyword.Name
	tagsField.Store = true
	docMapping.AddFieldMappingsAt("tags", tagsField)

	idField := bleve.NewTextFieldMapping()
	idField.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idField)

	updatedAtField := bleve.NewNumericFieldMapping()
	updatedAtField.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtField)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
