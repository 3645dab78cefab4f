package search

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/khanglvm/dev-advisor/internal/content"
)

// Indexer manages the search index for the content catalog.
type Indexer struct {
	bleveIndex bleve.Index
	mu         sync.RWMutex
}

// NewIndexer creates a new search indexer with in-memory Bleve index.
func NewIndexer() (*Indexer, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	return &Indexer{bleveIndex: index}, nil
}

// NewCatalogIndex creates an indexer already holding templates.
func NewCatalogIndex(templates []content.Template) (*Indexer, error) {
	indexer, err := NewIndexer()
	if err != nil {
		return nil, err
	}
	if err := indexer.IndexCatalog(templates); err != nil {
		indexer.Close()
		return nil, err
	}
	return indexer, nil
}

// buildIndexMapping creates the Bleve index mapping.
func buildIndexMapping() mapping.IndexMapping {
	templateMapping := bleve.NewDocumentMapping()

	// Topic: exact value for filtering
	topicFieldMapping := bleve.NewTextFieldMapping()
	topicFieldMapping.Analyzer = keyword.Name
	templateMapping.AddFieldMappingsAt("topic", topicFieldMapping)

	// Searchable text
	for _, field := range []string{"title", "titles", "bodies", "tags"} {
		templateMapping.AddFieldMappingsAt(field, bleve.NewTextFieldMapping())
	}

	// Stored for retrieval only
	difficultyMapping := bleve.NewTextFieldMapping()
	difficultyMapping.Index = false
	difficultyMapping.IncludeInAll = false
	templateMapping.AddFieldMappingsAt("difficulty", difficultyMapping)

	minutesMapping := bleve.NewNumericFieldMapping()
	minutesMapping.Index = false
	minutesMapping.IncludeInAll = false
	templateMapping.AddFieldMappingsAt("minutes", minutesMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", templateMapping)

	return indexMapping
}

// IndexCatalog indexes every template, replacing documents with the same id.
func (i *Indexer) IndexCatalog(templates []content.Template) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	batch := i.bleveIndex.NewBatch()

	for n, tmpl := range templates {
		doc := map[string]interface{}{
			"topic":      tmpl.Topic.String(),
			"title":      first(tmpl.Titles),
			"titles":     strings.Join(tmpl.Titles, "\n"),
			"bodies":     strings.Join(tmpl.Bodies, "\n"),
			"tags":       strings.Join(tmpl.Tags, " "),
			"difficulty": tmpl.Difficulty.String(),
			"minutes":    float64(tmpl.EstimatedMinutes),
		}

		// topic/position keeps ids stable for a given catalog
		docID := fmt.Sprintf("%s/%d", tmpl.Topic, n)

		if err := batch.Index(docID, doc); err != nil {
			log.Printf("Warning: failed to index template %s: %v", docID, err)
		}
	}

	if err := i.bleveIndex.Batch(batch); err != nil {
		return fmt.Errorf("failed to batch index templates: %w", err)
	}

	return nil
}

// Count returns the total number of indexed templates.
func (i *Indexer) Count() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	docCount, err := i.bleveIndex.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}

	return docCount, nil
}

// Close closes the index and releases resources.
func (i *Indexer) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.bleveIndex != nil {
		return i.bleveIndex.Close()
	}

	return nil
}

// buildMatchQuery creates a match query for BM25 search.
func (i *Indexer) buildMatchQuery(searchText string) query.Query {
	return bleve.NewMatchQuery(searchText)
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
