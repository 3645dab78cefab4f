package search

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"

	"github.com/khanglvm/dev-advisor/internal/topic"
)

// DefaultLimit is used when a search is given a non-positive limit.
const DefaultLimit = 10

var resultFields = []string{"topic", "title", "tags", "difficulty", "minutes"}

// Search performs BM25 keyword search over the catalog.
func (i *Indexer) Search(query string, limit int) ([]Result, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultLimit
	}

	searchRequest := bleve.NewSearchRequestOptions(i.buildMatchQuery(query), limit, 0, false)
	searchRequest.Fields = resultFields

	results, err := i.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	return convertBleveResults(results), nil
}

// SearchByTopic performs BM25 search scoped to one topic.
func (i *Indexer) SearchByTopic(query string, t topic.Topic, limit int) ([]Result, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultLimit
	}

	// (match query) AND (topic filter)
	topicQuery := bleve.NewTermQuery(t.String())
	topicQuery.SetField("topic")
	conjunctionQuery := bleve.NewConjunctionQuery(i.buildMatchQuery(query), topicQuery)

	searchRequest := bleve.NewSearchRequestOptions(conjunctionQuery, limit, 0, false)
	searchRequest.Fields = resultFields

	results, err := i.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	return convertBleveResults(results), nil
}

// convertBleveResults converts Bleve hits to Results. Hits whose topic
// cannot be parsed are skipped.
func convertBleveResults(results *bleve.SearchResult) []Result {
	out := make([]Result, 0, len(results.Hits))

	for _, hit := range results.Hits {
		topicName, _ := hit.Fields["topic"].(string)
		t, err := topic.Parse(topicName)
		if err != nil {
			continue
		}

		title, _ := hit.Fields["title"].(string)
		difficulty, _ := hit.Fields["difficulty"].(string)
		minutes, _ := hit.Fields["minutes"].(float64)
		tags, _ := hit.Fields["tags"].(string)

		out = append(out, Result{
			Topic:            t,
			Title:            title,
			Tags:             strings.Fields(tags),
			Difficulty:       difficulty,
			EstimatedMinutes: int(minutes),
			Score:            hit.Score,
		})
	}

	return out
}
