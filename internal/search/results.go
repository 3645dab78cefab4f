/*
Package search implements keyword search over the content template catalog.

Templates are indexed in an in-memory Bleve index and ranked with BM25, so
callers can find which topic covers a subject before generating content.
*/
package search

import "github.com/khanglvm/dev-advisor/internal/topic"

// Result is a single matching template with its relevance score.
type Result struct {
	Topic            topic.Topic `json:"topic"`
	Title            string      `json:"title"`
	Tags             []string    `json:"tags"`
	Difficulty       string      `json:"difficulty"`
	EstimatedMinutes int         `json:"estimatedMinutes"`
	Score            float64     `json:"score"`
}
