/*
Package content generates learning content from a fixed template catalog.

A Generator owns the catalog, a generation counter, and its random source.
All selection is uniform over the candidate lists; the random source can be
seeded for reproducible output.
*/
package content

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/khanglvm/dev-advisor/internal/topic"
)

// ErrInvalidArgument is returned for rejected batch parameters or catalogs.
var ErrInvalidArgument = errors.New("invalid argument")

// Difficulty grades a piece of content.
type Difficulty int

const (
	Beginner Difficulty = iota
	Intermediate
	Advanced
)

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "Beginner"
	case Intermediate:
		return "Intermediate"
	case Advanced:
		return "Advanced"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the difficulty as its display name.
func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Template is one catalog entry. Titles, Bodies and Codes are never empty.
type Template struct {
	Topic            topic.Topic
	Titles           []string
	Bodies           []string
	Codes            []string
	Tags             []string
	Difficulty       Difficulty
	EstimatedMinutes int
}

// Content is a generated learning item. It is owned by the caller.
type Content struct {
	ID               uuid.UUID   `json:"id"`
	Topic            topic.Topic `json:"topic"`
	Title            string      `json:"title"`
	Body             string      `json:"body"`
	CodeSnippet      string      `json:"codeSnippet"`
	Tags             []string    `json:"tags"`
	Difficulty       Difficulty  `json:"difficulty"`
	EstimatedMinutes int         `json:"estimatedMinutes"`
	GeneratedAt      time.Time   `json:"generatedAt"`
}
