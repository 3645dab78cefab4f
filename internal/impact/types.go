/*
Package impact aggregates a user's contributions and learning time into
impact metrics and a single weighted score.

The Engine is safe for concurrent use. A Journal can observe the engine and
persist every recorded event in the background so metrics can be rebuilt
with Replay in a later process.
*/
package impact

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/khanglvm/dev-advisor/internal/topic"
)

// ErrUnknownContribution is returned for contribution types outside the enum.
var ErrUnknownContribution = errors.New("unknown contribution type")

// ContributionType identifies which counter a contribution increments.
type ContributionType int

const (
	Post ContributionType = iota
	Comment
	CodeShared
	HelpProvided
)

var contributionNames = [...]string{
	Post:         "post",
	Comment:      "comment",
	CodeShared:   "code_shared",
	HelpProvided: "help_provided",
}

// ContributionTypes returns every contribution type in declaration order.
func ContributionTypes() []ContributionType {
	return []ContributionType{Post, Comment, CodeShared, HelpProvided}
}

// Valid reports whether c is a declared contribution type.
func (c ContributionType) Valid() bool {
	return c >= Post && c <= HelpProvided
}

func (c ContributionType) String() string {
	if !c.Valid() {
		return fmt.Sprintf("ContributionType(%d)", int(c))
	}
	return contributionNames[c]
}

// ParseContribution converts a name such as "code_shared" or "code-shared".
func ParseContribution(name string) (ContributionType, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for _, c := range ContributionTypes() {
		if contributionNames[c] == normalized {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownContribution, name)
}

func (c ContributionType) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownContribution, int(c))
	}
	return []byte(c.String()), nil
}

func (c *ContributionType) UnmarshalText(text []byte) error {
	parsed, err := ParseContribution(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// TopicSet is a set of topics. The zero value is not usable; use NewTopicSet.
type TopicSet map[topic.Topic]struct{}

// NewTopicSet returns a set holding the given topics.
func NewTopicSet(topics ...topic.Topic) TopicSet {
	s := make(TopicSet, len(topics))
	for _, t := range topics {
		s[t] = struct{}{}
	}
	return s
}

// Add inserts t. Adding a present topic is a no-op.
func (s TopicSet) Add(t topic.Topic) {
	s[t] = struct{}{}
}

// Has reports whether t is in the set.
func (s TopicSet) Has(t topic.Topic) bool {
	_, ok := s[t]
	return ok
}

// Sorted returns the members in enum order.
func (s TopicSet) Sorted() []topic.Topic {
	out := make([]topic.Topic, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy.
func (s TopicSet) Clone() TopicSet {
	out := make(TopicSet, len(s))
	for t := range s {
		out[t] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as a sorted array of topic names.
func (s TopicSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array of topic names.
func (s *TopicSet) UnmarshalJSON(data []byte) error {
	var topics []topic.Topic
	if err := json.Unmarshal(data, &topics); err != nil {
		return err
	}
	*s = NewTopicSet(topics...)
	return nil
}

// Metrics is the impact accumulator. TotalContributions always equals the
// sum of the four per-type counters.
type Metrics struct {
	TotalContributions int       `json:"totalContributions"`
	PostsCreated       int       `json:"postsCreated"`
	CommentsAdded      int       `json:"commentsAdded"`
	CodeSnippetsShared int       `json:"codeSnippetsShared"`
	HelpfulResponses   int       `json:"helpfulResponses"`
	LearningHours      float64   `json:"learningHours"`
	TopicsLearned      TopicSet  `json:"topicsLearned"`
	LastUpdated        time.Time `json:"lastUpdated"`
}

// Clone returns a deep copy of m.
func (m Metrics) Clone() Metrics {
	out := m
	if m.TopicsLearned != nil {
		out.TopicsLearned = m.TopicsLearned.Clone()
	} else {
		out.TopicsLearned = NewTopicSet()
	}
	return out
}

// Equal reports whether two snapshots hold the same values.
func (m Metrics) Equal(o Metrics) bool {
	if m.TotalContributions != o.TotalContributions ||
		m.PostsCreated != o.PostsCreated ||
		m.CommentsAdded != o.CommentsAdded ||
		m.CodeSnippetsShared != o.CodeSnippetsShared ||
		m.HelpfulResponses != o.HelpfulResponses ||
		m.LearningHours != o.LearningHours ||
		!m.LastUpdated.Equal(o.LastUpdated) ||
		len(m.TopicsLearned) != len(o.TopicsLearned) {
		return false
	}
	for t := range m.TopicsLearned {
		if !o.TopicsLearned.Has(t) {
			return false
		}
	}
	return true
}
