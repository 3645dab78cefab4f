package impact

import (
	"fmt"
	"sync"
	"time"

	"github.com/khanglvm/dev-advisor/internal/metrics"
	"github.com/khanglvm/dev-advisor/internal/topic"
)

// Score weights.
const (
	contributionWeight = 1.0
	learningHourWeight = 2.0
	helpfulWeight      = 3.0
)

// Engine accumulates impact metrics.
type Engine struct {
	now      func() time.Time
	observer func(Event)

	mu      sync.Mutex
	metrics Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithMetrics seeds the accumulator with a previous snapshot.
func WithMetrics(m Metrics) Option {
	return func(e *Engine) { e.metrics = m.Clone() }
}

// WithObserver registers fn to receive every recorded event. fn runs while
// the engine is locked, so it must not block or call back into the engine.
func WithObserver(fn func(Event)) Option {
	return func(e *Engine) { e.observer = fn }
}

// NewEngine creates an engine with empty metrics. LastUpdated starts at the
// construction time unless WithMetrics supplies one.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:     time.Now,
		metrics: Metrics{TopicsLearned: NewTopicSet()},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics.LastUpdated.IsZero() {
		e.metrics.LastUpdated = e.now()
	}
	return e
}

// RecordContribution increments the total and the counter for c.
func (e *Engine) RecordContribution(c ContributionType) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownContribution, int(c))
	}

	e.mu.Lock()
	event := Event{Kind: ContributionEvent, Contribution: c, At: e.now()}
	e.apply(event)
	e.notify(event)
	e.mu.Unlock()

	metrics.Contributions.WithLabelValues(c.String()).Inc()
	return nil
}

// RecordLearning adds minutes/60 hours and marks t as learned. Repeating a
// topic still accumulates hours. LastUpdated is left unchanged.
func (e *Engine) RecordLearning(t topic.Topic, minutes int) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %d", topic.ErrUnknownTopic, int(t))
	}

	e.mu.Lock()
	event := Event{Kind: LearningEvent, Topic: t, Minutes: minutes, At: e.now()}
	e.apply(event)
	e.notify(event)
	e.mu.Unlock()

	if minutes > 0 {
		metrics.LearningMinutes.Add(float64(minutes))
	}
	return nil
}

// Replay applies persisted events in order using their own timestamps.
// Observers are not notified and invalid events are rejected before any
// is applied.
func (e *Engine) Replay(events []Event) error {
	for i, ev := range events {
		if err := ev.validate(); err != nil {
			return fmt.Errorf("failed to replay event %d: %w", i, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ev := range events {
		e.apply(ev)
	}
	return nil
}

// Metrics returns a deep copy of the accumulator.
func (e *Engine) Metrics() Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.metrics.Clone()
}

// Score returns total + 2*learningHours + 3*helpfulResponses. Helpful
// responses count once in the total and again through their own weight.
func (e *Engine) Score() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Score(e.metrics)
}

// Score computes the impact score for a snapshot.
func Score(m Metrics) float64 {
	return float64(m.TotalContributions)*contributionWeight +
		m.LearningHours*learningHourWeight +
		float64(m.HelpfulResponses)*helpfulWeight
}

// apply mutates the accumulator. Callers hold e.mu.
func (e *Engine) apply(ev Event) {
	m := &e.metrics
	switch ev.Kind {
	case ContributionEvent:
		m.TotalContributions++
		switch ev.Contribution {
		case Post:
			m.PostsCreated++
		case Comment:
			m.CommentsAdded++
		case CodeShared:
			m.CodeSnippetsShared++
		case HelpProvided:
			m.HelpfulResponses++
		}
		m.LastUpdated = ev.At
	case LearningEvent:
		m.LearningHours += float64(ev.Minutes) / 60.0
		if m.TopicsLearned == nil {
			m.TopicsLearned = NewTopicSet()
		}
		m.TopicsLearned.Add(ev.Topic)
	}
}

func (e *Engine) notify(ev Event) {
	if e.observer != nil {
		e.observer(ev)
	}
}
