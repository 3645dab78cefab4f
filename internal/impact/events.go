package impact

import (
	"fmt"
	"time"

	"github.com/khanglvm/dev-advisor/internal/storage"
	"github.com/khanglvm/dev-advisor/internal/topic"
)

// EventKind distinguishes contribution and learning events.
type EventKind int

const (
	ContributionEvent EventKind = iota
	LearningEvent
)

// Event is one recorded mutation of the accumulator.
type Event struct {
	Kind EventKind

	// Contribution is set for contribution events.
	Contribution ContributionType

	// Topic and Minutes are set for learning events.
	Topic   topic.Topic
	Minutes int

	// At is when the event was recorded.
	At time.Time
}

func (ev Event) validate() error {
	switch ev.Kind {
	case ContributionEvent:
		if !ev.Contribution.Valid() {
			return fmt.Errorf("%w: %d", ErrUnknownContribution, int(ev.Contribution))
		}
	case LearningEvent:
		if !ev.Topic.Valid() {
			return fmt.Errorf("%w: %d", topic.ErrUnknownTopic, int(ev.Topic))
		}
	default:
		return fmt.Errorf("unknown event kind %d", int(ev.Kind))
	}
	return nil
}

// ToStorage converts an impact event to the storage model.
func (ev Event) ToStorage() storage.ActivityEvent {
	if ev.Kind == LearningEvent {
		return storage.ActivityEvent{
			Kind:       storage.ActivityLearning,
			Topic:      ev.Topic.String(),
			Minutes:    ev.Minutes,
			RecordedAt: ev.At,
		}
	}
	return storage.ActivityEvent{
		Kind:         storage.ActivityContribution,
		Contribution: ev.Contribution.String(),
		RecordedAt:   ev.At,
	}
}

// FromStorage converts a stored activity row back into an event.
func FromStorage(row storage.ActivityEvent) (Event, error) {
	switch row.Kind {
	case storage.ActivityContribution:
		c, err := ParseContribution(row.Contribution)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: ContributionEvent, Contribution: c, At: row.RecordedAt}, nil
	case storage.ActivityLearning:
		t, err := topic.Parse(row.Topic)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: LearningEvent, Topic: t, Minutes: row.Minutes, At: row.RecordedAt}, nil
	default:
		return Event{}, fmt.Errorf("unknown activity kind %q", row.Kind)
	}
}

// LoadEvents reads the persisted activity log in append order.
func LoadEvents(s storage.Storage) ([]Event, error) {
	rows, err := s.ListActivity()
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}

	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		ev, err := FromStorage(row)
		if err != nil {
			return nil, fmt.Errorf("failed to decode activity: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}
