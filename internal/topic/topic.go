/*
Package topic defines the closed set of learning subject areas.

Topics are shared by the content catalog and the impact tracker, so they live
in their own package and carry no behavior beyond naming and parsing.
*/
package topic

import (
	"errors"
	"fmt"
	"strings"
)

// Topic is a learning subject area.
type Topic int

const (
	SwiftUI Topic = iota
	SwiftData
	Concurrency
	Testing
	Performance
	Security
	Accessibility
	Animations
)

// ErrUnknownTopic is returned when a topic name cannot be parsed.
var ErrUnknownTopic = errors.New("unknown topic")

var names = [...]string{
	SwiftUI:       "SwiftUI",
	SwiftData:     "SwiftData",
	Concurrency:   "Concurrency",
	Testing:       "Testing",
	Performance:   "Performance",
	Security:      "Security",
	Accessibility: "Accessibility",
	Animations:    "Animations",
}

// All returns every topic in declaration order.
func All() []Topic {
	all := make([]Topic, len(names))
	for i := range names {
		all[i] = Topic(i)
	}
	return all
}

// Valid reports whether t is one of the declared topics.
func (t Topic) Valid() bool {
	return t >= 0 && int(t) < len(names)
}

func (t Topic) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Topic(%d)", int(t))
	}
	return names[t]
}

// Parse resolves a topic by name, ignoring case.
func Parse(name string) (Topic, error) {
	name = strings.TrimSpace(name)
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return Topic(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTopic, name)
}

// MarshalText encodes the topic as its name.
func (t Topic) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTopic, int(t))
	}
	return []byte(names[t]), nil
}

// UnmarshalText decodes a topic from its name.
func (t *Topic) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
