package content

import (
	"errors"
	"testing"

	"github.com/khanglvm/dev-advisor/internal/topic"
)

func TestBuiltInCatalogIsValid(t *testing.T) {
	if err := ValidateCatalog(Catalog()); err != nil {
		t.Fatalf("built-in catalog invalid: %v", err)
	}
}

func TestValidateCatalog(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]Template) []Template
	}{
		{"empty", func([]Template) []Template { return nil }},
		{"missing titles", func(c []Template) []Template { c[0].Titles = nil; return c }},
		{"missing bodies", func(c []Template) []Template { c[1].Bodies = []string{}; return c }},
		{"invalid topic", func(c []Template) []Template { c[3].Topic = topic.Topic(77); return c }},
		{"uncovered topic", func(c []Template) []Template { return c[:len(c)-1] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCatalog(tt.mutate(Catalog()))
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestDifficultyString(t *testing.T) {
	if Beginner.String() != "Beginner" || Intermediate.String() != "Intermediate" || Advanced.String() != "Advanced" {
		t.Error("difficulty display names changed")
	}
}
