package content

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khanglvm/dev-advisor/internal/metrics"
	"github.com/khanglvm/dev-advisor/internal/topic"
)

// Fallback strings for empty variant lists. The catalog validation makes
// them unreachable for built-in templates.
const (
	defaultTitle = "Swift Tutorial"
	defaultBody  = "Learn Swift concepts"
	defaultCode  = "// Code example"
)

// batchPrealloc caps the slice capacity reserved up front by GenerateBatch.
const batchPrealloc = 64

// Generator instantiates catalog templates into content.
type Generator struct {
	templates    []Template
	defaultTopic topic.Topic
	hasDefault   bool
	now          func() time.Time

	mu    sync.Mutex
	rng   *rand.Rand
	count int
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source. The generator serializes access to it.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithSeed sets a deterministic random source.
func WithSeed(seed int64) Option {
	return func(g *Generator) { g.rng = rand.New(rand.NewSource(seed)) }
}

// WithTemplates replaces the built-in catalog.
func WithTemplates(templates []Template) Option {
	return func(g *Generator) { g.templates = templates }
}

// WithDefaultTopic sets the topic used by GenerateBatch when no topics are given.
func WithDefaultTopic(t topic.Topic) Option {
	return func(g *Generator) {
		g.defaultTopic = t
		g.hasDefault = true
	}
}

// WithoutDefaultTopic makes GenerateBatch reject an empty topic list.
func WithoutDefaultTopic() Option {
	return func(g *Generator) { g.hasDefault = false }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a generator over the built-in catalog unless WithTemplates is
// given. The catalog is validated once here and never changes afterwards.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		templates:    Catalog(),
		defaultTopic: topic.SwiftUI,
		hasDefault:   true,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	if err := ValidateCatalog(g.templates); err != nil {
		return nil, err
	}
	g.templates = cloneTemplates(g.templates)

	if g.hasDefault && !g.defaultTopic.Valid() {
		return nil, fmt.Errorf("%w: default topic %v", ErrInvalidArgument, g.defaultTopic)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return g, nil
}

// Generate produces one content item for t. The counter is incremented before
// a template is chosen.
func (g *Generator) Generate(t topic.Topic) Content {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generateLocked(t)
}

func (g *Generator) generateLocked(t topic.Topic) Content {
	g.count++
	metrics.ContentGenerated.WithLabelValues(t.String()).Inc()

	tmpl := g.pickTemplate(t)

	return Content{
		ID:               uuid.New(),
		Topic:            tmpl.Topic,
		Title:            g.pick(tmpl.Titles, defaultTitle),
		Body:             g.pick(tmpl.Bodies, defaultBody),
		CodeSnippet:      g.pick(tmpl.Codes, defaultCode),
		Tags:             append([]string(nil), tmpl.Tags...),
		Difficulty:       tmpl.Difficulty,
		EstimatedMinutes: tmpl.EstimatedMinutes,
		GeneratedAt:      g.now(),
	}
}

// pickTemplate chooses uniformly among templates for t, falling back to the
// first catalog entry when none match.
func (g *Generator) pickTemplate(t topic.Topic) Template {
	var candidates []int
	for i, tmpl := range g.templates {
		if tmpl.Topic == t {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		log.Printf("Warning: no template for topic %v, falling back to %v", t, g.templates[0].Topic)
		return g.templates[0]
	}
	return g.templates[candidates[g.rng.Intn(len(candidates))]]
}

func (g *Generator) pick(variants []string, fallback string) string {
	if len(variants) == 0 {
		return fallback
	}
	return variants[g.rng.Intn(len(variants))]
}

// GenerateBatch produces exactly count items, each for a topic drawn
// uniformly from topics, or the default topic when topics is empty.
// Items are generated independently; other callers may interleave.
func (g *Generator) GenerateBatch(count int, topics []topic.Topic) ([]Content, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrInvalidArgument, count)
	}
	if len(topics) == 0 && !g.hasDefault {
		return nil, fmt.Errorf("%w: no topics given and no default topic configured", ErrInvalidArgument)
	}

	results := make([]Content, 0, min(count, batchPrealloc))
	for i := 0; i < count; i++ {
		g.mu.Lock()
		t := g.defaultTopic
		if len(topics) > 0 {
			t = topics[g.rng.Intn(len(topics))]
		}
		results = append(results, g.generateLocked(t))
		g.mu.Unlock()
	}
	return results, nil
}

// Count returns the number of generations attempted so far.
func (g *Generator) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}

// Templates returns a copy of the catalog.
func (g *Generator) Templates() []Template {
	return cloneTemplates(g.templates)
}

func cloneTemplates(in []Template) []Template {
	out := make([]Template, len(in))
	for i, tmpl := range in {
		tmpl.Titles = append([]string(nil), tmpl.Titles...)
		tmpl.Bodies = append([]string(nil), tmpl.Bodies...)
		tmpl.Codes = append([]string(nil), tmpl.Codes...)
		tmpl.Tags = append([]string(nil), tmpl.Tags...)
		out[i] = tmpl
	}
	return out
}
