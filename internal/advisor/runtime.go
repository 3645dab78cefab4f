/*
Package advisor wires the engines to their supporting infrastructure.

A Runtime owns one instance of each engine for the life of the process,
restores their state from SQLite on Open, persists every mutation, and
exposes the catalog search index. The CLI and the MCP server are both thin
layers over a Runtime.
*/
package advisor

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/khanglvm/dev-advisor/internal/config"
	"github.com/khanglvm/dev-advisor/internal/content"
	"github.com/khanglvm/dev-advisor/internal/impact"
	"github.com/khanglvm/dev-advisor/internal/recommend"
	"github.com/khanglvm/dev-advisor/internal/search"
	"github.com/khanglvm/dev-advisor/internal/storage"
	"github.com/khanglvm/dev-advisor/internal/topic"
)

// Runtime bundles the engines with storage, journaling and search.
type Runtime struct {
	Config      *config.Config
	Store       *storage.SQLiteStorage
	Recommender *recommend.Engine
	Generator   *content.Generator
	Impact      *impact.Engine
	Index       *search.Indexer
	Journal     *impact.Journal
}

// Option configures Open.
type Option func(*options)

type options struct {
	inspector    recommend.Inspector
	contentOpts  []content.Option
	impactOpts   []impact.Option
	recommendOps []recommend.Option
}

// WithInspector replaces the filesystem inspector built from config.
func WithInspector(i recommend.Inspector) Option {
	return func(o *options) { o.inspector = i }
}

// WithContentOptions appends generator options after the config-derived ones.
func WithContentOptions(opts ...content.Option) Option {
	return func(o *options) { o.contentOpts = append(o.contentOpts, opts...) }
}

// WithImpactOptions appends impact engine options.
func WithImpactOptions(opts ...impact.Option) Option {
	return func(o *options) { o.impactOpts = append(o.impactOpts, opts...) }
}

// WithRecommendOptions appends recommendation engine options.
func WithRecommendOptions(opts ...recommend.Option) Option {
	return func(o *options) { o.recommendOps = append(o.recommendOps, opts...) }
}

// Open builds a Runtime from cfg. Storage failures degrade to in-memory
// operation with a warning; configuration errors are returned.
func Open(cfg *config.Config, opts ...Option) (*Runtime, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if cfg == nil || cfg.Settings == nil {
		cfg = config.NewConfig()
	}

	dbPath, err := cfg.ResolvedDBPath()
	if err != nil {
		return nil, err
	}
	store := storage.NewStorage(dbPath)
	if err := store.Init(); err != nil {
		log.Printf("Warning: history storage unavailable, state will not persist: %v", err)
	}

	rt := &Runtime{Config: cfg, Store: store}

	// Recommendation engine with restored history
	history, err := LoadHistory(store)
	if err != nil {
		log.Printf("Warning: failed to restore upgrade history: %v", err)
		history = nil
	}
	inspector := o.inspector
	if inspector == nil {
		inspector = cfg.Inspector()
	}
	rt.Recommender = recommend.NewEngine(inspector,
		append([]recommend.Option{recommend.WithHistory(history)}, o.recommendOps...)...)

	// Content generator
	defaultTopic, err := cfg.Topic()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to resolve default topic: %w", err)
	}
	contentOpts := []content.Option{content.WithDefaultTopic(defaultTopic)}
	if seed := cfg.Settings.Seed; seed != 0 {
		contentOpts = append(contentOpts, content.WithSeed(seed))
	}
	rt.Generator, err = content.New(append(contentOpts, o.contentOpts...)...)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create content generator: %w", err)
	}

	// Impact engine, replayed from the activity log
	rt.Journal = impact.NewJournal(store)
	rt.SetTracking(!cfg.Settings.TrackingDisabled)
	rt.Impact = impact.NewEngine(append([]impact.Option{impact.WithObserver(rt.Journal.Track)}, o.impactOpts...)...)
	if events, err := impact.LoadEvents(store); err != nil {
		log.Printf("Warning: failed to restore impact activity: %v", err)
	} else if err := rt.Impact.Replay(events); err != nil {
		log.Printf("Warning: failed to replay impact activity: %v", err)
	}

	// Catalog search
	rt.Index, err = search.NewCatalogIndex(rt.Generator.Templates())
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to build search index: %w", err)
	}

	return rt, nil
}

// Close flushes the journal and releases the index and database.
func (rt *Runtime) Close() error {
	if rt.Journal != nil {
		if n := rt.Journal.QueueSize(); n > 0 {
			log.Printf("Flushing %d pending impact events", n)
		}
		rt.Journal.Stop()
	}
	if rt.Index != nil {
		rt.Index.Close()
	}
	return rt.Store.Close()
}

// SetTracking turns the activity journal on or off. Events recorded while
// tracking is off are not persisted.
func (rt *Runtime) SetTracking(enabled bool) {
	if enabled {
		rt.Journal.Enable()
	} else {
		rt.Journal.Disable()
	}
}

// Analyze inspects path (made absolute) and returns the recommendation set.
func (rt *Runtime) Analyze(ctx context.Context, path string) (recommend.Set, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return recommend.Set{}, fmt.Errorf("failed to resolve path: %w", err)
	}
	return rt.Recommender.Analyze(ctx, abs)
}

// Apply records rec against path in the engine and in storage. Once the
// engine has the record, a storage failure is only logged.
func (rt *Runtime) Apply(rec recommend.Recommendation, path string) (recommend.UpgradeRecord, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return recommend.UpgradeRecord{}, fmt.Errorf("failed to resolve path: %w", err)
	}

	record := rt.Recommender.Apply(rec, abs)
	if err := rt.Store.RecordUpgrade(ToUpgradeRow(record)); err != nil {
		log.Printf("Warning: upgrade applied but not persisted: %v", err)
	}
	return record, nil
}

// Generate creates one content item and logs it.
func (rt *Runtime) Generate(t topic.Topic) content.Content {
	c := rt.Generator.Generate(t)
	rt.logContent(c)
	return c
}

// GenerateBatch creates count items and logs each. Counts above the
// configured batch limit fail with content.ErrInvalidArgument.
func (rt *Runtime) GenerateBatch(count int, topics []topic.Topic) ([]content.Content, error) {
	if limit := rt.Config.BatchLimit(); count > limit {
		return nil, fmt.Errorf("%w: count %d exceeds settings.maxBatch %d", content.ErrInvalidArgument, count, limit)
	}
	items, err := rt.Generator.GenerateBatch(count, topics)
	if err != nil {
		return nil, err
	}
	for _, c := range items {
		rt.logContent(c)
	}
	return items, nil
}

func (rt *Runtime) logContent(c content.Content) {
	if err := rt.Store.RecordContent(ToContentRecord(c)); err != nil {
		log.Printf("Warning: failed to log generated content: %v", err)
	}
}

// Search queries the catalog index, optionally scoped to one topic.
func (rt *Runtime) Search(query string, scope *topic.Topic, limit int) ([]search.Result, error) {
	if scope != nil {
		return rt.Index.SearchByTopic(query, *scope, limit)
	}
	return rt.Index.Search(query, limit)
}
