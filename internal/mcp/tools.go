package mcp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/khanglvm/dev-advisor/internal/advisor"
	"github.com/khanglvm/dev-advisor/internal/impact"
	"github.com/khanglvm/dev-advisor/internal/recommend"
	"github.com/khanglvm/dev-advisor/internal/topic"
)

// errMissingArgument is returned when a required tool argument is absent.
var errMissingArgument = errors.New("missing required argument")

type toolHandler func(ctx context.Context, a args) (interface{}, error)

// tools maps tool names to handlers.
func (s *Server) tools() map[string]toolHandler {
	return map[string]toolHandler{
		"advisor_analyze":   s.execAnalyze,
		"advisor_apply":     s.execApply,
		"advisor_history":   s.execHistory,
		"content_generate":  s.execGenerate,
		"content_batch":     s.execBatch,
		"content_count":     s.execCount,
		"content_search":    s.execSearch,
		"impact_contribute": s.execContribute,
		"impact_learn":      s.execLearn,
		"impact_metrics":    s.execMetrics,
		"impact_score":      s.execScore,
	}
}

// toolDefinitions returns the tool schemas advertised by tools/list.
func toolDefinitions() []map[string]interface{} {
	str := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "string", "description": desc}
	}
	num := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "integer", "description": desc}
	}
	schema := func(props map[string]interface{}, required ...string) map[string]interface{} {
		s := map[string]interface{}{"type": "object", "properties": props}
		if len(required) > 0 {
			s["required"] = required
		}
		return s
	}

	return []map[string]interface{}{
		{
			"name":        "advisor_analyze",
			"description": "Inspect a project directory and return prioritized upgrade recommendations.",
			"inputSchema": schema(map[string]interface{}{
				"path": str("Project directory to inspect"),
			}, "path"),
		},
		{
			"name":        "advisor_apply",
			"description": "Record that a recommendation was applied to a project.",
			"inputSchema": schema(map[string]interface{}{
				"kind":    str("Recommendation kind, e.g. add_testing or improve_coverage"),
				"path":    str("Project directory the upgrade was applied to"),
				"current": num("Current coverage percent (improve_coverage only)"),
				"target":  num("Target coverage percent (improve_coverage only)"),
			}, "kind", "path"),
		},
		{
			"name":        "advisor_history",
			"description": "List applied upgrades in the order they were applied.",
			"inputSchema": schema(map[string]interface{}{}),
		},
		{
			"name":        "content_generate",
			"description": "Generate one learning content item for a topic.",
			"inputSchema": schema(map[string]interface{}{
				"topic": str("Topic name, e.g. SwiftUI or Testing"),
			}, "topic"),
		},
		{
			"name":        "content_batch",
			"description": "Generate several content items, drawing topics at random.",
			"inputSchema": schema(map[string]interface{}{
				"count": num("Number of items to generate"),
				"topics": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Topics to draw from (defaults to the configured topic)",
				},
			}, "count"),
		},
		{
			"name":        "content_count",
			"description": "Return how many content items have been generated this session.",
			"inputSchema": schema(map[string]interface{}{}),
		},
		{
			"name":        "content_search",
			"description": "Search the content catalog by keyword.",
			"inputSchema": schema(map[string]interface{}{
				"query": str("Search terms"),
				"topic": str("Restrict results to one topic"),
				"limit": num("Maximum results (default 10)"),
			}, "query"),
		},
		{
			"name":        "impact_contribute",
			"description": "Record a community contribution.",
			"inputSchema": schema(map[string]interface{}{
				"type": str("post, comment, code_shared or help_provided"),
			}, "type"),
		},
		{
			"name":        "impact_learn",
			"description": "Record time spent learning a topic.",
			"inputSchema": schema(map[string]interface{}{
				"topic":   str("Topic name"),
				"minutes": num("Minutes spent"),
			}, "topic", "minutes"),
		},
		{
			"name":        "impact_metrics",
			"description": "Return the current impact metrics.",
			"inputSchema": schema(map[string]interface{}{}),
		},
		{
			"name":        "impact_score",
			"description": "Return the weighted impact score.",
			"inputSchema": schema(map[string]interface{}{}),
		},
	}
}

func (s *Server) execAnalyze(ctx context.Context, a args) (interface{}, error) {
	path, err := a.requireString("path")
	if err != nil {
		return nil, err
	}
	set, err := s.rt.Analyze(ctx, path)
	if err != nil {
		return nil, err
	}
	return advisor.ViewSet(set), nil
}

func (s *Server) execApply(_ context.Context, a args) (interface{}, error) {
	name, err := a.requireString("kind")
	if err != nil {
		return nil, err
	}
	path, err := a.requireString("path")
	if err != nil {
		return nil, err
	}
	kind, err := recommend.ParseKind(name)
	if err != nil {
		return nil, err
	}
	current, _, err := a.int("current")
	if err != nil {
		return nil, err
	}
	target, _, err := a.int("target")
	if err != nil {
		return nil, err
	}
	rec, err := recommend.New(kind, current, target)
	if err != nil {
		return nil, err
	}

	record, err := s.rt.Apply(rec, path)
	if err != nil {
		return nil, err
	}
	return advisor.ViewHistory([]recommend.UpgradeRecord{record})[0], nil
}

func (s *Server) execHistory(context.Context, args) (interface{}, error) {
	return advisor.ViewHistory(s.rt.Recommender.History()), nil
}

func (s *Server) execGenerate(_ context.Context, a args) (interface{}, error) {
	name, err := a.requireString("topic")
	if err != nil {
		return nil, err
	}
	t, err := topic.Parse(name)
	if err != nil {
		return nil, err
	}
	return s.rt.Generate(t), nil
}

func (s *Server) execBatch(_ context.Context, a args) (interface{}, error) {
	count, ok, err := a.int("count")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: count", errMissingArgument)
	}
	topics, err := a.topics("topics")
	if err != nil {
		return nil, err
	}
	return s.rt.GenerateBatch(count, topics)
}

func (s *Server) execCount(context.Context, args) (interface{}, error) {
	return map[string]int{"count": s.rt.Generator.Count()}, nil
}

func (s *Server) execSearch(_ context.Context, a args) (interface{}, error) {
	query, err := a.requireString("query")
	if err != nil {
		return nil, err
	}
	limit, _, err := a.int("limit")
	if err != nil {
		return nil, err
	}

	var scope *topic.Topic
	if name, ok := a.string("topic"); ok && name != "" {
		t, err := topic.Parse(name)
		if err != nil {
			return nil, err
		}
		scope = &t
	}
	return s.rt.Search(query, scope, limit)
}

func (s *Server) execContribute(_ context.Context, a args) (interface{}, error) {
	name, err := a.requireString("type")
	if err != nil {
		return nil, err
	}
	c, err := impact.ParseContribution(name)
	if err != nil {
		return nil, err
	}
	if err := s.rt.Impact.RecordContribution(c); err != nil {
		return nil, err
	}
	return s.rt.Impact.Metrics(), nil
}

func (s *Server) execLearn(_ context.Context, a args) (interface{}, error) {
	name, err := a.requireString("topic")
	if err != nil {
		return nil, err
	}
	t, err := topic.Parse(name)
	if err != nil {
		return nil, err
	}
	minutes, ok, err := a.int("minutes")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: minutes", errMissingArgument)
	}
	if err := s.rt.Impact.RecordLearning(t, minutes); err != nil {
		return nil, err
	}
	return s.rt.Impact.Metrics(), nil
}

func (s *Server) execMetrics(context.Context, args) (interface{}, error) {
	return s.rt.Impact.Metrics(), nil
}

func (s *Server) execScore(context.Context, args) (interface{}, error) {
	return map[string]float64{"score": s.rt.Impact.Score()}, nil
}

// args wraps decoded tool arguments.
type args map[string]interface{}

func (a args) string(key string) (string, bool) {
	v, ok := a[key].(string)
	return v, ok
}

func (a args) requireString(key string) (string, error) {
	v, ok := a.string(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", errMissingArgument, key)
	}
	return v, nil
}

// int reads an integer argument. JSON numbers arrive as float64.
func (a args) int(key string) (int, bool, error) {
	raw, ok := a[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	f, ok := raw.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false, fmt.Errorf("argument %s must be an integer", key)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false, fmt.Errorf("argument %s is out of range", key)
	}
	return int(f), true, nil
}

func (a args) topics(key string) ([]topic.Topic, error) {
	raw, ok := a[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("argument %s must be an array of topic names", key)
	}

	out := make([]topic.Topic, 0, len(list))
	for _, item := range list {
		name, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("argument %s must be an array of topic names", key)
		}
		t, err := topic.Parse(name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
