// Package validator checks the integrity of a navigator graph.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/meiyaku-knights/navi/pkg/domain"
)

// Issue is one finding about a node.
type Issue struct {
	Node    string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Node, i.Message)
}

// AggregateError carries every structural error found in a graph.
type AggregateError struct {
	Issues []Issue
}

func (e *AggregateError) Error() string {
	lines := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		lines[i] = issue.String()
	}
	return fmt.Sprintf("found %d errors:\n- %s", len(e.Issues), strings.Join(lines, "\n- "))
}

// Report is the outcome of Validate. Warnings never fail validation.
type Report struct {
	Errors   []Issue
	Warnings []Issue
}

// Err returns an *AggregateError when the report has errors, nil otherwise.
func (r Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return &AggregateError{Issues: r.Errors}
}

// Validate walks g from startID and collects:
// errors for a missing start, dangling pointers, empty questions, misplaced
// prefixes, unknown tools and reachable cycles; warnings for unreachable nodes.
func Validate(g *domain.Graph, startID, prefix string) Report {
	var r Report
	errorf := func(node, format string, args ...any) {
		r.Errors = append(r.Errors, Issue{Node: node, Message: fmt.Sprintf(format, args...)})
	}

	qids := sortedKeys(g.Questions)
	rids := sortedKeys(g.Results)

	if _, ok := g.Questions[startID]; !ok {
		errorf(startID, "start question not found")
	}

	for _, id := range qids {
		q := g.Questions[id]
		if domain.IsTerminal(id, prefix) {
			errorf(id, "question id uses the result prefix %q", prefix)
		}
		if len(q.Options) == 0 {
			errorf(id, "question has no options")
		}
		for i, opt := range q.Options {
			if opt.Next == "" {
				errorf(id, "option %d (%q) has no next", i, opt.Label)
				continue
			}
			if !exists(g, opt.Next, prefix) {
				errorf(id, "option %d (%q) points to missing node %q", i, opt.Label, opt.Next)
			}
		}
	}

	for _, id := range rids {
		res := g.Results[id]
		if !domain.IsTerminal(id, prefix) {
			errorf(id, "result id lacks the result prefix %q", prefix)
		}
		for _, tool := range res.Tools {
			if !tool.Valid() {
				errorf(id, "unknown tool %q", tool)
			}
		}
	}

	if _, ok := g.Questions[startID]; !ok {
		return r
	}

	reached := make(map[string]bool)
	for _, cycle := range findCycles(g, startID, prefix, reached) {
		errorf(cycle[0], "cycle: %s", strings.Join(cycle, " → "))
	}

	for _, id := range qids {
		if !reached[id] {
			r.Warnings = append(r.Warnings, Issue{Node: id, Message: "question is unreachable from " + startID})
		}
	}
	for _, id := range rids {
		if !reached[id] {
			r.Warnings = append(r.Warnings, Issue{Node: id, Message: "result is unreachable from " + startID})
		}
	}
	return r
}

func exists(g *domain.Graph, id, prefix string) bool {
	if domain.IsTerminal(id, prefix) {
		_, ok := g.Results[id]
		return ok
	}
	_, ok := g.Questions[id]
	return ok
}

// findCycles runs a DFS over questions, marking every node it reaches.
// Each back edge yields the cycle it closes.
func findCycles(g *domain.Graph, startID, prefix string, reached map[string]bool) [][]string {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int)
	var stack []string
	var cycles [][]string

	var visit func(id string)
	visit = func(id string) {
		reached[id] = true
		if domain.IsTerminal(id, prefix) {
			return
		}
		q, ok := g.Questions[id]
		if !ok {
			return
		}
		color[id] = grey
		stack = append(stack, id)
		for _, opt := range q.Options {
			switch color[opt.Next] {
			case white:
				visit(opt.Next)
			case grey:
				for i, s := range stack {
					if s == opt.Next {
						cycle := append(append([]string{}, stack[i:]...), opt.Next)
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}
	visit(startID)
	return cycles
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
