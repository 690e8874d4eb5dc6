// Package validator lints workflow definitions before they are saved.
//
// The editor accepts any graph, so nothing here is enforced on edit. The
// checks catch definitions that would save fine but do little at run time.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/aretw0/agentdeck/pkg/registry"
)

// ValidateWorkflow checks the structure only: duplicate ids, unknown kinds,
// broken links and unreachable nodes. Node config is never inspected.
// An empty workflow is valid.
func ValidateWorkflow(def *domain.WorkflowDefinition, reg *registry.Registry) error {
	if def == nil || len(def.Nodes) == 0 {
		return nil
	}
	if reg == nil {
		reg = registry.Default
	}

	var errors []string
	known := make(map[string]bool, len(def.Nodes))
	for _, n := range def.Nodes {
		if known[n.ID] {
			errors = append(errors, fmt.Sprintf("Duplicate node id: '%s'", n.ID))
		}
		known[n.ID] = true

		if _, ok := reg.Lookup(n.Type); !ok {
			errors = append(errors, fmt.Sprintf("Unknown node type '%s' on '%s'", n.Type, n.ID))
		}
	}

	next := make(map[string][]string)
	incoming := make(map[string]bool)
	for _, e := range def.Edges {
		for _, end := range []string{e.Source, e.Target} {
			if !known[end] {
				errors = append(errors, fmt.Sprintf("Missing node '%s' in edge %s -> %s", end, e.Source, e.Target))
			}
		}
		next[e.Source] = append(next[e.Source], e.Target)
		if e.Source != e.Target {
			incoming[e.Target] = true
		}
	}

	// Crawl from entry nodes; with no entry the first node starts.
	var queue []string
	for _, n := range def.Nodes {
		if !incoming[n.ID] {
			queue = append(queue, n.ID)
		}
	}
	if len(queue) == 0 {
		queue = append(queue, def.Nodes[0].ID)
	}
	visited := make(map[string]bool)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] || !known[current] {
			continue
		}
		visited[current] = true
		queue = append(queue, next[current]...)
	}

	var unreachable []string
	for id := range known {
		if !visited[id] {
			unreachable = append(unreachable, id)
		}
	}
	sort.Strings(unreachable)
	for _, id := range unreachable {
		errors = append(errors, fmt.Sprintf("Unreachable node: '%s'", id))
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}
