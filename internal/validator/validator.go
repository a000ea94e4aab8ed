// Package validator checks structural invariants over a node collection
// that the Node Store's per-file parser cannot enforce alone — chiefly
// id uniqueness and priority range, which require seeing the whole
// collection or cross-referencing the workflow type (spec.md section 3).
package validator

import (
	"fmt"

	"github.com/peniel-r/cortex/internal/node"
)

// Issue is one structural violation found during Validate. Issues are
// collected, never fatal to the caller: spec.md section 7's batch
// operations degrade per item.
type Issue struct {
	NodeID  string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.NodeID, i.Message)
}

// Validate checks nodes as a collection: duplicate ids and out-of-range
// priorities (spec.md section 3's invariant that priority, where
// present, is in 1..=5).
func Validate(nodes []*node.Node) []Issue {
	var issues []Issue

	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if seen[n.ID] {
			issues = append(issues, Issue{NodeID: n.ID, Message: "duplicate id across node collection"})
		}
		seen[n.ID] = true

		issues = append(issues, validatePriority(n)...)
	}

	return issues
}

func validatePriority(n *node.Node) []Issue {
	var issues []Issue
	check := func(priority int) {
		if priority < 1 || priority > 5 {
			issues = append(issues, Issue{
				NodeID:  n.ID,
				Message: fmt.Sprintf("priority %d out of range 1..=5", priority),
			})
		}
	}

	switch {
	case n.Ctx.Requirement != nil:
		check(n.Ctx.Requirement.Priority)
	case n.Ctx.TestCase != nil:
		check(n.Ctx.TestCase.Priority)
	case n.Ctx.Issue != nil:
		check(n.Ctx.Issue.Priority)
	}
	return issues
}

// ConnectionsResolvable counts the outgoing connections that reference an
// id not present in known (the set of all currently scanned node ids).
// Unresolvable targets are not an error at store level (spec.md section
// 3: "a node may reference not-yet-existing ids") — this is an
// informational report, used by the index engine to compute orphans.
func ConnectionsResolvable(nodes []*node.Node) (orphans int) {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}

	for _, n := range nodes {
		for _, kind := range n.ConnectionOrder {
			for _, c := range n.Connections[kind] {
				if !known[c.TargetID] {
					orphans++
				}
			}
		}
	}
	return orphans
}
