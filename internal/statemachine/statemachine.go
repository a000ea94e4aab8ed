// Package statemachine validates type-specific workflow state transitions
// (spec.md section 4.6).
package statemachine

import (
	"fmt"

	"github.com/peniel-r/cortex/internal/cerr"
)

// WorkflowType identifies which of the three transition tables applies.
type WorkflowType string

const (
	WorkflowIssue       WorkflowType = "issue"
	WorkflowTestCase    WorkflowType = "test_case"
	WorkflowRequirement WorkflowType = "requirement"
)

// transitions maps a workflow type to its set of legal (from -> to) pairs.
var transitions = map[WorkflowType]map[string]map[string]bool{
	WorkflowIssue: {
		"open":        {"in_progress": true},
		"in_progress": {"open": true, "resolved": true},
		"resolved":    {"in_progress": true, "closed": true},
		"closed":      {},
	},
	WorkflowTestCase: {
		"not_run": {"running": true},
		"running": {"passing": true, "failing": true},
		"passing": {"running": true},
		"failing": {"running": true},
	},
	WorkflowRequirement: {
		"draft":       {"approved": true},
		"approved":    {"draft": true, "implemented": true},
		"implemented": {"approved": true},
	},
}

// initialState is the default status a freshly-created node of a workflow
// type starts in, used by the node store when no status is present.
var initialState = map[WorkflowType]string{
	WorkflowIssue:       "open",
	WorkflowTestCase:    "not_run",
	WorkflowRequirement: "draft",
}

// InitialState returns the default status for wt, or "" if wt is not a
// tracked workflow type.
func InitialState(wt WorkflowType) string {
	return initialState[wt]
}

// IsWorkflowType reports whether t names one of the three tracked
// workflow types.
func IsWorkflowType(t string) bool {
	_, ok := initialState[WorkflowType(t)]
	return ok
}

// IsValidTransition reports whether from -> to is legal for wt, without
// raising an error. An unknown workflow type has no legal transitions.
func IsValidTransition(wt WorkflowType, from, to string) bool {
	table, ok := transitions[wt]
	if !ok {
		return false
	}
	return table[from][to]
}

// Transition validates and returns the resulting status. With force=true
// the check is bypassed entirely (for initial data loading, spec.md
// section 4.6); force must be explicitly opted into by the caller.
func Transition(wt WorkflowType, from, to string, force bool) (string, error) {
	if force {
		return to, nil
	}
	if !IsValidTransition(wt, from, to) {
		return "", cerr.New(cerr.ErrCodeInvalidTransition,
			fmt.Sprintf("invalid transition for %s: %s -> %s", wt, from, to), nil).
			WithDetail("workflow_type", string(wt)).
			WithDetail("from", from).
			WithDetail("to", to)
	}
	return to, nil
}
