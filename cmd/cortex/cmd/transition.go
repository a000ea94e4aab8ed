package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peniel-r/cortex/internal/cerr"
	"github.com/peniel-r/cortex/internal/node"
	"github.com/peniel-r/cortex/internal/statemachine"
)

func newTransitionCmd() *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "transition <id> <status>",
		Short: "Transition a node's workflow status",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			id, to := args[0], args[1]

			store := node.NewStore()
			path, err := store.FindPath(cfg.NeuronasDir(), id)
			if err != nil {
				return err
			}
			n, err := store.Read(path)
			if err != nil {
				return err
			}

			wt := statemachine.WorkflowType(n.Type)
			if !statemachine.IsWorkflowType(string(wt)) {
				return cerr.New(cerr.ErrCodeInvalidTransition, "node "+id+" has no workflow status (type "+string(n.Type)+")", nil)
			}

			from := currentStatus(n, wt)
			next, err := statemachine.Transition(wt, from, to, force)
			if err != nil {
				return err
			}
			setStatus(n, wt, next)

			if err := store.Write(path, n, false); err != nil {
				return err
			}

			fmt.Fprintf(c.OutOrStdout(), "%s: %s -> %s\n", id, from, next)
			return nil
		},
	}

	c.Flags().BoolVar(&force, "force", false, "bypass transition-table validation")
	return c
}

func currentStatus(n *node.Node, wt statemachine.WorkflowType) string {
	switch wt {
	case statemachine.WorkflowIssue:
		if n.Ctx.Issue != nil {
			return n.Ctx.Issue.Status
		}
	case statemachine.WorkflowTestCase:
		if n.Ctx.TestCase != nil {
			return n.Ctx.TestCase.Status
		}
	case statemachine.WorkflowRequirement:
		if n.Ctx.Requirement != nil {
			return n.Ctx.Requirement.Status
		}
	}
	return statemachine.InitialState(wt)
}

func setStatus(n *node.Node, wt statemachine.WorkflowType, status string) {
	switch wt {
	case statemachine.WorkflowIssue:
		if n.Ctx.Issue == nil {
			n.Ctx.Issue = &node.IssueContext{}
		}
		n.Ctx.Issue.Status = status
	case statemachine.WorkflowTestCase:
		if n.Ctx.TestCase == nil {
			n.Ctx.TestCase = &node.TestCaseContext{}
		}
		n.Ctx.TestCase.Status = status
	case statemachine.WorkflowRequirement:
		if n.Ctx.Requirement == nil {
			n.Ctx.Requirement = &node.RequirementContext{}
		}
		n.Ctx.Requirement.Status = status
	}
}
