package querylang

import (
	"strconv"
	"strings"

	"github.com/peniel-r/cortex/internal/node"
)

// fieldValues resolves ident against n, per spec.md section 4.7's field
// resolution rules. Returns the candidate values to compare against (more
// than one only for "tag", which matches if any element matches).
func fieldValues(n *node.Node, ident string) ([]string, bool) {
	switch {
	case ident == "type":
		return []string{string(n.Type)}, true
	case ident == "tag":
		if len(n.Tags) == 0 {
			return nil, false
		}
		return append([]string(nil), n.Tags...), true
	case strings.HasPrefix(ident, "context."):
		v, ok := contextField(n.Ctx, strings.TrimPrefix(ident, "context."))
		if !ok {
			return nil, false
		}
		return []string{v}, true
	case strings.HasPrefix(ident, "_llm."):
		v, ok := llmField(n.LLM, strings.TrimPrefix(ident, "_llm."))
		if !ok {
			return nil, false
		}
		return []string{v}, true
	default:
		return directScalar(n, ident)
	}
}

func directScalar(n *node.Node, ident string) ([]string, bool) {
	switch ident {
	case "id":
		return []string{n.ID}, true
	case "title":
		return []string{n.Title}, true
	case "language":
		return []string{n.Language}, true
	case "hash":
		if n.Hash == "" {
			return nil, false
		}
		return []string{n.Hash}, true
	case "updated":
		if !n.HasUpdated {
			return nil, false
		}
		return []string{n.Updated.UTC().Format("2006-01-02T15:04:05Z")}, true
	default:
		return nil, false
	}
}

func contextField(ctx node.Context, name string) (string, bool) {
	switch {
	case ctx.Requirement != nil:
		c := ctx.Requirement
		switch name {
		case "status":
			return c.Status, true
		case "verification_method":
			return c.VerificationMethod, true
		case "priority":
			return strconv.Itoa(c.Priority), true
		case "assignee":
			return c.Assignee, true
		case "effort_points":
			if !c.HasEffortPoints {
				return "", false
			}
			return strconv.Itoa(c.EffortPoints), true
		case "sprint":
			return c.Sprint, true
		}
	case ctx.TestCase != nil:
		c := ctx.TestCase
		switch name {
		case "framework":
			return c.Framework, true
		case "test_file":
			return c.TestFile, true
		case "status":
			return c.Status, true
		case "priority":
			return strconv.Itoa(c.Priority), true
		case "assignee":
			return c.Assignee, true
		case "duration":
			return c.Duration, true
		case "last_run":
			return c.LastRun, true
		}
	case ctx.Issue != nil:
		c := ctx.Issue
		switch name {
		case "status":
			return c.Status, true
		case "priority":
			return strconv.Itoa(c.Priority), true
		case "assignee":
			return c.Assignee, true
		case "created":
			return c.Created, true
		case "resolved":
			return c.Resolved, true
		case "closed":
			return c.Closed, true
		}
	case ctx.StateMachine != nil:
		c := ctx.StateMachine
		switch name {
		case "entry_action":
			return c.EntryAction, true
		case "exit_action":
			return c.ExitAction, true
		}
	case ctx.Artifact != nil:
		c := ctx.Artifact
		switch name {
		case "runtime":
			return c.Runtime, true
		case "file_path":
			return c.FilePath, true
		case "safe_to_exec":
			return strconv.FormatBool(c.SafeToExec), true
		case "language_version":
			return c.LanguageVersion, true
		case "last_modified":
			return c.LastModified, true
		}
	default:
		if v, ok := ctx.Custom[name]; ok {
			return v, true
		}
	}
	return "", false
}

func llmField(llm *node.LLMMetadata, name string) (string, bool) {
	if llm == nil {
		return "", false
	}
	switch name {
	case "t", "short_title":
		return llm.ShortTitle, true
	case "d", "density":
		return strconv.Itoa(llm.Density), true
	case "c", "token_count":
		return strconv.Itoa(llm.TokenCount), true
	case "strategy":
		return llm.Strategy, true
	}
	return "", false
}
