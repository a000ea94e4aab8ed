package node

import "strconv"

// defaultPriority is applied when a context variant carrying a priority
// field omits it (spec.md section 4.1 step 4).
const defaultPriority = 3

// parseContext dispatches on typ to build the type-specific Context
// variant from the raw "context" front-matter block. Unknown fields in a
// known variant fall into the variant's custom side-map where supported;
// an unrecognised type degrades to Custom with no error (spec.md section
// 4.1 step 6 and section 9's forward-compatibility note).
func parseContext(typ Type, raw interface{}, initialStatus string) Context {
	m, ok := asOrderedMap(raw)
	if !ok {
		m = newOrderedMap()
	}

	switch typ {
	case TypeRequirement:
		c := &RequirementContext{
			Status:             stringOr(m, "status", initialStatus),
			VerificationMethod: asString(mget(m, "verification_method")),
			Priority:           intOr(m, "priority", defaultPriority),
			Assignee:           asString(mget(m, "assignee")),
			Sprint:             asString(mget(m, "sprint")),
		}
		if v, ok := m.get("effort_points"); ok {
			if n, err := strconv.Atoi(asString(v)); err == nil {
				c.EffortPoints = n
				c.HasEffortPoints = true
			}
		}
		return Context{Requirement: c}

	case TypeTestCase:
		c := &TestCaseContext{
			Framework: asString(mget(m, "framework")),
			TestFile:  asString(mget(m, "test_file")),
			Status:    stringOr(m, "status", initialStatus),
			Priority:  intOr(m, "priority", defaultPriority),
			Assignee:  asString(mget(m, "assignee")),
			Duration:  asString(mget(m, "duration")),
			LastRun:   asString(mget(m, "last_run")),
		}
		return Context{TestCase: c}

	case TypeIssue:
		c := &IssueContext{
			Status:    stringOr(m, "status", initialStatus),
			Priority:  intOr(m, "priority", defaultPriority),
			Assignee:  asString(mget(m, "assignee")),
			Created:   asString(mget(m, "created")),
			Resolved:  asString(mget(m, "resolved")),
			Closed:    asString(mget(m, "closed")),
			BlockedBy: asStringSlice(mget(m, "blocked_by")),
			RelatedTo: asStringSlice(mget(m, "related_to")),
		}
		return Context{Issue: c}

	case TypeStateMachine:
		c := &StateMachineContext{
			Triggers:     asStringSlice(mget(m, "triggers")),
			EntryAction:  asString(mget(m, "entry_action")),
			ExitAction:   asString(mget(m, "exit_action")),
			AllowedRoles: asStringSlice(mget(m, "allowed_roles")),
		}
		return Context{StateMachine: c}

	case TypeArtifact:
		c := &ArtifactContext{
			Runtime:         asString(mget(m, "runtime")),
			FilePath:        asString(mget(m, "file_path")),
			SafeToExec:      asString(mget(m, "safe_to_exec")) == "true",
			LanguageVersion: asString(mget(m, "language_version")),
			LastModified:    asString(mget(m, "last_modified")),
		}
		return Context{Artifact: c}

	default:
		// feature, lesson, reference, concept, and unclassified types get
		// a plain string->string map.
		if len(m.keys) == 0 {
			return Context{}
		}
		custom := make(map[string]string, len(m.keys))
		for _, k := range m.keys {
			v, _ := m.get(k)
			custom[k] = asString(v)
		}
		return Context{Custom: custom}
	}
}

func mget(m *orderedMap, key string) interface{} {
	v, _ := m.get(key)
	return v
}

func stringOr(m *orderedMap, key, fallback string) string {
	if v, ok := m.get(key); ok {
		if s := asString(v); s != "" {
			return s
		}
	}
	return fallback
}

func intOr(m *orderedMap, key string, fallback int) int {
	if v, ok := m.get(key); ok {
		if n, err := strconv.Atoi(asString(v)); err == nil {
			return n
		}
	}
	return fallback
}

// ctxField is one rendered context field: either a scalar or a list.
type ctxField struct {
	key    string
	scalar string
	list   []string
	isList bool
}

// serializeContext renders a Context back into an ordered list of
// front-matter fields, dual of parseContext.
func serializeContext(ctx Context) []ctxField {
	var out []ctxField
	add := func(key, val string) {
		if val != "" {
			out = append(out, ctxField{key: key, scalar: val})
		}
	}
	addList := func(key string, vals []string) {
		if len(vals) > 0 {
			out = append(out, ctxField{key: key, list: vals, isList: true})
		}
	}

	switch {
	case ctx.Requirement != nil:
		c := ctx.Requirement
		out = append(out, ctxField{key: "status", scalar: c.Status})
		add("verification_method", c.VerificationMethod)
		out = append(out, ctxField{key: "priority", scalar: strconv.Itoa(c.Priority)})
		add("assignee", c.Assignee)
		if c.HasEffortPoints {
			out = append(out, ctxField{key: "effort_points", scalar: strconv.Itoa(c.EffortPoints)})
		}
		add("sprint", c.Sprint)
	case ctx.TestCase != nil:
		c := ctx.TestCase
		add("framework", c.Framework)
		add("test_file", c.TestFile)
		out = append(out, ctxField{key: "status", scalar: c.Status})
		out = append(out, ctxField{key: "priority", scalar: strconv.Itoa(c.Priority)})
		add("assignee", c.Assignee)
		add("duration", c.Duration)
		add("last_run", c.LastRun)
	case ctx.Issue != nil:
		c := ctx.Issue
		out = append(out, ctxField{key: "status", scalar: c.Status})
		out = append(out, ctxField{key: "priority", scalar: strconv.Itoa(c.Priority)})
		add("assignee", c.Assignee)
		out = append(out, ctxField{key: "created", scalar: c.Created})
		add("resolved", c.Resolved)
		add("closed", c.Closed)
		addList("blocked_by", c.BlockedBy)
		addList("related_to", c.RelatedTo)
	case ctx.StateMachine != nil:
		c := ctx.StateMachine
		addList("triggers", c.Triggers)
		add("entry_action", c.EntryAction)
		add("exit_action", c.ExitAction)
		addList("allowed_roles", c.AllowedRoles)
	case ctx.Artifact != nil:
		c := ctx.Artifact
		add("runtime", c.Runtime)
		add("file_path", c.FilePath)
		out = append(out, ctxField{key: "safe_to_exec", scalar: strconv.FormatBool(c.SafeToExec)})
		add("language_version", c.LanguageVersion)
		add("last_modified", c.LastModified)
	default:
		for k, v := range ctx.Custom {
			add(k, v)
		}
	}
	return out
}
