package workflow

import "sort"

// Chain reconstructs the ordered step sequence of a workflow from its
// parent-pointer records, entry step first.
//
// The entry step is the unique step with no parent. If there is no such step,
// or more than one, the graph is ambiguous and an empty chain is returned —
// callers must treat that as inconclusive, not as a clean workflow. A visited
// set guards against cycles: a repeated identifier terminates the walk instead
// of looping. When a step has multiple children the walk follows the child
// with the smallest identifier; alternate branches are not independently
// analyzed, which is a documented precision limit.
func Chain(w Workflow) []Step {
	if len(w.Steps) == 0 {
		return nil
	}

	byID := make(map[string]Step, len(w.Steps))
	children := make(map[string][]string)
	var rootID string
	roots := 0

	for _, s := range w.Steps {
		byID[s.ID] = s
		if s.ParentID == "" {
			roots++
			rootID = s.ID
			continue
		}
		children[s.ParentID] = append(children[s.ParentID], s.ID)
	}

	if roots != 1 {
		return nil
	}

	for _, ids := range children {
		sort.Strings(ids)
	}

	chain := make([]Step, 0, len(w.Steps))
	visited := make(map[string]bool, len(w.Steps))

	id := rootID
	for {
		if visited[id] {
			break
		}
		visited[id] = true
		chain = append(chain, byID[id])

		next := children[id]
		if len(next) == 0 {
			break
		}
		id = next[0]
	}

	return chain
}
