// Package optimizer implements the rule-based, tree-rewrite optimizer:
// each Rule inspects one plan node (after its children have already been
// rewritten) and either returns a replacement node or leaves it alone.
// Optimize applies every rule bottom-up, repeating the whole pass until a
// full pass makes no further change or an iteration cap is hit.
//
// The plan.Node tree-rewrite shape follows the same "small interface, one
// type per variant" idiom the plan package itself uses.
package optimizer

import "vdbms/plan"

// Rule rewrites a single already-children-rewritten node. ok is false when
// the rule does not apply; the caller keeps the original node in that case.
type Rule interface {
	Apply(n plan.Node) (rewritten plan.Node, ok bool)
}

const maxPasses = 8

// Optimize repeatedly applies every rule bottom-up until a pass produces no
// change or maxPasses is reached, and returns the rewritten tree.
func Optimize(root plan.Node, rules []Rule) plan.Node {
	for i := 0; i < maxPasses; i++ {
		next, changed := rewrite(root, rules)
		root = next
		if !changed {
			break
		}
	}
	return root
}

func rewrite(n plan.Node, rules []Rule) (plan.Node, bool) {
	if n == nil {
		return nil, false
	}

	changed := false
	children := n.Children()
	newChildren := make([]plan.Node, len(children))
	for i, c := range children {
		rc, cchanged := rewrite(c, rules)
		newChildren[i] = rc
		changed = changed || cchanged
	}
	if changed {
		n = plan.WithChildren(n, newChildren)
	}

	for _, r := range rules {
		if replacement, ok := r.Apply(n); ok {
			return replacement, true
		}
	}
	return n, changed
}

// DefaultRules returns every rule this package implements, in a fixed
// order; catalog-aware rules (index-assisted rewrites) receive lookup so
// they can query live indexes.
func DefaultRules(lookup IndexLookup) []Rule {
	return []Rule{
		&MergeProjection{},
		&MergeFilterScan{},
		&PushdownFilter{},
		&MergeFilterNLJ{},
		&NLJAsHashJoin{},
		&NLJAsIndexJoin{Lookup: lookup},
		&OrderByIndex{Lookup: lookup},
		&SortLimitAsTopN{},
		&VectorIndexScanRewrite{Lookup: lookup},
	}
}
