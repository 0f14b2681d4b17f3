package jsast

import "strings"

// ExitSuffix marks a listener key that fires when leaving a node.
const ExitSuffix = ":exit"

// Wildcard matches every node type.
const Wildcard = "*"

// Listener is invoked for a node during traversal.
type Listener func(n *Node)

// Listeners maps a selector to callbacks. Selectors are a node type
// ("CallExpression"), a node type with the exit suffix
// ("CallExpression:exit") or the wildcard, optionally with the suffix.
type Listeners map[string][]Listener

// On registers fn for the given selector and returns l for chaining.
func (l Listeners) On(selector string, fn Listener) Listeners {
	l[selector] = append(l[selector], fn)
	return l
}

// Merge combines several listener sets. Callbacks registered for the same
// selector run in argument order.
func Merge(sets ...Listeners) Listeners {
	out := make(Listeners)
	for _, set := range sets {
		for sel, fns := range set {
			out[sel] = append(out[sel], fns...)
		}
	}
	return out
}

// Traverse walks root depth-first in source order. Enter callbacks run
// before a node's children are visited; exit callbacks run after.
func Traverse(root *Node, listeners Listeners) {
	if root == nil {
		return
	}
	enter, exit := split(listeners)
	walk(root, enter, exit)
}

func split(listeners Listeners) (map[string][]Listener, map[string][]Listener) {
	enter := make(map[string][]Listener)
	exit := make(map[string][]Listener)
	for sel, fns := range listeners {
		if name, ok := strings.CutSuffix(sel, ExitSuffix); ok {
			exit[name] = append(exit[name], fns...)
			continue
		}
		enter[sel] = append(enter[sel], fns...)
	}
	return enter, exit
}

func walk(n *Node, enter, exit map[string][]Listener) {
	fire(n, enter)
	for _, c := range n.Children {
		walk(c, enter, exit)
	}
	fire(n, exit)
}

func fire(n *Node, set map[string][]Listener) {
	for _, fn := range set[Wildcard] {
		fn(n)
	}
	for _, fn := range set[string(n.Type)] {
		fn(n)
	}
}

// Link sets Parent on every descendant of root from the Children lists.
func Link(root *Node) {
	if root == nil {
		return
	}
	for _, c := range root.Children {
		c.Parent = root
		Link(c)
	}
}

// Find returns every node under root, root included, for which pred holds,
// in traversal order.
func Find(root *Node, pred func(*Node) bool) []*Node {
	var out []*Node
	Traverse(root, Listeners{Wildcard: {func(n *Node) {
		if pred(n) {
			out = append(out, n)
		}
	}}})
	return out
}
