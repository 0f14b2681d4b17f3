// Package qunit implements the QUnit linting rules.
package qunit

import (
	"github.com/wharflab/qunitlint/internal/jsast"
	"github.com/wharflab/qunitlint/internal/rules"
)

const docBaseURL = "https://github.com/wharflab/qunitlint/blob/main/docs/rules/"

// functionScopes tracks the function literals a rule has claimed as scopes
// (test callbacks, module hooks). Claims are made when the registering call
// is entered, which Traverse guarantees happens before its arguments are.
// Function literals that were never claimed do not open a scope, so their
// bodies belong to the enclosing one.
type functionScopes[T any] struct {
	claimed map[*jsast.Node]T
	stack   []scopeFrame[T]
}

type scopeFrame[T any] struct {
	fn    *jsast.Node
	value T
}

func newFunctionScopes[T any]() *functionScopes[T] {
	return &functionScopes[T]{claimed: make(map[*jsast.Node]T)}
}

// claim marks fn as opening a scope holding value once it is entered.
func (s *functionScopes[T]) claim(fn *jsast.Node, value T) {
	if fn != nil {
		s.claimed[fn] = value
	}
}

// current returns the innermost open scope.
func (s *functionScopes[T]) current() (T, bool) {
	if len(s.stack) == 0 {
		var zero T
		return zero, false
	}
	return s.stack[len(s.stack)-1].value, true
}

// listeners pushes claimed functions on entry and pops them on exit,
// handing the closed scope value to onClose.
func (s *functionScopes[T]) listeners(onClose func(T)) jsast.Listeners {
	enter := func(n *jsast.Node) {
		value, ok := s.claimed[n]
		if !ok {
			return
		}
		delete(s.claimed, n)
		s.stack = append(s.stack, scopeFrame[T]{fn: n, value: value})
	}
	exit := func(n *jsast.Node) {
		top := len(s.stack) - 1
		if top < 0 || s.stack[top].fn != n {
			return
		}
		value := s.stack[top].value
		s.stack = s.stack[:top]
		if onClose != nil {
			onClose(value)
		}
	}

	l := jsast.Listeners{}
	for _, typ := range []jsast.Type{jsast.FunctionExpression, jsast.ArrowFunctionExpression} {
		l.On(string(typ), enter)
		l.On(string(typ)+jsast.ExitSuffix, exit)
	}
	return l
}

// violationAt builds a violation for rule r anchored at n.
func violationAt(input rules.LintInput, r rules.Rule, n *jsast.Node, message string) rules.Violation {
	return rules.NewNodeViolation(input, r.Metadata(), n, message)
}
