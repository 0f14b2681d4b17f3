// Package qunit recognizes QUnit call shapes in a jsast tree.
//
// Classification is structural: it looks at the callee's shape and names
// only, never at bindings or types. `assert.async()` and `foo.async()` are
// the same call to this package.
package qunit

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/wharflab/qunitlint/internal/jsast"
)

// Namespace is the global object QUnit exposes its API on.
const Namespace = "QUnit"

// CallKind classifies a call expression.
type CallKind int

const (
	None CallKind = iota
	Stop
	Start
	AsyncCall
	AsyncTestRegistration
	SyncTestRegistration
	ModuleRegistration
)

func (k CallKind) String() string {
	switch k {
	case Stop:
		return "stop"
	case Start:
		return "start"
	case AsyncCall:
		return "asyncCall"
	case AsyncTestRegistration:
		return "asyncTestRegistration"
	case SyncTestRegistration:
		return "syncTestRegistration"
	case ModuleRegistration:
		return "moduleRegistration"
	default:
		return "none"
	}
}

// IsTestRegistration reports whether k registers a test.
func (k CallKind) IsTestRegistration() bool {
	return k == SyncTestRegistration || k == AsyncTestRegistration
}

// qunitFunctions maps names callable bare or as QUnit.<name>.
var qunitFunctions = map[string]CallKind{
	"stop":      Stop,
	"start":     Start,
	"test":      SyncTestRegistration,
	"asyncTest": AsyncTestRegistration,
	"module":    ModuleRegistration,
}

// DefaultHooks are the module option properties treated as lifecycle hooks.
var DefaultHooks = []string{"setup", "teardown", "beforeEach", "afterEach"}

// Classify returns the kind of call. Non-call nodes and unrecognized shapes
// return None.
func Classify(call *jsast.Node) CallKind {
	if !call.Is(jsast.CallExpression) || call.Callee == nil {
		return None
	}
	callee := call.Callee

	if callee.Is(jsast.Identifier) {
		return qunitFunctions[callee.Name]
	}

	name := jsast.StaticMemberName(callee)
	if name == "" {
		return None
	}
	if name == "async" {
		return AsyncCall
	}
	if jsast.IsIdentifier(callee.Object, Namespace) {
		return qunitFunctions[name]
	}
	return None
}

// IsQUnitMethodCall reports whether call is `QUnit.<method>(...)`.
func IsQUnitMethodCall(call *jsast.Node, method string) bool {
	return call.Is(jsast.CallExpression) && call.Callee != nil &&
		jsast.IsIdentifier(call.Callee.Object, Namespace) &&
		jsast.StaticMemberName(call.Callee) == method
}

// TestCallback returns the last function-literal argument of a test
// registration, or nil.
func TestCallback(call *jsast.Node) *jsast.Node {
	if !call.Is(jsast.CallExpression) {
		return nil
	}
	for i := len(call.Arguments) - 1; i >= 0; i-- {
		if jsast.IsFunction(call.Arguments[i]) {
			return call.Arguments[i]
		}
	}
	return nil
}

// Hook is a lifecycle function declared in module options.
type Hook struct {
	Name string
	// Property is the options-object property declaring the hook.
	Property *jsast.Node
	// Func is the function literal the property holds.
	Func *jsast.Node
}

// ModuleHooks returns the hooks declared in the object-literal arguments of
// a module registration. Only properties whose static key is listed in
// names and whose value is a function literal are returned, in source
// order.
func ModuleHooks(call *jsast.Node, names []string) []Hook {
	if !call.Is(jsast.CallExpression) {
		return nil
	}
	var hooks []Hook
	for _, arg := range call.Arguments {
		if !arg.Is(jsast.ObjectExpression) {
			continue
		}
		for _, prop := range arg.Children {
			name := jsast.PropertyName(prop)
			if name == "" || !slices.Contains(names, name) || !jsast.IsFunction(prop.Value) {
				continue
			}
			hooks = append(hooks, Hook{Name: name, Property: prop, Func: prop.Value})
		}
	}
	return hooks
}

// SemaphoreCount returns the count argument of a stop/start call. A missing
// argument counts as 1. Arguments that are not non-negative integer literals
// also count as 1.
func SemaphoreCount(call *jsast.Node) int {
	if len(call.Arguments) == 0 {
		return 1
	}
	arg := call.Arguments[0]
	if !arg.Is(jsast.Literal) || arg.LiteralKind != jsast.LiteralNumber {
		return 1
	}
	n, ok := parseIntLiteral(arg.Raw)
	if !ok {
		return 1
	}
	return n
}

// parseIntLiteral accepts every integer-valued numeric literal form:
// decimal, 0x/0o/0b prefixes, legacy octal, BigInt, exponents and
// integral fractions such as 2.0.
func parseIntLiteral(raw string) (int, bool) {
	raw = strings.ReplaceAll(raw, "_", "")
	raw = strings.TrimSuffix(raw, "n")
	if n, err := strconv.ParseInt(raw, 0, 64); err == nil {
		if n < 0 || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || f > math.MaxInt32 || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// AssertParam returns the name of the first parameter of a test callback,
// which QUnit binds to the assertion object. It returns "" when the
// callback takes no simple first parameter.
func AssertParam(fn *jsast.Node) string {
	if !jsast.IsFunction(fn) || len(fn.Params) == 0 || !fn.Params[0].Is(jsast.Identifier) {
		return ""
	}
	return fn.Params[0].Name
}

// IsAssertion reports whether call invokes one of the given assertion
// methods, either as a global (`throws(...)`) or on the assertion object
// (`assert.throws(...)`). assertVar is the test callback's assertion
// parameter name; the conventional name `assert` is always accepted.
func IsAssertion(call *jsast.Node, assertVar string, methods ...string) bool {
	if !call.Is(jsast.CallExpression) || call.Callee == nil {
		return false
	}
	callee := call.Callee
	if callee.Is(jsast.Identifier) {
		return slices.Contains(methods, callee.Name)
	}
	name := jsast.StaticMemberName(callee)
	if name == "" || !slices.Contains(methods, name) || !callee.Object.Is(jsast.Identifier) {
		return false
	}
	obj := callee.Object.Name
	return obj == "assert" || (assertVar != "" && obj == assertVar)
}
