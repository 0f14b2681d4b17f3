package qunit

import (
	"slices"

	"github.com/wharflab/qunitlint/internal/jsast"
	"github.com/wharflab/qunitlint/internal/obligation"
	qunitapi "github.com/wharflab/qunitlint/internal/qunit"
	"github.com/wharflab/qunitlint/internal/rules"
	"github.com/wharflab/qunitlint/internal/rules/configutil"
)

// ResolveAsyncConfig is the configuration for the resolve-async rule.
type ResolveAsyncConfig struct {
	// Hooks lists the module option properties whose function values are
	// checked like test callbacks.
	Hooks []string `json:"hooks,omitempty" koanf:"hooks"`
}

// DefaultResolveAsyncConfig returns the default configuration.
func DefaultResolveAsyncConfig() ResolveAsyncConfig {
	return ResolveAsyncConfig{Hooks: slices.Clone(qunitapi.DefaultHooks)}
}

// ResolveAsyncRule reports tests and module hooks that leave asynchronous
// work unresolved: stop() calls without matching start() calls, and
// callbacks from assert.async() that are never invoked. Either mistake
// makes QUnit wait until the test times out.
type ResolveAsyncRule struct{}

// NewResolveAsyncRule creates a new resolve-async rule instance.
func NewResolveAsyncRule() *ResolveAsyncRule {
	return &ResolveAsyncRule{}
}

// Metadata returns the rule metadata.
func (r *ResolveAsyncRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             rules.QUnitRulePrefix + "resolve-async",
		Name:             "Resolve async",
		Description:      "Requires stop()/start() to balance and every assert.async() callback to be called",
		DocURL:           docBaseURL + "resolve-async.md",
		DefaultSeverity:  rules.SeverityError,
		Category:         "correctness",
		EnabledByDefault: true,
	}
}

// Schema returns the JSON Schema for this rule's configuration.
func (r *ResolveAsyncRule) Schema() map[string]any {
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"properties": map[string]any{
			"hooks": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string", "minLength": 1},
				"uniqueItems": true,
				"default":     qunitapi.DefaultHooks,
				"description": "Module option properties treated as lifecycle hooks",
			},
		},
		"additionalProperties": false,
	}
}

// DefaultConfig returns the default configuration for this rule.
func (r *ResolveAsyncRule) DefaultConfig() any {
	return DefaultResolveAsyncConfig()
}

// ValidateConfig validates the configuration against the rule's JSON Schema.
func (r *ResolveAsyncRule) ValidateConfig(config any) error {
	return configutil.ValidateWithSchema(config, r.Schema())
}

// Check walks the file once. Test callbacks and hook functions are claimed
// when their registering call is entered, open an obligation scope when the
// function is entered and report what is left when it is exited.
func (r *ResolveAsyncRule) Check(input rules.LintInput) []rules.Violation {
	cfg := configutil.Coerce(input.Config, DefaultResolveAsyncConfig())

	var violations []rules.Violation
	scopes := newFunctionScopes[*obligation.Scope]()

	onCall := func(call *jsast.Node) {
		kind := qunitapi.Classify(call)
		switch kind {
		case qunitapi.SyncTestRegistration, qunitapi.AsyncTestRegistration:
			scopes.claim(qunitapi.TestCallback(call),
				obligation.NewTestScope(call, kind == qunitapi.AsyncTestRegistration))
			return
		case qunitapi.ModuleRegistration:
			for _, hook := range qunitapi.ModuleHooks(call, cfg.Hooks) {
				scopes.claim(hook.Func, obligation.NewHookScope(hook.Property))
			}
			return
		}

		scope, ok := scopes.current()
		if !ok {
			return
		}
		switch kind {
		case qunitapi.Stop:
			scope.Stop(qunitapi.SemaphoreCount(call))
		case qunitapi.Start:
			scope.Start(qunitapi.SemaphoreCount(call))
		default:
			if call.Callee.Is(jsast.Identifier) {
				scope.Call(call.Callee.Name)
			}
		}
	}

	bind := func(target, value *jsast.Node) {
		if !target.Is(jsast.Identifier) || qunitapi.Classify(value) != qunitapi.AsyncCall {
			return
		}
		if scope, ok := scopes.current(); ok {
			scope.Bind(target.Name, value)
		}
	}

	onClose := func(scope *obligation.Scope) {
		for _, f := range scope.Close() {
			violations = append(violations, violationAt(input, r, f.Anchor, f.Message))
		}
	}

	jsast.Traverse(input.AST, jsast.Merge(
		jsast.Listeners{}.
			On(string(jsast.CallExpression), onCall).
			On(string(jsast.VariableDeclarator), func(n *jsast.Node) { bind(n.ID, n.Init) }).
			On(string(jsast.AssignmentExpression), func(n *jsast.Node) {
				if n.Operator == "=" {
					bind(n.Left, n.Right)
				}
			}),
		scopes.listeners(onClose),
	))
	return violations
}

func init() {
	rules.Register(NewResolveAsyncRule())
}
