package rules

import (
	"testing"
)

// mockRule is a simple rule for testing.
type mockRule struct {
	code     string
	enabled  bool
	category string
	severity Severity
}

func (r *mockRule) Metadata() RuleMetadata {
	return RuleMetadata{
		Code:             r.code,
		Name:             "Mock Rule " + r.code,
		Description:      "A mock rule for testing",
		DefaultSeverity:  r.severity,
		Category:         r.category,
		EnabledByDefault: r.enabled,
	}
}

func (r *mockRule) Check(input LintInput) []Violation {
	return nil
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()

	rule := &mockRule{code: "qunit/test-001"}
	reg.Register(rule)

	if !reg.Has("qunit/test-001") {
		t.Error("Has() = false after registration")
	}
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	reg := NewRegistry()
	rule := &mockRule{code: "qunit/dup-001"}
	reg.Register(rule)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()

	reg.Register(rule) // Should panic
}

func TestRegistry_Get(t *testing.T) {
	reg := NewRegistry()
	rule := &mockRule{code: "qunit/get-001"}
	reg.Register(rule)

	got := reg.Get("qunit/get-001")
	if got == nil {
		t.Fatal("Get() returned nil")
	}
	if got.Metadata().Code != "qunit/get-001" {
		t.Errorf("Get().Code = %q, want %q", got.Metadata().Code, "qunit/get-001")
	}

	if reg.Get("nonexistent") != nil {
		t.Error("Get() should return nil for nonexistent rule")
	}
}

func TestRegistry_All(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockRule{code: "c-rule"})
	reg.Register(&mockRule{code: "a-rule"})
	reg.Register(&mockRule{code: "b-rule"})

	all := reg.All()
	if len(all) != 3 {
		t.Fatalf("All() returned %d rules, want 3", len(all))
	}

	// Should be sorted by code
	codes := []string{all[0].Metadata().Code, all[1].Metadata().Code, all[2].Metadata().Code}
	want := []string{"a-rule", "b-rule", "c-rule"}
	for i, c := range codes {
		if c != want[i] {
			t.Errorf("All()[%d].Code = %q, want %q", i, c, want[i])
		}
	}
}

func TestRegistry_Codes(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockRule{code: "z-rule"})
	reg.Register(&mockRule{code: "a-rule"})

	codes := reg.Codes()
	if len(codes) != 2 {
		t.Fatalf("Codes() returned %d, want 2", len(codes))
	}
	if codes[0] != "a-rule" || codes[1] != "z-rule" {
		t.Errorf("Codes() = %v, want [a-rule, z-rule]", codes)
	}
}

func TestRegistry_ByCategory(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockRule{code: "qunit/no-reset", category: "deprecated"})
	reg.Register(&mockRule{code: "qunit/resolve-async", category: "correctness"})
	reg.Register(&mockRule{code: "qunit/no-throws-string", category: "deprecated"})

	deprecated := reg.ByCategory("deprecated")
	if len(deprecated) != 2 {
		t.Fatalf("ByCategory(deprecated) returned %d, want 2", len(deprecated))
	}
	if deprecated[0].Metadata().Code != "qunit/no-reset" {
		t.Errorf("ByCategory(deprecated)[0] = %q, want qunit/no-reset", deprecated[0].Metadata().Code)
	}

	if got := reg.ByCategory("correctness"); len(got) != 1 {
		t.Fatalf("ByCategory(correctness) returned %d, want 1", len(got))
	}
}

func TestRegistry_Categories(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockRule{code: "qunit/a", category: "correctness"})
	reg.Register(&mockRule{code: "qunit/b", category: "deprecated"})
	reg.Register(&mockRule{code: "qunit/c", category: "correctness"})

	got := reg.Categories()
	if len(got) != 2 || got[0] != "correctness" || got[1] != "deprecated" {
		t.Errorf("Categories() = %v, want [correctness deprecated]", got)
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() == nil {
		t.Fatal("DefaultRegistry() returned nil")
	}
	if Get("qunit/does-not-exist") != nil {
		t.Error("Get() should return nil for an unregistered code")
	}
}
