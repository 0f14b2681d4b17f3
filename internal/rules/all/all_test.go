package all

import (
	"slices"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/wharflab/qunitlint/internal/rules"
)

func TestCatalog(t *testing.T) {
	t.Parallel()

	codes := rules.Codes()
	slices.Sort(codes)

	var b strings.Builder
	for _, code := range codes {
		meta := rules.Get(code).Metadata()
		b.WriteString(strings.Join([]string{
			meta.Code, meta.DefaultSeverity.String(), meta.Category, meta.Description,
		}, " | "))
		b.WriteByte('\n')
	}
	snaps.MatchSnapshot(t, strings.TrimSuffix(b.String(), "\n"))
}

func TestAllRulesHaveDocs(t *testing.T) {
	t.Parallel()

	for _, r := range rules.All() {
		meta := r.Metadata()
		if !strings.HasPrefix(meta.Code, rules.QUnitRulePrefix) {
			t.Errorf("%s: code lacks %q namespace", meta.Code, rules.QUnitRulePrefix)
		}
		if !strings.HasSuffix(meta.DocURL, strings.TrimPrefix(meta.Code, rules.QUnitRulePrefix)+".md") {
			t.Errorf("%s: DocURL %q does not point at the rule page", meta.Code, meta.DocURL)
		}
		if meta.Name == "" || meta.Description == "" {
			t.Errorf("%s: missing name or description", meta.Code)
		}
	}
}
