package reporter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/qunitlint/internal/rules"
)

type sarifLog struct {
	Version string `json:"version"`
	Runs    []struct {
		Tool struct {
			Driver struct {
				Name    string `json:"name"`
				Version string `json:"version"`
				Rules   []struct {
					ID               string `json:"id"`
					Name             string `json:"name"`
					HelpURI          string `json:"helpUri"`
					ShortDescription struct {
						Text string `json:"text"`
					} `json:"shortDescription"`
				} `json:"rules"`
			} `json:"driver"`
		} `json:"tool"`
		Artifacts []struct {
			Location struct {
				URI string `json:"uri"`
			} `json:"location"`
		} `json:"artifacts"`
		Results []struct {
			RuleID  string `json:"ruleId"`
			Level   string `json:"level"`
			Message struct {
				Text string `json:"text"`
			} `json:"message"`
			Locations []struct {
				PhysicalLocation struct {
					ArtifactLocation struct {
						URI string `json:"uri"`
					} `json:"artifactLocation"`
					Region *struct {
						StartLine   int `json:"startLine"`
						StartColumn int `json:"startColumn"`
						EndLine     int `json:"endLine"`
						EndColumn   int `json:"endColumn"`
					} `json:"region"`
				} `json:"physicalLocation"`
			} `json:"locations"`
		} `json:"results"`
	} `json:"runs"`
}

func TestSARIFReporter(t *testing.T) {
	t.Parallel()

	violations := append(sampleViolations(),
		rules.NewViolation(rules.NewFileLocation("tests/sample_test.js"), "qunitlint/invalid-directive",
			"Invalid suppression directive", rules.SeverityWarning).WithDetail("Malformed directive"))

	var buf bytes.Buffer
	require.NoError(t, NewSARIFReporter(&buf, "", "1.2.3", "").Report(violations, nil, ReportMetadata{}))

	var log sarifLog
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log), buf.String())
	assert.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	run := log.Runs[0]

	assert.Equal(t, "qunitlint", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)

	require.Len(t, run.Tool.Driver.Rules, 3)
	assert.Equal(t, "qunit/no-reset", run.Tool.Driver.Rules[0].ID)
	assert.NotEmpty(t, run.Tool.Driver.Rules[0].Name)
	assert.Equal(t, rules.Get("qunit/no-reset").Metadata().Description, run.Tool.Driver.Rules[0].ShortDescription.Text)
	assert.Equal(t, "qunit/resolve-async", run.Tool.Driver.Rules[1].ID)
	assert.Equal(t, "qunitlint/invalid-directive", run.Tool.Driver.Rules[2].ID)
	assert.Equal(t, "Malformed directive", run.Tool.Driver.Rules[2].ShortDescription.Text)

	require.Len(t, run.Artifacts, 1)
	assert.Equal(t, "tests/sample_test.js", run.Artifacts[0].Location.URI)

	require.Len(t, run.Results, 3)
	noReset := run.Results[0]
	assert.Equal(t, "qunit/no-reset", noReset.RuleID)
	assert.Equal(t, "warning", noReset.Level)
	require.NotNil(t, noReset.Locations[0].PhysicalLocation.Region)
	region := noReset.Locations[0].PhysicalLocation.Region
	assert.Equal(t, 6, region.StartLine)
	assert.Equal(t, 1, region.StartColumn)
	assert.Equal(t, 14, region.EndColumn)

	assert.Equal(t, "error", run.Results[1].Level)
	assert.Nil(t, run.Results[2].Locations[0].PhysicalLocation.Region)
}

func TestSeverityToSARIFLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "error", severityToSARIFLevel(rules.SeverityError))
	assert.Equal(t, "warning", severityToSARIFLevel(rules.SeverityWarning))
	assert.Equal(t, "note", severityToSARIFLevel(rules.SeverityInfo))
	assert.Equal(t, "note", severityToSARIFLevel(rules.SeverityStyle))
}
