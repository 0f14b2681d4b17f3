package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/urfave/cli/v3"

	"github.com/wharflab/qunitlint/internal/config"
	"github.com/wharflab/qunitlint/internal/linter"
	"github.com/wharflab/qunitlint/internal/rules"
)

// ruleInfo is the machine-readable form of one catalog entry.
type ruleInfo struct {
	Code             string         `json:"code"`
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	DocURL           string         `json:"docUrl"`
	Category         string         `json:"category"`
	DefaultSeverity  rules.Severity `json:"defaultSeverity"`
	EnabledByDefault bool           `json:"enabledByDefault"`
	Enabled          bool           `json:"enabled"`
}

func rulesCommand() *cli.Command {
	return &cli.Command{
		Name:      "rules",
		Usage:     "List available rules and whether they are enabled",
		ArgsUsage: "[PATH]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover from PATH)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: text, json",
				Value: "text",
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "Only list rules of this category",
			},
		},
		Action: runRules,
	}
}

func runRules(_ context.Context, cmd *cli.Command) error {
	target := cmd.Args().First()
	if target == "" {
		target = "."
	}

	cfg, err := config.LoadWithOverrides(target, cmd.String("config"), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	category := cmd.String("category")
	registry := rules.DefaultRegistry()
	if category != "" && !slices.Contains(registry.Categories(), category) {
		fmt.Fprintf(os.Stderr, "Error: unknown category %q (want one of %v)\n", category, registry.Categories())
		return cli.Exit("", ExitConfigError)
	}

	infos := ruleCatalog(registry, cfg, category)
	out := cmd.Root().Writer

	switch cmd.String("format") {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "text":
		fmt.Fprintln(out, renderRuleTable(infos))
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (want text or json)\n", cmd.String("format"))
		return cli.Exit("", ExitConfigError)
	}
}

// ruleCatalog lists rules grouped by category, then by code. A non-empty
// category restricts the list to that category.
func ruleCatalog(registry *rules.Registry, cfg *config.Config, category string) []ruleInfo {
	enabled := linter.EnabledRuleCodes(cfg)

	categories := registry.Categories()
	if category != "" {
		categories = []string{category}
	}

	var infos []ruleInfo
	for _, c := range categories {
		for _, rule := range registry.ByCategory(c) {
			meta := rule.Metadata()
			infos = append(infos, ruleInfo{
				Code:             meta.Code,
				Name:             meta.Name,
				Description:      meta.Description,
				DocURL:           meta.DocURL,
				Category:         meta.Category,
				DefaultSeverity:  meta.DefaultSeverity,
				EnabledByDefault: meta.EnabledByDefault,
				Enabled:          slices.Contains(enabled, meta.Code),
			})
		}
	}
	return infos
}

func renderRuleTable(infos []ruleInfo) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("RULE", "SEVERITY", "CATEGORY", "ENABLED", "DESCRIPTION").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	for _, info := range infos {
		enabled := "no"
		if info.Enabled {
			enabled = "yes"
		}
		t.Row(info.Code, info.DefaultSeverity.String(), info.Category, enabled, info.Description)
	}
	return t.String()
}
