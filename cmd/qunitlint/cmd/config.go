package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/qunitlint/internal/config"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:      "config",
		Usage:     "Print the effective configuration for a path as TOML",
		ArgsUsage: "[PATH]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover from PATH)",
			},
			&cli.BoolFlag{
				Name:  "schema",
				Usage: "Print the JSON schema of the config file instead",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Bool("schema") {
				enc := json.NewEncoder(cmd.Root().Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(config.JSONSchema())
			}

			target := cmd.Args().First()
			if target == "" {
				target = "."
			}

			cfg, err := config.LoadWithOverrides(target, cmd.String("config"), nil)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return cli.Exit("", ExitConfigError)
			}

			out, err := cfg.MarshalTOML()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: failed to render config: %v\n", err)
				return cli.Exit("", ExitConfigError)
			}

			w := cmd.Root().Writer
			if cfg.ConfigFile != "" {
				fmt.Fprintf(w, "# loaded from %s\n", cfg.ConfigFile)
			} else {
				fmt.Fprintln(w, "# no config file found; showing defaults")
			}
			_, err = w.Write(out)
			return err
		},
	}
}
