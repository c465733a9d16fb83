package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/narrate/internal/config"
	"github.com/jorge-barreto/narrate/internal/docs"
	"github.com/jorge-barreto/narrate/internal/scaffold"
	"github.com/jorge-barreto/narrate/internal/ux"
)

func main() {
	app := &cli.Command{
		Name:        "narrate",
		Usage:       "Guided narrative generation for content marketing",
		Description: "Run 'narrate docs' for documentation on the pipeline, config, templates, and more.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log debug output to stderr"},
		},
		Commands: []*cli.Command{
			initCmd(),
			newCmd(),
			setCmd(),
			anchorCmd(),
			headlineCmd(),
			outlineCmd(),
			advanceCmd(),
			backCmd(),
			backToOutlineCmd(),
			regenerateCmd(),
			statusCmd(),
			templatesCmd(),
			draftsCmd(),
			exportCmd(),
			serveCmd(),
			docsCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, errReported) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		os.Exit(1)
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a new .narrate/ directory with example config and catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "Project name (default: directory name)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			return scaffold.Init(dir, cmd.String("name"))
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Print("\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Printf("  %-14s %s\n", t.Name, t.Summary)
					if len(t.Aliases) > 0 {
						fmt.Printf("  %-14s %s(also: %s)%s\n", "", ux.Dim, strings.Join(t.Aliases, ", "), ux.Reset)
					}
				}
				fmt.Println("\nRun 'narrate docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Print(t.Content)
			return nil
		},
	}
}

// findProjectRoot walks up from cwd looking for .narrate/config.yaml.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(config.ConfigPath(dir)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found (searched from cwd to root); run 'narrate init'", filepath.Join(config.Dir, "config.yaml"))
		}
		dir = parent
	}
}
