package main

import (
	"context"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/narrate/internal/prompts"
	"github.com/jorge-barreto/narrate/internal/ux"
)

func templatesCmd() *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "Inspect and edit prompt templates",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the template of every category",
				Action: withTemplates(func(p *project, _ *cli.Command) error {
					for _, t := range p.templates.Active() {
						mark := ""
						if p.templates.Overridden(t.Category) {
							mark = ux.Yellow + " (edited)" + ux.Reset
							if !t.IsActive {
								mark = ux.Dim + " (edited, disabled)" + ux.Reset
							}
						}
						fmt.Printf("  %s%-22s%s %s%s\n", ux.Cyan, t.Category, ux.Reset, t.Name, mark)
					}
					return nil
				}),
			},
			{
				Name:      "show",
				Usage:     "Print a template",
				ArgsUsage: "<category>",
				Action: withTemplates(func(p *project, cmd *cli.Command) error {
					t, err := p.templates.Template(prompts.Category(cmd.Args().First()))
					if err != nil {
						return err
					}
					fmt.Printf("%s%s%s  %s\n", ux.Bold, t.Name, ux.Reset, t.Description)
					fmt.Printf("%sVariables: %v%s\n\n", ux.Dim, t.Variables, ux.Reset)
					fmt.Println(t.Template)
					return nil
				}),
			},
			{
				Name:      "edit",
				Usage:     "Replace a template's text",
				ArgsUsage: "<category>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "Read the template from this file ('-' for stdin)", Required: true},
					&cli.StringFlag{Name: "name", Usage: "New display name"},
				},
				Action: withTemplates(func(p *project, cmd *cli.Command) error {
					text, err := readInput(cmd.String("file"))
					if err != nil {
						return err
					}
					active := true
					patch := prompts.Patch{Template: &text, IsActive: &active}
					if name := cmd.String("name"); name != "" {
						patch.Name = &name
					}
					vars := prompts.Placeholders(text)
					patch.Variables = &vars
					return p.updateTemplate(cmd.Args().First(), patch)
				}),
			},
			{
				Name:      "disable",
				Usage:     "Keep an edited template but render the default",
				ArgsUsage: "<category>",
				Action: withTemplates(func(p *project, cmd *cli.Command) error {
					active := false
					return p.updateTemplate(cmd.Args().First(), prompts.Patch{IsActive: &active})
				}),
			},
			{
				Name:      "reset",
				Usage:     "Drop the edit of one category, or of all",
				ArgsUsage: "[category]",
				Action: withTemplates(func(p *project, cmd *cli.Command) error {
					if cat := cmd.Args().First(); cat != "" {
						if err := p.templates.Reset(prompts.Category(cat)); err != nil {
							return err
						}
					} else {
						p.templates.ResetAll()
					}
					if err := p.saveTemplates(p.templates); err != nil {
						return err
					}
					ux.Done("Templates reset")
					return nil
				}),
			},
			{
				Name:  "export",
				Usage: "Write the current template set as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "File to write (default: stdout)"},
				},
				Action: withTemplates(func(p *project, cmd *cli.Command) error {
					data, err := p.templates.ExportAll()
					if err != nil {
						return err
					}
					return writeOutput(cmd.String("output"), append(data, '\n'))
				}),
			},
			{
				Name:      "import",
				Usage:     "Replace all templates with a JSON export",
				ArgsUsage: "<file|->",
				Action: withTemplates(func(p *project, cmd *cli.Command) error {
					data, err := readInput(cmd.Args().First())
					if err != nil {
						return err
					}
					if err := p.templates.ImportAll([]byte(data)); err != nil {
						return err
					}
					if err := p.saveTemplates(p.templates); err != nil {
						return err
					}
					ux.Done("Imported %d templates", len(p.templates.Active()))
					return nil
				}),
			},
		},
	}
}

func withTemplates(fn func(*project, *cli.Command) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		p, err := openProject(ctx, cmd)
		if err != nil {
			return err
		}
		defer p.close()
		return fn(p, cmd)
	}
}

func (p *project) updateTemplate(category string, patch prompts.Patch) error {
	cat := prompts.Category(category)
	if !cat.Valid() {
		return fmt.Errorf("%w: %q", prompts.ErrUnknownCategory, category)
	}
	t, err := p.templates.Update(cat, patch)
	if err != nil {
		return err
	}
	if err := p.saveTemplates(p.templates); err != nil {
		return err
	}
	ux.Done("Saved %s (%s)", t.Category, p.templatesPath())
	return nil
}

// readInput reads path, or stdin for "-".
func readInput(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("input file is required")
	}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// writeOutput writes data to path, or stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
