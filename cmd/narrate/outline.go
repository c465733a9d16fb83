package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/narrate/internal/brief"
	"github.com/jorge-barreto/narrate/internal/outline"
	"github.com/jorge-barreto/narrate/internal/pipeline"
	"github.com/jorge-barreto/narrate/internal/ux"
)

func outlineCmd() *cli.Command {
	return &cli.Command{
		Name:  "outline",
		Usage: "Edit outline sections",
		Description: "Sections are addressed by the id prefix shown in 'narrate outline list'.\n" +
			"Phases: resonance (intro), relevance (body), results (conclusion).",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List sections",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withSession(ctx, cmd, func(p *project, o *pipeline.Orchestrator) error {
						ux.RenderOutline(os.Stdout, o.Session().Brief.Outline)
						return nil
					})
				},
			},
			{
				Name:      "add",
				Usage:     "Add a section",
				ArgsUsage: "<title...>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "level", Value: string(outline.H2), Usage: "h2, h3, or h4"},
					&cli.StringFlag{Name: "phase", Value: string(outline.PhaseRelevance), Usage: "resonance, relevance, or results"},
					&cli.StringFlag{Name: "after", Usage: "Insert after this section (default: append)"},
					&cli.StringFlag{Name: "context", Usage: "Notes for the writer"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					title := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
					if title == "" {
						return fmt.Errorf("section title is required")
					}
					level := outline.Level(strings.ToLower(cmd.String("level")))
					if !level.Valid() {
						return fmt.Errorf("unknown level %q (must be h2, h3, or h4)", cmd.String("level"))
					}
					return withSession(ctx, cmd, func(p *project, o *pipeline.Orchestrator) error {
						after := outline.End
						if prefix := cmd.String("after"); prefix != "" {
							id, err := sectionID(o, prefix)
							if err != nil {
								return err
							}
							after = id
						}
						sec := outline.NewSection(title, level, outline.Phase(cmd.String("phase")))
						sec.Context = cmd.String("context")
						if err := o.Edit(func(b *brief.Brief) error {
							return b.Outline.InsertAfter(after, sec)
						}); err != nil {
							return err
						}
						ux.Done("Added section %s", short(sec.ID))
						return nil
					})
				},
			},
			{
				Name:      "rm",
				Usage:     "Remove a section",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return editSection(ctx, cmd, "Removed", func(b *brief.Brief, id string, _ []string) error {
						b.Outline.Remove(id)
						return nil
					})
				},
			},
			{
				Name:      "up",
				Usage:     "Move a section up",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return editSection(ctx, cmd, "Moved", func(b *brief.Brief, id string, _ []string) error {
						b.Outline.MoveUp(id)
						return nil
					})
				},
			},
			{
				Name:      "down",
				Usage:     "Move a section down",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return editSection(ctx, cmd, "Moved", func(b *brief.Brief, id string, _ []string) error {
						b.Outline.MoveDown(id)
						return nil
					})
				},
			},
			{
				Name:      "set",
				Usage:     "Set one field of a section",
				ArgsUsage: "<id> <title|level|phase|context|assetType|assetId> <value...>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return editSection(ctx, cmd, "Updated", func(b *brief.Brief, id string, rest []string) error {
						if len(rest) == 0 {
							return fmt.Errorf("field name is required")
						}
						return b.Outline.UpdateField(id, rest[0], strings.Join(rest[1:], " "))
					})
				},
			},
			{
				Name:      "link",
				Usage:     "Link a section to a catalog asset; no type removes the link",
				ArgsUsage: "<id> [asset-type] [asset-id]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withSession(ctx, cmd, func(p *project, o *pipeline.Orchestrator) error {
						id, err := sectionID(o, cmd.Args().First())
						if err != nil {
							return err
						}
						t := outline.AssetType(cmd.Args().Get(1))
						assetID := cmd.Args().Get(2)
						if err := o.Edit(func(b *brief.Brief) error {
							return b.Outline.SetAssetLink(id, t, assetID)
						}); err != nil {
							return err
						}
						if t != "" {
							if _, ok := p.catalog.Describe(t, assetID); !ok {
								ux.Warning(fmt.Sprintf("%s %q has no catalog entry; the prompt will omit it", t, assetID))
							}
						}
						ux.Done("Linked section %s", short(id))
						return nil
					})
				},
			},
		},
	}
}

// editSection resolves the section named by the first argument and applies
// fn with the remaining arguments.
func editSection(ctx context.Context, cmd *cli.Command, verb string, fn func(b *brief.Brief, id string, rest []string) error) error {
	return withSession(ctx, cmd, func(p *project, o *pipeline.Orchestrator) error {
		id, err := sectionID(o, cmd.Args().First())
		if err != nil {
			return err
		}
		rest := cmd.Args().Tail()
		if err := o.Edit(func(b *brief.Brief) error { return fn(b, id, rest) }); err != nil {
			return err
		}
		ux.Done("%s section %s", verb, short(id))
		return nil
	})
}

func sectionID(o *pipeline.Orchestrator, prefix string) (string, error) {
	var ids []string
	for _, s := range o.Session().Brief.Outline.Sections {
		ids = append(ids, s.ID)
	}
	return resolveID("section", prefix, ids)
}
