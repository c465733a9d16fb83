package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/narrate/internal/autosave"
	"github.com/jorge-barreto/narrate/internal/brief"
	"github.com/jorge-barreto/narrate/internal/catalog"
	"github.com/jorge-barreto/narrate/internal/pipeline"
	"github.com/jorge-barreto/narrate/internal/state"
	"github.com/jorge-barreto/narrate/internal/ux"
)

func newCmd() *cli.Command {
	return &cli.Command{
		Name:  "new",
		Usage: "Start a new session, replacing the active one",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := openProject(ctx, cmd)
			if err != nil {
				return err
			}
			defer p.close()

			if old, err := state.Load(p.sessionPath()); err == nil && p.drafts != nil && autosave.Fingerprint(old) != "" {
				p.observe(old)
				ux.Hint(fmt.Sprintf("previous session %s is kept in 'narrate drafts list --all'", short(old.ID)))
			}
			s := state.New()
			if err := s.Save(p.sessionPath()); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
			ux.Done("Started session %s at %s", short(s.ID), s.Position())
			return nil
		},
	}
}

func setCmd() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set a brief field",
		ArgsUsage: "<field> <value...>",
		Description: "Text fields join the words; list fields take one entry per word.\n" +
			"Use --json to pass any field, including outline and anchors, as JSON.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Parse the value as JSON"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) == 0 {
				return fmt.Errorf("field argument is required (one of: %s)", fieldNames())
			}
			field := brief.Field(args[0])
			return withSession(ctx, cmd, func(p *project, o *pipeline.Orchestrator) error {
				err := o.Edit(func(b *brief.Brief) error {
					if cmd.Bool("json") {
						return b.SetFromJSON(field, []byte(strings.Join(args[1:], " ")))
					}
					return b.SetFromArgs(field, args[1:])
				})
				if errors.Is(err, brief.ErrUnknownField) {
					return fmt.Errorf("%w (one of: %s)", err, fieldNames())
				}
				if err != nil {
					return err
				}
				b := o.Session().Brief
				switch field {
				case brief.FieldPrimaryAudience, brief.FieldBroaderAudience:
					id, _ := b.Get(field)
					if s, _ := id.(string); s != "" {
						if _, ok := p.catalog.Audience(s); !ok {
							ux.Warning(fmt.Sprintf("audience %q is not in the catalog", s))
						}
					}
				case brief.FieldSuccessStory:
					if b.SuccessStoryID != "" {
						if _, ok := p.catalog.SuccessStory(b.SuccessStoryID); !ok {
							ux.Warning(fmt.Sprintf("success story %q is not in the catalog", b.SuccessStoryID))
						}
					}
				}
				ux.Done("%s set", field)
				return nil
			})
		},
	}
}

func fieldNames() string {
	var names []string
	for _, f := range brief.Fields() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func anchorCmd() *cli.Command {
	return &cli.Command{
		Name:  "anchor",
		Usage: "Manage narrative anchors",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Anchor the narrative to a script item of the primary audience",
				ArgsUsage: "<item-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					item := cmd.Args().First()
					return withSession(ctx, cmd, func(p *project, o *pipeline.Orchestrator) error {
						var added brief.NarrativeAnchor
						err := o.Edit(func(b *brief.Brief) error {
							a, err := catalog.NewAnchor(p.catalog, b, item)
							if err != nil {
								return err
							}
							added = a
							return b.AddAnchor(a)
						})
						if err != nil {
							return err
						}
						ux.Done("Anchored %s: %s", added.Type, added.Content)
						return nil
					})
				},
			},
			{
				Name:      "rm",
				Usage:     "Remove an anchor by its number in 'anchor list'",
				ArgsUsage: "<n>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					n, err := strconv.Atoi(cmd.Args().First())
					if err != nil {
						return fmt.Errorf("anchor number is required")
					}
					return withSession(ctx, cmd, func(p *project, o *pipeline.Orchestrator) error {
						if err := o.Edit(func(b *brief.Brief) error { return b.RemoveAnchor(n - 1) }); err != nil {
							return err
						}
						ux.Done("Removed anchor %d", n)
						return nil
					})
				},
			},
			{
				Name:  "list",
				Usage: "List anchors, and the script items still available",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withSession(ctx, cmd, func(p *project, o *pipeline.Orchestrator) error {
						b := o.Session().Brief
						for i, a := range b.Anchors {
							fmt.Printf("  %d. %s%-14s%s %s\n", i+1, ux.Cyan, a.Type, ux.Reset, a.Content)
						}
						aud, ok := p.catalog.Audience(b.PrimaryAudienceID)
						if !ok {
							return nil
						}
						fmt.Printf("\n  %sAvailable from %s:%s\n", ux.Dim, aud.Name, ux.Reset)
						for _, it := range aud.Script {
							if b.AnchorFor(it.ID) >= 0 {
								continue
							}
							fmt.Printf("    %-12s %-14s %s\n", it.ID, it.Type, it.Content)
						}
						return nil
					})
				},
			},
		},
	}
}

func headlineCmd() *cli.Command {
	return &cli.Command{
		Name:  "headline",
		Usage: "Manage headline options",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a headline of your own",
				ArgsUsage: "<text...>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "select", Usage: "Also select it"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					text := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
					if text == "" {
						return fmt.Errorf("headline text is required")
					}
					return withSession(ctx, cmd, func(p *project, o *pipeline.Orchestrator) error {
						var h brief.HeadlineOption
						err := o.Edit(func(b *brief.Brief) error {
							h = b.AddHeadline(text, false)
							if cmd.Bool("select") {
								return b.SelectHeadline(h.ID)
							}
							return nil
						})
						if err != nil {
							return err
						}
						ux.Done("Added headline %s", short(h.ID))
						return nil
					})
				},
			},
			{
				Name:      "select",
				Usage:     "Select the headline to write to",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withSession(ctx, cmd, func(p *project, o *pipeline.Orchestrator) error {
						var ids []string
						for _, h := range o.Session().Brief.Headlines {
							ids = append(ids, h.ID)
						}
						id, err := resolveID("headline", cmd.Args().First(), ids)
						if err != nil {
							return err
						}
						if err := o.Edit(func(b *brief.Brief) error { return b.SelectHeadline(id) }); err != nil {
							return err
						}
						h, _ := o.Session().Brief.SelectedHeadline()
						ux.Done("Selected %q", h.Text)
						return nil
					})
				},
			},
			{
				Name:  "list",
				Usage: "List headline options",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withSession(ctx, cmd, func(p *project, o *pipeline.Orchestrator) error {
						ux.RenderHeadlines(os.Stdout, o.Session().Brief)
						return nil
					})
				},
			},
		},
	}
}

func advanceCmd() *cli.Command {
	return &cli.Command{
		Name:  "advance",
		Usage: "Move one stage forward, generating what the next stage needs",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()
			return withSession(ctx, cmd, func(p *project, o *pipeline.Orchestrator) error {
				if what := upcoming(o.Session()); what != "" {
					ux.Generating(what)
				}
				start := time.Now()
				out, err := o.Advance(ctx)
				return report(out, err, time.Since(start), "narrate advance")
			})
		},
	}
}

func backCmd() *cli.Command {
	return &cli.Command{
		Name:  "back",
		Usage: "Move one stage back",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withSession(ctx, cmd, func(p *project, o *pipeline.Orchestrator) error {
				out, err := o.Retreat()
				return report(out, err, 0, "")
			})
		},
	}
}

func backToOutlineCmd() *cli.Command {
	return &cli.Command{
		Name:  "back-to-outline",
		Usage: "Return from a drafting phase to the outline",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withSession(ctx, cmd, func(p *project, o *pipeline.Orchestrator) error {
				out, err := o.BackToOutline()
				return report(out, err, 0, "")
			})
		},
	}
}

func regenerateCmd() *cli.Command {
	return &cli.Command{
		Name:      "regenerate",
		Usage:     "Re-run a generation without moving",
		ArgsUsage: "<discovery|outline|intro|body|conclusion>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			t, err := pipeline.ParseTarget(cmd.Args().First())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()
			return withSession(ctx, cmd, func(p *project, o *pipeline.Orchestrator) error {
				ux.Generating(string(t))
				start := time.Now()
				out, err := o.Regenerate(ctx, t)
				return report(out, err, time.Since(start), "narrate regenerate "+string(t))
			})
		},
	}
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the session",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := openProject(ctx, cmd)
			if err != nil {
				return err
			}
			defer p.close()
			s, err := p.loadSession()
			if err != nil {
				return err
			}
			ux.RenderStatus(os.Stdout, s, p.catalog)
			return nil
		},
	}
}

// report prints the result of a move. Failures the user can act on are
// printed and end the command with a non-zero status.
func report(out *pipeline.Outcome, err error, took time.Duration, retry string) error {
	var (
		ve *pipeline.ValidationError
		ge *pipeline.GenerationError
	)
	switch {
	case err == nil:
		ux.Transition(out, took)
		return nil
	case errors.As(err, &ve):
		ux.ValidationFail(ve)
		return errReported
	case errors.As(err, &ge):
		ux.GenerationFail(ge, retry)
		return errReported
	}
	return err
}

// upcoming names what advancing from s would generate, or "" when nothing
// would be or the stage is not ready to be left.
func upcoming(s *state.Session) string {
	if s.Completed {
		return ""
	}
	if s.Phase == state.PhaseNone {
		if !s.Brief.CanAdvance(s.CurrentStep) {
			return ""
		}
		switch s.CurrentStep {
		case brief.StepAudience:
			return "discovery triggers"
		case brief.StepDiscovery:
			return "headlines and outline"
		}
		return ""
	}
	if s.Phase == state.PhaseOutline {
		if !s.Brief.CanAdvance(brief.StepOutline) {
			return ""
		}
		return "introduction"
	}
	if strings.TrimSpace(s.Brief.Content(string(s.Phase))) == "" {
		return ""
	}
	return string(s.Phase.Next())
}
