package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/narrate/internal/export"
	"github.com/jorge-barreto/narrate/internal/server"
	"github.com/jorge-barreto/narrate/internal/state"
	"github.com/jorge-barreto/narrate/internal/ux"
)

var errAutosaveOff = errors.New("autosave is disabled (autosave.backend is none or the store is unreachable)")

func draftsCmd() *cli.Command {
	return &cli.Command{
		Name:  "drafts",
		Usage: "Auto-saved snapshots of the session",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List snapshots, newest first",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "Include other sessions"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					p, err := openProject(ctx, cmd)
					if err != nil {
						return err
					}
					defer p.close()
					if p.drafts == nil {
						return errAutosaveOff
					}
					sessionID := ""
					if !cmd.Bool("all") {
						s, err := p.loadSession()
						if err != nil {
							return err
						}
						sessionID = s.ID
					}
					drafts, err := p.drafts.List(ctx, sessionID)
					if err != nil {
						return err
					}
					if len(drafts) == 0 {
						fmt.Println("  No drafts saved yet.")
						return nil
					}
					for i, d := range drafts {
						fmt.Printf("  %d. %s%s%s  session %s  %s\n", i+1, ux.Cyan,
							d.SavedAt.Local().Format("2006-01-02 15:04:05"), ux.Reset, short(d.SessionID), ux.Dim+d.Key+ux.Reset)
					}
					return nil
				},
			},
			{
				Name:      "restore",
				Usage:     "Make a snapshot the active session",
				ArgsUsage: "<n|key>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "Number snapshots across all sessions, as 'list --all' does"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ref := cmd.Args().First()
					if ref == "" {
						return fmt.Errorf("draft number or key is required")
					}
					p, err := openProject(ctx, cmd)
					if err != nil {
						return err
					}
					defer p.close()
					if p.drafts == nil {
						return errAutosaveOff
					}
					key, err := p.draftKey(ctx, ref, cmd.Bool("all"))
					if err != nil {
						return err
					}
					s, err := p.drafts.Load(ctx, key)
					if err != nil {
						return err
					}
					if cur, err := state.Load(p.sessionPath()); err == nil {
						p.observe(cur)
					}
					if err := s.Save(p.sessionPath()); err != nil {
						return fmt.Errorf("saving session: %w", err)
					}
					ux.Done("Restored session %s at %s", short(s.ID), s.Position())
					return nil
				},
			},
		},
	}
}

// draftKey turns a list number into a key. Anything else is taken as a key.
func (p *project) draftKey(ctx context.Context, ref string, all bool) (string, error) {
	n, err := strconv.Atoi(ref)
	if err != nil {
		return ref, nil
	}
	sessionID := ""
	if !all {
		s, err := p.loadSession()
		if err != nil {
			return "", err
		}
		sessionID = s.ID
	}
	drafts, err := p.drafts.List(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if n < 1 || n > len(drafts) {
		return "", fmt.Errorf("no draft %d (%d saved)", n, len(drafts))
	}
	return drafts[n-1].Key, nil
}

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the article as Markdown or HTML",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Value: string(export.FormatMarkdown), Usage: "markdown or html"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "File to write (default: stdout)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := export.ParseFormat(cmd.String("format"))
			if err != nil {
				return err
			}
			p, err := openProject(ctx, cmd)
			if err != nil {
				return err
			}
			defer p.close()
			s, err := p.loadSession()
			if err != nil {
				return err
			}
			if !s.Completed {
				p.log.WithField("position", s.Position()).Debug("exporting an unfinished session")
			}
			out := os.Stdout
			if path := cmd.String("output"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			if err := export.Write(out, s.Brief, format); err != nil {
				return err
			}
			if out != os.Stdout {
				ux.Done("Wrote %s", out.Name())
			}
			return nil
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the session over a JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: "localhost:8080", Usage: "Listen address"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := openProject(ctx, cmd)
			if err != nil {
				return err
			}
			defer p.close()
			if !cmd.Bool("verbose") {
				p.log.SetLevel(logrus.InfoLevel)
			}

			s, err := p.loadSession()
			if errors.Is(err, state.ErrNoSession) {
				s, err = state.New(), nil
			}
			if err != nil {
				return err
			}
			p.prime(s)
			o := p.orchestrator(s, func(s *state.Session) {
				p.observe(s)
				if err := s.Save(p.sessionPath()); err != nil {
					p.log.WithError(err).Error("save session")
				}
			})
			srv := server.New(server.Options{
				Orchestrator:  o,
				Templates:     p.templates,
				Catalog:       p.catalog,
				Drafts:        p.drafts,
				SaveTemplates: p.saveTemplates,
				Logger:        p.log,
			})

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			hs := &http.Server{Addr: cmd.String("addr"), Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
			errc := make(chan error, 1)
			go func() { errc <- hs.ListenAndServe() }()
			p.log.WithField("addr", hs.Addr).Info("serving")
			fmt.Printf("%s✓%s Serving session %s on http://%s\n", ux.Green, ux.Reset, short(s.ID), hs.Addr)

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := hs.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return o.Session().Save(p.sessionPath())
		},
	}
}
