package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/narrate/internal/autosave"
	"github.com/jorge-barreto/narrate/internal/catalog"
	"github.com/jorge-barreto/narrate/internal/config"
	"github.com/jorge-barreto/narrate/internal/llm"
	"github.com/jorge-barreto/narrate/internal/pipeline"
	"github.com/jorge-barreto/narrate/internal/prompts"
	"github.com/jorge-barreto/narrate/internal/state"
	"github.com/jorge-barreto/narrate/internal/storage"
)

// errReported ends a command whose failure has already been printed.
var errReported = cli.Exit("", 1)

// project bundles everything a command needs from .narrate/.
type project struct {
	root      string
	cfg       *config.Config
	catalog   *catalog.File
	templates *prompts.Store
	drafts    *autosave.Saver
	log       *logrus.Logger
	closers   []func() error
}

func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func openProject(ctx context.Context, cmd *cli.Command) (*project, error) {
	root, err := findProjectRoot()
	if err != nil {
		return nil, err
	}
	if err := config.LoadEnv(root); err != nil {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := config.Load(config.ConfigPath(root), root)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cat, err := catalog.Load(config.Path(root, cfg.Catalog))
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	p := &project{
		root:      root,
		cfg:       cfg,
		catalog:   cat,
		templates: prompts.NewStore(prompts.Defaults()),
		log:       newLogger(cmd.Bool("verbose")),
	}
	if err := p.loadTemplates(); err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, cfg.Autosave, root)
	if err != nil {
		p.log.WithError(err).Warn("autosave disabled")
		return p, nil
	}
	if store != nil {
		if c, ok := store.(interface{ Close() error }); ok {
			p.closers = append(p.closers, c.Close)
		}
		p.drafts = autosave.New(store, autosave.Options{
			Debounce:  cfg.Autosave.Debounce,
			Retention: cfg.Autosave.Retention,
			Logger:    p.log,
		})
	}
	return p, nil
}

// close flushes the pending draft and releases the store.
func (p *project) close() {
	if p.drafts != nil {
		p.drafts.Close()
	}
	for _, c := range p.closers {
		if err := c(); err != nil {
			p.log.WithError(err).Debug("close store")
		}
	}
}

func (p *project) sessionPath() string {
	return config.SessionPath(p.root)
}

func (p *project) loadSession() (*state.Session, error) {
	s, err := state.Load(p.sessionPath())
	if errors.Is(err, state.ErrNoSession) {
		return nil, fmt.Errorf("%w; run 'narrate new'", err)
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return s, nil
}

// orchestrator wires the generator and observers around s. A generator
// that cannot be built fails each call instead, so commands that only edit
// the brief still work without credentials.
func (p *project) orchestrator(s *state.Session, onChange func(*state.Session)) *pipeline.Orchestrator {
	gen, err := llm.New(p.cfg.LLM, p.cfg.APIKey())
	if pf, ok := gen.(interface{ Preflight() error }); ok && err == nil {
		err = pf.Preflight()
	}
	if err != nil {
		p.log.WithError(err).Debug("generator unavailable")
		gen = llm.GeneratorFunc(func(context.Context, string, llm.Options) (string, error) {
			return "", err
		})
	}
	return pipeline.New(s, pipeline.Config{
		Templates: p.templates,
		Generator: gen,
		Catalog:   p.catalog,
		Options: func(c prompts.Category) llm.Options {
			return llm.OptionsFrom(p.cfg.GenerationFor(string(c)))
		},
		Timeout:  p.cfg.LLM.Timeout,
		Recorder: &state.Recorder{Dir: config.ArtifactsDir(p.root)},
		Logger:   p.log,
		OnChange: onChange,
	})
}

// withSession loads the session, runs fn against an orchestrator and saves
// the session afterwards, also when fn fails: failed generations are
// recorded in the history.
func withSession(ctx context.Context, cmd *cli.Command, fn func(*project, *pipeline.Orchestrator) error) error {
	p, err := openProject(ctx, cmd)
	if err != nil {
		return err
	}
	defer p.close()

	s, err := p.loadSession()
	if err != nil {
		return err
	}
	p.prime(s)
	o := p.orchestrator(s, p.observe)
	runErr := fn(p, o)
	if err := o.Session().Save(p.sessionPath()); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return runErr
}

func (p *project) observe(s *state.Session) {
	if p.drafts != nil {
		p.drafts.Observe(s)
	}
}

func (p *project) prime(s *state.Session) {
	if p.drafts != nil {
		p.drafts.Prime(s)
	}
}

// templatesPath is where template overrides live.
func (p *project) templatesPath() string {
	if p.cfg.Templates != "" {
		return config.Path(p.root, p.cfg.Templates)
	}
	return filepath.Join(p.root, config.Dir, "templates.json")
}

func (p *project) loadTemplates() error {
	data, err := os.ReadFile(p.templatesPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := p.templates.ImportAll(data); err != nil {
		return fmt.Errorf("loading templates %s: %w", p.templatesPath(), err)
	}
	return nil
}

// saveTemplates writes the overrides. With none left, a configured file is
// emptied and the default one removed.
func (p *project) saveTemplates(s *prompts.Store) error {
	data, err := s.ExportOverrides()
	if err != nil {
		return err
	}
	path := p.templatesPath()
	if data == nil && p.cfg.Templates == "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	return state.WriteFileAtomic(path, data, 0644)
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveID finds the one id in ids that starts with prefix.
func resolveID(kind, prefix string, ids []string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%s id is required", kind)
	}
	var matches []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no %s matches %q", kind, prefix)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%s id %q is ambiguous (%d matches)", kind, prefix, len(matches))
}
