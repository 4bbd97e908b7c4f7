// Package cli is the console front end of cmdgraph: it wires the example
// domains into a command graph and runs lines against it.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/auth"
	"github.com/NikitaCOEUR/cmdgraph/internal/binding"
	"github.com/NikitaCOEUR/cmdgraph/internal/completion"
	"github.com/NikitaCOEUR/cmdgraph/internal/config"
	"github.com/NikitaCOEUR/cmdgraph/internal/dispatcher"
	"github.com/NikitaCOEUR/cmdgraph/internal/history"
	"github.com/NikitaCOEUR/cmdgraph/internal/logger"
	"github.com/NikitaCOEUR/cmdgraph/internal/parametric"
	"github.com/NikitaCOEUR/cmdgraph/internal/timing"
	"github.com/NikitaCOEUR/cmdgraph/internal/universe"
	"github.com/NikitaCOEUR/cmdgraph/internal/users"
)

// Options configures a Console
type Options struct {
	// ConfigPath is an explicit configuration file; empty means lookup from Dir
	ConfigPath string
	// Dir is where a cmdgraph.* file is looked up
	Dir string
	// LogLevel overrides the configured level when set
	LogLevel string
	// Out receives command output and rendered failures; defaults to stdout
	Out io.Writer
	// Log receives log lines; defaults to stderr
	Log io.Writer
}

// Console is a configured command graph with its caller
type Console struct {
	cfg    *config.Config
	source config.Source
	log    *logger.Logger
	out    io.Writer

	universe *universe.Universe
	users    *users.Directory
	sender   *users.User
	subject  *auth.Subject
	history  *history.Store

	root     *dispatcher.Dispatcher
	engine   *completion.Engine
	executor parametric.Executor
	timeout  time.Duration
}

// New loads the configuration and builds the console
func New(opts Options) (*Console, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Log == nil {
		opts.Log = os.Stderr
	}

	cfg, source, err := config.Resolve(opts.ConfigPath, opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Check(cfg).Err(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", source, err)
	}

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	log := logger.New(level, opts.Log)
	log.Debug().Str("source", source.String()).Msg("Configuration loaded")

	c := &Console{
		cfg:      cfg,
		source:   source,
		log:      log,
		out:      opts.Out,
		universe: seedUniverse(cfg.Universe),
		users:    users.NewDirectory(cfg.Users...),
	}
	c.sender = c.users.Add(cfg.Subject.Name)

	if c.subject, err = openSubject(cfg.Subject); err != nil {
		return nil, fmt.Errorf("failed to initialize subject: %w", err)
	}

	if c.history, err = history.New(cfg.History.File, cfg.History.Limit); err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	if c.timeout, err = cfg.Executor.TimeoutDuration(); err != nil {
		return nil, err
	}
	c.executor = parametric.DirectExecutor{}
	if cfg.Executor.Mode == config.ExecutorPool {
		c.executor = parametric.NewPoolExecutor(cfg.Executor.Workers)
	}

	if err := c.build(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func seedUniverse(bodies map[string]config.BodyConfig) *universe.Universe {
	u := universe.New()
	for name, b := range bodies {
		t, err := universe.ParseType(b.Type)
		if err != nil {
			continue
		}
		u.Put(&universe.Body{
			Name:            name,
			Type:            t,
			MeanTemperature: b.MeanTemperature,
			Description:     b.Description,
		})
	}
	return u
}

func openSubject(sc config.SubjectConfig) (*auth.Subject, error) {
	if sc.GrantsFile == "" {
		return auth.NewSubject(sc.Name, sc.Permissions...), nil
	}
	s, err := auth.Open(sc.Name, sc.GrantsFile)
	if err != nil {
		return nil, err
	}
	for _, p := range sc.Permissions {
		if s.Get(p) != nil {
			continue
		}
		if err := s.Permit(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (c *Console) build() error {
	reg := binding.NewRegistry()
	if err := reg.Install(
		binding.PrimitivesModule,
		parametric.ContextModule,
		universe.Module(c.universe),
		users.Module(c.users),
	); err != nil {
		return fmt.Errorf("failed to install bindings: %w", err)
	}

	builder := parametric.NewBuilder(reg).
		SetAuthorizer(auth.Authorizer{}).
		SetExecutor(c.executor).
		SetIgnoreUnusedFlags(c.cfg.IgnoreUnusedFlags).
		AddListener(&timing.Listener{Report: c.reportTiming})

	g := dispatcher.NewGraph(builder)
	root := g.Root().Describe("cmdgraph console", "")
	universe.Commands(root.Group("body", "bodies"), c.universe)
	users.Commands(root)
	c.registerHelp(root)
	c.registerHistory(root)

	d, err := g.Dispatcher()
	if err != nil {
		return fmt.Errorf("failed to build command graph: %w", err)
	}
	c.root = d
	c.engine = completion.NewEngine(d)
	return nil
}

func (c *Console) reportTiming(r timing.Report) {
	c.log.Debug().
		Str("command", r.Command).
		Dur("total", r.Total).
		Msg(r.Summary)
}

// Namespace returns a fresh call context carrying the console subject,
// the sending user and the output writer
func (c *Console) Namespace() *args.Namespace {
	ns := args.NewNamespace()
	auth.WithSubject(ns, c.subject)
	users.SetSender(ns, c.sender)
	parametric.SetOutput(ns, c.out)
	return ns
}

// Root returns the root dispatcher
func (c *Console) Root() *dispatcher.Dispatcher { return c.root }

// Universe returns the celestial bodies
func (c *Console) Universe() *universe.Universe { return c.universe }

// Users returns the user directory
func (c *Console) Users() *users.Directory { return c.users }

// Subject returns the console caller's permission subject
func (c *Console) Subject() *auth.Subject { return c.subject }

// History returns the command history
func (c *Console) History() *history.Store { return c.history }

// Source returns where the configuration came from
func (c *Console) Source() config.Source { return c.source }

// Close stops the executor workers, if any
func (c *Console) Close() error {
	if closer, ok := c.executor.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
