package parametric

import (
	"context"
	"io"
	"slices"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/binding"
	"github.com/NikitaCOEUR/cmdgraph/internal/command"
	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
	"github.com/NikitaCOEUR/cmdgraph/internal/tokenizer"
)

// Body is the operation a command runs with its resolved values
type Body func(ctx context.Context, values []any, ns *args.Namespace) error

// Definition declares one leaf command
type Definition struct {
	Aliases     []string
	Desc        string
	Help        string
	Usage       string
	Permissions []string
	Params      []Spec
	Body        Body

	// AnyFlags accepts flags that no parameter claims
	AnyFlags bool
	// Flags lists flag characters that may be given without a parameter claiming them
	Flags string
	// ArgCount is a bare positional count check; extra tokens are left for the body
	ArgCount *ArgCount
	// Group places the command under nested sub-commands, outermost first
	Group []string
}

// Authorizer answers permission checks for the caller found in a Namespace
type Authorizer interface {
	TestPermission(ns *args.Namespace, permission string) bool
}

// AuthorizerFunc adapts a function into an Authorizer
type AuthorizerFunc func(ns *args.Namespace, permission string) bool

// TestPermission calls f
func (f AuthorizerFunc) TestPermission(ns *args.Namespace, permission string) bool {
	return f(ns, permission)
}

// AllowAll grants every permission
var AllowAll = AuthorizerFunc(func(*args.Namespace, string) bool { return true })

// Namespace keys the pipeline sets for providers and bodies
var (
	ArgsKey    = args.TypeKey[args.Args]()
	ContextKey = args.TypeKey[*tokenizer.Context]()
	OutputKey  = args.TypeKey[io.Writer]()
)

// ContextModule binds the tokenized line, the cursor and the caller's output
// as supplied values
var ContextModule = binding.ModuleFunc(func(b *binding.Binder) {
	binding.Bind[*tokenizer.Context](b).ToProvider(binding.FromNamespace[*tokenizer.Context](ContextKey))
	binding.Bind[args.Args](b).ToProvider(binding.FromNamespace[args.Args](ArgsKey))
	binding.Bind[io.Writer](b).ToProvider(outputProvider{})
})

// Output returns the writer stored in ns, or io.Discard
func Output(ns *args.Namespace) io.Writer {
	if w, ok := args.Lookup[io.Writer](ns, OutputKey); ok && w != nil {
		return w
	}
	return io.Discard
}

// SetOutput stores w as the caller's output in ns
func SetOutput(ns *args.Namespace, w io.Writer) {
	ns.Put(OutputKey, w)
}

type outputProvider struct{}

func (outputProvider) Provided() bool { return true }

func (outputProvider) Get(a args.Args, _ []any) (any, error) {
	return Output(a.Namespace()), nil
}

func (outputProvider) Suggest(string, *args.Namespace, []any) []string { return nil }

// Builder turns definitions into commands sharing one registry, authorizer,
// executor, listener chain and converter chain
type Builder struct {
	registry   *binding.Registry
	authorizer Authorizer
	executor   Executor
	listeners  []InvokeListener
	converters []ErrorConverter

	ignoreUnusedFlags bool
}

// NewBuilder creates a builder over reg with no permission checks and a direct executor
func NewBuilder(reg *binding.Registry) *Builder {
	return &Builder{
		registry:   reg,
		authorizer: AllowAll,
		executor:   DirectExecutor{},
		listeners:  []InvokeListener{ArgCountListener{}},
	}
}

// Registry returns the binding registry
func (b *Builder) Registry() *binding.Registry { return b.registry }

// SetAuthorizer sets the permission backend
func (b *Builder) SetAuthorizer(a Authorizer) *Builder {
	b.authorizer = a
	return b
}

// SetExecutor sets the executor bodies are submitted to
func (b *Builder) SetExecutor(e Executor) *Builder {
	b.executor = e
	return b
}

// SetIgnoreUnusedFlags makes every built command accept flags no parameter claims
func (b *Builder) SetIgnoreUnusedFlags(ignore bool) *Builder {
	b.ignoreUnusedFlags = ignore
	return b
}

// AddListener appends an invoke listener
func (b *Builder) AddListener(l InvokeListener) *Builder {
	b.listeners = append(b.listeners, l)
	return b
}

// AddConverter appends an error converter
func (b *Builder) AddConverter(c ErrorConverter) *Builder {
	b.converters = append(b.converters, c)
	return b
}

// Build compiles def into a command
func (b *Builder) Build(def Definition) (*Command, error) {
	name := "command"
	if len(def.Aliases) > 0 {
		name = def.Aliases[0]
	}
	if def.Body == nil {
		return nil, derrors.NewConfigurationError(name, "command '"+name+"' has no body", nil)
	}

	plan, err := Compile(b.registry, def.Params...)
	if err != nil {
		return nil, err
	}

	desc := command.Description{
		Short:         def.Desc,
		Help:          def.Help,
		UsageOverride: def.Usage,
		Permissions:   slices.Clone(def.Permissions),
		Parameters:    plan.Infos(),
	}
	for _, l := range b.listeners {
		l.UpdateDescription(def, &desc)
	}

	return &Command{
		def:        def,
		plan:       plan,
		desc:       desc,
		authorizer: b.authorizer,
		executor:   b.executor,
		listeners:  slices.Clone(b.listeners),
		converters: slices.Clone(b.converters),
		resolve: ResolveOptions{
			IgnoreUnusedFlags: def.AnyFlags || b.ignoreUnusedFlags,
			AllowedFlags:      []rune(def.Flags),
			IgnoreUnusedArgs:  def.ArgCount != nil,
		},
	}, nil
}

// MustBuild is like Build but panics on a declaration error
func (b *Builder) MustBuild(def Definition) *Command {
	c, err := b.Build(def)
	if err != nil {
		panic(err)
	}
	return c
}
