package parametric

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/binding"
	"github.com/NikitaCOEUR/cmdgraph/internal/command"
	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
	"github.com/NikitaCOEUR/cmdgraph/internal/tokenizer"
)

type recorder struct {
	values []any
	calls  int
}

func (r *recorder) body(_ context.Context, values []any, _ *args.Namespace) error {
	r.calls++
	r.values = values
	return nil
}

func settempDefinition(rec *recorder) Definition {
	return Definition{
		Aliases:     []string{"settemp", "settemperature"},
		Desc:        "Set the mean temperature of a body",
		Permissions: []string{"body.settemp"},
		Params: []Spec{
			Param[*planet]().Named("body"),
			Param[float64]().Named("temperature"),
			Param[bool]().Flag('f').Named("fahrenheit"),
		},
		Body: rec.body,
	}
}

func TestCommand_Call(t *testing.T) {
	rec := &recorder{}
	cmd := NewBuilder(newRegistry(t)).MustBuild(settempDefinition(rec))

	err := cmd.Call(context.Background(), "mercury 167 -f", nil, []string{"body", "settemp"})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.calls)
	require.Len(t, rec.values, 3)
	assert.Equal(t, "mercury", rec.values[0].(*planet).name)
	assert.Equal(t, 167.0, Value[float64](rec.values, 1))
	assert.True(t, Value[bool](rec.values, 2))

	assert.Equal(t, []string{"settemp", "settemperature"}, cmd.Aliases())
	assert.Equal(t, "<body> <temperature> [-f]", cmd.Description().Usage())
}

func TestCommand_UsageErrors(t *testing.T) {
	cmd := NewBuilder(newRegistry(t)).MustBuild(settempDefinition(&recorder{}))

	tests := []struct {
		name     string
		line     string
		message  string
		fullHelp bool
	}{
		{"too few", "mercury", "Too few arguments! No value found for parameter 'temperature'", false},
		{"parse", "mercury hot", "For parameter 'temperature': Expected a number, got 'hot'", false},
		{"unused", "mercury 1 2 -x", "Too many arguments! Unused arguments: 2 -x", false},
		{"help", "-?", "", true},
		{"help with args", "mercury -?", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cmd.Call(context.Background(), tt.line, nil, []string{"body", "settemp"})
			var usage *derrors.InvalidUsageError
			require.True(t, errors.As(err, &usage), "got %v", err)
			assert.Equal(t, tt.message, usage.Error())
			assert.Equal(t, tt.fullHelp, usage.FullHelp)
			assert.Equal(t, []string{"body", "settemp"}, usage.AliasStack)
			assert.Equal(t, "<body> <temperature> [-f]", usage.Usage)
		})
	}
}

func TestCommand_TokenizerErrors(t *testing.T) {
	cmd := NewBuilder(newRegistry(t)).MustBuild(Definition{
		Aliases: []string{"poke"},
		Params:  []Spec{Param[int]().Flag('n').Named("count")},
		Body:    (&recorder{}).body,
	})

	err := cmd.Call(context.Background(), "-n", nil, []string{"poke"})
	var usage *derrors.InvalidUsageError
	require.True(t, errors.As(err, &usage))
	assert.Equal(t, "No value specified for the '-n' flag.", usage.Error())

	err = cmd.Call(context.Background(), "-n 1 -n 2", nil, []string{"poke"})
	require.True(t, errors.As(err, &usage))
	assert.Equal(t, "Error parsing arguments: Value flag 'n' already given", usage.Error())
}

func TestCommand_Permissions(t *testing.T) {
	granted := map[string]bool{}
	b := NewBuilder(newRegistry(t)).SetAuthorizer(AuthorizerFunc(func(_ *args.Namespace, p string) bool {
		return granted[p]
	}))

	rec := &recorder{}
	def := settempDefinition(rec)
	def.Permissions = []string{"body.settemp", "body.admin"}
	cmd := b.MustBuild(def)

	err := cmd.Call(context.Background(), "mercury", nil, []string{"settemp"})
	var auth *derrors.AuthorizationError
	require.True(t, errors.As(err, &auth), "authorization is checked before resolution")
	assert.Equal(t, []string{"settemp"}, auth.AliasStack)
	assert.False(t, cmd.TestPermission(args.NewNamespace()))

	granted["body.admin"] = true
	assert.True(t, cmd.TestPermission(args.NewNamespace()), "any declared permission is enough")
	require.NoError(t, cmd.Call(context.Background(), "venus 3", nil, []string{"settemp"}))

	open := b.MustBuild(Definition{Aliases: []string{"open"}, Body: rec.body})
	assert.True(t, open.TestPermission(nil))
}

type stage struct {
	log      *[]string
	name     string
	stopAt   string
	failAt   string
	failWith error
}

func (s stage) NewHandler() InvokeHandler { return stageHandler{s} }

func (s stage) UpdateDescription(_ Definition, desc *command.Description) {
	desc.Short = desc.Short + "+" + s.name
}

type stageHandler struct{ s stage }

func (h stageHandler) step(name string) (bool, error) {
	*h.s.log = append(*h.s.log, h.s.name+":"+name)
	if h.s.failAt == name {
		return false, h.s.failWith
	}
	return h.s.stopAt != name, nil
}

func (h stageHandler) PreProcess(context.Context, *Command, args.Args) (bool, error) {
	return h.step("pre")
}

func (h stageHandler) PreInvoke(context.Context, *Command, []any, args.Args) (bool, error) {
	return h.step("invoke")
}

func (h stageHandler) PostInvoke(context.Context, *Command, []any, args.Args) error {
	_, err := h.step("post")
	return err
}

func TestCommand_Hooks(t *testing.T) {
	var log []string
	rec := &recorder{}
	body := func(ctx context.Context, values []any, ns *args.Namespace) error {
		log = append(log, "body")
		return rec.body(ctx, values, ns)
	}

	build := func(stages ...stage) *Command {
		b := NewBuilder(newRegistry(t))
		for _, s := range stages {
			b.AddListener(s)
		}
		return b.MustBuild(Definition{Aliases: []string{"x"}, Desc: "d", Params: []Spec{Param[int]()}, Body: body})
	}

	cmd := build(stage{log: &log, name: "a"}, stage{log: &log, name: "b"})
	assert.Equal(t, "d+a+b", cmd.Description().Short)
	require.NoError(t, cmd.Call(context.Background(), "1", nil, nil))
	assert.Equal(t, []string{"a:pre", "b:pre", "a:invoke", "b:invoke", "body", "a:post", "b:post"}, log)

	log = nil
	cmd = build(stage{log: &log, name: "a", stopAt: "pre"})
	require.NoError(t, cmd.Call(context.Background(), "not-a-number", nil, nil), "stopping before resolution is a success")
	assert.Equal(t, []string{"a:pre"}, log)

	log = nil
	cmd = build(stage{log: &log, name: "a", stopAt: "invoke"})
	require.NoError(t, cmd.Call(context.Background(), "1", nil, nil))
	assert.Equal(t, []string{"a:pre", "a:invoke"}, log)

	log = nil
	cmd = build(stage{log: &log, name: "a", failAt: "post", failWith: derrors.NewCommandError("nope")})
	err := cmd.Call(context.Background(), "1", nil, nil)
	var cmdErr *derrors.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, []string{"a:pre", "a:invoke", "body", "a:post"}, log)
}

func TestCommand_BodyErrors(t *testing.T) {
	errDomain := errors.New("domain failure")
	type quotaError struct{ error }

	b := NewBuilder(newRegistry(t)).
		AddConverter(ConvertAs(func(e *quotaError) error {
			return derrors.NewCommandError("quota exceeded")
		})).
		AddConverter(ConverterFunc(func(err error) error {
			if errors.Is(err, errDomain) {
				return derrors.NewMissingArgumentError("", "")
			}
			return nil
		}))

	run := func(bodyErr error) error {
		cmd := b.MustBuild(Definition{
			Aliases: []string{"x"},
			Body:    func(context.Context, []any, *args.Namespace) error { return bodyErr },
		})
		return cmd.Call(context.Background(), "", nil, []string{"x"})
	}

	var cmdErr *derrors.CommandError
	require.True(t, errors.As(run(derrors.NewCommandError("plain")), &cmdErr))
	assert.Equal(t, "plain", cmdErr.Error())

	require.True(t, errors.As(run(fmt.Errorf("wrapped: %w", &quotaError{errors.New("q")})), &cmdErr))
	assert.Equal(t, "quota exceeded", cmdErr.Error())

	var usage *derrors.InvalidUsageError
	require.True(t, errors.As(run(errDomain), &usage), "converted usage kinds become invalid usage")
	assert.Equal(t, "Too few arguments!", usage.Error())

	var inv *derrors.InvocationError
	cause := errors.New("unexpected")
	require.True(t, errors.As(run(cause), &inv))
	assert.Equal(t, []string{"x"}, inv.AliasStack)
	assert.False(t, inv.Interrupted)
	assert.ErrorIs(t, inv, cause)

	require.True(t, errors.As(run(derrors.NewParseError("v", "bad value", nil)), &usage))
	assert.Equal(t, "Error parsing arguments: bad value", usage.Error())
}

func TestCommand_MissingArgumentMessages(t *testing.T) {
	tests := []struct {
		name    string
		missing *derrors.MissingArgumentError
		want    string
	}{
		{name: "unnamed", missing: derrors.NewMissingArgumentError("", ""), want: "Too few arguments!"},
		{
			name:    "default message",
			missing: derrors.NewMissingArgumentError("moon", ""),
			want:    "Too few arguments! No value found for parameter 'moon'",
		},
		{
			name:    "explicit default text",
			missing: derrors.NewMissingArgumentError("moon", derrors.DefaultMissingMessage),
			want:    "Too few arguments! No value found for parameter 'moon'",
		},
		{
			name:    "custom message",
			missing: derrors.NewMissingArgumentError("moon", "A moon needs a parent body"),
			want:    "A moon needs a parent body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewBuilder(newRegistry(t)).MustBuild(Definition{
				Aliases: []string{"x"},
				Body:    func(context.Context, []any, *args.Namespace) error { return tt.missing },
			})
			err := cmd.Call(context.Background(), "", nil, []string{"x"})

			var usage *derrors.InvalidUsageError
			require.True(t, errors.As(err, &usage), "got %v", err)
			assert.Equal(t, tt.want, usage.Error())
		})
	}
}

func TestCommand_BodyPanics(t *testing.T) {
	cmd := NewBuilder(newRegistry(t)).MustBuild(Definition{
		Aliases: []string{"x"},
		Body:    func(context.Context, []any, *args.Namespace) error { panic("kaboom") },
	})

	err := cmd.Call(context.Background(), "", nil, nil)
	var inv *derrors.InvocationError
	require.True(t, errors.As(err, &inv))
	var p *PanicError
	require.True(t, errors.As(err, &p))
	assert.Equal(t, "kaboom", p.Value)
}

func TestCommand_Interrupted(t *testing.T) {
	pool := NewPoolExecutor(1)
	defer func() { _ = pool.Close() }()

	release := make(chan struct{})
	cmd := NewBuilder(newRegistry(t)).SetExecutor(pool).MustBuild(Definition{
		Aliases: []string{"slow"},
		Body: func(context.Context, []any, *args.Namespace) error {
			<-release
			return nil
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := cmd.Call(ctx, "", nil, []string{"slow"})
	close(release)

	var inv *derrors.InvocationError
	require.True(t, errors.As(err, &inv))
	assert.True(t, inv.Interrupted)
	assert.Equal(t, []string{"slow"}, inv.AliasStack)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCommand_NamespaceInjection(t *testing.T) {
	var seen args.Args
	cmd := NewBuilder(newRegistry(t)).MustBuild(Definition{
		Aliases: []string{"x"},
		Params:  []Spec{Param[string]()},
		Body: func(_ context.Context, _ []any, ns *args.Namespace) error {
			seen, _ = args.Lookup[args.Args](ns, ArgsKey)
			return nil
		},
	})

	ns := args.NewNamespace()
	require.NoError(t, cmd.Call(context.Background(), "word", ns, nil))
	require.NotNil(t, seen)
	assert.Equal(t, 1, seen.Size())
	assert.True(t, ns.Has(ContextKey))
}

func TestCommand_ArgCount(t *testing.T) {
	rec := &recorder{}
	b := NewBuilder(newRegistry(t))
	cmd := b.MustBuild(Definition{
		Aliases:  []string{"legacy"},
		Params:   []Spec{Param[*tokenizer.Context]()},
		ArgCount: &ArgCount{Min: 1, Max: 2},
		Body:     rec.body,
	})
	assert.Equal(t, "", cmd.Description().Usage())

	bare := b.MustBuild(Definition{Aliases: []string{"bare"}, ArgCount: &ArgCount{Max: -1}, Body: rec.body})
	assert.Equal(t, "(unknown usage information)", bare.Description().Usage())
	require.NoError(t, bare.Call(context.Background(), "a b c d", nil, nil))

	require.NoError(t, cmd.Call(context.Background(), "a b", nil, nil))
	tc := rec.values[0].(*tokenizer.Context)
	assert.Equal(t, []string{"a", "b"}, tc.Args())

	var usage *derrors.InvalidUsageError
	require.True(t, errors.As(cmd.Call(context.Background(), "", nil, nil), &usage))
	assert.Equal(t, "Too few arguments!", usage.Error())

	require.True(t, errors.As(cmd.Call(context.Background(), "a b c", nil, nil), &usage))
	assert.Equal(t, "Too many arguments! Unused arguments: c", usage.Error())
}

func TestBuilder_IgnoreUnusedFlags(t *testing.T) {
	def := Definition{Aliases: []string{"x"}, Params: []Spec{Param[string]()}, Body: (&recorder{}).body}

	strict := NewBuilder(newRegistry(t)).MustBuild(def)
	var usage *derrors.InvalidUsageError
	require.True(t, errors.As(strict.Call(context.Background(), "word -z", nil, nil), &usage))

	lenient := NewBuilder(newRegistry(t)).SetIgnoreUnusedFlags(true).MustBuild(def)
	assert.NoError(t, lenient.Call(context.Background(), "word -z", nil, nil))
}

func TestCommand_Output(t *testing.T) {
	var got io.Writer
	cmd := NewBuilder(newRegistry(t)).MustBuild(Definition{
		Aliases: []string{"say"},
		Params:  []Spec{Param[io.Writer](), Param[string]().As(binding.Text)},
		Body: func(_ context.Context, values []any, _ *args.Namespace) error {
			got = Value[io.Writer](values, 0)
			_, err := io.WriteString(got, Value[string](values, 1))
			return err
		},
	})
	assert.Equal(t, "<text...>", cmd.Description().Usage())

	require.NoError(t, cmd.Call(context.Background(), "lost words", nil, nil))
	assert.Equal(t, io.Discard, got)

	var out strings.Builder
	ns := args.NewNamespace()
	SetOutput(ns, &out)
	require.NoError(t, cmd.Call(context.Background(), "hello there", ns, nil))
	assert.Equal(t, "hello there", out.String())
	assert.Same(t, &out, Output(ns))
}

func TestBuilder_Errors(t *testing.T) {
	b := NewBuilder(newRegistry(t))

	_, err := b.Build(Definition{Aliases: []string{"x"}})
	var cfg *derrors.ConfigurationError
	require.True(t, errors.As(err, &cfg))
	assert.Contains(t, err.Error(), "has no body")

	_, err = b.Build(Definition{Aliases: []string{"x"}, Params: []Spec{Param[uint64]()}, Body: (&recorder{}).body})
	assert.True(t, errors.As(err, &cfg))

	assert.Panics(t, func() { b.MustBuild(Definition{}) })
}

func TestCommand_Suggestions(t *testing.T) {
	reg := newRegistry(t)
	colors := binding.NewEnumProvider("Color", map[string]int{"red": 1, "green": 2, "grey": 3})
	require.NoError(t, reg.Bind(binding.KeyFor[int]("Color"), colors))

	cmd := NewBuilder(reg).MustBuild(Definition{
		Aliases: []string{"paint"},
		Params: []Spec{
			Param[int]().As("Color").Named("color"),
			Param[bool]().Flag('g'),
			Param[int]().As("Color").Flag('c'),
		},
		Body: (&recorder{}).body,
	})

	tests := []struct {
		line string
		want []string
	}{
		{"", []string{"green", "grey", "red"}},
		{"g", []string{"green", "grey"}},
		{"gr", []string{"green", "grey"}},
		{"red ", nil},
		{"red -c ", []string{"green", "grey", "red"}},
		{"red -c r", []string{"red"}},
		{"-g r", []string{"red"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := cmd.Suggestions(tt.line, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
