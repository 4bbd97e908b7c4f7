package universe

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/auth"
	"github.com/NikitaCOEUR/cmdgraph/internal/binding"
	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
	"github.com/NikitaCOEUR/cmdgraph/internal/dispatcher"
	"github.com/NikitaCOEUR/cmdgraph/internal/parametric"
)

func seeded() *Universe {
	u := New()
	u.Put(&Body{Name: "mercury", Type: Planet, MeanTemperature: 167})
	u.Put(&Body{Name: "mars", Type: Planet, MeanTemperature: -65})
	u.Put(&Body{Name: "moon", Type: Moon, MeanTemperature: -20})
	u.Put(&Body{Name: "ceres", Type: DwarfPlanet, MeanTemperature: -105})
	return u
}

func newDispatcher(t *testing.T, u *Universe, authorizer parametric.Authorizer) *dispatcher.Dispatcher {
	t.Helper()
	reg := binding.NewRegistry()
	require.NoError(t, reg.Install(binding.PrimitivesModule, parametric.ContextModule, Module(u)))

	g := dispatcher.NewGraph(parametric.NewBuilder(reg).SetAuthorizer(authorizer))
	Commands(g.Root().Group("body"), u)
	d, err := g.Dispatcher()
	require.NoError(t, err)
	return d
}

func call(t *testing.T, d *dispatcher.Dispatcher, line string, ns *args.Namespace) (string, error) {
	t.Helper()
	if ns == nil {
		ns = args.NewNamespace()
	}
	var out bytes.Buffer
	parametric.SetOutput(ns, &out)
	err := d.Call(context.Background(), line, ns, nil)
	return out.String(), err
}

func TestCommands_SetTemp(t *testing.T) {
	u := seeded()
	d := newDispatcher(t, u, parametric.AllowAll)

	_, err := call(t, d, "body settemp mercury 167 -f", nil)
	require.NoError(t, err)
	b, _ := u.Get("mercury")
	assert.InDelta(t, 75.0, b.MeanTemperature, 1e-9)

	_, err = call(t, d, "body settemperature mars -60", nil)
	require.NoError(t, err)
	b, _ = u.Get("mars")
	assert.Equal(t, -60.0, b.MeanTemperature)
}

func TestCommands_Info(t *testing.T) {
	u := seeded()
	d := newDispatcher(t, u, parametric.AllowAll)

	out, err := call(t, d, "body info mercury", nil)
	require.NoError(t, err)
	assert.Equal(t, "type: planet\nmean temp: 167 deg C\n", out)

	out, err = call(t, d, "body show mars -f", nil)
	require.NoError(t, err)
	assert.Equal(t, "type: planet\nmean temp: -85 deg F\n", out)

	_, err = call(t, d, "body setdesc mars the red planet", nil)
	require.NoError(t, err)
	out, err = call(t, d, "body mars", nil)
	require.NoError(t, err, "info is the default sub-command")
	assert.Equal(t, "type: planet\nmean temp: -65 deg C\ndesc: the red planet\n", out)
}

func TestCommands_SetType(t *testing.T) {
	u := seeded()
	d := newDispatcher(t, u, parametric.AllowAll)

	_, err := call(t, d, "body settype ceres planet", nil)
	require.NoError(t, err)
	b, _ := u.Get("ceres")
	assert.Equal(t, Planet, b.Type)

	_, err = call(t, d, "body setclass ceres dwarf-planet", nil)
	require.NoError(t, err)
	b, _ = u.Get("ceres")
	assert.Equal(t, DwarfPlanet, b.Type)

	_, err = call(t, d, "body settype ceres nebula", nil)
	var usage *derrors.InvalidUsageError
	require.True(t, errors.As(err, &usage))
	assert.Contains(t, usage.Error(), "No matching value found in the 'celestial type' list.")
}

func TestCommands_UnknownBody(t *testing.T) {
	d := newDispatcher(t, seeded(), parametric.AllowAll)

	for _, line := range []string{"body info pluto", "body pluto"} {
		_, err := call(t, d, line, nil)
		var usage *derrors.InvalidUsageError
		require.True(t, errors.As(err, &usage), line)
		assert.Contains(t, usage.Error(), "No celestial body by the name of 'pluto' is known!")
		assert.Equal(t, []string{"body", "info"}, usage.AliasStack, line)
	}
}

func TestCommands_ListCreateDelete(t *testing.T) {
	u := seeded()
	d := newDispatcher(t, u, parametric.AllowAll)

	out, err := call(t, d, "body list planet", nil)
	require.NoError(t, err)
	assert.Equal(t, "mars (planet)\nmercury (planet)\n", out)

	out, err = call(t, d, "body ls", nil)
	require.NoError(t, err)
	assert.Equal(t, "ceres (dwarf planet)\nmars (planet)\nmercury (planet)\nmoon (moon)\n", out)

	out, err = call(t, d, "body list comet", nil)
	require.NoError(t, err)
	assert.Equal(t, "No bodies of type comet\n", out)

	_, err = call(t, d, "body create halley comet", nil)
	require.NoError(t, err)
	_, err = call(t, d, "body create halley comet", nil)
	var cmdErr *derrors.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Contains(t, err.Error(), "already exists")

	_, err = call(t, d, "body delete halley", nil)
	require.NoError(t, err)
	_, ok := u.Get("halley")
	assert.False(t, ok)
}

func TestCommands_Permissions(t *testing.T) {
	u := seeded()
	d := newDispatcher(t, u, auth.Authorizer{})

	ns := args.NewNamespace()
	auth.WithSubject(ns, auth.NewSubject("console", PermInfo, PermSetTemp))

	_, err := call(t, d, "body info mars", ns)
	require.NoError(t, err)

	_, err = call(t, d, "body delete mars", ns)
	var authErr *derrors.AuthorizationError
	require.True(t, errors.As(err, &authErr))
	_, ok := u.Get("mars")
	assert.True(t, ok)

	suggestions, err := d.Suggestions("body ", ns)
	require.NoError(t, err)
	assert.Equal(t, []string{"info", "settemp", "ceres", "mars", "mercury", "moon"}, suggestions)
}

func TestCommands_Suggestions(t *testing.T) {
	d := newDispatcher(t, seeded(), parametric.AllowAll)

	tests := []struct {
		line string
		want []string
	}{
		{"body settemp m", []string{"mars", "mercury", "moon"}},
		{"body settype mars d", []string{"dwarf planet"}},
		{"body mer", []string{"mercury"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := d.Suggestions(tt.line, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
