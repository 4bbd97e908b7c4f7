package universe

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/binding"
	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
	"github.com/NikitaCOEUR/cmdgraph/internal/dispatcher"
	"github.com/NikitaCOEUR/cmdgraph/internal/parametric"
)

// Permissions used by the body commands
const (
	PermSetType   = "body.settype"
	PermSetTemp   = "body.settemp"
	PermSetDesc   = "body.setdesc"
	PermInfo      = "body.info"
	PermList      = "body.list"
	PermCreate    = "body.create"
	PermDeathStar = "body.deathstar"
)

// Commands registers the body commands on n. The universe is bound by Module.
func Commands(n *dispatcher.Node, u *Universe) {
	n.Describe("Manage celestial bodies", "").
		RegisterDefault(parametric.Definition{
			Aliases:     []string{"info", "show"},
			Desc:        "Show information about an object",
			Permissions: []string{PermInfo},
			Params: []parametric.Spec{
				parametric.Param[io.Writer](),
				parametric.Param[Body]().Named("body"),
				parametric.Param[bool]().Flag('f').Named("fahrenheit"),
			},
			Body: info,
		}).
		Register(
			parametric.Definition{
				Aliases:     []string{"settype", "setclass"},
				Desc:        "Set the type of an object",
				Permissions: []string{PermSetType},
				Params: []parametric.Spec{
					parametric.Param[Body]().Named("body"),
					parametric.Param[CelestialType]().Named("type"),
				},
				Body: func(_ context.Context, values []any, _ *args.Namespace) error {
					t := parametric.Value[CelestialType](values, 1)
					return update(u, values, func(b *Body) { b.Type = t })
				},
			},
			parametric.Definition{
				Aliases:     []string{"settemp", "settemperature"},
				Desc:        "Set the mean temperature of an object",
				Permissions: []string{PermSetTemp},
				Params: []parametric.Spec{
					parametric.Param[Body]().Named("body"),
					parametric.Param[float64]().Named("temperature"),
					parametric.Param[bool]().Flag('f').Named("fahrenheit"),
				},
				Body: func(_ context.Context, values []any, _ *args.Namespace) error {
					temp := parametric.Value[float64](values, 1)
					if parametric.Value[bool](values, 2) {
						temp = FahrenheitToCelsius(temp)
					}
					return update(u, values, func(b *Body) { b.MeanTemperature = temp })
				},
			},
			parametric.Definition{
				Aliases:     []string{"setdesc", "setdescription"},
				Desc:        "Set the description of an object",
				Permissions: []string{PermSetDesc},
				Params: []parametric.Spec{
					parametric.Param[Body]().Named("body"),
					parametric.Param[string]().As(binding.Text).Named("description"),
				},
				Body: func(_ context.Context, values []any, _ *args.Namespace) error {
					desc := parametric.Value[string](values, 1)
					return update(u, values, func(b *Body) { b.Description = desc })
				},
			},
			parametric.Definition{
				Aliases:     []string{"list", "ls"},
				Desc:        "List the known bodies",
				Permissions: []string{PermList},
				Params: []parametric.Spec{
					parametric.Param[io.Writer](),
					parametric.Param[*Universe](),
					parametric.Param[CelestialType]().Named("type").Optional(),
				},
				Body: list,
			},
			parametric.Definition{
				Aliases:     []string{"create", "add"},
				Desc:        "Create a celestial body",
				Permissions: []string{PermCreate},
				Params: []parametric.Spec{
					parametric.Param[*Universe](),
					parametric.Param[string]().Named("name").With(binding.Validate{Pattern: `[a-zA-Z][a-zA-Z0-9_-]*`}),
					parametric.Param[CelestialType]().Named("type"),
				},
				Body: create,
			},
			parametric.Definition{
				Aliases:     []string{"delete"},
				Desc:        "Delete a celestial body",
				Permissions: []string{PermDeathStar},
				Params: []parametric.Spec{
					parametric.Param[*Universe](),
					parametric.Param[string]().Named("name"),
				},
				Body: func(_ context.Context, values []any, _ *args.Namespace) error {
					uni := parametric.Value[*Universe](values, 0)
					name := parametric.Value[string](values, 1)
					if !uni.Remove(name) {
						return derrors.Errorf("No celestial body by the name of '%s' is known!", name)
					}
					return nil
				},
			},
		)
}

func update(u *Universe, values []any, fn func(*Body)) error {
	b := parametric.Value[Body](values, 0)
	if !u.Update(b.Name, fn) {
		return derrors.Errorf("The body '%s' no longer exists", b.Name)
	}
	return nil
}

func info(_ context.Context, values []any, _ *args.Namespace) error {
	w := parametric.Value[io.Writer](values, 0)
	b := parametric.Value[Body](values, 1)

	fmt.Fprintf(w, "type: %s\n", b.Type)
	if parametric.Value[bool](values, 2) {
		fmt.Fprintf(w, "mean temp: %s deg F\n", formatTemp(CelsiusToFahrenheit(b.MeanTemperature)))
	} else {
		fmt.Fprintf(w, "mean temp: %s deg C\n", formatTemp(b.MeanTemperature))
	}
	if b.Description != "" {
		fmt.Fprintf(w, "desc: %s\n", b.Description)
	}
	return nil
}

func list(_ context.Context, values []any, _ *args.Namespace) error {
	w := parametric.Value[io.Writer](values, 0)
	u := parametric.Value[*Universe](values, 1)
	t := parametric.Value[CelestialType](values, 2)

	bodies := u.List(t)
	if len(bodies) == 0 {
		fmt.Fprintf(w, "No bodies of type %s\n", t)
		return nil
	}
	for _, b := range bodies {
		fmt.Fprintf(w, "%s (%s)\n", b.Name, b.Type)
	}
	return nil
}

func create(_ context.Context, values []any, _ *args.Namespace) error {
	u := parametric.Value[*Universe](values, 0)
	name := parametric.Value[string](values, 1)
	if _, ok := u.Get(name); ok {
		return derrors.Errorf("A body named '%s' already exists", name)
	}
	u.Put(&Body{Name: name, Type: parametric.Value[CelestialType](values, 2)})
	return nil
}

func formatTemp(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}
