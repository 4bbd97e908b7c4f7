package universe

import (
	"fmt"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/binding"
	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
)

// BodyProvider resolves a body by name
type BodyProvider struct {
	universe *Universe
}

// NewBodyProvider creates a provider over u
func NewBodyProvider(u *Universe) *BodyProvider {
	return &BodyProvider{universe: u}
}

func (p *BodyProvider) Provided() bool { return false }

func (p *BodyProvider) Get(a args.Args, _ []any) (any, error) {
	name, err := a.Next()
	if err != nil {
		return nil, err
	}
	b, ok := p.universe.Get(name)
	if !ok {
		return nil, derrors.NewParseError(name,
			fmt.Sprintf("No celestial body by the name of '%s' is known!", name), nil)
	}
	return b, nil
}

func (p *BodyProvider) Suggest(prefix string, _ *args.Namespace, _ []any) []string {
	return p.universe.PrefixedWith(prefix)
}

// Module binds Body, CelestialType and the universe itself
func Module(u *Universe) binding.Module {
	return binding.ModuleFunc(func(b *binding.Binder) {
		binding.Bind[Body](b).ToProvider(NewBodyProvider(u))
		binding.Bind[CelestialType](b).ToProvider(binding.NewEnumProvider("celestial type", Types()))
		binding.Bind[*Universe](b).ToInstance(u)
	})
}
