// Package universe is an example domain of celestial bodies, used to
// exercise the command engine from the console.
package universe

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// CelestialType classifies a body
type CelestialType int

// The zero CelestialType matches any type
const (
	Star CelestialType = iota + 1
	Planet
	DwarfPlanet
	Moon
	Comet
	Asteroid
)

var typeNames = map[CelestialType]string{
	Star:        "star",
	Planet:      "planet",
	DwarfPlanet: "dwarf planet",
	Moon:        "moon",
	Comet:       "comet",
	Asteroid:    "asteroid",
}

func (t CelestialType) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	if t == 0 {
		return "any"
	}
	return fmt.Sprintf("CelestialType(%d)", int(t))
}

// Types returns every celestial type by name
func Types() map[string]CelestialType {
	out := make(map[string]CelestialType, len(typeNames))
	for t, n := range typeNames {
		out[n] = t
	}
	return out
}

// ParseType parses a type name; case, spaces and dashes are ignored
func ParseType(s string) (CelestialType, error) {
	want := squash(s)
	for t, n := range typeNames {
		if squash(n) == want {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown celestial type '%s'", s)
}

func squash(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

// Body is a celestial body. Temperatures are in degrees Celsius.
type Body struct {
	Name            string
	Type            CelestialType
	MeanTemperature float64
	Description     string
}

// Universe holds the known bodies by lower-cased name
type Universe struct {
	mu     sync.RWMutex
	bodies map[string]*Body
}

// New creates an empty universe
func New() *Universe {
	return &Universe{bodies: make(map[string]*Body)}
}

// Put adds or replaces a body
func (u *Universe) Put(b *Body) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.bodies[strings.ToLower(b.Name)] = b
}

// Get returns a copy of the named body
func (u *Universe) Get(name string) (Body, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	b, ok := u.bodies[strings.ToLower(name)]
	if !ok {
		return Body{}, false
	}
	return *b, true
}

// Update applies fn to the named body under the write lock
func (u *Universe) Update(name string, fn func(*Body)) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	b, ok := u.bodies[strings.ToLower(name)]
	if ok {
		fn(b)
	}
	return ok
}

// Remove deletes the named body
func (u *Universe) Remove(name string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	key := strings.ToLower(name)
	_, ok := u.bodies[key]
	delete(u.bodies, key)
	return ok
}

// PrefixedWith returns the sorted names starting with prefix
func (u *Universe) PrefixedWith(prefix string) []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	prefix = strings.ToLower(prefix)
	var out []string
	for name := range u.bodies {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// List returns copies of all bodies sorted by name, optionally of one type
func (u *Universe) List(only ...CelestialType) []Body {
	u.mu.RLock()
	defer u.mu.RUnlock()
	var out []Body
	for _, b := range u.bodies {
		if len(only) > 0 && !slices.Contains(only, b.Type) && !slices.Contains(only, 0) {
			continue
		}
		out = append(out, *b)
	}
	slices.SortFunc(out, func(a, b Body) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Len returns the number of bodies
func (u *Universe) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.bodies)
}

// FahrenheitToCelsius converts a temperature
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5.0 / 9.0
}

// CelsiusToFahrenheit converts a temperature
func CelsiusToFahrenheit(c float64) float64 {
	return c*9.0/5.0 + 32
}
