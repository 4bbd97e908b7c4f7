package universe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		input string
		want  CelestialType
	}{
		{"star", Star},
		{"Planet", Planet},
		{"dwarf planet", DwarfPlanet},
		{"dwarf-planet", DwarfPlanet},
		{"DWARF_PLANET", DwarfPlanet},
		{"moon", Moon},
		{"comet", Comet},
		{"asteroid", Asteroid},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseType("nebula")
	assert.EqualError(t, err, "unknown celestial type 'nebula'")
}

func TestCelestialType_String(t *testing.T) {
	assert.Equal(t, "dwarf planet", DwarfPlanet.String())
	assert.Equal(t, "any", CelestialType(0).String())
	assert.Equal(t, "CelestialType(42)", CelestialType(42).String())
	assert.Len(t, Types(), 6)
}

func TestUniverse(t *testing.T) {
	u := New()
	u.Put(&Body{Name: "Mercury", Type: Planet, MeanTemperature: 167})
	u.Put(&Body{Name: "Mars", Type: Planet})
	u.Put(&Body{Name: "Moon", Type: Moon})

	b, ok := u.Get("MERCURY")
	require.True(t, ok)
	assert.Equal(t, 167.0, b.MeanTemperature)

	assert.Equal(t, []string{"mars", "mercury", "moon"}, u.PrefixedWith("m"))
	assert.Equal(t, []string{"mercury"}, u.PrefixedWith("Me"))

	planets := u.List(Planet)
	require.Len(t, planets, 2)
	assert.Equal(t, "Mars", planets[0].Name)
	assert.Len(t, u.List(), 3)
	assert.Len(t, u.List(0), 3)

	assert.True(t, u.Update("mars", func(b *Body) { b.Description = "red" }))
	b, _ = u.Get("mars")
	assert.Equal(t, "red", b.Description)

	assert.True(t, u.Remove("moon"))
	assert.False(t, u.Remove("moon"))
	assert.False(t, u.Update("moon", func(*Body) {}))
	assert.Equal(t, 2, u.Len())
}

func TestTemperatureConversion(t *testing.T) {
	assert.InDelta(t, 75.0, FahrenheitToCelsius(167), 1e-9)
	assert.InDelta(t, 212.0, CelsiusToFahrenheit(100), 1e-9)
	assert.InDelta(t, 15.0, FahrenheitToCelsius(CelsiusToFahrenheit(15)), 1e-9)
}
