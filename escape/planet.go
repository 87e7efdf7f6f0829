package escape

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Planet holds the bulk parameters used by the exobase and escape calculations.
type Planet struct {
	Name   string  `yaml:"name"`
	Mass   float64 `yaml:"mass"`   // [g]
	Radius float64 `yaml:"radius"` // [cm]
}

// Gravity returns the surface gravity [cm/s^2].
func (p Planet) Gravity() float64 {
	return G * p.Mass / (p.Radius * p.Radius)
}

// PlanetTable is an immutable name lookup with a fallback planet.
type PlanetTable struct {
	planets  map[string]Planet
	fallback Planet
}

// DefaultPlanets returns the built-in table (Earth, Io) with Earth as fallback.
func DefaultPlanets() PlanetTable {
	earth := Planet{Name: "Earth", Mass: MassEarth, Radius: RadiusEarth}
	return NewPlanetTable(earth, earth, Planet{Name: "Io", Mass: MassIo, Radius: RadiusIo})
}

func NewPlanetTable(fallback Planet, planets ...Planet) PlanetTable {
	m := make(map[string]Planet, len(planets))
	for _, p := range planets {
		m[p.Name] = p
	}
	return PlanetTable{planets: m, fallback: fallback}
}

// With returns a copy of the table with the given planets added or replaced.
func (t PlanetTable) With(planets ...Planet) PlanetTable {
	m := make(map[string]Planet, len(t.planets)+len(planets))
	for k, v := range t.planets {
		m[k] = v
	}
	for _, p := range planets {
		m[p.Name] = p
	}
	return PlanetTable{planets: m, fallback: t.fallback}
}

// Lookup returns the planet of the given name. ok is false when the
// fallback planet was returned instead.
func (t PlanetTable) Lookup(name string) (p Planet, ok bool) {
	p, ok = t.planets[name]
	if !ok {
		return t.fallback, false
	}
	return p, true
}

// Resolve looks up the planet encoded in a case name (the part before the
// first "_"). Unknown names are logged and resolved to the fallback planet.
func (t PlanetTable) Resolve(caseName string) (name string, p Planet) {
	name = PlanetName(caseName)
	p, ok := t.Lookup(name)
	if !ok {
		logger.Warnf("Planet name '%s' not found in planet properties. Using %s properties.", name, t.fallback.Name)
	}
	return name, p
}

// PlanetName returns the planet part of a case name.
func PlanetName(caseName string) string {
	name, _, _ := strings.Cut(caseName, "_")
	return name
}

// """Reads additional planets from a YAML file and merges them into a table.
// Args:
//
//	fs: filesystem
//	path: YAML file with a list of {name, mass, radius} entries
//	base: table to extend
//
// Returns:
//
//	PlanetTable: base with the file's planets added or replaced
//
// """
func LoadPlanetTable(fs afero.Fs, path string, base PlanetTable) (PlanetTable, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return base, fmt.Errorf("reading planet table %s: %w", path, err)
	}
	var planets []Planet
	if err := yaml.Unmarshal(b, &planets); err != nil {
		return base, fmt.Errorf("parsing planet table %s: %w", path, err)
	}
	for _, p := range planets {
		if p.Name == "" || p.Mass <= 0 || p.Radius <= 0 {
			return base, fmt.Errorf("planet table %s: invalid entry %+v", path, p)
		}
	}
	return base.With(planets...), nil
}
