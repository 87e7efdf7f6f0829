package escape

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	EscapeFile  = "escape.dat"
	SummaryFile = "summary_escape.dat"
)

// Options of the escape pipeline
type Options struct {
	Planets       PlanetTable
	Diameter      float64 //collision diameter [cm]
	Correction    float64 //Jeans flux correction B
	MaxExtensions int
}

func DefaultOptions() Options {
	return Options{
		Planets:       DefaultPlanets(),
		Diameter:      KinDiaH2,
		Correction:    DefaultCorrection,
		MaxExtensions: DefaultMaxExtensions,
	}
}

// Escape computes and stores the escape estimate of one case folder.
type Escape struct {
	Fs     afero.Fs
	Loader *Loader
	Opts   Options
}

func New(fs afero.Fs, opts Options) *Escape {
	return &Escape{Fs: fs, Loader: NewLoader(fs), Opts: opts}
}

// Estimate runs loader, locator, interpolator and escape model on a case
// without writing anything.
func (e *Escape) Estimate(root string, caseName string) (*Result, error) {
	c, err := e.Loader.Load(root, caseName, e.Opts.Planets)
	if err != nil {
		return nil, err
	}
	return e.EstimateProfile(c.PlanetName, c.Planet, c.Profile)
}

// EstimateProfile runs the exobase search and escape model on a profile.
// The profile may be extended in place.
func (e *Escape) EstimateProfile(planetName string, planet Planet, prof *Profile) (*Result, error) {
	loc := Locator{Planet: planet, Diameter: e.Opts.Diameter, MaxExtensions: e.Opts.MaxExtensions}
	df, iter, err := loc.Locate(prof)
	if err != nil {
		return nil, err
	}
	ex, err := FindExobase(prof, df)
	if err != nil {
		return nil, err
	}
	res := EscapeRate(ex, planet, prof.P[0], e.Opts.Correction)
	res.PlanetName = planetName
	res.Extensions = iter
	return &res, nil
}

// """Calculates the escape parameters of a case and writes escape.dat into
// its folder.
// Args:
//
//	root: directory holding the case folders
//	caseName: case folder name
//
// """
func (e *Escape) Calculate(root string, caseName string) (*Result, error) {
	res, err := e.Estimate(root, caseName)
	if err != nil {
		return nil, err
	}
	logger.Infof("Rough time until escape of entire atmosphere: %.2e years", res.AtmosphereEscape)

	path := filepath.Join(root, caseName, EscapeFile)
	if err := WriteResultFile(e.Fs, path, res); err != nil {
		return nil, fmt.Errorf("%s: %w", caseName, err)
	}
	return res, nil
}
