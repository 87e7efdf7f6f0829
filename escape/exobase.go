package escape

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Mean free path [cm]
// Args:
//
//	P: pressure [dyn/cm^2]
//	T: temperature [K]
//	d: molecular collision diameter [cm]
func MeanFreePath(P float64, T float64, d float64) float64 {
	return KB * T / (math.Sqrt2 * math.Pi * d * d * P)
}

// Scale height [cm] at radius r [cm]
func ScaleHeight(r float64, T float64, mP float64, mu float64) float64 {
	return KB * T * r * r / (mP * G * mu * MH)
}

// ExobaseRadius returns the radius [cm] at which a layer of pressure P would
// have a mean free path equal to its scale height.
func ExobaseRadius(P float64, mP float64, mu float64, d float64) float64 {
	return math.Sqrt(G * mu * MH * mP / (math.Sqrt2 * math.Pi * d * d * P))
}

// IsothermalRadius integrates the isothermal hydrostatic relation from
// (r0, P0) to pressure P.
func IsothermalRadius(P float64, r0 float64, P0 float64, T float64, mu float64, g float64) float64 {
	return r0 + KB*T/(mu*MH*g)*math.Log(P0/P)
}

// Per-layer fields derived from a profile
type Derived struct {
	MFP []float64 //mean free path [cm]
	H   []float64 //scale height [cm]
	Rc  []float64 //exobase radius estimate [cm]
}

func Derive(prof *Profile, planet Planet, d float64) Derived {
	n := prof.Len()
	df := Derived{
		MFP: make([]float64, n),
		H:   make([]float64, n),
		Rc:  make([]float64, n),
	}
	for i := 0; i < n; i++ {
		df.MFP[i] = MeanFreePath(prof.P[i], prof.T[i], d)
		df.H[i] = ScaleHeight(prof.R[i], prof.T[i], planet.Mass, prof.Mu[i])
		df.Rc[i] = ExobaseRadius(prof.P[i], planet.Mass, prof.Mu[i], d)
	}
	return df
}

// Collisional reports whether the layer i is still below the exobase.
func (df Derived) Collisional(i int) bool {
	return df.MFP[i] < df.H[i]
}

// Extends the profile until the mean free path of the outer layer reaches
// the scale height.
type Locator struct {
	Planet        Planet
	Diameter      float64 //collision diameter [cm]
	MaxExtensions int
}

// """Extends prof in place until the exobase lies inside the grid.
// Args:
//
//	prof: profile, modified in place (layers are only appended)
//
// Returns:
//
//	Derived: mean free path and scale height of the final profile
//	int: number of extension iterations
//
// """
func (loc Locator) Locate(prof *Profile) (Derived, int, error) {
	df := Derive(prof, loc.Planet, loc.Diameter)

	iter := 0
	for df.Collisional(prof.Outer()) {
		if iter >= loc.MaxExtensions {
			return df, iter, fmt.Errorf("%w: outer pressure %.4e dyn/cm^2 after %d extensions",
				ErrExtensionFailed, prof.P[prof.Outer()], iter)
		}
		pMin := loc.trialPressure(prof, df)
		logger.Infof("Extending profile to P = %.4e dyn/cm^2", pMin)
		loc.extend(prof, pMin)
		df = Derive(prof, loc.Planet, loc.Diameter)
		iter++
	}
	return df, iter, nil
}

// trialPressure estimates the pressure of the exobase from the exobase
// radius estimate of the outer layer, floored to a power of ten strictly
// below the outer pressure.
func (loc Locator) trialPressure(prof *Profile, df Derived) float64 {
	o := prof.Outer()
	pOuter := prof.P[o]
	p := df.Rc[o] * df.Rc[o] * pOuter / (prof.R[o] * prof.R[o])
	p = math.Pow(10, math.Floor(math.Log10(p)))
	if !(p > 0) || math.IsInf(p, 0) {
		p = pOuter
	}
	for p >= pOuter {
		p /= 10
	}
	return p
}

// extend appends an isothermal block of log spaced layers from the outer
// pressure down to pMin.
func (loc Locator) extend(prof *Profile, pMin float64) {
	o := prof.Outer()
	pOuter, tOuter, muOuter, rOuter := prof.P[o], prof.T[o], prof.Mu[o], prof.R[o]

	n := int(math.Log10(pOuter/pMin)*10 + 1)
	if n < 2 {
		n = 2
	}
	logP := floats.Span(make([]float64, n), math.Log10(pOuter), math.Log10(pMin))

	// gravity at the innermost layer
	g := G * loc.Planet.Mass / (prof.R[0] * prof.R[0])

	// the first point is the current outer layer
	m := n - 1
	r := make([]float64, m)
	p := make([]float64, m)
	T := make([]float64, m)
	nTot := make([]float64, m)
	mu := make([]float64, m)
	for i := 0; i < m; i++ {
		p[i] = math.Pow(10, logP[i+1])
		r[i] = IsothermalRadius(p[i], rOuter, pOuter, tOuter, muOuter, g)
		T[i] = tOuter
		nTot[i] = p[i] / (KB * tOuter)
		mu[i] = muOuter
	}
	prof.appendLayers(r, p, T, nTot, mu)
}
