package escape

import (
	"fmt"
	"math"
)

// Atmospheric profile, layers ordered from the surface outward
type Profile struct {
	Alt  []float64 //altitude [cm]
	R    []float64 //radius = altitude + planet radius [cm]
	P    []float64 //pressure [dyn/cm^2]
	T    []float64 //temperature [K]
	NTot []float64 //total number density [cm^-3]
	Mu   []float64 //mean molecular weight [amu]
}

// NewProfile builds a profile from loaded columns and the planet radius.
func NewProfile(alt, p, T, nTot, mu []float64, rP float64) (*Profile, error) {
	r := make([]float64, len(alt))
	for i, a := range alt {
		r[i] = a + rP
	}
	prof := &Profile{
		Alt:  append([]float64{}, alt...),
		R:    r,
		P:    append([]float64{}, p...),
		T:    append([]float64{}, T...),
		NTot: append([]float64{}, nTot...),
		Mu:   append([]float64{}, mu...),
	}
	if err := prof.Validate(); err != nil {
		return nil, err
	}
	return prof, nil
}

func (prof *Profile) Len() int {
	return len(prof.R)
}

// Validate checks that all columns line up, altitude and radius increase
// strictly, pressure decreases strictly and T, n, mu are positive.
func (prof *Profile) Validate() error {
	n := len(prof.R)
	if n < 2 {
		return fmt.Errorf("%w: profile has %d layers, need at least 2", ErrMalformedData, n)
	}
	for name, col := range map[string][]float64{"altitude": prof.Alt, "pressure": prof.P, "temperature": prof.T, "number density": prof.NTot, "mu": prof.Mu} {
		if len(col) != n {
			return fmt.Errorf("%w: %s has %d layers, radius has %d", ErrMalformedData, name, len(col), n)
		}
	}
	for i := 0; i < n; i++ {
		if !(prof.P[i] > 0) || !(prof.T[i] > 0) || !(prof.NTot[i] > 0) || !(prof.Mu[i] > 0) {
			return fmt.Errorf("%w: non-positive value in layer %d", ErrMalformedData, i)
		}
		if math.IsInf(prof.R[i], 0) || math.IsNaN(prof.R[i]) {
			return fmt.Errorf("%w: invalid radius in layer %d", ErrMalformedData, i)
		}
		if i == 0 {
			continue
		}
		if !(prof.Alt[i] > prof.Alt[i-1]) || !(prof.R[i] > prof.R[i-1]) {
			return fmt.Errorf("%w: altitude not increasing at layer %d", ErrMalformedData, i)
		}
		if !(prof.P[i] < prof.P[i-1]) {
			return fmt.Errorf("%w: pressure not decreasing at layer %d", ErrMalformedData, i)
		}
	}
	return nil
}

// Outer returns the index of the outermost (lowest pressure) layer.
func (prof *Profile) Outer() int {
	return len(prof.R) - 1
}

// appendLayers adds synthetic layers above the outer layer.
func (prof *Profile) appendLayers(r, p, T, nTot, mu []float64) {
	rP := prof.R[0] - prof.Alt[0]
	for _, ri := range r {
		prof.Alt = append(prof.Alt, ri-rP)
	}
	prof.R = append(prof.R, r...)
	prof.P = append(prof.P, p...)
	prof.T = append(prof.T, T...)
	prof.NTot = append(prof.NTot, nTot...)
	prof.Mu = append(prof.Mu, mu...)
}
