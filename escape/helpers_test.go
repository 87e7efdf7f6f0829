package escape

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var earth = Planet{Name: "Earth", Mass: MassEarth, Radius: RadiusEarth}

// exobaseConst returns P r^2 at which the mean free path equals the scale height.
func exobaseConst(planet Planet, mu float64) float64 {
	return G * mu * MH * planet.Mass / (math.Sqrt2 * math.Pi * KinDiaH2 * KinDiaH2)
}

// syntheticProfile builds an isothermal profile with P r^2 = C exp(-(r - rStar)/L),
// so that the mean free path equals the scale height exactly at rStar.
func syntheticProfile(t *testing.T, n int, r0 float64, dr float64, rStar float64) *Profile {
	return syntheticProfileT(t, n, r0, dr, rStar, 1000)
}

// syntheticProfileT is syntheticProfile at temperature T. The crossing
// radius does not depend on T.
func syntheticProfileT(t *testing.T, n int, r0 float64, dr float64, rStar float64, T float64) *Profile {
	const (
		mu = 2.0
		L  = 4e7
	)
	C := exobaseConst(earth, mu)
	alt := make([]float64, n)
	P := make([]float64, n)
	Ts := make([]float64, n)
	N := make([]float64, n)
	Mu := make([]float64, n)
	for i := 0; i < n; i++ {
		r := r0 + float64(i)*dr
		alt[i] = r - earth.Radius
		P[i] = C / (r * r) * math.Exp(-(r-rStar)/L)
		Ts[i] = T
		N[i] = P[i] / (KB * T)
		Mu[i] = mu
	}
	prof, err := NewProfile(alt, P, Ts, N, Mu, earth.Radius)
	require.NoError(t, err)
	return prof
}

// writeCase writes the three solver files of a case for the given profile.
func writeCase(t *testing.T, fs afero.Fs, root string, name string, prof *Profile) {
	dir := filepath.Join(root, name)
	require.NoError(t, fs.MkdirAll(dir, 0o755))

	var static, mix, tp bytes.Buffer
	static.WriteString("dimensions\n3 1\n T nHtot p y\n")
	mix.WriteString("z rho nHtot mu\n")
	tp.WriteString("header\n i P T z\n")
	for i := 0; i < prof.Len(); i++ {
		fmt.Fprintf(&static, "%.10e %.10e %.10e %.10e\n", prof.T[i], prof.NTot[i], prof.P[i], 0.5)
		fmt.Fprintf(&mix, "%.10e %.10e %.10e %.10e\n", prof.Alt[i], 1e-9, prof.NTot[i], prof.Mu[i])
		fmt.Fprintf(&tp, "%d %.10e %.10e %.10e\n", i, prof.P[i], prof.T[i], prof.Alt[i])
	}
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "Static_Conc_0.dat"), static.Bytes(), 0o644))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "vertical_mix_0.dat"), mix.Bytes(), 0o644))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, name+"_tp.dat"), tp.Bytes(), 0o644))
}
