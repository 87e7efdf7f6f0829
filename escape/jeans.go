package escape

import "math"

// Maximum exobase temperature [K] for which the atmosphere stays bound
// Args:
//
//	mP: planet mass [g]
//	rP: planet radius [cm]
//	mu: mean molecular weight at the exobase
func MaxExobaseTemperature(mP float64, rP float64, mu float64) float64 {
	return mu * MH * G * mP / (36 * KB * rP)
}

// JeansParameter returns the escape parameter lambda_c at radius rc [cm]
// and temperature T [K].
func JeansParameter(rc float64, T float64, mP float64, mu float64) float64 {
	return G * mP * mu * MH / (KB * T * rc)
}

// """Jeans escape parameter and flux at the exobase.
// Args:
//
//	rc: exobase radius [cm]
//	P: exobase pressure [dyn/cm^2]
//	T: exobase temperature [K]
//	mP: planet mass [g]
//	mu: mean molecular weight
//	B: empirical correction factor
//
// Returns:
//
//	lambda: escape parameter
//	phi: Jeans flux [cm^-2 s^-1]
//
// """
func JeansFlux(rc float64, P float64, T float64, mP float64, mu float64, B float64) (lambda float64, phi float64) {
	lambda = JeansParameter(rc, T, mP, mu)
	n := P / (KB * T)
	phi = n / (2 * math.Sqrt(math.Pi)) * B
	phi *= math.Sqrt(2 * KB * T / (mu * MH))
	phi *= (1 + lambda) * math.Exp(-lambda)
	return lambda, phi
}

// Escape estimate of one case
type Result struct {
	PlanetName       string
	Alt              float64 //exobase altitude [cm]
	Rc               float64 //exobase radius [cm]
	P                float64 //[dyn/cm^2]
	T                float64 //[K]
	N                float64 //[cm^-3]
	Mu               float64
	ThermalEscape    bool    //T exceeds MaxExobaseTemperature
	Lambda           float64 //Jeans escape parameter
	Flux             float64 //Jeans flux [cm^-2 s^-1]
	Rate             float64 //total escape rate [s^-1]
	TimePerGram      float64 //[yr/g]
	AtmosphereMass   float64 //[g]
	AtmosphereEscape float64 //escape time of the whole atmosphere [yr]
	Extensions       int
}

// """Evaluates the Jeans escape model at the exobase.
// Args:
//
//	ex: interpolated exobase state
//	planet: planet parameters
//	pSurface: pressure of the innermost layer [dyn/cm^2]
//	B: empirical correction factor
//
// """
func EscapeRate(ex ExobaseState, planet Planet, pSurface float64, B float64) Result {
	lambda, phi := JeansFlux(ex.Rc, ex.P, ex.T, planet.Mass, ex.Mu, B)

	rate := phi * 4 * math.Pi * ex.Rc * ex.Rc
	perGram := Avogadro / (ex.Mu * rate) / SecPerYr

	mAtmo := pSurface * 4 * math.Pi * ex.Rc * ex.Rc / planet.Gravity()

	return Result{
		Alt:              ex.R - planet.Radius,
		Rc:               ex.Rc,
		P:                ex.P,
		T:                ex.T,
		N:                ex.N,
		Mu:               ex.Mu,
		ThermalEscape:    ex.T > MaxExobaseTemperature(planet.Mass, planet.Radius, ex.Mu),
		Lambda:           lambda,
		Flux:             phi,
		Rate:             rate,
		TimePerGram:      perGram,
		AtmosphereMass:   mAtmo,
		AtmosphereEscape: perGram * mAtmo,
	}
}
