package escape

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// Piecewise linear function of radius that extrapolates linearly from the
// end segments instead of clamping.
type linearFunc struct {
	pl     interp.PiecewiseLinear
	xs, ys []float64
}

func newLinearFunc(xs []float64, ys []float64) (*linearFunc, error) {
	f := &linearFunc{xs: xs, ys: ys}
	if err := f.pl.Fit(xs, ys); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *linearFunc) At(x float64) float64 {
	n := len(f.xs)
	switch {
	case x < f.xs[0]:
		return extrapolate(f.xs[0], f.ys[0], f.xs[1], f.ys[1], x)
	case x > f.xs[n-1]:
		return extrapolate(f.xs[n-2], f.ys[n-2], f.xs[n-1], f.ys[n-1], x)
	}
	return f.pl.Predict(x)
}

func extrapolate(x0, y0, x1, y1, x float64) float64 {
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}

// State at the exobase
type ExobaseState struct {
	Index int     //first layer above the exobase
	R     float64 //radius where mean free path equals scale height [cm]
	Rc    float64 //exobase radius estimate at R [cm]
	P     float64 //[dyn/cm^2]
	T     float64 //[K]
	N     float64 //number density [cm^-3]
	Mu    float64
}

// Interpolants of the profile over radius
type ProfileFuncs struct {
	Rc, LogP, T, LogN, Mu *linearFunc
}

func NewProfileFuncs(prof *Profile, df Derived) (*ProfileFuncs, error) {
	n := prof.Len()
	logP := make([]float64, n)
	logN := make([]float64, n)
	for i := 0; i < n; i++ {
		logP[i] = math.Log10(prof.P[i])
		logN[i] = math.Log10(prof.NTot[i])
	}
	var (
		pf  ProfileFuncs
		err error
	)
	for _, c := range []struct {
		dst **linearFunc
		ys  []float64
	}{
		{&pf.Rc, df.Rc},
		{&pf.LogP, logP},
		{&pf.T, prof.T},
		{&pf.LogN, logN},
		{&pf.Mu, prof.Mu},
	} {
		if *c.dst, err = newLinearFunc(prof.R, c.ys); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
		}
	}
	return &pf, nil
}

// """Finds the radius where the mean free path equals the scale height and
// evaluates the profile there.
// Args:
//
//	prof: profile containing the crossing
//	df: derived fields of prof
//
// Returns:
//
//	ExobaseState: interpolated state at the crossing
//
// """
func FindExobase(prof *Profile, df Derived) (ExobaseState, error) {
	n := prof.Len()
	if n < 2 {
		return ExobaseState{}, fmt.Errorf("%w: %d layers", ErrExobaseNotBracketed, n)
	}
	if df.Collisional(n - 1) {
		return ExobaseState{}, fmt.Errorf("%w: outermost of %d layers is collisional", ErrExobaseNotBracketed, n)
	}
	// outermost change from collisional to non-collisional
	iExo := 0
	for i := n - 1; i > 0; i-- {
		if df.Collisional(i-1) && !df.Collisional(i) {
			iExo = i
			break
		}
	}
	if iExo == 0 {
		return ExobaseState{}, fmt.Errorf("%w: no collisional layer among %d", ErrExobaseNotBracketed, n)
	}

	// linear zero of (H - mfp) between the bracketing layers
	dsh := df.H[iExo] - df.H[iExo-1]
	dmfp := df.MFP[iExo] - df.MFP[iExo-1]
	dr := prof.R[iExo] - prof.R[iExo-1]
	rExo := prof.R[iExo-1] + (df.H[iExo-1]-df.MFP[iExo-1])*dr/(dmfp-dsh)

	pf, err := NewProfileFuncs(prof, df)
	if err != nil {
		return ExobaseState{}, err
	}
	return ExobaseState{
		Index: iExo,
		R:     rExo,
		Rc:    pf.Rc.At(rExo),
		P:     math.Pow(10, pf.LogP.At(rExo)),
		T:     pf.T.At(rExo),
		N:     math.Pow(10, pf.LogN.At(rExo)),
		Mu:    pf.Mu.At(rExo),
	}, nil
}
