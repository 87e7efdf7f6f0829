package escape

// Physical constants (cgs)
const (
	G        = 6.674e-8  // gravitational constant [cm^3 g^-1 s^-2]
	KB       = 1.381e-16 // Boltzmann constant [erg K^-1]
	Avogadro = 6.022e23  // [mol^-1]
	MH       = 1.66e-24  // atomic mass unit [g]
	KinDiaH2 = 289e-10   // kinetic diameter of H2 [cm]
	SecPerYr = 60 * 60 * 24 * 365.25
)

const (
	MassEarth   = 5.972e27 // [g]
	RadiusEarth = 6.371e8  // [cm]
	MassIo      = 8.9319e25
	RadiusIo    = 1.821e8
)

const (
	DefaultCorrection    = 0.65 // empirical correction B of the Jeans flux
	DefaultMaxExtensions = 20
)
