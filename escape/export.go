package escape

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// escape.dat labels, in file order
const (
	labelPlanet   = "Planet Name"
	labelAlt      = "Exobase Altitude [cm]"
	labelRc       = "Exobase Radius (r_c) [cm]"
	labelP        = "Exobase Pressure (P_c) [dyn/cm^2]"
	labelT        = "Exobase Temperature (T_c) [K]"
	labelN        = "Exobase Number Density (n_c) [cm^-3]"
	labelThermal  = "Thermal Escape Condition Met"
	labelLambda   = "Jeans Escape Parameter (lambda_c)"
	labelFlux     = "Jeans Escape Rate [cm^-2 s^-1]"
	labelTimeAtmo = "Escape Timescale of entire Atmosphere [years]"
)

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// ToDat writes the escape.dat representation of a result.
func (res *Result) ToDat(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "%s: %s\n", labelPlanet, res.PlanetName)
	fmt.Fprintf(buf, "%s: %.4e\n", labelAlt, res.Alt)
	fmt.Fprintf(buf, "%s: %.4e\n", labelRc, res.Rc)
	fmt.Fprintf(buf, "%s: %.4e\n", labelP, res.P)
	fmt.Fprintf(buf, "%s: %.2f\n", labelT, res.T)
	fmt.Fprintf(buf, "%s: %.4e\n", labelN, res.N)
	fmt.Fprintf(buf, "%s: %s\n", labelThermal, pyBool(res.ThermalEscape))
	fmt.Fprintf(buf, "%s: %.4e\n", labelLambda, res.Lambda)
	fmt.Fprintf(buf, "%s: %.4e\n", labelFlux, res.Flux)
	fmt.Fprintf(buf, "%s: %.4e\n", labelTimeAtmo, res.AtmosphereEscape)
}

func WriteResultFile(fs afero.Fs, path string, res *Result) error {
	var buf bytes.Buffer
	res.ToDat(&buf)
	return afero.WriteFile(fs, path, buf.Bytes(), os.ModePerm)
}

// ParseDat reads the labeled fields of an escape.dat file. Fields that are
// not written to the file (rate, per-gram time, mass, mu) stay zero.
func ParseDat(r io.Reader) (*Result, error) {
	res := &Result{}
	seen := map[string]bool{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		label, value, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, fmt.Errorf("%w: escape file line %q", ErrMalformedData, line)
		}
		value = strings.TrimSpace(value)
		seen[label] = true

		var dst *float64
		switch label {
		case labelPlanet:
			res.PlanetName = value
			continue
		case labelThermal:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedData, label, err)
			}
			res.ThermalEscape = b
			continue
		case labelAlt:
			dst = &res.Alt
		case labelRc:
			dst = &res.Rc
		case labelP:
			dst = &res.P
		case labelT:
			dst = &res.T
		case labelN:
			dst = &res.N
		case labelLambda:
			dst = &res.Lambda
		case labelFlux:
			dst = &res.Flux
		case labelTimeAtmo:
			dst = &res.AtmosphereEscape
		default:
			return nil, fmt.Errorf("%w: unknown escape file label %q", ErrMalformedData, label)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedData, label, err)
		}
		*dst = v
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	for _, l := range []string{labelPlanet, labelAlt, labelRc, labelP, labelT, labelN, labelThermal, labelLambda, labelFlux, labelTimeAtmo} {
		if !seen[l] {
			return nil, fmt.Errorf("%w: escape file misses %q", ErrMalformedData, l)
		}
	}
	return res, nil
}

// ToSummary writes one "<name> <lambda_c> <timescale>" line per case.
func (s *Summary) ToSummary(buf *bytes.Buffer) {
	for _, e := range s.Entries {
		fmt.Fprintf(buf, "%s %.4e %.4e\n", e.Name, e.Lambda, e.Timescale)
	}
}
