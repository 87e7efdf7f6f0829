package escape

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// errNoRows marks a table that holds a header but no data.
var errNoRows = errors.New("no data rows")

const (
	StaticConcPrefix  = "Static_Conc_"
	VerticalMixPrefix = "vertical_mix_"
	TPSuffix          = "_tp.dat"
)

// IndexedFileFinder locates the newest file of a numbered series
// <prefix><i>.dat in a directory.
type IndexedFileFinder interface {
	Latest(dir string, prefix string) (path string, index int, err error)
}

// ProbeFinder probes i = 0, 1, 2, ... until a file is missing.
type ProbeFinder struct {
	Fs afero.Fs
}

func (f ProbeFinder) Latest(dir string, prefix string) (string, int, error) {
	last := -1
	for i := 0; ; i++ {
		ok, err := afero.Exists(f.Fs, IndexedPath(dir, prefix, i))
		if err != nil {
			return "", 0, err
		}
		if !ok {
			break
		}
		last = i
	}
	if last < 0 {
		return "", 0, fmt.Errorf("%w: %s", ErrMissingDataFile, IndexedPath(dir, prefix, 0))
	}
	return IndexedPath(dir, prefix, last), last, nil
}

func IndexedPath(dir string, prefix string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("%s%d.dat", prefix, i))
}

// One simulation case ready for the exobase calculation
type Case struct {
	Name       string
	Dir        string
	PlanetName string
	Planet     Planet
	Iteration  int //index of the Static_Conc file used
	Profile    *Profile
}

type Loader struct {
	Fs     afero.Fs
	Finder IndexedFileFinder
}

func NewLoader(fs afero.Fs) *Loader {
	return &Loader{Fs: fs, Finder: ProbeFinder{Fs: fs}}
}

// """Loads the latest converged output of one case.
// Args:
//
//	root: directory holding the case folders
//	caseName: folder name, <Planet>_<parameters>
//	planets: planet table used to resolve the planet name
//
// Returns:
//
//	*Case: profile and planet of the case
//
// """
func (l *Loader) Load(root string, caseName string, planets PlanetTable) (*Case, error) {
	dir := filepath.Join(root, caseName)

	staticPath, iter, err := l.Finder.Latest(dir, StaticConcPrefix)
	if err != nil {
		return nil, err
	}
	mixPath, _, err := l.Finder.Latest(dir, VerticalMixPrefix)
	if err != nil {
		return nil, err
	}
	tpPath := filepath.Join(dir, caseName+TPSuffix)

	// T in column 0, P [dyn/cm^2] in column 2
	static, err := readColumns(l.Fs, staticPath, 3, 0, 2)
	if err != nil {
		return nil, err
	}
	// n_tot in column 2, mu in column 3
	mix, err := readColumns(l.Fs, mixPath, 1, 2, 3)
	if err != nil {
		return nil, err
	}
	// altitude [cm] in column 3
	tp, err := readColumns(l.Fs, tpPath, 2, 3)
	if err != nil {
		return nil, err
	}

	n := len(static[0])
	if len(mix[0]) != n || len(tp[0]) != n {
		return nil, fmt.Errorf("%w: %s: layer counts differ (static %d, vertical mix %d, tp %d)",
			ErrMalformedData, caseName, n, len(mix[0]), len(tp[0]))
	}

	name, planet := planets.Resolve(caseName)
	prof, err := NewProfile(tp[0], static[1], static[0], mix[0], mix[1], planet.Radius)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caseName, err)
	}

	logger.Debugf("%s: loaded %d layers from %s", caseName, n, staticPath)
	return &Case{
		Name:       caseName,
		Dir:        dir,
		PlanetName: name,
		Planet:     planet,
		Iteration:  iter,
		Profile:    prof,
	}, nil
}

// readColumns reads whitespace separated numeric columns after skipping the
// first skip rows. Blank lines and lines starting with '#' are ignored.
func readColumns(afs afero.Fs, path string, skip int, cols ...int) ([][]float64, error) {
	f, err := afs.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingDataFile, path)
		}
		return nil, err
	}
	defer f.Close()

	out := make([][]float64, len(cols))
	width := -1
	row := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		row++
		if row <= skip {
			continue
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if width < 0 {
			width = len(fields)
		} else if len(fields) != width {
			return nil, fmt.Errorf("%w: %s:%d: %d columns, expected %d", ErrMalformedData, path, row, len(fields), width)
		}
		for k, c := range cols {
			if c >= len(fields) {
				return nil, fmt.Errorf("%w: %s:%d: no column %d", ErrMalformedData, path, row, c)
			}
			v, err := strconv.ParseFloat(fields[c], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s:%d: %v", ErrMalformedData, path, row, err)
			}
			out[k] = append(out[k], v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if width < 0 {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedData, path, errNoRows)
	}
	return out, nil
}
