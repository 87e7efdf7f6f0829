package escape

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	badSuffix = "_bad"

	divergeRatio = 1.1 // growth of the RMS change that counts as diverging
	divergeFloor = 1.0 // [K]
)

// Temperature convergence of the solver iterations of one case
type ConvergenceReport struct {
	Name  string
	Iters []int     //iteration indices read
	Diff  []float64 //RMS temperature change between iteration k and k+1 [K]
	Bad   []int     //iteration indices flagged as diverging, newest first

	// index of a trailing iteration file written without data rows, -1 if none.
	// The solver stopped inside that iteration.
	Incomplete int
}

func (r *ConvergenceReport) Converged() bool {
	return len(r.Bad) == 0 && r.Incomplete < 0
}

func badPath(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("%s%d%s.dat", StaticConcPrefix, i, badSuffix))
}

// """Reads every Static_Conc iteration of a case and flags trailing
// iterations whose temperature change keeps growing.
// Iterations marked bad by an earlier run are restored first.
// Args:
//
//	root: directory holding the case folders
//	caseName: case folder name
//
// Returns:
//
//	*ConvergenceReport
//
// """
func (l *Loader) CheckConvergence(root string, caseName string) (*ConvergenceReport, error) {
	dir := filepath.Join(root, caseName)
	rep := &ConvergenceReport{Name: caseName, Incomplete: -1}

	var temps [][]float64
	for j := 0; ; j++ {
		path := IndexedPath(dir, StaticConcPrefix, j)
		bad := badPath(dir, j)
		if ok, err := afero.Exists(l.Fs, bad); err != nil {
			return nil, err
		} else if ok {
			if err := l.Fs.Rename(bad, path); err != nil {
				return nil, err
			}
			logger.Debugf("%s: restored iteration %d", caseName, j)
		}
		ok, err := afero.Exists(l.Fs, path)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		cols, err := readColumns(l.Fs, path, 3, 0)
		if errors.Is(err, errNoRows) {
			logger.Warnf("Solver did not converge for %s: iteration %d has no data", caseName, j)
			rep.Incomplete = j
			break
		}
		if err != nil {
			return nil, err
		}
		if len(temps) > 0 && len(cols[0]) != len(temps[0]) {
			return nil, fmt.Errorf("%w: %s has %d layers, iteration 0 has %d", ErrMalformedData, path, len(cols[0]), len(temps[0]))
		}
		temps = append(temps, cols[0])
		rep.Iters = append(rep.Iters, j)
	}
	if len(temps) == 0 && rep.Incomplete < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingDataFile, IndexedPath(dir, StaticConcPrefix, 0))
	}

	rep.Diff = RMSDiffs(temps)
	for _, m := range DivergingIterations(rep.Diff) {
		rep.Bad = append(rep.Bad, rep.Iters[m])
	}
	if len(rep.Bad) > 0 {
		logger.Warnf("Bad last iterations for %s at %v, differences %v", caseName, rep.Bad, rep.Diff)
	}
	return rep, nil
}

// RMSDiffs returns the RMS difference between consecutive profiles.
func RMSDiffs(profiles [][]float64) []float64 {
	if len(profiles) < 2 {
		return nil
	}
	diff := make([]float64, len(profiles)-1)
	for k := range diff {
		a, b := profiles[k], profiles[k+1]
		var s float64
		for i := range a {
			d := b[i] - a[i]
			s += d * d
		}
		diff[k] = math.Sqrt(s / float64(len(a)))
	}
	return diff
}

// DivergingIterations scans diff from the end and returns the positions m
// with diff[m] > 1.1 diff[m-1] and diff[m] > 1 K, stopping at the first
// position that does not satisfy both.
func DivergingIterations(diff []float64) []int {
	var bad []int
	for m := len(diff) - 1; m > 0; m-- {
		if !(diff[m] > divergeRatio*diff[m-1] && diff[m] > divergeFloor) {
			break
		}
		bad = append(bad, m)
	}
	return bad
}

// MarkBad renames the flagged iterations and an incomplete trailing
// iteration to Static_Conc_<i>_bad.dat so that the latest iteration search
// stops before them.
func (l *Loader) MarkBad(root string, rep *ConvergenceReport) error {
	dir := filepath.Join(root, rep.Name)
	marked := rep.Bad
	if rep.Incomplete >= 0 {
		marked = append([]int{rep.Incomplete}, marked...)
	}
	for _, i := range marked {
		if err := l.Fs.Rename(IndexedPath(dir, StaticConcPrefix, i), badPath(dir, i)); err != nil {
			return err
		}
		logger.Infof("%s: marked iteration %d as bad", rep.Name, i)
	}
	return nil
}

// CheckAll runs the convergence check over every case folder under root.
// Cases that cannot be read are logged and left out.
func (l *Loader) CheckAll(root string, mark bool) ([]*ConvergenceReport, error) {
	dirs, err := CaseDirs(l.Fs, root)
	if err != nil {
		return nil, err
	}
	var reps []*ConvergenceReport
	for _, name := range dirs {
		rep, err := l.CheckConvergence(root, name)
		if err != nil {
			logger.Warnf("Could not check folder %s: %v", name, err)
			continue
		}
		if mark && !rep.Converged() {
			if err := l.MarkBad(root, rep); err != nil {
				return reps, err
			}
		}
		reps = append(reps, rep)
	}
	return reps, nil
}

// FormatReport returns a one line description of a report.
func FormatReport(rep *ConvergenceReport) string {
	if rep.Converged() {
		return fmt.Sprintf("%s: converged after %d iterations", rep.Name, len(rep.Iters))
	}
	var parts []string
	if rep.Incomplete >= 0 {
		parts = append(parts, fmt.Sprintf("iteration %d has no data", rep.Incomplete))
	}
	if len(rep.Bad) > 0 {
		s := make([]string, len(rep.Bad))
		for i, b := range rep.Bad {
			s[i] = fmt.Sprint(b)
		}
		parts = append(parts, "bad last iterations "+strings.Join(s, ","))
	}
	return fmt.Sprintf("%s: %s", rep.Name, strings.Join(parts, ", "))
}
