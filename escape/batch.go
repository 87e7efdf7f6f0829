package escape

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type SummaryEntry struct {
	Name      string
	Lambda    float64 //Jeans escape parameter
	Timescale float64 //escape time of the whole atmosphere [yr]
}

// Extremes and mean of one summary column
type Stats struct {
	Min, Max         float64
	MinName, MaxName string
	Mean             float64
}

func newStats(names []string, x []float64) Stats {
	iMin, iMax := floats.MinIdx(x), floats.MaxIdx(x)
	return Stats{
		Min:     x[iMin],
		Max:     x[iMax],
		MinName: names[iMin],
		MaxName: names[iMax],
		Mean:    stat.Mean(x, nil),
	}
}

// Summary of a batch run, entries in processing order
type Summary struct {
	Entries []SummaryEntry
	Skipped []string
	Failed  []string
}

func (s *Summary) Add(name string, res *Result) {
	s.Entries = append(s.Entries, SummaryEntry{Name: name, Lambda: res.Lambda, Timescale: res.AtmosphereEscape})
}

// LambdaStats returns min/max/mean of lambda_c. ok is false for an empty summary.
func (s *Summary) LambdaStats() (Stats, bool) {
	return s.stats(func(e SummaryEntry) float64 { return e.Lambda })
}

// TimescaleStats returns min/max/mean of the atmosphere escape time.
func (s *Summary) TimescaleStats() (Stats, bool) {
	return s.stats(func(e SummaryEntry) float64 { return e.Timescale })
}

func (s *Summary) stats(get func(SummaryEntry) float64) (Stats, bool) {
	if len(s.Entries) == 0 {
		return Stats{}, false
	}
	names := make([]string, len(s.Entries))
	x := make([]float64, len(s.Entries))
	for i, e := range s.Entries {
		names[i] = e.Name
		x[i] = get(e)
	}
	return newStats(names, x), true
}

// CaseDirs lists the sub directories of root in directory order.
func CaseDirs(fs afero.Fs, root string) ([]string, error) {
	infos, err := afero.ReadDir(fs, root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, fi := range infos {
		if fi.IsDir() {
			dirs = append(dirs, fi.Name())
		}
	}
	return dirs, nil
}

// """Calculates the escape parameters of every case folder under root.
// Cases without usable data are skipped with a warning, other failures are
// logged as errors. Neither stops the batch.
// Args:
//
//	root: directory holding the case folders
//
// Returns:
//
//	*Summary: results of the processed cases
//
// """
func (e *Escape) RunBatch(root string) (*Summary, error) {
	dirs, err := CaseDirs(e.Fs, root)
	if err != nil {
		return nil, err
	}

	s := &Summary{}
	for _, name := range dirs {
		logger.Infof("Processing folder: %s", name)
		res, err := e.Calculate(root, name)
		if err != nil {
			if IsSkippable(err) {
				logger.Warnf("Could not process folder %s: %v", name, err)
				s.Skipped = append(s.Skipped, name)
			} else {
				logger.Errorf("Error processing folder %s: %v", name, err)
				s.Failed = append(s.Failed, name)
			}
			continue
		}
		s.Add(name, res)
		logger.Infof("Escape parameters saved to %s", filepath.Join(name, EscapeFile))
	}

	if len(s.Entries) == 0 {
		logger.Warnf("No folders with simulation data found in %s", root)
		return s, nil
	}
	s.log()

	var buf bytes.Buffer
	s.ToSummary(&buf)
	if err := afero.WriteFile(e.Fs, filepath.Join(root, SummaryFile), buf.Bytes(), os.ModePerm); err != nil {
		return s, fmt.Errorf("writing summary: %w", err)
	}
	return s, nil
}

func (s *Summary) log() {
	if st, ok := s.LambdaStats(); ok {
		logger.Infof("Summary of Jeans Escape Parameters:")
		logger.Infof("Min: %s - %.2e", st.MinName, st.Min)
		logger.Infof("Max: %s - %.2e", st.MaxName, st.Max)
		logger.Infof("Mean: %.2e", st.Mean)
	}
	if st, ok := s.TimescaleStats(); ok {
		logger.Infof("Summary of Escape Timescales:")
		logger.Infof("Min: %s - %.2e years", st.MinName, st.Min)
		logger.Infof("Max: %s - %.2e years", st.MaxName, st.Max)
		logger.Infof("Mean: %.2e years", st.Mean)
	}
}
