package escape

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RMSDiffs(t *testing.T) {
	diff := RMSDiffs([][]float64{
		{100, 100},
		{103, 104},
		{103, 104},
	})
	require.Len(t, diff, 2)
	assert.InDelta(t, 3.5355, diff[0], 1e-4)
	assert.Equal(t, 0.0, diff[1])

	assert.Nil(t, RMSDiffs([][]float64{{1}}))
}

func Test_DivergingIterations(t *testing.T) {
	assert.Equal(t, []int{4, 3}, DivergingIterations([]float64{50, 10, 5, 8, 20}))

	// converging
	assert.Nil(t, DivergingIterations([]float64{50, 10, 5, 2}))

	// growing but below 1 K
	assert.Nil(t, DivergingIterations([]float64{0.1, 0.2, 0.5}))

	assert.Nil(t, DivergingIterations(nil))
}

func writeIterations(t *testing.T, fs afero.Fs, dir string, temps [][]float64) {
	for j, T := range temps {
		var buf bytes.Buffer
		buf.WriteString("a\nb\nc\n")
		for i, v := range T {
			fmt.Fprintf(&buf, "%g 1e10 %g 0\n", v, 1e6/float64(i+1))
		}
		require.NoError(t, afero.WriteFile(fs, IndexedPath(dir, StaticConcPrefix, j), buf.Bytes(), 0o644))
	}
}

func Test_CheckConvergence(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := filepath.Join("/runs", "Earth_a")
	writeIterations(t, fs, dir, [][]float64{
		{100, 100, 100},
		{110, 110, 110},
		{112, 112, 112},
		{115, 115, 115},
	})
	l := NewLoader(fs)

	rep, err := l.CheckConvergence("/runs", "Earth_a")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, rep.Iters)
	assert.InDeltaSlice(t, []float64{10, 2, 3}, rep.Diff, 1e-9)
	assert.Equal(t, []int{2}, rep.Bad)
	assert.False(t, rep.Converged())

	require.NoError(t, l.MarkBad("/runs", rep))
	_, i, err := l.Finder.Latest(dir, StaticConcPrefix)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	ok, _ := afero.Exists(fs, filepath.Join(dir, "Static_Conc_2_bad.dat"))
	assert.True(t, ok)

	// a new check restores the marked iteration
	rep, err = l.CheckConvergence("/runs", "Earth_a")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, rep.Iters)
	_, i, err = l.Finder.Latest(dir, StaticConcPrefix)
	require.NoError(t, err)
	assert.Equal(t, 3, i)
}

func Test_CheckAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeIterations(t, fs, "/runs/Earth_a", [][]float64{{100}, {110}, {112}, {115}})
	writeIterations(t, fs, "/runs/Earth_b", [][]float64{{100}, {110}, {111}})
	require.NoError(t, fs.MkdirAll("/runs/Earth_empty", 0o755))
	writeIterations(t, fs, "/runs/Earth_ragged", [][]float64{{100, 100}, {110}})

	reps, err := NewLoader(fs).CheckAll("/runs", true)
	require.NoError(t, err)
	require.Len(t, reps, 2)

	assert.Equal(t, "Earth_a", reps[0].Name)
	assert.Equal(t, []int{2}, reps[0].Bad)
	assert.Equal(t, "Earth_a: bad last iterations 2", FormatReport(reps[0]))

	assert.True(t, reps[1].Converged())
	assert.Equal(t, "Earth_b: converged after 3 iterations", FormatReport(reps[1]))

	ok, _ := afero.Exists(fs, "/runs/Earth_a/Static_Conc_2_bad.dat")
	assert.True(t, ok)
}

// The solver died inside iteration 4 and left only the header behind.
func Test_CheckConvergence_Incomplete(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := filepath.Join("/runs", "Earth_a")
	writeIterations(t, fs, dir, [][]float64{
		{100, 100, 100},
		{110, 110, 110},
		{112, 112, 112},
		{115, 115, 115},
	})
	require.NoError(t, afero.WriteFile(fs, IndexedPath(dir, StaticConcPrefix, 4), []byte("a\nb\nc\n"), 0o644))
	l := NewLoader(fs)

	rep, err := l.CheckConvergence("/runs", "Earth_a")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, rep.Iters)
	assert.Equal(t, 4, rep.Incomplete)
	assert.InDeltaSlice(t, []float64{10, 2, 3}, rep.Diff, 1e-9)
	assert.Equal(t, []int{2}, rep.Bad)
	assert.False(t, rep.Converged())
	assert.Equal(t, "Earth_a: iteration 4 has no data, bad last iterations 2", FormatReport(rep))

	reps, err := l.CheckAll("/runs", true)
	require.NoError(t, err)
	require.Len(t, reps, 1)
	assert.Equal(t, 4, reps[0].Incomplete)

	// the empty iteration is set aside with the diverging ones
	for _, name := range []string{"Static_Conc_4_bad.dat", "Static_Conc_2_bad.dat"} {
		ok, _ := afero.Exists(fs, filepath.Join(dir, name))
		assert.True(t, ok, name)
	}
	_, i, err := l.Finder.Latest(dir, StaticConcPrefix)
	require.NoError(t, err)
	assert.Equal(t, 1, i)
}

func Test_CheckConvergence_IncompleteOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeIterations(t, fs, "/runs/Earth_a", [][]float64{{100}, {105}})
	require.NoError(t, afero.WriteFile(fs, "/runs/Earth_a/Static_Conc_2.dat", []byte("a\nb\nc\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/runs/Earth_b/Static_Conc_0.dat", []byte("a\nb\nc\n"), 0o644))

	rep, err := NewLoader(fs).CheckConvergence("/runs", "Earth_a")
	require.NoError(t, err)
	assert.Empty(t, rep.Bad)
	assert.False(t, rep.Converged())
	assert.Equal(t, "Earth_a: iteration 2 has no data", FormatReport(rep))

	rep, err = NewLoader(fs).CheckConvergence("/runs", "Earth_b")
	require.NoError(t, err)
	assert.Empty(t, rep.Iters)
	assert.Equal(t, 0, rep.Incomplete)
}
