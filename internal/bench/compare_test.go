package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	prev := Run{Results: []Result{
		{Name: "BenchmarkAssertIsString/String", NsPerOp: 100, BytesPerOp: 50, AllocsPerOp: 2},
		{Name: "BenchmarkAssertIsList/List", NsPerOp: 200},
	}}
	curr := Run{Results: []Result{
		{Name: "BenchmarkAssertIsString/String", NsPerOp: 110, BytesPerOp: 40, AllocsPerOp: 1},
		{Name: "BenchmarkReflectIsDict/Dict", NsPerOp: 300}, // new, not compared
	}}

	comps := Compare(prev, curr)
	require.Len(t, comps, 1)

	c := comps[0]
	assert.Equal(t, "BenchmarkAssertIsString/String", c.Name)
	assert.InDelta(t, 10.0, c.NsPerOpDiff, 0.01)
	assert.InDelta(t, -20.0, c.BytesPerOpDiff, 0.01)
	assert.InDelta(t, -50.0, c.AllocsPerOpDiff, 0.01)
}

func TestComparison_Regressed(t *testing.T) {
	c := Comparison{NsPerOpDiff: 12.5}
	assert.True(t, c.Regressed(10.0))
	assert.False(t, c.Regressed(15.0))

	faster := Comparison{NsPerOpDiff: -30.0}
	assert.False(t, faster.Regressed(10.0))
}

func TestCompare_ZeroBaseline(t *testing.T) {
	// A zero previous value cannot produce a percentage; the diff stays 0.
	prev := Run{Results: []Result{{Name: "B", NsPerOp: 0}}}
	curr := Run{Results: []Result{{Name: "B", NsPerOp: 50}}}

	comps := Compare(prev, curr)
	require.Len(t, comps, 1)
	assert.Zero(t, comps[0].NsPerOpDiff)
}
