package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOutput(t *testing.T) {
	output := `
goos: linux
goarch: amd64
pkg: github.com/bdbaddog/scons-time/internal/kind
BenchmarkTypeSwitchIsString/String-16    	100000000	        10.5 ns/op	       0 B/op	       0 allocs/op
BenchmarkKindMapIsDict/UserDict-16       	 5000000	       250.0 ns/op	      10.0 MB/s	      64 B/op	       2 allocs/op
PASS
ok  	github.com/bdbaddog/scons-time/internal/kind	1.500s
`
	results := ParseOutput(output)
	assert.Len(t, results, 2)

	assert.Equal(t, "BenchmarkTypeSwitchIsString/String", results[0].Name)
	assert.Equal(t, int64(100000000), results[0].Iterations)
	assert.Equal(t, 10.5, results[0].NsPerOp)
	assert.Equal(t, int64(0), results[0].BytesPerOp)

	assert.Equal(t, "BenchmarkKindMapIsDict/UserDict", results[1].Name)
	assert.Equal(t, 10.0, results[1].MBPerSec)
	assert.Equal(t, int64(64), results[1].BytesPerOp)
	assert.Equal(t, int64(2), results[1].AllocsPerOp)
}

func TestParseOutput_Minimal(t *testing.T) {
	results := ParseOutput("BenchmarkAssertIsList   100   200 ns/op\n")
	assert.Len(t, results, 1)
	assert.Equal(t, "BenchmarkAssertIsList", results[0].Name)
	assert.Equal(t, int64(100), results[0].Iterations)
	assert.Equal(t, 200.0, results[0].NsPerOp)
}

func TestParseOutput_NoBenchmarks(t *testing.T) {
	assert.Empty(t, ParseOutput("PASS\nok pkg 0.1s\n"))
}
