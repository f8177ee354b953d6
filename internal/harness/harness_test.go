package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const debugOutput = `scons: Reading SConscript files ...
Memory before reading SConscript files:  29360128
scons: done reading SConscript files.
scons: Building targets ...
Memory before building targets:  30408704
scons: done building targets.
Memory after building targets:  31457280
Total build time: 1.500000 seconds
Total SConscript file execution time: 0.250000 seconds
Total SCons execution time: 1.250000 seconds
Total command execution time: 0.750000 seconds
`

const nullOutput = `scons: Reading SConscript files ...
Memory before reading SConscript files:  29360128
scons: done reading SConscript files.
scons: Building targets ...
Memory before building targets:  30408704
scons: ` + "`.'" + ` is up to date.
scons: done building targets.
Memory after building targets:  31457280
Total build time: 0.200000 seconds
Total SConscript file execution time: 0.150000 seconds
Total SCons execution time: 0.200000 seconds
Total command execution time: 0.000000 seconds
`

// writeTool writes an executable stub build tool that prints output and
// exits with status.
func writeTool(t *testing.T, output string, status int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scons")
	script := fmt.Sprintf("#!/bin/sh\ncat <<'EOF'\n%sEOF\nexit %d\n", output, status)
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func TestCoerceVariables(t *testing.T) {
	vars, numeric := CoerceVariables([]Variable{
		{Name: "TARGET_COUNT", Value: "50"},
		{Name: "SCALE", Value: "1.5"},
		{Name: "FLAVOR", Value: "release"},
	})

	require.Len(t, vars, 3)
	assert.Equal(t, int64(50), vars[0].Value)
	assert.Equal(t, 1.5, vars[1].Value)
	assert.Equal(t, "release", vars[2].Value)
	assert.Equal(t, []string{"TARGET_COUNT", "SCALE"}, numeric)
}

func TestCoerceVariables_EnvOverride(t *testing.T) {
	t.Setenv("TARGET_COUNT", "200")
	vars, numeric := CoerceVariables([]Variable{{Name: "TARGET_COUNT", Value: "50"}})
	assert.Equal(t, int64(200), vars[0].Value)
	assert.Equal(t, []string{"TARGET_COUNT"}, numeric)
}

func TestHarness_Full(t *testing.T) {
	var buf bytes.Buffer
	h := New(Config{Tool: writeTool(t, debugOutput, 0), Arguments: []string{"."}}, &buf)

	require.NoError(t, h.Full(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "TRACE: graph=TimeSCons-elapsed name=full value=")
	assert.Contains(t, out, "sort=0")
	assert.Contains(t, out, "TRACE: graph=time-total name=full value=1.5 units=seconds")
	assert.Contains(t, out, "TRACE: graph=time-commands name=full value=0.75 units=seconds")
	assert.Contains(t, out, "TRACE: graph=full-memory name=initial value=28672 units=kbytes")
	assert.Contains(t, out, "TRACE: graph=full-memory name=prebuild value=29696 units=kbytes")
	assert.Contains(t, out, "TRACE: graph=full-memory name=final value=30720 units=kbytes")
	// Tool output is echoed ahead of the traces.
	assert.Contains(t, out, "done building targets")
	assert.Positive(t, h.ElapsedTime())
}

func TestHarness_Full_ToolFailure(t *testing.T) {
	var buf bytes.Buffer
	h := New(Config{Tool: writeTool(t, "boom\n", 1)}, &buf)
	assert.Error(t, h.Full(context.Background()))
}

func TestHarness_Startup_ToleratesFailure(t *testing.T) {
	var buf bytes.Buffer
	h := New(Config{Tool: writeTool(t, debugOutput, 1)}, &buf)

	require.NoError(t, h.Startup(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "TRACE: graph=TimeSCons-elapsed name=startup value=")
	assert.Contains(t, out, "TRACE: graph=time-total name=startup value=1.5 units=seconds")
	// No commands run under --help; the stat is dropped.
	assert.NotContains(t, out, "graph=time-commands")
}

func TestHarness_Null_DropsZeroCommandTime(t *testing.T) {
	var buf bytes.Buffer
	h := New(Config{Tool: writeTool(t, nullOutput, 0)}, &buf)

	require.NoError(t, h.Null(context.Background()))

	out := buf.String()
	assert.NotContains(t, out, "graph=time-commands")
	assert.Contains(t, out, "TRACE: graph=null-memory name=final value=30720 units=kbytes")
}

func TestHarness_Null_TracesNonZeroCommandTime(t *testing.T) {
	// A "null" build that executed commands should show up in graphs.
	var buf bytes.Buffer
	h := New(Config{Tool: writeTool(t, debugOutput, 0)}, &buf)

	require.NoError(t, h.Null(context.Background()))
	assert.Contains(t, buf.String(), "TRACE: graph=time-commands name=null value=0.75 units=seconds")
}

func TestHarness_Calibration(t *testing.T) {
	var buf bytes.Buffer
	h := New(Config{
		Tool: writeTool(t, debugOutput, 0),
		Variables: []Variable{
			{Name: "TARGET_COUNT", Value: "50"},
			{Name: "FLAVOR", Value: "release"},
		},
	}, &buf)

	require.NoError(t, h.Calibration(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "VARIABLE: TARGET_COUNT=50\n")
	// String variables do not calibrate by default.
	assert.NotContains(t, out, "FLAVOR")
	assert.Contains(t, out, "ELAPSED: ")
	assert.NotContains(t, out, "TRACE:")
}

func TestHarness_Main(t *testing.T) {
	var buf bytes.Buffer
	h := New(Config{Tool: writeTool(t, nullOutput, 0), Arguments: []string{"."}}, &buf)

	require.NoError(t, h.Main(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "name=startup")
	assert.Contains(t, out, "name=full")
	assert.Contains(t, out, "name=null")
}

func TestHarness_Main_CalibrateEnv(t *testing.T) {
	t.Setenv("TIMESCONS_CALIBRATE", "1")

	var buf bytes.Buffer
	h := New(Config{
		Tool:      writeTool(t, debugOutput, 0),
		Variables: []Variable{{Name: "TARGET_COUNT", Value: "50"}},
	}, &buf)

	require.NoError(t, h.Main(context.Background()))
	assert.Contains(t, buf.String(), "VARIABLE: TARGET_COUNT=50")
	assert.NotContains(t, buf.String(), "TRACE:")
}

func TestHarness_VariableOptions(t *testing.T) {
	// The stub echoes its arguments so we can see the synthesized
	// NAME=value options.
	path := filepath.Join(t.TempDir(), "scons")
	script := "#!/bin/sh\necho \"$@\"\n" + "cat <<'EOF'\n" + nullOutput + "EOF\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))

	var buf bytes.Buffer
	h := New(Config{
		Tool:      path,
		Options:   []string{"-j", "1"},
		Variables: []Variable{{Name: "TARGET_COUNT", Value: "50"}},
		Arguments: []string{"."},
	}, &buf)

	require.NoError(t, h.Full(context.Background()))
	assert.Contains(t, buf.String(), "-j 1 TARGET_COUNT=50 --debug=memory,time .")
}
