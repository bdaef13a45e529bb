package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-ir/opal/internal/opcount"
)

// demoReport is the expected stdout for a default-pipeline run over
// testdata/demo.cue: one report per function in declaration order.
func demoReport() []byte {
	var expected []byte
	expected = append(expected, opcount.FormatReport("foo", opcount.Histogram{"add": 2, "br": 1, "load": 1})...)
	expected = append(expected, opcount.FormatReport("tiny", opcount.Histogram{"ret": 1})...)
	return expected
}

func TestRunDefaultPipeline(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{"testdata/demo.cue"})

	err := cmd.Execute()
	require.NoError(t, err)

	// Reports on stdout, diagnostics on stderr
	assert.Equal(t, string(demoReport()), buf.String())
	assert.Contains(t, errBuf.String(), "run complete")
	assert.NotContains(t, buf.String(), "run complete")
}

func TestRunParallelMatchesSequential(t *testing.T) {
	runWithJobs := func(jobs string) string {
		buf := &bytes.Buffer{}
		rootOpts := &RootOptions{Format: "text"}
		cmd := NewRunCommand(rootOpts)
		cmd.SetOut(buf)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"testdata/demo.cue", "--jobs", jobs})
		require.NoError(t, cmd.Execute())
		return buf.String()
	}

	sequential := runWithJobs("1")
	parallel := runWithJobs("8")

	assert.Equal(t, string(demoReport()), sequential)
	assert.Equal(t, sequential, parallel)
}

func TestRunRepeatedPasses(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"testdata/demo.cue", "--passes", "opcode-counter,opcode-counter"})

	err := cmd.Execute()
	require.NoError(t, err)

	// Each pipeline element reports once per function, grouped by function
	output := buf.String()
	assert.Equal(t, 2, strings.Count(output, "Opcode Counts for Function: foo"))
	assert.Equal(t, 2, strings.Count(output, "Opcode Counts for Function: tiny"))
}

func TestRunUnknownPass(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"testdata/demo.cue", "--passes", "nonexistent"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline resolution failed")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	// An unresolvable pipeline fails before any report is written
	assert.Empty(t, buf.String())
}

func TestRunNegativeJobs(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"testdata/demo.cue", "--jobs", "-1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jobs value")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunInvalidModule(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"testdata/invalid.cue"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "E105")
}

func TestRunNotFound(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"testdata/missing.cue"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E005")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunVerboseLogsFunctions(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Verbose: true}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{"testdata/demo.cue"})

	err := cmd.Execute()
	require.NoError(t, err)

	// Debug level surfaces per-function progress
	stderr := errBuf.String()
	assert.Contains(t, stderr, "function analyzed")
	assert.Contains(t, stderr, "function=foo")
	assert.Contains(t, stderr, "function=tiny")

	// Report bytes are unchanged by verbosity
	assert.Equal(t, string(demoReport()), buf.String())
}
