package opcount

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-ir/opal/internal/ir"
)

func TestFormatReport_WorkedExample(t *testing.T) {
	d := strings.Repeat("-", 45)
	expected := d + "\n" +
		"Opcode Counts for Function: foo\n" +
		"add : 2\n" +
		"br : 1\n" +
		"load : 1\n" +
		d + "\n"

	got := FormatReport("foo", Histogram{"load": 1, "br": 1, "add": 2})

	assert.Equal(t, expected, string(got))
}

func TestFormatReport_EmptyHistogram(t *testing.T) {
	d := strings.Repeat("-", 45)

	got := FormatReport("empty", Histogram{})

	assert.Equal(t, d+"\nOpcode Counts for Function: empty\n"+d+"\n", string(got))
}

func TestFormatReport_DelimiterLines(t *testing.T) {
	got := FormatReport("foo", CountFunction(fooFunction()))

	lines := strings.Split(strings.TrimSuffix(string(got), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 3)

	first, last := lines[0], lines[len(lines)-1]
	assert.Equal(t, strings.Repeat("-", 45), first)
	assert.Equal(t, first, last)
}

func TestFormatReport_CountLinesSorted(t *testing.T) {
	got := FormatReport("mixed", Histogram{
		"store": 2,
		"load":  4,
		"add":   1,
		"br":    3,
	})

	lines := strings.Split(strings.TrimSuffix(string(got), "\n"), "\n")
	counts := lines[2 : len(lines)-1]

	assert.Equal(t, []string{"add : 1", "br : 3", "load : 4", "store : 2"}, counts)
}

func TestFormatReport_MultiDigitCounts(t *testing.T) {
	got := string(FormatReport("hot", Histogram{"nop": 12, "add": 107}))

	assert.Contains(t, got, "nop : 12\n")
	assert.Contains(t, got, "add : 107\n")
}

func TestReport_Golden(t *testing.T) {
	tests := []struct {
		name string
		fn   *ir.Function
	}{
		{"report_foo", fooFunction()},
		{"report_empty", ir.NewFunction("empty", nil)},
		{"report_single_ret", ir.NewFunction("tiny", []*ir.Block{
			ir.NewBlock("entry", []ir.Instruction{ir.NewInstruction("ret")}),
		})},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.Assert(t, tt.name, FormatReport(tt.fn.Name(), CountFunction(tt.fn)))
		})
	}
}

func TestWriteReport_SingleWrite(t *testing.T) {
	w := &writeCounter{}

	err := WriteReport(w, "foo", Histogram{"ret": 1})

	require.NoError(t, err)
	assert.Equal(t, 1, w.calls)
}

// writeCounter counts Write calls to verify report delivery stays whole.
type writeCounter struct {
	calls int
}

func (w *writeCounter) Write(p []byte) (int, error) {
	w.calls++
	return len(p), nil
}
