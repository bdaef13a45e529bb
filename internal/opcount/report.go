package opcount

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Report layout. The delimiter is exactly 45 hyphens on its own line;
// count lines put a single space either side of the colon.
const (
	delimiterWidth = 45
	reportHeader   = "Opcode Counts for Function: "
)

var delimiter = strings.Repeat("-", delimiterWidth)

// FormatReport renders the report for one function: delimiter line,
// header line naming the function, one "opcode : count" line per opcode
// in ascending lexicographic order, closing delimiter line. A function
// with no instructions gets no count lines, just delimiters and header.
func FormatReport(fnName string, hist Histogram) []byte {
	var buf bytes.Buffer
	buf.WriteString(delimiter)
	buf.WriteByte('\n')
	buf.WriteString(reportHeader)
	buf.WriteString(fnName)
	buf.WriteByte('\n')
	for _, op := range hist.Opcodes() {
		fmt.Fprintf(&buf, "%s : %d\n", op, hist[op])
	}
	buf.WriteString(delimiter)
	buf.WriteByte('\n')
	return buf.Bytes()
}

// WriteReport formats the report and hands it to w as one Write call,
// never as line-by-line writes. Hosts that run functions concurrently
// still serialize output themselves (buffer per invocation or a shared
// write lock); the single call just keeps a report from being split
// mid-line by its own writer.
func WriteReport(w io.Writer, fnName string, hist Histogram) error {
	_, err := w.Write(FormatReport(fnName, hist))
	return err
}
