// Package trace emits and parses the TRACE line format consumed by the
// downstream graphing tooling:
//
//	TRACE: graph=<g> name=<n> value=<v> units=<u>[ sort=<s>]
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Record is one parsed trace line. Value is kept as the raw emitted
// token; Float converts it on demand. Sort is -1 when absent.
type Record struct {
	Graph string
	Name  string
	Value string
	Units string
	Sort  int
}

// Float returns the record value as a float64.
func (r Record) Float() (float64, error) {
	return strconv.ParseFloat(r.Value, 64)
}

// Writer emits trace lines to an underlying writer, one line per
// measurement, each line written in a single Write call.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Emit writes one trace line without a sort key.
func (tw *Writer) Emit(graph, name string, value any, units string) error {
	_, err := fmt.Fprintf(tw.w, "TRACE: graph=%s name=%s value=%s units=%s\n",
		graph, name, FormatValue(value), units)
	return err
}

// EmitSorted writes one trace line with a sort key.
func (tw *Writer) EmitSorted(graph, name string, value any, units string, sort int) error {
	_, err := fmt.Fprintf(tw.w, "TRACE: graph=%s name=%s value=%s units=%s sort=%d\n",
		graph, name, FormatValue(value), units, sort)
	return err
}

// FormatValue renders a trace value. Integral floats render without a
// decimal point; strings pass through verbatim (load averages are
// reported exactly as /proc/loadavg spells them).
func FormatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// loadavgPath is a seam for tests.
var loadavgPath = "/proc/loadavg"

// Uptime reports the 1, 5 and 15 minute system load averages as
// load-average traces. A missing or malformed loadavg file is silently
// ignored; load reporting is advisory.
func (tw *Writer) Uptime() {
	data, err := os.ReadFile(loadavgPath)
	if err != nil {
		return
	}
	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return
	}
	for i, name := range []string{"average1", "average5", "average15"} {
		_ = tw.Emit("load-average", name, fields[i], "processes")
	}
}

// Parse reads trace lines from r, skipping any non-TRACE lines mixed
// into the stream (tool output is echoed around them).
func Parse(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		rest, ok := strings.CutPrefix(line, "TRACE: ")
		if !ok {
			continue
		}
		rec := Record{Sort: -1}
		valid := true
		for _, field := range strings.Fields(rest) {
			key, val, found := strings.Cut(field, "=")
			if !found {
				valid = false
				break
			}
			switch key {
			case "graph":
				rec.Graph = val
			case "name":
				rec.Name = val
			case "value":
				rec.Value = val
			case "units":
				rec.Units = val
			case "sort":
				n, err := strconv.Atoi(val)
				if err != nil {
					valid = false
					break
				}
				rec.Sort = n
			}
		}
		if !valid || rec.Graph == "" || rec.Name == "" {
			return nil, fmt.Errorf("malformed trace line: %q", line)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
