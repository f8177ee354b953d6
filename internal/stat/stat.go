// Package stat extracts named numeric statistics from the textual
// output a build tool prints under --debug=memory,time. The compiled
// patterns below are the whole contract with that output format; every
// other package consumes Values, never raw tool output.
package stat

import (
	"fmt"
	"regexp"
	"strconv"
)

// Stat describes one extractable statistic: a name, the units it is
// reported in, the pattern locating it in tool output, and an optional
// conversion applied to the captured text. Stats are constructed once
// into List and are read-only afterwards.
type Stat struct {
	Name    string
	Units   string
	Expr    *regexp.Regexp
	Convert func(string) (float64, error)
}

// Value is one extracted measurement.
type Value struct {
	Name  string
	Value float64
	Units string
}

// kbytes converts a byte count to whole kilobytes, truncating like the
// original reporting did.
func kbytes(s string) (float64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return float64(n / 1024), nil
}

func seconds(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// List is the fixed, ordered set of statistics scraped from a timing
// run. Order matters: collected values are reported in this order.
var List = []Stat{
	{
		Name:    "memory-initial",
		Units:   "kbytes",
		Expr:    regexp.MustCompile(`Memory before reading SConscript files:\s+(\d+)`),
		Convert: kbytes,
	},
	{
		Name:    "memory-prebuild",
		Units:   "kbytes",
		Expr:    regexp.MustCompile(`Memory before building targets:\s+(\d+)`),
		Convert: kbytes,
	},
	{
		Name:    "memory-final",
		Units:   "kbytes",
		Expr:    regexp.MustCompile(`Memory after building targets:\s+(\d+)`),
		Convert: kbytes,
	},
	{
		Name:    "time-sconscript",
		Units:   "seconds",
		Expr:    regexp.MustCompile(`Total SConscript file execution time:\s+([\d.]+) seconds`),
		Convert: seconds,
	},
	{
		Name:    "time-scons",
		Units:   "seconds",
		Expr:    regexp.MustCompile(`Total SCons execution time:\s+([\d.]+) seconds`),
		Convert: seconds,
	},
	{
		Name:    "time-commands",
		Units:   "seconds",
		Expr:    regexp.MustCompile(`Total command execution time:\s+([\d.]+) seconds`),
		Convert: seconds,
	},
	{
		Name:    "time-total",
		Units:   "seconds",
		Expr:    regexp.MustCompile(`Total build time:\s+([\d.]+) seconds`),
		Convert: seconds,
	},
}

// Collect scans output for every statistic in List. Stats whose pattern
// does not match are simply absent from the result; a matched group
// that fails conversion is an error.
func Collect(output string) ([]Value, error) {
	var values []Value
	for _, s := range List {
		m := s.Expr.FindStringSubmatch(output)
		if m == nil {
			continue
		}
		v, err := s.Convert(m[1])
		if err != nil {
			return nil, fmt.Errorf("stat %s: cannot convert %q: %w", s.Name, m[1], err)
		}
		values = append(values, Value{Name: s.Name, Value: v, Units: s.Units})
	}
	return values, nil
}

// Find returns the value with the given name and whether it was present.
func Find(values []Value, name string) (Value, bool) {
	for _, v := range values {
		if v.Name == name {
			return v, true
		}
	}
	return Value{}, false
}

// Delete returns values without the named entry. The input slice is
// left untouched.
func Delete(values []Value, name string) []Value {
	out := make([]Value, 0, len(values))
	for _, v := range values {
		if v.Name != name {
			out = append(out, v)
		}
	}
	return out
}
