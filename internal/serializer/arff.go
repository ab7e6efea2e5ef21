// Package serializer renders feature tables as ARFF text and inverted
// indexes as a fixed-width listing.
package serializer

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/dataset"
)

const (
	ClassAttribute = "class"
	lineSeparator  = "\n"
)

type column struct {
	name   string
	weight int // index into FeatureRow.Weights, -1 for the class column
}

// RenderARFF renders table as
//
//	@Relation <name>
//	@Attribute '<term>' numeric
//	@Attribute class {H,S}
//	@Data
//	<w1>,<w2>,...,<H|S>
//
// Attributes, and the values of each data line, follow the byte order of the
// attribute names: quoted terms first, class last. Lines are joined with \n
// and the text has no trailing newline.
func RenderARFF(table *dataset.FeatureTable) string {
	cols := columns(table.Attributes)
	lines := make([]string, 0, len(cols)+len(table.Rows)+2)
	lines = append(lines, "@Relation "+table.Relation)
	for _, c := range cols {
		lines = append(lines, attributeLine(c.name))
	}
	lines = append(lines, "@Data")
	for _, row := range table.Rows {
		values := make([]string, len(cols))
		for i, c := range cols {
			if c.weight < 0 {
				values[i] = row.Label.String()
				continue
			}
			values[i] = FormatWeight(row.Weights[c.weight])
		}
		lines = append(lines, strings.Join(values, ","))
	}
	return strings.Join(lines, lineSeparator)
}

func columns(attributes []string) []column {
	cols := make([]column, 0, len(attributes)+1)
	for i, term := range attributes {
		cols = append(cols, column{name: quote(term), weight: i})
	}
	cols = append(cols, column{name: ClassAttribute, weight: -1})
	sort.SliceStable(cols, func(i, j int) bool {
		return cols[i].name < cols[j].name
	})
	return cols
}

func attributeLine(name string) string {
	switch name {
	case ClassAttribute:
		return "@Attribute class {H,S}"
	case quote(ClassAttribute):
		// A term spelled "class" would be read as the class attribute.
		return "@Attribute '_class' numeric"
	default:
		return "@Attribute " + name + " numeric"
	}
}

func quote(term string) string {
	return "'" + term + "'"
}

// FormatWeight renders v in the shortest form that round-trips: plain decimal
// with at least one fractional digit for 1e-3 <= |v| < 1e7, otherwise
// scientific notation such as 1.0E-4.
func FormatWeight(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}
	abs := math.Abs(v)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	s := strconv.FormatFloat(v, 'E', -1, 64)
	mantissa, exponent, _ := strings.Cut(s, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	exp, err := strconv.Atoi(exponent)
	if err != nil {
		return s
	}
	return mantissa + "E" + strconv.Itoa(exp)
}
