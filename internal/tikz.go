package tools

import (
	"fmt"
	"strconv"
	"strings"
)

// Axis describes one chart axis: its label, bounds and tick-mark labels.
type Axis struct {
	Label string
	Min   float64
	Max   float64
	Ticks []string
}

// ChartConfig bundles the static configuration of one pgfplots chart.
// Palette colours are assigned to series by input order.
type ChartConfig struct {
	X       Axis
	Y       Axis
	Palette []string
}

// RenderChart renders one self-contained pgfplots block: the axis
// environment, one coordinate list per series with points numbered from
// 1, and a legend naming the series in input order. Output is fully
// determined by the inputs.
func RenderChart(cfg ChartConfig, results *Results) (string, error) {
	if results.Len() > len(cfg.Palette) {
		return "", fmt.Errorf("%d series but palette has only %d colours", results.Len(), len(cfg.Palette))
	}

	var b strings.Builder
	b.WriteString("\\begin{center}\n\\begin{tikzpicture}\n\\begin{axis}[\n")
	fmt.Fprintf(&b, "xlabel={%s},\n", cfg.X.Label)
	fmt.Fprintf(&b, "ylabel={%s},\n", cfg.Y.Label)
	fmt.Fprintf(&b, "xmin=%s, xmax=%s,\n", formatBound(cfg.X.Min), formatBound(cfg.X.Max))
	fmt.Fprintf(&b, "ymin=%s, ymax=%s,\n", formatBound(cfg.Y.Min), formatBound(cfg.Y.Max))
	fmt.Fprintf(&b, "xtick={%s},\n", strings.Join(cfg.X.Ticks, ","))
	fmt.Fprintf(&b, "ytick={%s},\n", strings.Join(cfg.Y.Ticks, ","))
	b.WriteString("scaled y ticks=false,\n")
	b.WriteString("legend pos=north west,\n")
	b.WriteString("ymajorgrids=true,\n")
	b.WriteString("grid style=dashed,\n")
	b.WriteString("]\n")

	for i, name := range results.Names() {
		fmt.Fprintf(&b, "\\addplot[color=%s, mark=square]\n", cfg.Palette[i])
		b.WriteString("coordinates {\n")
		for j, v := range results.Series(name) {
			fmt.Fprintf(&b, "(%d, %s) ", j+1, formatSample(v))
		}
		b.WriteString("};\n")
	}

	fmt.Fprintf(&b, "\\legend{%s}\n", strings.Join(results.Names(), ","))
	b.WriteString("\\end{axis}\n\\end{tikzpicture}\n\\end{center}\n")

	return b.String(), nil
}

// formatBound renders an axis bound without a forced decimal point, so
// whole-number bounds stay whole numbers.
func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatSample renders a coordinate value, always keeping a decimal
// point so the charts read as continuous data.
func formatSample(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
