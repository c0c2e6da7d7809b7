package output

import (
	"fmt"
	"math"
	"strings"

	"github.com/quakeplan/quakeplan/pkg/application/dto"
	"github.com/quakeplan/quakeplan/pkg/application/services/metrics"
)

// RecoveryCurveChart renders the recovery trajectory of every scenario on a
// shared axis: x is days since the event, y is the fraction of the portfolio
// recovered. Each scenario draws as one step curve.
type RecoveryCurveChart struct {
	Width        int
	Height       int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	EndTime      float64
}

// Curve colors, cycled across scenarios
var curveColors = []string{"#FF9800", "#2196F3", "#4CAF50", "#9C27B0", "#F44336"}

// NewRecoveryCurveChart sizes a chart covering every scenario's recoveries
func NewRecoveryCurveChart(results []dto.ScenarioResult) *RecoveryCurveChart {
	endTime := 0.0
	for _, result := range results {
		for _, alloc := range result.Allocations {
			if alloc.RecoveryTime > endTime {
				endTime = alloc.RecoveryTime
			}
		}
	}
	endTime *= 1.1

	return &RecoveryCurveChart{
		Width:        1000,
		Height:       600,
		MarginLeft:   80,
		MarginTop:    60,
		MarginRight:  60,
		MarginBottom: 70,
		EndTime:      endTime,
	}
}

// GenerateSVG creates an SVG with one recovery curve per scenario. The
// metrics rows supply the curve areas shown in the legend.
func (rc *RecoveryCurveChart) GenerateSVG(results []dto.ScenarioResult, recoveryMetrics []dto.RecoveryMetrics) string {
	if rc.EndTime <= 0 {
		return rc.generateEmptyChart()
	}

	areas := make(map[string]float64, len(recoveryMetrics))
	for _, row := range recoveryMetrics {
		areas[row.Scenario.Name] = row.CurveArea
	}

	var svg strings.Builder

	// SVG header
	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, rc.Width, rc.Height))
	svg.WriteString(`<defs>`)
	svg.WriteString(`<style>`)
	svg.WriteString(`.axis-label { font-family: Arial, sans-serif; font-size: 12px; fill: #333; }`)
	svg.WriteString(`.tick-label { font-family: Arial, sans-serif; font-size: 10px; fill: #666; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 16px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.grid-line { stroke: #e0e0e0; stroke-width: 1; }`)
	svg.WriteString(`.axis-line { stroke: #333; stroke-width: 1; }`)
	svg.WriteString(`.curve { fill: none; stroke-width: 2; }`)
	svg.WriteString(`</style>`)
	svg.WriteString(`</defs>`)

	// Background
	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, rc.Width, rc.Height))

	// Title
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="30" class="title" text-anchor="middle">Portfolio Recovery by Scenario</text>`, rc.Width/2))

	rc.drawGrid(&svg)
	rc.drawAxes(&svg)

	// One step curve per scenario
	for i, result := range results {
		if len(result.Allocations) == 0 {
			continue
		}
		rc.drawCurve(&svg, result, curveColors[i%len(curveColors)])
	}

	rc.drawLegend(&svg, results, areas)

	svg.WriteString(`</svg>`)
	return svg.String()
}

// timeToX converts a simulation day to an x coordinate
func (rc *RecoveryCurveChart) timeToX(t float64) int {
	chartWidth := rc.Width - rc.MarginLeft - rc.MarginRight
	return rc.MarginLeft + int(t/rc.EndTime*float64(chartWidth))
}

// fractionToY converts a recovered fraction to a y coordinate
func (rc *RecoveryCurveChart) fractionToY(fraction float64) int {
	chartHeight := rc.Height - rc.MarginTop - rc.MarginBottom
	return rc.Height - rc.MarginBottom - int(fraction*float64(chartHeight))
}

// tickInterval picks a 1/2/5-stepped tick spacing that yields around ten labels
func (rc *RecoveryCurveChart) tickInterval() float64 {
	raw := rc.EndTime / 10
	magnitude := math.Pow(10, math.Floor(math.Log10(raw)))
	normalized := raw / magnitude

	switch {
	case normalized < 1.5:
		return magnitude
	case normalized < 3.5:
		return 2 * magnitude
	case normalized < 7.5:
		return 5 * magnitude
	default:
		return 10 * magnitude
	}
}

// drawGrid draws horizontal lines at each recovered-fraction tick and
// vertical lines at each day tick
func (rc *RecoveryCurveChart) drawGrid(svg *strings.Builder) {
	for _, fraction := range []float64{0.25, 0.5, 0.75, 1.0} {
		y := rc.fractionToY(fraction)
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			rc.MarginLeft, y, rc.Width-rc.MarginRight, y))
	}

	interval := rc.tickInterval()
	for t := interval; t <= rc.EndTime; t += interval {
		x := rc.timeToX(t)
		if x <= rc.Width-rc.MarginRight {
			svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
				x, rc.MarginTop, x, rc.Height-rc.MarginBottom))
		}
	}
}

// drawAxes draws the axis lines, tick labels and captions
func (rc *RecoveryCurveChart) drawAxes(svg *strings.Builder) {
	bottom := rc.Height - rc.MarginBottom

	// Axis lines
	svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="axis-line"/>`,
		rc.MarginLeft, rc.MarginTop, rc.MarginLeft, bottom))
	svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="axis-line"/>`,
		rc.MarginLeft, bottom, rc.Width-rc.MarginRight, bottom))

	// Y ticks as percentages
	for _, fraction := range []float64{0, 0.25, 0.5, 0.75, 1.0} {
		y := rc.fractionToY(fraction)
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="tick-label" text-anchor="end">%.0f%%</text>`,
			rc.MarginLeft-8, y+3, fraction*100))
	}

	// X ticks in days
	interval := rc.tickInterval()
	for t := 0.0; t <= rc.EndTime; t += interval {
		x := rc.timeToX(t)
		if x <= rc.Width-rc.MarginRight {
			svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="tick-label" text-anchor="middle">%g</text>`,
				x, bottom+15, t))
		}
	}

	// Captions
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="axis-label" text-anchor="middle">days since event</text>`,
		rc.MarginLeft+(rc.Width-rc.MarginLeft-rc.MarginRight)/2, bottom+40))
	svg.WriteString(fmt.Sprintf(`<text x="20" y="%d" class="axis-label" transform="rotate(-90 20 %d)" text-anchor="middle">portfolio recovered</text>`,
		rc.MarginTop+(rc.Height-rc.MarginTop-rc.MarginBottom)/2, rc.MarginTop+(rc.Height-rc.MarginTop-rc.MarginBottom)/2))
}

// drawCurve draws one scenario's step curve, extended at full recovery to the
// right edge of the chart
func (rc *RecoveryCurveChart) drawCurve(svg *strings.Builder, result dto.ScenarioResult, color string) {
	recoveries := make([]float64, 0, len(result.Allocations))
	for _, alloc := range result.Allocations {
		recoveries = append(recoveries, alloc.RecoveryTime)
	}

	xs, ys := metrics.RecoveryCurve(recoveries)

	var points strings.Builder
	points.WriteString(fmt.Sprintf("%d,%d", rc.timeToX(0), rc.fractionToY(0)))
	for i := range xs {
		points.WriteString(fmt.Sprintf(" %d,%d", rc.timeToX(xs[i]), rc.fractionToY(ys[i])))
	}
	points.WriteString(fmt.Sprintf(" %d,%d", rc.Width-rc.MarginRight, rc.fractionToY(1)))

	svg.WriteString(fmt.Sprintf(`<polyline points="%s" class="curve" stroke="%s"/>`, points.String(), color))
}

// drawLegend draws a lower-right legend with each scenario's curve area
func (rc *RecoveryCurveChart) drawLegend(svg *strings.Builder, results []dto.ScenarioResult, areas map[string]float64) {
	legendWidth := 280
	legendHeight := 22 + len(results)*16
	legendX := rc.Width - rc.MarginRight - legendWidth - 10
	legendY := rc.Height - rc.MarginBottom - legendHeight - 10

	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="white" stroke="#ccc" stroke-width="1"/>`,
		legendX, legendY, legendWidth, legendHeight))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="axis-label" font-weight="bold">Scenarios</text>`,
		legendX+10, legendY+15))

	for i, result := range results {
		itemY := legendY + 28 + i*16
		color := curveColors[i%len(curveColors)]

		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`,
			legendX+10, itemY-3, legendX+34, itemY-3, color))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="tick-label">%s (factor %.2f, curve area %.0f)</text>`,
			legendX+42, itemY, result.Scenario.Name, result.Scenario.MobilisationFactor, areas[result.Scenario.Name]))
	}
}

// generateEmptyChart creates an empty chart when no scenario produced results
func (rc *RecoveryCurveChart) generateEmptyChart() string {
	return `<svg width="1000" height="600" xmlns="http://www.w3.org/2000/svg">
		<rect width="1000" height="600" fill="white"/>
		<text x="500" y="300" text-anchor="middle" style="font-family: Arial, sans-serif; font-size: 16px; fill: #666;">No Scenario Results</text>
	</svg>`
}
