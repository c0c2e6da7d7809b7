package output

import (
	"fmt"
	"math"
	"strings"

	"github.com/quakeplan/quakeplan/pkg/application/dto"
)

// GanttChart renders one scenario's allocation schedule as an SVG timeline,
// one row per building in rank order. Each row shows the waiting period in
// grey followed by the repair period in orange.
type GanttChart struct {
	Width        int
	Height       int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	RowHeight    int
	EndTime      float64 // days covered by the time axis
}

// Bar colors
const (
	waitColor   = "#9E9E9E"
	repairColor = "#FF9800"
)

// NewGanttChart sizes a chart for the scenario's allocations
func NewGanttChart(result *dto.ScenarioResult) *GanttChart {
	if len(result.Allocations) == 0 {
		return &GanttChart{
			Width:        800,
			Height:       200,
			MarginLeft:   150,
			MarginTop:    50,
			MarginRight:  50,
			MarginBottom: 50,
			RowHeight:    25,
		}
	}

	endTime := 0.0
	for _, alloc := range result.Allocations {
		if alloc.RecoveryTime > endTime {
			endTime = alloc.RecoveryTime
		}
	}
	endTime *= 1.1 // 10% padding after the last recovery

	rowHeight := 30
	height := len(result.Allocations)*rowHeight + 140 // Extra space for title, axis and legend

	return &GanttChart{
		Width:        1200,
		Height:       height,
		MarginLeft:   200,
		MarginTop:    60,
		MarginRight:  100,
		MarginBottom: 80,
		RowHeight:    rowHeight,
		EndTime:      endTime,
	}
}

// GenerateSVG creates an SVG representation of the allocation schedule
func (gc *GanttChart) GenerateSVG(result *dto.ScenarioResult) string {
	if len(result.Allocations) == 0 {
		return gc.generateEmptyChart()
	}

	var svg strings.Builder

	// SVG header
	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, gc.Width, gc.Height))
	svg.WriteString(`<defs>`)
	svg.WriteString(`<style>`)
	svg.WriteString(`.building-label { font-family: Arial, sans-serif; font-size: 12px; fill: #333; }`)
	svg.WriteString(`.time-label { font-family: Arial, sans-serif; font-size: 10px; fill: #666; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 16px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.grid-line { stroke: #e0e0e0; stroke-width: 1; }`)
	svg.WriteString(`.schedule-bar { stroke: #333; stroke-width: 1; }`)
	svg.WriteString(`.bar-text { font-family: Arial, sans-serif; font-size: 9px; fill: white; }`)
	svg.WriteString(`</style>`)
	svg.WriteString(`</defs>`)

	// Background
	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, gc.Width, gc.Height))

	// Title
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="30" class="title" text-anchor="middle">Repair Schedule - %s (factor %.2f)</text>`,
		gc.Width/2, result.Scenario.Name, result.Scenario.MobilisationFactor))

	// Draw time grid and axis
	gc.drawTimeGrid(&svg, len(result.Allocations))
	gc.drawTimeAxis(&svg)

	// Draw building rows
	gc.drawBuildingRows(&svg, result.Allocations)

	// Legend
	gc.drawLegend(&svg)

	svg.WriteString(`</svg>`)
	return svg.String()
}

// timeToX converts a simulation day to an x coordinate
func (gc *GanttChart) timeToX(t float64) int {
	chartWidth := gc.Width - gc.MarginLeft - gc.MarginRight
	return gc.MarginLeft + int(t/gc.EndTime*float64(chartWidth))
}

// tickInterval picks a 1/2/5-stepped tick spacing that yields around ten labels
func (gc *GanttChart) tickInterval() float64 {
	raw := gc.EndTime / 10
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

// drawTimeAxis draws the day labels along the bottom
func (gc *GanttChart) drawTimeAxis(svg *strings.Builder) {
	interval := gc.tickInterval()

	for t := 0.0; t <= gc.EndTime; t += interval {
		x := gc.timeToX(t)
		if x >= gc.MarginLeft && x <= gc.Width-gc.MarginRight {
			svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="time-label" text-anchor="middle">%g</text>`,
				x, gc.Height-gc.MarginBottom+15, t))
		}
	}

	// Axis caption and line
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="time-label" text-anchor="middle">days since event</text>`,
		gc.MarginLeft+(gc.Width-gc.MarginLeft-gc.MarginRight)/2, gc.Height-gc.MarginBottom+35))
	svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
		gc.MarginLeft, gc.Height-gc.MarginBottom, gc.Width-gc.MarginRight, gc.Height-gc.MarginBottom))
}

// drawTimeGrid draws vertical grid lines aligned with the axis ticks
func (gc *GanttChart) drawTimeGrid(svg *strings.Builder, numRows int) {
	gridTop := gc.MarginTop
	gridBottom := gc.MarginTop + numRows*gc.adjustedRowHeight(numRows)
	interval := gc.tickInterval()

	for t := 0.0; t <= gc.EndTime; t += interval {
		x := gc.timeToX(t)
		if x >= gc.MarginLeft && x <= gc.Width-gc.MarginRight {
			svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
				x, gridTop, x, gridBottom))
		}
	}
}

// adjustedRowHeight shrinks rows when the portfolio would overflow the axis area
func (gc *GanttChart) adjustedRowHeight(numRows int) int {
	maxRowY := gc.Height - gc.MarginBottom - 30
	availableHeight := maxRowY - gc.MarginTop
	rowHeight := availableHeight / numRows
	if rowHeight > gc.RowHeight {
		rowHeight = gc.RowHeight
	}
	return rowHeight
}

// drawBuildingRows draws one row per allocation, in queue order
func (gc *GanttChart) drawBuildingRows(svg *strings.Builder, allocations []dto.BuildingAllocation) {
	rowHeight := gc.adjustedRowHeight(len(allocations))

	for i, alloc := range allocations {
		y := gc.MarginTop + i*rowHeight

		// Row label
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="building-label" text-anchor="end">#%d %s</text>`,
			gc.MarginLeft-15, y+rowHeight/2+4, alloc.Building.Rank, alloc.Building.ID))

		// Row separator
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			gc.MarginLeft, y+rowHeight, gc.Width-gc.MarginRight, y+rowHeight))

		gc.drawAllocationBars(svg, alloc, y, rowHeight)
	}
}

// drawAllocationBars draws the wait and repair segments for one building
func (gc *GanttChart) drawAllocationBars(svg *strings.Builder, alloc dto.BuildingAllocation, rowY, rowHeight int) {
	barHeight := rowHeight - 4
	barY := rowY + 2

	// Wait segment, day 0 until repair start
	if alloc.WaitTime > 0 {
		x := gc.timeToX(0)
		width := gc.timeToX(alloc.WaitTime) - x
		if width < 2 {
			width = 2
		}
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" class="schedule-bar"/>`,
			x, barY, width, barHeight, waitColor))
	}

	// Repair segment, repair start until recovery
	x := gc.timeToX(alloc.WaitTime)
	width := gc.timeToX(alloc.RecoveryTime) - x
	if width < 2 {
		width = 2
	}
	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" class="schedule-bar"/>`,
		x, barY, width, barHeight, repairColor))

	if width > 40 {
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="bar-text" text-anchor="middle">%.1fd</text>`,
			x+width/2, barY+barHeight/2+3, alloc.Building.RepairDuration))
	}

	// Tooltip (SVG title element)
	svg.WriteString(fmt.Sprintf(`<title>Building %s: wait %.2fd, repair %.2fd, recovered day %.2f</title>`,
		alloc.Building.ID, alloc.WaitTime, alloc.Building.RepairDuration, alloc.RecoveryTime))
}

// drawLegend draws a legend explaining the bar colors
func (gc *GanttChart) drawLegend(svg *strings.Builder) {
	legendX := gc.Width - gc.MarginRight - 200
	legendY := 40

	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="180" height="46" fill="white" stroke="#ccc" stroke-width="1"/>`,
		legendX, legendY))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="building-label" font-weight="bold">Legend</text>`,
		legendX+10, legendY+15))

	items := []struct {
		color string
		label string
	}{
		{waitColor, "Waiting for resources"},
		{repairColor, "Under repair"},
	}

	for i, item := range items {
		itemY := legendY + 25 + i*12
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="12" height="8" fill="%s"/>`,
			legendX+10, itemY, item.color))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="time-label">%s</text>`,
			legendX+30, itemY+6, item.label))
	}
}

// generateEmptyChart creates an empty chart when the scenario allocated nothing
func (gc *GanttChart) generateEmptyChart() string {
	return fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
		<rect width="%d" height="%d" fill="white"/>
		<text x="%d" y="%d" class="title" text-anchor="middle">No Buildings Allocated</text>
		<style>
			.title { font-family: Arial, sans-serif; font-size: 16px; fill: #666; }
		</style>
	</svg>`, gc.Width, gc.Height, gc.Width, gc.Height, gc.Width/2, gc.Height/2)
}
