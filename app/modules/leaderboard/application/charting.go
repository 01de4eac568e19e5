package leaderboardservice

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	leaderboarddomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/domain"
)

// ChartPalette holds the colors used for leaderboard charts.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	TextColor  drawing.Color
}

// DefaultPalette matches the web shell's colors.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorFromHex("ffffff"),
	Bar:        drawing.ColorFromHex("4a7bd0"),
	TextColor:  drawing.ColorFromHex("333333"),
}

// maxChartBars keeps labels legible.
const maxChartBars = 20

// GenerateLeaderboardChart produces a PNG bar chart of key for the ranked
// entries. Entries without a numeric value for key are left out.
func GenerateLeaderboardChart(entries []leaderboarddomain.PlayerEntry, key leaderboarddomain.StatKey, palette ChartPalette) ([]byte, error) {
	bars := make([]chart.Value, 0, len(entries))
	minValue, maxValue := 0.0, 0.0
	for _, entry := range leaderboarddomain.Rank(entries, key) {
		v, ok := entry.Metric(key)
		if !ok {
			continue
		}
		bars = append(bars, chart.Value{
			Label: entry.Name,
			Value: v,
			Style: chart.Style{
				FillColor:   palette.Bar,
				StrokeColor: palette.Bar,
			},
		})
		minValue = math.Min(minValue, v)
		maxValue = math.Max(maxValue, v)
		if len(bars) == maxChartBars {
			break
		}
	}

	if len(bars) == 0 {
		return renderNoDataPlaceholder(palette, fmt.Sprintf("No %s recorded", key.Label()))
	}

	// A zero-height range makes go-chart refuse to render.
	if maxValue == minValue {
		maxValue = minValue + 1
	}

	graph := chart.BarChart{
		Title:  key.Label(),
		Width:  max(400, 80*len(bars)),
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		TitleStyle: chart.Style{
			FontColor: palette.TextColor,
		},
		XAxis: chart.Style{
			FontColor: palette.TextColor,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
			Range: &chart.ContinuousRange{
				Min: minValue,
				Max: maxValue * 1.1,
			},
		},
		BarWidth: 40,
		Bars:     bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render leaderboard chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// renderNoDataPlaceholder draws msg directly on a PNG canvas; go-chart charts
// refuse to render without data.
func renderNoDataPlaceholder(palette ChartPalette, msg string) ([]byte, error) {
	const (
		width  = 400
		height = 200
	)

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load chart font: %w", err)
	}

	chart.Draw.Box(r, chart.Box{Right: width, Bottom: height}, chart.Style{FillColor: palette.Background})

	r.SetFont(font)
	r.SetFontColor(palette.TextColor)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, fmt.Errorf("failed to render chart placeholder: %w", err)
	}
	return buffer.Bytes(), nil
}
