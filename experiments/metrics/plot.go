package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RollingRates returns the win, draw and loss rates over a trailing window of
// episodes, one point per episode.
func RollingRates(records []EpisodeRecord, window int) (wins, draws, losses []float64) {
	if window < 1 {
		window = 1
	}
	var w, d, l int
	for i, record := range records {
		w, d, l = tally(w, d, l, record.Reward, 1)
		if i >= window {
			w, d, l = tally(w, d, l, records[i-window].Reward, -1)
		}
		n := float64(min(i+1, window))
		wins = append(wins, float64(w)/n)
		draws = append(draws, float64(d)/n)
		losses = append(losses, float64(l)/n)
	}
	return wins, draws, losses
}

func tally(w, d, l int, reward float64, step int) (int, int, int) {
	switch {
	case reward > 0:
		w += step
	case reward < 0:
		l += step
	default:
		d += step
	}
	return w, d, l
}

// WriteChart renders the rolling outcome rates of a run to an HTML page.
func (w *Writer) WriteChart(run RunConfig, records []EpisodeRecord, window int) (string, error) {
	wins, draws, losses := RollingRates(records, window)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s on %dx%d", run.Agent, run.BoardSize, run.BoardSize),
			Subtitle: fmt.Sprintf("rolling outcome rates over %d episodes", window),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	episodes := make([]string, len(records))
	for i, record := range records {
		episodes[i] = strconv.Itoa(record.Episode)
	}
	line.SetXAxis(episodes)
	line.AddSeries("win", lineData(wins))
	line.AddSeries("draw", lineData(draws))
	line.AddSeries("loss", lineData(losses))

	page := components.NewPage()
	page.AddCharts(line)

	path := filepath.Join(w.baseDir, "outcomes.html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}
	return path, nil
}

func lineData(values []float64) []opts.LineData {
	items := make([]opts.LineData, 0, len(values))
	for _, v := range values {
		items = append(items, opts.LineData{Value: v})
	}
	return items
}
