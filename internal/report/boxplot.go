package report

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/user/agent_boxplot_go/internal/parser"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DefaultAgentAxisLabel names the category axis.
const DefaultAgentAxisLabel = "Human Agent ID"

const (
	maxBoxWidth = 40 // points
	minBoxWidth = 2
)

var runStampPrefix = regexp.MustCompile(`^\d+_`)

// Labels holds the text drawn around the boxes.
type Labels struct {
	Metric string // value axis, e.g. "Secondary Cases"
	Agent  string // category axis; DefaultAgentAxisLabel when empty
}

// BoxChart is a boxplot with one box per agent, kept alongside the plot so
// callers can inspect what will be drawn.
type BoxChart struct {
	Plot  *plot.Plot
	Boxes []*plotter.BoxPlot
	Ticks []plot.Tick
}

// MetricNameFromPath derives the measurement name from a results file name:
// the leading run stamp is dropped, "___" becomes " @ " and "_" a space.
// "1761519225_Human_Hazard___Sickness.csv" yields "Human Hazard @ Sickness".
func MetricNameFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	name := runStampPrefix.ReplaceAllString(base, "")
	name = strings.ReplaceAll(name, "___", " @ ")
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "Value"
	}
	return name
}

// OutputPathFor returns the image path next to the results file: same
// directory and base name, ".png" extension.
func OutputPathFor(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".png"
}

// Title returns the plot title for a metric measured over numTrials repetitions.
func Title(metric string, numTrials int) string {
	return fmt.Sprintf("%s by ID (n=%d trials)", metric, numTrials)
}

// AgentTicks labels category positions 0..n-1 with the agent index.
func AgentTicks(n int) []plot.Tick {
	ticks := make([]plot.Tick, n)
	for i := range ticks {
		ticks[i] = plot.Tick{Value: float64(i), Label: strconv.Itoa(i)}
	}
	return ticks
}

// boxWidth shrinks boxes as the agent count grows so neighbours never overlap
// on the default canvas.
func boxWidth(numAgents int) vg.Length {
	avail := float64(DefaultCanvas.Width.Points()) * 0.8 / float64(numAgents)
	w := avail * 0.5
	if w > maxBoxWidth {
		w = maxBoxWidth
	}
	if w < minBoxWidth {
		w = minBoxWidth
	}
	return vg.Points(w)
}

// BuildBoxPlot creates the per-agent boxplot for table. Agent i is drawn at
// X = i so the category axis keeps row order.
func BuildBoxPlot(table *parser.MeasurementTable, labels Labels) (*BoxChart, error) {
	if table == nil || table.NumAgents() == 0 {
		return nil, &RenderError{Stage: "build", Err: fmt.Errorf("no agents to plot")}
	}
	if labels.Agent == "" {
		labels.Agent = DefaultAgentAxisLabel
	}
	if labels.Metric == "" {
		labels.Metric = MetricNameFromPath(table.Source)
	}

	numAgents, numTrials := table.Shape()

	p := plot.New()
	p.Title.Text = Title(labels.Metric, numTrials)
	p.X.Label.Text = labels.Agent
	p.Y.Label.Text = labels.Metric
	p.Add(plotter.NewGrid())

	width := boxWidth(numAgents)
	chart := &BoxChart{Plot: p, Boxes: make([]*plotter.BoxPlot, 0, numAgents)}
	for agentID, trials := range table.Rows {
		box, err := plotter.NewBoxPlot(width, float64(agentID), plotter.Values(trials))
		if err != nil {
			return nil, &RenderError{Stage: "build", Err: fmt.Errorf("failed to create box for agent %d: %w", agentID, err)}
		}
		p.Add(box)
		chart.Boxes = append(chart.Boxes, box)
	}

	chart.Ticks = AgentTicks(numAgents)
	p.X.Tick.Marker = plot.ConstantTicks(chart.Ticks)
	p.X.Min = -0.5
	p.X.Max = float64(numAgents) - 0.5

	return chart, nil
}
