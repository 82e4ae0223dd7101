package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/user/agent_boxplot_go/internal/analysis"
	"github.com/user/agent_boxplot_go/internal/parser"
	"github.com/user/agent_boxplot_go/internal/report"

	"go.uber.org/zap"
)

// Options selects the input and optional overrides for one run.
type Options struct {
	InputPath  string
	OutputPath string // defaults to the input path with a .png extension
	Metric     string // defaults to the name derived from the input file
	ReportPath string // optional PDF summary
}

// App runs the load, render and save pipeline once.
type App struct {
	logger *zap.Logger
	stdout io.Writer
	canvas report.CanvasOptions
}

// NewApp creates an App that writes its confirmation lines to stdout.
func NewApp(logger *zap.Logger, stdout io.Writer) *App {
	return &App{logger: logger, stdout: stdout, canvas: report.DefaultCanvas}
}

// Run loads the results file, renders the boxplot and saves it. The image and
// the optional report are fully built in memory and staged before any of them
// is moved into place, so a failed run leaves the output paths untouched. It returns the path of the saved image.
func (a *App) Run(opts Options) (string, error) {
	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = report.OutputPathFor(opts.InputPath)
	}
	if samePath(outputPath, opts.InputPath) || samePath(opts.ReportPath, opts.InputPath) {
		return "", &report.RenderError{
			Stage: "save",
			Err:   fmt.Errorf("output path %s would overwrite the input file", opts.InputPath),
		}
	}
	metric := opts.Metric
	if metric == "" {
		metric = report.MetricNameFromPath(opts.InputPath)
	}
	a.logger.Debug("Starting run",
		zap.String("input", opts.InputPath),
		zap.String("output", outputPath),
		zap.String("metric", metric))

	table, err := parser.LoadMeasurementTable(opts.InputPath)
	if err != nil {
		return "", err
	}
	agents, trials := table.Shape()
	a.logger.Info("Loaded measurement table", zap.Int("agents", agents), zap.Int("trials", trials))

	chart, err := report.BuildBoxPlot(table, report.Labels{Metric: metric})
	if err != nil {
		return "", err
	}
	rendered, err := report.RenderPNG(chart, a.canvas)
	if err != nil {
		return "", err
	}
	a.logger.Debug("Rendered boxplot",
		zap.Int("boxes", len(chart.Boxes)),
		zap.Int("width_px", rendered.Width),
		zap.Int("height_px", rendered.Height))

	var pdfBytes []byte
	if opts.ReportPath != "" {
		results, err := analysis.AnalyzeTable(table)
		if err != nil {
			return "", &report.RenderError{Stage: "build", Err: err}
		}
		pdfBytes, err = report.BuildPDFReport(report.ReportInput{
			Source:    opts.InputPath,
			Metric:    metric,
			NumTrials: trials,
			Results:   results,
			Plot:      rendered,
		})
		if err != nil {
			return "", err
		}
	}

	writes := []report.PendingWrite{{Path: outputPath, Data: rendered.PNG}}
	if pdfBytes != nil {
		writes = append(writes, report.PendingWrite{Path: opts.ReportPath, Data: pdfBytes})
	}
	if err := report.SaveAllAtomic(writes); err != nil {
		return "", err
	}
	fmt.Fprintf(a.stdout, "Plot saved: %s\n", outputPath)
	if pdfBytes != nil {
		fmt.Fprintf(a.stdout, "Report saved: %s\n", opts.ReportPath)
	}
	return outputPath, nil
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
