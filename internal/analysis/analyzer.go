package analysis

import (
	"fmt"
	"sort"

	"github.com/user/agent_boxplot_go/internal/parser"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/plotter"
)

// Summarize computes the distribution statistics of a single agent's trials.
// Quartiles and median come from gonum's box statistics, so they are the
// values the drawn boxes show.
func Summarize(agentID int, trials []float64) (AgentSummary, error) {
	sorted := make([]float64, len(trials))
	copy(sorted, trials)
	sort.Float64s(sorted)

	s := AgentSummary{AgentID: agentID, NumTrials: len(sorted)}
	if len(sorted) == 0 {
		return s, nil
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Range = s.Max - s.Min
	if len(sorted) == 1 {
		s.Q1, s.Median, s.Q3, s.Mean = s.Min, s.Min, s.Min, s.Min
		return s, nil
	}
	box, err := plotter.NewBoxPlot(0, float64(agentID), plotter.Values(sorted))
	if err != nil {
		return s, fmt.Errorf("failed to summarize agent %d: %w", agentID, err)
	}
	s.Q1 = box.Quartile1
	s.Median = box.Median
	s.Q3 = box.Quartile3
	s.IQR = s.Q3 - s.Q1
	s.Mean, s.StdDev = stat.PopMeanStdDev(sorted, nil)
	return s, nil
}

// AnalyzeTable summarizes every agent of the table and ranks them.
func AnalyzeTable(table *parser.MeasurementTable) (*AnalysisResults, error) {
	if table == nil || table.NumAgents() == 0 {
		return nil, fmt.Errorf("measurement table is nil or empty, cannot analyze")
	}

	results := NewAnalysisResults()
	for agentID, trials := range table.Rows {
		s, err := Summarize(agentID, trials)
		if err != nil {
			return nil, err
		}
		results.Summaries = append(results.Summaries, s)
		results.RankedByMedian = append(results.RankedByMedian, RankedAgentInfo{AgentID: agentID, Value: s.Median})
		results.RankedBySpread = append(results.RankedBySpread, RankedAgentInfo{AgentID: agentID, Value: s.StdDev})
		results.RankedByRange = append(results.RankedByRange, RankedAgentInfo{AgentID: agentID, Value: s.Range})
	}

	rankDescending(results.RankedByMedian)
	rankDescending(results.RankedBySpread)
	rankDescending(results.RankedByRange)
	return results, nil
}

// rankDescending sorts by value, highest first; ties keep agent order.
func rankDescending(ranked []RankedAgentInfo) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
}
