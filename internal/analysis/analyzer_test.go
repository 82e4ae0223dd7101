package analysis

import (
	"testing"

	"github.com/user/agent_boxplot_go/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func TestSummarize_OddCount(t *testing.T) {
	s, err := Summarize(2, []float64{5, 1, 4, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, 2, s.AgentID)
	assert.Equal(t, 5, s.NumTrials)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 1.5, s.Q1)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 4.0, s.Q3)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 4.0, s.Range)
	assert.Equal(t, 2.5, s.IQR)
	assert.InDelta(t, 3.0, s.Mean, 1e-12)
	assert.InDelta(t, 1.4142135623730951, s.StdDev, 1e-12)
}

func TestSummarize_EvenCountUsesMedianOfHalves(t *testing.T) {
	s, err := Summarize(0, []float64{4, 3, 2, 1})
	require.NoError(t, err)

	assert.InDelta(t, 1.5, s.Q1, 1e-12)
	assert.InDelta(t, 2.5, s.Median, 1e-12)
	assert.InDelta(t, 3.5, s.Q3, 1e-12)
}

func TestSummarize_MatchesDrawnBox(t *testing.T) {
	trials := []float64{0, 1, 2, 1, 0, 3, 1, 0, 2, 1}
	s, err := Summarize(0, trials)
	require.NoError(t, err)

	box, err := plotter.NewBoxPlot(vg.Points(20), 0, plotter.Values(trials))
	require.NoError(t, err)
	assert.Equal(t, box.Quartile1, s.Q1)
	assert.Equal(t, box.Median, s.Median)
	assert.Equal(t, box.Quartile3, s.Q3)
	assert.Equal(t, 0.0, s.Q1)
	assert.Equal(t, 2.0, s.Q3)
}

func TestSummarize_SingleTrial(t *testing.T) {
	s, err := Summarize(1, []float64{7})
	require.NoError(t, err)

	assert.Equal(t, 7.0, s.Median)
	assert.Equal(t, 7.0, s.Q1)
	assert.Equal(t, 7.0, s.Q3)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 0.0, s.Range)
}

func TestSummarize_DoesNotReorderInput(t *testing.T) {
	trials := []float64{3, 1, 2}
	_, err := Summarize(0, trials)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, trials)
}

func TestAnalyzeTable(t *testing.T) {
	table := &parser.MeasurementTable{Rows: [][]float64{
		{1, 1, 1, 1},
		{0, 10, 5, 5},
		{3, 4, 3, 4},
	}}

	results, err := AnalyzeTable(table)
	require.NoError(t, err)
	require.Len(t, results.Summaries, 3)
	for i, s := range results.Summaries {
		assert.Equal(t, i, s.AgentID)
	}

	assert.Equal(t, 1, results.RankedByMedian[0].AgentID)
	assert.Equal(t, 1, results.RankedBySpread[0].AgentID)
	assert.Equal(t, 0, results.RankedBySpread[2].AgentID)
	assert.Equal(t, []int{1, 2, 0}, agentIDs(results.RankedByRange))
}

func TestAnalyzeTable_TiesKeepAgentOrder(t *testing.T) {
	table := &parser.MeasurementTable{Rows: [][]float64{{1, 2}, {1, 2}, {1, 2}}}

	results, err := AnalyzeTable(table)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, agentIDs(results.RankedByMedian))
}

func TestAnalyzeTable_Empty(t *testing.T) {
	_, err := AnalyzeTable(nil)
	assert.Error(t, err)

	_, err = AnalyzeTable(&parser.MeasurementTable{})
	assert.Error(t, err)
}

func agentIDs(ranked []RankedAgentInfo) []int {
	ids := make([]int, len(ranked))
	for i, r := range ranked {
		ids[i] = r.AgentID
	}
	return ids
}
