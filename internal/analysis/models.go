package analysis

// AgentSummary holds the distribution statistics for one agent's trials.
type AgentSummary struct {
	AgentID   int // row index in the measurement table
	NumTrials int
	Min       float64
	Q1        float64
	Median    float64
	Q3        float64
	Max       float64
	Mean      float64
	StdDev    float64 // population standard deviation
	Range     float64
	IQR       float64
}

// RankedAgentInfo is used for ranking agents by different criteria.
type RankedAgentInfo struct {
	AgentID int
	Value   float64
}

// AnalysisResults holds all results from the analysis.
type AnalysisResults struct {
	Summaries      []AgentSummary
	RankedByMedian []RankedAgentInfo // Sorted by median, descending
	RankedBySpread []RankedAgentInfo // Sorted by standard deviation, descending
	RankedByRange  []RankedAgentInfo // Sorted by max - min, descending
}

func NewAnalysisResults() *AnalysisResults {
	return &AnalysisResults{
		Summaries:      make([]AgentSummary, 0),
		RankedByMedian: make([]RankedAgentInfo, 0),
		RankedBySpread: make([]RankedAgentInfo, 0),
		RankedByRange:  make([]RankedAgentInfo, 0),
	}
}
