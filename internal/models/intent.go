package models

// ChartType enumerates the closed set of renderable shapes. Client
// renderers key off these literal strings.
type ChartType string

const (
	ChartLine      ChartType = "line"
	ChartMultiLine ChartType = "multi_line"
	ChartBar       ChartType = "bar"
	ChartPie       ChartType = "pie"
	ChartBubble    ChartType = "bubble"
	ChartTable     ChartType = "table"
)

// IntentCategory is the coarse visualization preference inferred from the
// question and the SQL structure.
type IntentCategory string

const (
	IntentComparison   IntentCategory = "comparison"
	IntentTrend        IntentCategory = "trend"
	IntentDistribution IntentCategory = "distribution"
	IntentCorrelation  IntentCategory = "correlation"
	IntentNone         IntentCategory = "none"
)

// SQLAnalysis is a structural summary of the generated SQL.
type SQLAnalysis struct {
	HasGroupBy         bool `json:"has_group_by"`
	HasOrderLimit      bool `json:"has_order_limit"`
	HasTemporalColumn  bool `json:"has_temporal_column"`
	HasAggregation     bool `json:"has_aggregation"`
	NumericProjections int  `json:"numeric_projections"`
}

// Intent holds per-chart-type scores plus the derived primary category.
// It is built once per request and never mutated afterwards.
type Intent struct {
	Scores          map[ChartType]float64 `json:"scores"`
	PrimaryIntent   IntentCategory        `json:"primary_intent"`
	ExplicitRequest bool                  `json:"explicit_request"`
	ExplicitType    ChartType             `json:"explicit_type,omitempty"`
	SQL             SQLAnalysis           `json:"sql"`
}

// Score returns the score for a chart type, zero when absent.
func (in *Intent) Score(ct ChartType) float64 {
	if in.Scores == nil {
		return 0
	}
	return in.Scores[ct]
}
