package models

// Field names shared by transformers, formatters and client renderers.
// These are wire contract: renderers key off them by literal name.
const (
	FieldChartType = "chartType"
	FieldX         = "x"
	FieldY         = "y"
	FieldLabels    = "labels"
	FieldValues    = "values"
	FieldSizes     = "sizes"
	FieldSeries    = "series"
	FieldXLabel    = "xLabel"
	FieldYLabel    = "yLabel"
	FieldColumns   = "columns"
	FieldRows      = "rows"
)

// Series is one line of a multi_line chart.
type Series struct {
	Name string        `json:"name"`
	X    []interface{} `json:"x"`
	Y    []float64     `json:"y"`
}

// TransformedData is the chart-shaped bundle produced by exactly one
// transformer. Fields hold the chart-type-specific layout; the formatter
// adds the chartType tag when building the wire bundle.
type TransformedData struct {
	ChartType ChartType
	Fields    map[string]interface{}
}

// Has reports whether a field is present on the bundle.
func (td *TransformedData) Has(field string) bool {
	if td == nil || td.Fields == nil {
		return false
	}
	_, ok := td.Fields[field]
	return ok
}

// ResultStats are summary statistics over the primary metric column,
// computed once per request and shared by the narrative generator.
type ResultStats struct {
	RowCount     int
	ColumnCount  int
	MetricLabel  string
	SizeMetric   string
	Dimension    string
	Min          float64
	Max          float64
	Sum          float64
	TopLabel     string
	TopValue     float64
	BottomLabel  string
	BottomValue  float64
	DistinctCats int
	HasMetric    bool
}

// FormattingResult is the final field set returned to the caller. Exactly
// one of GraphData/TableData is populated.
type FormattingResult struct {
	GraphData map[string]interface{} `json:"graphData,omitempty"`
	TableData map[string]interface{} `json:"tableData,omitempty"`
	Message   string                 `json:"message"`
	Cached    bool                   `json:"cached"`
}

// ChartTypeTag returns the chartType carried on the graph bundle, or
// "table" for table results.
func (fr *FormattingResult) ChartTypeTag() ChartType {
	if fr.GraphData != nil {
		if ct, ok := fr.GraphData[FieldChartType].(ChartType); ok {
			return ct
		}
		if s, ok := fr.GraphData[FieldChartType].(string); ok {
			return ChartType(s)
		}
	}
	return ChartTable
}
