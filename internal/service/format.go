package service

import "courtside-backend/internal/models"

// chartFormatter fixes the wire contract for one chart type: the fields
// its shape requires and nothing else. Formatting is a structural copy;
// no data is dropped or recomputed here.
type chartFormatter struct {
	chartType models.ChartType
	required  []string
}

// FormatService maps a TransformedData bundle into the final wire shape.
// This is the single place client-facing field names are fixed.
type FormatService struct {
	formatters map[models.ChartType]chartFormatter
}

// NewFormatService builds the formatter set, one per chart type.
func NewFormatService() *FormatService {
	formatters := map[models.ChartType]chartFormatter{
		models.ChartLine: {models.ChartLine, []string{
			models.FieldX, models.FieldY, models.FieldXLabel, models.FieldYLabel,
		}},
		models.ChartMultiLine: {models.ChartMultiLine, []string{
			models.FieldSeries, models.FieldXLabel, models.FieldYLabel,
		}},
		models.ChartBar: {models.ChartBar, []string{
			models.FieldX, models.FieldY, models.FieldLabels, models.FieldXLabel, models.FieldYLabel,
		}},
		models.ChartPie: {models.ChartPie, []string{
			models.FieldLabels, models.FieldValues, models.FieldYLabel,
		}},
		models.ChartBubble: {models.ChartBubble, []string{
			models.FieldX, models.FieldY, models.FieldSizes, models.FieldLabels,
			models.FieldXLabel, models.FieldYLabel,
		}},
	}
	return &FormatService{formatters: formatters}
}

// canHandle validates that the bundle carries every field the shape
// requires.
func (f chartFormatter) canHandle(td *models.TransformedData) bool {
	for _, field := range f.required {
		if !td.Has(field) {
			return false
		}
	}
	return true
}

// Format produces exactly one of (graphData, tableData). A graph bundle
// missing required fields is skipped in favor of the table shape rebuilt
// from the result set.
func (s *FormatService) Format(td *models.TransformedData, rs *models.ResultSet) (graphData, tableData map[string]interface{}) {
	if td.ChartType != models.ChartTable {
		if f, ok := s.formatters[td.ChartType]; ok && f.canHandle(td) {
			bundle := make(map[string]interface{}, len(td.Fields)+1)
			for k, v := range td.Fields {
				bundle[k] = v
			}
			bundle[models.FieldChartType] = string(f.chartType)
			return bundle, nil
		}
	}

	if td.ChartType == models.ChartTable && td.Has(models.FieldColumns) && td.Has(models.FieldRows) {
		return nil, map[string]interface{}{
			models.FieldColumns: td.Fields[models.FieldColumns],
			models.FieldRows:    td.Fields[models.FieldRows],
		}
	}

	// Last-resort table rebuilt straight from the result set.
	fallback := transformTable(rs)
	return nil, map[string]interface{}{
		models.FieldColumns: fallback[models.FieldColumns],
		models.FieldRows:    fallback[models.FieldRows],
	}
}
