package service

import "courtside-backend/internal/models"

// PipelineService sequences intent analysis, transform selection,
// formatting and narrative generation into one synchronous call. All four
// stages are pure functions of their inputs, so concurrent requests need
// no locking.
type PipelineService struct {
	Intent    *IntentAnalyzer
	Transform *TransformService
	Format    *FormatService
	Narrative *NarrativeService
}

// NewPipelineService wires the pipeline with the default score tables.
func NewPipelineService() *PipelineService {
	return NewPipelineServiceWith(DefaultScoreConfig())
}

// NewPipelineServiceWith wires the pipeline with custom score tables.
func NewPipelineServiceWith(config ScoreConfig) *PipelineService {
	return &PipelineService{
		Intent:    NewIntentAnalyzer(config),
		Transform: NewTransformService(),
		Format:    NewFormatService(),
		Narrative: NewNarrativeService(),
	}
}

// Process runs the full pipeline over an already-executed result set. It
// has no fatal paths: every stage degrades to the table shape rather than
// returning an error.
func (p *PipelineService) Process(userQuery, sqlText string, rs *models.ResultSet) *models.FormattingResult {
	intent := p.Intent.Analyze(userQuery, sqlText, rs)
	transformed := p.Transform.Select(rs, intent)
	graphData, tableData := p.Format.Format(transformed, rs)
	stats := ComputeStats(rs)
	narrative := p.Narrative.Build(transformed, intent, stats)

	return &models.FormattingResult{
		GraphData: graphData,
		TableData: tableData,
		Message:   narrative.Message(),
	}
}

// ProcessFromCache adapts a cached bundle for the response, bypassing
// intent analysis and transform selection. Only the narrative is re-run,
// and only when the cached bundle lacks one.
func (p *PipelineService) ProcessFromCache(cached *models.FormattingResult) *models.FormattingResult {
	result := &models.FormattingResult{
		GraphData: cached.GraphData,
		TableData: cached.TableData,
		Message:   cached.Message,
		Cached:    true,
	}
	if result.Message == "" {
		result.Message = p.narrateCached(cached)
	}
	return result
}

// narrateCached rebuilds a narrative from the wire bundle alone. Cached
// bundles carry their chart shape, so the bundle is re-wrapped as
// TransformedData and the table stats are approximated from it.
func (p *PipelineService) narrateCached(cached *models.FormattingResult) string {
	td := &models.TransformedData{
		ChartType: cached.ChartTypeTag(),
	}
	stats := models.ResultStats{}

	switch {
	case cached.GraphData != nil:
		td.Fields = cached.GraphData
		for i, v := range floatSlice(cached.GraphData[models.FieldY]) {
			if i == 0 {
				stats.Min, stats.Max = v, v
				stats.HasMetric = true
			}
			if v < stats.Min {
				stats.Min = v
			}
			if v > stats.Max {
				stats.Max = v
			}
			stats.Sum += v
			stats.RowCount++
		}
	case cached.TableData != nil:
		td.Fields = cached.TableData
		stats.ColumnCount = sliceLen(cached.TableData[models.FieldColumns])
		stats.RowCount = sliceLen(cached.TableData[models.FieldRows])
	}

	return p.Narrative.Build(td, models.Intent{}, stats).Message()
}

// floatSlice tolerates both in-process ([]float64) and JSON round-tripped
// ([]interface{}) cached bundles.
func floatSlice(v interface{}) []float64 {
	switch vals := v.(type) {
	case []float64:
		return vals
	case []interface{}:
		out := make([]float64, 0, len(vals))
		for _, raw := range vals {
			if f, ok := models.CellFloat(raw); ok {
				out = append(out, f)
			}
		}
		return out
	default:
		return nil
	}
}

func sliceLen(v interface{}) int {
	switch vals := v.(type) {
	case []string:
		return len(vals)
	case []interface{}:
		return len(vals)
	case [][]interface{}:
		return len(vals)
	default:
		return 0
	}
}
