package service

import (
	"fmt"

	"courtside-backend/internal/models"
)

// Narrative is a headline plus a one-or-two sentence explanation of the
// chosen chart.
type Narrative struct {
	Headline    string `json:"headline"`
	Explanation string `json:"explanation"`
}

// Message joins headline and explanation into the response message.
func (n Narrative) Message() string {
	if n.Explanation == "" {
		return n.Headline
	}
	return n.Headline + ". " + n.Explanation
}

// NarrativeService produces the natural-language summary for a transformed
// bundle. Text depends only on the bundle, intent and precomputed stats,
// never on wall-clock time, so identical inputs narrate identically.
type NarrativeService struct{}

// NewNarrativeService creates the generator.
func NewNarrativeService() *NarrativeService {
	return &NarrativeService{}
}

// Build renders the per-chart-type template. Metric and dimension labels
// come off the bundle where it carries them, falling back to the stats.
func (s *NarrativeService) Build(td *models.TransformedData, intent models.Intent, stats models.ResultStats) Narrative {
	metric := fieldString(td, models.FieldYLabel, stats.MetricLabel)
	dimension := fieldString(td, models.FieldXLabel, stats.Dimension)

	switch td.ChartType {
	case models.ChartLine:
		return Narrative{
			Headline: fmt.Sprintf("Trend of %s across %s", metric, dimension),
			Explanation: fmt.Sprintf("Values range from %s to %s over %d points",
				formatValue(stats.Min), formatValue(stats.Max), stats.RowCount),
		}
	case models.ChartMultiLine:
		return Narrative{
			Headline: fmt.Sprintf("Trend of %s across %s", metric, dimension),
			Explanation: fmt.Sprintf("%d series, with values ranging from %s to %s",
				seriesCount(td), formatValue(stats.Min), formatValue(stats.Max)),
		}
	case models.ChartBar:
		n := Narrative{
			Headline: fmt.Sprintf("Comparing %s by %s", metric, dimension),
		}
		if stats.HasMetric && stats.TopLabel != "" {
			n.Explanation = fmt.Sprintf("%d rows compared; %s leads with %s",
				stats.RowCount, stats.TopLabel, formatValue(stats.TopValue))
		} else {
			n.Explanation = fmt.Sprintf("%d rows compared", stats.RowCount)
		}
		return n
	case models.ChartPie:
		n := Narrative{
			Headline: fmt.Sprintf("Distribution of %s by %s", metric, stats.Dimension),
		}
		if stats.HasMetric && stats.Sum > 0 {
			largest := stats.TopValue / stats.Sum * 100
			smallest := stats.BottomValue / stats.Sum * 100
			n.Explanation = fmt.Sprintf("%s holds the largest share at %.1f%%; the smallest, %s, holds %.1f%%",
				stats.TopLabel, largest, stats.BottomLabel, smallest)
		}
		return n
	case models.ChartBubble:
		metricA := fieldString(td, models.FieldXLabel, "")
		metricB := fieldString(td, models.FieldYLabel, "")
		n := Narrative{
			Headline: fmt.Sprintf("Relationship between %s and %s", metricA, metricB),
		}
		if stats.SizeMetric != "" {
			n.Explanation = fmt.Sprintf("Bubble size encodes %s across %d points",
				stats.SizeMetric, stats.RowCount)
		} else {
			n.Explanation = fmt.Sprintf("%d points plotted", stats.RowCount)
		}
		return n
	default:
		return Narrative{
			Headline: "Detailed results",
			Explanation: fmt.Sprintf("%d columns and %d rows returned",
				stats.ColumnCount, stats.RowCount),
		}
	}
}

func fieldString(td *models.TransformedData, field, fallback string) string {
	if td != nil && td.Fields != nil {
		if s, ok := td.Fields[field].(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

func seriesCount(td *models.TransformedData) int {
	if series, ok := td.Fields[models.FieldSeries].([]models.Series); ok {
		return len(series)
	}
	return 0
}

// formatValue trims trailing zeros so whole numbers read as integers.
func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
