package service

import "courtside-backend/internal/models"

// ComputeStats summarizes a result set once per request. The first numeric
// column is the primary metric; the first categorical column (falling back
// to the first temporal one) is the dimension.
func ComputeStats(rs *models.ResultSet) models.ResultStats {
	stats := models.ResultStats{
		RowCount:    rs.RowCount(),
		ColumnCount: rs.ColumnCount(),
	}

	if len(rs.CategoricalCols) > 0 {
		stats.Dimension = rs.Columns[rs.CategoricalCols[0]]
		stats.DistinctCats = len(rs.DistinctValues(rs.CategoricalCols[0]))
	} else if len(rs.TemporalCols) > 0 {
		stats.Dimension = rs.Columns[rs.TemporalCols[0]]
	}

	if len(rs.NumericCols) == 0 {
		return stats
	}

	nCol := rs.NumericCols[0]
	stats.MetricLabel = rs.Columns[nCol]
	if len(rs.NumericCols) >= 3 {
		stats.SizeMetric = rs.Columns[rs.NumericCols[2]]
	}

	labelCol := -1
	if len(rs.CategoricalCols) > 0 {
		labelCol = rs.CategoricalCols[0]
	} else if len(rs.TemporalCols) > 0 {
		labelCol = rs.TemporalCols[0]
	}

	for _, row := range rs.Rows {
		v, ok := models.CellFloat(row[nCol])
		if !ok {
			continue
		}
		label := ""
		if labelCol >= 0 {
			label = models.CellString(row[labelCol])
		}
		if !stats.HasMetric {
			stats.Min, stats.Max = v, v
			stats.TopLabel, stats.TopValue = label, v
			stats.BottomLabel, stats.BottomValue = label, v
			stats.HasMetric = true
		} else {
			if v < stats.Min {
				stats.Min = v
			}
			if v > stats.Max {
				stats.Max = v
			}
			if v > stats.TopValue {
				stats.TopLabel, stats.TopValue = label, v
			}
			if v < stats.BottomValue {
				stats.BottomLabel, stats.BottomValue = label, v
			}
		}
		stats.Sum += v
	}

	return stats
}
