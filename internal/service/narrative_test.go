package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"courtside-backend/internal/models"
)

func TestBuildNarrative_Bar(t *testing.T) {
	rs := barResultSet()
	td := &models.TransformedData{ChartType: models.ChartBar, Fields: transformBar(rs)}
	stats := ComputeStats(rs)

	n := NewNarrativeService().Build(td, models.Intent{}, stats)

	assert.Equal(t, "Comparing avg_points by full_name", n.Headline)
	assert.Contains(t, n.Explanation, "5 rows")
	assert.Contains(t, n.Explanation, "Curry")
	assert.Contains(t, n.Explanation, "30.1")
}

func TestBuildNarrative_Line(t *testing.T) {
	rs := trendResultSet()
	td := &models.TransformedData{ChartType: models.ChartLine, Fields: transformLine(rs)}
	stats := ComputeStats(rs)

	n := NewNarrativeService().Build(td, models.Intent{}, stats)

	assert.Equal(t, "Trend of avg_points across season", n.Headline)
	assert.Contains(t, n.Explanation, "98.1")
	assert.Contains(t, n.Explanation, "105.6")
}

func TestBuildNarrative_MultiLineCountsSeries(t *testing.T) {
	rs := models.NewResultSet(
		[]string{"year", "team", "points"},
		[]models.ColumnType{models.ColumnTemporal, models.ColumnCategorical, models.ColumnNumeric},
		[][]interface{}{
			{2013, "A", 70.0},
			{2014, "A", 75.0},
			{2013, "B", 68.0},
			{2014, "B", 71.0},
		},
	)
	td := &models.TransformedData{ChartType: models.ChartMultiLine, Fields: transformMultiLine(rs)}
	stats := ComputeStats(rs)

	n := NewNarrativeService().Build(td, models.Intent{}, stats)

	assert.Equal(t, "Trend of points across year", n.Headline)
	assert.Contains(t, n.Explanation, "2 series")
}

func TestBuildNarrative_PieShares(t *testing.T) {
	rs := models.NewResultSet(
		[]string{"team", "wins"},
		[]models.ColumnType{models.ColumnCategorical, models.ColumnNumeric},
		[][]interface{}{
			{"A", 50.0}, {"B", 30.0}, {"C", 20.0},
		},
	)
	td := &models.TransformedData{ChartType: models.ChartPie, Fields: transformPie(rs)}
	stats := ComputeStats(rs)

	n := NewNarrativeService().Build(td, models.Intent{}, stats)

	assert.Equal(t, "Distribution of wins by team", n.Headline)
	assert.Contains(t, n.Explanation, "A")
	assert.Contains(t, n.Explanation, "50.0%")
	assert.Contains(t, n.Explanation, "20.0%")
}

func TestBuildNarrative_Bubble(t *testing.T) {
	rs := models.NewResultSet(
		[]string{"player", "points", "assists", "minutes"},
		[]models.ColumnType{models.ColumnCategorical, models.ColumnNumeric, models.ColumnNumeric, models.ColumnNumeric},
		[][]interface{}{
			{"Curry", 30.1, 6.6, 34.2},
			{"Harden", 29.0, 7.5, 38.1},
		},
	)
	td := &models.TransformedData{ChartType: models.ChartBubble, Fields: transformBubble(rs)}
	stats := ComputeStats(rs)

	n := NewNarrativeService().Build(td, models.Intent{}, stats)

	assert.Equal(t, "Relationship between points and assists", n.Headline)
	assert.Contains(t, n.Explanation, "minutes")
	assert.Contains(t, n.Explanation, "2 points")
}

func TestBuildNarrative_Table(t *testing.T) {
	rs := barResultSet()
	td := &models.TransformedData{ChartType: models.ChartTable, Fields: transformTable(rs)}
	stats := ComputeStats(rs)

	n := NewNarrativeService().Build(td, models.Intent{}, stats)

	assert.Equal(t, "Detailed results", n.Headline)
	assert.Contains(t, n.Explanation, "2 columns")
	assert.Contains(t, n.Explanation, "5 rows")
}

func TestComputeStats(t *testing.T) {
	rs := barResultSet()

	stats := ComputeStats(rs)

	assert.Equal(t, 5, stats.RowCount)
	assert.Equal(t, 2, stats.ColumnCount)
	assert.Equal(t, "avg_points", stats.MetricLabel)
	assert.Equal(t, "full_name", stats.Dimension)
	assert.Equal(t, 25.1, stats.Min)
	assert.Equal(t, 30.1, stats.Max)
	assert.Equal(t, "Curry", stats.TopLabel)
	assert.Equal(t, 30.1, stats.TopValue)
	assert.Equal(t, "Lillard", stats.BottomLabel)
	assert.Equal(t, 5, stats.DistinctCats)
	assert.True(t, stats.HasMetric)
}

func TestComputeStats_NoNumericColumn(t *testing.T) {
	rs := models.NewResultSet(
		[]string{"team"},
		[]models.ColumnType{models.ColumnCategorical},
		[][]interface{}{{"A"}, {"B"}},
	)

	stats := ComputeStats(rs)

	assert.False(t, stats.HasMetric)
	assert.Equal(t, 2, stats.RowCount)
	assert.Equal(t, "team", stats.Dimension)
}
