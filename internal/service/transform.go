package service

import (
	"sort"

	"courtside-backend/internal/models"
)

// Row-count bounds per chart type. Outside these ranges the chart either
// reads poorly or the table fallback is the honest answer.
const (
	lineMinRows = 3
	lineMaxRows = 100
	barMinRows  = 2
	barMaxRows  = 50

	multiLineMinSeries = 2
)

// transformer binds a chart type to its structural predicate and its
// row-reshaping function. The registry below is the single ordered list
// that makes selection order auditable.
type transformer struct {
	chartType models.ChartType
	priority  int
	fits      func(rs *models.ResultSet) bool
	transform func(rs *models.ResultSet) map[string]interface{}
}

// TransformService chooses and runs the best-fit transformer for a result
// set. Deterministic: identical inputs always produce identical output.
type TransformService struct {
	transformers []transformer
}

// NewTransformService builds the transformer registry. Declaration order
// is the final tie-break, so the order here is part of the contract.
func NewTransformService() *TransformService {
	return &TransformService{
		transformers: []transformer{
			{models.ChartMultiLine, 90, fitsMultiLine, transformMultiLine},
			{models.ChartLine, 80, fitsLine, transformLine},
			{models.ChartBar, 70, fitsBar, transformBar},
			{models.ChartPie, 60, fitsPie, transformPie},
			{models.ChartBubble, 50, fitsBubble, transformBubble},
			{models.ChartTable, 0, fitsTable, transformTable},
		},
	}
}

// Select picks a transformer and runs it. It never fails for a well-formed
// ResultSet: the table transformer fits everything.
func (s *TransformService) Select(rs *models.ResultSet, intent models.Intent) *models.TransformedData {
	var candidates []transformer
	for _, t := range s.transformers {
		if t.fits(rs) {
			candidates = append(candidates, t)
		}
	}

	// An explicit request that fits overrides all scoring.
	if intent.ExplicitRequest {
		for _, t := range candidates {
			if t.chartType == intent.ExplicitType {
				return &models.TransformedData{ChartType: t.chartType, Fields: t.transform(rs)}
			}
		}
	}

	// Highest intent score wins; ties fall to higher priority, then to
	// declaration order (the slice is already in declaration order, and
	// strict > comparisons keep earlier entries on equal footing).
	best := candidates[len(candidates)-1] // table, always last and always fits
	bestScore := intent.Score(best.chartType)
	for _, t := range candidates {
		score := intent.Score(t.chartType)
		if score > bestScore || (score == bestScore && t.priority > best.priority) {
			best = t
			bestScore = score
		}
	}

	return &models.TransformedData{ChartType: best.chartType, Fields: best.transform(rs)}
}

// ----------------------------------------------------------------------------
// Predicates
// ----------------------------------------------------------------------------
// The predicate is the single source of truth for "this shape is safe to
// transform": anything a transform would have to defend against reactively
// (nulls, zero slices, missing columns) is excluded here instead.

func fitsLine(rs *models.ResultSet) bool {
	return len(rs.TemporalCols) >= 1 &&
		len(rs.NumericCols) >= 1 &&
		len(rs.CategoricalCols) == 0 &&
		rs.RowCount() >= lineMinRows && rs.RowCount() <= lineMaxRows &&
		numericColumnComplete(rs, rs.NumericCols[0])
}

func fitsMultiLine(rs *models.ResultSet) bool {
	return len(rs.TemporalCols) >= 1 &&
		len(rs.CategoricalCols) >= 1 &&
		len(rs.NumericCols) >= 1 &&
		len(rs.DistinctValues(rs.CategoricalCols[0])) >= multiLineMinSeries &&
		numericColumnComplete(rs, rs.NumericCols[0])
}

func fitsBar(rs *models.ResultSet) bool {
	return len(rs.CategoricalCols) >= 1 &&
		len(rs.NumericCols) >= 1 &&
		rs.RowCount() >= barMinRows && rs.RowCount() <= barMaxRows &&
		numericColumnComplete(rs, rs.NumericCols[0])
}

func fitsPie(rs *models.ResultSet) bool {
	if len(rs.CategoricalCols) < 1 || len(rs.NumericCols) < 1 {
		return false
	}
	n := len(rs.DistinctValues(rs.CategoricalCols[0]))
	if n < pieMinCategories || n > pieMaxCategories {
		return false
	}
	// Slice shares only make sense for strictly positive values.
	for _, row := range rs.Rows {
		v, ok := models.CellFloat(row[rs.NumericCols[0]])
		if !ok || v <= 0 {
			return false
		}
	}
	return true
}

func fitsBubble(rs *models.ResultSet) bool {
	if len(rs.CategoricalCols) != 1 || len(rs.NumericCols) < bubbleMinNumeric || rs.RowCount() == 0 {
		return false
	}
	for _, col := range rs.NumericCols[:bubbleMinNumeric] {
		if !numericColumnComplete(rs, col) {
			return false
		}
	}
	return true
}

// fitsTable is the universal fallback and must never return false.
func fitsTable(*models.ResultSet) bool { return true }

// numericColumnComplete reports whether every row of a column converts to
// a float. Empty result sets pass vacuously; the row-count bounds on the
// individual predicates handle those.
func numericColumnComplete(rs *models.ResultSet, col int) bool {
	for _, row := range rs.Rows {
		if _, ok := models.CellFloat(row[col]); !ok {
			return false
		}
	}
	return true
}

// ----------------------------------------------------------------------------
// Transforms
// ----------------------------------------------------------------------------
// Row ordering preserves the ResultSet's original order except where noted
// (multi_line sorts within each series by the temporal value).

func transformLine(rs *models.ResultSet) map[string]interface{} {
	tCol, nCol := rs.TemporalCols[0], rs.NumericCols[0]
	x := make([]interface{}, 0, rs.RowCount())
	y := make([]float64, 0, rs.RowCount())
	for _, row := range rs.Rows {
		v, _ := models.CellFloat(row[nCol])
		x = append(x, row[tCol])
		y = append(y, v)
	}
	return map[string]interface{}{
		models.FieldX:      x,
		models.FieldY:      y,
		models.FieldXLabel: rs.Columns[tCol],
		models.FieldYLabel: rs.Columns[nCol],
	}
}

func transformMultiLine(rs *models.ResultSet) map[string]interface{} {
	tCol, cCol, nCol := rs.TemporalCols[0], rs.CategoricalCols[0], rs.NumericCols[0]

	type point struct {
		t interface{}
		y float64
	}
	partitions := make(map[string][]point)
	var order []string

	for _, row := range rs.Rows {
		name := models.CellString(row[cCol])
		if _, seen := partitions[name]; !seen {
			order = append(order, name)
		}
		v, _ := models.CellFloat(row[nCol])
		partitions[name] = append(partitions[name], point{t: row[tCol], y: v})
	}

	series := make([]models.Series, 0, len(order))
	for _, name := range order {
		pts := partitions[name]
		sort.SliceStable(pts, func(i, j int) bool {
			return temporalLess(pts[i].t, pts[j].t)
		})
		s := models.Series{Name: name}
		for _, p := range pts {
			s.X = append(s.X, p.t)
			s.Y = append(s.Y, p.y)
		}
		series = append(series, s)
	}

	return map[string]interface{}{
		models.FieldSeries: series,
		models.FieldXLabel: rs.Columns[tCol],
		models.FieldYLabel: rs.Columns[nCol],
	}
}

func transformBar(rs *models.ResultSet) map[string]interface{} {
	cCol, nCol := rs.CategoricalCols[0], rs.NumericCols[0]
	x := make([]string, 0, rs.RowCount())
	y := make([]float64, 0, rs.RowCount())
	for _, row := range rs.Rows {
		v, _ := models.CellFloat(row[nCol])
		x = append(x, models.CellString(row[cCol]))
		y = append(y, v)
	}
	labels := make([]string, len(x))
	copy(labels, x)
	return map[string]interface{}{
		models.FieldX:      x,
		models.FieldY:      y,
		models.FieldLabels: labels,
		models.FieldXLabel: rs.Columns[cCol],
		models.FieldYLabel: rs.Columns[nCol],
	}
}

func transformPie(rs *models.ResultSet) map[string]interface{} {
	cCol, nCol := rs.CategoricalCols[0], rs.NumericCols[0]
	labels := make([]string, 0, rs.RowCount())
	values := make([]float64, 0, rs.RowCount())
	for _, row := range rs.Rows {
		v, _ := models.CellFloat(row[nCol])
		labels = append(labels, models.CellString(row[cCol]))
		values = append(values, v)
	}
	return map[string]interface{}{
		models.FieldLabels: labels,
		models.FieldValues: values,
		models.FieldYLabel: rs.Columns[nCol],
	}
}

func transformBubble(rs *models.ResultSet) map[string]interface{} {
	cCol := rs.CategoricalCols[0]
	xCol, yCol, sCol := rs.NumericCols[0], rs.NumericCols[1], rs.NumericCols[2]

	x := make([]float64, 0, rs.RowCount())
	y := make([]float64, 0, rs.RowCount())
	sizes := make([]float64, 0, rs.RowCount())
	labels := make([]string, 0, rs.RowCount())
	for _, row := range rs.Rows {
		xv, _ := models.CellFloat(row[xCol])
		yv, _ := models.CellFloat(row[yCol])
		sv, _ := models.CellFloat(row[sCol])
		x = append(x, xv)
		y = append(y, yv)
		sizes = append(sizes, sv)
		labels = append(labels, models.CellString(row[cCol]))
	}
	return map[string]interface{}{
		models.FieldX:      x,
		models.FieldY:      y,
		models.FieldSizes:  sizes,
		models.FieldLabels: labels,
		models.FieldXLabel: rs.Columns[xCol],
		models.FieldYLabel: rs.Columns[yCol],
	}
}

// transformTable is a full passthrough: no rows or columns are dropped or
// reordered. Row volume is capped upstream by the warehouse executor.
func transformTable(rs *models.ResultSet) map[string]interface{} {
	columns := make([]string, len(rs.Columns))
	copy(columns, rs.Columns)
	rows := make([][]interface{}, 0, rs.RowCount())
	for _, row := range rs.Rows {
		r := make([]interface{}, len(row))
		copy(r, row)
		rows = append(rows, r)
	}
	return map[string]interface{}{
		models.FieldColumns: columns,
		models.FieldRows:    rows,
	}
}

// temporalLess orders temporal cells numerically when both sides parse as
// numbers (seasons, years) and lexically otherwise (date strings).
func temporalLess(a, b interface{}) bool {
	af, aok := models.CellFloat(a)
	bf, bok := models.CellFloat(b)
	if aok && bok {
		return af < bf
	}
	return models.CellString(a) < models.CellString(b)
}
