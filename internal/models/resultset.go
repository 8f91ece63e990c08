package models

import "strconv"

// ColumnType tags how a result column behaves for charting purposes.
type ColumnType string

const (
	ColumnNumeric     ColumnType = "numeric"
	ColumnCategorical ColumnType = "categorical"
	ColumnTemporal    ColumnType = "temporal"
	ColumnOther       ColumnType = "other"
)

// ResultSet is a typed, already-executed query result. Column types are
// assigned once at construction and never re-inferred downstream.
type ResultSet struct {
	Columns []string
	Types   []ColumnType
	Rows    [][]interface{}

	// Derived column index sets, computed once in NewResultSet.
	NumericCols     []int
	CategoricalCols []int
	TemporalCols    []int
}

// NewResultSet builds a ResultSet and its derived column index sets.
// Rows shorter or longer than the column list are truncated/padded with
// nil so that every row length equals the column count.
func NewResultSet(columns []string, types []ColumnType, rows [][]interface{}) *ResultSet {
	rs := &ResultSet{
		Columns: columns,
		Types:   make([]ColumnType, len(columns)),
		Rows:    make([][]interface{}, 0, len(rows)),
	}

	for i := range columns {
		if i < len(types) {
			rs.Types[i] = types[i]
		} else {
			rs.Types[i] = ColumnOther
		}
	}

	for _, row := range rows {
		fixed := make([]interface{}, len(columns))
		copy(fixed, row)
		rs.Rows = append(rs.Rows, fixed)
	}

	for i, t := range rs.Types {
		switch t {
		case ColumnNumeric:
			rs.NumericCols = append(rs.NumericCols, i)
		case ColumnCategorical:
			rs.CategoricalCols = append(rs.CategoricalCols, i)
		case ColumnTemporal:
			rs.TemporalCols = append(rs.TemporalCols, i)
		}
	}

	return rs
}

// RowCount returns the number of rows.
func (rs *ResultSet) RowCount() int {
	return len(rs.Rows)
}

// ColumnCount returns the number of columns.
func (rs *ResultSet) ColumnCount() int {
	return len(rs.Columns)
}

// DistinctValues returns the distinct cell values of a column, ordered by
// first appearance.
func (rs *ResultSet) DistinctValues(colIdx int) []string {
	if colIdx < 0 || colIdx >= len(rs.Columns) {
		return nil
	}
	seen := make(map[string]bool)
	var values []string
	for _, row := range rs.Rows {
		v := CellString(row[colIdx])
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	return values
}

// CellString renders a cell using the raw value's string form. No locale
// formatting is applied at this layer.
func CellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// CellFloat converts a cell to float64. The second return reports whether
// the conversion succeeded.
func CellFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case []byte:
		f, err := strconv.ParseFloat(string(val), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
