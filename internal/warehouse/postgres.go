package warehouse

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/lib/pq"

	"courtside-backend/internal/models"
)

// Config holds warehouse connection details.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // "disable", "require"
}

// Warehouse executes already-validated SQL and describes the schema for
// prompt building.
type Warehouse interface {
	Execute(sqlText string) (*models.ResultSet, error)
	SchemaContext() (string, error)
	Close() error
}

// PostgresWarehouse implements Warehouse for PostgreSQL.
type PostgresWarehouse struct {
	db      *sql.DB
	maxRows int
}

// Connect opens and pings a Postgres connection.
func Connect(config Config, maxRows int) (*PostgresWarehouse, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return NewPostgresWarehouse(db, maxRows), nil
}

// NewPostgresWarehouse wraps an existing connection. Used directly by
// tests with a mock driver.
func NewPostgresWarehouse(db *sql.DB, maxRows int) *PostgresWarehouse {
	if maxRows <= 0 {
		maxRows = 500
	}
	return &PostgresWarehouse{db: db, maxRows: maxRows}
}

func (p *PostgresWarehouse) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// Execute runs the SQL and materializes a typed ResultSet. An empty result
// is a valid, non-error outcome. Row volume is capped at the configured
// storage limit.
func (p *PostgresWarehouse) Execute(sqlText string) (*models.ResultSet, error) {
	rows, err := p.db.Query(sqlText)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	types := make([]models.ColumnType, len(columns))
	for i, col := range columns {
		dbType := ""
		if i < len(colTypes) && colTypes[i] != nil {
			dbType = colTypes[i].DatabaseTypeName()
		}
		types[i] = ClassifyColumn(col, dbType)
	}

	var data [][]interface{}
	for rows.Next() {
		if len(data) >= p.maxRows {
			break
		}

		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		// Byte slices are how drivers hand back text and numerics.
		for i, val := range values {
			if b, ok := val.([]byte); ok {
				values[i] = string(b)
			}
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return models.NewResultSet(columns, types, data), nil
}

// SchemaContext renders a table(column type, ...) line per public table
// for embedding in the SQL-generation prompt.
func (p *PostgresWarehouse) SchemaContext() (string, error) {
	query := `
		SELECT table_name, column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = 'public'
		ORDER BY table_name, ordinal_position;
	`
	rows, err := p.db.Query(query)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	tables := make(map[string][]string)
	var order []string
	for rows.Next() {
		var table, column, dataType string
		if err := rows.Scan(&table, &column, &dataType); err != nil {
			return "", err
		}
		if _, seen := tables[table]; !seen {
			order = append(order, table)
		}
		tables[table] = append(tables[table], fmt.Sprintf("%s %s", column, dataType))
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, table := range order {
		fmt.Fprintf(&b, "%s(%s)\n", table, strings.Join(tables[table], ", "))
	}
	return b.String(), nil
}

var (
	temporalNameRegex = regexp.MustCompile(`(?i)^(season|year|date|month|week|day)$|_(season|year|date|month|week|day)$|^(season|year|date|month|week|day)_`)
	numericDBTypes    = map[string]bool{
		"INT2": true, "INT4": true, "INT8": true, "INTEGER": true, "BIGINT": true, "SMALLINT": true,
		"FLOAT4": true, "FLOAT8": true, "REAL": true, "DOUBLE": true, "NUMERIC": true, "DECIMAL": true,
	}
	temporalDBTypes = map[string]bool{
		"DATE": true, "TIME": true, "TIMESTAMP": true, "TIMESTAMPTZ": true, "TIMETZ": true,
	}
	textDBTypes = map[string]bool{
		"TEXT": true, "VARCHAR": true, "BPCHAR": true, "CHAR": true, "NAME": true,
	}
)

// ClassifyColumn assigns the chart-facing column type once, at
// materialization time. Temporal wins over numeric so that a "year"
// integer column can serve as a trend axis.
func ClassifyColumn(name, dbType string) models.ColumnType {
	dbType = strings.ToUpper(dbType)

	if temporalNameRegex.MatchString(name) || temporalDBTypes[dbType] {
		return models.ColumnTemporal
	}
	if numericDBTypes[dbType] {
		return models.ColumnNumeric
	}
	if textDBTypes[dbType] {
		return models.ColumnCategorical
	}
	return models.ColumnOther
}
