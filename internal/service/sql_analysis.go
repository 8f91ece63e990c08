package service

import (
	"regexp"
	"strings"

	"courtside-backend/internal/models"
)

var (
	sqlLineComment  = regexp.MustCompile(`--[^\n]*`)
	sqlBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	sqlStringLit    = regexp.MustCompile(`'(?:[^']|'')*'`)
	sqlAggregate    = regexp.MustCompile(`\b(sum|avg|count|max|min)\s*\(`)
	sqlOrderBy      = regexp.MustCompile(`\border\s+by\b`)
	sqlGroupBy      = regexp.MustCompile(`\bgroup\s+by\b`)
	sqlLimit        = regexp.MustCompile(`\blimit\s+\d+`)
	sqlTemporalName = regexp.MustCompile(`\b(season|year|date|month|week|day)\w*\b`)
)

// AnalyzeSQL derives a structural summary from the generated SQL and the
// typed result set. Matching is case-insensitive and ignores string
// literals and comments.
func AnalyzeSQL(sqlText string, rs *models.ResultSet) models.SQLAnalysis {
	cleaned := strings.ToLower(sqlText)
	cleaned = sqlBlockComment.ReplaceAllString(cleaned, " ")
	cleaned = sqlLineComment.ReplaceAllString(cleaned, " ")
	cleaned = sqlStringLit.ReplaceAllString(cleaned, " ")

	analysis := models.SQLAnalysis{
		HasGroupBy:     sqlGroupBy.MatchString(cleaned),
		HasOrderLimit:  sqlOrderBy.MatchString(cleaned) && sqlLimit.MatchString(cleaned),
		HasAggregation: sqlAggregate.MatchString(cleaned),
	}

	// A trend axis exists when the result set carries a temporal column or
	// the SQL projects/groups a temporal-looking name.
	if len(rs.TemporalCols) > 0 || sqlTemporalName.MatchString(cleaned) {
		analysis.HasTemporalColumn = true
	}

	analysis.NumericProjections = len(rs.NumericCols)

	return analysis
}
