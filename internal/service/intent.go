package service

import (
	"strings"

	"courtside-backend/internal/models"
)

// ScoreConfig holds the keyword and weight tables driving intent scoring.
// The magnitudes are tuned, not derived; the contract is the relative
// ordering: explicit request > structural fit > keyword score > table
// baseline. Injected at construction so tests can substitute tables.
type ScoreConfig struct {
	KeywordWeight    float64
	StructuralWeight float64
	TableBaseline    float64

	// MultiLineNoGroupFactor discounts multi_line when the result has no
	// categorical column to split series on.
	MultiLineNoGroupFactor float64

	Keywords map[models.IntentCategory][]string

	// ExplicitPhrases maps chart-request phrases to chart types. Scanned
	// in order; the first match wins.
	ExplicitPhrases []ExplicitPhrase
}

// ExplicitPhrase pairs a user phrase with the chart type it demands.
type ExplicitPhrase struct {
	Phrase string
	Type   models.ChartType
}

// DefaultScoreConfig returns the production keyword and weight tables.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		KeywordWeight:          1.0,
		StructuralWeight:       0.5,
		TableBaseline:          0.1,
		MultiLineNoGroupFactor: 0.3,
		Keywords: map[models.IntentCategory][]string{
			models.IntentComparison: {
				"top", "bottom", "compare", "rank", "most", "least", "highest", "lowest",
			},
			models.IntentTrend: {
				"trend", "over time", "across season", "by year", "growth", "change",
			},
			models.IntentDistribution: {
				"breakdown", "percentage", "share", "proportion", "distribution",
			},
			models.IntentCorrelation: {
				"correlation", "relationship", "versus", "vs", "relation between",
			},
		},
		ExplicitPhrases: []ExplicitPhrase{
			{"bar chart", models.ChartBar},
			{"bar graph", models.ChartBar},
			{"multi line chart", models.ChartMultiLine},
			{"multi-line chart", models.ChartMultiLine},
			{"line chart", models.ChartLine},
			{"line graph", models.ChartLine},
			{"pie chart", models.ChartPie},
			{"bubble chart", models.ChartBubble},
			{"scatter chart", models.ChartBubble},
			{"as a table", models.ChartTable},
			{"in a table", models.ChartTable},
			{"show table", models.ChartTable},
		},
	}
}

// categoryPriority is the fixed tie-break order for the primary intent.
var categoryPriority = []models.IntentCategory{
	models.IntentTrend,
	models.IntentComparison,
	models.IntentDistribution,
	models.IntentCorrelation,
}

// Minimum and maximum distinct categories a pie slice set may have.
const (
	pieMinCategories = 3
	pieMaxCategories = 12
)

// bubbleMinNumeric is the numeric column count a bubble chart needs
// (x, y and size).
const bubbleMinNumeric = 3

// IntentAnalyzer scores chart categories from query text and result
// structure. Stateless apart from its immutable config.
type IntentAnalyzer struct {
	config ScoreConfig
}

// NewIntentAnalyzer creates an analyzer with the given score tables.
func NewIntentAnalyzer(config ScoreConfig) *IntentAnalyzer {
	return &IntentAnalyzer{config: config}
}

// Analyze scores the query against keyword tables and SQL structure. It
// never fails; a query with no signal yields the table baseline only.
func (a *IntentAnalyzer) Analyze(queryText, sqlText string, rs *models.ResultSet) models.Intent {
	lowered := strings.ToLower(queryText)

	// 1. Keyword scores per category.
	catScores := make(map[models.IntentCategory]float64)
	for cat, words := range a.config.Keywords {
		for _, w := range words {
			if containsWord(lowered, w) {
				catScores[cat] += a.config.KeywordWeight
			}
		}
	}

	// 2. Structural boosts from the SQL shape.
	analysis := AnalyzeSQL(sqlText, rs)
	if analysis.HasOrderLimit {
		catScores[models.IntentComparison] += a.config.StructuralWeight
	}
	if analysis.HasTemporalColumn {
		catScores[models.IntentTrend] += a.config.StructuralWeight
	}
	if analysis.HasAggregation {
		catScores[models.IntentComparison] += a.config.StructuralWeight
		catScores[models.IntentDistribution] += a.config.StructuralWeight
	}
	if analysis.NumericProjections >= bubbleMinNumeric && len(rs.CategoricalCols) == 1 {
		catScores[models.IntentCorrelation] += a.config.StructuralWeight
	}

	// 3. Map category scores onto chart-type scores.
	scores := make(map[models.ChartType]float64)
	trend := catScores[models.IntentTrend]
	if trend > 0 {
		scores[models.ChartLine] = trend
		factor := a.config.MultiLineNoGroupFactor
		if len(rs.CategoricalCols) > 0 {
			factor = 1.0
		}
		scores[models.ChartMultiLine] = trend * factor
	}
	if comparison := catScores[models.IntentComparison]; comparison > 0 {
		scores[models.ChartBar] = comparison
	}
	if distribution := catScores[models.IntentDistribution]; distribution > 0 {
		if n := distinctCategoryCount(rs); n >= pieMinCategories && n <= pieMaxCategories {
			scores[models.ChartPie] = distribution
		}
	}
	if correlation := catScores[models.IntentCorrelation]; correlation > 0 {
		if len(rs.NumericCols) >= bubbleMinNumeric {
			scores[models.ChartBubble] = correlation
		}
	}
	// Table always keeps a small baseline so the fallback is never
	// literally zero.
	scores[models.ChartTable] = a.config.TableBaseline

	intent := models.Intent{
		Scores: scores,
		SQL:    analysis,
	}

	// 4. Explicit chart request overrides all scoring.
	if phrase, ok := a.detectExplicit(lowered); ok {
		intent.ExplicitRequest = true
		intent.ExplicitType = phrase
		maxScore := 0.0
		for _, s := range scores {
			if s > maxScore {
				maxScore = s
			}
		}
		scores[phrase] = maxScore + 1
	}

	// 5. Primary intent is the argmax category, ties broken by the fixed
	// priority order.
	intent.PrimaryIntent = primaryCategory(catScores)

	return intent
}

func (a *IntentAnalyzer) detectExplicit(lowered string) (models.ChartType, bool) {
	for _, p := range a.config.ExplicitPhrases {
		if strings.Contains(lowered, p.Phrase) {
			return p.Type, true
		}
	}
	return "", false
}

func primaryCategory(catScores map[models.IntentCategory]float64) models.IntentCategory {
	best := models.IntentNone
	bestScore := 0.0
	for _, cat := range categoryPriority {
		if s := catScores[cat]; s > bestScore {
			best = cat
			bestScore = s
		}
	}
	return best
}

// containsWord matches single keywords on word boundaries and multi-word
// phrases as substrings, so "most" does not fire on "almost".
func containsWord(text, keyword string) bool {
	if strings.Contains(keyword, " ") {
		return strings.Contains(text, keyword)
	}
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool {
		return !isWordRune(r)
	}) {
		if tok == keyword {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

func distinctCategoryCount(rs *models.ResultSet) int {
	if len(rs.CategoricalCols) == 0 {
		return 0
	}
	return len(rs.DistinctValues(rs.CategoricalCols[0]))
}
