package entities

import (
	"regexp"
	"strings"
)

var (
	sqlTableRe = regexp.MustCompile(`(?i)(?:from|tabel[ai]|tabeli|tabelę|table|into|update)\s+["'` + "`" + `]?([a-zA-Z_][a-zA-Z0-9_]*)["'` + "`" + `]?`)
	sqlLimitRe = regexp.MustCompile(`(?i)(?:limit|top|pierwsze|pierwszych|first|last)\s+(\d+)`)
	sqlWhereRe = regexp.MustCompile(`(?i)(?:where|gdzie|dla ktorych|dla których)\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:=|jest|equals?|wynosi)\s*["']?([a-zA-Z0-9_@.\-]+)["']?`)
	sqlOrderRe = regexp.MustCompile(`(?i)(?:order by|posortuj po|sortuj po|sorted by|sort by)\s+([a-zA-Z_][a-zA-Z0-9_]*)(\s+(?:desc|malejaco|malejąco))?`)
	sqlAggRe   = regexp.MustCompile(`(?i)\b(count|sum|avg|min|max|policz|zlicz|suma|srednia|średnia)\b`)
)

// sqlAggCanonical maps matched aggregation words to SQL function names.
var sqlAggCanonical = map[string]string{
	"policz":  "COUNT",
	"zlicz":   "COUNT",
	"count":   "COUNT",
	"suma":    "SUM",
	"sum":     "SUM",
	"srednia": "AVG",
	"średnia": "AVG",
	"avg":     "AVG",
	"min":     "MIN",
	"max":     "MAX",
}

// ExtractSQL pulls table, limit, where pair, ordering and aggregation
// fields out of a SQL-flavored request.
func ExtractSQL(text string) map[string]string {
	out := map[string]string{}

	if m := sqlTableRe.FindStringSubmatch(text); m != nil {
		out["table"] = strings.ToLower(m[1])
	}
	if m := sqlLimitRe.FindStringSubmatch(text); m != nil {
		out["limit"] = m[1]
	}
	if m := sqlWhereRe.FindStringSubmatch(text); m != nil {
		out["where_field"] = strings.ToLower(m[1])
		out["where_value"] = m[2]
	}
	if m := sqlOrderRe.FindStringSubmatch(text); m != nil {
		out["order_by"] = strings.ToLower(m[1])
		if strings.TrimSpace(m[2]) != "" {
			out["order_direction"] = "DESC"
		}
	}
	if m := sqlAggRe.FindStringSubmatch(text); m != nil {
		if fn, ok := sqlAggCanonical[strings.ToLower(m[1])]; ok {
			out["aggregation"] = fn
		}
	}

	return out
}
