package report

import (
	"html/template"
	"math"
	"strconv"
	"time"
)

const dateLayout = "January 2, 2006"

// FormatDate renders t as e.g. "January 22, 2026" in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// RoundScore rounds half away from zero and formats the result without a
// fraction. Values are not clamped to 0-100.
func RoundScore(score float64) string {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return "0"
	}
	rounded := math.Round(score)
	if rounded == 0 {
		rounded = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(rounded, 'f', 0, 64)
}

func ScoreColor(score float64) string {
	switch {
	case score >= 80:
		return "#22C55E"
	case score >= 60:
		return "#00AFDB"
	case score >= 40:
		return "#F59E0B"
	default:
		return "#EF4444"
	}
}

func ScoreLabel(score float64) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

var templateFuncs = template.FuncMap{
	"formatDate": FormatDate,
	"round":      RoundScore,
	"scoreLabel": ScoreLabel,
	"scoreColor": func(score float64) template.CSS {
		return template.CSS(ScoreColor(score))
	},
	"add1": func(i int) int { return i + 1 },
}
