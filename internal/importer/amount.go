package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount parses a decimal amount into cents. Either "," or "." may be the
// decimal separator; the one appearing last wins and the other is treated as a
// thousands separator. Examples: "12.50", "12,50", "1.234,56", "1,234.56".
func parseAmount(s string) (int64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), " ", "")

	lastDot := strings.LastIndex(clean, ".")
	lastComma := strings.LastIndex(clean, ",")

	switch {
	case lastComma > lastDot && (lastDot != -1 || strings.Count(clean, ",") == 1):
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case lastDot == -1:
		clean = strings.ReplaceAll(clean, ",", "")
	case strings.Count(clean, ".") > 1 && lastComma == -1:
		clean = strings.ReplaceAll(clean, ".", "")
	default:
		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}
