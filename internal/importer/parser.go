package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	enc "github.com/MrJamesThe3rd/tally/internal/encoding"
	"github.com/MrJamesThe3rd/tally/internal/record"
)

var ErrUnknownFormat = errors.New("no matching CSV format")

// separators are tried in order until one yields a known header.
var separators = []rune{';', ','}

// Parser reads CSV exports and produces record params. It auto-detects the
// layout by matching column headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse returns one entry per data row. Entries from unsigned layouts carry an
// empty Kind; signed and split layouts set it from the amount's direction.
func (p *Parser) Parse(r io.Reader) ([]record.CreateParams, error) {
	utf8r, charset, err := enc.Detect(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	slog.Debug("decoding import", "charset", charset)

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	for _, sep := range separators {
		rows, err := readRows(data, sep)
		if err != nil {
			return nil, err
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		slog.Debug("matched import format", "profile", profile.Name, "separator", string(sep))

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx)
	}

	return nil, ErrUnknownFormat
}

func readRows(data []byte, sep rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

func (c colIndex) index(name string) int {
	if name == "" {
		return -1
	}

	if i, ok := c[name]; ok {
		return i
	}

	return -1
}

// detectProfile scans rows for a header that matches a known profile.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts entries using the matched profile.
// headerRowNum is the 0-based index of the header in the file, used for error messages.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]record.CreateParams, error) {
	var (
		dateIdx    = cols.index(p.DateCol)
		labelIdx   = cols.index(p.LabelCol)
		paymentIdx = cols.index(p.PaymentCol)
		commentIdx = cols.index(p.CommentCol)
	)

	var entries []record.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		s := cellValue(row, dateIdx)
		if s == "" {
			continue
		}

		date, ok := p.parseDate(s)
		if !ok {
			continue
		}

		label := cellValue(row, labelIdx)
		if label == "" {
			return nil, fmt.Errorf("row %d: missing %s", rowNum, p.LabelCol)
		}

		amount, kind, ok, err := rowAmount(p, cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if !ok {
			continue
		}

		entries = append(entries, record.CreateParams{
			Kind:          kind,
			Amount:        amount,
			Label:         label,
			PaymentMethod: cellValue(row, paymentIdx),
			Comment:       cellValue(row, commentIdx),
			Date:          date,
		})
	}

	return entries, nil
}

// rowAmount extracts the amount and, for signed layouts, the kind. A false ok
// with a nil error means the row carries no movement and is skipped.
func rowAmount(p *Profile, cols colIndex, row []string) (int64, record.Kind, bool, error) {
	switch p.AmountMode {
	case amountUnsigned:
		s := cellValue(row, cols.index(p.AmountCol))

		cents, err := parseAmount(s)
		if err != nil {
			return 0, "", false, fmt.Errorf("invalid amount %q", s)
		}

		if cents <= 0 {
			return 0, "", false, fmt.Errorf("amount must be positive, got %q", s)
		}

		return cents, "", true, nil
	case amountSigned:
		amount, kind, ok := parseSignedAmount(row, cols.index(p.AmountCol))
		return amount, kind, ok, nil
	case amountSplit:
		amount, kind, ok := parseSplitAmount(row, cols.index(p.DebitCol), cols.index(p.CreditCol))
		return amount, kind, ok, nil
	}

	return 0, "", false, nil
}

// parseSignedAmount handles a single signed amount column.
func parseSignedAmount(row []string, idx int) (int64, record.Kind, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return 0, "", false
	}

	cents, err := parseAmount(s)
	if err != nil || cents == 0 {
		return 0, "", false
	}

	if cents < 0 {
		return -cents, record.KindExpense, true
	}

	return cents, record.KindIncome, true
}

// parseSplitAmount handles separate debit/credit columns.
func parseSplitAmount(row []string, debitIdx, creditIdx int) (int64, record.Kind, bool) {
	if s := cellValue(row, debitIdx); s != "" {
		cents, err := parseAmount(s)
		if err == nil && cents != 0 {
			return abs(cents), record.KindExpense, true
		}
	}

	if s := cellValue(row, creditIdx); s != "" {
		cents, err := parseAmount(s)
		if err == nil && cents != 0 {
			return abs(cents), record.KindIncome, true
		}
	}

	return 0, "", false
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
