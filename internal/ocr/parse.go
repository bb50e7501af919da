package ocr

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// LineItem is a single billed service parsed from OCR text
type LineItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// BillData contains the structured result of parsing a bill's OCR text
type BillData struct {
	RawText    string     `json:"raw_text"`
	Services   []LineItem `json:"services"`
	TotalPrice *float64   `json:"total_price"`
	Date       *string    `json:"date"`
	Success    bool       `json:"success"`
	Message    string     `json:"message"`
}

var (
	// A monetary token: optional currency symbol, digits, optional fraction
	// of exactly two digits.
	amountPattern = regexp.MustCompile(`[$€£]?\s*\d+(?:\.\d{2})?`)

	// Numeric date groups separated by / - or . (e.g. 03/14/2024, 2024-03-14)
	numericDatePattern = regexp.MustCompile(`\b\d{1,4}[/\-.]\d{1,2}[/\-.]\d{2,4}\b`)

	// Month-name dates (e.g. March 14, 2024)
	monthDatePattern = regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`)
)

// totalMarkers classify a line as the bill total rather than a service.
// Matched case-insensitively against the line with its amount removed.
var totalMarkers = []string{"total", "amount due", "balance due"}

// ParseBill applies the line-oriented extraction rules to raw OCR text.
// This is a best-effort heuristic over noisy output: lines carrying more
// than one monetary token (quantities, reference numbers, dates) are
// deliberately skipped rather than guessed at. It never returns an error;
// text with no extractable structure yields Success=false.
func ParseBill(rawText string) BillData {
	result := BillData{
		RawText:  strings.TrimSpace(rawText),
		Services: []LineItem{},
	}

	var markerTotal *decimal.Decimal
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name, amount, ok := splitAmountLine(line)
		if !ok {
			continue
		}
		if isTotalLine(name) {
			if markerTotal == nil {
				markerTotal = &amount
			}
			continue
		}
		price, _ := amount.Round(2).Float64()
		result.Services = append(result.Services, LineItem{Name: name, Price: price})
	}

	if date, ok := firstDate(rawText); ok {
		result.Date = &date
	}

	switch {
	case markerTotal != nil:
		total, _ := markerTotal.Round(2).Float64()
		result.TotalPrice = &total
	case len(result.Services) > 0:
		sum := decimal.Zero
		for _, item := range result.Services {
			sum = sum.Add(decimal.NewFromFloat(item.Price))
		}
		total, _ := sum.Round(2).Float64()
		result.TotalPrice = &total
	}

	if len(result.Services) > 0 || result.TotalPrice != nil || result.Date != nil {
		result.Success = true
		result.Message = "bill parsed successfully"
	} else {
		result.Message = "no structured data could be extracted from the text"
	}
	return result
}

// splitAmountLine extracts the single monetary token from a line. A line
// qualifies only when it holds exactly one token and non-empty descriptive
// text remains once the token is removed.
func splitAmountLine(line string) (string, decimal.Decimal, bool) {
	spans := amountPattern.FindAllStringIndex(line, -1)
	if len(spans) != 1 {
		return "", decimal.Decimal{}, false
	}

	start, end := spans[0][0], spans[0][1]
	name := strings.Trim(line[:start]+line[end:], " \t:-")
	if name == "" {
		return "", decimal.Decimal{}, false
	}

	raw := strings.TrimLeft(line[start:end], "$€£ \t")
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return "", decimal.Decimal{}, false
	}
	return name, amount, true
}

// isTotalLine reports whether the amount-stripped remainder of a line
// carries a total marker keyword.
func isTotalLine(remainder string) bool {
	lower := strings.ToLower(remainder)
	for _, marker := range totalMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// firstDate finds the earliest date-shaped token in document order,
// returned in its original textual form.
func firstDate(text string) (string, bool) {
	best := -1
	var match string
	for _, pattern := range []*regexp.Regexp{numericDatePattern, monthDatePattern} {
		if loc := pattern.FindStringIndex(text); loc != nil {
			if best == -1 || loc[0] < best {
				best = loc[0]
				match = text[loc[0]:loc[1]]
			}
		}
	}
	return match, best != -1
}
