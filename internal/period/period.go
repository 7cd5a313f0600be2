// Package period derives booking months from payroll document file names.
//
// Documents are named like "7002 10-2025A+11-2025B.pdf": the month before the
// "A" marker is the period for compensation-type A lines, the month before
// "B" the period for compensation-type B lines.
package period

import (
	"regexp"
	"strconv"
	"strings"
)

var filenamePattern = regexp.MustCompile(`(\d{2})-\d{4}\s*A\s*\+\s*(\d{2})-\d{4}\s*B`)

// Period holds the two booking months encoded in a file name.
type Period struct {
	MonthA int
	MonthB int
}

// Keywords are the lower-case label tokens selecting month A or month B.
type Keywords struct {
	CompensationA string
	CompensationB string
}

// DefaultKeywords returns the tokens used on the payroll letters.
func DefaultKeywords() Keywords {
	return Keywords{
		CompensationA: "vergütung",
		CompensationB: "besoldung",
	}
}

// Parse extracts the A and B months from filename. Only the first match is
// considered. It returns false when the pattern is missing or a month is not
// in 1-12.
func Parse(filename string) (Period, bool) {
	m := filenamePattern.FindStringSubmatch(filename)
	if m == nil {
		return Period{}, false
	}

	a, errA := strconv.Atoi(m[1])
	b, errB := strconv.Atoi(m[2])
	if errA != nil || errB != nil || !validMonth(a) || !validMonth(b) {
		return Period{}, false
	}

	return Period{MonthA: a, MonthB: b}, true
}

// For returns the booking month for a line label. Labels containing the A
// token get MonthA, labels containing the B token get MonthB, and anything
// else falls back to MonthA. The A token is checked first.
func (p Period) For(label string, kw Keywords) int {
	lower := strings.ToLower(label)
	a, b := strings.ToLower(kw.CompensationA), strings.ToLower(kw.CompensationB)
	switch {
	case a != "" && strings.Contains(lower, a):
		return p.MonthA
	case b != "" && strings.Contains(lower, b):
		return p.MonthB
	default:
		return p.MonthA
	}
}

func validMonth(m int) bool {
	return m >= 1 && m <= 12
}
