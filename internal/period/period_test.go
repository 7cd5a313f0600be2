package period

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Period
		ok       bool
	}{
		{name: "spaced", filename: "7002 10-2025A+11-2025B.pdf", want: Period{MonthA: 10, MonthB: 11}, ok: true},
		{name: "underscores", filename: "7002_10-2025A+11-2025B__.pdf", want: Period{MonthA: 10, MonthB: 11}, ok: true},
		{name: "whitespace around markers", filename: "7002 12-2025 A + 01-2026 B .pdf", want: Period{MonthA: 12, MonthB: 1}, ok: true},
		{name: "first match wins", filename: "01-2025A+02-2025B 03-2025A+04-2025B.pdf", want: Period{MonthA: 1, MonthB: 2}, ok: true},
		{name: "missing B marker", filename: "7002 10-2025A+11-2025.pdf"},
		{name: "no period", filename: "Anschreiben.pdf"},
		{name: "month out of range", filename: "7002 13-2025A+11-2025B.pdf"},
		{name: "zero month", filename: "7002 00-2025A+11-2025B.pdf"},
		{name: "empty", filename: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.filename)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriodFor(t *testing.T) {
	p := Period{MonthA: 10, MonthB: 11}
	kw := DefaultKeywords()

	assert.Equal(t, 10, p.For("Vergütung Oktober", kw))
	assert.Equal(t, 10, p.For("NACHZAHLUNG VERGÜTUNG", kw))
	assert.Equal(t, 11, p.For("Besoldung November", kw))
	assert.Equal(t, 11, p.For("Anwärterbesoldung", kw))
	assert.Equal(t, 10, p.For("Verbleibender Betrag", kw), "unmatched labels fall back to month A")
	assert.Equal(t, 10, p.For("Vergütung und Besoldung", kw), "A token is checked first")
}

func TestPeriodForCustomKeywords(t *testing.T) {
	p := Period{MonthA: 3, MonthB: 4}
	kw := Keywords{CompensationA: "Entgelt", CompensationB: "Bezüge"}

	assert.Equal(t, 3, p.For("entgelt März", kw))
	assert.Equal(t, 4, p.For("BEZÜGE April", kw))
}

func TestUnknownPeriodYieldsZero(t *testing.T) {
	var p Period
	assert.Equal(t, 0, p.For("Besoldung", DefaultKeywords()))
}
