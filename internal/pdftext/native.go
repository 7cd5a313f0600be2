package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/dslipak/pdf"
)

const (
	// rowTolerance is the vertical distance (in points) within which glyphs
	// are treated as one text line.
	rowTolerance = 2.0

	// spaceFactor times the font size is the horizontal gap that starts a
	// new word.
	spaceFactor = 0.15
)

// NativeSource decodes documents with github.com/dslipak/pdf and rebuilds
// text lines from glyph positions.
type NativeSource struct {
	logger *slog.Logger
}

// NewNativeSource returns a NativeSource. A nil logger uses slog.Default().
func NewNativeSource(logger *slog.Logger) *NativeSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &NativeSource{logger: logger}
}

// PageTexts returns one string per page. Panics raised by the decoder on
// malformed content are reported as ErrDecode.
func (s *NativeSource) PageTexts(ctx context.Context, path string) (pages []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: %s: %v", ErrDecode, path, r)
		}
	}()

	r, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, layoutText(p.Content().Text))
	}

	if n > 0 && allBlank(pages) {
		return nil, fmt.Errorf("%w: %s", ErrNoTextLayer, path)
	}

	s.logger.Debug("pdf decoded", "path", path, "pages", n)
	return pages, nil
}

// layoutText orders glyph runs top to bottom, then left to right, and joins
// them into newline separated rows.
func layoutText(texts []pdf.Text) string {
	if len(texts) == 0 {
		return ""
	}

	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	// PDF y grows upwards.
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var rows [][]pdf.Text
	for _, t := range sorted {
		n := len(rows)
		if n > 0 && math.Abs(rows[n-1][0].Y-t.Y) <= rowTolerance {
			rows[n-1] = append(rows[n-1], t)
			continue
		}
		rows = append(rows, []pdf.Text{t})
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		lines = append(lines, joinRow(row))
	}
	return strings.Join(lines, "\n")
}

func joinRow(row []pdf.Text) string {
	var b strings.Builder
	for i, t := range row {
		if i > 0 {
			prev := row[i-1]
			gap := t.X - (prev.X + prev.W)
			threshold := math.Max(1, spaceFactor*t.FontSize)
			if gap > threshold && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(t.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
	}
	return b.String()
}
