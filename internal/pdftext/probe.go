package pdftext

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Prober checks a document before its text is read.
type Prober interface {
	Probe(path string) (pages int, err error)
}

// PdfcpuProber validates documents with pdfcpu in relaxed mode and reports
// their page count.
type PdfcpuProber struct {
	conf *model.Configuration
}

// NewPdfcpuProber returns a prober using relaxed validation.
func NewPdfcpuProber() *PdfcpuProber {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PdfcpuProber{conf: conf}
}

// Probe validates path and returns its page count. Validation failures wrap
// ErrInvalidPDF.
func (p *PdfcpuProber) Probe(path string) (int, error) {
	if err := api.ValidateFile(path, p.conf); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidPDF, path, err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: page count: %v", ErrInvalidPDF, path, err)
	}
	return pages, nil
}
