package directory

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

var exportColumns = []struct {
	title string
	width float64
}{
	{"Name", 45},
	{"Email", 60},
	{"Department", 35},
	{"Role", 30},
	{"Phone", 20},
}

// ExportPDF writes the directory listing as an A4 table.
func (s *Service) ExportPDF(ctx context.Context, w io.Writer) error {
	entries, err := s.List(ctx)
	if err != nil {
		return err
	}
	return RenderPDF(w, entries, time.Now())
}

func RenderPDF(w io.Writer, entries []Entry, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Employee directory", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Employee directory")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s, %d employees", generatedAt.UTC().Format(time.RFC3339), len(entries)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range exportColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, e := range entries {
		values := []string{e.Name, e.Email, e.Department, e.Role, e.PhoneNumber}
		for i, col := range exportColumns {
			pdf.CellFormat(col.width, 6, tr(values[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
