package slipsvc

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"github.com/sakshiyadav/vidya/core/fee"
)

// pdfRenderer draws a one-page A4 fee slip.
type pdfRenderer struct{}

var _ fee.SlipRenderer = (*pdfRenderer)(nil)

func NewPDFRenderer() fee.SlipRenderer {
	return &pdfRenderer{}
}

const (
	pageMargin   = 20.0
	contentWidth = 170.0 // A4 width minus margins
)

func (r *pdfRenderer) Render(s fee.Slip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.AddPage()

	r.header(pdf, s)
	r.details(pdf, s)
	r.feeBox(pdf, s)
	if s.HasBreakdown() {
		r.breakdown(pdf, s)
	}
	r.notes(pdf)
	r.footer(pdf, s)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(fee.ErrRenderFailed, err.Error())
	}
	return buf.Bytes(), nil
}

func (r *pdfRenderer) header(pdf *gofpdf.Fpdf, s fee.Slip) {
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(40, 116, 240)
	pdf.CellFormat(contentWidth, 12, s.Org.Name, "", 1, "C", false, 0, "")

	if s.Org.Tagline != "" {
		pdf.SetFont("Arial", "I", 11)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(contentWidth, 6, s.Org.Tagline, "", 1, "C", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetDrawColor(40, 116, 240)
	pdf.SetLineWidth(0.6)
	pdf.Line(pageMargin, pdf.GetY(), pageMargin+contentWidth, pdf.GetY())
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(60, 60, 60)
	for _, line := range []string{s.Org.Phone, s.Org.AddressLine1, s.Org.AddressLine2, s.Org.Email} {
		if line == "" {
			continue
		}
		pdf.CellFormat(contentWidth, 5, line, "", 1, "C", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetLineWidth(0.2)
	pdf.Line(pageMargin, pdf.GetY(), pageMargin+contentWidth, pdf.GetY())
	pdf.Ln(6)
}

func (r *pdfRenderer) details(pdf *gofpdf.Fpdf, s fee.Slip) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(contentWidth, 8, "Fee Structure Details", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	rows := [][2]string{
		{"Class/Grade:", string(s.Fee.Grade)},
		{"Educational Board:", fmt.Sprintf("%s Board", s.Fee.Board)},
		{"Academic Session:", s.Org.AcademicSession},
		{"Issue Date:", s.IssueDate()},
	}
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(55, 7, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(contentWidth-55, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func (r *pdfRenderer) feeBox(pdf *gofpdf.Fpdf, s fee.Slip) {
	pdf.SetFillColor(245, 247, 250)
	pdf.SetDrawColor(220, 225, 232)
	pdf.SetLineWidth(0.3)

	y := pdf.GetY()
	pdf.Rect(pageMargin, y, contentWidth, 22, "FD")

	pdf.SetY(y + 6)
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(70, 10, "Monthly Fee:", "", 0, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(220, 38, 127)
	pdf.CellFormat(contentWidth-70, 10, fee.FormatRupees(s.Fee.TotalFee), "", 1, "R", false, 0, "")

	pdf.SetY(y + 22)
	pdf.Ln(6)
}

func (r *pdfRenderer) breakdown(pdf *gofpdf.Fpdf, s fee.Slip) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(contentWidth, 7, "Fee Breakdown", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	items := []struct {
		label  string
		amount int
	}{
		{"Monthly Tuition Fee", s.Fee.MonthlyFee},
		{"Lab Fee", s.Fee.LabFee},
		{"Library Fee", s.Fee.LibraryFee},
		{"Sports Fee", s.Fee.SportsFee},
		{"Miscellaneous Fee", s.Fee.MiscFee},
	}
	pdf.SetTextColor(60, 60, 60)
	for _, item := range items {
		if item.amount == 0 {
			continue
		}
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(100, 6, item.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentWidth-100, 6, fee.FormatRupees(item.amount), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.SetDrawColor(220, 225, 232)
	pdf.Line(pageMargin, pdf.GetY(), pageMargin+contentWidth, pdf.GetY())
	pdf.Ln(1)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(100, 6, "Total Monthly Fee", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentWidth-100, 6, fee.FormatRupees(s.Fee.TotalFee), "", 1, "R", false, 0, "")
	pdf.Ln(6)
}

func (r *pdfRenderer) notes(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(contentWidth, 7, "Important Notes:", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	notes := []string{
		"Fee must be paid by the 5th of every month.",
		"Late payment will attract additional charges.",
		"Fee once paid is non-refundable.",
		"Fee structure is subject to annual review.",
		"For any queries, please contact the administration office.",
	}
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(60, 60, 60)
	for _, note := range notes {
		pdf.CellFormat(5, 5, "-", "", 0, "L", false, 0, "")
		pdf.MultiCell(contentWidth-5, 5, note, "", "L", false)
	}
}

func (r *pdfRenderer) footer(pdf *gofpdf.Fpdf, s fee.Slip) {
	pdf.SetY(-35)
	pdf.SetDrawColor(220, 225, 232)
	pdf.SetLineWidth(0.2)
	pdf.Line(pageMargin, pdf.GetY(), pageMargin+contentWidth, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Arial", "I", 9)
	pdf.SetTextColor(130, 130, 130)
	footer := fmt.Sprintf("Generated on %s - %s Fee Management System", s.IssueDate(), s.Org.Name)
	pdf.CellFormat(contentWidth, 5, footer, "", 1, "C", false, 0, "")
}
