package letter

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"appraise/internal/domain/appraisal"
)

// Outcome renders the decision letter handed to the employee once an
// appraisal outcome has been communicated.
func Outcome(a appraisal.Appraisal) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Performance Appraisal Outcome")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Reference: %s", a.Reference))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", a.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Appraisal type: %s", a.Type))
	pdf.Ln(10)

	if a.PercentageScore != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Final score: %d%%", *a.PercentageScore))
		pdf.Ln(7)
	}
	if a.PerformanceLevel != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Performance level: %s", *a.PerformanceLevel))
		pdf.Ln(7)
	}
	if a.Recommendation != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Recommendation: %s", *a.Recommendation))
		pdf.Ln(7)
	}
	if a.ApprovalDecision != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Decision: %s", *a.ApprovalDecision))
		pdf.Ln(7)
	}
	if a.ApprovedAt != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Approved: %s", a.ApprovedAt.Format("2006-01-02")))
		pdf.Ln(7)
	}
	pdf.Ln(5)
	pdf.Cell(0, 8, fmt.Sprintf("Issued: %s", time.Now().UTC().Format("2006-01-02")))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
