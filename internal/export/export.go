// Package export renders a user's measurement history and monthly statistics
// as downloadable documents.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/phrazzld/bmi-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Format is a supported export document type.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// Sheet names in the XLSX document.
const (
	HistorySheet    = "history"
	StatisticsSheet = "statistics"
)

// ErrUnsupportedFormat is returned by ParseFormat for unknown formats.
var ErrUnsupportedFormat = fmt.Errorf("unsupported export format: %w", domain.ErrValidation)

// ParseFormat validates a format name. An empty name selects XLSX.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", domain.NewValidationError("format", "must be one of xlsx, pdf", ErrUnsupportedFormat)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Report is the content of one export document.
type Report struct {
	Owner      string
	History    []*domain.Measurement
	Statistics *domain.Statistics
}

// Build renders the report in the given format.
func Build(f Format, r Report) ([]byte, error) {
	if f == FormatPDF {
		return BuildPDF(r)
	}
	return BuildXLSX(r)
}

var historyHeader = []string{"Recorded at", "Weight (kg)", "Height (m)", "BMI", "Category"}

// BuildXLSX renders a workbook with a history sheet and a statistics sheet.
// The owner, when known, goes into the workbook properties.
func BuildXLSX(r Report) ([]byte, error) {
	history, stats := r.History, r.Statistics
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", HistorySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(StatisticsSheet); err != nil {
		return nil, err
	}
	if r.Owner != "" {
		if err := f.SetDocProps(&excelize.DocProperties{Title: "BMI Report", Creator: r.Owner}); err != nil {
			return nil, err
		}
	}

	if err := f.SetSheetRow(HistorySheet, "A1", &historyHeader); err != nil {
		return nil, err
	}
	for i, m := range history {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			m.RecordedAt.UTC().Format(time.RFC3339),
			m.WeightKg.InexactFloat64(),
			m.HeightM.InexactFloat64(),
			m.BMI.InexactFloat64(),
			m.Category.String(),
		}
		if err := f.SetSheetRow(HistorySheet, cell, &row); err != nil {
			return nil, err
		}
	}

	statsHeader := []string{"Month", "Average BMI", "Average weight (kg)"}
	if err := f.SetSheetRow(StatisticsSheet, "A1", &statsHeader); err != nil {
		return nil, err
	}
	for i, row := range statisticsRows(stats) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []any{row.month, row.bmi, row.weight}
		if err := f.SetSheetRow(StatisticsSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildPDF renders a single document with the statistics table followed by
// the history table.
func BuildPDF(r Report) ([]byte, error) {
	history, stats := r.History, r.Statistics
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "BMI Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	if r.Owner != "" {
		pdf.SetAuthor(r.Owner, true)
		pdf.Cell(0, 6, "Owner: "+r.Owner)
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Measurements: %d", len(history)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 6, "Month", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Average BMI", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Average weight (kg)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, row := range statisticsRows(stats) {
		pdf.CellFormat(50, 6, row.month, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", row.bmi), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", row.weight), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(8)
	widths := []float64{50, 30, 30, 25, 35}
	pdf.SetFont("Arial", "B", 10)
	for i, title := range historyHeader {
		pdf.CellFormat(widths[i], 6, title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, m := range history {
		pdf.CellFormat(widths[0], 6, m.RecordedAt.UTC().Format("2006-01-02 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, m.WeightKg.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, m.HeightM.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, m.BMI.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, m.Category.String(), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type statisticsRow struct {
	month  string
	bmi    float64
	weight float64
}

// statisticsRows joins the BMI and weight series by month.
func statisticsRows(stats *domain.Statistics) []statisticsRow {
	if stats == nil {
		return nil
	}
	weights := make(map[time.Month]float64, len(stats.MonthlyWeight))
	for _, w := range stats.MonthlyWeight {
		weights[w.Month] = w.Average.InexactFloat64()
	}
	rows := make([]statisticsRow, 0, len(stats.MonthlyBMI))
	for _, b := range stats.MonthlyBMI {
		rows = append(rows, statisticsRow{
			month:  b.Month.String(),
			bmi:    b.Average.InexactFloat64(),
			weight: weights[b.Month],
		})
	}
	return rows
}
