package service

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/unidoc/unioffice/common/license"
	"github.com/unidoc/unioffice/spreadsheet"

	"github.com/kitbuilder587/lead-radar/internal/domain"
)

var ErrUnknownFormat = errors.New("unknown export format")

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f ExportFormat) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName - leads-2024-01-31.csv
func (f ExportFormat) FileName(res *domain.LeadGenerationResult) string {
	return fmt.Sprintf("leads-%s.%s", res.GeneratedAt.Format("2006-01-02"), f)
}

var csvHeader = []string{"Name", "Company", "Job Title", "Email", "Phone", "Location", "Industry", "Platform", "Score", "Source URL"}

var xlsxHeader = []string{"Name", "Company", "Job Title", "Email", "Phone", "Location", "Industry", "Platform", "Score", "LinkedIn URL", "Source URL", "Company Size"}

// ExportCSV - каждое поле в кавычках, кавычки внутри удваиваются,
// строки через \n без завершающего перевода строки.
func ExportCSV(leads []domain.Lead) string {
	var b strings.Builder
	writeCSVRow(&b, csvHeader)
	for _, l := range leads {
		b.WriteByte('\n')
		writeCSVRow(&b, []string{
			l.Name,
			l.Company,
			l.JobTitle,
			l.Email,
			l.Phone,
			l.Location,
			l.Industry,
			string(l.Platform),
			strconv.Itoa(l.Score),
			l.SourceURL,
		})
	}
	return b.String()
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
}

// SetExportLicense - ключ unioffice, без него запись xlsx отклоняется библиотекой
func SetExportLicense(key string) error {
	if key == "" {
		return nil
	}
	if err := license.SetMeteredKey(key); err != nil {
		return fmt.Errorf("set spreadsheet license: %w", err)
	}
	return nil
}

// xlsxRows - строки листа без заголовка. Score остаётся числом.
func xlsxRows(leads []domain.Lead) [][]any {
	rows := make([][]any, 0, len(leads))
	for _, l := range leads {
		rows = append(rows, []any{
			l.Name,
			l.Company,
			l.JobTitle,
			l.Email,
			l.Phone,
			l.Location,
			l.Industry,
			string(l.Platform),
			l.Score,
			l.LinkedInURL,
			l.SourceURL,
			l.CompanySize,
		})
	}
	return rows
}

func ExportXLSX(w io.Writer, leads []domain.Lead) error {
	wb := spreadsheet.New()
	defer wb.Close()

	sheet := wb.AddSheet()
	sheet.SetName("Leads")

	header := sheet.AddRow()
	for _, h := range xlsxHeader {
		header.AddCell().SetString(h)
	}

	for _, values := range xlsxRows(leads) {
		row := sheet.AddRow()
		for _, v := range values {
			cell := row.AddCell()
			switch v := v.(type) {
			case int:
				cell.SetNumber(float64(v))
			case string:
				cell.SetString(v)
			}
		}
	}

	if err := wb.Save(w); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

// Export пишет результат в нужном формате
func Export(w io.Writer, f ExportFormat, leads []domain.Lead) error {
	switch f {
	case FormatCSV:
		_, err := io.WriteString(w, ExportCSV(leads))
		return err
	case FormatXLSX:
		return ExportXLSX(w, leads)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
