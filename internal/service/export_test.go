package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kitbuilder587/lead-radar/internal/domain"
)

func TestExportCSV(t *testing.T) {
	leads := []domain.Lead{
		{Name: "A B", Company: "Acme, Inc", JobTitle: "CTO", Email: "a@b.com", Phone: "15551234567", Location: "Pune", Industry: "Technology", Platform: domain.PlatformLinkedIn, Score: 95, SourceURL: "https://a.com"},
		{Name: "C D", Company: "", Email: "", Score: 10},
	}

	got := ExportCSV(leads)
	lines := strings.Split(got, "\n")

	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), got)
	}
	if strings.HasSuffix(got, "\n") {
		t.Error("output must not end with a newline")
	}

	wantHeader := `"Name","Company","Job Title","Email","Phone","Location","Industry","Platform","Score","Source URL"`
	if lines[0] != wantHeader {
		t.Errorf("header = %s", lines[0])
	}

	wantFirst := `"A B","Acme, Inc","CTO","a@b.com","15551234567","Pune","Technology","linkedin","95","https://a.com"`
	if lines[1] != wantFirst {
		t.Errorf("row 1 = %s", lines[1])
	}

	wantSecond := `"C D","","","","","","","","10",""`
	if lines[2] != wantSecond {
		t.Errorf("row 2 = %s", lines[2])
	}
}

func TestExportCSV_EscapesQuotes(t *testing.T) {
	got := ExportCSV([]domain.Lead{{Name: `Jane "JJ" Doe`}})
	if !strings.Contains(got, `"Jane ""JJ"" Doe"`) {
		t.Errorf("quotes not doubled: %s", got)
	}
}

func TestExportCSV_Empty(t *testing.T) {
	got := ExportCSV(nil)
	if strings.Contains(got, "\n") {
		t.Errorf("empty export should be header only, got %q", got)
	}
}

func TestXLSXRows(t *testing.T) {
	leads := []domain.Lead{{
		Name:        "John Smith",
		Score:       88,
		LinkedInURL: "https://linkedin.com/in/js",
		CompanySize: "51-200",
	}}

	rows := xlsxRows(leads)
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	if len(rows[0]) != len(xlsxHeader) {
		t.Fatalf("columns = %d, header = %d", len(rows[0]), len(xlsxHeader))
	}
	if score, ok := rows[0][8].(int); !ok || score != 88 {
		t.Errorf("score cell = %#v", rows[0][8])
	}
	if rows[0][9] != "https://linkedin.com/in/js" || rows[0][11] != "51-200" {
		t.Errorf("extended columns = %v", rows[0])
	}
}

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ExportFormat
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{" xlsx ", FormatXLSX, false},
		{"excel", FormatXLSX, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseExportFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("error = %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseExportFormat(%q) = %v, %v", tt.in, got, err)
			}
		})
	}
}

func TestExportFormat_FileName(t *testing.T) {
	res := &domain.LeadGenerationResult{GeneratedAt: time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)}
	if got := FormatXLSX.FileName(res); got != "leads-2024-01-31.xlsx" {
		t.Errorf("FileName() = %s", got)
	}
}

func TestExport_CSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, FormatCSV, []domain.Lead{{Name: "A B"}}); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), `"Name"`) {
		t.Errorf("unexpected output %q", buf.String())
	}
	if err := Export(&buf, "pdf", nil); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("error = %v", err)
	}
}
