package exporter

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"uniformdash/internal/model"
)

func testData() Data {
	return Data{
		Summary: []model.SummaryRow{
			{Group: "Cargo", TotalEmployees: 2, ActiveEmployees: 1, InactiveEmployees: 1, ActivePercentage: 50, LocationsPresent: 2},
			{Group: "Engineering", TotalEmployees: 1, ActiveEmployees: 1, ActivePercentage: 100, LocationsPresent: 1},
		},
		Matrix: []model.MatrixRow{
			{SKU: "X", Cells: map[string]int{"Cargo": 2, "Engineering": 3}},
			{SKU: "Y", Cells: map[string]int{"Cargo": 1}},
		},
		Demand: []model.DemandRow{
			{SKU: "Ear Plug", FrequencyMonths: 6, FrequencyLabel: "Every 6 months", ByDepartment: map[string]int{"Engineering": 2}, Quantity: 2, Total: 4},
		},
		Selection: "department=Cargo|Engineering",
	}
}

func TestBuild_Sheets(t *testing.T) {
	t.Parallel()

	var stages []string
	f, err := New(nil, nil).Build(testData(), func(evt ProgressEvent) { stages = append(stages, evt.Stage) })
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer f.Close()

	want := []string{SheetDepartmentSummary, SheetCoverageMatrix, SheetDemandForecast}
	if diff := cmp.Diff(want, f.GetSheetList()); diff != "" {
		t.Fatalf("sheets (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{StageSummary, StageMatrix, StageDemand}, stages); diff != "" {
		t.Fatalf("stages (-want +got):\n%s", diff)
	}

	summary, _ := f.GetRows(SheetDepartmentSummary)
	if summary[1][0] != "Cargo" || summary[1][5] != "50" {
		t.Fatalf("unexpected summary row: %v", summary[1])
	}
	if last := summary[len(summary)-1]; last[0] != "Filters" {
		t.Fatalf("missing selection row: %v", last)
	}
}

func TestBuild_MatrixBlankForAbsentPairs(t *testing.T) {
	t.Parallel()

	f, err := New(nil, nil).Build(testData(), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer f.Close()

	header, _ := f.GetRows(SheetCoverageMatrix)
	if diff := cmp.Diff([]string{"SKU", "Cargo", "Engineering"}, header[0]); diff != "" {
		t.Fatalf("header (-want +got):\n%s", diff)
	}
	if v, _ := f.GetCellValue(SheetCoverageMatrix, "C3"); v != "" {
		t.Fatalf("absent pair want blank got %q", v)
	}
	if v, _ := f.GetCellValue(SheetCoverageMatrix, "C2"); v != "3" {
		t.Fatalf("X/Engineering want=3 got %q", v)
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path, err := New(nil, nil).WriteFile(testData(), t.TempDir(), nil)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue(SheetDemandForecast, "B2"); v != "Every 6 months" {
		t.Fatalf("frequency label want=%q got=%q", "Every 6 months", v)
	}
}

func TestDownloadStore(t *testing.T) {
	t.Parallel()

	s := NewDownloadStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	token := s.Put("/tmp/a.xlsx", "a.xlsx", time.Minute)
	expired := s.Put("/tmp/b.xlsx", "b.xlsx", time.Second)

	now = now.Add(30 * time.Second)
	if _, ok := s.Take(expired); ok {
		t.Fatalf("expired token must not resolve")
	}
	d, ok := s.Take(token)
	if !ok || d.Filename != "a.xlsx" {
		t.Fatalf("take want a.xlsx got %+v ok=%v", d, ok)
	}
	if _, ok := s.Take(token); ok {
		t.Fatalf("token must be single use")
	}
	if s.Len() != 0 {
		t.Fatalf("want empty store got %d", s.Len())
	}
}
