package aggregator

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"uniformdash/internal/filter"
	"uniformdash/internal/model"
)

func scenarioEmployees() []*model.EmployeeRecord {
	return []*model.EmployeeRecord{
		{ID: "1", Department: "Cargo", Status: "Active", Location: "Delhi"},
		{ID: "2", Department: "Cargo", Status: "Inactive", Location: "Pune"},
		{ID: "3", Department: "Engineering", Status: "Active", Location: "Delhi"},
	}
}

func TestEmptyInputs(t *testing.T) {
	t.Parallel()

	var none []*model.EmployeeRecord
	if got := Count(none, IsActive); got != 0 {
		t.Fatalf("count want=0 got=%d", got)
	}
	if got := Sum(none, func(*model.EmployeeRecord) float64 { return 1 }); got != 0 {
		t.Fatalf("sum want=0 got=%v", got)
	}
	if got := Percent(0, 0); got != 0 {
		t.Fatalf("percent want=0 got=%d", got)
	}
	if got := Summarize(none, SummaryOptions{Domain: model.DefaultCatalog().Departments}); len(got) != 0 {
		t.Fatalf("summary want empty got=%v", got)
	}
	if got := CoverageMatrix([]*model.DemandLineRecord(nil), MatrixOptions{}); got == nil || len(got) != 0 {
		t.Fatalf("matrix want empty slice got=%v", got)
	}
	if got := SummarizeDemand(nil); got != (model.DemandSummary{}) {
		t.Fatalf("demand summary want zero got=%+v", got)
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()

	cases := []struct{ part, whole, want int }{
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{0, 5, 0},
		{5, 5, 100},
	}
	for _, tc := range cases {
		got := Percent(tc.part, tc.whole)
		if got != tc.want {
			t.Fatalf("Percent(%d,%d) want=%d got=%d", tc.part, tc.whole, tc.want, got)
		}
		if math.IsNaN(float64(got)) {
			t.Fatalf("percent is NaN")
		}
	}
}

func TestSum_Decimal(t *testing.T) {
	t.Parallel()

	lines := []*model.DemandLineRecord{{TotalQuantityNeeded: 0.1}, {TotalQuantityNeeded: 0.2}}
	got := Sum(lines, func(l *model.DemandLineRecord) float64 { return l.TotalQuantityNeeded })
	if got != 0.3 {
		t.Fatalf("sum want=0.3 got=%v", got)
	}
}

func TestSummarize_StatusAllScenario(t *testing.T) {
	t.Parallel()

	records := filter.Apply(scenarioEmployees(), filter.Selections{model.DimStatus: filter.Single("all")})
	got := Summarize(records, SummaryOptions{Domain: model.DefaultCatalog().Departments})
	want := []model.SummaryRow{
		{Group: "Cargo", TotalEmployees: 2, ActiveEmployees: 1, InactiveEmployees: 1, ActivePercentage: 50, LocationsPresent: 2},
		{Group: "Engineering", TotalEmployees: 1, ActiveEmployees: 1, InactiveEmployees: 0, ActivePercentage: 100, LocationsPresent: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestStatusActiveScenario(t *testing.T) {
	t.Parallel()

	records := filter.Apply(scenarioEmployees(), filter.Selections{model.DimStatus: filter.Single("Active")})
	if total := Count(records, nil); total != 2 {
		t.Fatalf("total KPI want=2 got=%d", total)
	}
	if active := Count(records, IsActive); active != 2 {
		t.Fatalf("active KPI want=2 got=%d", active)
	}
}

func TestSummarize_PinnedAndUnknown(t *testing.T) {
	t.Parallel()

	records := append(scenarioEmployees(), &model.EmployeeRecord{ID: "4", Department: "", Status: "Active", IsEligible: true})
	got := Summarize(records, SummaryOptions{Domain: []string{"Engineering", "Cargo"}})
	if len(got) != 3 || got[0].Group != "Engineering" || got[2].Group != model.UnknownLabel {
		t.Fatalf("domain order then extras expected: %+v", got)
	}
	if got[2].EligiblePercent != 100 {
		t.Fatalf("eligibility pct want=100 got=%d", got[2].EligiblePercent)
	}

	pinned := Summarize(records, SummaryOptions{Pinned: true})
	if len(pinned) != 1 || pinned[0].Group != model.FilteredResultsLabel || pinned[0].TotalEmployees != 4 {
		t.Fatalf("pinned summary want one Filtered Results row: %+v", pinned)
	}
}

func TestSeries_ZeroFillDomainOrder(t *testing.T) {
	t.Parallel()

	records := []*model.EmployeeRecord{{Department: "A"}, {Department: "A"}}
	got := Series(records, model.DimDepartment, SeriesOptions[*model.EmployeeRecord]{Domain: []string{"A", "B", "C"}})
	want := []model.NamedValue{{Name: "A", Value: 2}, {Name: "B", Value: 0}, {Name: "C", Value: 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("series mismatch (-want +got):\n%s", diff)
	}

	nonZero := Series(records, model.DimDepartment, SeriesOptions[*model.EmployeeRecord]{Domain: []string{"A", "B", "C"}, NonZero: true})
	if len(nonZero) != 1 || nonZero[0].Name != "A" {
		t.Fatalf("non-zero series want only A: %+v", nonZero)
	}
}

func TestSeries_ObservedAndNumericSort(t *testing.T) {
	t.Parallel()

	lines := []*model.EntitlementLineRecord{
		{SKU: "Belt", Department: "Cargo", Frequency: 24},
		{SKU: "Shoes", Department: "Cargo", Frequency: 12},
		{SKU: "Shoes", Department: "Engineering", Frequency: 12},
		{SKU: "Tunic", Department: "Engineering", Frequency: 0},
	}
	byDept := Series(lines, model.DimDepartment, SeriesOptions[*model.EntitlementLineRecord]{Distinct: model.DimSKU})
	want := []model.NamedValue{{Name: "Cargo", Value: 2}, {Name: "Engineering", Value: 2}}
	if diff := cmp.Diff(want, byDept); diff != "" {
		t.Fatalf("observed series (-want +got):\n%s", diff)
	}

	byFreq := FrequencySeries(lines)
	wantFreq := []model.NamedValue{
		{Name: "One-time", Value: 1},
		{Name: "Every 12 months", Value: 1},
		{Name: "Every 24 months", Value: 1},
	}
	if diff := cmp.Diff(wantFreq, byFreq); diff != "" {
		t.Fatalf("frequency series (-want +got):\n%s", diff)
	}
}

func TestTimelineAndHeadcount(t *testing.T) {
	t.Parallel()

	months := []string{"Jan 2024", "Feb 2024"}
	records := []*model.EmployeeRecord{
		{IssuanceMonth: "Jan 2024", IsEligible: true},
		{IssuanceMonth: "Jan 2024"},
		{IssuanceMonth: "Mar 2024", IsEligible: true},
	}
	got := HeadcountTrend(records, months)
	want := []model.HeadcountPoint{
		{Month: "Jan 2024", TotalHeadcount: 2, EligibleEmployees: 1},
		{Month: "Feb 2024"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("headcount trend (-want +got):\n%s", diff)
	}
}

func TestCoverageMatrix_QuantityScenario(t *testing.T) {
	t.Parallel()

	lines := []*model.DemandLineRecord{
		{SKU: "X", Department: "Cargo", Quantity: 2},
		{SKU: "X", Department: "Engineering", Quantity: 3},
	}
	rows := CoverageMatrix(lines, MatrixOptions{Catalog: model.DefaultCatalog(), Weight: WeightQuantity})
	if len(rows) != 1 {
		t.Fatalf("rows want=1 got=%d", len(rows))
	}
	raw, err := json.Marshal(rows[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]any{"sku": "X", "Cargo": 2.0, "Engineering": 3.0}
	if diff := cmp.Diff(want, obj); diff != "" {
		t.Fatalf("matrix row (-want +got):\n%s", diff)
	}
	if _, ok := obj["Administration"]; ok {
		t.Fatalf("unobserved department must be absent")
	}
}

func TestCoverageMatrix_NeverZeroForUnobserved(t *testing.T) {
	t.Parallel()

	lines := []*model.EntitlementLineRecord{
		{SKU: "Shoes", Department: "Cargo"},
		{SKU: "Belt", Department: "Engineering"},
		{SKU: "Shoes", Department: "Cargo"},
	}
	catalog := model.DefaultCatalog()
	rows := CoverageMatrix(lines, MatrixOptions{Catalog: catalog})
	for _, row := range rows {
		for _, dept := range catalog.Departments {
			if v, ok := row.Cells[dept]; ok && v == 0 {
				t.Fatalf("row %s has zero cell for %s", row.SKU, dept)
			}
		}
	}
	if rows[0].SKU != "Shoes" || rows[0].Cells["Cargo"] != 2 || rows[0].Has("Engineering") {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if diff := cmp.Diff([]string{"Cargo", "Engineering"}, MatrixColumns(rows, catalog)); diff != "" {
		t.Fatalf("columns (-want +got):\n%s", diff)
	}
}

func TestDemandForecastAndSummary(t *testing.T) {
	t.Parallel()

	lines := []*model.DemandLineRecord{
		{SKU: "Ear Plug", Department: "Cargo", GenderLabel: "Both", FrequencyMonths: 12, Quantity: 1, TotalQuantityNeeded: 1},
		{SKU: "Crew Hat", Department: "Inflight Services", GenderLabel: "Female", FrequencyMonths: 12, Quantity: 1, TotalQuantityNeeded: 1},
		{SKU: "Ear Plug", Department: "Engineering", GenderLabel: "Both", FrequencyMonths: 12, Quantity: 2, TotalQuantityNeeded: 2},
		{SKU: "Tunic", Department: "Cargo", GenderLabel: "Female", Quantity: 2, TotalQuantityNeeded: 2},
	}
	rows := DemandForecast(lines)
	if len(rows) != 3 || rows[0].SKU != "Ear Plug" {
		t.Fatalf("rows should follow first appearance: %+v", rows)
	}
	if rows[0].Quantity != 3 || rows[0].Total != 3 || rows[0].ByDepartment["Engineering"] != 2 {
		t.Fatalf("unexpected ear plug row: %+v", rows[0])
	}
	if rows[2].FrequencyLabel != "One-time" || rows[1].FrequencyLabel != "Every 12 months" {
		t.Fatalf("unexpected frequency labels: %q %q", rows[2].FrequencyLabel, rows[1].FrequencyLabel)
	}

	got := SummarizeDemand(lines)
	want := model.DemandSummary{TotalSKUs: 3, CommonSKUs: 1, DepartmentSpecificSKUs: 2, TotalQuantity: 6}
	if got != want {
		t.Fatalf("summary want=%+v got=%+v", want, got)
	}
}

func TestDepartmentEligibility(t *testing.T) {
	t.Parallel()

	catalog := model.DefaultCatalog()
	records := append(scenarioEmployees(), &model.EmployeeRecord{Department: "Administration", Status: "Active"})
	rows := DepartmentEligibility(records, catalog)
	if len(rows) != len(catalog.Departments)+1 {
		t.Fatalf("rows want=%d got=%d", len(catalog.Departments)+1, len(rows))
	}
	byDept := map[string]model.DepartmentEligibilityRow{}
	for _, r := range rows {
		byDept[r.Department] = r
	}
	if r := byDept["Cargo"]; !r.IsEligible || r.TotalEmployees != 2 || r.ActiveEmployees != 1 {
		t.Fatalf("unexpected Cargo row: %+v", r)
	}
	if r := byDept["Flight Safety"]; r.IsEligible || r.TotalEmployees != 0 {
		t.Fatalf("unexpected Flight Safety row: %+v", r)
	}
	if rows[len(rows)-1].Department != "Administration" {
		t.Fatalf("extra department should come last: %+v", rows[len(rows)-1])
	}
}
