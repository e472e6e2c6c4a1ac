package store

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"uniformdash/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(filepath.Join(t.TempDir(), "data", "uniformdash.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestEmployees_ReplaceAndQuery(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	records := []*model.EmployeeRecord{
		{ID: "E1", Name: "A", Department: "Cargo", Location: "Delhi", Gender: "Male", Status: "Active", IssuanceMonth: "Jan 2024", IsEligible: true},
		{ID: "E2", Name: "B", Department: "Cargo", Location: "Pune", Gender: "Female", Status: "Inactive", IssuanceMonth: "Feb 2024"},
		{ID: "E3", Name: "C", Department: "Engineering", Location: "Delhi", Gender: "Female", Status: "Active", IssuanceMonth: "Jan 2024", IsEligible: true},
	}
	if err := st.ReplaceEmployees(records); err != nil {
		t.Fatalf("replace: %v", err)
	}

	all, err := st.ListEmployees(EmployeeQueryOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff(records, all); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}

	got, err := st.ListEmployees(EmployeeQueryOptions{Departments: []string{"Cargo"}, Statuses: []string{"active"}})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(got) != 1 || got[0].ID != "E1" {
		t.Fatalf("filtered want=[E1] got=%v", got)
	}

	n, err := st.CountEmployees(EmployeeQueryOptions{Genders: []string{"FEMALE"}, Locations: []string{"Delhi", "Pune"}})
	if err != nil || n != 2 {
		t.Fatalf("count want=2 got=%d err=%v", n, err)
	}

	page, _ := st.ListEmployees(EmployeeQueryOptions{Limit: 1, Offset: 1})
	if len(page) != 1 || page[0].ID != "E2" {
		t.Fatalf("page want=[E2] got=%v", page)
	}

	// 再次替换会清空旧数据
	if err := st.ReplaceEmployees(records[:1]); err != nil {
		t.Fatalf("replace again: %v", err)
	}
	if n, _ := st.CountEmployees(EmployeeQueryOptions{}); n != 1 {
		t.Fatalf("count after replace want=1 got=%d", n)
	}
}

func TestLines_ReplaceAndQuery(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ents := []*model.EntitlementLineRecord{
		{SKU: "Ear Plug", Department: "Cargo", Location: "ALL", Gender: "Both", Frequency: 12, Quantity: 1},
		{SKU: "Overcoat", Department: "Cargo", Location: "BBI", Gender: "Female", Frequency: 36, Quantity: 1},
	}
	if err := st.ReplaceEntitlements(ents); err != nil {
		t.Fatalf("replace entitlements: %v", err)
	}
	got, err := st.ListEntitlements(LineQueryOptions{Frequencies: []int{36}})
	if err != nil || len(got) != 1 || got[0].SKU != "Overcoat" {
		t.Fatalf("entitlements by frequency: %v %v", got, err)
	}

	demand := []*model.DemandLineRecord{
		{SKU: "Ear Plug", Department: "Cargo", BaseLocation: "ALL", SkuGender: "B", FrequencyMonths: 12, Quantity: 1, TotalQuantityNeeded: 4, TotalOccurrences: 4},
		{SKU: "Crew Hat", Department: "Inflight Services", BaseLocation: "ALL", SkuGender: "F", FrequencyMonths: 12, Quantity: 1, TotalQuantityNeeded: 1},
	}
	if err := st.ReplaceDemandLines(demand); err != nil {
		t.Fatalf("replace demand: %v", err)
	}
	lines, err := st.ListDemandLines(LineQueryOptions{Genders: []string{"b"}})
	if err != nil || len(lines) != 1 {
		t.Fatalf("demand by gender: %v %v", lines, err)
	}
	if lines[0].TotalQuantityNeeded != 4 || lines[0].TotalOccurrences != 4 {
		t.Fatalf("quantities not kept: %+v", lines[0])
	}

	stats, err := st.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.EntitlementLines != 2 || stats.DemandLines != 2 || stats.Employees != 0 || stats.Empty() {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestConfigAndImportLogs(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	if _, ok, err := st.GetConfig("missing"); ok || err != nil {
		t.Fatalf("missing key want ok=false err=nil got ok=%v err=%v", ok, err)
	}
	if err := st.SetConfig(ConfigSourceMode, "static"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.SetConfig(ConfigSourceMode, "store"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, ok, _ := st.GetConfig(ConfigSourceMode); !ok || v != "store" {
		t.Fatalf("config want=store got=%q", v)
	}

	id, err := st.CreateImportLog("batch-1", "uniforms.xlsx")
	if err != nil {
		t.Fatalf("create log: %v", err)
	}
	if err := st.CompleteImportLog(id, ImportLog{TotalSheets: 3, ImportedSheets: 2, Employees: 10, Status: "success"}); err != nil {
		t.Fatalf("complete log: %v", err)
	}
	logs, err := st.ListImportLogs(5)
	if err != nil || len(logs) != 1 {
		t.Fatalf("list logs: %v %v", logs, err)
	}
	if logs[0].BatchID != "batch-1" || logs[0].Status != "success" || logs[0].CompletedAt == nil {
		t.Fatalf("unexpected log: %+v", logs[0])
	}
}
