package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"uniformdash/internal/filter"
	"uniformdash/internal/model"
	"uniformdash/internal/source"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fixedSource(data any) source.Source {
	return source.Func(func(ctx context.Context, question string) (*source.Response, error) {
		metric, _ := source.ParseQuestion(question)
		return source.Succeeded(metric, "", data), nil
	})
}

func scenarioEmployees() []model.RawRecord {
	return []model.RawRecord{
		{"id": "1", "department": "Cargo", "status": "Active"},
		{"id": "2", "department": "Cargo", "status": "Inactive"},
		{"id": "3", "department": "Engineering", "status": "Active"},
	}
}

func kpiValue(t *testing.T, v *View, id string) float64 {
	t.Helper()
	for _, k := range v.KPIs {
		if k.ID == id {
			return k.Value
		}
	}
	t.Fatalf("kpi %q not found in %+v", id, v.KPIs)
	return 0
}

func TestView_SummaryGroupsByDepartment(t *testing.T) {
	t.Parallel()

	e := NewEngine(fixedSource(scenarioEmployees()), nil, nil)
	v, err := e.View(context.Background(), TabActiveEmployees, filter.Selections{model.DimStatus: filter.All()})
	if err != nil {
		t.Fatalf("view: %v", err)
	}

	type row struct {
		Group                   string
		Total, Active, Inactive int
		Pct                     float64
	}
	var got []row
	for _, r := range v.Summary {
		got = append(got, row{r.Group, r.TotalEmployees, r.ActiveEmployees, r.InactiveEmployees, float64(r.ActivePercentage)})
	}
	want := []row{
		{"Cargo", 2, 1, 1, 50},
		{"Engineering", 1, 1, 0, 100},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("summary (-want +got):\n%s", diff)
	}
}

func TestView_StatusFilterAppliesToKPIs(t *testing.T) {
	t.Parallel()

	e := NewEngine(fixedSource(scenarioEmployees()), nil, nil)
	v, err := e.View(context.Background(), TabActiveEmployees, filter.Selections{model.DimStatus: filter.Single("Active")})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if got := kpiValue(t, v, "totalEmployees"); got != 2 {
		t.Fatalf("total want=2 got=%v", got)
	}
	if got := kpiValue(t, v, "activeEmployees"); got != 2 {
		t.Fatalf("active want=2 got=%v", got)
	}
	if v.Records != 2 {
		t.Fatalf("records want=2 got=%d", v.Records)
	}
}

func TestView_ActiveByDepartmentZeroFilled(t *testing.T) {
	t.Parallel()

	catalog := model.DefaultCatalog()
	e := NewEngine(fixedSource(scenarioEmployees()), catalog, nil)
	v, err := e.View(context.Background(), TabActiveEmployees, nil)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	series := v.Series[SeriesActiveByDept]
	if len(series) != len(catalog.Departments) {
		t.Fatalf("want one entry per department, got %+v", series)
	}
	for i, nv := range series {
		if nv.Name != catalog.Departments[i] {
			t.Fatalf("entry %d want=%q got=%q", i, catalog.Departments[i], nv.Name)
		}
	}
}

func TestView_DemandMatrix(t *testing.T) {
	t.Parallel()

	lines := []model.RawRecord{
		{"sku": "X", "department": "Cargo", "quantity": 2},
		{"sku": "X", "department": "Engineering", "quantity": 3},
	}
	e := NewEngine(fixedSource(lines), nil, nil)
	v, err := e.View(context.Background(), TabDemandForecast, nil)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(v.Matrix) != 1 {
		t.Fatalf("want one matrix row got %+v", v.Matrix)
	}
	row := v.Matrix[0]
	if diff := cmp.Diff(map[string]int{"Cargo": 2, "Engineering": 3}, row.Cells); row.SKU != "X" || diff != "" {
		t.Fatalf("row %q cells (-want +got):\n%s", row.SKU, diff)
	}
	if row.Has("Administration") {
		t.Fatalf("unexpected Administration column")
	}
	if diff := cmp.Diff([]string{"Cargo", "Engineering"}, v.MatrixColumns); diff != "" {
		t.Fatalf("columns (-want +got):\n%s", diff)
	}
}

func TestView_SourceFailureYieldsZeroView(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	src := source.Func(func(ctx context.Context, question string) (*source.Response, error) {
		return nil, boom
	})
	catalog := model.DefaultCatalog()
	e := NewEngine(src, catalog, nil)

	v, err := e.View(context.Background(), TabActiveEmployees, nil)
	if !errors.Is(err, model.ErrSourceUnavailable) || !errors.Is(err, boom) {
		t.Fatalf("want source unavailable wrapping cause, got %v", err)
	}
	if v == nil || v.Status != StatusSourceUnavailable || v.Error == "" {
		t.Fatalf("want zero view with status, got %+v", v)
	}
	if got := kpiValue(t, v, "totalEmployees"); got != 0 {
		t.Fatalf("total want=0 got=%v", got)
	}
	series := v.Series[SeriesActiveByDept]
	if len(series) != len(catalog.Departments) {
		t.Fatalf("zero view must keep domain entries, got %+v", series)
	}
	for _, nv := range series {
		if nv.Value != 0 {
			t.Fatalf("want zero value got %+v", nv)
		}
	}
}

func TestView_MalformedData(t *testing.T) {
	t.Parallel()

	e := NewEngine(fixedSource([]any{map[string]any{"sku": "X"}, "oops"}), nil, nil)
	v, err := e.View(context.Background(), TabEntitlementCoverage, nil)
	var malformed *model.MalformedRecordError
	if !errors.As(err, &malformed) || malformed.Index != 1 {
		t.Fatalf("want malformed record at index 1, got %v", err)
	}
	if v.Status != StatusMalformed {
		t.Fatalf("status want=%q got=%q", StatusMalformed, v.Status)
	}
	if len(v.Matrix) != 0 || kpiValue(t, v, "uniqueSkus") != 0 {
		t.Fatalf("want empty outputs, got %+v", v)
	}
}

func TestView_UnknownTab(t *testing.T) {
	t.Parallel()

	e := NewEngine(fixedSource(nil), nil, nil)
	if _, err := e.View(context.Background(), Tab("payroll"), nil); !errors.Is(err, ErrUnknownTab) {
		t.Fatalf("want ErrUnknownTab got %v", err)
	}
	if _, ok := ParseTab("payroll"); ok {
		t.Fatalf("ParseTab accepted unknown tab")
	}
}

func TestScope(t *testing.T) {
	t.Parallel()

	e := NewEngine(fixedSource(nil), nil, nil)
	sel := filter.Selections{
		model.DimDepartment: filter.Multi("CARGO", "AOCS"),
		model.DimSKU:        filter.Single("Blazer"),
		model.DimStatus:     filter.Single("Active"),
	}

	got := e.Scope(TabActiveEmployees, sel).Key()
	want := "department=Airport Operations & Customer Services|Cargo;status=active"
	if got != want {
		t.Fatalf("active tab scope want=%q got=%q", want, got)
	}
	if got := e.Scope(TabDepartmentEligibility, sel).Key(); got != "" {
		t.Fatalf("department eligibility takes no filters, got %q", got)
	}
	if got := e.Scope(TabEntitlementCoverage, sel).Key(); !strings.Contains(got, "sku=") || strings.Contains(got, "status=") {
		t.Fatalf("coverage scope got %q", got)
	}
}

func TestView_AllTabsConcurrently(t *testing.T) {
	t.Parallel()

	src := source.NewStatic(source.StaticOptions{Seed: 7, Employees: 200})
	e := NewEngine(src, nil, nil)

	var wg sync.WaitGroup
	errs := make([]error, len(Tabs))
	views := make([]*View, len(Tabs))
	for i, tab := range Tabs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			views[i], errs[i] = e.View(context.Background(), tab, nil)
		}()
	}
	wg.Wait()

	for i, tab := range Tabs {
		if errs[i] != nil {
			t.Fatalf("%s: %v", tab, errs[i])
		}
		if views[i].Status != StatusOK || len(views[i].KPIs) == 0 {
			t.Fatalf("%s: unexpected view %+v", tab, views[i])
		}
	}
}

func TestView_ContextCanceled(t *testing.T) {
	t.Parallel()

	e := NewEngine(source.NewStatic(source.StaticOptions{Seed: 1, Employees: 10}), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := e.View(ctx, TabEligibleEmployees, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled got %v", err)
	}
	if v.Status != StatusSourceUnavailable {
		t.Fatalf("status want=%q got=%q", StatusSourceUnavailable, v.Status)
	}
}

// gatedSource 问句包含 gate 时阻塞，直到 release 关闭
func gatedSource(gate string, entered chan<- struct{}, release <-chan struct{}) source.Source {
	return source.Func(func(ctx context.Context, question string) (*source.Response, error) {
		if strings.Contains(question, gate) {
			entered <- struct{}{}
			<-release
		}
		metric, _ := source.ParseQuestion(question)
		return source.Succeeded(metric, "", scenarioEmployees()), nil
	})
}

func TestSession_DiscardsAbandonedSelection(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	s := NewSession(NewEngine(gatedSource("Cargo", entered, release), nil, nil))

	type result struct {
		view    *View
		applied bool
	}
	done := make(chan result)
	go func() {
		v, applied, _ := s.Refresh(context.Background(), TabActiveEmployees,
			filter.Selections{model.DimDepartment: filter.Single("Cargo")})
		done <- result{v, applied}
	}()
	<-entered

	latest, applied, err := s.Refresh(context.Background(), TabActiveEmployees,
		filter.Selections{model.DimDepartment: filter.Single("Engineering")})
	if err != nil || !applied {
		t.Fatalf("latest selection must apply, applied=%v err=%v", applied, err)
	}

	close(release)
	stale := <-done
	if stale.applied {
		t.Fatalf("abandoned selection must not apply")
	}
	if stale.view != latest || s.Current(TabActiveEmployees) != latest {
		t.Fatalf("current view must stay on the latest selection")
	}
	if latest.Selection != "department=Engineering" {
		t.Fatalf("selection want=%q got=%q", "department=Engineering", latest.Selection)
	}
}

func TestSession_DiscardsOlderResultForSameSelection(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	gate := make(chan struct{}, 1)
	gate <- struct{}{}

	// 只有第一次请求被阻塞
	src := source.Func(func(ctx context.Context, question string) (*source.Response, error) {
		select {
		case <-gate:
			entered <- struct{}{}
			<-release
		default:
		}
		metric, _ := source.ParseQuestion(question)
		return source.Succeeded(metric, "", scenarioEmployees()), nil
	})
	s := NewSession(NewEngine(src, nil, nil))
	sel := filter.Selections{model.DimGender: filter.All()}

	done := make(chan bool)
	go func() {
		_, applied, _ := s.Refresh(context.Background(), TabEligibleEmployees, sel)
		done <- applied
	}()
	<-entered

	newer, applied, _ := s.Refresh(context.Background(), TabEligibleEmployees, sel)
	if !applied {
		t.Fatalf("newer result must apply")
	}
	close(release)
	if <-done {
		t.Fatalf("older result must be discarded")
	}
	if s.Current(TabEligibleEmployees) != newer {
		t.Fatalf("current view replaced by older result")
	}
}

func TestSession_TabsAreIndependent(t *testing.T) {
	t.Parallel()

	s := NewSession(NewEngine(fixedSource(scenarioEmployees()), nil, nil))
	if _, applied, _ := s.Refresh(context.Background(), TabActiveEmployees, nil); !applied {
		t.Fatalf("active tab not applied")
	}
	if _, applied, _ := s.Refresh(context.Background(), TabDepartmentEligibility, nil); !applied {
		t.Fatalf("department tab not applied")
	}
	if s.Current(TabActiveEmployees) == nil || s.Current(TabDepartmentEligibility) == nil {
		t.Fatalf("each tab keeps its own view")
	}
	if s.Current(TabDemandForecast) != nil {
		t.Fatalf("untouched tab must have no view")
	}
}
