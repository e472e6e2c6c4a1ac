package importer

import (
	"context"
	"errors"
	"testing"

	"uniformdash/internal/model"
	"uniformdash/internal/source"
	"uniformdash/internal/store"
)

func TestSyncSource_Static(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	src := source.NewStatic(source.StaticOptions{Seed: 1, Employees: 20})

	report, err := New(st, nil, nil).SyncSource(context.Background(), src, "static")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if report.Employees != 20 || report.EntitlementLines != len(src.Entitlements()) || report.DemandLines != len(src.DemandLines()) {
		t.Fatalf("unexpected report: %+v", report)
	}

	stats, err := st.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := store.Stats{Employees: 20, EntitlementLines: report.EntitlementLines, DemandLines: report.DemandLines, ImportLogs: 1}
	if stats != want {
		t.Fatalf("stats want=%+v got=%+v", want, stats)
	}
	if batch, _, _ := st.GetConfig(store.ConfigLastImportBatch); batch != report.BatchID {
		t.Fatalf("last batch want=%q got=%q", report.BatchID, batch)
	}
}

func TestSyncSource_FailureWritesNothing(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	src := source.Func(func(ctx context.Context, question string) (*source.Response, error) {
		metric, _ := source.ParseQuestion(question)
		if metric == source.MetricSKUDemand {
			return nil, &model.SourceUnavailableError{Question: question, Err: errors.New("timeout")}
		}
		return source.Succeeded(metric, "", []model.RawRecord{{"id": "E1", "department": "Cargo", "sku": "Cap"}}), nil
	})

	if _, err := New(st, nil, nil).SyncSource(context.Background(), src, "remote"); !errors.Is(err, model.ErrSourceUnavailable) {
		t.Fatalf("want source unavailable got %v", err)
	}
	stats, _ := st.Stats()
	if !stats.Empty() {
		t.Fatalf("failed sync must not write records: %+v", stats)
	}
	logs, err := st.ListImportLogs(1)
	if err != nil || len(logs) != 1 || logs[0].Status != "failed" {
		t.Fatalf("want failed import log, got %+v err=%v", logs, err)
	}
}
