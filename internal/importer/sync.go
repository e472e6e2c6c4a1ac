package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"uniformdash/internal/model"
	"uniformdash/internal/source"
	"uniformdash/internal/store"
)

// syncKinds 同步的记录类型
var syncKinds = []model.RecordKind{model.KindEmployee, model.KindEntitlementLine, model.KindDemandLine}

// SyncSource 从记录来源拉取三类明细并整体替换库内数据（首次启动播种、远端同步）。
// 任一类型拉取或规范化失败时不写入任何数据。
func (im *Importer) SyncSource(ctx context.Context, src source.Source, label string) (*Report, error) {
	start := time.Now()
	report := &Report{BatchID: uuid.NewString(), Filename: label, TotalSheets: len(syncKinds), Sheets: []SheetResult{}}

	logID, err := im.store.CreateImportLog(report.BatchID, label)
	if err != nil {
		return nil, fmt.Errorf("create import log: %w", err)
	}

	fetched := make([][]model.Record, len(syncKinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range syncKinds {
		g.Go(func() error {
			question := source.BuildQuestion(source.MetricFor(kind), nil)
			resp, err := src.Query(gctx, question)
			if err != nil {
				return err
			}
			records, err := im.normalizer.NormalizeAll(resp.Data, kind)
			if err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}
			fetched[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		im.logFailure(report, logID, err)
		return report, err
	}

	r := &importRun{report: report, records: map[model.RecordKind][]model.Record{}}
	for i, kind := range syncKinds {
		r.records[kind] = fetched[i]
		r.record(SheetResult{SheetName: string(kind), Kind: kind, Confidence: 1, Status: SheetImported, Rows: len(fetched[i])})
	}
	if err := im.persist(r); err != nil {
		im.logFailure(report, logID, err)
		return report, err
	}

	report.Duration = time.Since(start)
	if err := im.store.CompleteImportLog(logID, logEntry(report, "success", "")); err != nil {
		im.logger.Warn("complete import log failed", zap.Error(err))
	}
	_ = im.store.SetConfig(store.ConfigLastImportBatch, report.BatchID)

	im.logger.Info("source synced",
		zap.String("batch_id", report.BatchID),
		zap.String("source", label),
		zap.Int("employees", report.Employees),
		zap.Int("entitlement_lines", report.EntitlementLines),
		zap.Int("demand_lines", report.DemandLines))
	return report, nil
}

func (im *Importer) logFailure(report *Report, logID int64, err error) {
	im.logger.Warn("import failed", zap.String("batch_id", report.BatchID), zap.Error(err))
	if logErr := im.store.CompleteImportLog(logID, logEntry(report, "failed", err.Error())); logErr != nil {
		im.logger.Warn("complete import log failed", zap.Error(logErr))
	}
}
