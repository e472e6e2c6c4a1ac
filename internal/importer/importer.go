package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"uniformdash/internal/model"
	"uniformdash/internal/normalizer"
	"uniformdash/internal/store"
)

// 进度事件类型
const (
	EventStart     = "start"
	EventInfo      = "info"
	EventWarning   = "warning"
	EventSheetDone = "sheet_done"
	EventError     = "error"
	EventDone      = "done"
)

// Sheet 处理状态
const (
	SheetImported = "imported"
	SheetSkipped  = "skipped"
	SheetError    = "error"
)

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SheetResult 单个 Sheet 的处理结果
type SheetResult struct {
	SheetName  string           `json:"sheetName"`
	Kind       model.RecordKind `json:"kind,omitempty"`
	Confidence float64          `json:"confidence"`
	Status     string           `json:"status"`
	Rows       int              `json:"rows"`
	Errors     []string         `json:"errors,omitempty"`
}

// Report 导入报告
type Report struct {
	BatchID          string        `json:"batchId"`
	Filename         string        `json:"filename"`
	TotalSheets      int           `json:"totalSheets"`
	ImportedSheets   int           `json:"importedSheets"`
	SkippedSheets    int           `json:"skippedSheets"`
	Employees        int           `json:"employees"`
	EntitlementLines int           `json:"entitlementLines"`
	DemandLines      int           `json:"demandLines"`
	Sheets           []SheetResult `json:"sheets"`
	Duration         time.Duration `json:"duration"`
}

// Options 导入选项
type Options struct {
	FilePath string
	// Filename 记录到导入日志的原始文件名，默认取 FilePath 的文件名
	Filename string
}

// Importer Excel 导入器：识别 Sheet、映射表头、规范化后按类型整体替换库内数据
type Importer struct {
	store      *store.Store
	normalizer *normalizer.Normalizer
	logger     *zap.Logger
}

// New 创建导入器
func New(st *store.Store, n *normalizer.Normalizer, logger *zap.Logger) *Importer {
	if n == nil {
		n = normalizer.New(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{store: st, normalizer: n, logger: logger}
}

type importRun struct {
	file     *excelize.File
	report   *Report
	progress chan ProgressEvent
	records  map[model.RecordKind][]model.Record
}

// Import 执行导入，返回进度通道；通道在导入结束后关闭，最后一个事件为 done 或 error
func (im *Importer) Import(ctx context.Context, opts Options) <-chan ProgressEvent {
	progress := make(chan ProgressEvent, 100)
	go func() {
		defer close(progress)
		im.run(ctx, opts, progress)
	}()
	return progress
}

// ImportFile 同步导入，返回导入报告
func (im *Importer) ImportFile(ctx context.Context, opts Options) (*Report, error) {
	var (
		report *Report
		err    error
	)
	for evt := range im.Import(ctx, opts) {
		switch evt.Type {
		case EventDone:
			report, _ = evt.Data.(*Report)
		case EventError:
			err = fmt.Errorf("import failed: %s", evt.Message)
		}
	}
	if err != nil {
		return report, err
	}
	return report, nil
}

func (im *Importer) run(ctx context.Context, opts Options, progress chan ProgressEvent) {
	start := time.Now()
	filename := opts.Filename
	if filename == "" {
		filename = filepath.Base(opts.FilePath)
	}
	report := &Report{BatchID: uuid.NewString(), Filename: filename, Sheets: []SheetResult{}}

	send(progress, EventStart, "开始导入 Excel 文件", map[string]string{"filename": filename, "batch_id": report.BatchID})

	logID, err := im.store.CreateImportLog(report.BatchID, filename)
	if err != nil {
		im.fail(progress, report, 0, fmt.Errorf("create import log: %w", err))
		return
	}

	file, err := excelize.OpenFile(opts.FilePath)
	if err != nil {
		im.fail(progress, report, logID, fmt.Errorf("打开文件失败: %w", err))
		return
	}
	defer file.Close()

	r := &importRun{
		file:     file,
		report:   report,
		progress: progress,
		records:  map[model.RecordKind][]model.Record{},
	}

	sheets := file.GetSheetList()
	report.TotalSheets = len(sheets)
	send(progress, EventInfo, fmt.Sprintf("发现 %d 个 Sheet", len(sheets)), map[string]any{"total_sheets": len(sheets)})

	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			im.fail(progress, report, logID, err)
			return
		}
		im.processSheet(r, sheet)
	}

	if err := im.persist(r); err != nil {
		im.fail(progress, report, logID, err)
		return
	}

	report.Duration = time.Since(start)
	if err := im.store.CompleteImportLog(logID, logEntry(report, "success", "")); err != nil {
		im.logger.Warn("complete import log failed", zap.Error(err))
	}
	_ = im.store.SetConfig(store.ConfigLastImportBatch, report.BatchID)

	im.logger.Info("import finished",
		zap.String("batch_id", report.BatchID),
		zap.Int("employees", report.Employees),
		zap.Int("entitlement_lines", report.EntitlementLines),
		zap.Int("demand_lines", report.DemandLines),
		zap.Duration("duration", report.Duration))
	send(progress, EventDone, "导入完成", report)
}

func (im *Importer) processSheet(r *importRun, sheet string) {
	rows, err := r.file.GetRows(sheet)
	if err != nil || len(rows) < 1 {
		reason := "空 Sheet"
		if err != nil {
			reason = fmt.Sprintf("读取 Sheet 失败: %v", err)
		}
		r.record(SheetResult{SheetName: sheet, Status: SheetSkipped, Errors: []string{reason}})
		return
	}

	rec := Recognize(sheet, rows[0])
	send(r.progress, EventInfo,
		fmt.Sprintf("Sheet \"%s\" 识别为: %s (置信度: %.2f)", sheet, kindLabel(rec.Kind), rec.Confidence),
		map[string]any{"sheet_name": sheet, "kind": string(rec.Kind), "confidence": rec.Confidence})

	if !rec.Recognized() {
		r.record(SheetResult{SheetName: sheet, Confidence: rec.Confidence, Status: SheetSkipped, Errors: []string{"无法识别 Sheet 类型"}})
		send(r.progress, EventWarning, fmt.Sprintf("无法识别 Sheet: %s (置信度过低)", sheet), nil)
		return
	}

	records := make([]model.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		raw := rawRow(row, rec.Columns)
		if len(raw) == 0 {
			continue
		}
		record, err := im.normalizer.Normalize(raw, rec.Kind)
		if err != nil {
			r.record(SheetResult{SheetName: sheet, Kind: rec.Kind, Confidence: rec.Confidence, Status: SheetError, Errors: []string{err.Error()}})
			return
		}
		records = append(records, record)
	}
	r.records[rec.Kind] = append(r.records[rec.Kind], records...)

	r.record(SheetResult{SheetName: sheet, Kind: rec.Kind, Confidence: rec.Confidence, Status: SheetImported, Rows: len(records)})
	send(r.progress, EventSheetDone, fmt.Sprintf("Sheet \"%s\" 解析成功: %d 行", sheet, len(records)),
		map[string]any{"sheet_name": sheet, "rows": len(records)})
}

// persist 按类型整体替换；工作簿中未出现的类型保留原数据
func (im *Importer) persist(r *importRun) error {
	if recs, ok := r.records[model.KindEmployee]; ok {
		employees := typed[*model.EmployeeRecord](recs)
		if err := im.store.ReplaceEmployees(employees); err != nil {
			return err
		}
		r.report.Employees = len(employees)
	}
	if recs, ok := r.records[model.KindEntitlementLine]; ok {
		lines := typed[*model.EntitlementLineRecord](recs)
		if err := im.store.ReplaceEntitlements(lines); err != nil {
			return err
		}
		r.report.EntitlementLines = len(lines)
	}
	if recs, ok := r.records[model.KindDemandLine]; ok {
		lines := typed[*model.DemandLineRecord](recs)
		if err := im.store.ReplaceDemandLines(lines); err != nil {
			return err
		}
		r.report.DemandLines = len(lines)
	}
	return nil
}

func (im *Importer) fail(progress chan ProgressEvent, report *Report, logID int64, err error) {
	if logID > 0 {
		im.logFailure(report, logID, err)
	} else {
		im.logger.Warn("import failed", zap.String("batch_id", report.BatchID), zap.Error(err))
	}
	send(progress, EventError, err.Error(), report)
}

func (r *importRun) record(result SheetResult) {
	r.report.Sheets = append(r.report.Sheets, result)
	switch result.Status {
	case SheetImported:
		r.report.ImportedSheets++
	case SheetSkipped:
		r.report.SkippedSheets++
	}
}

// rawRow 按列映射构造松散记录；空单元格不写入，交给默认值
func rawRow(row []string, columns map[int]string) model.RawRecord {
	raw := model.RawRecord{}
	for i, target := range columns {
		if i >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			raw[target] = v
		}
	}
	return raw
}

func typed[T model.Record](records []model.Record) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if v, ok := rec.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func logEntry(report *Report, status, message string) store.ImportLog {
	return store.ImportLog{
		TotalSheets:      report.TotalSheets,
		ImportedSheets:   report.ImportedSheets,
		Employees:        report.Employees,
		EntitlementLines: report.EntitlementLines,
		DemandLines:      report.DemandLines,
		Status:           status,
		ErrorMessage:     message,
	}
}

func kindLabel(kind model.RecordKind) string {
	if kind == "" {
		return "unknown"
	}
	return string(kind)
}

// send 发送进度事件；通道已满时丢弃过程事件，done / error 始终送达
func send(ch chan ProgressEvent, typ, message string, data any) {
	evt := ProgressEvent{Type: typ, Message: message, Data: data, Timestamp: time.Now()}
	if typ == EventDone || typ == EventError {
		ch <- evt
		return
	}
	select {
	case ch <- evt:
	default:
	}
}
