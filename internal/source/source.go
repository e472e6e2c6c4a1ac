package source

import (
	"context"

	"uniformdash/internal/model"
)

// 指标名（问句的基础部分）
const (
	MetricAllEmployees     = "all employees"
	MetricAllEntitlements  = "all uniform entitlements"
	MetricSKUDemand        = "sku demand"
	MetricTotal            = "total employees"
	MetricActive           = "active employees"
	MetricInactive         = "inactive employees"
	MetricStatus           = "employee status"
	MetricDepartmentRows   = "department summary"
	MetricUniqueSKUs       = "unique skus"
	MetricEligibleDepts    = "eligible departments"
	MetricTotalDepartments = "total departments"
	MetricCoverageMatrix   = "entitlement coverage matrix"
)

// MetricFor 记录类型对应的明细指标
func MetricFor(kind model.RecordKind) string {
	switch kind {
	case model.KindDemandLine:
		return MetricSKUDemand
	case model.KindEntitlementLine:
		return MetricAllEntitlements
	}
	return MetricAllEmployees
}

// Response 数据源响应；调用方只读取 Data
type Response struct {
	Data    any    `json:"data"`
	Status  string `json:"status,omitempty"`
	Success *bool  `json:"success,omitempty"`
	Metric  string `json:"metric,omitempty"`
	Message string `json:"message,omitempty"`
	Summary any    `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Source 记录来源：按问句返回松散记录
type Source interface {
	Query(ctx context.Context, question string) (*Response, error)
}

// Func 函数适配为 Source
type Func func(ctx context.Context, question string) (*Response, error)

// Query 实现 Source
func (f Func) Query(ctx context.Context, question string) (*Response, error) {
	return f(ctx, question)
}

// Succeeded 成功响应
func Succeeded(metric, message string, data any) *Response {
	ok := true
	return &Response{Data: data, Status: "success", Success: &ok, Metric: metric, Message: message}
}
