package aggregator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"uniformdash/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Count 满足条件的记录数；pred 为空时返回总数
func Count[R any](records []R, pred func(R) bool) int {
	if pred == nil {
		return len(records)
	}
	n := 0
	for _, rec := range records {
		if pred(rec) {
			n++
		}
	}
	return n
}

// CountDistinct 维度的去重取值数；空值不计
func CountDistinct[R model.Record](records []R, d model.Dimension) int {
	seen := make(map[string]struct{})
	for _, rec := range records {
		if v, ok := rec.Dimension(d); ok && v != "" {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// Sum 数值字段求和（十进制累加，避免浮点误差）
func Sum[R any](records []R, value func(R) float64) float64 {
	total := decimal.Zero
	for _, rec := range records {
		total = total.Add(decimal.NewFromFloat(value(rec)))
	}
	return total.InexactFloat64()
}

// Percent round(part/whole*100)；whole 为 0 时返回 0
func Percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(whole)))
	return int(pct.Round(0).IntPart())
}

// FrequencyLabel 发放频次标签
func FrequencyLabel(months int) string {
	if months <= 0 {
		return "One-time"
	}
	return fmt.Sprintf("Every %d months", months)
}

// IsActive 在职员工
func IsActive(e *model.EmployeeRecord) bool { return e.IsActive() }

// IsEligible 个人可领用
func IsEligible(e *model.EmployeeRecord) bool { return e.IsEligible }

// InEligibleDepartment 所在部门可领用
func InEligibleDepartment(e *model.EmployeeRecord) bool { return e.DepartmentEligible }
