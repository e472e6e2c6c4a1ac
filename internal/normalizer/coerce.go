package normalizer

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	headerSeparators = regexp.MustCompile(`[\s\-/]+`)
	headerJunk       = regexp.MustCompile(`[^a-z0-9_]`)
)

// HeaderKey 规范化列名/字段名：小写、空白与分隔符转下划线
// "Item Name" -> "item_name"，"Total Quantity-Needed" -> "total_quantity_needed"
func HeaderKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = headerSeparators.ReplaceAllString(name, "_")
	name = headerJunk.ReplaceAllString(name, "")
	return strings.Trim(name, "_")
}

// asString 任意值转字符串；nil 与空白串视为缺失
func asString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(x)
		return s, s != ""
	case json.Number:
		return x.String(), true
	case float64:
		if x == math.Trunc(x) {
			return strconv.FormatInt(int64(x), 10), true
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return asString(float64(x))
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		s := strings.TrimSpace(fmt.Sprint(x))
		return s, s != ""
	}
}

// asFloat 任意值转数值；无法解析视为缺失
func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, !math.IsNaN(x) && !math.IsInf(x, 0)
	case float32:
		return asFloat(float64(x))
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(x, ",", ""))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// asInt 数值取整（四舍五入），负数截断为 0
func asInt(v any) (int, bool) {
	f, ok := asFloat(v)
	if !ok {
		return 0, false
	}
	n := int(math.Round(f))
	if n < 0 {
		n = 0
	}
	return n, true
}

// asBool 布尔解析：true/1/yes/y/eligible
func asBool(v any) (bool, bool) {
	switch x := v.(type) {
	case nil:
		return false, false
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1", "yes", "y", "eligible":
			return true, true
		case "false", "0", "no", "n", "ineligible":
			return false, true
		}
		return false, false
	}
	if f, ok := asFloat(v); ok {
		return f != 0, true
	}
	return false, false
}

// GenderLabel 性别标记规范化：M/F/B 及大小写差异统一为标签，未知标记原样保留
func GenderLabel(token string) string {
	t := strings.TrimSpace(token)
	switch strings.ToUpper(t) {
	case "":
		return ""
	case "M", "MALE":
		return "Male"
	case "F", "FEMALE":
		return "Female"
	case "B", "BOTH", "BOTH/COMMON", "COMMON", "ALL":
		return "Both"
	}
	return t
}

// StatusLabel 在职状态规范化
func StatusLabel(token string) string {
	t := strings.TrimSpace(token)
	switch strings.ToLower(t) {
	case "active":
		return "Active"
	case "inactive":
		return "Inactive"
	}
	return t
}
