package dashboard

import (
	"strings"
	"time"
)

// Placeholder 缺失字段统一显示的占位符
const Placeholder = "—"

// displayLayout 所有时区统一用这个固定宽度格式，表格列才不会抖
const displayLayout = "2006-01-02 15:04:05"

// parseLayouts 后端时间串的几种已知形态，按常见程度排列
var parseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatTime 把后端时间串转成选定时区下的 "2006-01-02 15:04:05"。
// 不带时区后缀的串按 UTC 解释。解析失败时原样返回输入，绝不报错：
// 显示一个奇怪的原始串好过显示不出来。
// 例外：纯空白输入归一成空串返回，调用方统一走 Display 换成占位符，
// 表格里不会出现一列不可见的空格。
func FormatTime(raw string, loc *time.Location) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range parseLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t.In(loc).Format(displayLayout)
		}
	}
	return raw
}

// Display 空串显示占位符
func Display(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// StatusRunning 只有状态串精确等于 RUNNING 才算运行中；
// 大小写变体、前后空格、其它任何值都按非运行处理。
func StatusRunning(status string) bool {
	return status == "RUNNING"
}

// Sign 渲染着色用的三态符号
type Sign int

const (
	SignNone Sign = iota
	SignPositive
	SignNegative
)

// SideSign 买入方向记正、卖出方向记负，其它方向不着色
func SideSign(side string) Sign {
	switch strings.ToUpper(strings.TrimSpace(side)) {
	case "BUY", "LONG":
		return SignPositive
	case "SELL", "SHORT":
		return SignNegative
	default:
		return SignNone
	}
}

// PnLSign 非负记正、负记负；无值不着色
func PnLSign(n Number) Sign {
	if !n.Valid {
		return SignNone
	}
	if n.Value.IsNegative() {
		return SignNegative
	}
	return SignPositive
}
