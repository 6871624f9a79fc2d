package yahoo

import "fmt"

// SelectorError 表示页面上找不到预期节点（通常意味着站点改版）。
// 除评分/想看两个可缺失字段外，任何节点缺失都按该错误直接失败。
type SelectorError struct {
	Field    string // 例如 "poster_link"
	Selector string // 例如 "img.lazy-load"
}

func (e *SelectorError) Error() string {
	if e == nil {
		return "selector error"
	}
	return fmt.Sprintf("找不到节点：field=%s selector=%q", e.Field, e.Selector)
}

// FieldError 表示节点存在但内容无法解析（例如 data-num 不是数字）。
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("字段解析失败：field=%s value=%q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
