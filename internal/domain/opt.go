package domain

import "encoding/json"

// Opt 表示可能缺失的字段：Some(v) 或 Absent。
// 零值即 Absent。
type Opt[T any] struct {
	v  T
	ok bool
}

func Some[T any](v T) Opt[T] { return Opt[T]{v: v, ok: true} }

func Absent[T any]() Opt[T] { return Opt[T]{} }

func (o Opt[T]) Get() (T, bool) { return o.v, o.ok }

func (o Opt[T]) IsAbsent() bool { return !o.ok }

// Or 在有值时用 format 渲染，缺失时返回 placeholder。
func (o Opt[T]) Or(placeholder string, format func(T) string) string {
	if !o.ok {
		return placeholder
	}
	return format(o.v)
}

// MarshalJSON 缺失时输出 null。
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}
