package domain

import "strings"

// ListingKind 区分两类列表页。
type ListingKind string

const (
	KindPlaying ListingKind = "playing" // 上映中
	KindComing  ListingKind = "coming"  // 即将上映
)

// AllKinds 按固定执行顺序列出全部列表类型。
var AllKinds = []ListingKind{KindPlaying, KindComing}

// Label 是通知消息的标题标签。
func (k ListingKind) Label() string {
	switch k {
	case KindPlaying:
		return "現正熱映"
	case KindComing:
		return "即將上映"
	default:
		return string(k)
	}
}

func ParseListingKind(s string) (ListingKind, bool) {
	switch ListingKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindPlaying:
		return KindPlaying, true
	case KindComing:
		return KindComing, true
	default:
		return "", false
	}
}
