package domain

import (
	"strconv"
	"strings"
)

// Placeholder 是评分/想看比例缺失时对外呈现的固定字串。
const Placeholder = "無"

// Movie 是列表页单个条目解析出的电影资料。
//
// 约束：
// - Rate 与 WantWatch 各自独立可缺失；对外呈现时缺失渲染为 Placeholder，而不是空字串
// - ReleaseDate 保留页面原文中的 YYYY-MM-DD 子串，不做日期校验
// - 值类型，构造后不再修改
type Movie struct {
	PosterLink  string       `json:"poster_link"`
	TitleCh     string       `json:"title_ch"`
	TitleEn     string       `json:"title_en"`
	Rate        Opt[float64] `json:"rate"`
	WantWatch   Opt[int]     `json:"want_watch"`
	ReleaseDate string       `json:"release_date"`
	InfoText    string       `json:"info_text"`
	MovieLink   string       `json:"movie_link"`
}

func (m Movie) String() string { return m.TitleCh }

// RateText 渲染评分：至少保留一位小数（8 -> "8.0"），缺失为 Placeholder。
func (m Movie) RateText() string {
	return m.Rate.Or(Placeholder, func(v float64) string {
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	})
}

// WantWatchText 渲染想看比例（"88%"），缺失为 Placeholder。
func (m Movie) WantWatchText() string {
	return m.WantWatch.Or(Placeholder, func(v int) string {
		return strconv.Itoa(v) + "%"
	})
}
