package htmlx

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// ErrNotText 表示输入不是合法的 UTF-8 文本，无法当作 HTML 解析。
var ErrNotText = errors.New("htmlx: 输入必须是 UTF-8 文本")

// Parse 把 HTML 文本解析为可查询的文档树。纯函数，不做 I/O。
func Parse(text string) (*goquery.Document, error) {
	if !utf8.ValidString(text) {
		return nil, ErrNotText
	}
	return goquery.NewDocumentFromReader(strings.NewReader(text))
}

// ParseBytes 与 Parse 相同，输入为响应体原始字节。
func ParseBytes(b []byte) (*goquery.Document, error) {
	return Parse(string(b))
}
