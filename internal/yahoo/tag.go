package yahoo

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/weijay0804/yahoo-movie-line-notify/internal/domain"
)

// 列表页条目的固定选择器。与 movies.yahoo.com.tw 的 markup 强耦合，站点改版即失效。
const (
	selInfoBlock   = "div.release_info"
	selTitleBlock  = "div.release_movie_name"
	selPoster      = "img.lazy-load"
	selAnchor      = "a"
	selLevelBox    = "dl.levelbox"
	selLevelText   = "div.leveltext span"
	selReleaseTime = "div.release_movie_time"
	selReleaseText = "div.release_text span"
)

var releaseDateRE = regexp.MustCompile(`\d+-\d+-\d+`)

// MovieTag 从单个列表条目（li）中按固定选择器取出各字段。
//
// 约束：
// - 所有 getter 都是纯函数：重复调用结果一致，不修改节点
// - Rate/WantToWatch 在对应节点不存在时返回 Absent；其余字段节点缺失一律报 *SelectorError
type MovieTag struct {
	li    *goquery.Selection
	info  *goquery.Selection
	title *goquery.Selection
}

func NewMovieTag(li *goquery.Selection) (*MovieTag, error) {
	if li == nil || li.Length() == 0 {
		return nil, errors.New("li 不能为空")
	}
	info := li.Find(selInfoBlock).First()
	if info.Length() == 0 {
		return nil, &SelectorError{Field: "info_block", Selector: selInfoBlock}
	}
	title := info.Find(selTitleBlock).First()
	if title.Length() == 0 {
		return nil, &SelectorError{Field: "title_block", Selector: selTitleBlock}
	}
	return &MovieTag{li: li, info: info, title: title}, nil
}

// PosterLink 取 lazy-load 图片的 data-src；属性不存在时返回空串。
func (t *MovieTag) PosterLink() (string, error) {
	img := t.li.Find(selPoster).First()
	if img.Length() == 0 {
		return "", &SelectorError{Field: "poster_link", Selector: selPoster}
	}
	src, _ := img.Attr("data-src")
	return src, nil
}

// Titles 返回（中文标题, 英文标题）。英文标题不存在时为空串。
func (t *MovieTag) Titles() (ch, en string, err error) {
	var titles []string
	t.title.Find(selAnchor).Each(func(_ int, a *goquery.Selection) {
		titles = append(titles, stripChars(a.Text(), "\n", " "))
	})
	if len(titles) == 0 {
		return "", "", &SelectorError{Field: "title", Selector: selTitleBlock + " " + selAnchor}
	}
	ch = titles[0]
	if len(titles) > 1 {
		en = titles[1]
	}
	return ch, en, nil
}

// InfoLink 取标题区块第一个超链接（电影详细页面）。
func (t *MovieTag) InfoLink() (string, error) {
	a := t.title.Find(selAnchor).First()
	if a.Length() == 0 {
		return "", &SelectorError{Field: "movie_link", Selector: selTitleBlock + " " + selAnchor}
	}
	href, _ := a.Attr("href")
	return href, nil
}

func (t *MovieTag) levelBox() (*goquery.Selection, error) {
	box := t.title.Find(selLevelBox).First()
	if box.Length() == 0 {
		return nil, &SelectorError{Field: "levelbox", Selector: selLevelBox}
	}
	return box, nil
}

// Rate 取评分：dd 不存在视为尚无评分（Absent）。
func (t *MovieTag) Rate() (domain.Opt[float64], error) {
	box, err := t.levelBox()
	if err != nil {
		return domain.Absent[float64](), err
	}
	dd := box.Find("dd").First()
	if dd.Length() == 0 {
		return domain.Absent[float64](), nil
	}
	span := dd.Find(selLevelText).First()
	if span.Length() == 0 {
		return domain.Absent[float64](), &SelectorError{Field: "rate", Selector: "dd " + selLevelText}
	}
	raw, ok := span.Attr("data-num")
	if !ok {
		return domain.Absent[float64](), &SelectorError{Field: "rate", Selector: "dd " + selLevelText + "[data-num]"}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return domain.Absent[float64](), &FieldError{Field: "rate", Value: raw, Err: err}
	}
	return domain.Some(v), nil
}

// WantToWatch 取想看比例：dt 不存在视为 Absent。页面文字形如 "88%"。
func (t *MovieTag) WantToWatch() (domain.Opt[int], error) {
	box, err := t.levelBox()
	if err != nil {
		return domain.Absent[int](), err
	}
	dt := box.Find("dt").First()
	if dt.Length() == 0 {
		return domain.Absent[int](), nil
	}
	span := dt.Find(selLevelText).First()
	if span.Length() == 0 {
		return domain.Absent[int](), &SelectorError{Field: "want_watch", Selector: "dt " + selLevelText}
	}
	raw := span.Text()
	v, err := strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(raw, "%", "")))
	if err != nil {
		return domain.Absent[int](), &FieldError{Field: "want_watch", Value: raw, Err: err}
	}
	return domain.Some(v), nil
}

// ReleaseDate 取上映时间区块中第一个 YYYY-MM-DD 形状的子串。
func (t *MovieTag) ReleaseDate() (string, error) {
	node := t.info.Find(selReleaseTime).First()
	if node.Length() == 0 {
		return "", &SelectorError{Field: "release_date", Selector: selReleaseTime}
	}
	text := node.Text()
	m := releaseDateRE.FindString(text)
	if m == "" {
		return "", &FieldError{Field: "release_date", Value: text, Err: errors.New("没有日期")}
	}
	return m, nil
}

// InfoText 取电影简介，逐字删除换行、回车与半角空格（不是语义上的空白折叠）。
func (t *MovieTag) InfoText() (string, error) {
	span := t.info.Find(selReleaseText).First()
	if span.Length() == 0 {
		return "", &SelectorError{Field: "info_text", Selector: selReleaseText}
	}
	return stripChars(span.Text(), "\n", "\r", " "), nil
}

// Movie 组装所有字段；任一必需字段失败即返回错误。
func (t *MovieTag) Movie() (domain.Movie, error) {
	poster, err := t.PosterLink()
	if err != nil {
		return domain.Movie{}, err
	}
	ch, en, err := t.Titles()
	if err != nil {
		return domain.Movie{}, err
	}
	rate, err := t.Rate()
	if err != nil {
		return domain.Movie{}, err
	}
	wantWatch, err := t.WantToWatch()
	if err != nil {
		return domain.Movie{}, err
	}
	release, err := t.ReleaseDate()
	if err != nil {
		return domain.Movie{}, err
	}
	infoText, err := t.InfoText()
	if err != nil {
		return domain.Movie{}, err
	}
	link, err := t.InfoLink()
	if err != nil {
		return domain.Movie{}, err
	}
	return domain.Movie{
		PosterLink:  poster,
		TitleCh:     ch,
		TitleEn:     en,
		Rate:        rate,
		WantWatch:   wantWatch,
		ReleaseDate: release,
		InfoText:    infoText,
		MovieLink:   link,
	}, nil
}

func stripChars(s string, chars ...string) string {
	for _, c := range chars {
		s = strings.ReplaceAll(s, c, "")
	}
	return s
}
