package yahoo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/weijay0804/yahoo-movie-line-notify/internal/domain"
	"github.com/weijay0804/yahoo-movie-line-notify/internal/infra/htmlx"
)

const (
	// PlayingURL 是“上映中”列表页（不含 ? 后参数）。
	PlayingURL = "https://movies.yahoo.com.tw/movie_intheaters.html"
	// ComingURL 是“即将上映”列表页（不含 ? 后参数）。
	ComingURL = "https://movies.yahoo.com.tw/movie_comingsoon.html"

	selReleaseList = "ul.release_list"
)

// Fetcher 是列表页抓取所需的最小 HTTP 能力；非 200 必须以 error 返回。
type Fetcher interface {
	Get(ctx context.Context, rawURL string, headers, params map[string]string) (*resty.Response, error)
}

// Listing 描述一次分页抓取：URL 为列表页地址，Pages 为最多抓取的页数。
type Listing struct {
	URL   string
	Pages int
}

// PageError 标记失败发生在第几页。
type PageError struct {
	URL  string
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("列表页 %s 第 %d 页：%v", e.URL, e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// Scrape 从第 1 页开始依序抓取，直到抓满 Pages 页，或遇到条目数为 0 的页面（视为没有更多结果）。
//
// 返回顺序：页内按文档顺序，页与页按抓取顺序串接。
// 任一页的 HTTP/解析错误直接返回，不做重试，也不返回已抓到的部分结果。
func (l Listing) Scrape(ctx context.Context, f Fetcher) ([]domain.Movie, error) {
	if f == nil {
		return nil, errors.New("fetcher 不能为空")
	}
	if strings.TrimSpace(l.URL) == "" {
		return nil, errors.New("listing url 不能为空")
	}

	var out []domain.Movie
	for page := 1; page <= l.Pages; page++ {
		movies, err := l.scrapePage(ctx, f, page)
		if err != nil {
			return nil, &PageError{URL: l.URL, Page: page, Err: err}
		}
		logrus.WithFields(logrus.Fields{"url": l.URL, "page": page, "items": len(movies)}).Debug("列表页抓取完成")
		if len(movies) == 0 {
			break
		}
		out = append(out, movies...)
	}
	return out, nil
}

func (l Listing) scrapePage(ctx context.Context, f Fetcher, page int) ([]domain.Movie, error) {
	resp, err := f.Get(ctx, l.URL, nil, map[string]string{"page": strconv.Itoa(page)})
	if err != nil {
		return nil, err
	}
	doc, err := htmlx.ParseBytes(resp.Body())
	if err != nil {
		return nil, err
	}
	return ParsePage(doc)
}

// ParsePage 解析单个列表页：取第一个 ul.release_list 下的全部 li。
// 列表容器不存在视为站点改版（报错）；容器存在但没有 li 则返回空切片。
func ParsePage(doc *goquery.Document) ([]domain.Movie, error) {
	list := doc.Find(selReleaseList).First()
	if list.Length() == 0 {
		return nil, &SelectorError{Field: "release_list", Selector: selReleaseList}
	}

	items := list.Find("li")
	movies := make([]domain.Movie, 0, items.Length())
	for i := range items.Nodes {
		tag, err := NewMovieTag(items.Eq(i))
		if err != nil {
			return nil, fmt.Errorf("第 %d 个条目：%w", i+1, err)
		}
		m, err := tag.Movie()
		if err != nil {
			return nil, fmt.Errorf("第 %d 个条目：%w", i+1, err)
		}
		movies = append(movies, m)
	}
	return movies, nil
}
