package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/weijay0804/yahoo-movie-line-notify/internal/domain"
)

// DefaultEndpoint 是 LINE Notify 的推送 API。
const DefaultEndpoint = "https://notify-api.line.me/api/notify"

// Sender 把一部电影推送出去（真实 webhook 或 dry-run 输出）。
type Sender interface {
	Notify(ctx context.Context, kind domain.ListingKind, m domain.Movie) error
}

// Poster 是推送所需的最小 HTTP 能力；非 200 必须以 error 返回。
type Poster interface {
	Post(ctx context.Context, rawURL string, headers, form map[string]string) (*resty.Response, error)
}

// Format 按固定模板把电影渲染为通知文字；两类列表只差标题标签。
// 评分/想看缺失时渲染为 domain.Placeholder。
func Format(kind domain.ListingKind, m domain.Movie) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "[%s]\n", kind.Label())
	fmt.Fprintf(&b, "電影名稱 : %s\n", m.TitleCh)
	fmt.Fprintf(&b, "上映日期 : %s\n", m.ReleaseDate)
	fmt.Fprintf(&b, "想看 : %s\n", m.WantWatchText())
	fmt.Fprintf(&b, "評分 : %s\n", m.RateText())
	fmt.Fprintf(&b, "連結 : %s\n", m.MovieLink)
	return b.String()
}

// Notifier 每条消息发一次 webhook POST：Bearer token + 表单字段 message。
// 不合并、不限速；POST 失败原样返回。
type Notifier struct {
	Endpoint string
	Token    string
	Client   Poster
}

func (n Notifier) Send(ctx context.Context, message string) error {
	if n.Client == nil {
		return errors.New("notifier client 不能为空")
	}
	endpoint := strings.TrimSpace(n.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	_, err := n.Client.Post(ctx, endpoint,
		map[string]string{"Authorization": "Bearer " + n.Token},
		map[string]string{"message": message},
	)
	return err
}

func (n Notifier) Notify(ctx context.Context, kind domain.ListingKind, m domain.Movie) error {
	if err := n.Send(ctx, Format(kind, m)); err != nil {
		return fmt.Errorf("推送 %q 失败：%w", m.TitleCh, err)
	}
	logrus.WithFields(logrus.Fields{"kind": kind, "title": m.TitleCh}).Debug("已推送")
	return nil
}

// Printer 是 dry-run 用的 Sender：只把消息写到 W，不发请求。
type Printer struct {
	W io.Writer
}

func (p Printer) Notify(_ context.Context, kind domain.ListingKind, m domain.Movie) error {
	if p.W == nil {
		return nil
	}
	_, err := io.WriteString(p.W, Format(kind, m))
	return err
}
