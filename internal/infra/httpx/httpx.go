package httpx

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultTimeout = 20 * time.Second
)

// RequestError 表示对端返回了非 200 的 HTTP 状态码。
// 所有经由 Client 发出的请求都套用同一条校验规则，不做重试。
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *RequestError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	return fmt.Sprintf("%s %s：HTTP %d", e.Method, e.URL, e.StatusCode)
}

// Transport 只负责连接策略（代理 + keep-alive），UA 由 Client 的请求中间件填充。
type Transport struct {
	Base *http.Transport

	// DisableKeepAlives 决定是否对 Request 设置 Close=true（额外保险）。
	// 真正禁用 keep-alive 依赖 Base.DisableKeepAlives。
	DisableKeepAlives bool
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}
	r := req
	if t.DisableKeepAlives {
		// Clone 会复制 Header 等，避免在 RoundTripper 内部“污染”调用方的 request。
		r = req.Clone(req.Context())
		r.Close = true
	}
	return t.Base.RoundTrip(r)
}

// Client 封装 resty：GET/POST 统一经过状态码校验，非 200 一律返回 *RequestError。
type Client struct {
	r *resty.Client
}

// New 构造抓取与通知共用的 HTTP client。
//
// 规则：
// - proxyURL 非空：走代理，且禁用 keep-alive（每请求新连接）
// - 内置 UA 池：调用方未指定 User-Agent 时每个请求随机 UA
// - 不重试；只有总超时
func New(proxyURL string) (*Client, error) {
	tr, err := newTransport(strings.TrimSpace(proxyURL))
	if err != nil {
		return nil, err
	}
	rc := resty.New().
		SetTransport(tr).
		SetTimeout(defaultTimeout).
		SetRetryCount(0)
	rc.OnBeforeRequest(randomUserAgent(globalUA))
	return &Client{r: rc}, nil
}

// Resty 暴露底层 resty client（测试或需要额外配置时使用）。
func (c *Client) Resty() *resty.Client { return c.r }

// Get 发送 GET 请求；params 以 query string 追加到 rawURL 之后。
func (c *Client) Get(ctx context.Context, rawURL string, headers, params map[string]string) (*resty.Response, error) {
	resp, err := c.request(ctx, headers).
		SetQueryParams(params).
		Get(rawURL)
	return within(resp, err)
}

// Post 发送 POST 请求；form 以 application/x-www-form-urlencoded 编码。
func (c *Client) Post(ctx context.Context, rawURL string, headers, form map[string]string) (*resty.Response, error) {
	req := c.request(ctx, headers)
	if form != nil {
		req.SetFormData(form)
	}
	resp, err := req.Post(rawURL)
	return within(resp, err)
}

func (c *Client) request(ctx context.Context, headers map[string]string) *resty.Request {
	if ctx == nil {
		ctx = context.Background()
	}
	return c.r.R().
		SetContext(ctx).
		SetHeaders(headers)
}

// within 是所有请求共用的响应校验：网络错误原样返回，状态码非 200 转成 *RequestError。
func within(resp *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return resp, &RequestError{
			Method:     resp.Request.Method,
			URL:        requestURL(resp),
			StatusCode: resp.StatusCode(),
		}
	}
	return resp, nil
}

func requestURL(resp *resty.Response) string {
	if resp.Request.RawRequest != nil && resp.Request.RawRequest.URL != nil {
		return resp.Request.RawRequest.URL.String()
	}
	return resp.Request.URL
}

func newTransport(proxyURL string) (*Transport, error) {
	base := &http.Transport{
		Proxy:                 nil,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
	}

	disableKeepAlives := false
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, err
		}
		base.Proxy = http.ProxyURL(u)
		// proxy 模式强制每请求新连接（代理池轮换依赖该行为）。
		base.DisableKeepAlives = true
		disableKeepAlives = true
	}

	return &Transport{
		Base:              base,
		DisableKeepAlives: disableKeepAlives,
	}, nil
}

func randomUserAgent(p *uaPool) resty.RequestMiddleware {
	return func(_ *resty.Client, req *resty.Request) error {
		if req.Header.Get("User-Agent") == "" {
			req.SetHeader("User-Agent", p.random())
		}
		return nil
	}
}

type uaPool struct {
	mu  sync.Mutex
	rnd *rand.Rand
	uas []string
}

func (p *uaPool) random() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uas[p.rnd.Intn(len(p.uas))]
}

var globalUA = newUAPool()

func newUAPool() *uaPool {
	uas := []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	}
	return &uaPool{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		uas: uas,
	}
}

