package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/titanous/json5"

	"github.com/weijay0804/yahoo-movie-line-notify/internal/notify"
	"github.com/weijay0804/yahoo-movie-line-notify/internal/yahoo"
)

const (
	// ErrCodeNotFound 表示显式指定的配置文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件/环境变量无法解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeMissingToken 表示需要推送但没有 LINE token。
	ErrCodeMissingToken = "config_missing_token"
)

const (
	// DefaultFile 是未指定 --config 时在 cwd 下查找的配置文件（可选）。
	DefaultFile = "ymnotify.json5"
	// DefaultDotEnv 是 cwd 下的 .env（可选）。
	DefaultDotEnv = ".env"

	DefaultPlayingPage = 5
	DefaultCommingPage = 6

	DefaultPlayingURL = yahoo.PlayingURL
	DefaultComingURL  = yahoo.ComingURL
	DefaultNotifyURL  = notify.DefaultEndpoint
	DefaultLogLevel   = "info"
)

// 环境变量名沿用部署脚本里已有的拼写（COMMING_PAGE）。
const (
	EnvPlayingPage = "PLAYING_PAGE"
	EnvCommingPage = "COMMING_PAGE"
	EnvLineToken   = "LINE_TOKEN"
	EnvNotifyURL   = "NOTIFY_URL"
	EnvPlayingURL  = "PLAYING_URL"
	EnvComingURL   = "COMING_URL"
	EnvProxyURL    = "PROXY_URL"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFile     = "LOG_FILE"
)

// FileConfig 对应 ymnotify.json5 / ymnotify.local.json5 的解析结构。
// 指针字段用于区分“未设置”与“显式设为 0”。
type FileConfig struct {
	PlayingPage *int   `json:"playing_page"`
	CommingPage *int   `json:"comming_page"`
	LineToken   string `json:"line_token"`
	NotifyURL   string `json:"notify_url"`
	PlayingURL  string `json:"playing_url"`
	ComingURL   string `json:"coming_url"`
	ProxyURL    string `json:"proxy_url"`
	LogLevel    string `json:"log_level"`
	LogFile     string `json:"log_file"`
}

// Config 是合并并校验后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type Config struct {
	PlayingPage int
	CommingPage int
	LineToken   string

	NotifyURL  string
	PlayingURL string
	ComingURL  string
	ProxyURL   string

	LogLevel string
	LogFile  string
}

// Options 控制配置发现。零值即默认行为：cwd 下可选的 ymnotify.json5 与 .env，读取进程环境变量。
type Options struct {
	// Dir 是相对路径的基准目录；为空时使用 cwd。
	Dir string
	// File 显式指定配置文件；指定后必须存在。
	File string
	// DotEnv 显式指定 .env；为空时读取 <Dir>/.env（可选）。
	DotEnv string
	// LookupEnv 为空时使用 os.LookupEnv。
	LookupEnv func(string) (string, bool)
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeMissingToken:
		return fmt.Sprintf("%s：未设置 %s（或配置文件 line_token）", e.Code, EnvLineToken)
	case ErrCodeInvalid:
		if e.Path != "" && e.Err != nil {
			return fmt.Sprintf("%s：%q 无效：%v", e.Code, e.Path, e.Err)
		}
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Load 读取并合并配置。
//
// 覆盖优先级（固定）：
// 进程环境变量 > .env > <name>.local.json5 > <name>.json5 > 内置默认
//
// .env 不会写回进程环境，只参与本次查找。
func Load(opts Options) (Config, error) {
	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, &Error{Code: ErrCodeInvalid, Err: err}
		}
		dir = wd
	}

	cfgPath := strings.TrimSpace(opts.File)
	required := cfgPath != ""
	if !required {
		cfgPath = DefaultFile
	}
	cfgPath = absFrom(dir, cfgPath)

	fc, err := readFileConfig(cfgPath, required)
	if err != nil {
		return Config{}, err
	}

	dotenvPath := strings.TrimSpace(opts.DotEnv)
	if dotenvPath == "" {
		dotenvPath = DefaultDotEnv
	}
	dotenvPath = absFrom(dir, dotenvPath)
	dotenv, err := readDotEnv(dotenvPath)
	if err != nil {
		return Config{}, &Error{Code: ErrCodeInvalid, Path: dotenvPath, Err: err}
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	return merge(fc, env)
}

func merge(fc FileConfig, env func(string) (string, bool)) (Config, error) {
	c := Config{
		PlayingPage: DefaultPlayingPage,
		CommingPage: DefaultCommingPage,
		LineToken:   fc.LineToken,
		NotifyURL:   orDefault(fc.NotifyURL, DefaultNotifyURL),
		PlayingURL:  orDefault(fc.PlayingURL, DefaultPlayingURL),
		ComingURL:   orDefault(fc.ComingURL, DefaultComingURL),
		ProxyURL:    strings.TrimSpace(fc.ProxyURL),
		LogLevel:    orDefault(fc.LogLevel, DefaultLogLevel),
		LogFile:     strings.TrimSpace(fc.LogFile),
	}
	if fc.PlayingPage != nil {
		c.PlayingPage = *fc.PlayingPage
	}
	if fc.CommingPage != nil {
		c.CommingPage = *fc.CommingPage
	}

	if v, ok := env(EnvPlayingPage); ok {
		n, err := parsePages(EnvPlayingPage, v)
		if err != nil {
			return Config{}, err
		}
		c.PlayingPage = n
	}
	if v, ok := env(EnvCommingPage); ok {
		n, err := parsePages(EnvCommingPage, v)
		if err != nil {
			return Config{}, err
		}
		c.CommingPage = n
	}
	for key, dst := range map[string]*string{
		EnvLineToken:  &c.LineToken,
		EnvNotifyURL:  &c.NotifyURL,
		EnvPlayingURL: &c.PlayingURL,
		EnvComingURL:  &c.ComingURL,
		EnvProxyURL:   &c.ProxyURL,
		EnvLogLevel:   &c.LogLevel,
		EnvLogFile:    &c.LogFile,
	} {
		if v, ok := env(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if c.PlayingPage < 0 {
		return &Error{Code: ErrCodeInvalid, Err: fmt.Errorf("playing_page 不能为负数：%d", c.PlayingPage)}
	}
	if c.CommingPage < 0 {
		return &Error{Code: ErrCodeInvalid, Err: fmt.Errorf("comming_page 不能为负数：%d", c.CommingPage)}
	}
	for name, u := range map[string]string{
		"notify_url":  c.NotifyURL,
		"playing_url": c.PlayingURL,
		"coming_url":  c.ComingURL,
	} {
		if err := validateHTTPURL(u); err != nil {
			return &Error{Code: ErrCodeInvalid, Err: fmt.Errorf("%s %w", name, err)}
		}
	}
	if c.ProxyURL != "" {
		if _, err := url.Parse(c.ProxyURL); err != nil {
			return &Error{Code: ErrCodeInvalid, Err: fmt.Errorf("proxy_url 无效：%w", err)}
		}
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return &Error{Code: ErrCodeInvalid, Err: fmt.Errorf("log_level 无效：%w", err)}
	}
	return nil
}

// RequireToken 在需要真正推送时调用：token 缺失返回 config_missing_token。
func (c Config) RequireToken() error {
	if strings.TrimSpace(c.LineToken) == "" {
		return &Error{Code: ErrCodeMissingToken}
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("无效：%q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("必须是 http/https：%q", raw)
	}
	return nil
}

func parsePages(key, v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &Error{Code: ErrCodeInvalid, Err: fmt.Errorf("%s 必须是整数，实际是 %q", key, v)}
	}
	return n, nil
}

func orDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

// readFileConfig 读取 <name>.json5，并用 <name>.local.json5 覆盖其中的非零字段。
// required=false 时两者都不存在不算错误。
func readFileConfig(path string, required bool) (FileConfig, error) {
	base, exists, err := readJSON5(path)
	if err != nil {
		return FileConfig{}, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}
	if required && !exists {
		return FileConfig{}, &Error{Code: ErrCodeNotFound, Path: path, Err: os.ErrNotExist}
	}

	localPath := localVariant(path)
	local, localExists, err := readJSON5(localPath)
	if err != nil {
		return FileConfig{}, &Error{Code: ErrCodeInvalid, Path: localPath, Err: err}
	}
	if localExists {
		if err := mergo.Merge(&base, local, mergo.WithOverride); err != nil {
			return FileConfig{}, &Error{Code: ErrCodeInvalid, Path: localPath, Err: err}
		}
	}
	return base, nil
}

func readJSON5(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json5.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}

func readDotEnv(path string) (map[string]string, error) {
	m, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// localVariant: a/ymnotify.json5 -> a/ymnotify.local.json5
func localVariant(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

func absFrom(base, p string) string {
	p = filepath.Clean(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
