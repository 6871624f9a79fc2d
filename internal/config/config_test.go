package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	c, err := Load(Options{Dir: dir, LookupEnv: envOf(nil)})
	require.NoError(t, err)
	require.Equal(t, DefaultPlayingPage, c.PlayingPage)
	require.Equal(t, DefaultCommingPage, c.CommingPage)
	require.Equal(t, DefaultPlayingURL, c.PlayingURL)
	require.Equal(t, DefaultComingURL, c.ComingURL)
	require.Equal(t, DefaultNotifyURL, c.NotifyURL)
	require.Equal(t, DefaultLogLevel, c.LogLevel)
	require.Empty(t, c.LineToken)

	err = c.RequireToken()
	require.Equal(t, ErrCodeMissingToken, Code(err), "err=%v", err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultFile), []byte(`{
  // json5：允许注释与尾逗号
  playing_page: 2,
  comming_page: 3,
  line_token: "from-file",
}`))

	c, err := Load(Options{Dir: dir, LookupEnv: envOf(map[string]string{
		EnvCommingPage: "9",
		EnvLineToken:   "from-env",
	})})
	require.NoError(t, err)
	require.Equal(t, 2, c.PlayingPage)
	require.Equal(t, 9, c.CommingPage)
	require.Equal(t, "from-env", c.LineToken)
	require.NoError(t, c.RequireToken())
}

func TestLoad_LocalFileOverridesBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ymnotify.json5"), []byte(`{playing_page: 2, line_token: "base", log_level: "warn"}`))
	writeFile(t, filepath.Join(dir, "ymnotify.local.json5"), []byte(`{playing_page: 4, line_token: "local"}`))

	c, err := Load(Options{Dir: dir, LookupEnv: envOf(nil)})
	require.NoError(t, err)
	require.Equal(t, 4, c.PlayingPage)
	require.Equal(t, "local", c.LineToken)
	require.Equal(t, "warn", c.LogLevel, "local 未设置的字段保留 base 的值")
}

func TestLoad_DotEnvBelowProcessEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), []byte("LINE_TOKEN=dotenv-token\nPLAYING_PAGE=1\n"))

	c, err := Load(Options{Dir: dir, LookupEnv: envOf(map[string]string{EnvPlayingPage: "7"})})
	require.NoError(t, err)
	require.Equal(t, "dotenv-token", c.LineToken)
	require.Equal(t, 7, c.PlayingPage, "进程环境变量优先于 .env")
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(Options{Dir: dir, File: "nope.json5", LookupEnv: envOf(nil)})
	require.Equal(t, ErrCodeNotFound, Code(err), "err=%v", err)
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "坏 json5", file: `{`},
		{name: "页数不是整数", env: map[string]string{EnvPlayingPage: "five"}},
		{name: "页数为负", env: map[string]string{EnvCommingPage: "-1"}},
		{name: "listing url 非 http", file: `{playing_url: "ftp://movies.yahoo.com.tw/x"}`},
		{name: "notify url 缺 host", env: map[string]string{EnvNotifyURL: "/api/notify"}},
		{name: "proxy 无效", file: `{proxy_url: "http://[::1"}`},
		{name: "log level 无效", env: map[string]string{EnvLogLevel: "loud"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			if tc.file != "" {
				writeFile(t, filepath.Join(dir, DefaultFile), []byte(tc.file))
			}
			_, err := Load(Options{Dir: dir, LookupEnv: envOf(tc.env)})
			require.Equal(t, ErrCodeInvalid, Code(err), "err=%v", err)
		})
	}
}

func TestLoad_ZeroPagesAllowed(t *testing.T) {
	dir := t.TempDir()

	c, err := Load(Options{Dir: dir, LookupEnv: envOf(map[string]string{EnvPlayingPage: "0"})})
	require.NoError(t, err)
	require.Equal(t, 0, c.PlayingPage)
}

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写入文件失败 %q：%v", path, err)
	}
}
