package logx

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestSetup_StderrOnly(t *testing.T) {
	l := logrus.New()
	var buf bytes.Buffer

	c, err := Setup(l, Options{Level: "debug"}, &buf)
	require.NoError(t, err)
	defer c.Close()

	l.WithField("page", 2).Debug("列表页抓取完成")
	require.Equal(t, logrus.DebugLevel, l.GetLevel())
	require.Contains(t, buf.String(), "列表页抓取完成")
	require.Contains(t, buf.String(), "page=2")
}

func TestSetup_FileAlsoReceivesLogs(t *testing.T) {
	l := logrus.New()
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "ymnotify.log")

	c, err := Setup(l, Options{Level: "info", File: path}, &buf)
	require.NoError(t, err)

	l.Info("推送完成")
	l.Debug("不应出现")
	require.NoError(t, c.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "推送完成")
	require.NotContains(t, string(b), "不应出现")
	require.Contains(t, buf.String(), "推送完成")
}

func TestSetup_InvalidLevel(t *testing.T) {
	_, err := Setup(logrus.New(), Options{Level: "loud"}, &bytes.Buffer{})
	require.Error(t, err)
}
