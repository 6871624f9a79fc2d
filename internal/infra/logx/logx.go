package logx

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options 控制日志输出。File 为空时只写 stderr。
type Options struct {
	Level string
	File  string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup 配置 logger 的级别与输出。
// File 非空时同时写入滚动日志文件（10 MB / 3 份 / 28 天），返回的 Closer 负责关闭它。
func Setup(l *logrus.Logger, opts Options, stderr io.Writer) (io.Closer, error) {
	lvl := logrus.InfoLevel
	if s := strings.TrimSpace(opts.Level); s != "" {
		parsed, err := logrus.ParseLevel(s)
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	file := strings.TrimSpace(opts.File)
	if file == "" {
		l.SetOutput(stderr)
		return nopCloser{}, nil
	}

	rot := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
	l.SetOutput(io.MultiWriter(stderr, rot))
	return rot, nil
}
