package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/weijay0804/yahoo-movie-line-notify/internal/config"
	"github.com/weijay0804/yahoo-movie-line-notify/internal/infra/logx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		logrus.WithField("error_code", config.Code(err)).Error(err)
		stop()
		os.Exit(1)
	}
}

// globalFlags 是所有子命令共用的参数。
type globalFlags struct {
	configFile string
	envFile    string
	logLevel   string
}

// app 在 PersistentPreRunE 中完成配置加载与日志初始化，子命令直接消费。
type app struct {
	flags  globalFlags
	cfg    config.Config
	stdout io.Writer
	stderr io.Writer
	closer io.Closer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "ymnotify",
		Short:         "抓取 Yahoo 奇摩電影的上映中/即將上映列表，逐部推送到 LINE Notify。",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "配置文件（json5）；未指定时读取 cwd 下可选的 "+config.DefaultFile)
	pf.StringVar(&a.flags.envFile, "env-file", "", "dotenv 文件；未指定时读取 cwd 下可选的 "+config.DefaultDotEnv)
	pf.StringVar(&a.flags.logLevel, "log-level", "", "日志级别（覆盖配置）：debug|info|warn|error")

	root.AddCommand(newRunCmd(a), newScrapeCmd(a))
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(config.Options{
		File:   a.flags.configFile,
		DotEnv: a.flags.envFile,
	})
	if err != nil {
		return err
	}
	if a.flags.logLevel != "" {
		cfg.LogLevel = a.flags.logLevel
	}

	closer, err := logx.Setup(logrus.StandardLogger(), logx.Options{Level: cfg.LogLevel, File: cfg.LogFile}, a.stderr)
	if err != nil {
		return &config.Error{Code: config.ErrCodeInvalid, Err: err}
	}
	a.cfg = cfg
	a.closer = closer
	return nil
}
