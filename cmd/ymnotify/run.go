package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/weijay0804/yahoo-movie-line-notify/internal/app/run"
	"github.com/weijay0804/yahoo-movie-line-notify/internal/domain"
	"github.com/weijay0804/yahoo-movie-line-notify/internal/infra/httpx"
	"github.com/weijay0804/yahoo-movie-line-notify/internal/notify"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		only       []string
		dryRun     bool
		jsonReport bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "抓取上映中与即將上映列表并逐部推送（单次执行，由外部排程触发）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kinds, err := parseKinds(only)
			if err != nil {
				return err
			}
			if !dryRun {
				if err := a.cfg.RequireToken(); err != nil {
					return err
				}
			}

			client, err := httpx.New(a.cfg.ProxyURL)
			if err != nil {
				return fmt.Errorf("初始化 http client 失败：%w", err)
			}

			var sender notify.Sender = notify.Notifier{
				Endpoint: a.cfg.NotifyURL,
				Token:    a.cfg.LineToken,
				Client:   client,
			}
			if dryRun {
				sender = notify.Printer{W: a.stdout}
			}

			rr, err := run.Execute(cmd.Context(), run.Plan(a.cfg, kinds), client, sender, run.LogObserver{})
			if err != nil {
				return err
			}
			rr.DryRun = dryRun

			logrus.WithFields(logrus.Fields{
				"movies":   rr.Summary.Movies,
				"notified": rr.Summary.Notified,
				"dry_run":  rr.DryRun,
			}).Info("完成")

			if jsonReport {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rr)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&only, "only", nil, "只处理指定列表：playing,coming（默认全部）")
	f.BoolVar(&dryRun, "dry-run", false, "只抓取并把消息打印到 stdout，不推送")
	f.BoolVar(&jsonReport, "json", false, "结束后在 stdout 输出 RunReport JSON")
	return cmd
}

func parseKinds(raw []string) ([]domain.ListingKind, error) {
	kinds := make([]domain.ListingKind, 0, len(raw))
	for _, s := range raw {
		if strings.TrimSpace(s) == "" {
			continue
		}
		k, ok := domain.ParseListingKind(s)
		if !ok {
			return nil, fmt.Errorf("--only 只能是 playing 或 coming，实际是 %q", s)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
