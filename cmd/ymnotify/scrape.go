package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/weijay0804/yahoo-movie-line-notify/internal/app/run"
	"github.com/weijay0804/yahoo-movie-line-notify/internal/domain"
	"github.com/weijay0804/yahoo-movie-line-notify/internal/infra/fsx"
	"github.com/weijay0804/yahoo-movie-line-notify/internal/infra/httpx"
)

func newScrapeCmd(a *app) *cobra.Command {
	var (
		pages  int
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:       "scrape <playing|coming>",
		Short:     "只抓取单个列表并输出解析结果（不推送）",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(domain.KindPlaying), string(domain.KindComing)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := domain.ParseListingKind(args[0])
			if !ok {
				return fmt.Errorf("列表只能是 playing 或 coming，实际是 %q", args[0])
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("--format 只能是 table 或 json，实际是 %q", format)
			}

			listing := run.ListingFor(a.cfg, kind)
			if cmd.Flags().Changed("pages") {
				listing.Pages = pages
			}

			client, err := httpx.New(a.cfg.ProxyURL)
			if err != nil {
				return fmt.Errorf("初始化 http client 失败：%w", err)
			}
			movies, err := listing.Scrape(cmd.Context(), client)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if format == "json" {
				if err := writeJSON(&buf, movies); err != nil {
					return err
				}
			} else {
				writeTable(&buf, kind, movies)
			}

			if out == "" {
				_, err := a.stdout.Write(buf.Bytes())
				return err
			}
			if err := fsx.WriteFileAtomic(out, buf.Bytes()); err != nil {
				return fmt.Errorf("写入 %q 失败：%w", out, err)
			}
			logrus.WithFields(logrus.Fields{"path": out, "movies": len(movies)}).Info("已写入")
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&pages, "pages", 0, "最多抓取页数（默认取配置）")
	f.StringVar(&format, "format", "table", "输出格式：table|json")
	f.StringVarP(&out, "out", "o", "", "写入文件而不是 stdout（原子替换）")
	return cmd
}

func writeJSON(w io.Writer, movies []domain.Movie) error {
	if movies == nil {
		movies = []domain.Movie{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(movies)
}

func writeTable(w io.Writer, kind domain.ListingKind, movies []domain.Movie) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(kind.Label())
	t.AppendHeader(table.Row{"#", "電影名稱", "英文名稱", "上映日期", "想看", "評分", "連結"})
	for i, m := range movies {
		t.AppendRow(table.Row{i + 1, m.TitleCh, m.TitleEn, m.ReleaseDate, m.WantWatchText(), m.RateText(), m.MovieLink})
	}
	t.AppendFooter(table.Row{"", "共", len(movies)})
	t.Render()
}
