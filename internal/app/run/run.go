package run

import (
	"context"
	"errors"
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set"

	"github.com/weijay0804/yahoo-movie-line-notify/internal/config"
	"github.com/weijay0804/yahoo-movie-line-notify/internal/domain"
	"github.com/weijay0804/yahoo-movie-line-notify/internal/notify"
	"github.com/weijay0804/yahoo-movie-line-notify/internal/yahoo"
)

// Step 是一次“抓取某个列表并逐条推送”。
type Step struct {
	Kind    domain.ListingKind
	Listing yahoo.Listing
}

// Plan 按固定顺序（上映中 -> 即将上映）生成执行步骤。
// only 为空表示全部；否则只保留 only 中出现的类型，顺序不受 only 影响。
func Plan(cfg config.Config, only []domain.ListingKind) []Step {
	selected := mapset.NewSet()
	for _, k := range only {
		selected.Add(k)
	}

	var steps []Step
	for _, k := range domain.AllKinds {
		if selected.Cardinality() > 0 && !selected.Contains(k) {
			continue
		}
		steps = append(steps, Step{Kind: k, Listing: ListingFor(cfg, k)})
	}
	return steps
}

// ListingFor 返回某类列表对应的 URL 与页数配置。
func ListingFor(cfg config.Config, k domain.ListingKind) yahoo.Listing {
	switch k {
	case domain.KindComing:
		return yahoo.Listing{URL: cfg.ComingURL, Pages: cfg.CommingPage}
	default:
		return yahoo.Listing{URL: cfg.PlayingURL, Pages: cfg.PlayingPage}
	}
}

// Execute 串行执行各步骤：先抓完一个列表，再逐条推送，然后进入下一个列表。
//
// 任一抓取或推送失败立即返回错误（不重试、不跳过、不输出部分成功的 report）。
func Execute(ctx context.Context, steps []Step, f yahoo.Fetcher, s notify.Sender, obs Observer) (domain.RunReport, error) {
	if f == nil {
		return domain.RunReport{}, errors.New("fetcher 不能为空")
	}
	if s == nil {
		return domain.RunReport{}, errors.New("sender 不能为空")
	}
	if obs == nil {
		obs = LogObserver{}
	}

	rr := domain.RunReport{
		StartedAt: time.Now(),
		Listings:  make([]domain.ListingResult, 0, len(steps)),
	}

	for _, step := range steps {
		obs.OnListingStart(step)
		started := time.Now()

		movies, err := step.Listing.Scrape(ctx, f)
		if err != nil {
			return domain.RunReport{}, fmt.Errorf("抓取 %s：%w", step.Kind, err)
		}
		obs.OnListingScraped(step, len(movies), time.Since(started))

		res := domain.ListingResult{
			Kind:   step.Kind,
			Label:  step.Kind.Label(),
			URL:    step.Listing.URL,
			Pages:  step.Listing.Pages,
			Movies: len(movies),
		}
		for i, m := range movies {
			if err := s.Notify(ctx, step.Kind, m); err != nil {
				return domain.RunReport{}, fmt.Errorf("推送 %s：%w", step.Kind, err)
			}
			res.Notified++
			obs.OnNotified(step, i+1, len(movies), m)
		}
		rr.Listings = append(rr.Listings, res)
	}

	rr.FinishedAt = time.Now()
	rr.Finalize()
	return rr, nil
}
