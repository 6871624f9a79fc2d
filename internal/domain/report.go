package domain

import "time"

// RunReport 是一次 run 成功结束后的摘要（失败时整个 run 直接报错，不产出 report）。
type RunReport struct {
	DryRun bool `json:"dry_run"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary  ReportSummary   `json:"summary"`
	Listings []ListingResult `json:"listings"`
}

type ReportSummary struct {
	Movies   int `json:"movies"`
	Notified int `json:"notified"`
}

type ListingResult struct {
	Kind     ListingKind `json:"kind"`
	Label    string      `json:"label"`
	URL      string      `json:"url"`
	Pages    int         `json:"pages"`
	Movies   int         `json:"movies"`
	Notified int         `json:"notified"`
}

// Finalize 做两件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) summary 由 listings 计算得出
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	var s ReportSummary
	for _, l := range r.Listings {
		s.Movies += l.Movies
		s.Notified += l.Notified
	}
	r.Summary = s
}
