package run

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/weijay0804/yahoo-movie-line-notify/internal/domain"
)

// Observer 用于把“进度/阶段”从核心执行流程中解耦出来。
//
// 约束：run 包只负责发事件；执行是单 goroutine 串行的，实现不需要并发安全。
type Observer interface {
	// OnListingStart 在开始抓取某个列表前调用。
	OnListingStart(step Step)
	// OnListingScraped 在列表抓取完成后调用（尚未推送）。
	OnListingScraped(step Step, movies int, dur time.Duration)
	// OnNotified 在每部电影推送成功后调用。
	OnNotified(step Step, idx, total int, m domain.Movie)
}

// LogObserver 把事件写进 logrus（info：列表级；debug：逐条）。
type LogObserver struct {
	Log logrus.FieldLogger
}

func (o LogObserver) logger() logrus.FieldLogger {
	if o.Log == nil {
		return logrus.StandardLogger()
	}
	return o.Log
}

func (o LogObserver) OnListingStart(step Step) {
	o.logger().WithFields(logrus.Fields{
		"kind":  step.Kind,
		"url":   step.Listing.URL,
		"pages": step.Listing.Pages,
	}).Info("开始抓取列表")
}

func (o LogObserver) OnListingScraped(step Step, movies int, dur time.Duration) {
	o.logger().WithFields(logrus.Fields{
		"kind":    step.Kind,
		"movies":  movies,
		"elapsed": dur.Round(time.Millisecond),
	}).Info("列表抓取完成")
}

func (o LogObserver) OnNotified(step Step, idx, total int, m domain.Movie) {
	o.logger().WithFields(logrus.Fields{
		"kind":  step.Kind,
		"title": m.TitleCh,
	}).Debugf("推送 %d/%d", idx, total)
}
