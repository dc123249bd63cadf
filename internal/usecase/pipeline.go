package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"NoticeDigest/internal/domain"
	"NoticeDigest/internal/ports"
)

const defaultSubjectTitle = "华东理工大学今日通知"

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source       ports.NoticeSource
	Renderer     ports.DigestRenderer
	Notifier     ports.Notifier
	ProxyChecker ports.ProxyChecker
	Recipients   []domain.Recipient
	Days         int
	SubjectTitle string
	Logger       *slog.Logger
}

// Pipeline implements one collect-filter-render-deliver run.
type Pipeline struct {
	source       ports.NoticeSource
	renderer     ports.DigestRenderer
	notifier     ports.Notifier
	proxyChecker ports.ProxyChecker
	recipients   []domain.Recipient
	days         int
	subjectTitle string
	logger       *slog.Logger
}

// Report summarizes a run.
type Report struct {
	Skipped   bool
	Collected int
	Recent    []domain.NewsItem
	Digest    domain.Digest
	Mailed    bool
	Delivery  domain.DeliveryReport
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	title := deps.SubjectTitle
	if title == "" {
		title = defaultSubjectTitle
	}
	return &Pipeline{
		source:       deps.Source,
		renderer:     deps.Renderer,
		notifier:     deps.Notifier,
		proxyChecker: deps.ProxyChecker,
		recipients:   deps.Recipients,
		days:         deps.Days,
		subjectTitle: title,
		logger:       log,
	}
}

// Run collects notices, keeps the recent ones and mails the digest. Pipeline
// conditions (failed sources, empty digests, failed deliveries) are logged and
// never returned; an error means the pipeline itself is miswired.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (Report, error) {
	if p.source == nil || p.renderer == nil {
		return Report{}, errors.New("pipeline requires a source and a renderer")
	}

	p.logger.Info("run started", "now", now.Format(time.DateTime), "days", p.days)

	if p.proxyChecker != nil {
		p.logger.Info("checking proxy")
		if err := p.proxyChecker.CheckProxy(ctx); err != nil {
			p.logger.Error("proxy unavailable, skipping run", "error", err)
			return Report{Skipped: true}, nil
		}
	}

	items := p.source.Collect(ctx, now)
	report := Report{Collected: len(items)}
	if len(items) == 0 {
		p.logger.Warn("no notices collected from any source")
	}

	report.Recent = FilterRecent(items, p.days, now)
	p.logger.Info("recent notices selected", "collected", len(items), "recent", len(report.Recent), "by_source", countBySource(report.Recent))

	body, err := p.renderer.Render(report.Recent, now)
	if err != nil {
		p.logger.Error("render digest", "error", err)
		return report, nil
	}
	report.Digest = domain.Digest{
		Subject:     fmt.Sprintf("%s (%d条)", p.subjectTitle, len(report.Recent)),
		Body:        body,
		Count:       len(report.Recent),
		GeneratedAt: now,
	}

	switch {
	case len(report.Recent) == 0:
		p.logger.Info("no new notices, mail not sent")
		return report, nil
	case len(p.recipients) == 0:
		p.logger.Warn("no recipients configured, mail not sent")
		return report, nil
	case p.notifier == nil:
		p.logger.Warn("no notifier configured, mail not sent")
		return report, nil
	}

	delivery, err := p.notifier.Deliver(ctx, report.Digest, p.recipients)
	report.Delivery = delivery
	if err != nil {
		p.logger.Error("deliver digest", "error", err)
		return report, nil
	}
	report.Mailed = true
	if !delivery.OK() {
		p.logger.Error("digest reached no recipient", "attempted", delivery.Attempted())
		return report, nil
	}

	p.logger.Info("run finished", "notices", report.Digest.Count, "delivered", len(delivery.Delivered), "attempted", delivery.Attempted())
	return report, nil
}

func countBySource(items []domain.NewsItem) map[string]int {
	counts := make(map[string]int, 3)
	for _, item := range items {
		counts[item.Source.String()]++
	}
	return counts
}
