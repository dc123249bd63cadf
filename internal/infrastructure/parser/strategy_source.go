package parser

import (
	"context"
	"log/slog"
	"time"

	"NoticeDigest/internal/config"
	"NoticeDigest/internal/domain"
	"NoticeDigest/internal/ports"
	"NoticeDigest/internal/scanner"
)

// StrategySource implements NoticeSource via registered extractors.
type StrategySource struct {
	registry *scanner.Registry
	fetcher  ports.PageFetcher
	sources  []config.SourceConfig
	logger   *slog.Logger
}

var _ ports.NoticeSource = (*StrategySource)(nil)

// NewStrategySource wires the extractor registry with config-defined sources.
func NewStrategySource(reg *scanner.Registry, fetcher ports.PageFetcher, sources []config.SourceConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		fetcher:  fetcher,
		sources:  sources,
		logger:   orDiscard(log),
	}
}

// Collect fetches and extracts each configured source in order. A failing
// source contributes no items and never stops the others.
func (s *StrategySource) Collect(ctx context.Context, now time.Time) []domain.NewsItem {
	s.logger.Debug("collect", "sources", len(s.sources), "now", now.Format(time.DateTime))

	var aggregated []domain.NewsItem
	for _, src := range s.sources {
		items := s.collectSource(ctx, src, now)
		if len(items) == 0 {
			s.logger.Warn("source produced no notices", "source", src.Name)
			continue
		}
		s.logger.Info("source produced notices", "source", src.Name, "count", len(items))
		aggregated = append(aggregated, items...)
	}

	s.logger.Info("collection done", "total", len(aggregated))
	return aggregated
}

func (s *StrategySource) collectSource(ctx context.Context, src config.SourceConfig, now time.Time) []domain.NewsItem {
	if s.registry == nil || s.fetcher == nil {
		s.logger.Error("source walker misconfigured", "source", src.Name)
		return nil
	}

	extractor, err := s.registry.Resolve(src.Extractor)
	if err != nil {
		s.logger.Warn("resolve extractor", "source", src.Name, "registered", s.registry.Names(), "error", err)
		return nil
	}

	html, err := s.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		s.logger.Error("fetch source", "source", src.Name, "url", src.URL, "error", err)
		return nil
	}

	items, err := extractor.Extract(scanner.Page{
		URL:     src.URL,
		BaseURL: src.BaseURL,
		HTML:    html,
		Now:     now,
		Options: src.Options,
	})
	if err != nil {
		s.logger.Warn("extract source", "source", src.Name, "error", err)
		return nil
	}
	return items
}
