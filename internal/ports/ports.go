package ports

import (
	"context"
	"time"

	"NoticeDigest/internal/domain"
)

// NoticeSource collects normalized notices from every configured site.
type NoticeSource interface {
	Collect(ctx context.Context, now time.Time) []domain.NewsItem
}

// PageFetcher downloads raw listing markup.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// ProxyChecker verifies the outbound proxy before a run.
type ProxyChecker interface {
	CheckProxy(ctx context.Context) error
}

// DigestRenderer turns the filtered notices into a transmittable document.
type DigestRenderer interface {
	Render(items []domain.NewsItem, generatedAt time.Time) (string, error)
}

// Notifier delivers a digest to every recipient and reports per-recipient outcomes.
type Notifier interface {
	Deliver(ctx context.Context, digest domain.Digest, recipients []domain.Recipient) (domain.DeliveryReport, error)
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
