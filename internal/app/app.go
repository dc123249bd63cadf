package app

import (
	"context"
	"log/slog"
	"time"

	"NoticeDigest/internal/config"
	"NoticeDigest/internal/domain"
	"NoticeDigest/internal/infrastructure/digest"
	"NoticeDigest/internal/infrastructure/httpclient"
	"NoticeDigest/internal/infrastructure/mail"
	"NoticeDigest/internal/infrastructure/parser"
	"NoticeDigest/internal/infrastructure/scheduler"
	"NoticeDigest/internal/logging"
	"NoticeDigest/internal/ports"
	"NoticeDigest/internal/scanner"
	"NoticeDigest/internal/usecase"
)

// Option adjusts how New wires adapters.
type Option func(*options)

type options struct {
	fetcher  ports.PageFetcher
	proxy    ports.ProxyChecker
	notifier ports.Notifier
	dial     mail.DialFunc
	clock    func() time.Time
	dryRun   bool
}

// WithFetcher replaces the HTTP page fetcher.
func WithFetcher(f ports.PageFetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithProxyChecker replaces the proxy probe that gates each run.
func WithProxyChecker(p ports.ProxyChecker) Option {
	return func(o *options) { o.proxy = p }
}

// WithNotifier replaces the SMTP sender.
func WithNotifier(n ports.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithDialer keeps the SMTP sender but opens sessions through dial.
func WithDialer(dial mail.DialFunc) Option {
	return func(o *options) { o.dial = dial }
}

// WithClock overrides the run timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// DryRun renders the digest without mailing it.
func DryRun() Option {
	return func(o *options) { o.dryRun = true }
}

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	clock    func() time.Time
	logger   *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, recipients []domain.Recipient, baseLogger *slog.Logger, opts ...Option) *Application {
	if baseLogger == nil {
		baseLogger = logging.New("info")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = time.Now
	}

	registry := scanner.NewRegistry()
	registry.Register(parser.NewSchoolNewsExtractor(baseLogger.With("component", "extractor.school_news")))
	registry.Register(parser.NewStudentAffairsExtractor(baseLogger.With("component", "extractor.student_affairs")))
	registry.Register(parser.NewAcademicAffairsExtractor(baseLogger.With("component", "extractor.academic_affairs")))
	baseLogger.Debug("extractors registered", "names", registry.Names(), "sources", len(cfg.Sources))

	if o.fetcher == nil {
		client := newHTTPClient(cfg.Proxy, baseLogger)
		o.fetcher = client
		if o.proxy == nil && client.ProxyEnabled() {
			o.proxy = client
		}
	}

	if o.notifier == nil && !o.dryRun {
		o.notifier = mail.NewSender(cfg.SMTP, o.dial, baseLogger.With("component", "mail"))
	}
	if o.dryRun {
		o.notifier = nil
	}

	source := parser.NewStrategySource(registry, o.fetcher, cfg.Sources, baseLogger.With("component", "source"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:       source,
		Renderer:     digest.NewHTMLRenderer(cfg.Digest.Title),
		Notifier:     o.notifier,
		ProxyChecker: o.proxy,
		Recipients:   recipients,
		Days:         cfg.Days,
		SubjectTitle: cfg.Digest.Title,
		Logger:       baseLogger.With("component", "pipeline"),
	})
	return &Application{cfg: cfg, pipeline: pipeline, clock: o.clock, logger: baseLogger}
}

func newHTTPClient(proxy config.ProxyConfig, log *slog.Logger) *httpclient.Client {
	proxyURL, err := proxy.ProxyURL()
	if err != nil {
		log.Error("proxy disabled", "error", err)
	}

	client := httpclient.New(httpclient.Options{Proxy: proxyURL, HealthURL: proxy.HealthURL})
	if client.ProxyEnabled() {
		log.Info("fetching through proxy", "proxy", client.RedactedProxy())
	}
	return client
}

// Run performs a single pipeline execution stamped in the scheduler timezone.
func (a *Application) Run(ctx context.Context) (usecase.Report, error) {
	now := a.clock().In(a.cfg.Scheduler.Location())
	return a.pipeline.Run(ctx, now)
}

// Schedule runs the pipeline on the configured cron expression until ctx ends.
func (a *Application) Schedule(ctx context.Context) error {
	loc := a.cfg.Scheduler.Location()
	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.Cron, loc, a.logger.With("component", "cron"))
	sched := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))

	if err := sched.Start(ctx); err != nil {
		return err
	}
	a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.Cron, "timezone", loc.String(), "next", driver.Next().Format(time.DateTime))

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	a.logger.Info("scheduler stopping")
	return sched.Stop(stopCtx)
}
