package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"NoticeDigest/internal/domain"
)

const (
	defaultTimezone  = "Asia/Shanghai"
	defaultDays      = 1
	defaultSMTPPort  = 465
	defaultHealthURL = "https://www.baidu.com"

	// DefaultConfigPath and DefaultRecipientsPath are used when no path is given.
	DefaultConfigPath     = "config.json"
	DefaultRecipientsPath = "emails.json"

	configPathEnv     = "NOTICE_DIGEST_CONFIG"
	recipientsPathEnv = "NOTICE_DIGEST_RECIPIENTS"
	daysEnv           = "NOTICE_DIGEST_DAYS"
	smtpUsernameEnv   = "SMTP_USERNAME"
	smtpPasswordEnv   = "SMTP_PASSWORD"
	proxyPasswordEnv  = "PROXY_PASSWORD"
)

var validate = validator.New()

// Config holds high-level settings required across the application.
type Config struct {
	Days      int             `json:"days" yaml:"days"`
	SMTP      SMTPConfig      `json:"smtp" yaml:"smtp"`
	Proxy     ProxyConfig     `json:"proxy" yaml:"proxy"`
	Digest    DigestConfig    `json:"digest" yaml:"digest"`
	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler"`
	Sources   []SourceConfig  `json:"sources" yaml:"sources"`
}

// SMTPConfig describes the outgoing mail server.
type SMTPConfig struct {
	Server      string `json:"server" yaml:"server"`
	Port        int    `json:"port" yaml:"port"`
	Username    string `json:"username" yaml:"username"`
	Password    string `json:"password" yaml:"password"`
	SenderEmail string `json:"sender_email" yaml:"sender_email"`
}

// Configured reports whether enough is set to open a mail session.
func (s SMTPConfig) Configured() bool {
	return s.Server != "" && s.SenderEmail != ""
}

// Address is server:port, defaulting to the implicit-TLS port.
func (s SMTPConfig) Address() string {
	port := s.Port
	if port == 0 {
		port = defaultSMTPPort
	}
	return s.Server + ":" + strconv.Itoa(port)
}

// ProxyConfig describes the optional HTTP proxy used for page fetches.
type ProxyConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	URL       string `json:"url" yaml:"url"`
	Username  string `json:"username" yaml:"username"`
	Password  string `json:"password" yaml:"password"`
	HealthURL string `json:"health_url" yaml:"health_url"`
}

// ProxyURL returns the proxy with credentials embedded, or nil when disabled.
func (p ProxyConfig) ProxyURL() (*url.URL, error) {
	if !p.Enabled || strings.TrimSpace(p.URL) == "" {
		return nil, nil
	}
	parsed, err := url.Parse(strings.TrimSpace(p.URL))
	if err != nil {
		return nil, fmt.Errorf("invalid proxy url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid proxy url %q: scheme and host are required", p.URL)
	}
	if p.Username != "" && p.Password != "" {
		parsed.User = url.UserPassword(p.Username, p.Password)
	}
	return parsed, nil
}

// DigestConfig controls digest presentation.
type DigestConfig struct {
	Title string `json:"title" yaml:"title"`
}

// SchedulerConfig defines when the pipeline should run in schedule mode.
type SchedulerConfig struct {
	Cron     string         `json:"cron" yaml:"cron"`
	Timezone string         `json:"timezone" yaml:"timezone"`
	location *time.Location `json:"-" yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	if loc, err := time.LoadLocation(s.Timezone); err == nil && s.Timezone != "" {
		return loc
	}
	return time.UTC
}

// SourceConfig describes a single listing page with its extractor.
type SourceConfig struct {
	Name      string            `json:"name" yaml:"name" validate:"required"`
	Extractor string            `json:"extractor" yaml:"extractor" validate:"required"`
	URL       string            `json:"url" yaml:"url" validate:"required,url"`
	BaseURL   string            `json:"base_url" yaml:"base_url" validate:"omitempty,url"`
	Options   map[string]string `json:"options" yaml:"options"`
}

// Load reads the configuration file (JSON or YAML) over defaults and applies
// environment overrides. A missing or broken file is logged and defaults are used.
func Load(path string, log *slog.Logger) Config {
	log = orDiscard(log)
	if path == "" {
		path = envOr(configPathEnv, DefaultConfigPath)
	}

	cfg := Default()
	// Decoding into the default slice would merge file sources into default ones.
	cfg.Sources = nil
	if err := decodeFile(path, &cfg); err != nil {
		log.Error("config: cannot load file, using defaults", "path", path, "error", err)
		cfg = Default()
	}

	cfg.applyEnvOverrides(log)
	cfg.sanitize(log)
	cfg.bindTimezone(log)
	return cfg
}

// LoadRecipients reads the recipient list. A missing file yields an empty list;
// entries with an invalid address are dropped.
func LoadRecipients(path string, log *slog.Logger) []domain.Recipient {
	log = orDiscard(log)
	if path == "" {
		path = envOr(recipientsPathEnv, DefaultRecipientsPath)
	}

	var raw []domain.Recipient
	if err := decodeFile(path, &raw); err != nil {
		log.Error("recipients: cannot load file", "path", path, "error", err)
		return []domain.Recipient{}
	}

	recipients := make([]domain.Recipient, 0, len(raw))
	for _, r := range raw {
		r.Name = strings.TrimSpace(r.Name)
		r.Email = strings.TrimSpace(r.Email)
		if err := validate.Struct(r); err != nil {
			log.Warn("recipients: drop invalid entry", "email", r.Email, "error", err)
			continue
		}
		recipients = append(recipients, r)
	}
	return recipients
}

func decodeFile(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("file %s does not exist: %w", path, err)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(raw, v); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(raw, v); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) applyEnvOverrides(log *slog.Logger) {
	if v := os.Getenv(daysEnv); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			log.Warn("config: ignore invalid days override", "value", v)
		} else {
			c.Days = days
		}
	}

	if v := os.Getenv(smtpUsernameEnv); v != "" {
		c.SMTP.Username = v
	}

	if v := os.Getenv(smtpPasswordEnv); v != "" {
		c.SMTP.Password = v
	}

	if v := os.Getenv(proxyPasswordEnv); v != "" {
		c.Proxy.Password = v
	}
}

func (c *Config) sanitize(log *slog.Logger) {
	if err := validate.Var(c.Days, "gte=0,lte=3650"); err != nil {
		log.Warn("config: days out of range, using default", "days", c.Days, "default", defaultDays)
		c.Days = defaultDays
	}

	if c.Digest.Title == "" {
		c.Digest.Title = Default().Digest.Title
	}
	if c.Scheduler.Cron == "" {
		c.Scheduler.Cron = Default().Scheduler.Cron
	}
	if c.Proxy.HealthURL == "" {
		c.Proxy.HealthURL = defaultHealthURL
	}

	sources := make([]SourceConfig, 0, len(c.Sources))
	for _, src := range c.Sources {
		if err := validate.Struct(src); err != nil {
			log.Warn("config: drop invalid source", "source", src.Name, "error", err)
			continue
		}
		sources = append(sources, src)
	}
	if len(sources) == 0 {
		sources = Default().Sources
	}
	c.Sources = sources
}

func (c *Config) bindTimezone(log *slog.Logger) {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Warn("config: unknown timezone, reverting to UTC", "timezone", tz)
		loc = time.UTC
		tz = "UTC"
	}
	c.Scheduler.Timezone = tz
	c.Scheduler.location = loc
}

// Default returns the built-in configuration covering the three ECUST sites.
func Default() Config {
	return Config{
		Days: defaultDays,
		SMTP: SMTPConfig{Port: defaultSMTPPort},
		Proxy: ProxyConfig{
			HealthURL: defaultHealthURL,
		},
		Digest:    DigestConfig{Title: "华东理工大学今日通知"},
		Scheduler: SchedulerConfig{Cron: "0 8 * * *", Timezone: defaultTimezone},
		Sources: []SourceConfig{
			{
				Name:      "school-news",
				Extractor: "school-news",
				URL:       "https://news.ecust.edu.cn/16/list.htm",
				BaseURL:   "https://news.ecust.edu.cn",
			},
			{
				Name:      "student-affairs",
				Extractor: "student-affairs",
				URL:       "https://student.ecust.edu.cn/1048/list.htm",
				BaseURL:   "https://student.ecust.edu.cn",
			},
			{
				Name:      "academic-affairs",
				Extractor: "academic-affairs",
				URL:       "https://jwc.ecust.edu.cn/main.htm",
				BaseURL:   "https://jwc.ecust.edu.cn",
				Options:   map[string]string{"exclude_domain": "news.ecust.edu.cn"},
			},
		},
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func orDiscard(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return log
}
