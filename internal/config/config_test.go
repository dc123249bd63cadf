package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeTemp(t, "config.json", `{
  "days": 3,
  "smtp": {
    "server": "smtp.example.org",
    "port": 994,
    "username": "bot@example.org",
    "password": "secret",
    "sender_email": "bot@example.org"
  },
  "proxy": {"enabled": true, "url": "http://127.0.0.1:8080", "username": "u", "password": "p"}
}`)

	cfg := Load(path, nil)
	assert.Equal(t, 3, cfg.Days)
	assert.Equal(t, "smtp.example.org:994", cfg.SMTP.Address())
	assert.True(t, cfg.SMTP.Configured())
	assert.True(t, cfg.Proxy.Enabled)
	assert.Equal(t, defaultHealthURL, cfg.Proxy.HealthURL)
	assert.Len(t, cfg.Sources, 3, "default sources apply when file has none")
	assert.Equal(t, "华东理工大学今日通知", cfg.Digest.Title)

	proxy, err := cfg.Proxy.ProxyURL()
	require.NoError(t, err)
	require.NotNil(t, proxy)
	assert.Equal(t, "http://u:p@127.0.0.1:8080", proxy.String())
}

func TestLoadYAMLWithSources(t *testing.T) {
	path := writeTemp(t, "config.yaml", `
days: 0
scheduler:
  cron: "30 7 * * 1-5"
  timezone: UTC
sources:
  - name: only-news
    extractor: school-news
    url: https://news.example.org/16/list.htm
  - name: broken
    extractor: school-news
    url: not a url
`)

	cfg := Load(path, nil)
	assert.Equal(t, 0, cfg.Days)
	assert.Equal(t, "30 7 * * 1-5", cfg.Scheduler.Cron)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, "only-news", cfg.Sources[0].Name)
	assert.Empty(t, cfg.Sources[0].BaseURL)
	assert.Nil(t, cfg.Sources[0].Options)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "absent.json"), nil)
	def := Default()
	assert.Equal(t, def.Days, cfg.Days)
	assert.Equal(t, def.Sources, cfg.Sources)
	assert.False(t, cfg.SMTP.Configured())
	assert.Equal(t, "Asia/Shanghai", cfg.Scheduler.Timezone)
}

func TestLoadInvalidFileFallsBackToDefaults(t *testing.T) {
	path := writeTemp(t, "config.json", `{ invalid json }`)
	cfg := Load(path, nil)
	assert.Equal(t, Default().Sources, cfg.Sources)
}

func TestLoadSanitizesDaysAndTimezone(t *testing.T) {
	path := writeTemp(t, "config.json", `{"days": -4, "scheduler": {"timezone": "Mars/Olympus"}}`)
	cfg := Load(path, nil)
	assert.Equal(t, defaultDays, cfg.Days)
	assert.Equal(t, "UTC", cfg.Scheduler.Timezone)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(daysEnv, "7")
	t.Setenv(smtpPasswordEnv, "from-env")
	t.Setenv(proxyPasswordEnv, "proxy-env")

	path := writeTemp(t, "config.json", `{"days": 2, "smtp": {"password": "from-file"}}`)
	cfg := Load(path, nil)
	assert.Equal(t, 7, cfg.Days)
	assert.Equal(t, "from-env", cfg.SMTP.Password)
	assert.Equal(t, "proxy-env", cfg.Proxy.Password)
}

func TestLoadUsesEnvPath(t *testing.T) {
	path := writeTemp(t, "custom.json", `{"days": 5}`)
	t.Setenv(configPathEnv, path)

	cfg := Load("", nil)
	assert.Equal(t, 5, cfg.Days)
}

func TestProxyURL(t *testing.T) {
	t.Parallel()

	disabled := ProxyConfig{URL: "http://proxy:3128"}
	u, err := disabled.ProxyURL()
	require.NoError(t, err)
	assert.Nil(t, u)

	noCreds := ProxyConfig{Enabled: true, URL: "http://proxy:3128", Username: "only-user"}
	u, err = noCreds.ProxyURL()
	require.NoError(t, err)
	assert.Nil(t, u.User)

	bad := ProxyConfig{Enabled: true, URL: "proxy-without-scheme"}
	_, err = bad.ProxyURL()
	require.Error(t, err)
}

func TestLoadRecipients(t *testing.T) {
	path := writeTemp(t, "emails.json", `[
  {"name": "Alice", "email": "alice@example.org"},
  {"name": "Broken", "email": "not-an-address"},
  {"name": "", "email": " bob@example.org "}
]`)

	recipients := LoadRecipients(path, nil)
	require.Len(t, recipients, 2)
	assert.Equal(t, "Alice", recipients[0].Name)
	assert.Equal(t, "bob@example.org", recipients[1].Email)
}

func TestLoadRecipientsMissingFile(t *testing.T) {
	recipients := LoadRecipients(filepath.Join(t.TempDir(), "absent.json"), nil)
	assert.NotNil(t, recipients)
	assert.Empty(t, recipients)
}
