package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSendsBrowserUserAgent(t *testing.T) {
	t.Parallel()

	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<ul class="news_list list2"></ul>`))
	}))
	defer server.Close()

	c := New(Options{})
	body, err := c.Fetch(context.Background(), server.URL+"/16/list.htm")
	require.NoError(t, err)
	assert.Contains(t, body, "news_list")
	assert.Equal(t, BrowserUserAgent, gotUA)
	assert.False(t, c.ProxyEnabled())
}

func TestFetchRejectsNonOK(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := New(Options{}).Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	_, err := New(Options{}).Fetch(context.Background(), addr)
	require.Error(t, err)
}

func TestFetchThroughProxy(t *testing.T) {
	t.Parallel()

	var proxied string
	var auth string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied = r.URL.String()
		auth = r.Header.Get("Proxy-Authorization")
		_, _ = w.Write([]byte("via proxy"))
	}))
	defer proxy.Close()

	proxyURL, err := url.Parse(proxy.URL)
	require.NoError(t, err)
	proxyURL.User = url.UserPassword("user", "secret")

	c := New(Options{Proxy: proxyURL, HealthURL: "http://health.example.org/"})
	assert.True(t, c.ProxyEnabled())
	assert.NotContains(t, c.RedactedProxy(), "secret")

	body, err := c.Fetch(context.Background(), "http://student.example.org/1048/list.htm")
	require.NoError(t, err)
	assert.Equal(t, "via proxy", body)
	assert.Equal(t, "http://student.example.org/1048/list.htm", proxied)
	assert.NotEmpty(t, auth)

	require.NoError(t, c.CheckProxy(context.Background()))
}

func TestCheckProxy(t *testing.T) {
	t.Parallel()

	require.NoError(t, New(Options{}).CheckProxy(context.Background()), "no proxy means nothing to check")

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	proxyURL, err := url.Parse(failing.URL)
	require.NoError(t, err)

	c := New(Options{Proxy: proxyURL, HealthURL: "http://health.example.org/"})
	err = c.CheckProxy(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	noHealth := New(Options{Proxy: proxyURL})
	require.Error(t, noHealth.CheckProxy(context.Background()))
}
