package parser

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"NoticeDigest/internal/scanner"
)

// resolveLink turns an href found on a page into an absolute URL under base.
// It returns false when href is empty.
func resolveLink(base, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	if parsed, err := url.Parse(href); err == nil && parsed.Host != "" &&
		(parsed.Scheme == "http" || parsed.Scheme == "https") {
		return href, true
	}

	base = strings.TrimSuffix(base, "/")
	if strings.HasPrefix(href, "//") {
		scheme := "https"
		if parsed, err := url.Parse(base); err == nil && parsed.Scheme != "" {
			scheme = parsed.Scheme
		}
		return scheme + ":" + href, true
	}
	if strings.HasPrefix(href, "/") {
		return base + href, true
	}
	return base + "/" + href, true
}

// originOf returns scheme://host of raw, or raw itself if it cannot be parsed.
func originOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimSuffix(raw, "/")
	}
	return parsed.Scheme + "://" + parsed.Host
}

func pageBase(page scanner.Page) string {
	if page.BaseURL != "" {
		return strings.TrimSuffix(page.BaseURL, "/")
	}
	return originOf(page.URL)
}

// linkTitle prefers the title attribute and falls back to the visible text.
func linkTitle(link *goquery.Selection) string {
	if title, ok := link.Attr("title"); ok {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	return strings.Join(strings.Fields(link.Text()), " ")
}

func newDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func orDiscard(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return log
}
