package parser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NoticeDigest/internal/config"
	"NoticeDigest/internal/domain"
	"NoticeDigest/internal/scanner"
)

type pagesFetcher struct {
	pages map[string]string
	calls []string
}

func (f *pagesFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	html, ok := f.pages[url]
	if !ok {
		return "", errors.New("connection refused")
	}
	return html, nil
}

func defaultRegistry() *scanner.Registry {
	reg := scanner.NewRegistry()
	reg.Register(NewSchoolNewsExtractor(nil))
	reg.Register(NewStudentAffairsExtractor(nil))
	reg.Register(NewAcademicAffairsExtractor(nil))
	return reg
}

func TestStrategySourceCollectsInSourceOrder(t *testing.T) {
	t.Parallel()

	sources := config.Default().Sources
	fetcher := &pagesFetcher{pages: map[string]string{
		sources[0].URL: schoolNewsHTML,
		sources[1].URL: studentAffairsHTML,
		sources[2].URL: academicAffairsHTML,
	}}

	items := NewStrategySource(defaultRegistry(), fetcher, sources, nil).Collect(context.Background(), now)
	require.Len(t, items, 10)

	assert.Equal(t, domain.SchoolNews, items[0].Source)
	assert.Equal(t, domain.StudentAffairs, items[3].Source)
	assert.Equal(t, domain.AcademicAffairs, items[6].Source)
	assert.Equal(t, []string{sources[0].URL, sources[1].URL, sources[2].URL}, fetcher.calls)
}

func TestStrategySourceIsolatesFailures(t *testing.T) {
	t.Parallel()

	sources := []config.SourceConfig{
		{Name: "down", Extractor: SchoolNewsExtractorName, URL: "https://down.example.org/list.htm"},
		{Name: "unknown", Extractor: "rss", URL: "https://rss.example.org/feed"},
		{Name: "student", Extractor: StudentAffairsExtractorName, URL: "https://student.example.org/list.htm"},
	}
	fetcher := &pagesFetcher{pages: map[string]string{
		"https://rss.example.org/feed":         "<rss/>",
		"https://student.example.org/list.htm": studentAffairsHTML,
	}}

	items := NewStrategySource(defaultRegistry(), fetcher, sources, nil).Collect(context.Background(), now)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, domain.StudentAffairs, item.Source)
		assert.Contains(t, item.Link, "https://student.example.org/")
	}
	assert.NotContains(t, fetcher.calls, "https://rss.example.org/feed", "unknown extractor is not fetched")
}

func TestStrategySourceAllFailing(t *testing.T) {
	t.Parallel()

	items := NewStrategySource(defaultRegistry(), &pagesFetcher{}, config.Default().Sources, nil).
		Collect(context.Background(), time.Now())
	assert.Empty(t, items)
}

func TestStrategySourceMisconfigured(t *testing.T) {
	t.Parallel()

	items := NewStrategySource(nil, nil, config.Default().Sources, nil).Collect(context.Background(), now)
	assert.Empty(t, items)
}
