package parser

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"NoticeDigest/internal/dates"
	"NoticeDigest/internal/domain"
	"NoticeDigest/internal/scanner"
)

const (
	// AcademicAffairsExtractorName is the registry key of AcademicAffairsExtractor.
	AcademicAffairsExtractorName = "academic-affairs"

	// ExcludeDomainOption names the page option holding the cross-posting domain.
	ExcludeDomainOption = "exclude_domain"

	defaultExcludeDomain = "news.ecust.edu.cn"
)

// AcademicAffairsExtractor reads the academic affairs main page, which has no
// wrapping list: every td.pan7 cell is one entry.
type AcademicAffairsExtractor struct {
	logger *slog.Logger
}

var _ scanner.Extractor = (*AcademicAffairsExtractor)(nil)

// NewAcademicAffairsExtractor builds the extractor; a nil logger discards output.
func NewAcademicAffairsExtractor(log *slog.Logger) *AcademicAffairsExtractor {
	return &AcademicAffairsExtractor{logger: orDiscard(log)}
}

// Name identifies the extractor inside the registry.
func (e *AcademicAffairsExtractor) Name() string {
	return AcademicAffairsExtractorName
}

// Extract skips entries cross-posted from the school news domain, which that
// source already collects.
func (e *AcademicAffairsExtractor) Extract(page scanner.Page) ([]domain.NewsItem, error) {
	doc, err := newDocument(page.HTML)
	if err != nil {
		return nil, err
	}

	base := pageBase(page)
	excluded := page.Option(ExcludeDomainOption, defaultExcludeDomain)

	var items []domain.NewsItem
	doc.Find("td.pan7").Each(func(i int, cell *goquery.Selection) {
		link := cell.Find("a").First()
		if link.Length() == 0 {
			e.logger.Debug("cell without link", "index", i)
			return
		}

		href, _ := link.Attr("href")
		resolved, ok := resolveLink(base, href)
		if !ok {
			e.logger.Debug("cell without href", "index", i)
			return
		}
		if excluded != "" && strings.Contains(resolved, excluded) {
			e.logger.Debug("skip cross-posted entry", "link", resolved)
			return
		}
		title := linkTitle(link)
		if title == "" {
			e.logger.Debug("cell without title", "index", i, "link", resolved)
			return
		}

		candidates := make([]dates.Candidate, 0, 3)
		if row := cell.Find("tr").First(); row.Length() > 0 {
			if inner := row.Find("td"); inner.Length() >= 2 {
				candidates = append(candidates, dates.Hyphenated(strings.TrimSpace(inner.Eq(1).Text())))
			}
		}
		candidates = append(candidates, dates.PathDate(href), dates.Today())
		date, _ := dates.Resolve(page.Now, candidates...)

		items = append(items, domain.NewsItem{
			Title:  title,
			Link:   resolved,
			Date:   date,
			Source: domain.AcademicAffairs,
		})
	})

	return items, nil
}
