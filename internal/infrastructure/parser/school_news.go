package parser

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"NoticeDigest/internal/dates"
	"NoticeDigest/internal/domain"
	"NoticeDigest/internal/scanner"
)

// SchoolNewsExtractorName is the registry key of SchoolNewsExtractor.
const SchoolNewsExtractorName = "school-news"

// SchoolNewsExtractor reads the school news list page. Its dates are split into a
// day and a "YYYY.MM" span; entries whose date does not parse are dropped.
type SchoolNewsExtractor struct {
	logger *slog.Logger
}

var _ scanner.Extractor = (*SchoolNewsExtractor)(nil)

// NewSchoolNewsExtractor builds the extractor; a nil logger discards output.
func NewSchoolNewsExtractor(log *slog.Logger) *SchoolNewsExtractor {
	return &SchoolNewsExtractor{logger: orDiscard(log)}
}

// Name identifies the extractor inside the registry.
func (e *SchoolNewsExtractor) Name() string {
	return SchoolNewsExtractorName
}

// Extract walks ul.news_list.list2 > li.news.
func (e *SchoolNewsExtractor) Extract(page scanner.Page) ([]domain.NewsItem, error) {
	doc, err := newDocument(page.HTML)
	if err != nil {
		return nil, err
	}

	list := doc.Find("ul.news_list.list2").First()
	if list.Length() == 0 {
		e.logger.Warn("news list container not found", "url", page.URL)
		return nil, nil
	}

	base := pageBase(page)
	var items []domain.NewsItem
	list.Find("li.news").Each(func(i int, entry *goquery.Selection) {
		link := entry.Find("span.news_title a").First()
		if link.Length() == 0 {
			e.logger.Debug("entry without title link", "index", i)
			return
		}

		href, _ := link.Attr("href")
		resolved, ok := resolveLink(base, href)
		if !ok {
			e.logger.Debug("entry without href", "index", i)
			return
		}
		title := linkTitle(link)
		if title == "" {
			e.logger.Debug("entry without title", "index", i, "link", resolved)
			return
		}

		meta := entry.Find("span.news_meta").First()
		day := meta.Find("span.meta_day").First()
		yearMonth := meta.Find("span.meta_year").First()
		if day.Length() == 0 || yearMonth.Length() == 0 {
			e.logger.Debug("entry without date spans", "index", i, "link", resolved)
			return
		}

		dayText := strings.TrimSpace(day.Text())
		yearMonthText := strings.TrimSpace(yearMonth.Text())
		date, ok := dates.Resolve(page.Now, dates.DayYearMonth(dayText, yearMonthText))
		if !ok {
			e.logger.Warn("date parse failed", "day", dayText, "year_month", yearMonthText, "link", resolved)
			return
		}

		items = append(items, domain.NewsItem{
			Title:  title,
			Link:   resolved,
			Date:   date,
			Source: domain.SchoolNews,
		})
	})

	return items, nil
}
