package parser

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"NoticeDigest/internal/dates"
	"NoticeDigest/internal/domain"
	"NoticeDigest/internal/scanner"
)

// StudentAffairsExtractorName is the registry key of StudentAffairsExtractor.
const StudentAffairsExtractorName = "student-affairs"

// studentAffairsChain is the nesting that leads to the entry list, outermost first.
var studentAffairsChain = []string{
	"div.col_news_con",
	"div.col_news_list.listcon",
	"div#wp_news_w6",
	"ul.news_list.list2",
}

// StudentAffairsExtractor reads the student affairs office list page.
type StudentAffairsExtractor struct {
	logger *slog.Logger
}

var _ scanner.Extractor = (*StudentAffairsExtractor)(nil)

// NewStudentAffairsExtractor builds the extractor; a nil logger discards output.
func NewStudentAffairsExtractor(log *slog.Logger) *StudentAffairsExtractor {
	return &StudentAffairsExtractor{logger: orDiscard(log)}
}

// Name identifies the extractor inside the registry.
func (e *StudentAffairsExtractor) Name() string {
	return StudentAffairsExtractorName
}

// Extract descends the container chain and reads every li of the final list.
// Dates come from the meta span, then the link path, then today.
func (e *StudentAffairsExtractor) Extract(page scanner.Page) ([]domain.NewsItem, error) {
	doc, err := newDocument(page.HTML)
	if err != nil {
		return nil, err
	}

	list := doc.Selection
	for _, selector := range studentAffairsChain {
		list = list.Find(selector).First()
		if list.Length() == 0 {
			e.logger.Warn("student affairs container not found", "selector", selector, "url", page.URL)
			return nil, nil
		}
	}

	base := pageBase(page)
	var items []domain.NewsItem
	list.Find("li").Each(func(i int, entry *goquery.Selection) {
		link := entry.Find("span.news_title a").First()
		if link.Length() == 0 {
			link = entry.Find("a").First()
		}
		if link.Length() == 0 {
			e.logger.Debug("entry without link", "index", i)
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

		candidates := make([]dates.Candidate, 0, 3)
		if meta := entry.Find("span.news_meta").First(); meta.Length() > 0 {
			candidates = append(candidates, dates.Hyphenated(strings.TrimSpace(meta.Text())))
		}
		candidates = append(candidates, dates.PathDate(resolved), dates.Today())
		date, _ := dates.Resolve(page.Now, candidates...)

		items = append(items, domain.NewsItem{
			Title:  title,
			Link:   resolved,
			Date:   date,
			Source: domain.StudentAffairs,
		})
	})

	return items, nil
}
