// Package digest renders filtered notices into a self-contained HTML document.
package digest

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"NoticeDigest/internal/domain"
	"NoticeDigest/internal/ports"
)

// NoNoticesMessage is the whole document produced for an empty notice list.
const NoNoticesMessage = "今日暂无新通知。"

const defaultTitle = "华东理工大学今日通知"

var page = template.Must(template.New("digest").Parse(`<html>
<head>
    <meta charset="utf-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; }
        .header { background-color: #f4f4f4; padding: 20px; text-align: center; }
        .news-item { margin: 15px 0; padding: 15px; border-left: 4px solid #007bff; background-color: #f9f9f9; }
        .news-title { font-size: 16px; font-weight: bold; margin-bottom: 5px; }
        .news-date { color: #666; font-size: 14px; margin-bottom: 10px; }
        .news-link { color: #007bff; text-decoration: none; }
        .footer { margin-top: 30px; padding: 20px; background-color: #f4f4f4; text-align: center; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="header">
        <h2>{{.Title}}</h2>
        <p>自动抓取时间: {{.GeneratedAt}}</p>
    </div>
{{range .Items}}    <div class="news-item">
        <div class="news-title">{{.Title}}</div>
        <div class="news-date">发布日期: {{.Date}} | 来源: {{.Source}}</div>
        <div><a href="{{.Link}}" class="news-link">查看详情</a></div>
    </div>
{{end}}    <div class="footer">
        <p>此邮件由自动化脚本发送，请勿回复。</p>
        <p>如需停止接收，请联系管理员。</p>
    </div>
</body>
</html>
`))

type view struct {
	Title       string
	GeneratedAt string
	Items       []itemView
}

type itemView struct {
	Title  string
	Date   string
	Source string
	Link   string
}

// HTMLRenderer implements ports.DigestRenderer.
type HTMLRenderer struct {
	title string
}

var _ ports.DigestRenderer = (*HTMLRenderer)(nil)

// NewHTMLRenderer builds a renderer with the given header title.
func NewHTMLRenderer(title string) *HTMLRenderer {
	if title == "" {
		title = defaultTitle
	}
	return &HTMLRenderer{title: title}
}

// Render returns NoNoticesMessage for an empty list, otherwise an HTML page
// listing title, date, source and link of every item in order.
func (r *HTMLRenderer) Render(items []domain.NewsItem, generatedAt time.Time) (string, error) {
	if len(items) == 0 {
		return NoNoticesMessage, nil
	}

	v := view{
		Title:       r.title,
		GeneratedAt: generatedAt.Format(time.DateTime),
		Items:       make([]itemView, 0, len(items)),
	}
	for _, item := range items {
		v.Items = append(v.Items, itemView{
			Title:  item.Title,
			Date:   item.Date.Format(time.DateOnly),
			Source: item.Source.Label(),
			Link:   item.Link,
		})
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return buf.String(), nil
}
