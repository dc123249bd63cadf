package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"NoticeDigest/internal/scanner"
)

func TestResolveLink(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		base string
		href string
		want string
		ok   bool
	}{
		{name: "absolute", base: "https://a.b", href: "http://c.d/x", want: "http://c.d/x", ok: true},
		{name: "rooted", base: "https://a.b", href: "/x/y", want: "https://a.b/x/y", ok: true},
		{name: "relative", base: "https://a.b", href: "x/y", want: "https://a.b/x/y", ok: true},
		{name: "trailing slash base", base: "https://a.b/", href: "/x", want: "https://a.b/x", ok: true},
		{name: "protocol relative", base: "http://a.b", href: "//c.d/x", want: "http://c.d/x", ok: true},
		{name: "padded", base: "https://a.b", href: "  /x  ", want: "https://a.b/x", ok: true},
		{name: "https absolute", base: "https://a.b", href: "HTTPS://c.d/x", want: "HTTPS://c.d/x", ok: true},
		{name: "relative with http prefix", base: "https://a.b", href: "httpdocs/a.htm", want: "https://a.b/httpdocs/a.htm", ok: true},
		{name: "rooted with http prefix", base: "https://a.b", href: "/http/a.htm", want: "https://a.b/http/a.htm", ok: true},
		{name: "empty", base: "https://a.b", href: "   ", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := resolveLink(tc.base, tc.href)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPageBase(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://news.ecust.edu.cn", pageBase(scanner.Page{URL: "https://news.ecust.edu.cn/16/list.htm"}))
	assert.Equal(t, "https://student.ecust.edu.cn", pageBase(scanner.Page{
		URL:     "https://other.example.org/list.htm",
		BaseURL: "https://student.ecust.edu.cn/",
	}))
}

func TestLinkTitle(t *testing.T) {
	t.Parallel()

	doc, err := newDocument(`<a id="a" title=" Titled ">text</a><a id="b" title="  ">  spaced
	  text </a>`)
	assert.NoError(t, err)
	assert.Equal(t, "Titled", linkTitle(doc.Find("#a")))
	assert.Equal(t, "spaced text", linkTitle(doc.Find("#b")))
}
