package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newthinker/sentinel/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rssDoc(title string, items ...string) string {
	body := ""
	for i, it := range items {
		body += fmt.Sprintf(`<item><title>%s</title><link>https://example.com/%d</link>
<description><![CDATA[<p>Story <b>%d</b></p>]]></description>
<pubDate>Mon, 10 Jun 2024 08:0%d:00 GMT</pubDate></item>`, it, i, i, i)
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>%s</title><link>https://example.com</link>
<description>test</description>%s</channel></rss>`, title, body)
}

func newFeedServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(doc))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRSS_Headlines(t *testing.T) {
	srv := newFeedServer(t, map[string]string{
		"/cnbc":      rssDoc("CNBC", "Fed holds rates", "Tech rallies", "Oil slips", "Dropped by limit"),
		"/investing": rssDoc("Investing.com", "Yields ease", "FED HOLDS RATES.", "Dollar firms"),
	})

	feed := NewRSS([]string{srv.URL + "/cnbc", srv.URL + "/investing"}, 3, 0)
	items, err := feed.Headlines(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Fed holds rates", "Tech rallies", "Oil slips",
		"Yields ease", "Dollar firms",
	}, core.Titles(items))

	assert.Equal(t, "CNBC", items[0].Source)
	assert.Equal(t, "Investing.com", items[3].Source)
	assert.Equal(t, "Story 0", items[0].Summary)
	assert.False(t, items[0].PublishedAt.IsZero())
}

func TestRSS_FailingSourceSkipped(t *testing.T) {
	srv := newFeedServer(t, map[string]string{
		"/cnbc": rssDoc("CNBC", "Fed holds rates"),
	})

	feed := NewRSS([]string{srv.URL + "/missing", srv.URL + "/cnbc"}, 3, 0)
	items, err := feed.Headlines(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrFeedFailed))
	assert.Equal(t, []string{"Fed holds rates"}, core.Titles(items))
}

func TestRSS_NoSources(t *testing.T) {
	items, err := NewRSS(nil, 3, 0).Headlines(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"AT&amp;T earnings", "AT&T earnings"},
		{"  spaced   out  ", "spaced out"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanHTML(tt.input), "cleanHTML(%q)", tt.input)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "fed holds rates", Normalize("  Fed   Holds Rates. "))
	assert.Equal(t, Normalize("Fed holds rates"), Normalize("FED HOLDS RATES!"))
	assert.Equal(t, "", Normalize("  ...  "))
}

func TestDedupe(t *testing.T) {
	in := []core.Headline{
		{Title: "A story", Source: "one"},
		{Title: "Another"},
		{Title: "a STORY", Source: "two"},
		{Title: "   "},
	}
	out := Dedupe(in)
	require.Len(t, out, 2)
	assert.Equal(t, "one", out[0].Source)
	assert.Equal(t, "Another", out[1].Title)
}

func TestSourceName(t *testing.T) {
	assert.Equal(t, "investing.com", sourceName("https://www.investing.com/rss/news_25.rss", nil))
}

func TestStatic(t *testing.T) {
	s := NewStatic(core.Headline{Title: "one"}, core.Headline{Title: "two"})
	items, err := s.Headlines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, core.Titles(items))

	items[0].Title = "mutated"
	again, _ := s.Headlines(context.Background())
	assert.Equal(t, "one", again[0].Title)
}

func TestFeedInterfaces(t *testing.T) {
	var _ Feed = (*RSS)(nil)
	var _ Feed = (*Static)(nil)
}
