// Package news fetches headlines for the live wire and the sentiment prompt.
package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/newthinker/sentinel/internal/core"
	"golang.org/x/sync/errgroup"
)

const userAgent = "Mozilla/5.0 (compatible; sentinel/1.0)"

// Feed provides the current headlines. Implementations return whatever
// headlines they could collect even when err is non-nil.
type Feed interface {
	Headlines(ctx context.Context) ([]core.Headline, error)
}

// RSS reads a fixed list of RSS/Atom sources.
type RSS struct {
	sources   []string
	perSource int
	client    *http.Client
}

// NewRSS creates a feed over sources, keeping the first perSource items of
// each. A non-positive perSource keeps every item.
func NewRSS(sources []string, perSource int, timeout time.Duration) *RSS {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RSS{
		sources:   sources,
		perSource: perSource,
		client:    &http.Client{Timeout: timeout},
	}
}

// Headlines fetches all sources concurrently and merges them in source
// order, dropping duplicate titles. Failed sources are skipped; their errors
// are joined into the returned error.
func (r *RSS) Headlines(ctx context.Context) ([]core.Headline, error) {
	perSource := make([][]core.Headline, len(r.sources))
	errs := make([]error, len(r.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range r.sources {
		g.Go(func() error {
			items, err := r.fetch(gctx, src)
			perSource[i] = items
			errs[i] = err
			return nil
		})
	}
	_ = g.Wait()

	var merged []core.Headline
	for _, items := range perSource {
		merged = append(merged, items...)
	}
	merged = Dedupe(merged)

	if err := errors.Join(errs...); err != nil {
		return merged, core.WrapError(core.ErrFeedFailed, err)
	}
	return merged, nil
}

func (r *RSS) fetch(ctx context.Context, src string) ([]core.Headline, error) {
	parser := gofeed.NewParser()
	parser.Client = r.client
	parser.UserAgent = userAgent

	feed, err := parser.ParseURLWithContext(src, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", sourceName(src, nil), err)
	}

	name := sourceName(src, feed)
	items := feed.Items
	if r.perSource > 0 && len(items) > r.perSource {
		items = items[:r.perSource]
	}

	out := make([]core.Headline, 0, len(items))
	for _, item := range items {
		title := cleanHTML(item.Title)
		if title == "" {
			continue
		}
		h := core.Headline{
			Title:   title,
			Link:    item.Link,
			Source:  name,
			Summary: cleanHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			h.PublishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			h.PublishedAt = *item.UpdatedParsed
		}
		out = append(out, h)
	}
	return out, nil
}

// sourceName prefers the feed's own title and falls back to the host.
func sourceName(src string, feed *gofeed.Feed) string {
	if feed != nil && strings.TrimSpace(feed.Title) != "" {
		return strings.TrimSpace(feed.Title)
	}
	if u, err := url.Parse(src); err == nil && u.Host != "" {
		return strings.TrimPrefix(u.Host, "www.")
	}
	return src
}

// cleanHTML strips HTML tags and entities from s using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Normalize folds a title for duplicate detection: case, whitespace and
// surrounding punctuation are ignored.
func Normalize(title string) string {
	t := strings.ToLower(strings.Join(strings.Fields(title), " "))
	return strings.TrimFunc(t, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
}

// Dedupe drops headlines whose normalized title was already seen, keeping
// the first occurrence and the original order.
func Dedupe(items []core.Headline) []core.Headline {
	seen := make(map[string]bool, len(items))
	out := make([]core.Headline, 0, len(items))
	for _, h := range items {
		key := Normalize(h.Title)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h)
	}
	return out
}

// Static serves a fixed headline list.
type Static struct {
	items []core.Headline
}

// NewStatic creates a feed returning items on every call.
func NewStatic(items ...core.Headline) *Static {
	return &Static{items: items}
}

// Headlines returns a copy of the configured items.
func (s *Static) Headlines(context.Context) ([]core.Headline, error) {
	out := make([]core.Headline, len(s.items))
	copy(out, s.items)
	return out, nil
}
