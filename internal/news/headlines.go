package news

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"market-radar-bot/internal/logger"
	"market-radar-bot/internal/types"
)

// Scraper fetches top market headlines for the optional news section of the
// macro message. Scraping is strictly best-effort: any failure just shrinks
// or empties the result, it never fails the macro stage.
type Scraper struct {
	sources []headlineSource
	max     int
	timeout time.Duration
}

// headlineSource defines one finance front page and its CSS selectors
type headlineSource struct {
	Name      string
	URL       string
	Container string
	Title     string
}

func defaultSources() []headlineSource {
	return []headlineSource{
		{
			Name:      "Yahoo Finance",
			URL:       "https://finance.yahoo.com/topic/stock-market-news/",
			Container: "li.stream-item",
			Title:     "h3",
		},
		{
			Name:      "CNBC",
			URL:       "https://www.cnbc.com/markets/",
			Container: "div.LatestNews-item",
			Title:     "a.LatestNews-headline",
		},
	}
}

// NewScraper creates a headline scraper capped at max headlines total
func NewScraper(max int) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		max:     max,
		timeout: 20 * time.Second,
	}
}

// TopHeadlines scrapes the configured sources in order until max headlines
// are collected. Errors are logged and swallowed.
func (s *Scraper) TopHeadlines(ctx context.Context) []types.Headline {
	var headlines []types.Headline

	for _, src := range s.sources {
		if len(headlines) >= s.max {
			break
		}
		got := s.scrapeSource(ctx, src, s.max-len(headlines))
		headlines = append(headlines, got...)
	}

	logger.Info(ctx, "Headline scrape finished", "collected", len(headlines), "max", s.max)
	return headlines
}

func (s *Scraper) scrapeSource(ctx context.Context, src headlineSource, limit int) []types.Headline {
	var out []types.Headline

	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnHTML(src.Container, func(e *colly.HTMLElement) {
		if len(out) >= limit {
			return
		}
		title := firstText(e.DOM, src.Title)
		if title == "" || len(title) < 15 {
			// skip nav fragments and teasers
			return
		}
		out = append(out, types.Headline{Title: title, Source: src.Name})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.Warn(ctx, "Headline source fetch failed", "source", src.Name, "error", err)
	})

	if err := c.Visit(src.URL); err != nil {
		logger.Warn(ctx, "Headline source visit failed", "source", src.Name, "error", err)
		return nil
	}
	c.Wait()

	return out
}

// firstText returns the trimmed text of the first node matching the selector
func firstText(sel *goquery.Selection, selector string) string {
	return strings.TrimSpace(sel.Find(selector).First().Text())
}
