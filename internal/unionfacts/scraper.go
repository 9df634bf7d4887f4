// Package unionfacts scrapes the UnionFacts locals directory, which has
// no API: the data is an HTML table on a public page.
package unionfacts

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/laborstats/uniondir/internal/config"
	"github.com/laborstats/uniondir/internal/model"
)

// localNumberPattern matches union labels like "Local 237 - New York".
var localNumberPattern = regexp.MustCompile(`Local (\d+)`)

// Scraper fetches and parses the UnionFacts locals directory table.
type Scraper struct {
	http        *http.Client
	url         string
	origin      string
	userAgent   string
	maxInFlight int
}

// NewScraper creates a Scraper from configuration.
func NewScraper(uf config.UnionFactsConfig, httpCfg config.HTTPConfig, enrich config.EnrichConfig) *Scraper {
	maxInFlight := enrich.MaxConcurrent
	if maxInFlight <= 0 {
		maxInFlight = 10
	}
	return &Scraper{
		http:        &http.Client{Timeout: httpCfg.Timeout()},
		url:         uf.DirectoryURL,
		origin:      uf.SiteOrigin,
		userAgent:   httpCfg.UserAgent,
		maxInFlight: maxInFlight,
	}
}

// Directory fetches the locals page and extracts all table rows carrying
// a recognizable local-union number. Any fetch or parse failure is
// logged and yields an empty result.
func (s *Scraper) Directory(ctx context.Context) []model.DirectoryEntry {
	zap.L().Info("unionfacts: fetching directory", zap.String("url", s.url))

	doc, err := s.fetchDocument(ctx)
	if err != nil {
		zap.L().Error("unionfacts: fetch failed", zap.String("url", s.url), zap.Error(err))
		return nil
	}

	table := doc.Find("div.tab-content table").First()
	if table.Length() == 0 {
		zap.L().Warn("unionfacts: no directory table found", zap.String("url", s.url))
		return nil
	}

	rows := table.Find("tbody tr")
	parsed := make([]*model.DirectoryEntry, rows.Length())

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.maxInFlight)

	rows.Each(func(i int, row *goquery.Selection) {
		g.Go(func() error {
			parsed[i] = s.parseRow(row)
			return nil
		})
	})
	_ = g.Wait()

	entries := make([]model.DirectoryEntry, 0, len(parsed))
	for _, e := range parsed {
		if e != nil {
			entries = append(entries, *e)
		}
	}

	zap.L().Info("unionfacts: directory parsed",
		zap.Int("rows", rows.Length()),
		zap.Int("entries", len(entries)),
	)
	return entries
}

// parseRow extracts one directory entry from a table row. Rows whose
// union label lacks a "Local <digits>" number are dropped, not errored.
func (s *Scraper) parseRow(row *goquery.Selection) *model.DirectoryEntry {
	cols := row.Find("td")
	if cols.Length() < 4 {
		return nil
	}

	union := strings.TrimSpace(cols.Eq(0).Text())
	m := localNumberPattern.FindStringSubmatch(union)
	if m == nil {
		return nil
	}

	members, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(cols.Eq(3).Text()), ",", ""))
	if err != nil {
		zap.L().Warn("unionfacts: bad member count", zap.String("union", union), zap.Error(err))
		return nil
	}

	href, _ := cols.Eq(0).Find("a").First().Attr("href")

	return &model.DirectoryEntry{
		Union:    union,
		UnitName: strings.TrimSpace(cols.Eq(1).Text()),
		Location: strings.TrimSpace(cols.Eq(2).Text()),
		Members:  members,
		LU:       m[1],
		URL:      s.origin + href,
	}
}

func (s *Scraper) fetchDocument(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "get")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("unexpected status %d from %s", resp.StatusCode, s.url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "parse html")
	}
	return doc, nil
}
