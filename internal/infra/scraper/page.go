package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ogooue-feed/internal/resilience/circuitbreaker"
	"ogooue-feed/internal/usecase/ingest"
)

const (
	// DefaultPageTimeout is shorter than the feed timeout: an image is
	// nice to have, not worth stalling the pipeline for.
	DefaultPageTimeout = 5 * time.Second

	maxPageBodySize = 5 * 1024 * 1024
)

// contentSelectors are tried in order when the page declares no social
// preview image. They cover the common article markup of the sites we
// ingest.
var contentSelectors = []string{
	"article img",
	".article-content img",
	".post-content img",
	".entry-content img",
	"main img",
}

// PageScraper implements ingest.PageScraper by fetching an article page and
// extracting its best candidate image: og:image, then twitter:image, then
// content-area images, then the largest image on the page.
//
// Calls go through a circuit breaker so a site that starts timing out stops
// costing five seconds per article.
type PageScraper struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
}

func NewPageScraper(client *http.Client) *PageScraper {
	if client == nil {
		client = &http.Client{}
	}
	return &PageScraper{
		client:  client,
		breaker: circuitbreaker.New(circuitbreaker.PageScrapeConfig()),
		timeout: DefaultPageTimeout,
	}
}

// ScrapeImage returns the best image URL found on the page, or empty when
// the page has no acceptable image. Errors cover fetch failures and the
// circuit being open.
func (s *PageScraper) ScrapeImage(ctx context.Context, pageURL string) (string, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.doScrape(ctx, pageURL)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (s *PageScraper) doScrape(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", feedUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: unexpected status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBodySize))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	for _, sel := range []string{`meta[property="og:image"]`, `meta[name="twitter:image"]`} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if img := strings.TrimSpace(content); img != "" && ingest.AcceptableImageURL(img) {
				return img, nil
			}
		}
	}

	for _, sel := range contentSelectors {
		var found string
		doc.Find(sel).EachWithBreak(func(_ int, img *goquery.Selection) bool {
			if src := imageSrc(img); src != "" && ingest.AcceptableImageURL(src) {
				found = src
				return false
			}
			return true
		})
		if found != "" {
			return found, nil
		}
	}

	return largestImage(doc), nil
}

func imageSrc(img *goquery.Selection) string {
	for _, attr := range []string{"src", "data-src", "data-lazy-src"} {
		if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// featuredHints mark an image as the page's lead visual; a hit outranks any
// realistically declared width×height.
var featuredHints = []string{"featured", "hero"}

// largestImage scores every <img> on the page by its declared dimensions,
// boosted when the source or class hints at a featured image, and returns
// the best acceptable one, or empty.
func largestImage(doc *goquery.Document) string {
	const hintBonus = 1 << 24

	type candidate struct {
		src   string
		score int
	}
	var candidates []candidate
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := imageSrc(img)
		if src == "" || !ingest.AcceptableImageURL(src) {
			return
		}
		w, _ := strconv.Atoi(img.AttrOr("width", "0"))
		h, _ := strconv.Atoi(img.AttrOr("height", "0"))
		score := w * h
		hinted := strings.ToLower(src + " " + img.AttrOr("class", ""))
		for _, hint := range featuredHints {
			if strings.Contains(hinted, hint) {
				score += hintBonus
				break
			}
		}
		candidates = append(candidates, candidate{src: src, score: score})
	})
	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	return candidates[0].src
}
