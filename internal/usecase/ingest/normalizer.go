package ingest

import (
	"context"
	"html"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ogooue-feed/internal/domain/entity"
	"ogooue-feed/internal/utils/text"
)

const (
	summaryMaxRunes = 500

	wordsPerMinute = 200
	minReadTime    = 1
	maxReadTime    = 30

	minImageWidth  = 200
	minImageHeight = 150
)

// Normalizer converts a RawItem into a clean entity.Article. Every
// sub-extraction degrades gracefully: a failure in image, author, date, or
// category extraction yields that field's fallback, never an error for the
// whole item.
type Normalizer struct {
	policy *bluemonday.Policy
	pages  PageScraper // optional, may be nil
	caser  cases.Caser
	logger *slog.Logger
}

// NewNormalizer returns a Normalizer. pages may be nil, in which case the
// page-scrape step of the image chain is skipped.
func NewNormalizer(pages PageScraper, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		policy: bluemonday.StrictPolicy(),
		pages:  pages,
		caser:  cases.Title(language.French),
		logger: logger,
	}
}

// Normalize builds an article from item. The returned article has every
// content field populated; identity hash and creation time are the caller's
// concern. now anchors the published-date fallback.
func (n *Normalizer) Normalize(ctx context.Context, feed *entity.Feed, item RawItem, now time.Time) *entity.Article {
	title := n.clean(item.Title)
	content := n.clean(item.Content)
	if content == "" {
		content = n.clean(item.Description)
	}

	summary := n.clean(item.Description)
	if summary == "" {
		summary = content
	}
	summary = text.TruncateRunes(summary, summaryMaxRunes, "...")

	return &entity.Article{
		FeedID:          feed.ID,
		Title:           title,
		Summary:         summary,
		Content:         content,
		URL:             strings.TrimSpace(item.Link),
		ImageURL:        n.extractImage(ctx, item),
		Author:          n.extractAuthor(item, feed),
		Category:        classifyCategory(item.Categories, title, content),
		ReadTimeMinutes: readTime(content),
		PublishedAt:     n.publishedAt(item, now),
	}
}

// clean strips all HTML, decodes entities, and collapses whitespace.
func (n *Normalizer) clean(s string) string {
	if s == "" {
		return ""
	}
	s = n.policy.Sanitize(s)
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

func readTime(content string) int {
	minutes := (text.CountWords(content) + wordsPerMinute - 1) / wordsPerMinute
	if minutes < minReadTime {
		return minReadTime
	}
	if minutes > maxReadTime {
		return maxReadTime
	}
	return minutes
}

// publishedAt parses the item's date, tolerating the malformed formats that
// regional feeds emit. Future dates and unparseable dates fall back to now.
func (n *Normalizer) publishedAt(item RawItem, now time.Time) time.Time {
	var t time.Time
	switch {
	case item.PublishedParsed != nil:
		t = *item.PublishedParsed
	case strings.TrimSpace(item.Published) != "":
		parsed, err := dateparse.ParseAny(strings.TrimSpace(item.Published))
		if err != nil {
			n.logger.Debug("unparseable publish date, using ingestion time",
				slog.String("raw", item.Published))
			return now
		}
		t = parsed
	default:
		return now
	}
	if t.After(now.Add(time.Hour)) || t.IsZero() {
		return now
	}
	return t.UTC()
}

// extractImage walks the image source chain in priority order: image-typed
// enclosures, media extensions, first <img> in the content then description
// HTML, the item-level image field, then a scrape of the article page. Every
// candidate passes the quality filter; an empty result is valid.
func (n *Normalizer) extractImage(ctx context.Context, item RawItem) string {
	for _, enc := range item.Enclosures {
		if !strings.HasPrefix(enc.Type, "image/") {
			continue
		}
		if img := n.acceptableCandidate(enc.URL, item.Link); img != "" {
			return img
		}
	}
	for _, c := range []string{item.MediaContentURL, item.MediaThumbURL} {
		if img := n.acceptableCandidate(c, item.Link); img != "" {
			return img
		}
	}
	if img := n.imageFromHTML(item.Content, item.Link); img != "" {
		return img
	}
	if img := n.imageFromHTML(item.Description, item.Link); img != "" {
		return img
	}
	if img := n.acceptableCandidate(item.ImageURL, item.Link); img != "" {
		return img
	}
	if n.pages != nil && item.Link != "" {
		img, err := n.pages.ScrapeImage(ctx, item.Link)
		if err != nil {
			n.logger.Debug("page image scrape failed", slog.String("url", item.Link), slog.Any("error", err))
			return ""
		}
		return n.acceptableCandidate(img, item.Link)
	}
	return ""
}

func (n *Normalizer) imageFromHTML(htmlText, base string) string {
	if !strings.Contains(htmlText, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return ""
	}
	var found string
	doc.Find("img").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, ok := sel.Attr("src")
		if !ok {
			return true
		}
		if img := n.acceptableCandidate(src, base); img != "" {
			found = img
			return false
		}
		return true
	})
	return found
}

// acceptableCandidate resolves raw against base and applies the quality
// filter, returning the absolute URL or empty.
func (n *Normalizer) acceptableCandidate(raw, base string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	resolved := resolveURL(raw, base)
	if resolved == "" || !AcceptableImageURL(resolved) {
		return ""
	}
	return resolved
}

func resolveURL(raw, base string) string {
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		if ref.Scheme != "http" && ref.Scheme != "https" {
			return ""
		}
		return ref.String()
	}
	baseURL, err := url.Parse(base)
	if err != nil || !baseURL.IsAbs() {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}

var (
	lowQualityIndicators = []string{
		"avatar", "icon", "logo", "button", "spacer", "pixel",
		"1x1", "blank", "badge", "emoji", "gravatar", "placeholder",
	}
	urlDimensionsPattern = regexp.MustCompile(`(\d{2,4})x(\d{2,4})`)
)

// AcceptableImageURL reports whether a URL plausibly points at a content
// image rather than site chrome. URLs that embed dimensions below
// 200x150 are rejected.
func AcceptableImageURL(raw string) bool {
	lower := strings.ToLower(raw)
	for _, indicator := range lowQualityIndicators {
		if strings.Contains(lower, indicator) {
			return false
		}
	}
	if m := urlDimensionsPattern.FindStringSubmatch(lower); m != nil {
		w, _ := strconv.Atoi(m[1])
		h, _ := strconv.Atoi(m[2])
		if w < minImageWidth || h < minImageHeight {
			return false
		}
	}
	return true
}

var (
	// Matches "Par Jean Mba", "By: John Doe", "Journaliste Marie Ndong" at
	// the start of a line or sentence.
	bylinePattern = regexp.MustCompile(`(?i)\b(?:par|by|auteur|journaliste|r[ée]dacteur)\s*:?\s+([\p{Lu}][\p{L}'.-]*(?:\s+[\p{Lu}][\p{L}'.-]*){0,3})`)

	// Matches "Title of the piece | Author Name" — some feeds append the
	// byline after a pipe in the item title.
	trailingBylinePattern = regexp.MustCompile(`\|\s*([^|]{2,60})\s*$`)

	rolePrefixes = []string{"par ", "by ", "de "}
)

// extractAuthor resolves the article author, in order: explicit feed author
// fields, a byline pattern in the content, a trailing "| Name" in the title,
// then the feed's configured fallback. The result is title-cased.
func (n *Normalizer) extractAuthor(item RawItem, feed *entity.Feed) string {
	for _, a := range item.Authors {
		if name := n.cleanAuthor(a); name != "" {
			return name
		}
	}
	probe := item.Description
	if item.Content != "" {
		probe = item.Content
	}
	if m := bylinePattern.FindStringSubmatch(n.clean(probe)); m != nil {
		if name := n.cleanAuthor(m[1]); name != "" {
			return name
		}
	}
	if m := trailingBylinePattern.FindStringSubmatch(item.Title); m != nil {
		if name := n.cleanAuthor(m[1]); name != "" && looksLikeName(name) {
			return name
		}
	}
	return feed.DefaultAuthor()
}

func (n *Normalizer) cleanAuthor(raw string) string {
	name := n.clean(raw)
	// Strip email-style authors: "jmba@example.com (Jean Mba)".
	if open := strings.Index(name, "("); open >= 0 {
		if close := strings.Index(name[open:], ")"); close > 1 {
			name = name[open+1 : open+close]
		}
	}
	if strings.Contains(name, "@") {
		return ""
	}
	lower := strings.ToLower(name)
	for _, prefix := range rolePrefixes {
		if strings.HasPrefix(lower, prefix) {
			name = name[len(prefix):]
			break
		}
	}
	name = strings.Trim(name, " :,-")
	if name == "" || len([]rune(name)) > 60 {
		return ""
	}
	return n.caser.String(name)
}

// looksLikeName filters trailing |-segments that are site names or slogans
// rather than bylines: two to four capitalized words, no digits.
func looksLikeName(s string) bool {
	if strings.ContainsAny(s, "0123456789") {
		return false
	}
	words := strings.Fields(s)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		if first := []rune(w)[0]; !unicode.IsUpper(first) {
			return false
		}
	}
	return true
}
