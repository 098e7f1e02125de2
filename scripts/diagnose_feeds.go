// Command diagnose_feeds probes every feed declared in feeds.yaml and
// reports which ones are reachable, parseable, and publishing. Run it
// before deploying a catalogue change:
//
//	go run scripts/diagnose_feeds.go -feeds feeds.yaml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"ogooue-feed/internal/config"
	"ogooue-feed/internal/observability/logging"
)

// FeedDiagnostic represents the diagnostic result for a single feed
type FeedDiagnostic struct {
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	URL           string `json:"url"`
	Status        string `json:"status"` // "OK", "HTTP_ERROR", "PARSE_ERROR", "EMPTY", "TIMEOUT", "REDIRECT"
	HTTPCode      int    `json:"http_code"`
	ItemCount     int    `json:"item_count"`
	LatestDate    string `json:"latest_date"`
	ErrorMessage  string `json:"error_message,omitempty"`
	FeedType      string `json:"feed_type"` // "rss", "atom", "json", ""
	RedirectURL   string `json:"redirect_url,omitempty"`
	ResponseTime  int64  `json:"response_time_ms"`
	ContentLength int64  `json:"content_length"`
}

var logger = logging.NewTextLogger()

func main() {
	feedsPath := flag.String("feeds", "feeds.yaml", "path to the feed catalogue")
	timeout := flag.Duration("timeout", 30*time.Second, "per-feed probe timeout")
	flag.Parse()

	feeds, err := config.LoadFeeds(*feedsPath)
	if err != nil {
		logger.Error("failed to load feed catalogue", "error", err)
		os.Exit(1)
	}

	logger.Info("diagnosing catalogue", "feeds", len(feeds), "path", *feedsPath)

	diagnostics := make([]FeedDiagnostic, 0, len(feeds))
	for i, feed := range feeds {
		logger.Info("probing feed", "index", i+1, "total", len(feeds), "name", feed.Name)
		diag := diagnoseFeed(feed.Slug, feed.Name, feed.FeedURL, *timeout)
		diagnostics = append(diagnostics, diag)

		// Rate limiting to be nice to servers
		time.Sleep(500 * time.Millisecond)
	}

	generateReport(diagnostics)
	generateJSONReport(diagnostics)
	generateSQLFixes(diagnostics)
}

func diagnoseFeed(slug, name, url string, timeout time.Duration) FeedDiagnostic {
	diag := FeedDiagnostic{
		Slug: slug,
		Name: name,
		URL:  url,
	}

	startTime := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		diag.Status = "REQUEST_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}

	req.Header.Set("User-Agent", "OgooueFeed-Diagnostic/1.0")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	resp, err := client.Do(req)
	diag.ResponseTime = time.Since(startTime).Milliseconds()

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			diag.Status = "TIMEOUT"
			diag.ErrorMessage = fmt.Sprintf("Request timeout after %v", timeout)
		} else {
			diag.Status = "HTTP_ERROR"
			diag.ErrorMessage = err.Error()
		}
		return diag
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close response body", "error", err)
		}
	}()

	diag.HTTPCode = resp.StatusCode
	diag.ContentLength = resp.ContentLength

	if resp.Request.URL.String() != url {
		diag.RedirectURL = resp.Request.URL.String()
		diag.Status = "REDIRECT"
	}

	if resp.StatusCode != http.StatusOK {
		diag.Status = "HTTP_ERROR"
		diag.ErrorMessage = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.Status)
		return diag
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		diag.Status = "PARSE_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}

	diag.FeedType = strings.ToLower(parsed.FeedType)
	diag.ItemCount = len(parsed.Items)
	if len(parsed.Items) > 0 {
		first := parsed.Items[0]
		if first.PublishedParsed != nil {
			diag.LatestDate = first.PublishedParsed.Format(time.RFC3339)
		} else {
			diag.LatestDate = first.Published
		}
	}

	if diag.ItemCount == 0 {
		diag.Status = "EMPTY"
		diag.ErrorMessage = "Feed has no items"
		return diag
	}

	diag.Status = "OK"
	return diag
}

// writef is a helper to write to file and handle errors
func writef(f *os.File, format string, args ...interface{}) error {
	_, err := fmt.Fprintf(f, format, args...)
	return err
}

func generateReport(diagnostics []FeedDiagnostic) {
	f, err := os.Create("feed_diagnostic_report.txt")
	if err != nil {
		logger.Error("failed to create report file", "error", err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close report file", "error", err)
		}
	}()

	writeErr := func(err error) bool {
		if err != nil {
			logger.Error("failed to write to report", "error", err)
			return true
		}
		return false
	}

	if writeErr(writef(f, "===============================================\n")) {
		return
	}
	if writeErr(writef(f, "Feed Catalogue Diagnostic Report\n")) {
		return
	}
	if writeErr(writef(f, "Generated: %s\n", time.Now().Format(time.RFC3339))) {
		return
	}
	if writeErr(writef(f, "Total Feeds: %d\n", len(diagnostics))) {
		return
	}
	if writeErr(writef(f, "===============================================\n\n")) {
		return
	}

	statusCount := make(map[string]int)
	var okCount, errorCount int
	for _, d := range diagnostics {
		statusCount[d.Status]++
		if d.Status == "OK" || d.Status == "REDIRECT" {
			okCount++
		} else {
			errorCount++
		}
	}

	_ = writef(f, "SUMMARY:\n")
	_ = writef(f, "  Working: %d (%.1f%%)\n", okCount, float64(okCount)/float64(len(diagnostics))*100)
	_ = writef(f, "  Broken: %d (%.1f%%)\n", errorCount, float64(errorCount)/float64(len(diagnostics))*100)
	_ = writef(f, "\nSTATUS BREAKDOWN:\n")
	for status, count := range statusCount {
		_ = writef(f, "  %s: %d\n", status, count)
	}
	_ = writef(f, "\n")

	_ = writef(f, "DETAILED RESULTS:\n")
	_ = writef(f, "===============================================\n\n")

	_ = writef(f, "WORKING FEEDS (%d):\n", statusCount["OK"]+statusCount["REDIRECT"])
	_ = writef(f, "-------------------------------------------\n")
	for _, d := range diagnostics {
		if d.Status == "OK" || d.Status == "REDIRECT" {
			_ = writef(f, "Feed: %s (%s)\n", d.Name, d.Slug)
			_ = writef(f, "  URL: %s\n", d.URL)
			_ = writef(f, "  Type: %s | Items: %d | Latest: %s\n", d.FeedType, d.ItemCount, d.LatestDate)
			_ = writef(f, "  Response: %dms | HTTP: %d\n", d.ResponseTime, d.HTTPCode)
			if d.RedirectURL != "" {
				_ = writef(f, "  Redirected to: %s\n", d.RedirectURL)
			}
			_ = writef(f, "\n")
		}
	}

	_ = writef(f, "\nBROKEN FEEDS (%d):\n", errorCount)
	_ = writef(f, "-------------------------------------------\n")
	for _, d := range diagnostics {
		if d.Status != "OK" && d.Status != "REDIRECT" {
			_ = writef(f, "Feed: %s (%s)\n", d.Name, d.Slug)
			_ = writef(f, "  URL: %s\n", d.URL)
			_ = writef(f, "  Status: %s | HTTP: %d\n", d.Status, d.HTTPCode)
			_ = writef(f, "  Error: %s\n", d.ErrorMessage)
			_ = writef(f, "  Response: %dms\n", d.ResponseTime)
			_ = writef(f, "\n")
		}
	}

	logger.Info("text report generated", "file", "feed_diagnostic_report.txt")
}

func generateJSONReport(diagnostics []FeedDiagnostic) {
	f, err := os.Create("feed_diagnostic_report.json")
	if err != nil {
		logger.Error("failed to create JSON report", "error", err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close JSON report file", "error", err)
		}
	}()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(diagnostics); err != nil {
		logger.Error("failed to write JSON report", "error", err)
		return
	}

	logger.Info("JSON report generated", "file", "feed_diagnostic_report.json")
}

func generateSQLFixes(diagnostics []FeedDiagnostic) {
	f, err := os.Create("feed_fixes.sql")
	if err != nil {
		logger.Error("failed to create SQL fixes file", "error", err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close SQL fixes file", "error", err)
		}
	}()

	_ = writef(f, "-- SQL Fixes for Broken Feeds\n")
	_ = writef(f, "-- Generated: %s\n\n", time.Now().Format(time.RFC3339))

	hasRedirects := false
	for _, d := range diagnostics {
		if d.RedirectURL != "" && d.RedirectURL != d.URL {
			if !hasRedirects {
				_ = writef(f, "-- Update redirected feeds (mirror the change in feeds.yaml)\n")
				hasRedirects = true
			}
			_ = writef(f, "UPDATE feeds SET feed_url = '%s' WHERE slug = '%s'; -- %s\n",
				strings.ReplaceAll(d.RedirectURL, "'", "''"),
				strings.ReplaceAll(d.Slug, "'", "''"),
				d.Name)
		}
	}
	if hasRedirects {
		_ = writef(f, "\n")
	}

	hasBroken := false
	for _, d := range diagnostics {
		if d.Status != "OK" && d.Status != "REDIRECT" {
			if !hasBroken {
				_ = writef(f, "-- Disable broken feeds (review and fix manually)\n")
				hasBroken = true
			}
			_ = writef(f, "UPDATE feeds SET active = FALSE, status = 'disabled' WHERE slug = '%s'; -- %s: %s\n",
				strings.ReplaceAll(d.Slug, "'", "''"),
				d.Name,
				d.Status)
		}
	}

	logger.Info("SQL fixes generated", "file", "feed_fixes.sql")
}
