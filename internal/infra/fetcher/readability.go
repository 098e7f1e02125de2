package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"

	"ogooue-feed/internal/resilience/circuitbreaker"
)

// ReadabilityFetcher implements ingest.ContentFetcher using the Mozilla
// Readability algorithm: it downloads the article page and extracts the
// main text, discarding navigation, ads, and boilerplate.
//
// Safe for concurrent use.
type ReadabilityFetcher struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	config  Config
}

// NewReadabilityFetcher creates a fetcher with SSRF-validated redirects
// and a circuit breaker around the page fetches.
func NewReadabilityFetcher(config Config) *ReadabilityFetcher {
	f := &ReadabilityFetcher{
		breaker: circuitbreaker.New(circuitbreaker.ContentFetchConfig()),
		config:  config,
	}
	f.client = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), f.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	return f
}

// FetchContent fetches the page at urlStr and returns its extracted
// article text.
func (f *ReadabilityFetcher) FetchContent(ctx context.Context, urlStr string) (string, error) {
	if err := validateURL(urlStr, f.config.DenyPrivateIPs); err != nil {
		return "", err
	}
	result, err := f.breaker.Execute(func() (interface{}, error) {
		return f.doFetch(ctx, urlStr)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (f *ReadabilityFetcher) doFetch(ctx context.Context, urlStr string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", "OgooueFeedBot/1.0 (+https://ogooue.media/bot)")

	resp, err := f.client.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: request exceeded %v", ErrTimeout, f.config.Timeout)
		}
		// Surface redirect validation errors without the url.Error wrapping.
		if urlErr, ok := err.(*url.Error); ok && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	htmlBytes, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(htmlBytes)) > f.config.MaxBodySize {
		return "", fmt.Errorf("%w: response exceeds %d bytes", ErrBodyTooLarge, f.config.MaxBodySize)
	}

	// Redirects may have moved us; use the final URL for relative links.
	pageURL, _ := url.Parse(urlStr)
	if resp.Request != nil && resp.Request.URL != nil {
		pageURL = resp.Request.URL
	}

	article, err := readability.FromReader(bytes.NewReader(htmlBytes), pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoReadableContent, err)
	}
	if article.TextContent == "" {
		if article.Content == "" {
			return "", ErrNoReadableContent
		}
		return article.Content, nil
	}
	return article.TextContent, nil
}
