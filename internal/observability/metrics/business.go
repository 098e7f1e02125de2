package metrics

import "time"

// RecordCycleCompleted records a finished ingestion cycle and its duration.
func RecordCycleCompleted(duration time.Duration) {
	IngestCyclesTotal.WithLabelValues("completed").Inc()
	IngestCycleDuration.Observe(duration.Seconds())
}

// RecordCycleSkipped records a cycle that was skipped because the previous
// one was still running.
func RecordCycleSkipped() {
	IngestCyclesTotal.WithLabelValues("skipped").Inc()
}

// RecordFeedFetch records the duration of one feed fetch, success or not.
func RecordFeedFetch(feedSlug string, duration time.Duration) {
	FeedFetchDuration.WithLabelValues(feedSlug).Observe(duration.Seconds())
}

// RecordFeedFetchError records a failed feed fetch. errorType should be
// "fetch", "parse", or "other".
func RecordFeedFetchError(feedSlug, errorType string) {
	FeedFetchErrors.WithLabelValues(feedSlug, errorType).Inc()
}

// RecordFeedDisabled records a feed crossing the auto-disable threshold.
func RecordFeedDisabled(feedSlug string) {
	FeedsDisabledTotal.WithLabelValues(feedSlug).Inc()
}

// RecordArticleIngested records one newly persisted article.
func RecordArticleIngested(feedSlug string) {
	ArticlesIngestedTotal.WithLabelValues(feedSlug).Inc()
}

// RecordArticleDuplicated records one feed item skipped as a duplicate.
func RecordArticleDuplicated(feedSlug string) {
	ArticlesDuplicatedTotal.WithLabelValues(feedSlug).Inc()
}

// RecordEnrichmentEnqueued records the result of handing a job to the
// enrichment queue.
func RecordEnrichmentEnqueued(success bool) {
	result := "enqueued"
	if !success {
		result = "failed"
	}
	EnrichmentJobsTotal.WithLabelValues(result).Inc()
}

// RecordContentFetchSuccess records a successful article page fetch.
func RecordContentFetchSuccess(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("success").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchFailed records a failed article page fetch.
func RecordContentFetchFailed(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchSkipped records a fetch skipped because the feed
// content was already long enough.
func RecordContentFetchSkipped() {
	ContentFetchAttemptsTotal.WithLabelValues("skipped").Inc()
}

// RecordDBQuery records the duration of a database query operation.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
