// Package resilience provides fault tolerance patterns for calls that
// leave the process: circuit breakers for outbound HTTP (feed origins,
// article pages, Redis) and retry logic with exponential backoff and
// jitter.
//
// Usage:
//
//	cb := circuitbreaker.New(circuitbreaker.DefaultConfig("gabon-review"))
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return fetchFeed()
//	})
//
//	err := retry.WithBackoff(ctx, retry.DefaultConfig(), func() error {
//	    return performOperation()
//	})
package resilience
