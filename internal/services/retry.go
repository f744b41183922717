package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/investor-agent/investor-mcp/config"
	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/logger"
)

// transientSubstrings are error-text fragments that mark a provider failure
// as worth retrying: rate limiting, timeouts, connection problems, and the
// retryable status codes spelled out in responses.
var transientSubstrings = []string{
	"rate limit",
	"too many requests",
	"temporarily blocked",
	"timeout",
	"connection",
	"network",
	"temporary",
	"429",
	"502",
	"503",
	"504",
}

// IsTransientError is the default transient-failure classifier. It is a
// plain predicate so tests and callers can substitute their own.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}

	var transient *domain.TransientProviderError
	if errors.As(err, &transient) {
		return true
	}

	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, term := range transientSubstrings {
		if strings.Contains(msg, term) {
			return true
		}
	}
	return false
}

// IsRetryableStatusCode reports whether an HTTP status should trigger a
// retry: every 5xx plus 429.
func IsRetryableStatusCode(statusCode int) bool {
	return statusCode >= http.StatusInternalServerError || statusCode == http.StatusTooManyRequests
}

// RetryableHTTPClient wraps http.Client with the shared retry policy.
type RetryableHTTPClient struct {
	client      *http.Client
	config      config.RetryConfig
	isTransient func(error) bool
}

// NewRetryableHTTPClient creates a retrying HTTP client with the given
// per-request timeout. Redirects are followed by the underlying client.
func NewRetryableHTTPClient(timeout time.Duration, cfg config.RetryConfig) *RetryableHTTPClient {
	return &RetryableHTTPClient{
		client:      &http.Client{Timeout: timeout},
		config:      cfg,
		isTransient: IsTransientError,
	}
}

// Do executes an HTTP request, retrying transient failures with exponential
// backoff. Non-transient failures propagate immediately.
func (r *RetryableHTTPClient) Do(req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		resp, err := r.client.Do(req.Clone(req.Context()))

		if err == nil {
			if !IsRetryableStatusCode(resp.StatusCode) {
				return resp, nil
			}
			_ = resp.Body.Close()
			lastErr = &domain.TransientProviderError{
				StatusCode: resp.StatusCode,
				Cause:      fmt.Errorf("HTTP %d from %s", resp.StatusCode, req.URL.Host),
			}
			logger.Debug("Retryable status code",
				"status_code", resp.StatusCode,
				"attempt", attempt,
				"url", req.URL.String())
		} else if !r.isTransient(err) {
			return nil, err
		} else {
			lastErr = err
			logger.Debug("Transient error on HTTP request",
				"error", err.Error(),
				"attempt", attempt,
				"url", req.URL.String())
		}

		if attempt < r.config.MaxAttempts {
			backoff := calculateBackoff(r.config, attempt)
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(time.Duration(backoff) * time.Second):
			}
		}
	}

	logger.Warn("HTTP request failed after all attempts",
		"attempts", r.config.MaxAttempts,
		"url", req.URL.String(),
		"error", lastErr)
	return nil, lastErr
}

// calculateBackoff computes the delay before the next attempt:
// initial * multiplier^(attempt-1), clamped to [initial, max].
func calculateBackoff(cfg config.RetryConfig, attempt int) int {
	backoff := cfg.InitialBackoffSec
	for i := 1; i < attempt; i++ {
		backoff *= cfg.BackoffMultiplier
	}
	if backoff > cfg.MaxBackoffSec {
		backoff = cfg.MaxBackoffSec
	}
	if backoff < cfg.InitialBackoffSec {
		backoff = cfg.InitialBackoffSec
	}
	return backoff
}

// Retry runs op under the shared retry policy. Only failures accepted by
// the isTransient predicate are retried; the last failure is surfaced
// unchanged once attempts are exhausted.
func Retry[T any](ctx context.Context, cfg config.RetryConfig, isTransient func(error) bool, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	if isTransient == nil {
		isTransient = IsTransientError
	}

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !isTransient(err) {
			return zero, err
		}
		lastErr = err

		if attempt < cfg.MaxAttempts {
			backoff := calculateBackoff(cfg, attempt)
			logger.Debug("Transient failure, waiting before retry",
				"backoff_seconds", backoff,
				"attempt", attempt,
				"error", err.Error())
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(time.Duration(backoff) * time.Second):
			}
		}
	}

	logger.Warn("Operation failed after all attempts",
		"attempts", cfg.MaxAttempts,
		"error", lastErr)
	return zero, lastErr
}
