package fetch

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// ClientConfig tunes the shared outbound HTTP client.
type ClientConfig struct {
	RetryMax     int
	RetryWaitMax time.Duration
	Timeout      time.Duration
}

// NewClient builds the retrying HTTP client shared by catalog fetches, image
// uploads and the OpenAI SDK. Internal server errors are not retried.
func NewClient(cfg ClientConfig, logger *zap.Logger) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = cfg.RetryMax
	if cfg.RetryWaitMax > 0 {
		c.RetryWaitMax = cfg.RetryWaitMax
		c.RetryWaitMin = min(c.RetryWaitMin, cfg.RetryWaitMax)
	}
	if cfg.Timeout > 0 {
		c.HTTPClient.Timeout = cfg.Timeout
	}
	c.CheckRetry = dontRetry500(retryablehttp.ErrorPropagatedRetryPolicy)
	if logger != nil {
		c.Logger = leveledLogger{s: logger.Named("http").Sugar()}
	} else {
		c.Logger = nil
	}
	return c
}

// dontRetry500 stops retries on context cancellation and on 500 responses,
// delegating every other decision to policy.
func dontRetry500(policy retryablehttp.CheckRetry) retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if resp != nil && resp.StatusCode == http.StatusInternalServerError {
			return false, err
		}
		return policy(ctx, resp, err)
	}
}

// leveledLogger adapts zap to retryablehttp.LeveledLogger.
type leveledLogger struct {
	s *zap.SugaredLogger
}

var _ retryablehttp.LeveledLogger = leveledLogger{}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
