package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type RepeatableFunc func(attempt int) (retry bool, err error)

// RetryConfig defines configuration for retry behavior
type RetryConfig struct {
	MaxRetries     int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	BackoffFactor  float64
	Logger         logrus.FieldLogger
	Context        context.Context
	RetryCondition func(error) bool
}

// DefaultRetryConfig returns a sensible default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:     3,
		InitialDelay:   100 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		BackoffFactor:  2.0,
		RetryCondition: IsTransientError,
	}
}

// WithLogger sets the logger for retry operations
func (c *RetryConfig) WithLogger(logger logrus.FieldLogger) *RetryConfig {
	c.Logger = logger
	return c
}

// WithContext sets the context for retry operations
func (c *RetryConfig) WithContext(ctx context.Context) *RetryConfig {
	c.Context = ctx
	return c
}

// WithMaxRetries sets the maximum number of retry attempts
func (c *RetryConfig) WithMaxRetries(maxRetries int) *RetryConfig {
	c.MaxRetries = maxRetries
	return c
}

// WithInitialDelay sets the initial delay between retries
func (c *RetryConfig) WithInitialDelay(delay time.Duration) *RetryConfig {
	c.InitialDelay = delay
	return c
}

// WithMaxDelay sets the maximum delay between retries
func (c *RetryConfig) WithMaxDelay(delay time.Duration) *RetryConfig {
	c.MaxDelay = delay
	return c
}

// WithBackoffFactor sets the exponential backoff factor
func (c *RetryConfig) WithBackoffFactor(factor float64) *RetryConfig {
	c.BackoffFactor = factor
	return c
}

// WithRetryCondition sets a custom condition for determining if an error should trigger a retry
func (c *RetryConfig) WithRetryCondition(condition func(error) bool) *RetryConfig {
	c.RetryCondition = condition
	return c
}

// IsTransientError reports whether an error looks like a passing
// infrastructure failure worth retrying. Database connection drops and
// broker outages qualify; domain rejections (an illegal transition, a
// duplicate stop arrival) never do and must surface to the caller unchanged.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection refused",
		"timeout",
		"temporary failure",
		"network unreachable",
		"connection reset",
		"broken pipe",
		"context deadline exceeded",
		"driver: bad connection",
		"kafka",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// ExecuteWithRetry runs the operation until it succeeds, the error is ruled
// non-retryable, the attempt budget is spent, or the context is cancelled.
// Delay between attempts grows by the backoff factor up to MaxDelay.
func ExecuteWithRetry(config *RetryConfig, operation func() error) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var lastErr error
	delay := config.InitialDelay

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if config.Context != nil {
			select {
			case <-config.Context.Done():
				return fmt.Errorf("operation cancelled: %w", config.Context.Err())
			default:
			}
		}

		err := operation()
		if err == nil {
			if config.Logger != nil && attempt > 0 {
				config.Logger.WithField("attempts", attempt+1).Info("Operation succeeded after retry")
			}
			return nil
		}

		lastErr = err

		if config.RetryCondition != nil && !config.RetryCondition(err) {
			if config.Logger != nil {
				config.Logger.WithError(err).Debug("Error is not retryable, aborting")
			}
			return err
		}

		// No sleep after the final attempt.
		if attempt == config.MaxRetries {
			break
		}

		if config.Logger != nil {
			config.Logger.WithFields(logrus.Fields{
				"attempt": attempt + 1,
				"error":   err,
				"delay":   delay,
			}).Warn("Operation failed, retrying")
		}

		if config.Context != nil {
			select {
			case <-config.Context.Done():
				return fmt.Errorf("operation cancelled during retry delay: %w", config.Context.Err())
			case <-time.After(delay):
			}
		} else {
			time.Sleep(delay)
		}

		nextDelay := time.Duration(float64(delay) * config.BackoffFactor)
		if nextDelay > config.MaxDelay {
			delay = config.MaxDelay
		} else {
			delay = nextDelay
		}
	}

	if config.Logger != nil {
		config.Logger.WithFields(logrus.Fields{
			"attempts": config.MaxRetries + 1,
			"error":    lastErr,
		}).Error("Operation failed after all retry attempts")
	}

	return fmt.Errorf("operation failed after %d attempts, last error: %w", config.MaxRetries+1, lastErr)
}

// Try repeats fn until it stops asking for another attempt, for callers that
// carry their own retry predicate instead of a RetryConfig.
func Try(fn RepeatableFunc, retries int) error {
	attempt := 1
	for {
		cont, err := fn(attempt)
		if !cont || err == nil {
			return nil
		}
		attempt++
		if attempt > retries {
			return errors.New("max retry reached")
		}
		time.Sleep(1 * time.Second)
	}
}
