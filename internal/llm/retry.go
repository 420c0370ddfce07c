package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RetryGenerator is a decorator that retries transient failures with exponential
// backoff and jitter before giving up.
type RetryGenerator struct {
	inner      Generator
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// RetryOption configures a RetryGenerator.
type RetryOption func(*RetryGenerator)

// WithLogger sets the logger used to report retries.
func WithLogger(logger *slog.Logger) RetryOption {
	return func(g *RetryGenerator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewRetryGenerator wraps a Generator with retry logic.
// maxRetries is the number of additional attempts after the first failure.
func NewRetryGenerator(inner Generator, maxRetries int, baseDelay time.Duration, opts ...RetryOption) *RetryGenerator {
	g := &RetryGenerator{
		inner:      inner,
		maxRetries: max(maxRetries, 0),
		baseDelay:  baseDelay,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate calls the wrapped generator, retrying on transient errors.
func (g *RetryGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	text, err := g.inner.Generate(ctx, system, user)
	if err == nil {
		return text, nil
	}
	if !IsRetryable(err) {
		return "", err
	}

	lastErr := err
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		delay := g.backoffDelay(attempt)

		g.logger.Warn("retrying LLM call after transient error",
			"attempt", attempt,
			"max_retries", g.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		text, err = g.inner.Generate(ctx, system, user)
		if err == nil {
			return text, nil
		}
		if !IsRetryable(err) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("LLM call failed after %d attempts: %w", g.maxRetries+1, lastErr)
}

// Close closes the wrapped generator.
func (g *RetryGenerator) Close() error {
	return g.inner.Close()
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
func (g *RetryGenerator) backoffDelay(attempt int) time.Duration {
	delay := g.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// IsRetryable reports whether err is a transient failure worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation is never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrMissingAPIKey) {
		return false
	}

	// Safety blocks are deterministic for the same prompt.
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return false
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if code := apiErr.HTTPCode(); code > 0 {
			return retryableHTTPStatus(code)
		}
		return retryableGRPCCode(apiErr.GRPCStatus().Code())
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return retryableHTTPStatus(gErr.Code)
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		return retryableGRPCCode(st.Code())
	}

	// Non-API errors (network, DNS) are retryable.
	return true
}

func retryableHTTPStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func retryableGRPCCode(code codes.Code) bool {
	switch code {
	case codes.Unavailable, codes.ResourceExhausted, codes.Internal, codes.DeadlineExceeded, codes.Aborted:
		return true
	default:
		return false
	}
}
