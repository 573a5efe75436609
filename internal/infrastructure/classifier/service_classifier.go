// Package classifier adapts the external natural-language classification
// service to port.Classifier.
package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/port"
)

// Failure reasons carried by the returned *model.ServiceError.
const (
	ReasonCallFailed  = "call failed"
	ReasonTimeout     = "timeout"
	ReasonNoContent   = "no content"
	ReasonNoPayload   = "no json payload"
	ReasonUnparseable = "unparseable payload"
	ReasonInvalid     = "invalid payload"
)

// DefaultTimeout bounds a single classification call.
const DefaultTimeout = 5 * time.Second

// ServiceClassifier asks the completion service to classify an application.
// It makes exactly one attempt per call and never retries.
type ServiceClassifier struct {
	client  port.CompletionClient
	cache   port.ClassificationCache
	timeout time.Duration
	logger  *slog.Logger
}

var _ port.Classifier = (*ServiceClassifier)(nil)

// Option configures a ServiceClassifier.
type Option func(*ServiceClassifier)

// WithCache serves repeat classifications of identical facts from cache.
func WithCache(cache port.ClassificationCache) Option {
	return func(c *ServiceClassifier) { c.cache = cache }
}

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *ServiceClassifier) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewServiceClassifier creates a ServiceClassifier.
func NewServiceClassifier(client port.CompletionClient, logger *slog.Logger, opts ...Option) *ServiceClassifier {
	c := &ServiceClassifier{
		client:  client,
		timeout: DefaultTimeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify implements port.Classifier. Every failure is a *model.ServiceError.
func (c *ServiceClassifier) Classify(ctx context.Context, in model.ClassificationInput) (model.ClassificationResult, error) {
	// The timeout bounds the cache round trips as well as the service call.
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	key := FactsDigest(in)
	if result, ok := c.cached(callCtx, key); ok {
		return result, nil
	}

	text, err := c.client.Complete(callCtx, port.CompletionRequest{
		System: systemPrompt,
		Prompt: buildPrompt(in),
	})
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return model.ClassificationResult{}, model.NewServiceError(ReasonTimeout, err)
		}
		return model.ClassificationResult{}, model.NewServiceError(ReasonCallFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return model.ClassificationResult{}, model.NewServiceError(ReasonNoContent, nil)
	}

	p, err := extractPayload(text)
	switch {
	case errors.Is(err, errNoJSONObject):
		return model.ClassificationResult{}, model.NewServiceError(ReasonNoPayload, err)
	case err != nil:
		return model.ClassificationResult{}, model.NewServiceError(ReasonUnparseable, err)
	}

	result, err := p.toResult()
	if err != nil {
		return model.ClassificationResult{}, model.NewServiceError(ReasonInvalid, err)
	}

	c.store(callCtx, key, result)
	return result, nil
}

func (c *ServiceClassifier) cached(ctx context.Context, key string) (model.ClassificationResult, bool) {
	if c.cache == nil {
		return model.ClassificationResult{}, false
	}
	result, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "classification cache read failed", "error", err)
		return model.ClassificationResult{}, false
	}
	if !ok || result.Validate() != nil {
		return model.ClassificationResult{}, false
	}
	return result, true
}

func (c *ServiceClassifier) store(ctx context.Context, key string, result model.ClassificationResult) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, result); err != nil {
		c.logger.WarnContext(ctx, "classification cache write failed", "error", err)
	}
}

// FactsDigest is the cache key for a classification: a SHA-256 over the
// normalized facts and the DTI rounded to two places.
func FactsDigest(in model.ClassificationInput) string {
	f := in.Facts
	duration := "-"
	if years, ok := f.EmploymentDurationYears(); ok {
		duration = years.String()
	}
	canonical := fmt.Sprintf("v1|%s|%s|%s|%d|%s|%s|%s|%.2f",
		strings.ToLower(strings.Join(strings.Fields(f.LoanPurpose()), " ")),
		f.LoanAmount().String(),
		f.AnnualIncome().String(),
		f.CreditScore(),
		f.EmploymentStatus(),
		duration,
		f.MonthlyDebt().String(),
		in.DTI,
	)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
