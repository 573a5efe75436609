package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/port"
	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

// FallbackClassifier tries the service-backed classifier once and substitutes
// the rule classifier on any failure. It never returns an error.
type FallbackClassifier struct {
	primary  port.Classifier
	rules    *RuleClassifier
	observer port.EvaluationObserver
	logger   *slog.Logger
}

// NewFallbackClassifier creates a FallbackClassifier. A nil primary means
// rules-only classification; a nil observer or logger falls back to a no-op
// observer and slog.Default.
func NewFallbackClassifier(primary port.Classifier, rules *RuleClassifier, observer port.EvaluationObserver, logger *slog.Logger) *FallbackClassifier {
	if observer == nil {
		observer = NoopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackClassifier{
		primary:  primary,
		rules:    rules,
		observer: observer,
		logger:   logger,
	}
}

// Classify implements port.Classifier.
func (c *FallbackClassifier) Classify(ctx context.Context, in model.ClassificationInput) (model.ClassificationResult, error) {
	result, _ := c.ClassifyWithSource(ctx, in)
	return result, nil
}

// ClassifyWithSource classifies the application and reports which path
// produced the result.
func (c *FallbackClassifier) ClassifyWithSource(ctx context.Context, in model.ClassificationInput) (model.ClassificationResult, valueobject.ClassifierSource) {
	if c.primary != nil {
		start := time.Now()
		result, err := c.primary.Classify(ctx, in)
		if err == nil {
			err = validServiceResult(result)
		}
		if err == nil {
			c.observer.ClassifierCompleted(ctx, valueobject.ClassifierSourceService, time.Since(start))
			return result, valueobject.ClassifierSourceService
		}

		reason := fallbackReason(err)
		c.logger.WarnContext(ctx, "classification service failed, using rule-based classification",
			"error", err,
			"reason", reason,
			"path", valueobject.ClassifierSourceFallback.String(),
		)
		c.observer.ClassifierFellBack(ctx, reason)
	}

	start := time.Now()
	result := c.rules.Derive(in)
	c.observer.ClassifierCompleted(ctx, valueobject.ClassifierSourceFallback, time.Since(start))
	return result, valueobject.ClassifierSourceFallback
}

func validServiceResult(result model.ClassificationResult) error {
	if err := result.Validate(); err != nil {
		return model.NewServiceError("invalid result", err)
	}
	return nil
}

func fallbackReason(err error) string {
	var serr *model.ServiceError
	if errors.As(err, &serr) && serr.Reason != "" {
		return serr.Reason
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "error"
}
