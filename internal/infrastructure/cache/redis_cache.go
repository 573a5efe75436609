// Package cache stores service classifications in Redis so identical facts
// are not sent to the classification service twice.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/port"
	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

const (
	// Redis key prefix for cached classifications
	classificationKeyPrefix = "loan-decision:classification:"

	DefaultTTL = 24 * time.Hour
)

// RedisClassificationCache implements port.ClassificationCache.
type RedisClassificationCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ port.ClassificationCache = (*RedisClassificationCache)(nil)

// NewRedisClassificationCache creates a cache whose entries expire after ttl.
// A non-positive ttl falls back to DefaultTTL.
func NewRedisClassificationCache(client redis.Cmdable, ttl time.Duration) *RedisClassificationCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisClassificationCache{client: client, ttl: ttl}
}

// Get returns false without error on a miss.
func (c *RedisClassificationCache) Get(ctx context.Context, key string) (model.ClassificationResult, bool, error) {
	raw, err := c.client.Get(ctx, classificationKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.ClassificationResult{}, false, nil
	}
	if err != nil {
		return model.ClassificationResult{}, false, fmt.Errorf("redis get classification: %w", err)
	}

	result, err := decodeResult(raw)
	if err != nil {
		return model.ClassificationResult{}, false, err
	}
	return result, true, nil
}

// Set stores result under key with the configured TTL.
func (c *RedisClassificationCache) Set(ctx context.Context, key string, result model.ClassificationResult) error {
	raw, err := encodeResult(result)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, classificationKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set classification: %w", err)
	}
	return nil
}

// cachedResult is the stored JSON form.
type cachedResult struct {
	LoanType          string  `json:"loanType"`
	RiskLevel         string  `json:"riskLevel"`
	RiskScore         int     `json:"riskScore"`
	Analysis          string  `json:"analysis"`
	DTI               float64 `json:"dti"`
	CreditScoreFactor string  `json:"creditScoreFactor"`
	IncomeFactor      string  `json:"incomeFactor"`
	EmploymentFactor  string  `json:"employmentFactor"`
}

func encodeResult(r model.ClassificationResult) ([]byte, error) {
	raw, err := json.Marshal(cachedResult{
		LoanType:          r.LoanType.String(),
		RiskLevel:         r.RiskLevel.String(),
		RiskScore:         r.RiskScore,
		Analysis:          r.Analysis,
		DTI:               r.Factors.DTI,
		CreditScoreFactor: r.Factors.CreditScoreFactor.String(),
		IncomeFactor:      r.Factors.IncomeFactor.String(),
		EmploymentFactor:  r.Factors.EmploymentFactor,
	})
	if err != nil {
		return nil, fmt.Errorf("encode classification: %w", err)
	}
	return raw, nil
}

func decodeResult(raw []byte) (model.ClassificationResult, error) {
	var c cachedResult
	if err := json.Unmarshal(raw, &c); err != nil {
		return model.ClassificationResult{}, fmt.Errorf("decode classification: %w", err)
	}

	loanType, err := valueobject.LoanTypeFromString(c.LoanType)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("decode classification: %w", err)
	}
	riskLevel, err := valueobject.RiskLevelFromString(c.RiskLevel)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("decode classification: %w", err)
	}
	credit, err := valueobject.CreditScoreFactorFromString(c.CreditScoreFactor)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("decode classification: %w", err)
	}
	income, err := valueobject.IncomeFactorFromString(c.IncomeFactor)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("decode classification: %w", err)
	}

	return model.ClassificationResult{
		LoanType:  loanType,
		RiskLevel: riskLevel,
		RiskScore: c.RiskScore,
		Analysis:  c.Analysis,
		Factors: model.Factors{
			DTI:               c.DTI,
			CreditScoreFactor: credit,
			IncomeFactor:      income,
			EmploymentFactor:  c.EmploymentFactor,
		},
	}, nil
}
