/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// RetryOptions bounds the retries of throttled scan pages.
type RetryOptions struct {
	MaxRetries   int
	RetryBackoff time.Duration
}

// DefaultRetryOptions returns the scan retry policy used when none is set.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{MaxRetries: 3, RetryBackoff: 100 * time.Millisecond}
}

// scanWithRetry executes one scan page with linear backoff on retryable errors.
func (c *Collection[D]) scanWithRetry(ctx context.Context, input *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		out, err := c.client.Scan(ctx, input)
		if err == nil {
			return out, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			return nil, err
		}

		if attempt < c.retry.MaxRetries {
			backoff := time.Duration(attempt+1) * c.retry.RetryBackoff
			c.logger.Debug("retrying scan",
				zap.String("table", c.table.Name),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
				zap.Error(err))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("scan failed after %d retries: %w", c.retry.MaxRetries, lastErr)
}

// isRetryableError determines if a DynamoDB error is retryable
func isRetryableError(err error) bool {
	var throughput *types.ProvisionedThroughputExceededException
	var limit *types.RequestLimitExceeded
	var internal *types.InternalServerError
	if errors.As(err, &throughput) || errors.As(err, &limit) || errors.As(err, &internal) {
		return true
	}

	var retryable interface{ IsRetryable() bool }
	if errors.As(err, &retryable) {
		return retryable.IsRetryable()
	}

	return false
}
