/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// ClientConfig holds the connection settings of a DynamoDB client.
type ClientConfig struct {
	Region    string
	AccessKey string
	SecretKey string
	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local.
	Endpoint string
}

// NewDynamoDBClient initializes a DynamoDB client. Static credentials are
// used when both keys are set, the default credential chain otherwise.
func NewDynamoDBClient(ctx context.Context, c ClientConfig) (*sdk.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKey != "" && c.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
	}), nil
}
