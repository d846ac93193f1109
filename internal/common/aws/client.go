// Package aws builds the SDK clients used for operator notification
// delivery. The wrappers expose the same call shape as the underlying SDK
// clients so the notify package's service interfaces accept either.
package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

func loadConfig(ctx context.Context, region string) (awssdk.Config, error) {
	return config.LoadDefaultConfig(ctx, config.WithRegion(region))
}
