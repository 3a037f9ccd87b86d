package cloudflare

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aurum-labs/jewel-studio/common/config"
	"github.com/aurum-labs/jewel-studio/common/helper"
	"github.com/aurum-labs/jewel-studio/common/image"
	"github.com/aurum-labs/jewel-studio/common/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	PrefixImages = "design-images"
	PrefixModels = "design-models"
)

// Enabled reports whether the R2 bucket is configured.
func Enabled() bool {
	return config.R2Enabled && config.R2AccessKey != "" && config.R2SecretKey != "" &&
		config.R2Bucket != "" && config.R2Endpoint != ""
}

// ObjectKey builds "<prefix>/<timestamp>-<uuid><ext>".
func ObjectKey(prefix string, mimeType string, now time.Time) string {
	filename := fmt.Sprintf("%s-%s%s", now.Format("20060102-150405"), helper.GetUUID()[:12], image.ExtensionFromMimeType(mimeType))
	return path.Join(prefix, filename)
}

// PublicURL prefers the public domain; otherwise it falls back to the
// path-style endpoint URL.
func PublicURL(objectKey string) string {
	if config.R2PublicURL != "" {
		return fmt.Sprintf("%s/%s", config.R2PublicURL, objectKey)
	}
	return fmt.Sprintf("%s/%s/%s", config.R2Endpoint, config.R2Bucket, objectKey)
}

func newClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(config.R2AccessKey, config.R2SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}
	// path-style avoids virtual-host subdomain TLS issues on R2
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(config.R2Endpoint)
		o.UsePathStyle = true
	}), nil
}

// Upload stores data under prefix and returns its public URL.
func Upload(ctx context.Context, data []byte, mimeType string, prefix string) (string, error) {
	if !Enabled() {
		return "", fmt.Errorf("R2 configuration is incomplete")
	}
	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}
	objectKey := ObjectKey(prefix, mimeType, time.Now())
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(config.R2Bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}
	resultURL := PublicURL(objectKey)
	logger.Infof(ctx, "asset uploaded to R2: %s (size: %d bytes)", resultURL, len(data))
	return resultURL, nil
}
