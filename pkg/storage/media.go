// Package storage resolves catalog media identifiers to URLs.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/shabadpapers/shabad-api/pkg/logger"
	"github.com/shabadpapers/shabad-api/pkg/metrics"
	"go.uber.org/zap"
)

// MediaResolver turns a catalog media identifier into a URL the site can load.
// Identifiers are either absolute URLs or object keys.
type MediaResolver interface {
	Resolve(ctx context.Context, identifier string) string
}

func isAbsoluteURL(identifier string) bool {
	return strings.HasPrefix(identifier, "http://") || strings.HasPrefix(identifier, "https://")
}

// StaticResolver serves object keys from the site's own image path
type StaticResolver struct {
	BaseURL string
}

// Resolve returns absolute URLs unchanged and maps keys under /images/
func (r StaticResolver) Resolve(_ context.Context, identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || isAbsoluteURL(identifier) {
		return identifier
	}
	return fmt.Sprintf("%s/images/%s", strings.TrimRight(r.BaseURL, "/"), strings.TrimLeft(identifier, "/"))
}

type presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedRequest, error)
}

// PresignedRequest is the part of a presigned request the resolver needs
type PresignedRequest struct {
	URL string
}

type s3Presigner struct {
	client *s3.PresignClient
}

func (p s3Presigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedRequest, error) {
	req, err := p.client.PresignGetObject(ctx, params, optFns...)
	if err != nil {
		return nil, err
	}
	return &PresignedRequest{URL: req.URL}, nil
}

// S3Resolver signs time-limited GET URLs for keys in an S3-compatible bucket
type S3Resolver struct {
	presigner  presigner
	bucketName string
	expiry     time.Duration
}

// S3Config configures the media bucket
type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
	URLExpiry       time.Duration
}

// NewS3Resolver creates a resolver for an S3-compatible bucket
func NewS3Resolver(cfg S3Config) *S3Resolver {
	if cfg.Region == "" {
		cfg.Region = "auto"
	}
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = time.Hour
	}

	opts := s3.Options{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"", // session token not needed
		),
		UsePathStyle: cfg.Endpoint != "",
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	logger.Info("Media storage client initialized",
		zap.String("bucket", cfg.BucketName),
		zap.String("endpoint", cfg.Endpoint),
		zap.String("region", cfg.Region),
	)

	return &S3Resolver{
		presigner:  s3Presigner{client: s3.NewPresignClient(s3.New(opts))},
		bucketName: cfg.BucketName,
		expiry:     cfg.URLExpiry,
	}
}

// Resolve returns absolute URLs unchanged and presigns keys. A key that
// cannot be signed resolves to "" so the caller can skip the image.
func (r *S3Resolver) Resolve(ctx context.Context, identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || isAbsoluteURL(identifier) {
		return identifier
	}

	start := time.Now()
	req, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucketName),
		Key:    aws.String(strings.TrimLeft(identifier, "/")),
	}, s3.WithPresignExpires(r.expiry))

	duration := metrics.MeasureDuration(start)
	if err != nil {
		metrics.UpstreamRequestDuration.WithLabelValues("media_storage", "error").Observe(duration)
		logger.Warn("Failed to presign media URL", zap.String("key", identifier), zap.Error(err))
		return ""
	}

	metrics.UpstreamRequestDuration.WithLabelValues("media_storage", "success").Observe(duration)
	return req.URL
}
