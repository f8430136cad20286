package storage

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticResolver(t *testing.T) {
	r := StaticResolver{BaseURL: "https://shabadpapers.com/"}
	ctx := context.Background()

	assert.Equal(t, "https://cdn.example.com/a.jpg", r.Resolve(ctx, "https://cdn.example.com/a.jpg"))
	assert.Equal(t, "https://shabadpapers.com/images/kraft-paper", r.Resolve(ctx, "kraft-paper"))
	assert.Equal(t, "https://shabadpapers.com/images/media/a.png", r.Resolve(ctx, "/media/a.png"))
	assert.Equal(t, "", r.Resolve(ctx, "  "))
}

func TestS3Resolver_PresignsKeys(t *testing.T) {
	r := NewS3Resolver(S3Config{
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		BucketName:      "catalog",
		Endpoint:        "https://storage.example.com",
		Region:          "auto",
		URLExpiry:       15 * time.Minute,
	})

	got := r.Resolve(context.Background(), "categories/kraft.jpg")
	require.NotEmpty(t, got)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "storage.example.com", u.Host)
	assert.True(t, strings.HasPrefix(u.Path, "/catalog/categories/kraft.jpg"))
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestS3Resolver_PassesAbsoluteURLs(t *testing.T) {
	r := NewS3Resolver(S3Config{AccessKeyID: "a", SecretAccessKey: "b", BucketName: "c"})
	assert.Equal(t, "http://example.com/x.jpg", r.Resolve(context.Background(), "http://example.com/x.jpg"))
}

type failingPresigner struct{}

func (failingPresigner) PresignGetObject(context.Context, *s3.GetObjectInput, ...func(*s3.PresignOptions)) (*PresignedRequest, error) {
	return nil, errors.New("no credentials")
}

func TestS3Resolver_SigningFailureResolvesEmpty(t *testing.T) {
	r := &S3Resolver{presigner: failingPresigner{}, bucketName: "catalog", expiry: time.Minute}
	assert.Equal(t, "", r.Resolve(context.Background(), "kraft.jpg"))
}
