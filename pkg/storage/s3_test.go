package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveEndpoint(t *testing.T) {
	assert.Equal(t, "", Config{Provider: ProviderAWS, Region: "eu-west-1"}.ResolveEndpoint())
	assert.Equal(t, "https://s3.eu-central-1.wasabisys.com", Config{Provider: ProviderWasabi, Region: "eu-central-1"}.ResolveEndpoint())
	assert.Equal(t, "https://s3.wasabisys.com", Config{Provider: ProviderWasabi, Region: "nowhere"}.ResolveEndpoint())
	assert.Equal(t, "http://minio:9000", Config{Provider: ProviderMinio, Endpoint: "http://minio:9000"}.ResolveEndpoint())
}

func TestNewObjectStoreRequiresBucket(t *testing.T) {
	_, err := NewObjectStore(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPresignGet(t *testing.T) {
	store, err := NewObjectStore(context.Background(), Config{
		Provider:        ProviderMinio,
		Region:          "us-east-1",
		Bucket:          "exports",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Endpoint:        "http://localhost:9000",
	})
	assert.NoError(t, err)

	url, err := store.PresignGet(context.Background(), "exports/candidates.xlsx", 15*time.Minute)
	assert.NoError(t, err)
	assert.Contains(t, url, "http://localhost:9000/exports/exports/candidates.xlsx")
	assert.Contains(t, url, "X-Amz-Signature=")
}
