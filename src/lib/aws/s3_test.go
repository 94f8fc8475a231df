package aws

import (
	"camphub/src/config"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com",
		ObjectBaseURL(&config.StorageConfig{Bucket: "b", PublicBaseURL: "https://cdn.example.com/"}))
	assert.Equal(t, "http://localhost:9000/b",
		ObjectBaseURL(&config.StorageConfig{Bucket: "b", Endpoint: "http://localhost:9000", UsePathStyle: true}))
	assert.Equal(t, "https://b.s3.ap-southeast-1.amazonaws.com",
		ObjectBaseURL(&config.StorageConfig{Bucket: "b", Region: "ap-southeast-1"}))
}

func TestNewS3ObjectStorageRequiresBucket(t *testing.T) {
	_, err := NewS3ObjectStorage(&config.StorageConfig{})
	assert.Error(t, err)
}
