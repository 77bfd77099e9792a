package s3client

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joy-dx/banknet/config"
	"github.com/joy-dx/banknet/dto"
)

const NetClientS3Ref dto.NetClientType = "net.client.s3"

// S3ClientConfig defines the static properties for an S3 client instance.
type S3ClientConfig struct {
	Region string
	// Bucket holds every key when set, otherwise the first path segment names the bucket
	Bucket         string
	Credentials    aws.CredentialsProvider
	ForcePathStyle bool
	Endpoint       string // optional custom endpoint
}

// Default config helpers
func DefaultS3ClientConfig(region string) S3ClientConfig {
	return S3ClientConfig{Region: region}
}

// S3ClientConfigFrom maps the service level S3 section onto a client config.
func S3ClientConfigFrom(cfg config.S3Config) S3ClientConfig {
	return S3ClientConfig{
		Region:         cfg.Region,
		Bucket:         cfg.Bucket,
		Endpoint:       cfg.Endpoint,
		ForcePathStyle: cfg.ForcePathStyle,
	}
}

func (c *S3ClientConfig) WithBucket(bucket string) *S3ClientConfig {
	c.Bucket = bucket
	return c
}

func (c *S3ClientConfig) WithCredentials(provider aws.CredentialsProvider) *S3ClientConfig {
	c.Credentials = provider
	return c
}

func (c *S3ClientConfig) WithEndpoint(endpoint string, forcePathStyle bool) *S3ClientConfig {
	c.Endpoint = endpoint
	c.ForcePathStyle = forcePathStyle
	return c
}
