package s3client

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joy-dx/banknet/dto"
)

// s3API is the subset of *s3.Client the transport calls.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Client is a transport that maps dto.Request methods onto object
// operations: GET reads or lists, PUT writes, DELETE removes.
type S3Client struct {
	NetClient dto.NetClient
	cfg       *S3ClientConfig
	client    s3API
}

// NewS3Client resolves AWS settings from the environment, overridden by cfg,
// and wraps an SDK client as a NetClient registered under ref.
func NewS3Client(ctx context.Context, ref string, cfg *S3ClientConfig) (*S3Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("s3 client %q: nil config", ref)
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.Credentials != nil {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(cfg.Credentials))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3 client %q: load aws config: %w", ref, err)
	}

	return newS3Client(ref, cfg, s3.NewFromConfig(awsCfg, cfg.apply)), nil
}

// apply carries the addressing settings onto the SDK options.
func (cfg *S3ClientConfig) apply(o *s3.Options) {
	o.UsePathStyle = cfg.ForcePathStyle
	if cfg.Endpoint != "" {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
	}
}

func newS3Client(ref string, cfg *S3ClientConfig, api s3API) *S3Client {
	return &S3Client{
		cfg:    cfg,
		client: api,
		NetClient: dto.NetClient{
			Ref:         ref,
			Name:        "Document store",
			ClientType:  NetClientS3Ref,
			Description: "Statements and documents kept in S3 compatible storage",
		},
	}
}

func (c *S3Client) Ref() string {
	return c.NetClient.Ref
}

func (c *S3Client) Type() dto.NetClientType {
	return NetClientS3Ref
}
