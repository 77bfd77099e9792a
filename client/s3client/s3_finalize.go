package s3client

import (
	"bytes"
	"fmt"
	"maps"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Finalize prepares the SDK input for r.Operation. Inputs prepared for any
// other operation are dropped, so only one of them is ever set.
func (r *S3Request) Finalize() error {
	r.GetInput, r.PutInput, r.DeleteInput, r.ListInput = nil, nil, nil, nil

	bucket, key := aws.String(r.Bucket), aws.String(r.Key)
	switch r.Operation {
	case opGet:
		r.GetInput = &s3.GetObjectInput{Bucket: bucket, Key: key}
	case opPut:
		r.PutInput = r.putInput(bucket, key)
	case opDelete:
		r.DeleteInput = &s3.DeleteObjectInput{Bucket: bucket, Key: key}
	case opList:
		r.ListInput = &s3.ListObjectsV2Input{Bucket: bucket, Prefix: optional(r.Prefix)}
	default:
		return fmt.Errorf("unsupported s3 operation: %s", r.Operation)
	}
	return nil
}

func (r *S3Request) putInput(bucket, key *string) *s3.PutObjectInput {
	in := &s3.PutObjectInput{
		Bucket:       bucket,
		Key:          key,
		Body:         bytes.NewReader(r.Body),
		ContentType:  optional(r.ContentType),
		CacheControl: optional(r.CacheControl),
	}
	if len(r.Metadata) > 0 {
		in.Metadata = maps.Clone(r.Metadata)
	}
	return in
}

// optional leaves empty strings unset on SDK inputs.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}
