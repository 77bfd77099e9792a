package s3client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joy-dx/banknet/dto"
)

// doList answers with one key per line, following continuation tokens until
// the listing is complete.
func (c *S3Client) doList(ctx context.Context, r *S3Request) (dto.Response, error) {
	buf := bytes.NewBuffer(nil)
	in := *r.ListInput
	for {
		out, err := c.client.ListObjectsV2(ctx, &in)
		if err != nil {
			return dto.Response{}, fmt.Errorf("s3 list objects: %w", err)
		}
		for _, obj := range out.Contents {
			fmt.Fprintf(buf, "%s\n", aws.ToString(obj.Key))
		}
		if !aws.ToBool(out.IsTruncated) || aws.ToString(out.NextContinuationToken) == "" {
			break
		}
		in.ContinuationToken = out.NextContinuationToken
	}

	return dto.Response{
		StatusCode: http.StatusOK,
		Headers:    http.Header{"Content-Type": []string{"text/plain; charset=utf-8"}},
		Body:       buf.Bytes(),
	}, nil
}
