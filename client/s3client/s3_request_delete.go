package s3client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joy-dx/banknet/dto"
)

// doDelete answers 204 whether or not the key existed, as S3 does.
func (c *S3Client) doDelete(ctx context.Context, r *S3Request) (dto.Response, error) {
	out, err := c.client.DeleteObject(ctx, r.DeleteInput)
	if err != nil {
		return dto.Response{}, fmt.Errorf("s3 delete %s/%s: %w", r.Bucket, r.Key, err)
	}

	headers := http.Header{}
	if out != nil {
		if v := aws.ToString(out.VersionId); v != "" {
			headers.Set("X-Amz-Version-Id", v)
		}
		if aws.ToBool(out.DeleteMarker) {
			headers.Set("X-Amz-Delete-Marker", "true")
		}
	}
	return dto.Response{StatusCode: http.StatusNoContent, Headers: headers}, nil
}
