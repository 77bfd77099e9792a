package s3client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/joy-dx/banknet/dto"
	"github.com/joy-dx/banknet/utils"
)

func (c *S3Client) doGet(ctx context.Context, r *S3Request) (dto.Response, error) {
	out, err := c.client.GetObject(ctx, r.GetInput)
	if err != nil {
		if isNotFound(err) {
			return dto.Response{StatusCode: http.StatusNotFound, Headers: http.Header{}}, nil
		}
		return dto.Response{}, fmt.Errorf("s3 get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return dto.Response{}, fmt.Errorf("read s3 object: %w", err)
	}

	headers := utils.MapToHeader(out.Metadata, metaHeaderPrefix)
	if ct := aws.ToString(out.ContentType); ct != "" {
		headers.Set("Content-Type", ct)
	}
	if etag := aws.ToString(out.ETag); etag != "" {
		headers.Set("ETag", etag)
	}
	if cc := aws.ToString(out.CacheControl); cc != "" {
		headers.Set("Cache-Control", cc)
	}
	headers.Set("Content-Length", strconv.Itoa(len(data)))

	return dto.Response{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers:    headers,
	}, nil
}

// isNotFound reports a missing object, typed or as a bare API error code.
func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
