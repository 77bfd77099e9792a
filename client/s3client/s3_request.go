package s3client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joy-dx/banknet/dto"
	"github.com/joy-dx/banknet/utils"
)

const (
	opGet    = "get"
	opPut    = "put"
	opDelete = "delete"
	opList   = "list"

	metaHeaderPrefix = "X-Amz-Meta-"
)

// S3Request is the object operation derived from one dto.Request.
type S3Request struct {
	Operation string
	Bucket    string
	Key       string

	Body         []byte
	Prefix       string
	ContentType  string
	CacheControl string
	Metadata     map[string]string

	// Deterministic prepared AWS inputs
	PutInput    *s3.PutObjectInput
	GetInput    *s3.GetObjectInput
	DeleteInput *s3.DeleteObjectInput
	ListInput   *s3.ListObjectsV2Input
}

func (c *S3Client) ProcessRequest(ctx context.Context, req *dto.Request) (dto.Response, error) {
	if req == nil {
		return dto.Response{}, dto.ErrNilRequest
	}

	r, err := newS3Request(req, c.cfg.Bucket)
	if err != nil {
		return dto.Response{}, err
	}

	if err := r.Finalize(); err != nil {
		return dto.Response{}, err
	}

	switch r.Operation {
	case opGet:
		return c.doGet(ctx, r)
	case opPut:
		return c.doPut(ctx, r)
	case opDelete:
		return c.doDelete(ctx, r)
	case opList:
		return c.doList(ctx, r)
	default:
		return dto.Response{}, fmt.Errorf("unsupported s3 operation: %s", r.Operation)
	}
}

// newS3Request maps method and path onto an object operation. The path is
// "/<key>" inside bucket, or "/<bucket>/<key>" when bucket is empty.
func newS3Request(req *dto.Request, bucket string) (*S3Request, error) {
	key := strings.TrimPrefix(req.Path, "/")
	if bucket == "" {
		bucket, key, _ = strings.Cut(key, "/")
	}
	if bucket == "" {
		return nil, fmt.Errorf("no bucket in path %q", req.Path)
	}

	r := &S3Request{Bucket: bucket, Key: key}

	switch strings.ToUpper(req.Method) {
	case http.MethodGet, "":
		_, list := req.Query["list"]
		if list || key == "" || strings.HasSuffix(key, "/") {
			r.Operation = opList
			r.Prefix = key
			if p := req.Query.Get("prefix"); p != "" {
				r.Prefix = p
			}
			return r, nil
		}
		r.Operation = opGet

	case http.MethodPut:
		if err := req.FinalizeBody(); err != nil {
			return nil, err
		}
		r.Operation = opPut
		r.Body = req.BodyBytes
		r.ContentType = req.Header("Content-Type")
		if r.ContentType == "" {
			r.ContentType = req.ContentType
		}
		r.CacheControl = req.Header("Cache-Control")
		r.Metadata = utils.HeaderToMap(req.Headers, metaHeaderPrefix)

	case http.MethodDelete:
		r.Operation = opDelete

	default:
		return nil, fmt.Errorf("unsupported s3 method: %s", req.Method)
	}

	if key == "" {
		return nil, fmt.Errorf("s3 %s needs an object key", r.Operation)
	}
	return r, nil
}
