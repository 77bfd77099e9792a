package banknet

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/joy-dx/banknet/dto"
)

// APIClient is the typed entry point over a dto.NetInterface. It holds no
// state of its own and is safe for concurrent use.
type APIClient struct {
	net dto.NetInterface
}

func NewAPIClient(net dto.NetInterface) *APIClient {
	return &APIClient{net: net}
}

func (c *APIClient) Net() dto.NetInterface {
	return c.net
}

// Send runs req and decodes the response into T:
//
//	[]byte        raw body
//	string        raw body as text
//	dto.Response  the whole response
//	dto.Empty     body ignored
//	anything else JSON, an empty body yields the zero value
//
// Pipeline failures are returned unchanged; a body that does not decode is
// a dto.KindDecoding error.
func Send[T any](ctx context.Context, c *APIClient, req *dto.Request) (T, error) {
	var zero T
	resp, err := c.net.Do(ctx, req)
	if err != nil {
		return zero, dto.AsError(err, dto.KindTransport)
	}
	return decode[T](resp)
}

func Get[T any](ctx context.Context, c *APIClient, path string) (T, error) {
	req := dto.DefaultRequest()
	req.WithMethod(http.MethodGet).WithPath(path)
	return Send[T](ctx, c, &req)
}

func Post[T any](ctx context.Context, c *APIClient, path string, body any) (T, error) {
	req := dto.DefaultRequest()
	req.WithMethod(http.MethodPost).WithPath(path).WithBody(body)
	return Send[T](ctx, c, &req)
}

func decode[T any](resp dto.Response) (T, error) {
	var out T
	switch p := any(&out).(type) {
	case *[]byte:
		*p = resp.Body
	case *string:
		*p = string(resp.Body)
	case *dto.Response:
		*p = resp
	case *dto.Empty:
	default:
		if len(bytes.TrimSpace(resp.Body)) == 0 {
			return out, nil
		}
		if err := json.Unmarshal(resp.Body, &out); err != nil {
			var zero T
			return zero, dto.DecodingError(err)
		}
	}
	return out, nil
}
