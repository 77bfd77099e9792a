package dto

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/joy-dx/banknet/utils"
)

// Request describes one API call. Callers build it once; the network service
// works on a clone so the caller's copy is never mutated.
type Request struct {
	// ClientRef Determines which transport to use
	ClientRef string      `json:"client_ref" yaml:"client_ref"`
	Method    string      `json:"method" yaml:"method"`
	Path      string      `json:"path" yaml:"path"`
	Headers   http.Header `json:"headers" yaml:"headers"`
	Query     url.Values  `json:"query" yaml:"query"`
	Body      any         `json:"body" yaml:"body"`
	// BodyType application/json, application/x-www-form-urlencoded
	BodyType string `json:"body_type" yaml:"body_type"`
	TaskName string `json:"task_name" yaml:"task_name"`

	// Finalized wire body
	BodyBytes   []byte `json:"-" yaml:"-"`
	ContentType string `json:"-" yaml:"-"`
}

func DefaultRequest() Request {
	return Request{
		ClientRef: NET_DEFAULT_CLIENT_REF,
		Method:    http.MethodGet,
		Headers:   make(http.Header),
		Query:     make(url.Values),
		BodyType:  "application/json",
	}
}

func (r *Request) WithClientRef(ref string) *Request {
	r.ClientRef = ref
	return r
}

func (r *Request) WithMethod(method string) *Request {
	r.Method = method
	return r
}

func (r *Request) WithPath(path string) *Request {
	r.Path = path
	return r
}

// WithHeader sets a header, replacing any previous value for the same
// case-insensitive key.
func (r *Request) WithHeader(key, value string) *Request {
	if r.Headers == nil {
		r.Headers = make(http.Header)
	}
	r.Headers.Set(key, value)
	return r
}

func (r *Request) WithHeaders(headers map[string]string) *Request {
	for k, v := range headers {
		r.WithHeader(k, v)
	}
	return r
}

func (r *Request) WithQuery(key string, values ...string) *Request {
	if r.Query == nil {
		r.Query = make(url.Values)
	}
	r.Query[key] = append(r.Query[key], values...)
	return r
}

func (r *Request) WithBody(body any) *Request {
	r.Body = body
	r.BodyBytes = nil
	return r
}

func (r *Request) WithBodyType(bodyType string) *Request {
	r.BodyType = bodyType
	return r
}

func (r *Request) WithTaskName(name string) *Request {
	r.TaskName = name
	return r
}

// Clone returns a deep copy of the header, query and finalized body state.
// Body itself is shared; it is only ever read.
func (r *Request) Clone() *Request {
	c := *r
	c.Headers = r.Headers.Clone()
	if c.Headers == nil {
		c.Headers = make(http.Header)
	}
	c.Query = make(url.Values, len(r.Query))
	for k, v := range r.Query {
		c.Query[k] = append([]string(nil), v...)
	}
	if r.BodyBytes != nil {
		c.BodyBytes = append([]byte(nil), r.BodyBytes...)
	}
	return &c
}

func (r *Request) SetHeader(k, v string) {
	if r.Headers == nil {
		r.Headers = make(http.Header)
	}
	r.Headers.Set(k, v)
}

func (r *Request) Header(k string) string {
	return r.Headers.Get(k)
}

// Target is the path plus encoded query, used to identify the request in logs.
func (r *Request) Target() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// Key identifies the request in the service state.
func (r *Request) Key() string {
	return fmt.Sprintf("%s %s", r.Method, r.Target())
}

// FinalizeBody prepares BodyBytes and ContentType.
// If BodyBytes is already set it is respected; otherwise it is built from Body
// and BodyType.
func (r *Request) FinalizeBody() error {
	if r.BodyBytes != nil {
		return nil
	}

	bodyBuf, ct, err := utils.PrepareBody(r.Body, r.BodyType)
	if err != nil {
		return fmt.Errorf("prepare body: %w", err)
	}

	r.BodyBytes = bodyBuf
	// Prefer explicit ContentType if some plugin set it.
	if r.ContentType == "" {
		r.ContentType = ct
	}
	return nil
}
