package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/joy-dx/banknet/config"
	"github.com/joy-dx/banknet/dto"
)

// --- helpers ----------------------------------------------------------------

type recordedRequest struct {
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	Body        []byte
	ContentType string
}

type recorder struct {
	mu   sync.Mutex
	last recordedRequest
	hits int
}

func (r *recorder) get() (recordedRequest, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.hits
}

func newRecordingServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *recorder) {
	t.Helper()

	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()

		rec.mu.Lock()
		rec.hits++
		rec.last = recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.Query(),
			Header:      r.Header.Clone(),
			Body:        b,
			ContentType: r.Header.Get("Content-Type"),
		}
		rec.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newTestClient(t *testing.T, baseURL string, cfg *HTTPClientConfig) *HTTPClient {
	t.Helper()

	netCfg := config.DefaultNetSvcConfig()
	netCfg.WithBaseURL(baseURL)
	return NewHTTPClient("test", &netCfg, cfg)
}

type doerFunc func(req *http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// --- tests ------------------------------------------------------------------

func Test_HTTPClient_ProcessRequest_golden_endToEnd(t *testing.T) {
	t.Parallel()

	type golden struct {
		status int
		body   string

		wantMethod   string
		wantPath     string
		wantQuery    url.Values
		wantHeaders  map[string]string
		wantCT       string
		wantBodyJSON map[string]any
		wantRawBody  string
	}

	cases := []struct {
		name  string
		build func(r *dto.Request)
		g     golden
	}{
		{
			name: "get with query round trip",
			build: func(r *dto.Request) {
				r.WithPath("/accounts").WithQuery("page", "2").WithQuery("tag", "a", "b")
			},
			g: golden{
				status:     http.StatusOK,
				body:       `[]`,
				wantMethod: http.MethodGet,
				wantPath:   "/v1/accounts",
				wantQuery:  url.Values{"page": {"2"}, "tag": {"a", "b"}},
			},
		},
		{
			name: "post json body and headers",
			build: func(r *dto.Request) {
				r.WithMethod(http.MethodPost).
					WithPath("transfers").
					WithHeader("Authorization", "Bearer abc").
					WithHeader("X-Request-ID", "rid-1").
					WithBody(map[string]any{"amount": 10.5, "to": "acc-2"})
			},
			g: golden{
				status:       http.StatusCreated,
				body:         `{"id":"tx-1"}`,
				wantMethod:   http.MethodPost,
				wantPath:     "/v1/transfers",
				wantHeaders:  map[string]string{"Authorization": "Bearer abc", "X-Request-ID": "rid-1"},
				wantCT:       "application/json",
				wantBodyJSON: map[string]any{"amount": 10.5, "to": "acc-2"},
			},
		},
		{
			name: "form body",
			build: func(r *dto.Request) {
				r.WithMethod(http.MethodPost).
					WithPath("/token").
					WithBodyType("application/x-www-form-urlencoded").
					WithBody(map[string]string{"grant_type": "client_credentials"})
			},
			g: golden{
				status:      http.StatusOK,
				wantMethod:  http.MethodPost,
				wantPath:    "/v1/token",
				wantCT:      "application/x-www-form-urlencoded",
				wantRawBody: "grant_type=client_credentials",
			},
		},
		{
			name: "explicit content type wins",
			build: func(r *dto.Request) {
				r.WithMethod(http.MethodPut).
					WithPath("/statements/1").
					WithHeader("Content-Type", "text/csv").
					WithBody("a,b\n1,2\n")
			},
			g: golden{
				status:      http.StatusNoContent,
				wantMethod:  http.MethodPut,
				wantPath:    "/v1/statements/1",
				wantCT:      "text/csv",
				wantRawBody: "a,b\n1,2\n",
			},
		},
		{
			name: "401 is a response not an error",
			build: func(r *dto.Request) {
				r.WithPath("/me")
			},
			g: golden{
				status:     http.StatusUnauthorized,
				body:       `{"ok":true}`,
				wantMethod: http.MethodGet,
				wantPath:   "/v1/me",
			},
		},
	}

	for _, cse := range cases {
		cse := cse
		t.Run(cse.name, func(t *testing.T) {
			t.Parallel()
			g := cse.g

			srv, rec := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Served-By", "test")
				w.WriteHeader(g.status)
				if g.body != "" {
					_, _ = w.Write([]byte(g.body))
				}
			})
			client := newTestClient(t, srv.URL+"/v1", nil)

			req := dto.DefaultRequest()
			cse.build(&req)

			resp, err := client.ProcessRequest(context.Background(), &req)
			if err != nil {
				t.Fatalf("ProcessRequest error: %v", err)
			}
			if resp.StatusCode != g.status {
				t.Fatalf("status=%d; want %d", resp.StatusCode, g.status)
			}
			if string(resp.Body) != g.body {
				t.Fatalf("body=%q; want %q", resp.Body, g.body)
			}
			if got := resp.Headers.Get("X-Served-By"); got != "test" {
				t.Fatalf("X-Served-By=%q; want %q", got, "test")
			}

			last, hits := rec.get()
			if hits != 1 {
				t.Fatalf("hits=%d; want 1", hits)
			}
			if last.Method != g.wantMethod {
				t.Fatalf("method=%q; want %q", last.Method, g.wantMethod)
			}
			if last.Path != g.wantPath {
				t.Fatalf("path=%q; want %q", last.Path, g.wantPath)
			}
			if g.wantQuery != nil && !reflect.DeepEqual(last.Query, g.wantQuery) {
				t.Fatalf("query=%v; want %v", last.Query, g.wantQuery)
			}
			for k, v := range g.wantHeaders {
				if got := last.Header.Get(k); got != v {
					t.Fatalf("header %s=%q; want %q", k, got, v)
				}
			}
			if g.wantCT != "" && last.ContentType != g.wantCT {
				t.Fatalf("Content-Type=%q; want %q", last.ContentType, g.wantCT)
			}
			if g.wantBodyJSON != nil {
				var got map[string]any
				if err := json.Unmarshal(last.Body, &got); err != nil {
					t.Fatalf("unmarshal body=%q: %v", last.Body, err)
				}
				if !reflect.DeepEqual(got, g.wantBodyJSON) {
					t.Fatalf("json body=%v; want %v", got, g.wantBodyJSON)
				}
			}
			if g.wantRawBody != "" && string(last.Body) != g.wantRawBody {
				t.Fatalf("raw body=%q; want %q", last.Body, g.wantRawBody)
			}
		})
	}
}

func Test_HTTPClient_ProcessRequest_absoluteURLBypassesBase(t *testing.T) {
	t.Parallel()

	srv, rec := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	client := newTestClient(t, "http://unused.invalid", nil)

	req := dto.DefaultRequest()
	req.WithPath(srv.URL + "/health?x=1").WithQuery("y", "2")

	if _, err := client.ProcessRequest(context.Background(), &req); err != nil {
		t.Fatalf("ProcessRequest error: %v", err)
	}
	last, _ := rec.get()
	if last.Path != "/health" {
		t.Fatalf("path=%q; want %q", last.Path, "/health")
	}
	if last.Query.Get("x") != "1" || last.Query.Get("y") != "2" {
		t.Fatalf("query=%v; want x=1 y=2", last.Query)
	}
}

func Test_HTTPClient_ProcessRequest_transportFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	cfg := DefaultHTTPClientConfig()
	cfg.WithDoer(doerFunc(func(req *http.Request) (*http.Response, error) {
		return nil, boom
	}))
	client := newTestClient(t, "https://bank.example", &cfg)

	req := dto.DefaultRequest()
	req.WithPath("/accounts")
	_, err := client.ProcessRequest(context.Background(), &req)
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v; want %v", err, boom)
	}
}

func Test_HTTPClient_ProcessRequest_contextCancelled(t *testing.T) {
	t.Parallel()

	srv, _ := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	client := newTestClient(t, srv.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := dto.DefaultRequest()
	req.WithPath("/accounts")
	_, err := client.ProcessRequest(ctx, &req)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v; want context.Canceled", err)
	}
}

func Test_HTTPClient_ProcessRequest_errors(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "", nil)

	if _, err := client.ProcessRequest(context.Background(), nil); !errors.Is(err, dto.ErrNilRequest) {
		t.Fatalf("err=%v; want ErrNilRequest", err)
	}

	req := dto.DefaultRequest()
	req.WithPath("/accounts")
	if _, err := client.ProcessRequest(context.Background(), &req); err == nil || !strings.Contains(err.Error(), "without base url") {
		t.Fatalf("err=%v; want missing base url", err)
	}
}

func Test_HTTPClient_sessionCookies(t *testing.T) {
	t.Parallel()

	srv, rec := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			http.SetCookie(w, &http.Cookie{Name: "sid", Value: "s-1", Path: "/"})
		}
		w.WriteHeader(http.StatusOK)
	})

	cfg := DefaultHTTPClientConfig()
	if _, err := cfg.WithSessionCookies(); err != nil {
		t.Fatalf("WithSessionCookies: %v", err)
	}
	client := newTestClient(t, srv.URL, &cfg)

	login := dto.DefaultRequest()
	login.WithMethod(http.MethodPost).WithPath("/login")
	if _, err := client.ProcessRequest(context.Background(), &login); err != nil {
		t.Fatalf("login: %v", err)
	}

	me := dto.DefaultRequest()
	me.WithPath("/me")
	if _, err := client.ProcessRequest(context.Background(), &me); err != nil {
		t.Fatalf("me: %v", err)
	}

	last, _ := rec.get()
	if !strings.Contains(last.Header.Get("Cookie"), "sid=s-1") {
		t.Fatalf("Cookie=%q; want sid=s-1", last.Header.Get("Cookie"))
	}
}

func Test_resolveURL_Golden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		base  string
		path  string
		query url.Values
		want  string
	}{
		{name: "base without prefix", base: "https://bank.example", path: "/accounts", want: "https://bank.example/accounts"},
		{name: "base with prefix", base: "https://bank.example/api/", path: "accounts", want: "https://bank.example/api/accounts"},
		{name: "query merged", base: "https://bank.example", path: "/accounts?page=1", query: url.Values{"size": {"10"}}, want: "https://bank.example/accounts?page=1&size=10"},
		{name: "absolute", base: "https://bank.example", path: "http://other.example/x", want: "http://other.example/x"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveURL(tt.base, tt.path, tt.query)
			if err != nil {
				t.Fatalf("resolveURL error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got=%v want %v", got, tt.want)
			}
		})
	}
}
