package directory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/h2non/gock"

	"github.com/raphi011/locsel/internal/log"
)

const testBase = "http://directory.test"

// newGockClient returns a client whose transport is intercepted by gock.
// gock is global, so tests using it don't run in parallel.
func newGockClient(t *testing.T, style string) *Client {
	t.Helper()
	httpClient := &http.Client{}
	gock.InterceptClient(httpClient)
	t.Cleanup(func() {
		gock.RestoreClient(httpClient)
		gock.Off()
	})
	c, err := New(Options{BaseURL: testBase, Style: style, HTTPClient: httpClient})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestClient_Countries(t *testing.T) {
	c := newGockClient(t, "path")
	gock.New(testBase).
		Get("/countries").
		Reply(200).
		JSON([]any{"India", map[string]string{"name": "USA"}, map[string]string{"value": "Japan"}})

	got, err := c.Countries(context.Background())
	if err != nil {
		t.Fatalf("Countries: %v", err)
	}
	if want := []string{"India", "USA", "Japan"}; !slices.Equal(got, want) {
		t.Errorf("Countries() = %q, want %q", got, want)
	}
	if !gock.IsDone() {
		t.Error("expected all mocks to be consumed")
	}
}

func TestClient_States_PathStyle(t *testing.T) {
	c := newGockClient(t, "path")
	gock.New(testBase).
		Get("/country=India/states").
		Reply(200).
		JSON([]string{"Maharashtra", "Kerala"})

	got, err := c.States(context.Background(), "India")
	if err != nil {
		t.Fatalf("States: %v", err)
	}
	if want := []string{"Maharashtra", "Kerala"}; !slices.Equal(got, want) {
		t.Errorf("States() = %q, want %q", got, want)
	}
}

func TestClient_Cities_QueryStyle(t *testing.T) {
	c := newGockClient(t, "query")
	gock.New(testBase).
		Get("/cities").
		MatchParam("country", "India").
		MatchParam("state", "Maharashtra").
		Reply(200).
		JSON([]string{"Pune", "Mumbai"})

	got, err := c.Cities(context.Background(), "India", "Maharashtra")
	if err != nil {
		t.Fatalf("Cities: %v", err)
	}
	if want := []string{"Pune", "Mumbai"}; !slices.Equal(got, want) {
		t.Errorf("Cities() = %q, want %q", got, want)
	}
}

func TestClient_HTTPError(t *testing.T) {
	c := newGockClient(t, "path")
	gock.New(testBase).
		Get("/country=India/states").
		Times(1).
		Reply(500).
		BodyString("boom")

	_, err := c.States(context.Background(), "India")
	if !IsHTTPStatus(err, 500) {
		t.Fatalf("expected HTTP 500 error, got %v", err)
	}
	if err.Error() != "HTTP 500" {
		t.Errorf("Error() = %q, want %q", err.Error(), "HTTP 500")
	}
	if !gock.IsDone() {
		t.Error("HTTP error should not be retried past the single mock")
	}
}

func TestClient_ParseError(t *testing.T) {
	c := newGockClient(t, "path")
	gock.New(testBase).
		Get("/countries").
		Reply(200).
		BodyString("<html>maintenance</html>")

	_, err := c.Countries(context.Background())
	if !IsParse(err) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestClient_NetworkError(t *testing.T) {
	c := newGockClient(t, "path")
	gock.New(testBase).
		Get("/countries").
		ReplyError(errors.New("dial tcp: no route"))

	_, err := c.Countries(context.Background())
	if !IsNetwork(err) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestClient_NonArrayPayload(t *testing.T) {
	c := newGockClient(t, "path")
	gock.New(testBase).
		Get("/countries").
		Reply(200).
		JSON(map[string]any{"error": "nope"})

	got, err := c.Countries(context.Background())
	if err != nil {
		t.Fatalf("Countries: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty list, got %q", got)
	}
}

func TestClient_HTTPStatusNotRetried(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, Retries: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.Countries(context.Background())
	if !IsHTTPStatus(err, http.StatusServiceUnavailable) {
		t.Fatalf("expected 503, got %v", err)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
}

func TestClient_ConnectionRefusedRetried(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	var buf bytes.Buffer
	c, err := New(Options{BaseURL: base, Retries: 1, Logger: log.New(&buf, true, false)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.http.RetryWaitMin = time.Millisecond
	c.http.RetryWaitMax = time.Millisecond

	_, err = c.Countries(context.Background())
	if !IsNetwork(err) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if !strings.Contains(buf.String(), "retry:") {
		t.Errorf("expected retry diagnostics in verbose log, got %q", buf.String())
	}
}

func TestClient_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := New(Options{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.Countries(context.Background())
	if !IsNetwork(err) {
		t.Fatalf("expected NetworkError on timeout, got %v", err)
	}
}

func TestClient_Cancelled(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, Retries: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err = c.Countries(ctx)
	if !IsCancelled(err) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

type trackedBody struct {
	io.Reader
	closed atomic.Bool
}

func (b *trackedBody) Close() error {
	b.closed.Store(true)
	return nil
}

// cancellingTransport cancels the request context and still hands back
// a response, as a transport racing a cancellation can.
type cancellingTransport struct {
	cancel context.CancelFunc
	body   *trackedBody
}

func (t *cancellingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.cancel()
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       t.body,
		Request:    req,
	}, nil
}

func TestClient_CancelledClosesBody(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	body := &trackedBody{Reader: strings.NewReader(`["India"]`)}

	c, err := New(Options{
		BaseURL:    testBase,
		HTTPClient: &http.Client{Transport: &cancellingTransport{cancel: cancel, body: body}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.Countries(ctx)
	if !IsCancelled(err) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if !body.closed.Load() {
		t.Error("response body not closed after cancellation")
	}
}

func TestClient_AlreadyCancelled(t *testing.T) {
	t.Parallel()

	c, err := New(Options{BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.States(ctx, "India"); !IsCancelled(err) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestClient_RequestLogging(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["India"]`))
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, true, false))
	if _, err := c.Countries(ctx); err != nil {
		t.Fatalf("Countries: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "GET "+srv.URL+"/countries 200") {
		t.Errorf("request log = %q, want GET line with status 200", out)
	}
}

func TestNew_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
	}{
		{name: "bad base", opts: Options{BaseURL: "not a url"}},
		{name: "bad style", opts: Options{BaseURL: "http://x", Style: "rpc"}},
		{name: "negative retries", opts: Options{BaseURL: "http://x", Retries: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(tt.opts); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	wrapped := errors.Join(errors.New("ctx"), &HTTPError{Status: 404})
	if !IsHTTPStatus(wrapped, 404) {
		t.Error("IsHTTPStatus should see through wrapping")
	}
	if IsHTTPStatus(wrapped, 500) {
		t.Error("IsHTTPStatus matched wrong status")
	}
	if IsNetwork(&HTTPError{Status: 500}) {
		t.Error("HTTPError is not a network error")
	}
	netErr := &NetworkError{Err: context.DeadlineExceeded}
	if !errors.Is(netErr, context.DeadlineExceeded) {
		t.Error("NetworkError should unwrap to its cause")
	}
	if IsCancelled(netErr) {
		t.Error("timeout is not a cancellation")
	}
}
