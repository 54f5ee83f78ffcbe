package api

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/sirupsen/logrus"
)

// MockResponseBody is a ReadCloser that simulates reading response data
type MockResponseBody struct {
	data []byte
	pos  int
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data, pos: 0}
}

// Read implements the io.Reader interface
func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n = copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

// Close implements the io.Closer interface
func (m *MockResponseBody) Close() error {
	return nil
}

// mockRoute is a canned response for one path
type mockRoute struct {
	status int
	body   string
	err    error
}

// MockHttpClient routes requests by URL path to canned responses and
// records every request it sees.
type MockHttpClient struct {
	mu       sync.Mutex
	routes   map[string]mockRoute
	Requests []*fhttp.Request
	Bodies   []string
	// Block, when set, makes Do wait for the request context to end
	Block bool
}

// NewMockHttpClient creates an empty router
func NewMockHttpClient() *MockHttpClient {
	return &MockHttpClient{routes: make(map[string]mockRoute)}
}

// On registers a response for path
func (m *MockHttpClient) On(path string, status int, body string) *MockHttpClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[path] = mockRoute{status: status, body: body}
	return m
}

// Fail registers a transport error for path
func (m *MockHttpClient) Fail(path string, err error) *MockHttpClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[path] = mockRoute{err: err}
	return m
}

// Do implements HTTPDoer
func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.Bodies = append(m.Bodies, string(data))
	} else {
		m.Bodies = append(m.Bodies, "")
	}
	route, ok := m.routes[req.URL.Path]
	block := m.Block
	m.mu.Unlock()

	if block {
		<-req.Context().Done()
		return nil, req.Context().Err()
	}
	if !ok {
		return &fhttp.Response{
			StatusCode: 404,
			Body:       NewMockResponseBody([]byte("<html>not found</html>")),
			Header:     make(fhttp.Header),
		}, nil
	}
	if route.err != nil {
		return nil, route.err
	}
	return &fhttp.Response{
		StatusCode: route.status,
		Body:       NewMockResponseBody([]byte(route.body)),
		Header:     make(fhttp.Header),
	}, nil
}

// LastRequest returns the most recent request and its body
func (m *MockHttpClient) LastRequest() (*fhttp.Request, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return nil, ""
	}
	return m.Requests[len(m.Requests)-1], m.Bodies[len(m.Bodies)-1]
}

// newTestClient builds a LadderClient over mock
func newTestClient(t *testing.T, mock *MockHttpClient) *LadderClient {
	t.Helper()
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	client, err := NewClient("http://backend.test:5050/", WithHTTPClient(mock), WithLogger(logrus.NewEntry(quiet)))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return client
}

func bg() context.Context {
	return context.Background()
}

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}
