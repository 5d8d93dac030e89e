package testkit

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockTransport implements http.RoundTripper. It matches outgoing HTTP
// requests against registered rules by URL prefix and returns synthetic
// responses instead of making real network calls.
//
// Install it on the shared HTTP client before the test:
//
//	mt := testkit.NewMockTransport()
//	mt.On("https://api.cloudinary.com/", 200, `{"secure_url":"https://res/x.png"}`)
//	httpclient.DefaultClient.Transport = mt
//	defer httpclient.ResetTransport()
type MockTransport struct {
	mu     sync.Mutex
	rules  []*mockRule
	strict bool
}

type mockRule struct {
	urlPrefix string
	status    int
	body      string
	calls     int
}

// NewMockTransport returns an empty transport. Unmatched calls get a 404
// unless Strict is enabled.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Strict makes unmatched outgoing calls return an error instead of a 404.
func (mt *MockTransport) Strict() *MockTransport {
	mt.strict = true
	return mt
}

// On registers a JSON response for requests whose URL starts with urlPrefix.
// Rules are matched in registration order; the first match wins.
func (mt *MockTransport) On(urlPrefix string, status int, body string) *MockTransport {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.rules = append(mt.rules, &mockRule{urlPrefix: urlPrefix, status: status, body: body})
	return mt
}

// RoundTrip intercepts the outgoing request and returns a synthetic response.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	for _, rule := range mt.rules {
		if !strings.HasPrefix(req.URL.String(), rule.urlPrefix) {
			continue
		}
		rule.calls++
		header := make(http.Header)
		header.Set("Content-Type", "application/json")
		return &http.Response{
			StatusCode: rule.status,
			Status:     fmt.Sprintf("%d %s", rule.status, http.StatusText(rule.status)),
			Header:     header,
			Body:       io.NopCloser(strings.NewReader(rule.body)),
			Request:    req,
		}, nil
	}

	if mt.strict {
		return nil, fmt.Errorf("testkit: unexpected outgoing HTTP call to %s", req.URL)
	}

	return &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(strings.NewReader(`{"error":"no mock configured"}`)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

// Calls returns how many requests matched the rule with the given prefix.
func (mt *MockTransport) Calls(urlPrefix string) int {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	for _, rule := range mt.rules {
		if rule.urlPrefix == urlPrefix {
			return rule.calls
		}
	}
	return 0
}

// Unmatched returns an error per rule that was never hit.
func (mt *MockTransport) Unmatched() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for _, rule := range mt.rules {
		if rule.calls == 0 {
			errs = append(errs, fmt.Errorf("testkit: mock for %q was never called", rule.urlPrefix))
		}
	}
	return errs
}
