package testkit

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockTransport implements http.RoundTripper. It matches outgoing requests
// against a scenario's HTTP mocks and returns synthetic responses instead of
// touching the network. The runner installs it on the shared client from
// pkg/http for the duration of one scenario.
type MockTransport struct {
	mu     sync.Mutex
	steps  []mockEntry
	strict bool
}

type mockEntry struct {
	mock  HTTPMock
	body  []byte
	calls int
}

// NewMockTransport builds a transport from the scenario's HTTP mocks,
// resolving each mock's body file up front.
func NewMockTransport(s *Scenario) (*MockTransport, error) {
	mt := &MockTransport{strict: s.StrictMocks}
	for _, m := range s.HTTPMocks {
		body, err := s.readRelative(m.BodyFile)
		if err != nil {
			return nil, err
		}
		mt.steps = append(mt.steps, mockEntry{mock: m, body: body})
	}
	return mt, nil
}

// RoundTrip intercepts the outgoing request and returns a synthetic response.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	for i := range mt.steps {
		entry := &mt.steps[i]
		if entry.mock.MatchURL != "" && !strings.HasPrefix(req.URL.String(), entry.mock.MatchURL) {
			continue
		}

		entry.calls++
		code := entry.mock.StatusCode
		if code == 0 {
			code = http.StatusOK
		}

		header := make(http.Header)
		header.Set("Content-Type", "application/json")
		return &http.Response{
			StatusCode: code,
			Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
			Header:     header,
			Body:       io.NopCloser(bytes.NewReader(entry.body)),
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

// Uncalled returns an error per mock that was never matched.
func (mt *MockTransport) Uncalled() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for _, e := range mt.steps {
		if e.calls == 0 {
			errs = append(errs, fmt.Errorf("testkit: mock for %q was never called", e.mock.MatchURL))
		}
	}
	return errs
}
